package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"postbot/internal/core/post"
	"postbot/internal/core/user"
)

func setRequiredEnv(t *testing.T) {
	t.Setenv("DB_DSN", "file::memory:")
	t.Setenv("REDIS_ADDR", "localhost:6379")
	t.Setenv("JWT_SECRET", "secret")
	t.Setenv("BOT_TOKEN", "123:abc")
}

func TestNewDefaults(t *testing.T) {
	setRequiredEnv(t)

	conf, err := New("")
	require.NoError(t, err)
	assert.Equal(t, "8080", conf.Port)
	assert.Equal(t, ":8080", conf.App.Addr())
	assert.Equal(t, DriverMySQL, conf.Database.Driver)
	assert.Equal(t, BotModeCommands, conf.Bot.Mode)
	assert.Equal(t, ListScopeOwn, conf.Bot.ListScope)
	assert.Equal(t, 1, conf.Bot.Workers)
	assert.Equal(t, 24*time.Hour, conf.JWTTTL)
	assert.Equal(t, 10*time.Minute, conf.Bot.PendingTTL)
	assert.True(t, conf.WebEnabled)
	assert.True(t, conf.BotEnabled)
}

func TestNewReadsEnvFile(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("BOT_MODE", "")
	os.Unsetenv("BOT_MODE")

	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte("BOT_MODE=menu\nAPP_PORT=9090\n"), 0o600))
	t.Setenv("APP_PORT", "")
	os.Unsetenv("APP_PORT")

	conf, err := New(path)
	require.NoError(t, err)
	assert.Equal(t, BotModeMenu, conf.Bot.Mode)
	assert.Equal(t, "9090", conf.Port)
}

func TestNewIgnoresMissingEnvFile(t *testing.T) {
	setRequiredEnv(t)
	_, err := New(filepath.Join(t.TempDir(), "absent.env"))
	assert.NoError(t, err)
}

func TestNewRequiresSecrets(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("JWT_SECRET", "")
	os.Unsetenv("JWT_SECRET")

	_, err := New("")
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		return &Config{
			App:      App{WebEnabled: true, BotEnabled: true},
			Database: Database{Driver: DriverPostgres},
			Bot:      Bot{Token: "t", Mode: BotModeMenu, ListScope: ListScopeAll, Workers: 2},
		}
	}
	require.NoError(t, valid().Validate())

	tests := map[string]func(c *Config){
		"no front-end":   func(c *Config) { c.WebEnabled, c.BotEnabled = false, false },
		"unknown driver": func(c *Config) { c.Database.Driver = "oracle" },
		"missing token":  func(c *Config) { c.Bot.Token = "" },
		"unknown mode":   func(c *Config) { c.Bot.Mode = "voice" },
		"unknown scope":  func(c *Config) { c.Bot.ListScope = "friends" },
		"no workers":     func(c *Config) { c.Bot.Workers = 0 },
	}
	for name, mutate := range tests {
		t.Run(name, func(t *testing.T) {
			c := valid()
			mutate(c)
			assert.Error(t, c.Validate())
		})
	}

	c := valid()
	c.BotEnabled = false
	c.Bot.Token = ""
	assert.NoError(t, c.Validate(), "token is only needed when the bot runs")
}

func TestDialectorForUnknownDriver(t *testing.T) {
	_, err := OpenDB(Database{Driver: "oracle"})
	assert.Error(t, err)
}

func TestOpenSQLite(t *testing.T) {
	db, err := OpenDB(Database{Driver: DriverSQLite, DSN: ":memory:"})
	require.NoError(t, err)
	require.NoError(t, Migrate(db))
	assert.True(t, db.Migrator().HasTable("posts"))
	assert.True(t, db.Migrator().HasTable("users"))
	require.NoError(t, CloseDB(db))
}

func TestSQLiteEnforcesForeignKeys(t *testing.T) {
	db, err := OpenDB(Database{Driver: DriverSQLite, DSN: ":memory:"})
	require.NoError(t, err)
	t.Cleanup(func() { _ = CloseDB(db) })
	require.NoError(t, Migrate(db))

	orphan := &post.Post{Title: "t", Description: "d", AuthorID: 999, CreatedAt: time.Now()}
	assert.Error(t, db.Omit("Author").Create(orphan).Error)

	tgID := int64(1)
	author := &user.User{TelegramID: &tgID, DisplayName: "anna"}
	require.NoError(t, db.Create(author).Error)
	p := &post.Post{Title: "t", Description: "d", AuthorID: author.ID, CreatedAt: time.Now()}
	require.NoError(t, db.Omit("Author").Create(p).Error)

	require.NoError(t, db.Delete(&user.User{}, author.ID).Error)
	var count int64
	require.NoError(t, db.Model(&post.Post{}).Count(&count).Error)
	assert.Zero(t, count, "posts are removed with their author")
}

func TestNewLogger(t *testing.T) {
	logger, err := NewLogger(App{LogLevel: "debug", LogDevelopment: true})
	require.NoError(t, err)
	assert.NotNil(t, logger)

	_, err = NewLogger(App{LogLevel: "loud"})
	assert.Error(t, err)
}
