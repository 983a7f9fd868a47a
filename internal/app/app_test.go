package app

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"postbot/internal/config"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	mr := miniredis.RunT(t)
	return &config.Config{
		App: config.App{
			BindAddress:     "127.0.0.1",
			Port:            "0",
			LogLevel:        "info",
			WebEnabled:      true,
			ShutdownTimeout: time.Second,
		},
		Database: config.Database{Driver: config.DriverSQLite, DSN: ":memory:"},
		Redis:    config.Redis{Addr: mr.Addr()},
		Auth:     config.Auth{JWTSecret: "secret", JWTTTL: time.Hour},
		Bot:      config.Bot{Mode: config.BotModeCommands, ListScope: config.ListScopeOwn, Workers: 1},
	}
}

func TestNewServesWeb(t *testing.T) {
	a, err := New(context.Background(), testConfig(t), zap.NewNop())
	require.NoError(t, err)
	t.Cleanup(func() { _ = a.Close() })

	require.NotNil(t, a.Handler())
	rec := httptest.NewRecorder()
	a.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/ping", nil))
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = httptest.NewRecorder()
	a.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Contains(t, rec.Body.String(), "go_goroutines")
}

func TestNewFailsWithoutRedis(t *testing.T) {
	conf := testConfig(t)
	conf.Redis.Addr = "127.0.0.1:1"

	a, err := New(context.Background(), conf, zap.NewNop())
	assert.Error(t, err)
	assert.Nil(t, a)
}

func TestNewFailsWithUnknownDriver(t *testing.T) {
	conf := testConfig(t)
	conf.Database.Driver = "oracle"

	a, err := New(context.Background(), conf, zap.NewNop())
	assert.ErrorContains(t, err, "oracle")
	assert.Nil(t, a)
}

func TestCloseAfterPartialStart(t *testing.T) {
	a := &App{}
	assert.NoError(t, a.Close())
}

func TestRunStopsOnCancel(t *testing.T) {
	a, err := New(context.Background(), testConfig(t), zap.NewNop())
	require.NoError(t, err)
	t.Cleanup(func() { _ = a.Close() })

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- a.Run(ctx) }()

	time.Sleep(50 * time.Millisecond)
	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(3 * time.Second):
		t.Fatal("app did not stop after cancel")
	}
}
