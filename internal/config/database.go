package config

import (
	"fmt"

	"github.com/glebarez/sqlite"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/stdlib"
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"postbot/internal/core/post"
	"postbot/internal/core/user"
)

const (
	DriverMySQL    = "mysql"
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

// OpenDB connects gorm to the configured driver. Driver errors are translated
// so repositories can match gorm.ErrDuplicatedKey.
func OpenDB(conf Database) (*gorm.DB, error) {
	dialector, err := dialectorFor(conf)
	if err != nil {
		return nil, err
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("connect %s: %w", conf.Driver, err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("get raw DB: %w", err)
	}
	if conf.Driver == DriverSQLite {
		// sqlite serializes writers; a single connection also keeps an
		// in-memory database alive for the pool's lifetime.
		sqlDB.SetMaxOpenConns(1)
		// foreign keys are off by default and the setting is per connection;
		// the pool above holds exactly one.
		if err := db.Exec("PRAGMA foreign_keys = ON").Error; err != nil {
			return nil, fmt.Errorf("enable sqlite foreign keys: %w", err)
		}
	} else if conf.MaxOpenConns > 0 {
		sqlDB.SetMaxOpenConns(conf.MaxOpenConns)
	}
	return db, nil
}

func dialectorFor(conf Database) (gorm.Dialector, error) {
	switch conf.Driver {
	case DriverMySQL:
		return mysql.Open(conf.DSN), nil
	case DriverPostgres:
		pgConf, err := pgx.ParseConfig(conf.DSN)
		if err != nil {
			return nil, fmt.Errorf("parse postgres dsn: %w", err)
		}
		pgConf.DefaultQueryExecMode = pgx.QueryExecModeCacheStatement
		pgConf.StatementCacheCapacity = 256
		return postgres.New(postgres.Config{Conn: stdlib.OpenDB(*pgConf)}), nil
	case DriverSQLite:
		return sqlite.Open(conf.DSN), nil
	default:
		return nil, fmt.Errorf("unknown database driver %q", conf.Driver)
	}
}

// Migrate creates or updates the users and posts tables.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(&user.User{}, &post.Post{}); err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}
	return nil
}

// CloseDB closes the pool behind db.
func CloseDB(db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return fmt.Errorf("get raw DB: %w", err)
	}
	return sqlDB.Close()
}
