package db

import (
	"fmt"  // Error wrapping
	"time" // UTC clock for gorm

	"onesi/internal/config" // Configuration
	"onesi/internal/domain" // Importing domain models

	"github.com/sirupsen/logrus" // Logging library
	"gorm.io/driver/mysql"       // MySQL driver for GORM
	"gorm.io/driver/postgres"    // PostgreSQL driver for GORM
	"gorm.io/gorm"               // GORM ORM library
	"gorm.io/gorm/logger"        // GORM logger levels
)

// Models lists every table managed by Migrate
var Models = []any{
	&domain.User{},
	&domain.Link{},
	&domain.Product{},
	&domain.Collection{},
	&domain.Click{},
}

// Open connects to the SQL database selected by cfg.DBDriver
func Open(cfg *config.Config) (*gorm.DB, error) {
	var dialector gorm.Dialector
	switch cfg.DBDriver {
	case config.DriverMySQL:
		dialector = mysql.Open(cfg.DSN()) // MySQL via go-sql-driver
	case config.DriverPostgres:
		dialector = postgres.Open(cfg.DSN()) // PostgreSQL via pgx
	default:
		return nil, fmt.Errorf("driver %q is not a SQL driver", cfg.DBDriver)
	}
	logLevel := logger.Warn
	if cfg.IsProd {
		logLevel = logger.Error // Quieter SQL logging in production
	}
	db, err := gorm.Open(dialector, &gorm.Config{
		NowFunc:        func() time.Time { return time.Now().UTC() }, // Timestamps are stored in UTC
		TranslateError: true,                                         // Unique violations become gorm.ErrDuplicatedKey
		Logger:         logger.Default.LogMode(logLevel),
	})
	if err != nil {
		return nil, fmt.Errorf("connect %s: %w", cfg.DBDriver, err)
	}
	return db, nil
}

// Migrate performs automatic migration for the database schema
func Migrate(db *gorm.DB) error {
	// AutoMigrate will create tables, missing foreign keys, constraints, columns and indexes
	if err := db.AutoMigrate(Models...); err != nil {
		return fmt.Errorf("migration failed: %w", err)
	}
	logrus.WithField("tables", len(Models)).Info("Migration completed.") // Log successful migration
	return nil
}
