// Package database opens the gorm connection used by the SQL store drivers.
package database

import (
	"context"
	"fmt"
	"time"

	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/driver/sqlserver"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/shashiranjanraj/dinehub/pkg/logger"
)

var dialectors = map[string]func(dsn string) gorm.Dialector{
	"sqlite":    sqlite.Open,
	"postgres":  postgres.Open,
	"mysql":     mysql.Open,
	"sqlserver": sqlserver.Open,
}

// pool sizes the database/sql pool per driver.
type pool struct {
	open, idle      int
	lifetime, idled time.Duration
}

func poolFor(driver string) pool {
	if driver == "sqlite" {
		// one writer, or concurrent requests hit "database is locked"
		return pool{open: 1, idle: 1, lifetime: 5 * time.Minute, idled: 2 * time.Minute}
	}
	return pool{open: 25, idle: 10, lifetime: 5 * time.Minute, idled: 2 * time.Minute}
}

// slowQueries forwards gorm's slow-query and error lines to the app logger.
type slowQueries struct{}

func (slowQueries) Printf(format string, args ...interface{}) {
	logger.Warn("database: " + fmt.Sprintf(format, args...))
}

// Open connects with the named driver, sizes the pool and pings.
func Open(ctx context.Context, driver, dsn string) (*gorm.DB, error) {
	dial, ok := dialectors[driver]
	if !ok {
		return nil, fmt.Errorf("database: unsupported driver %q", driver)
	}

	db, err := gorm.Open(dial(dsn), &gorm.Config{
		TranslateError: true,
		Logger: gormlogger.New(slowQueries{}, gormlogger.Config{
			SlowThreshold:             200 * time.Millisecond,
			LogLevel:                  gormlogger.Warn,
			IgnoreRecordNotFoundError: true,
		}),
	})
	if err != nil {
		return nil, fmt.Errorf("database: open %s: %w", driver, err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("database: %w", err)
	}
	p := poolFor(driver)
	sqlDB.SetMaxOpenConns(p.open)
	sqlDB.SetMaxIdleConns(p.idle)
	sqlDB.SetConnMaxLifetime(p.lifetime)
	sqlDB.SetConnMaxIdleTime(p.idled)

	if err := sqlDB.PingContext(ctx); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("database: ping %s: %w", driver, err)
	}
	return db, nil
}

// Close releases the pool behind db.
func Close(db *gorm.DB) error {
	if db == nil {
		return nil
	}
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
