package database

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-gormigrate/gormigrate/v2"
	"github.com/hashicorp/go-hclog"
	"github.com/statuspond/statuspond/internal/config"
	"github.com/statuspond/statuspond/internal/database/migration"
	"github.com/statuspond/statuspond/internal/domain"
	"github.com/statuspond/statuspond/internal/pubsub"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
	gormprometheus "gorm.io/plugin/prometheus"
)

type dbLock interface {
	Lock() error
	UnlockErr(error) error
}

// OpenDB opens the datastore and returns the repository plus the
// change-notification pubsub that matches the backend: an in-process
// one for sqlite, a LISTEN/NOTIFY bridge for postgres.
func OpenDB(ctx context.Context, config *config.Database, logger hclog.Logger) (domain.Repository, pubsub.Pubsub, error) {
	db, lock, ps, err := createDB(ctx, config, logger)
	if err != nil {
		return nil, nil, err
	}

	repository := domain.NewRepository(db)

	if err := db.Use(gormprometheus.New(gormprometheus.Config{
		DBName: config.Type,
	})); err != nil {
		return nil, nil, err
	}

	if err := lock.Lock(); err != nil {
		return nil, nil, err
	}

	if err := lock.UnlockErr(migrate(db)); err != nil {
		return nil, nil, err
	}

	return repository, ps, nil
}

func createDB(ctx context.Context, config *config.Database, logger hclog.Logger) (*gorm.DB, dbLock, pubsub.Pubsub, error) {
	gormConfig := &gorm.Config{
		Logger: &GormLoggerAdapter{logger: logger.Named("db")},
	}

	switch config.Type {
	case "sqlite", "sqlite3":
		db, lock, err := newSqliteDB(config, gormConfig)
		if err != nil {
			return nil, nil, nil, err
		}
		return db, lock, pubsub.NewPubsubInMemory(), nil
	case "postgres", "postgresql":
		db, lock, err := newPostgresDB(config, gormConfig)
		if err != nil {
			return nil, nil, nil, err
		}
		stdDB, err := db.DB()
		if err != nil {
			return nil, nil, nil, err
		}
		ps, err := pubsub.NewPubsub(ctx, stdDB, config.Url)
		if err != nil {
			return nil, nil, nil, err
		}
		return db, lock, ps, nil
	}

	return nil, nil, nil, fmt.Errorf("invalid database type '%s'", config.Type)
}

func migrate(db *gorm.DB) error {
	m := gormigrate.New(db, gormigrate.DefaultOptions, migration.Migrations())

	if err := m.Migrate(); err != nil {
		return err
	}

	return nil
}

type GormLoggerAdapter struct {
	logger hclog.Logger
}

func (g *GormLoggerAdapter) LogMode(level logger.LogLevel) logger.Interface {
	return g
}

func (g *GormLoggerAdapter) Info(ctx context.Context, s string, i ...interface{}) {
	g.logger.Info(s, i)
}

func (g *GormLoggerAdapter) Warn(ctx context.Context, s string, i ...interface{}) {
	g.logger.Warn(s, i)
}

func (g *GormLoggerAdapter) Error(ctx context.Context, s string, i ...interface{}) {
	g.logger.Error(s, i)
}

func (g *GormLoggerAdapter) Trace(ctx context.Context, begin time.Time, fc func() (sql string, rowsAffected int64), err error) {
	elapsed := time.Since(begin)
	switch {
	case err != nil && !errors.Is(err, gorm.ErrRecordNotFound):
		sql, rows := fc()
		if rows == -1 {
			g.logger.Error("Error executing query", "sql", sql, "start_time", begin.Format(time.RFC3339), "duration", elapsed, "err", err)
		} else {
			g.logger.Error("Error executing query", "sql", sql, "start_time", begin.Format(time.RFC3339), "duration", elapsed, "rows", rows, "err", err)
		}
	case g.logger.IsTrace():
		sql, rows := fc()
		if rows == -1 {
			g.logger.Trace("Statement executed", "sql", sql, "start_time", begin.Format(time.RFC3339), "duration", elapsed)
		} else {
			g.logger.Trace("Statement executed", "sql", sql, "start_time", begin.Format(time.RFC3339), "duration", elapsed, "rows", rows)
		}
	}
}
