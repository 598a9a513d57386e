package database

import (
	"context"
	"hash/crc32"

	"github.com/hashicorp/go-multierror"
	"github.com/statuspond/statuspond/internal/config"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func newPostgresDB(config *config.Database, g *gorm.Config) (*gorm.DB, dbLock, error) {
	db, err := gorm.Open(postgres.Open(config.Url), g)
	if err != nil {
		return nil, nil, err
	}

	return db, &pgLock{db: db}, nil
}

// pgLock serializes schema migration across processes sharing the same
// database with an advisory lock.
type pgLock struct {
	db *gorm.DB
}

func (s *pgLock) Lock() error {
	d, _ := s.db.DB()

	query := `SELECT pg_advisory_lock($1)`
	if _, err := d.ExecContext(context.Background(), query, advisoryLockID); err != nil {
		return err
	}

	return nil
}

func (s *pgLock) UnlockErr(prevErr error) error {
	if err := s.unlock(); err != nil {
		return multierror.Append(prevErr, err)
	}
	return prevErr
}

func (s *pgLock) unlock() error {
	d, _ := s.db.DB()

	query := `SELECT pg_advisory_unlock($1)`
	if _, err := d.ExecContext(context.Background(), query, advisoryLockID); err != nil {
		return err
	}

	return nil
}

var advisoryLockID = int64(crc32.ChecksumIEEE([]byte("statuspond")))
