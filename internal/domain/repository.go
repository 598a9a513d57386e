package domain

import (
	"context"

	"gorm.io/gorm"
)

type Repository interface {
	SaveStatusEntry(ctx context.Context, entry *StatusEntry) error
	ListRecentStatusEntries(ctx context.Context, limit int) ([]StatusEntry, error)

	Transaction(func(rp Repository) error) error
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{
		db: db,
	}
}

type repository struct {
	db *gorm.DB
}

func (r *repository) withContext(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx)
}

func (r *repository) Transaction(action func(Repository) error) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		return action(NewRepository(tx))
	})
}
