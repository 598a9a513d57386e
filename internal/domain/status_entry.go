package domain

import (
	"context"
	"time"

	"github.com/statuspond/statuspond/internal/util"
)

// StatusEntry is one row in the status log. Payload is the stored JSON
// document, kept as text so the datastore stays agnostic of its shape.
type StatusEntry struct {
	ID        uint64    `gorm:"primary_key;autoIncrement:false" json:"id,string"`
	Payload   string    `gorm:"type:text" json:"payload"`
	CreatedAt time.Time `json:"created_at"`
}

func CreateStatusEntry(payload string) *StatusEntry {
	return &StatusEntry{
		ID:        util.NextID(),
		Payload:   payload,
		CreatedAt: time.Now().UTC(),
	}
}

func (r *repository) SaveStatusEntry(ctx context.Context, entry *StatusEntry) error {
	tx := r.withContext(ctx).Save(entry)

	if tx.Error != nil {
		return tx.Error
	}

	return nil
}

func (r *repository) ListRecentStatusEntries(ctx context.Context, limit int) ([]StatusEntry, error) {
	var entries []StatusEntry
	tx := r.withContext(ctx).Order("created_at desc").Limit(limit).Find(&entries)

	if tx.Error != nil {
		return nil, tx.Error
	}

	return entries, nil
}
