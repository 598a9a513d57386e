package migration

import (
	"time"

	"github.com/go-gormigrate/gormigrate/v2"
	"gorm.io/gorm"
)

func m202601121000_initial_schema() *gormigrate.Migration {
	return &gormigrate.Migration{
		ID: "202601121000",
		Migrate: func(db *gorm.DB) error {
			// it's a good practice to copy the struct inside the function,
			// so side effects are prevented if the original struct changes during the time
			type StatusEntry struct {
				ID        uint64 `gorm:"primary_key;autoIncrement:false"`
				Payload   string `gorm:"type:text"`
				CreatedAt time.Time
			}

			return db.AutoMigrate(&StatusEntry{})
		},
	}
}
