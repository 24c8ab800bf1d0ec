package database

import (
	"fmt"

	"gorm.io/gorm"

	"github.com/baigrayyan/music-recommender/internal/logger"
	"github.com/baigrayyan/music-recommender/internal/models"
)

// AutoMigrate creates or updates the tables the dataset source needs.
func AutoMigrate(db *gorm.DB) error {
	tables := []interface{}{
		&models.Song{},
	}

	for _, model := range tables {
		if err := db.AutoMigrate(model); err != nil {
			return fmt.Errorf("failed to migrate %T: %w", model, err)
		}
	}

	logger.Info().Msg("database migration completed")
	return nil
}
