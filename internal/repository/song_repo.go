package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/baigrayyan/music-recommender/internal/logger"
	"github.com/baigrayyan/music-recommender/internal/models"
)

var ErrNoDatabase = errors.New("database is not configured")

const importBatchSize = 1000

type SongRepository interface {
	GetAllSongs(ctx context.Context) ([]models.Song, error)
	ReplaceAllSongs(ctx context.Context, songs []models.Song) (int64, error)
	CountSongs(ctx context.Context) (int64, error)
}

type songRepo struct {
	db *gorm.DB
}

func NewSongRepository(db *gorm.DB) SongRepository {
	return &songRepo{db: db}
}

// GetAllSongs returns every song in dataset order.
func (r *songRepo) GetAllSongs(ctx context.Context) ([]models.Song, error) {
	if r.db == nil {
		return nil, ErrNoDatabase
	}

	var songs []models.Song
	err := r.db.WithContext(ctx).Order("position ASC").Find(&songs).Error
	if err != nil {
		return nil, err
	}
	if songs == nil {
		songs = []models.Song{}
	}
	logger.Debug().Int("songs", len(songs)).Msg("[Repository GetAllSongs] fetched")
	return songs, nil
}

// ReplaceAllSongs swaps the stored dataset for songs in one transaction.
// Songs without an id, or repeating one already seen, get a fresh UUID.
func (r *songRepo) ReplaceAllSongs(ctx context.Context, songs []models.Song) (int64, error) {
	if r.db == nil {
		return 0, ErrNoDatabase
	}

	rows := prepareForImport(songs)
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(&models.Song{}).Error; err != nil {
			return err
		}
		if len(rows) == 0 {
			return nil
		}
		return tx.CreateInBatches(rows, importBatchSize).Error
	})
	if err != nil {
		return 0, err
	}

	logger.Info().Int("songs", len(rows)).Msg("[Repository ReplaceAllSongs] dataset stored")
	return int64(len(rows)), nil
}

func (r *songRepo) CountSongs(ctx context.Context) (int64, error) {
	if r.db == nil {
		return 0, ErrNoDatabase
	}
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Song{}).Count(&count).Error
	return count, err
}

func prepareForImport(songs []models.Song) []models.Song {
	rows := make([]models.Song, len(songs))
	seen := make(map[string]bool, len(songs))
	for i, s := range songs {
		if s.ID == "" || seen[s.ID] {
			s.ID = uuid.NewString()
		}
		seen[s.ID] = true
		s.Position = i
		rows[i] = s
	}
	return rows
}
