package dataset

import (
	"context"
	"fmt"
	"os"

	"github.com/baigrayyan/music-recommender/internal/logger"
	"github.com/baigrayyan/music-recommender/internal/models"
)

// Source yields the rows of a clustered dataset in table order.
type Source interface {
	Name() string
	Songs(ctx context.Context) ([]models.Song, error)
}

// CSVSource reads the dataset from a CSV file.
type CSVSource struct {
	Path string
}

func (s CSVSource) Name() string { return "csv:" + s.Path }

func (s CSVSource) Songs(_ context.Context) ([]models.Song, error) {
	f, err := os.Open(s.Path)
	if err != nil {
		return nil, fmt.Errorf("open dataset: %w", err)
	}
	defer f.Close()

	songs, err := ReadCSV(f)
	if err != nil {
		return nil, fmt.Errorf("parse dataset %s: %w", s.Path, err)
	}
	return songs, nil
}

// SongLister is the part of the song repository a RepositorySource needs.
type SongLister interface {
	GetAllSongs(ctx context.Context) ([]models.Song, error)
}

// RepositorySource reads the dataset from the songs table.
type RepositorySource struct {
	Repo SongLister
}

func (s RepositorySource) Name() string { return "postgres:songs" }

func (s RepositorySource) Songs(ctx context.Context) ([]models.Song, error) {
	songs, err := s.Repo.GetAllSongs(ctx)
	if err != nil {
		return nil, fmt.Errorf("query songs: %w", err)
	}
	return songs, nil
}

// Load reads src and builds a new table from it.
func Load(ctx context.Context, src Source) (*Table, error) {
	songs, err := src.Songs(ctx)
	if err != nil {
		return nil, err
	}
	if len(songs) == 0 {
		return nil, fmt.Errorf("%s: %w", src.Name(), ErrEmptyDataset)
	}

	t := NewTable(src.Name(), songs)
	info := t.Info()
	logger.Info().
		Str("source", info.Source).
		Int("songs", info.Songs).
		Int("clusters", info.Clusters).
		Msg("dataset loaded")
	return t, nil
}
