package services

import (
	"context"
	"fmt"

	"github.com/baigrayyan/music-recommender/internal/dataset"
	"github.com/baigrayyan/music-recommender/internal/logger"
	"github.com/baigrayyan/music-recommender/internal/metrics"
	"github.com/baigrayyan/music-recommender/internal/models"
)

// SongWriter persists a full dataset.
type SongWriter interface {
	ReplaceAllSongs(ctx context.Context, songs []models.Song) (int64, error)
}

type DatasetService interface {
	Reload(ctx context.Context) (models.DatasetInfo, error)
	Import(ctx context.Context) (int64, error)
}

type datasetService struct {
	store  *dataset.Store
	source dataset.Source
	writer SongWriter
}

// NewDatasetService reloads from source into store. writer may be nil when
// no database is configured; Import then fails with ErrDatabaseUnavailable.
func NewDatasetService(store *dataset.Store, source dataset.Source, writer SongWriter) DatasetService {
	return &datasetService{store: store, source: source, writer: writer}
}

// Reload builds a new table from the source and publishes it. On failure the
// current table keeps serving.
func (s *datasetService) Reload(ctx context.Context) (models.DatasetInfo, error) {
	table, err := dataset.Load(ctx, s.source)
	if err != nil {
		metrics.DatasetReloadsTotal.WithLabelValues("failed").Inc()
		logger.Error().Err(err).Str("source", s.source.Name()).Msg("dataset reload failed")
		return models.DatasetInfo{}, err
	}

	s.store.Replace(table)
	metrics.DatasetReloadsTotal.WithLabelValues("ok").Inc()
	metrics.RecordDatasetLoad(table.Len(), table.LoadedAt().Unix())
	return table.Info(), nil
}

// Import writes the table currently being served into the database.
func (s *datasetService) Import(ctx context.Context) (int64, error) {
	if s.writer == nil {
		return 0, ErrDatabaseUnavailable
	}
	table := s.store.Current()
	if table == nil {
		return 0, ErrNoDataset
	}

	n, err := s.writer.ReplaceAllSongs(ctx, table.Songs())
	if err != nil {
		return 0, fmt.Errorf("import dataset: %w", err)
	}
	return n, nil
}
