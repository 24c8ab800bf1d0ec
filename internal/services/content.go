package services

import (
	"sort"
	"strings"
	"time"

	"github.com/baigrayyan/music-recommender/internal/dataset"
	"github.com/baigrayyan/music-recommender/internal/logger"
	"github.com/baigrayyan/music-recommender/internal/metrics"
	"github.com/baigrayyan/music-recommender/internal/models"
)

// Recommend returns up to n songs from queryName's cluster, most similar
// first. queryName must equal a song name exactly. When several songs share
// the name, the first one in table order is the query.
//
// Similarity is cosine similarity over the audio feature vector; a zero
// vector is similar to nothing (0). Equal similarities keep table order.
func Recommend(table *dataset.Table, queryName string, n int) ([]models.Recommendation, error) {
	recs, _, err := recommend(table, queryName, n)
	return recs, err
}

// clusterStats describes the cluster a lookup searched.
type clusterStats struct {
	id   int
	size int
}

func recommend(table *dataset.Table, queryName string, n int) ([]models.Recommendation, clusterStats, error) {
	var stats clusterStats
	if n <= 0 {
		return nil, stats, ErrInvalidCount
	}

	queryRow := -1
	for i := 0; i < table.Len(); i++ {
		if table.At(i).Name == queryName {
			queryRow = i
			break
		}
	}
	if queryRow < 0 {
		return nil, stats, &NotFoundError{Message: MsgSongNotFound}
	}
	cluster := table.At(queryRow).Cluster
	stats.id = cluster

	members := make([]models.Song, 0)
	query := -1
	for i := 0; i < table.Len(); i++ {
		song := table.At(i)
		if song.Cluster != cluster {
			continue
		}
		if i == queryRow {
			query = len(members)
		}
		members = append(members, song)
	}
	if len(members) == 0 || query < 0 {
		return nil, stats, &NotFoundError{Message: MsgEmptyCluster}
	}
	stats.size = len(members)

	rows := make([]featureVector, len(members))
	for i, song := range members {
		rows[i] = song.Vector()
	}
	similarity := SimilarityRow(rows, query)

	candidates := make([]int, 0, len(members)-1)
	for i := range members {
		if i != query {
			candidates = append(candidates, i)
		}
	}
	sort.SliceStable(candidates, func(a, b int) bool {
		return similarity[candidates[a]] > similarity[candidates[b]]
	})
	if len(candidates) > n {
		candidates = candidates[:n]
	}

	out := make([]models.Recommendation, len(candidates))
	for rank, idx := range candidates {
		song := members[idx]
		out[rank] = models.Recommendation{
			Name:       song.Name,
			Year:       song.Year,
			Artists:    song.Artists,
			Similarity: similarity[idx],
			Rank:       rank + 1,
		}
	}
	return out, stats, nil
}

type ContentBasedService interface {
	GetRecommendations(songName string, limit int) (*models.RecommendationResult, error)
	SearchSongs(query string, limit int) ([]models.Song, error)
	GetClusterSongs(cluster, limit int) ([]models.Song, error)
	DatasetInfo() (models.DatasetInfo, error)
}

type contentBasedService struct {
	store *dataset.Store
}

func NewContentBasedService(store *dataset.Store) ContentBasedService {
	return &contentBasedService{store: store}
}

func (s *contentBasedService) table() (*dataset.Table, error) {
	t := s.store.Current()
	if t == nil {
		return nil, ErrNoDataset
	}
	return t, nil
}

func (s *contentBasedService) GetRecommendations(songName string, limit int) (*models.RecommendationResult, error) {
	start := time.Now()

	table, err := s.table()
	if err != nil {
		metrics.RecommendationsTotal.WithLabelValues(metrics.OutcomeError).Inc()
		return nil, err
	}

	recs, stats, err := recommend(table, songName, limit)
	metrics.RecommendationDuration.Observe(time.Since(start).Seconds())
	if err != nil {
		outcome := metrics.OutcomeError
		if IsNotFound(err) {
			outcome = metrics.OutcomeNotFound
		}
		metrics.RecommendationsTotal.WithLabelValues(outcome).Inc()
		logger.Debug().Str("song", songName).Err(err).Msg("recommendation failed")
		return nil, err
	}
	metrics.RecommendationsTotal.WithLabelValues(metrics.OutcomeOK).Inc()
	metrics.ClusterSize.Observe(float64(stats.size))

	logger.Debug().
		Str("song", songName).
		Int("cluster", stats.id).
		Int("cluster_size", stats.size).
		Int("results", len(recs)).
		Dur("took", time.Since(start)).
		Msg("recommendations computed")

	return &models.RecommendationResult{
		Song:            songName,
		Cluster:         stats.id,
		Recommendations: recs,
	}, nil
}

func (s *contentBasedService) SearchSongs(query string, limit int) ([]models.Song, error) {
	table, err := s.table()
	if err != nil {
		return nil, err
	}

	needle := strings.ToLower(strings.TrimSpace(query))
	songs := make([]models.Song, 0)
	for i := 0; i < table.Len() && len(songs) < limit; i++ {
		song := table.At(i)
		if strings.Contains(strings.ToLower(song.Name), needle) {
			songs = append(songs, song)
		}
	}
	return songs, nil
}

func (s *contentBasedService) GetClusterSongs(cluster, limit int) ([]models.Song, error) {
	table, err := s.table()
	if err != nil {
		return nil, err
	}

	songs := make([]models.Song, 0)
	for i := 0; i < table.Len() && len(songs) < limit; i++ {
		if song := table.At(i); song.Cluster == cluster {
			songs = append(songs, song)
		}
	}
	return songs, nil
}

func (s *contentBasedService) DatasetInfo() (models.DatasetInfo, error) {
	table, err := s.table()
	if err != nil {
		return models.DatasetInfo{}, err
	}
	return table.Info(), nil
}
