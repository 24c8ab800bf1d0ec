package dataset

import (
	"errors"
	"sync/atomic"
	"time"

	"github.com/baigrayyan/music-recommender/internal/models"
)

var ErrEmptyDataset = errors.New("dataset contains no songs")

// Table is an ordered, read-only set of songs. It has no mutators, and
// every accessor hands out copies, so one Table can be shared by any number
// of concurrent readers.
type Table struct {
	songs    []models.Song
	source   string
	loadedAt time.Time
}

// NewTable copies songs into a new table. Positions are renumbered to
// match the slice order.
func NewTable(source string, songs []models.Song) *Table {
	owned := make([]models.Song, len(songs))
	copy(owned, songs)
	for i := range owned {
		owned[i].Position = i
	}
	return &Table{
		songs:    owned,
		source:   source,
		loadedAt: time.Now(),
	}
}

// Len returns the number of songs.
func (t *Table) Len() int { return len(t.songs) }

// At returns a copy of the song at row i.
func (t *Table) At(i int) models.Song { return t.songs[i] }

// Songs returns a copy of every row in table order.
func (t *Table) Songs() []models.Song {
	out := make([]models.Song, len(t.songs))
	copy(out, t.songs)
	return out
}

// Source names where the table was loaded from.
func (t *Table) Source() string { return t.source }

// LoadedAt is the time the table was built.
func (t *Table) LoadedAt() time.Time { return t.loadedAt }

// Info summarises the table.
func (t *Table) Info() models.DatasetInfo {
	clusters := make(map[int]struct{})
	for _, s := range t.songs {
		clusters[s.Cluster] = struct{}{}
	}
	return models.DatasetInfo{
		Source:   t.source,
		Songs:    len(t.songs),
		Clusters: len(clusters),
		LoadedAt: t.loadedAt,
	}
}

// Store publishes the current table. Replacing it swaps in a whole new
// Table; readers keep whatever snapshot they already hold.
type Store struct {
	current atomic.Pointer[Table]
}

// NewStore returns a store serving t.
func NewStore(t *Table) *Store {
	s := &Store{}
	s.current.Store(t)
	return s
}

// Current returns the table snapshot to use for one request.
func (s *Store) Current() *Table {
	return s.current.Load()
}

// Replace publishes t and returns the previous table.
func (s *Store) Replace(t *Table) *Table {
	return s.current.Swap(t)
}
