package dataset

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/baigrayyan/music-recommender/internal/models"
)

const header = "valence,year,acousticness,artists,danceability,energy,id,instrumentalness,liveness,name,speechiness,tempo,Cluster"

func csvOf(rows ...string) string {
	return strings.Join(append([]string{header}, rows...), "\n") + "\n"
}

func TestReadCSV(t *testing.T) {
	body := csvOf(
		`0.5,1998,0.1,"['Artist A', 'Artist B']",0.6,0.7,abc123,0.0,0.2,Song One,0.05,120.5,3`,
		`0.9,2001.0,0.3,['Artist C'],0.4,0.8,,0.1,0.3,"Song, Two",0.04,98,3.0`,
	)

	songs, err := ReadCSV(strings.NewReader(body))
	if err != nil {
		t.Fatalf("ReadCSV: %v", err)
	}
	if len(songs) != 2 {
		t.Fatalf("got %d songs, want 2", len(songs))
	}

	first := songs[0]
	if first.Name != "Song One" || first.Artists != "['Artist A', 'Artist B']" {
		t.Errorf("unexpected first song: %+v", first)
	}
	if first.ID != "abc123" || first.Year != 1998 || first.Cluster != 3 {
		t.Errorf("unexpected id/year/cluster: %q %d %d", first.ID, first.Year, first.Cluster)
	}
	want := [models.FeatureCount]float64{0.5, 0.6, 0.7, 120.5, 0.1, 0.2, 0.05, 0.0}
	if got := first.Vector(); got != want {
		t.Errorf("Vector() = %v, want %v", got, want)
	}

	second := songs[1]
	if second.Name != "Song, Two" || second.Year != 2001 || second.Cluster != 3 || second.ID != "" {
		t.Errorf("unexpected second song: %+v", second)
	}
	if second.Position != 1 {
		t.Errorf("Position = %d, want 1", second.Position)
	}
}

func TestReadCSVSchemaErrors(t *testing.T) {
	tests := []struct {
		name   string
		body   string
		column string
	}{
		{
			name:   "missing feature column",
			body:   "name,artists,year,Cluster,valence\nA,B,2000,1,0.5\n",
			column: "danceability",
		},
		{
			name:   "non numeric feature",
			body:   csvOf(`loud,1998,0.1,X,0.6,0.7,id,0.0,0.2,Song,0.05,120,1`),
			column: "valence",
		},
		{
			name:   "non finite feature",
			body:   csvOf(`0.5,1998,0.1,X,0.6,NaN,id,0.0,0.2,Song,0.05,120,1`),
			column: "energy",
		},
		{
			name:   "fractional cluster",
			body:   csvOf(`0.5,1998,0.1,X,0.6,0.7,id,0.0,0.2,Song,0.05,120,1.5`),
			column: "cluster",
		},
		{
			name:   "bad year",
			body:   csvOf(`0.5,unknown,0.1,X,0.6,0.7,id,0.0,0.2,Song,0.05,120,1`),
			column: "year",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ReadCSV(strings.NewReader(tt.body))
			var se *SchemaError
			if !errors.As(err, &se) {
				t.Fatalf("error = %v, want *SchemaError", err)
			}
			if se.Column != tt.column {
				t.Errorf("Column = %q, want %q", se.Column, tt.column)
			}
		})
	}
}

func TestReadCSVEmpty(t *testing.T) {
	if _, err := ReadCSV(strings.NewReader("")); !errors.Is(err, ErrEmptyDataset) {
		t.Fatalf("error = %v, want ErrEmptyDataset", err)
	}
}

func TestSchemaErrorLineNumber(t *testing.T) {
	body := csvOf(
		`0.5,1998,0.1,X,0.6,0.7,id,0.0,0.2,Fine,0.05,120,1`,
		`0.5,1998,0.1,X,0.6,0.7,id,0.0,0.2,Broken,0.05,fast,1`,
	)
	_, err := ReadCSV(strings.NewReader(body))
	var se *SchemaError
	if !errors.As(err, &se) {
		t.Fatalf("error = %v, want *SchemaError", err)
	}
	if se.Line != 3 {
		t.Errorf("Line = %d, want 3", se.Line)
	}
}

func TestTableIsReadOnly(t *testing.T) {
	input := []models.Song{{Name: "A", Cluster: 1}, {Name: "B", Cluster: 2}}
	table := NewTable("test", input)

	input[0].Name = "changed"
	if table.At(0).Name != "A" {
		t.Fatal("table must not alias the input slice")
	}

	songs := table.Songs()
	songs[1].Name = "changed"
	if table.At(1).Name != "B" {
		t.Fatal("Songs() must return a copy")
	}

	s := table.At(0)
	s.Name = "changed"
	if table.At(0).Name != "A" {
		t.Fatal("At() must return a copy")
	}

	info := table.Info()
	if info.Songs != 2 || info.Clusters != 2 || info.Source != "test" {
		t.Errorf("unexpected info: %+v", info)
	}
}

func TestStoreReplace(t *testing.T) {
	first := NewTable("first", []models.Song{{Name: "A"}})
	second := NewTable("second", []models.Song{{Name: "B"}})

	store := NewStore(first)
	snapshot := store.Current()

	if prev := store.Replace(second); prev != first {
		t.Fatal("Replace should return the previous table")
	}
	if store.Current() != second {
		t.Fatal("Current should return the replacement")
	}
	if snapshot.At(0).Name != "A" {
		t.Fatal("an existing snapshot must stay unchanged")
	}
}

func TestLoadCSVSource(t *testing.T) {
	path := filepath.Join(t.TempDir(), "clustered_df.csv")
	body := csvOf(`0.5,1998,0.1,X,0.6,0.7,id,0.0,0.2,Song,0.05,120,1`)
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatal(err)
	}

	table, err := Load(context.Background(), CSVSource{Path: path})
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if table.Len() != 1 || table.Source() != "csv:"+path {
		t.Errorf("unexpected table: len=%d source=%s", table.Len(), table.Source())
	}
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(context.Background(), CSVSource{Path: filepath.Join(t.TempDir(), "nope.csv")})
	if !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("error = %v, want os.ErrNotExist", err)
	}
}

type fakeLister struct {
	songs []models.Song
	err   error
}

func (f fakeLister) GetAllSongs(context.Context) ([]models.Song, error) {
	return f.songs, f.err
}

func TestLoadRepositorySource(t *testing.T) {
	table, err := Load(context.Background(), RepositorySource{Repo: fakeLister{songs: []models.Song{{Name: "A"}}}})
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if table.Len() != 1 {
		t.Errorf("Len() = %d, want 1", table.Len())
	}

	_, err = Load(context.Background(), RepositorySource{Repo: fakeLister{}})
	if !errors.Is(err, ErrEmptyDataset) {
		t.Errorf("error = %v, want ErrEmptyDataset", err)
	}

	boom := errors.New("connection refused")
	_, err = Load(context.Background(), RepositorySource{Repo: fakeLister{err: boom}})
	if !errors.Is(err, boom) {
		t.Errorf("error = %v, want wrapped %v", err, boom)
	}
}
