package services

import (
	"errors"
	"fmt"
	"math"
	"math/rand"
	"reflect"
	"testing"

	"github.com/baigrayyan/music-recommender/internal/dataset"
	"github.com/baigrayyan/music-recommender/internal/models"
)

func song(name string, cluster int, features ...float64) models.Song {
	s := models.Song{Name: name, Artists: "['" + name + " Artist']", Year: 2000, Cluster: cluster}
	for i, v := range features {
		s.Set(i, v)
	}
	return s
}

func scenarioTable() *dataset.Table {
	return dataset.NewTable("test", []models.Song{
		song("A", 1, 1, 0),
		song("D", 1, 0, 1),
		song("E", 2, 0.3, 0.3, 0.3),
		song("C", 1, 1, 1),
		song("B", 1, 1, 0.1),
	})
}

func names(recs []models.Recommendation) []string {
	out := make([]string, len(recs))
	for i, r := range recs {
		out[i] = r.Name
	}
	return out
}

func TestRecommendScenario(t *testing.T) {
	recs, err := Recommend(scenarioTable(), "A", 2)
	if err != nil {
		t.Fatalf("Recommend: %v", err)
	}
	if got, want := names(recs), []string{"B", "C"}; !reflect.DeepEqual(got, want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	if recs[0].Rank != 1 || recs[1].Rank != 2 {
		t.Errorf("ranks = %d,%d", recs[0].Rank, recs[1].Rank)
	}
	if recs[0].Year != 2000 || recs[0].Artists != "['B Artist']" {
		t.Errorf("projection lost fields: %+v", recs[0])
	}
}

func TestRecommendSingletonCluster(t *testing.T) {
	recs, err := Recommend(scenarioTable(), "E", 5)
	if err != nil {
		t.Fatalf("Recommend: %v", err)
	}
	if recs == nil || len(recs) != 0 {
		t.Fatalf("got %v, want empty non-nil slice", recs)
	}
}

func TestRecommendUnknownSong(t *testing.T) {
	_, err := Recommend(scenarioTable(), "Unknown Song", 5)
	var nf *NotFoundError
	if !errors.As(err, &nf) {
		t.Fatalf("error = %v, want *NotFoundError", err)
	}
	if nf.Message != "Song not found in the dataset." {
		t.Errorf("message = %q", nf.Message)
	}
}

func TestRecommendIsExactMatch(t *testing.T) {
	for _, name := range []string{"a", " A", "A "} {
		if _, err := Recommend(scenarioTable(), name, 5); !IsNotFound(err) {
			t.Errorf("Recommend(%q) error = %v, want not found", name, err)
		}
	}
}

func TestRecommendInvalidCount(t *testing.T) {
	for _, n := range []int{0, -1} {
		_, err := Recommend(scenarioTable(), "A", n)
		if !errors.Is(err, ErrInvalidCount) {
			t.Errorf("n=%d: error = %v, want ErrInvalidCount", n, err)
		}
		if IsNotFound(err) {
			t.Errorf("n=%d: invalid count must not be reported as not found", n)
		}
	}
}

func TestRecommendTruncatesToCluster(t *testing.T) {
	recs, err := Recommend(scenarioTable(), "A", 10)
	if err != nil {
		t.Fatalf("Recommend: %v", err)
	}
	if got, want := names(recs), []string{"B", "C", "D"}; !reflect.DeepEqual(got, want) {
		t.Fatalf("got %v, want %v", got, want)
	}
}

func TestRecommendDuplicateTitleUsesFirstMatch(t *testing.T) {
	table := dataset.NewTable("test", []models.Song{
		song("Dup", 1, 1, 0),
		song("Near first", 1, 1, 0.05),
		song("Dup", 2, 0, 1),
		song("Near second", 2, 0.05, 1),
	})

	recs, err := Recommend(table, "Dup", 5)
	if err != nil {
		t.Fatalf("Recommend: %v", err)
	}
	if got, want := names(recs), []string{"Near first"}; !reflect.DeepEqual(got, want) {
		t.Fatalf("got %v, want %v", got, want)
	}
}

func TestRecommendDuplicateTitleInSameCluster(t *testing.T) {
	table := dataset.NewTable("test", []models.Song{
		song("Dup", 1, 1, 0),
		song("Other", 1, 0, 1),
		song("Dup", 1, 0.9, 0.1),
	})

	recs, err := Recommend(table, "Dup", 5)
	if err != nil {
		t.Fatalf("Recommend: %v", err)
	}
	// The second "Dup" is a different record, so it is a valid result.
	if got, want := names(recs), []string{"Dup", "Other"}; !reflect.DeepEqual(got, want) {
		t.Fatalf("got %v, want %v", got, want)
	}
}

func TestRecommendTiesKeepTableOrder(t *testing.T) {
	table := dataset.NewTable("test", []models.Song{
		song("Twin 1", 1, 2, 3),
		song("Query", 1, 1, 1),
		song("Twin 2", 1, 2, 3),
		song("Far", 1, 1, 0),
		song("Twin 3", 1, 2, 3),
	})

	recs, err := Recommend(table, "Query", 3)
	if err != nil {
		t.Fatalf("Recommend: %v", err)
	}
	if got, want := names(recs), []string{"Twin 1", "Twin 2", "Twin 3"}; !reflect.DeepEqual(got, want) {
		t.Fatalf("got %v, want %v", got, want)
	}
}

func TestRecommendZeroVectorQuery(t *testing.T) {
	table := dataset.NewTable("test", []models.Song{
		song("X", 1, 0.2, 0.8),
		song("Silent", 1),
		song("Y", 1, 0.7, 0.1),
	})

	recs, err := Recommend(table, "Silent", 5)
	if err != nil {
		t.Fatalf("Recommend: %v", err)
	}
	if got, want := names(recs), []string{"X", "Y"}; !reflect.DeepEqual(got, want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for _, r := range recs {
		if r.Similarity != 0 {
			t.Errorf("%s similarity = %v, want 0", r.Name, r.Similarity)
		}
	}
}

func randomTable(r *rand.Rand, size, clusters int) *dataset.Table {
	songs := make([]models.Song, size)
	for i := range songs {
		features := make([]float64, models.FeatureCount)
		for f := range features {
			features[f] = r.Float64()
		}
		features[3] *= 200 // tempo
		songs[i] = song(fmt.Sprintf("song-%03d", i), r.Intn(clusters), features...)
	}
	return dataset.NewTable("random", songs)
}

func TestRecommendProperties(t *testing.T) {
	r := rand.New(rand.NewSource(42))
	table := randomTable(r, 120, 6)

	clusterSize := make(map[int]int)
	for _, s := range table.Songs() {
		clusterSize[s.Cluster]++
	}

	for _, n := range []int{1, 5, 30} {
		for i := 0; i < table.Len(); i++ {
			query := table.At(i)
			recs, err := Recommend(table, query.Name, n)
			if err != nil {
				t.Fatalf("%s: %v", query.Name, err)
			}

			want := n
			if others := clusterSize[query.Cluster] - 1; others < want {
				want = others
			}
			if len(recs) != want {
				t.Errorf("%s n=%d: len = %d, want %d", query.Name, n, len(recs), want)
			}

			for j, rec := range recs {
				if rec.Name == query.Name {
					t.Errorf("%s appears in its own recommendations", query.Name)
				}
				if j > 0 && rec.Similarity > recs[j-1].Similarity {
					t.Errorf("%s: results not sorted at %d", query.Name, j)
				}
			}

			again, _ := Recommend(table, query.Name, n)
			if !reflect.DeepEqual(recs, again) {
				t.Errorf("%s: repeated call returned different results", query.Name)
			}
		}
	}
}

func TestCosineSimilarity(t *testing.T) {
	a := [models.FeatureCount]float64{1, 2, 3}
	b := [models.FeatureCount]float64{2, 4, 6}
	c := [models.FeatureCount]float64{-1, -2, -3}
	var zero [models.FeatureCount]float64

	if got := CosineSimilarity(a, b); math.Abs(got-1) > 1e-12 {
		t.Errorf("parallel = %v, want 1", got)
	}
	if got := CosineSimilarity(a, c); math.Abs(got+1) > 1e-12 {
		t.Errorf("opposite = %v, want -1", got)
	}
	if got := CosineSimilarity(a, zero); got != 0 {
		t.Errorf("zero vector = %v, want 0", got)
	}
}
