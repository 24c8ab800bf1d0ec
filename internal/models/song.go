package models

import "time"

// FeatureCount is the length of the audio feature vector used for similarity.
const FeatureCount = 8

// FeatureNames lists the feature columns in vector order.
var FeatureNames = [FeatureCount]string{
	"valence",
	"danceability",
	"energy",
	"tempo",
	"acousticness",
	"liveness",
	"speechiness",
	"instrumentalness",
}

// Song is one row of the clustered dataset.
type Song struct {
	ID        string    `gorm:"type:varchar(64);primaryKey" json:"id,omitempty"`
	Position  int       `gorm:"not null;uniqueIndex" json:"-"`
	Name      string    `gorm:"type:varchar(512);not null;index" json:"name"`
	Artists   string    `gorm:"type:text;not null" json:"artists"`
	Year      int       `json:"year"`
	Cluster   int       `gorm:"not null;index" json:"cluster"`
	CreatedAt time.Time `json:"-"`

	AudioFeatures `gorm:"embedded"`
}

// AudioFeatures holds the numeric profile produced by the upstream
// feature extraction. Values are not range checked.
type AudioFeatures struct {
	Valence          float64 `gorm:"not null" json:"valence"`
	Danceability     float64 `gorm:"not null" json:"danceability"`
	Energy           float64 `gorm:"not null" json:"energy"`
	Tempo            float64 `gorm:"not null" json:"tempo"`
	Acousticness     float64 `gorm:"not null" json:"acousticness"`
	Liveness         float64 `gorm:"not null" json:"liveness"`
	Speechiness      float64 `gorm:"not null" json:"speechiness"`
	Instrumentalness float64 `gorm:"not null" json:"instrumentalness"`
}

// Vector returns the features in FeatureNames order.
func (f AudioFeatures) Vector() [FeatureCount]float64 {
	return [FeatureCount]float64{
		f.Valence,
		f.Danceability,
		f.Energy,
		f.Tempo,
		f.Acousticness,
		f.Liveness,
		f.Speechiness,
		f.Instrumentalness,
	}
}

// Set assigns the feature at vector index i. It reports false for an
// index outside the vector.
func (f *AudioFeatures) Set(i int, v float64) bool {
	switch i {
	case 0:
		f.Valence = v
	case 1:
		f.Danceability = v
	case 2:
		f.Energy = v
	case 3:
		f.Tempo = v
	case 4:
		f.Acousticness = v
	case 5:
		f.Liveness = v
	case 6:
		f.Speechiness = v
	case 7:
		f.Instrumentalness = v
	default:
		return false
	}
	return true
}

// Recommendation is a song suggested for a query, in ranked order.
type Recommendation struct {
	Name       string  `json:"name"`
	Year       int     `json:"year"`
	Artists    string  `json:"artists"`
	Similarity float64 `json:"similarity"`
	Rank       int     `json:"rank,omitempty"`
}

// RecommendationRow is the flattened shape rendered by the HTML page.
// Error rows carry the failure text in Artists and an empty Year.
type RecommendationRow struct {
	Name    string `json:"name"`
	Year    string `json:"year"`
	Artists string `json:"artists"`
	IsError bool   `json:"-"`
}

// RecommendationResult is what the service returns for one query.
type RecommendationResult struct {
	Song            string           `json:"song"`
	Cluster         int              `json:"cluster"`
	Recommendations []Recommendation `json:"recommendations"`
}

// DatasetInfo describes the currently loaded table.
type DatasetInfo struct {
	Source   string    `json:"source"`
	Songs    int       `json:"songs"`
	Clusters int       `json:"clusters"`
	LoadedAt time.Time `json:"loaded_at"`
}
