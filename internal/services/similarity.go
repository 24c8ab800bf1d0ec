package services

import (
	"math"

	"github.com/baigrayyan/music-recommender/internal/models"
)

type featureVector = [models.FeatureCount]float64

// CosineSimilarity returns dot(a,b) / (|a|*|b|). A zero vector on either
// side gives 0.
func CosineSimilarity(a, b featureVector) float64 {
	var dot, normA, normB float64
	for i := range a {
		dot += a[i] * b[i]
		normA += a[i] * a[i]
		normB += b[i] * b[i]
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}

// SimilarityRow returns the similarity of rows[i] to every row.
func SimilarityRow(rows []featureVector, i int) []float64 {
	out := make([]float64, len(rows))
	for j := range rows {
		out[j] = CosineSimilarity(rows[i], rows[j])
	}
	return out
}
