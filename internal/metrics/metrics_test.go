package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestRecordDatasetLoad(t *testing.T) {
	RecordDatasetLoad(170653, 1700000000)

	if got := testutil.ToFloat64(DatasetSongs); got != 170653 {
		t.Errorf("dataset_songs = %v, want 170653", got)
	}
	if got := testutil.ToFloat64(DatasetLoadedTimestamp); got != 1700000000 {
		t.Errorf("dataset_loaded_timestamp = %v, want 1700000000", got)
	}
}

func TestRecommendationsTotalLabels(t *testing.T) {
	before := testutil.ToFloat64(RecommendationsTotal.WithLabelValues(OutcomeNotFound))
	RecommendationsTotal.WithLabelValues(OutcomeNotFound).Inc()
	after := testutil.ToFloat64(RecommendationsTotal.WithLabelValues(OutcomeNotFound))

	if after-before != 1 {
		t.Errorf("counter moved by %v, want 1", after-before)
	}
}
