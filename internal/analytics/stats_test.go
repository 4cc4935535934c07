package analytics

import (
	"testing"

	"stock-predictor-go/internal/models"

	"github.com/stretchr/testify/assert"
)

func TestMeanAndPopulationStdDev(t *testing.T) {
	testCases := []struct {
		name   string
		values []float64
		mean   float64
		std    float64
	}{
		{name: "Empty", values: nil, mean: 0, std: 0},
		{name: "Constant", values: []float64{10, 10, 10, 10}, mean: 10, std: 0},
		{name: "Textbook", values: []float64{2, 4, 4, 4, 5, 5, 7, 9}, mean: 5, std: 2},
		{name: "Single", values: []float64{42}, mean: 42, std: 0},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.InDelta(t, tc.mean, Mean(tc.values), 1e-9)
			assert.InDelta(t, tc.std, PopulationStdDev(tc.values), 1e-9)
		})
	}
}

func TestRecentCloses(t *testing.T) {
	history := []models.HistoricalPoint{
		{Date: "2024-01-05", Price: 5},
		{Date: "2024-01-01", Price: 1},
		{Date: "2024-01-03", Price: 3},
		{Date: "2024-01-04", Price: 4},
		{Date: "2024-01-02", Price: 2},
	}

	assert.Equal(t, []float64{3, 4, 5}, RecentCloses(history, 3))
	assert.Equal(t, []float64{1, 2, 3, 4, 5}, RecentCloses(history, 10))
	// input order untouched
	assert.Equal(t, "2024-01-05", history[0].Date)
}
