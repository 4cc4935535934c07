package analytics

import (
	"math"
	"sort"

	"stock-predictor-go/internal/models"
)

// Mean returns the arithmetic mean of values, or 0 for an empty slice.
func Mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	sum := 0.0
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

// PopulationStdDev returns the population standard deviation of values
// (divides by n, not n-1), or 0 for an empty slice.
func PopulationStdDev(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	mean := Mean(values)
	variance := 0.0
	for _, v := range values {
		d := v - mean
		variance += d * d
	}
	return math.Sqrt(variance / float64(len(values)))
}

// RecentCloses returns the closes of the most recent n points of history,
// oldest first. The input may be in either order; it is not modified.
func RecentCloses(history []models.HistoricalPoint, n int) []float64 {
	sorted := make([]models.HistoricalPoint, len(history))
	copy(sorted, history)
	// YYYY-MM-DD sorts lexically
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Date < sorted[j].Date })

	if n > 0 && len(sorted) > n {
		sorted = sorted[len(sorted)-n:]
	}
	closes := make([]float64, len(sorted))
	for i, p := range sorted {
		closes[i] = p.Price
	}
	return closes
}

func round(v float64, places int) float64 {
	p := math.Pow(10, float64(places))
	return math.Round(v*p) / p
}
