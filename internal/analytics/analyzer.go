package analytics

import (
	"fmt"
	"math/rand"
	"sync"

	"stock-predictor-go/internal/models"
)

const (
	// DefaultWindow is the number of recent closes the analytics look at.
	DefaultWindow = 7

	momentumWeight   = 0.7
	noiseWeight      = 0.3
	highRiskRatio    = 0.04
	mediumRiskRatio  = 0.02
	buyThreshold     = 2.0
	sellThreshold    = -2.0
	trendScoreWeight = 0.5
)

// NoiseFunc returns a value in [-0.5, 0.5).
type NoiseFunc func() float64

// RandomNoise draws noise from r. The returned func is safe for concurrent use.
func RandomNoise(r *rand.Rand) NoiseFunc {
	var mu sync.Mutex
	return func() float64 {
		mu.Lock()
		defer mu.Unlock()
		return r.Float64() - 0.5
	}
}

// Analyzer derives predictions and comparison entries from market data.
// The noise term makes predicted prices non-deterministic unless a fixed
// NoiseFunc is supplied.
type Analyzer struct {
	window int
	policy ConfidencePolicy
	noise  NoiseFunc
}

// NewAnalyzer creates an Analyzer. A window <= 0 uses DefaultWindow.
func NewAnalyzer(window int, policy ConfidencePolicy, noise NoiseFunc) *Analyzer {
	if window <= 0 {
		window = DefaultWindow
	}
	if noise == nil {
		noise = func() float64 { return 0 }
	}
	return &Analyzer{window: window, policy: policy, noise: noise}
}

// Policy returns the confidence policy in use.
func (a *Analyzer) Policy() ConfidencePolicy { return a.policy }

// DerivePrediction computes trend, predicted price and confidence for quote
// from the most recent closes of history.
func (a *Analyzer) DerivePrediction(quote models.Quote, history []models.HistoricalPoint) (*models.Prediction, error) {
	price := quote.CurrentPrice
	if price <= 0 {
		return nil, fmt.Errorf("current price %.2f for %s: %w", price, quote.Symbol, models.ErrInvalidInput)
	}
	if len(history) == 0 {
		return nil, fmt.Errorf("no history for %s: %w", quote.Symbol, models.ErrInvalidInput)
	}

	recent := RecentCloses(history, a.window)
	avg := Mean(recent)
	volatility := PopulationStdDev(recent)

	trend := models.TrendStable
	if price > avg {
		trend = models.TrendUp
	} else if price < avg {
		trend = models.TrendDown
	}

	momentum := 0.0
	if avg != 0 {
		momentum = (price - avg) / avg
	}
	volatilityRatio := volatility / price
	factor := momentum*momentumWeight + a.noise()*volatilityRatio*noiseWeight

	return &models.Prediction{
		Symbol:         quote.Symbol,
		CurrentPrice:   price,
		PredictedPrice: round(price*(1+factor), 2),
		Confidence:     round(a.policy.Score(volatilityRatio), 1),
		Trend:          trend,
		HistoricalData: history,
		Quote:          quote,
	}, nil
}

// DeriveComparison turns a prediction into a comparison entry with risk tier
// and recommendation.
func (a *Analyzer) DeriveComparison(p *models.Prediction) (*models.ComparisonEntry, error) {
	if p == nil || p.CurrentPrice <= 0 {
		return nil, fmt.Errorf("comparison needs a positive current price: %w", models.ErrInvalidInput)
	}

	volatility := PopulationStdDev(RecentCloses(p.HistoricalData, a.window))

	return &models.ComparisonEntry{
		Symbol:          p.Symbol,
		CurrentPrice:    p.CurrentPrice,
		PredictedPrice:  p.PredictedPrice,
		PredictedReturn: (p.PredictedPrice - p.CurrentPrice) / p.CurrentPrice * 100,
		Risk:            ClassifyRisk(volatility, p.CurrentPrice),
		Confidence:      p.Confidence,
		Recommendation:  Recommend(p.Quote.ChangePercent, p.Trend),
		Quote:           p.Quote,
	}, nil
}

// ClassifyRisk buckets volatility relative to price.
func ClassifyRisk(volatility, price float64) models.Risk {
	switch {
	case volatility > price*highRiskRatio:
		return models.RiskHigh
	case volatility > price*mediumRiskRatio:
		return models.RiskMedium
	default:
		return models.RiskLow
	}
}

// Recommend combines the day's change percent with the trend direction.
func Recommend(changePercent float64, trend models.Trend) models.Recommendation {
	var trendScore float64
	switch trend {
	case models.TrendUp:
		trendScore = 1
	case models.TrendDown:
		trendScore = -1
	}

	overall := changePercent + trendScore*trendScoreWeight
	switch {
	case overall > buyThreshold:
		return models.RecommendationBuy
	case overall < sellThreshold:
		return models.RecommendationSell
	default:
		return models.RecommendationHold
	}
}
