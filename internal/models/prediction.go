package models

// Trend is the coarse direction of the current price against the recent average.
type Trend string

const (
	TrendUp     Trend = "up"
	TrendDown   Trend = "down"
	TrendStable Trend = "stable"
)

// Risk is the volatility bucket of a security.
type Risk string

const (
	RiskLow    Risk = "low"
	RiskMedium Risk = "medium"
	RiskHigh   Risk = "high"
)

// Recommendation is the buy/sell/hold label of a comparison entry.
type Recommendation string

const (
	RecommendationBuy  Recommendation = "buy"
	RecommendationSell Recommendation = "sell"
	RecommendationHold Recommendation = "hold"
)

// Prediction is the analytics derived from a quote and its price history.
// PredictionDays only labels the horizon, it does not change the analytics.
type Prediction struct {
	Symbol         string            `json:"symbol"`
	CurrentPrice   float64           `json:"currentPrice"`
	PredictedPrice float64           `json:"predictedPrice"`
	Confidence     float64           `json:"confidence"`
	Trend          Trend             `json:"trend"`
	PredictionDays int               `json:"predictionDays"`
	HistoricalData []HistoricalPoint `json:"historicalData"`
	Quote          Quote             `json:"quote"`
}

// ComparisonEntry is one row of the multi-security comparison view.
type ComparisonEntry struct {
	Symbol          string         `json:"symbol"`
	CurrentPrice    float64        `json:"currentPrice"`
	PredictedPrice  float64        `json:"predictedPrice"`
	PredictedReturn float64        `json:"predictedReturn"`
	Risk            Risk           `json:"risk"`
	Confidence      float64        `json:"confidence"`
	Recommendation  Recommendation `json:"recommendation"`
	Quote           Quote          `json:"quote"`
}
