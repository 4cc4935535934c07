package models

// Quote is a point-in-time snapshot of a security's price and trading statistics.
type Quote struct {
	Symbol        string  `json:"symbol"`
	CurrentPrice  float64 `json:"currentPrice"`
	Change        float64 `json:"change"`
	ChangePercent float64 `json:"changePercent"`
	Open          float64 `json:"open"`
	High          float64 `json:"high"`
	Low           float64 `json:"low"`
	PreviousClose float64 `json:"previousClose"`
	Volume        int64   `json:"volume"`
	MarketCap     int64   `json:"marketCap"`
	PERatio       float64 `json:"peRatio"`
	DividendYield float64 `json:"dividendYield"`
}

// HistoricalPoint is a single daily close. Date is formatted YYYY-MM-DD.
type HistoricalPoint struct {
	Date  string  `json:"date"`
	Price float64 `json:"price"`
}

// DateLayout is the calendar-day format used by HistoricalPoint.Date.
const DateLayout = "2006-01-02"
