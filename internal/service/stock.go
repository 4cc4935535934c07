// Package service exposes the stock analytics the dashboard consumes:
// predictions, comparison entries and symbol search.
package service

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"go.uber.org/zap"

	"stock-predictor-go/internal/analytics"
	"stock-predictor-go/internal/marketdata"
	"stock-predictor-go/internal/models"
)

// Forecast horizon bounds, in days. The horizon only labels a prediction.
const (
	DefaultPredictionDays = 30
	MinPredictionDays     = 7
	MaxPredictionDays     = 365
)

const (
	// DefaultHistoryDays is how many daily closes are fetched per prediction.
	DefaultHistoryDays = 30
	// DefaultMinQueryLen is the shortest query that reaches the provider.
	DefaultMinQueryLen = 2
)

// Options tunes a StockService. Zero values select the defaults.
type Options struct {
	HistoryDays int
	MinQueryLen int
}

// StockService combines a market data provider with the analyzer.
type StockService struct {
	provider    marketdata.Provider
	analyzer    *analytics.Analyzer
	logger      *zap.Logger
	historyDays int
	minQueryLen int
}

// NewStockService creates a StockService.
func NewStockService(provider marketdata.Provider, analyzer *analytics.Analyzer, logger *zap.Logger, opts Options) *StockService {
	if opts.HistoryDays <= 0 {
		opts.HistoryDays = DefaultHistoryDays
	}
	if opts.MinQueryLen <= 0 {
		opts.MinQueryLen = DefaultMinQueryLen
	}
	return &StockService{
		provider:    provider,
		analyzer:    analyzer,
		logger:      logger.Named("stock-service"),
		historyDays: opts.HistoryDays,
		minQueryLen: opts.MinQueryLen,
	}
}

func normalizeSymbol(symbol string) (string, error) {
	symbol = strings.ToUpper(strings.TrimSpace(symbol))
	if symbol == "" {
		return "", fmt.Errorf("symbol is empty: %w", models.ErrInvalidInput)
	}
	return symbol, nil
}

// fetch loads the quote and history for symbol concurrently.
func (s *StockService) fetch(ctx context.Context, symbol string) (*models.Quote, []models.HistoricalPoint, error) {
	var (
		wg                   sync.WaitGroup
		quote                *models.Quote
		history              []models.HistoricalPoint
		quoteErr, historyErr error
	)

	wg.Add(2)
	go func() {
		defer wg.Done()
		quote, quoteErr = s.provider.GetQuote(ctx, symbol)
	}()
	go func() {
		defer wg.Done()
		history, historyErr = s.provider.GetHistory(ctx, symbol, s.historyDays)
	}()
	wg.Wait()

	if quoteErr != nil {
		return nil, nil, quoteErr
	}
	if historyErr != nil {
		return nil, nil, historyErr
	}
	return quote, history, nil
}

// GetStockData returns the prediction for symbol. predictionDays only labels
// the forecast horizon; 0 selects DefaultPredictionDays.
func (s *StockService) GetStockData(ctx context.Context, symbol string, predictionDays int) (*models.Prediction, error) {
	symbol, err := normalizeSymbol(symbol)
	if err != nil {
		return nil, err
	}
	if predictionDays == 0 {
		predictionDays = DefaultPredictionDays
	}
	if predictionDays < MinPredictionDays || predictionDays > MaxPredictionDays {
		return nil, fmt.Errorf("prediction days %d outside [%d,%d]: %w",
			predictionDays, MinPredictionDays, MaxPredictionDays, models.ErrInvalidInput)
	}

	l := s.logger.With(zap.String("symbol", symbol), zap.String("provider", s.provider.Name()))

	quote, history, err := s.fetch(ctx, symbol)
	if err != nil {
		l.Warn("Failed to fetch market data", zap.Error(err))
		return nil, err
	}

	prediction, err := s.analyzer.DerivePrediction(*quote, history)
	if err != nil {
		l.Warn("Failed to derive prediction", zap.Error(err))
		return nil, err
	}
	prediction.PredictionDays = predictionDays

	l.Debug("Derived prediction",
		zap.Float64("current", prediction.CurrentPrice),
		zap.Float64("predicted", prediction.PredictedPrice),
		zap.String("trend", string(prediction.Trend)),
		zap.Float64("confidence", prediction.Confidence),
	)
	return prediction, nil
}

// GetStockComparisonData returns the comparison entry for symbol.
func (s *StockService) GetStockComparisonData(ctx context.Context, symbol string) (*models.ComparisonEntry, error) {
	prediction, err := s.GetStockData(ctx, symbol, DefaultPredictionDays)
	if err != nil {
		return nil, err
	}
	return s.analyzer.DeriveComparison(prediction)
}

// SearchStocks looks up symbols matching query. Queries shorter than the
// minimum length return no results without reaching the provider, and
// provider failures are reported as no results.
func (s *StockService) SearchStocks(ctx context.Context, query string) []string {
	query = strings.TrimSpace(query)
	if len([]rune(query)) < s.minQueryLen {
		return []string{}
	}

	symbols, err := s.provider.Search(ctx, query)
	if err != nil {
		s.logger.Warn("Search failed", zap.String("query", query), zap.Error(err))
		return []string{}
	}
	if symbols == nil {
		return []string{}
	}
	return symbols
}
