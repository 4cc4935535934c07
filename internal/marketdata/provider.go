// Package marketdata supplies quotes, daily history and symbol lookups,
// either generated locally or fetched from Alpha Vantage.
package marketdata

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"stock-predictor-go/internal/config"
	"stock-predictor-go/internal/models"
)

// Provider is the source of market data used by the stock service.
type Provider interface {
	// Name identifies the provider in logs.
	Name() string

	// GetQuote returns the current quote for symbol.
	GetQuote(ctx context.Context, symbol string) (*models.Quote, error)

	// GetHistory returns up to days daily closes, oldest first.
	GetHistory(ctx context.Context, symbol string, days int) ([]models.HistoricalPoint, error)

	// Search returns symbols matching query. Callers enforce any minimum query length.
	Search(ctx context.Context, query string) ([]string, error)
}

// NewProvider builds the provider selected by cfg.Mode.
func NewProvider(cfg *config.Market, logger *zap.Logger) (Provider, error) {
	switch strings.ToLower(cfg.Mode) {
	case "", config.ModeSynthetic:
		latency := time.Duration(cfg.SimulatedLatency) * time.Millisecond
		return NewSyntheticProvider(logger, latency, nil), nil
	case config.ModeLive:
		return NewAlphaVantageClient(cfg, logger), nil
	default:
		return nil, fmt.Errorf("unknown market data mode %q", cfg.Mode)
	}
}
