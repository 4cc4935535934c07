package marketdata

import (
	"context"
	"math"
	"math/rand"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"stock-predictor-go/internal/models"
)

const (
	quoteVolatility   = 0.02
	historyVolatility = 0.015
	changeVolatility  = 0.5
	openVolatility    = 0.01
	intradayRange     = 0.03
	syntheticMaxHits  = 8
)

// SyntheticProvider fabricates plausible quotes and history around a seed
// price per symbol. It never fails except on context cancellation.
type SyntheticProvider struct {
	logger  *zap.Logger
	latency time.Duration
	now     func() time.Time

	mu  sync.Mutex
	rng *rand.Rand
}

// ensure SyntheticProvider implements the interface
var _ Provider = (*SyntheticProvider)(nil)

// NewSyntheticProvider creates a SyntheticProvider. latency simulates a
// network round trip; rng may be nil for a time-seeded source.
func NewSyntheticProvider(logger *zap.Logger, latency time.Duration, rng *rand.Rand) *SyntheticProvider {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &SyntheticProvider{
		logger:  logger.Named("synthetic"),
		latency: latency,
		now:     time.Now,
		rng:     rng,
	}
}

func (p *SyntheticProvider) Name() string { return "synthetic" }

func (p *SyntheticProvider) float() float64 {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.rng.Float64()
}

// jitter perturbs base by at most ±volatility/2.
func (p *SyntheticProvider) jitter(base, volatility float64) float64 {
	return base * (1 + (p.float()-0.5)*volatility)
}

func (p *SyntheticProvider) wait(ctx context.Context) error {
	if p.latency <= 0 {
		return ctx.Err()
	}
	select {
	case <-time.After(p.latency):
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func cents(v float64) float64 {
	return math.Round(v*100) / 100
}

// GetQuote generates a quote for symbol.
func (p *SyntheticProvider) GetQuote(ctx context.Context, symbol string) (*models.Quote, error) {
	if err := p.wait(ctx); err != nil {
		return nil, err
	}

	symbol = strings.ToUpper(symbol)
	base := SeedPrice(symbol)

	price := p.jitter(base, quoteVolatility)
	change := p.jitter(base*0.01, changeVolatility)
	high := price * (1 + p.float()*intradayRange)
	low := price * (1 - p.float()*intradayRange)
	volume := int64(p.float()*50_000_000) + 10_000_000
	open := p.jitter(price, openVolatility)
	marketCap := price * (p.float()*1e9 + 1e10)
	peRatio := p.float()*30 + 10
	dividendYield := p.float() * 5

	q := &models.Quote{
		Symbol:        symbol,
		CurrentPrice:  cents(price),
		Change:        cents(change),
		ChangePercent: cents(change / (price - change) * 100),
		Open:          cents(open),
		High:          cents(high),
		Low:           cents(low),
		PreviousClose: cents(price - change),
		Volume:        volume,
		MarketCap:     int64(marketCap),
		PERatio:       cents(peRatio),
		DividendYield: cents(dividendYield),
	}
	p.logger.Debug("Generated quote", zap.String("symbol", symbol), zap.Float64("price", q.CurrentPrice))
	return q, nil
}

// GetHistory generates days daily closes ending today, oldest first.
func (p *SyntheticProvider) GetHistory(ctx context.Context, symbol string, days int) ([]models.HistoricalPoint, error) {
	if err := p.wait(ctx); err != nil {
		return nil, err
	}
	if days <= 0 {
		return []models.HistoricalPoint{}, nil
	}

	base := SeedPrice(strings.ToUpper(symbol))
	today := p.now()
	points := make([]models.HistoricalPoint, 0, days)
	for i := days - 1; i >= 0; i-- {
		points = append(points, models.HistoricalPoint{
			Date:  today.AddDate(0, 0, -i).Format(models.DateLayout),
			Price: cents(p.jitter(base, historyVolatility)),
		})
	}
	return points, nil
}

// Search returns the first matches of a case-insensitive substring filter
// over the static symbol universe.
func (p *SyntheticProvider) Search(ctx context.Context, query string) ([]string, error) {
	if err := p.wait(ctx); err != nil {
		return nil, err
	}

	q := strings.ToUpper(query)
	matches := make([]string, 0, syntheticMaxHits)
	for _, s := range symbolUniverse {
		if strings.Contains(s, q) {
			matches = append(matches, s)
			if len(matches) == syntheticMaxHits {
				break
			}
		}
	}
	return matches, nil
}
