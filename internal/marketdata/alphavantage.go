package marketdata

import (
	"context"
	"fmt"
	"net/http"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/tidwall/gjson"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"stock-predictor-go/internal/config"
	"stock-predictor-go/internal/models"
)

const (
	queryPath          = "/query"
	functionQuote      = "GLOBAL_QUOTE"
	functionDaily      = "TIME_SERIES_DAILY"
	functionSearch     = "SYMBOL_SEARCH"
	liveSearchMaxHits  = 10
	compactHistoryDays = 100 // outputsize=compact returns the last 100 sessions
)

// AlphaVantageClient is a Provider backed by the Alpha Vantage REST API.
// Throttling and unknown symbols are reported inside 200 responses, so every
// body is inspected. Requests are never retried.
type AlphaVantageClient struct {
	client  *resty.Client
	apiKey  string
	logger  *zap.Logger
	limiter *rate.Limiter
}

// ensure AlphaVantageClient implements the interface
var _ Provider = (*AlphaVantageClient)(nil)

// NewAlphaVantageClient creates a new Alpha Vantage client.
func NewAlphaVantageClient(cfg *config.Market, logger *zap.Logger) *AlphaVantageClient {
	logger = logger.Named("alphavantage")
	if cfg.ApiKey == "" {
		logger.Warn("No API key configured, requests will be rejected by the provider")
	}

	client := resty.New().
		SetBaseURL(strings.TrimRight(cfg.BaseURL, "/")).
		SetTimeout(time.Duration(cfg.TimeoutSeconds) * time.Second)

	limit := rate.Limit(cfg.RateLimit)
	if cfg.RateLimit <= 0 {
		limit = rate.Inf
	}
	burst := cfg.RateLimitBurst
	if burst <= 0 {
		burst = 1
	}

	return &AlphaVantageClient{
		client:  client,
		apiKey:  cfg.ApiKey,
		logger:  logger,
		limiter: rate.NewLimiter(limit, burst),
	}
}

func (c *AlphaVantageClient) Name() string { return "alphavantage" }

// doRequest waits for the limiter, issues the GET and checks the body for the
// provider's error sentinels.
func (c *AlphaVantageClient) doRequest(ctx context.Context, params map[string]string) ([]byte, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, fmt.Errorf("rate limiter wait failed: %w", ctxErr)
		}
		// the next token is due after the request deadline
		return nil, fmt.Errorf("%w: %v", models.ErrRateLimited, err)
	}

	req := c.client.R().
		SetContext(ctx).
		SetQueryParams(params).
		SetQueryParam("apikey", c.apiKey)

	c.logger.Debug("Executing request", zap.String("function", params["function"]))
	resp, err := req.Get(queryPath)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", models.ErrNetworkFailure, err)
	}

	if resp.StatusCode() == http.StatusTooManyRequests {
		return nil, fmt.Errorf("%w: status %s", models.ErrRateLimited, resp.Status())
	}
	if resp.IsError() {
		return nil, fmt.Errorf("%w: status %s: %s", models.ErrNetworkFailure, resp.Status(), resp.String())
	}

	body := resp.Body()
	if !gjson.ValidBytes(body) {
		return nil, fmt.Errorf("%w: malformed response body", models.ErrNetworkFailure)
	}
	if msg := gjson.GetBytes(body, "Error Message"); msg.Exists() {
		return nil, fmt.Errorf("%w: %s", models.ErrNotFound, msg.String())
	}
	for _, key := range []string{"Note", "Information"} {
		if msg := gjson.GetBytes(body, key); msg.Exists() {
			return nil, fmt.Errorf("%w: %s", models.ErrRateLimited, msg.String())
		}
	}
	return body, nil
}

// GetQuote fetches GLOBAL_QUOTE for symbol.
func (c *AlphaVantageClient) GetQuote(ctx context.Context, symbol string) (*models.Quote, error) {
	symbol = strings.ToUpper(symbol)
	body, err := c.doRequest(ctx, map[string]string{
		"function": functionQuote,
		"symbol":   symbol,
	})
	if err != nil {
		c.logger.Error("Failed to get quote", zap.String("symbol", symbol), zap.Error(err))
		return nil, fmt.Errorf("failed to get quote for %s: %w", symbol, err)
	}

	q, err := parseGlobalQuote(body, symbol)
	if err != nil {
		return nil, fmt.Errorf("failed to get quote for %s: %w", symbol, err)
	}
	return q, nil
}

func parseGlobalQuote(body []byte, symbol string) (*models.Quote, error) {
	gq := gjson.GetBytes(body, "Global Quote")
	price := gq.Get("05\\. price")
	if !gq.Exists() || !price.Exists() {
		return nil, fmt.Errorf("%w: no quote fields in response", models.ErrNotFound)
	}

	if s := gq.Get("01\\. symbol").String(); s != "" {
		symbol = s
	}
	return &models.Quote{
		Symbol:        symbol,
		CurrentPrice:  price.Float(),
		Change:        gq.Get("09\\. change").Float(),
		ChangePercent: parsePercent(gq.Get("10\\. change percent").String()),
		Open:          gq.Get("02\\. open").Float(),
		High:          gq.Get("03\\. high").Float(),
		Low:           gq.Get("04\\. low").Float(),
		PreviousClose: gq.Get("08\\. previous close").Float(),
		Volume:        gq.Get("06\\. volume").Int(),
	}, nil
}

// parsePercent reads "1.2345%" as 1.2345; unparsable input yields 0.
func parsePercent(s string) float64 {
	v, err := strconv.ParseFloat(strings.TrimSuffix(strings.TrimSpace(s), "%"), 64)
	if err != nil {
		return 0
	}
	return v
}

// GetHistory fetches TIME_SERIES_DAILY and returns the most recent days
// closes, oldest first.
func (c *AlphaVantageClient) GetHistory(ctx context.Context, symbol string, days int) ([]models.HistoricalPoint, error) {
	symbol = strings.ToUpper(symbol)
	outputSize := "compact"
	if days > compactHistoryDays {
		outputSize = "full"
	}

	body, err := c.doRequest(ctx, map[string]string{
		"function":   functionDaily,
		"symbol":     symbol,
		"outputsize": outputSize,
	})
	if err != nil {
		c.logger.Error("Failed to get history", zap.String("symbol", symbol), zap.Error(err))
		return nil, fmt.Errorf("failed to get history for %s: %w", symbol, err)
	}

	points, err := parseDailySeries(body, days)
	if err != nil {
		return nil, fmt.Errorf("failed to get history for %s: %w", symbol, err)
	}
	return points, nil
}

func parseDailySeries(body []byte, days int) ([]models.HistoricalPoint, error) {
	series := gjson.GetBytes(body, "Time Series (Daily)")
	if !series.Exists() || !series.IsObject() {
		return nil, fmt.Errorf("%w: no daily series in response", models.ErrNotFound)
	}

	var points []models.HistoricalPoint
	series.ForEach(func(date, bar gjson.Result) bool {
		if price := bar.Get("4\\. close").Float(); price > 0 {
			points = append(points, models.HistoricalPoint{Date: date.String(), Price: price})
		}
		return true
	})

	sort.Slice(points, func(i, j int) bool { return points[i].Date < points[j].Date })
	if days > 0 && len(points) > days {
		points = points[len(points)-days:]
	}
	return points, nil
}

// Search queries SYMBOL_SEARCH. Search is advisory, so failures are logged
// and reported as an empty result.
func (c *AlphaVantageClient) Search(ctx context.Context, query string) ([]string, error) {
	body, err := c.doRequest(ctx, map[string]string{
		"function": functionSearch,
		"keywords": query,
	})
	if err != nil {
		c.logger.Warn("Symbol search failed", zap.String("query", query), zap.Error(err))
		return []string{}, nil
	}

	symbols := make([]string, 0, liveSearchMaxHits)
	gjson.GetBytes(body, "bestMatches").ForEach(func(_, match gjson.Result) bool {
		if s := match.Get("1\\. symbol").String(); s != "" {
			symbols = append(symbols, s)
		}
		return len(symbols) < liveSearchMaxHits
	})
	return symbols, nil
}
