package marketdata

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"stock-predictor-go/internal/config"
	"stock-predictor-go/internal/models"
)

// setupTestServer creates a new test server and an AlphaVantageClient configured to use it.
func setupTestServer(handler http.Handler) (*AlphaVantageClient, *httptest.Server) {
	server := httptest.NewServer(handler)

	c := &AlphaVantageClient{
		client:  resty.New().SetBaseURL(server.URL),
		apiKey:  "test_api_key",
		logger:  zap.NewNop(),
		limiter: rate.NewLimiter(rate.Inf, 1), // Allow all requests in tests
	}
	return c, server
}

func jsonHandler(t *testing.T, function string, status int, body string) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/query", r.URL.Path)
		assert.Equal(t, function, r.URL.Query().Get("function"))
		assert.Equal(t, "test_api_key", r.URL.Query().Get("apikey"))
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	})
}

const globalQuoteBody = `{
    "Global Quote": {
        "01. symbol": "IBM",
        "02. open": "168.5000",
        "03. high": "170.1200",
        "04. low": "167.9000",
        "05. price": "169.8800",
        "06. volume": "3912345",
        "07. latest trading day": "2024-03-15",
        "08. previous close": "167.4000",
        "09. change": "2.4800",
        "10. change percent": "1.4815%"
    }
}`

const dailySeriesBody = `{
    "Meta Data": {"2. Symbol": "IBM"},
    "Time Series (Daily)": {
        "2024-03-15": {"1. open": "1", "4. close": "169.88"},
        "2024-03-13": {"1. open": "1", "4. close": "166.10"},
        "2024-03-14": {"1. open": "1", "4. close": "167.40"},
        "2024-03-12": {"1. open": "1", "4. close": "165.00"}
    }
}`

func TestAlphaVantage_GetQuote(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		c, server := setupTestServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "IBM", r.URL.Query().Get("symbol"))
			jsonHandler(t, "GLOBAL_QUOTE", http.StatusOK, globalQuoteBody).ServeHTTP(w, r)
		}))
		defer server.Close()

		q, err := c.GetQuote(context.Background(), "ibm")

		require.NoError(t, err)
		assert.Equal(t, "IBM", q.Symbol)
		assert.Equal(t, 169.88, q.CurrentPrice)
		assert.Equal(t, 2.48, q.Change)
		assert.Equal(t, 1.4815, q.ChangePercent)
		assert.Equal(t, 168.5, q.Open)
		assert.Equal(t, 170.12, q.High)
		assert.Equal(t, 167.9, q.Low)
		assert.Equal(t, 167.4, q.PreviousClose)
		assert.Equal(t, int64(3912345), q.Volume)
	})

	t.Run("EmptyGlobalQuoteIsNotFound", func(t *testing.T) {
		c, server := setupTestServer(jsonHandler(t, "GLOBAL_QUOTE", http.StatusOK, `{"Global Quote": {}}`))
		defer server.Close()

		_, err := c.GetQuote(context.Background(), "NOPE")
		assert.ErrorIs(t, err, models.ErrNotFound)
	})

	t.Run("ErrorMessageIsNotFound", func(t *testing.T) {
		c, server := setupTestServer(jsonHandler(t, "GLOBAL_QUOTE", http.StatusOK,
			`{"Error Message": "Invalid API call."}`))
		defer server.Close()

		_, err := c.GetQuote(context.Background(), "NOPE")
		assert.ErrorIs(t, err, models.ErrNotFound)
		assert.Contains(t, err.Error(), "Invalid API call")
	})

	t.Run("NoteIsRateLimited", func(t *testing.T) {
		c, server := setupTestServer(jsonHandler(t, "GLOBAL_QUOTE", http.StatusOK,
			`{"Note": "Thank you for using Alpha Vantage! Our standard API call frequency is 5 calls per minute."}`))
		defer server.Close()

		_, err := c.GetQuote(context.Background(), "IBM")
		assert.ErrorIs(t, err, models.ErrRateLimited)
	})

	t.Run("InformationIsRateLimited", func(t *testing.T) {
		c, server := setupTestServer(jsonHandler(t, "GLOBAL_QUOTE", http.StatusOK,
			`{"Information": "We have detected your API key and our standard API rate limit is 25 requests per day."}`))
		defer server.Close()

		_, err := c.GetQuote(context.Background(), "IBM")
		assert.ErrorIs(t, err, models.ErrRateLimited)
	})

	t.Run("HTTP429IsRateLimited", func(t *testing.T) {
		c, server := setupTestServer(jsonHandler(t, "GLOBAL_QUOTE", http.StatusTooManyRequests, `{}`))
		defer server.Close()

		_, err := c.GetQuote(context.Background(), "IBM")
		assert.ErrorIs(t, err, models.ErrRateLimited)
	})

	t.Run("ServerErrorIsNetworkFailure", func(t *testing.T) {
		c, server := setupTestServer(jsonHandler(t, "GLOBAL_QUOTE", http.StatusInternalServerError, `oops`))
		defer server.Close()

		_, err := c.GetQuote(context.Background(), "IBM")
		assert.ErrorIs(t, err, models.ErrNetworkFailure)
	})

	t.Run("LocalLimiterExhaustedIsRateLimited", func(t *testing.T) {
		c, server := setupTestServer(jsonHandler(t, "GLOBAL_QUOTE", http.StatusOK, globalQuoteBody))
		defer server.Close()
		c.limiter = rate.NewLimiter(rate.Limit(5.0/60), 1)

		ctx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()

		_, err := c.GetQuote(ctx, "IBM")
		require.NoError(t, err)

		// the second token is 12s away, past the 1s deadline
		_, err = c.GetQuote(ctx, "IBM")
		assert.ErrorIs(t, err, models.ErrRateLimited)
	})

	t.Run("CancelledContextWhileWaiting", func(t *testing.T) {
		c, server := setupTestServer(jsonHandler(t, "GLOBAL_QUOTE", http.StatusOK, globalQuoteBody))
		defer server.Close()

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		_, err := c.GetQuote(ctx, "IBM")
		assert.ErrorIs(t, err, context.Canceled)
		assert.NotErrorIs(t, err, models.ErrRateLimited)
	})

	t.Run("TransportFailure", func(t *testing.T) {
		c, server := setupTestServer(http.NotFoundHandler())
		server.Close()

		_, err := c.GetQuote(context.Background(), "IBM")
		assert.ErrorIs(t, err, models.ErrNetworkFailure)
	})
}

func TestAlphaVantage_GetHistory(t *testing.T) {
	t.Run("SortedAndTrimmed", func(t *testing.T) {
		c, server := setupTestServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "compact", r.URL.Query().Get("outputsize"))
			jsonHandler(t, "TIME_SERIES_DAILY", http.StatusOK, dailySeriesBody).ServeHTTP(w, r)
		}))
		defer server.Close()

		points, err := c.GetHistory(context.Background(), "IBM", 3)

		require.NoError(t, err)
		assert.Equal(t, []models.HistoricalPoint{
			{Date: "2024-03-13", Price: 166.10},
			{Date: "2024-03-14", Price: 167.40},
			{Date: "2024-03-15", Price: 169.88},
		}, points)
	})

	t.Run("FullOutputForLongWindows", func(t *testing.T) {
		c, server := setupTestServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "full", r.URL.Query().Get("outputsize"))
			jsonHandler(t, "TIME_SERIES_DAILY", http.StatusOK, dailySeriesBody).ServeHTTP(w, r)
		}))
		defer server.Close()

		points, err := c.GetHistory(context.Background(), "IBM", 365)
		require.NoError(t, err)
		assert.Len(t, points, 4)
	})

	t.Run("MissingSeriesIsNotFound", func(t *testing.T) {
		c, server := setupTestServer(jsonHandler(t, "TIME_SERIES_DAILY", http.StatusOK, `{"Meta Data": {}}`))
		defer server.Close()

		_, err := c.GetHistory(context.Background(), "IBM", 30)
		assert.ErrorIs(t, err, models.ErrNotFound)
	})
}

func TestAlphaVantage_Search(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		c, server := setupTestServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "tesco", r.URL.Query().Get("keywords"))
			jsonHandler(t, "SYMBOL_SEARCH", http.StatusOK, `{"bestMatches": [
                {"1. symbol": "TSCO.LON", "2. name": "Tesco PLC"},
                {"1. symbol": "TSCDF", "2. name": "Tesco plc"}
            ]}`).ServeHTTP(w, r)
		}))
		defer server.Close()

		symbols, err := c.Search(context.Background(), "tesco")
		require.NoError(t, err)
		assert.Equal(t, []string{"TSCO.LON", "TSCDF"}, symbols)
	})

	t.Run("CapsAtTen", func(t *testing.T) {
		body := `{"bestMatches": [`
		for i := 0; i < 12; i++ {
			if i > 0 {
				body += ","
			}
			body += `{"1. symbol": "S` + string(rune('A'+i)) + `"}`
		}
		body += `]}`

		c, server := setupTestServer(jsonHandler(t, "SYMBOL_SEARCH", http.StatusOK, body))
		defer server.Close()

		symbols, err := c.Search(context.Background(), "s")
		require.NoError(t, err)
		assert.Len(t, symbols, 10)
		assert.Equal(t, "SA", symbols[0])
	})

	t.Run("FailureIsEmpty", func(t *testing.T) {
		c, server := setupTestServer(jsonHandler(t, "SYMBOL_SEARCH", http.StatusOK, `{"Note": "slow down"}`))
		defer server.Close()

		symbols, err := c.Search(context.Background(), "tesco")
		assert.NoError(t, err)
		assert.Empty(t, symbols)
	})
}

func TestNewAlphaVantageClient(t *testing.T) {
	cfg := &config.Market{ApiKey: "k", BaseURL: "https://example.test/", RateLimit: 0, RateLimitBurst: 0}
	c := NewAlphaVantageClient(cfg, zap.NewNop())

	assert.NotNil(t, c)
	assert.Equal(t, "k", c.apiKey)
	assert.Equal(t, "https://example.test", c.client.BaseURL)
	assert.Equal(t, rate.Inf, c.limiter.Limit())
	assert.Equal(t, "alphavantage", c.Name())
}
