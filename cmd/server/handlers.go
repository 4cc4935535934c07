package main

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"stock-predictor-go/internal/models"
	"stock-predictor-go/internal/service"
	"stock-predictor-go/internal/workspace"
)

type ctxKey struct{}

// APIHandler holds dependencies for the API endpoints.
type APIHandler struct {
	log    *zap.Logger
	stocks *service.StockService
	board  *workspace.Board
	book   *workspace.Book
}

// NewAPIHandler creates a new APIHandler.
func NewAPIHandler(log *zap.Logger, stocks *service.StockService, board *workspace.Board, book *workspace.Book) *APIHandler {
	return &APIHandler{log: log.Named("api"), stocks: stocks, board: board, book: book}
}

// Routes builds the router for the dashboard API.
func (h *APIHandler) Routes(timeout time.Duration) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(h.requestLogger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(timeout))

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK\n"))
	})

	r.Route("/api", func(r chi.Router) {
		r.Get("/stocks/{symbol}/prediction", h.PredictionHandler)
		r.Get("/stocks/{symbol}/comparison", h.ComparisonHandler)
		r.Get("/search", h.SearchHandler)

		r.Get("/comparisons", h.ListComparisonsHandler)
		r.Post("/comparisons", h.AddComparisonHandler)
		r.Get("/comparisons/best", h.BestComparisonHandler)
		r.Delete("/comparisons/{symbol}", h.RemoveComparisonHandler)

		r.Get("/scenarios", h.ListScenariosHandler)
		r.Post("/scenarios", h.AddScenarioHandler)
		r.Get("/scenarios/summary", h.ScenarioSummaryHandler)
		r.Delete("/scenarios/{index}", h.RemoveScenarioHandler)
	})
	return r
}

// requestLogger tags each request with a correlation id and logs its outcome.
// The chi request id is echoed back so clients can quote it.
func (h *APIHandler) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		cid := uuid.New().String()
		reqID := middleware.GetReqID(r.Context())
		logger := h.log.With(zap.String("cid", cid), zap.String("request_id", reqID))
		w.Header().Set("X-Correlation-ID", cid)
		w.Header().Set(middleware.RequestIDHeader, reqID)

		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r.WithContext(context.WithValue(r.Context(), ctxKey{}, logger)))

		logger.Info("Handled request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", ww.Status()),
			zap.Duration("duration", time.Since(start)),
		)
	})
}

func (h *APIHandler) logger(r *http.Request) *zap.Logger {
	if l, ok := r.Context().Value(ctxKey{}).(*zap.Logger); ok {
		return l
	}
	return h.log
}

func (h *APIHandler) writeJSON(w http.ResponseWriter, r *http.Request, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		h.logger(r).Error("Failed to write response", zap.Error(err))
	}
}

// statusFor maps the error taxonomy onto HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, models.ErrInvalidInput), errors.Is(err, models.ErrDuplicateSymbol):
		return http.StatusBadRequest
	case errors.Is(err, models.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, models.ErrRateLimited):
		return http.StatusTooManyRequests
	case errors.Is(err, models.ErrNetworkFailure):
		return http.StatusBadGateway
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	default:
		return http.StatusInternalServerError
	}
}

func (h *APIHandler) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	if status >= http.StatusInternalServerError {
		h.logger(r).Error("Request failed", zap.Error(err))
	} else {
		h.logger(r).Info("Request rejected", zap.Int("status", status), zap.Error(err))
	}
	h.writeJSON(w, r, status, map[string]string{"error": err.Error()})
}

// PredictionHandler returns the prediction for a symbol.
func (h *APIHandler) PredictionHandler(w http.ResponseWriter, r *http.Request) {
	days := 0
	if raw := r.URL.Query().Get("days"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			h.writeError(w, r, errors.Join(models.ErrInvalidInput, err))
			return
		}
		days = n
	}

	prediction, err := h.stocks.GetStockData(r.Context(), chi.URLParam(r, "symbol"), days)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeJSON(w, r, http.StatusOK, prediction)
}

// ComparisonHandler returns the comparison entry for a symbol without
// adding it to the board.
func (h *APIHandler) ComparisonHandler(w http.ResponseWriter, r *http.Request) {
	entry, err := h.stocks.GetStockComparisonData(r.Context(), chi.URLParam(r, "symbol"))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeJSON(w, r, http.StatusOK, entry)
}

// SearchHandler returns symbols matching the q parameter.
func (h *APIHandler) SearchHandler(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, r, http.StatusOK, h.stocks.SearchStocks(r.Context(), r.URL.Query().Get("q")))
}

// ListComparisonsHandler returns the comparison board.
func (h *APIHandler) ListComparisonsHandler(w http.ResponseWriter, r *http.Request) {
	entries, err := h.board.List(r.Context())
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeJSON(w, r, http.StatusOK, entries)
}

// AddComparisonHandler adds {"symbol": "..."} to the board.
func (h *APIHandler) AddComparisonHandler(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Symbol string `json:"symbol"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		h.writeError(w, r, errors.Join(models.ErrInvalidInput, err))
		return
	}

	entry, err := h.board.Add(r.Context(), body.Symbol)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeJSON(w, r, http.StatusCreated, entry)
}

// BestComparisonHandler returns the entry with the highest predicted return.
func (h *APIHandler) BestComparisonHandler(w http.ResponseWriter, r *http.Request) {
	best, err := h.board.Best(r.Context())
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	if best == nil {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	h.writeJSON(w, r, http.StatusOK, best)
}

// RemoveComparisonHandler removes a symbol from the board.
func (h *APIHandler) RemoveComparisonHandler(w http.ResponseWriter, r *http.Request) {
	if err := h.board.Remove(r.Context(), chi.URLParam(r, "symbol")); err != nil {
		h.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ListScenariosHandler returns all scenarios in order.
func (h *APIHandler) ListScenariosHandler(w http.ResponseWriter, r *http.Request) {
	scenarios, err := h.book.List(r.Context())
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeJSON(w, r, http.StatusOK, scenarios)
}

// AddScenarioHandler computes and appends a scenario.
func (h *APIHandler) AddScenarioHandler(w http.ResponseWriter, r *http.Request) {
	var in models.ScenarioInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		h.writeError(w, r, errors.Join(models.ErrInvalidInput, err))
		return
	}

	scenario, err := h.book.Add(r.Context(), in)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeJSON(w, r, http.StatusCreated, scenario)
}

// ScenarioSummaryHandler returns totals and best/worst performers.
func (h *APIHandler) ScenarioSummaryHandler(w http.ResponseWriter, r *http.Request) {
	summary, err := h.book.Summary(r.Context())
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeJSON(w, r, http.StatusOK, summary)
}

// RemoveScenarioHandler removes the scenario at the given position.
func (h *APIHandler) RemoveScenarioHandler(w http.ResponseWriter, r *http.Request) {
	index, err := strconv.Atoi(chi.URLParam(r, "index"))
	if err != nil {
		h.writeError(w, r, errors.Join(models.ErrInvalidInput, err))
		return
	}
	if err := h.book.Remove(r.Context(), index); err != nil {
		h.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
