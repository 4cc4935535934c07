// Package workspace holds the comparison board and scenario book a dashboard
// session works with. Both live in the in-memory workspace store.
package workspace

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"stock-predictor-go/internal/models"
)

// ComparisonSource derives a comparison entry for a symbol.
type ComparisonSource interface {
	GetStockComparisonData(ctx context.Context, symbol string) (*models.ComparisonEntry, error)
}

// Board is the list of securities being compared, unique by symbol.
type Board struct {
	db     *gorm.DB
	source ComparisonSource
	logger *zap.Logger
}

// NewBoard creates a Board.
func NewBoard(db *gorm.DB, source ComparisonSource, logger *zap.Logger) *Board {
	return &Board{db: db, source: source, logger: logger.Named("board")}
}

// Add derives the entry for symbol and appends it. A symbol already on the
// board is rejected with ErrDuplicateSymbol before any market data is fetched.
func (b *Board) Add(ctx context.Context, symbol string) (*models.ComparisonEntry, error) {
	symbol = strings.ToUpper(strings.TrimSpace(symbol))
	if symbol == "" {
		return nil, fmt.Errorf("symbol is empty: %w", models.ErrInvalidInput)
	}

	var count int64
	if err := b.db.WithContext(ctx).Model(&models.ComparisonRecord{}).Where("symbol = ?", symbol).Count(&count).Error; err != nil {
		return nil, fmt.Errorf("could not check board for %s: %w", symbol, err)
	}
	if count > 0 {
		return nil, fmt.Errorf("%s: %w", symbol, models.ErrDuplicateSymbol)
	}

	entry, err := b.source.GetStockComparisonData(ctx, symbol)
	if err != nil {
		return nil, err
	}

	record := models.ComparisonRecord{Symbol: symbol, Entry: *entry}
	if err := b.db.WithContext(ctx).Create(&record).Error; err != nil {
		// lost a race with a concurrent add of the same symbol
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, fmt.Errorf("%s: %w", symbol, models.ErrDuplicateSymbol)
		}
		return nil, fmt.Errorf("could not add %s to board: %w", symbol, err)
	}

	b.logger.Info("Added security", zap.String("symbol", symbol), zap.String("recommendation", string(entry.Recommendation)))
	return entry, nil
}

// Remove drops symbol from the board. Removing an absent symbol is not an error.
func (b *Board) Remove(ctx context.Context, symbol string) error {
	symbol = strings.ToUpper(strings.TrimSpace(symbol))
	if err := b.db.WithContext(ctx).Unscoped().Where("symbol = ?", symbol).Delete(&models.ComparisonRecord{}).Error; err != nil {
		return fmt.Errorf("could not remove %s from board: %w", symbol, err)
	}
	return nil
}

// List returns the board in the order securities were added.
func (b *Board) List(ctx context.Context) ([]models.ComparisonEntry, error) {
	var records []models.ComparisonRecord
	if err := b.db.WithContext(ctx).Order("id asc").Find(&records).Error; err != nil {
		return nil, fmt.Errorf("could not list board: %w", err)
	}

	entries := make([]models.ComparisonEntry, len(records))
	for i, r := range records {
		entries[i] = r.Entry
	}
	return entries, nil
}

// Best returns the entry with the highest predicted return, or nil for an
// empty board. Ties keep the earliest entry.
func (b *Board) Best(ctx context.Context) (*models.ComparisonEntry, error) {
	entries, err := b.List(ctx)
	if err != nil {
		return nil, err
	}

	var best *models.ComparisonEntry
	for i := range entries {
		if best == nil || entries[i].PredictedReturn > best.PredictedReturn {
			best = &entries[i]
		}
	}
	return best, nil
}
