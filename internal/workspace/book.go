package workspace

import (
	"context"
	"fmt"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"stock-predictor-go/internal/calculator"
	"stock-predictor-go/internal/models"
)

// Book is the ordered list of profit/loss scenarios.
type Book struct {
	db     *gorm.DB
	logger *zap.Logger
}

// NewBook creates a Book.
func NewBook(db *gorm.DB, logger *zap.Logger) *Book {
	return &Book{db: db, logger: logger.Named("book")}
}

// Add computes a scenario from in and appends it.
func (b *Book) Add(ctx context.Context, in models.ScenarioInput) (*models.InvestmentScenario, error) {
	scenario, err := calculator.NewScenario(in)
	if err != nil {
		return nil, err
	}

	if err := b.db.WithContext(ctx).Create(&models.ScenarioRecord{Scenario: *scenario}).Error; err != nil {
		return nil, fmt.Errorf("could not save scenario for %s: %w", scenario.Symbol, err)
	}

	b.logger.Debug("Added scenario",
		zap.String("symbol", scenario.Symbol),
		zap.String("net_profit_loss", scenario.NetProfitLoss.String()),
	)
	return scenario, nil
}

func (b *Book) records(ctx context.Context) ([]models.ScenarioRecord, error) {
	var records []models.ScenarioRecord
	if err := b.db.WithContext(ctx).Order("id asc").Find(&records).Error; err != nil {
		return nil, fmt.Errorf("could not list scenarios: %w", err)
	}
	return records, nil
}

// List returns the scenarios in the order they were added.
func (b *Book) List(ctx context.Context) ([]models.InvestmentScenario, error) {
	records, err := b.records(ctx)
	if err != nil {
		return nil, err
	}

	scenarios := make([]models.InvestmentScenario, len(records))
	for i, r := range records {
		scenarios[i] = r.Scenario
	}
	return scenarios, nil
}

// Remove deletes the scenario at the zero-based index. The remaining
// scenarios keep their relative order.
func (b *Book) Remove(ctx context.Context, index int) error {
	records, err := b.records(ctx)
	if err != nil {
		return err
	}
	if index < 0 || index >= len(records) {
		return fmt.Errorf("scenario index %d out of range [0,%d): %w", index, len(records), models.ErrInvalidInput)
	}

	if err := b.db.WithContext(ctx).Unscoped().Delete(&records[index]).Error; err != nil {
		return fmt.Errorf("could not remove scenario %d: %w", index, err)
	}
	return nil
}

// Summary totals the book and picks its best and worst performers.
func (b *Book) Summary(ctx context.Context) (models.ScenarioSummary, error) {
	scenarios, err := b.List(ctx)
	if err != nil {
		return models.ScenarioSummary{}, err
	}
	return calculator.Summarize(scenarios), nil
}
