package calculator

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"stock-predictor-go/internal/models"
)

var hundred = decimal.NewFromInt(100)

// NewScenario validates in and derives its profit/loss figures.
// Prices and shares must be positive, fees must not be negative.
func NewScenario(in models.ScenarioInput) (*models.InvestmentScenario, error) {
	symbol := strings.ToUpper(strings.TrimSpace(in.Symbol))
	if symbol == "" {
		return nil, fmt.Errorf("scenario symbol is empty: %w", models.ErrInvalidInput)
	}
	if !in.BuyPrice.IsPositive() || !in.SellPrice.IsPositive() {
		return nil, fmt.Errorf("buy %s and sell %s prices must be positive: %w", in.BuyPrice, in.SellPrice, models.ErrInvalidInput)
	}
	if !in.Shares.IsPositive() {
		return nil, fmt.Errorf("shares %s must be positive: %w", in.Shares, models.ErrInvalidInput)
	}
	if in.Fees.IsNegative() {
		return nil, fmt.Errorf("fees %s must not be negative: %w", in.Fees, models.ErrInvalidInput)
	}

	priceDiff := in.SellPrice.Sub(in.BuyPrice)
	profitLoss := priceDiff.Mul(in.Shares)

	return &models.InvestmentScenario{
		Symbol:            symbol,
		BuyPrice:          in.BuyPrice,
		SellPrice:         in.SellPrice,
		Shares:            in.Shares,
		Fees:              in.Fees,
		Investment:        in.BuyPrice.Mul(in.Shares),
		ProfitLoss:        profitLoss,
		ProfitLossPercent: priceDiff.Div(in.BuyPrice).Mul(hundred),
		NetProfitLoss:     profitLoss.Sub(in.Fees),
	}, nil
}

// Summarize totals scenarios and picks the best and worst performers by
// profit/loss percent. Ties keep the earliest scenario.
func Summarize(scenarios []models.InvestmentScenario) models.ScenarioSummary {
	summary := models.ScenarioSummary{
		Count:              len(scenarios),
		TotalInvestment:    decimal.Zero,
		TotalNetProfitLoss: decimal.Zero,
	}

	for i := range scenarios {
		s := &scenarios[i]
		summary.TotalInvestment = summary.TotalInvestment.Add(s.Investment)
		summary.TotalNetProfitLoss = summary.TotalNetProfitLoss.Add(s.NetProfitLoss)

		if summary.Best == nil || s.ProfitLossPercent.GreaterThan(summary.Best.ProfitLossPercent) {
			summary.Best = s
		}
		if summary.Worst == nil || s.ProfitLossPercent.LessThan(summary.Worst.ProfitLossPercent) {
			summary.Worst = s
		}
	}
	return summary
}
