package models

import "github.com/shopspring/decimal"

// ScenarioInput is what a user enters for a profit/loss scenario.
type ScenarioInput struct {
	Symbol    string          `json:"symbol"`
	BuyPrice  decimal.Decimal `json:"buyPrice"`
	SellPrice decimal.Decimal `json:"sellPrice"`
	Shares    decimal.Decimal `json:"shares"`
	Fees      decimal.Decimal `json:"fees"`
}

// InvestmentScenario is a scenario input with its derived profit/loss figures.
type InvestmentScenario struct {
	Symbol            string          `json:"symbol"`
	BuyPrice          decimal.Decimal `json:"buyPrice"`
	SellPrice         decimal.Decimal `json:"sellPrice"`
	Shares            decimal.Decimal `json:"shares"`
	Fees              decimal.Decimal `json:"fees"`
	Investment        decimal.Decimal `json:"investment"`
	ProfitLoss        decimal.Decimal `json:"profitLoss"`
	ProfitLossPercent decimal.Decimal `json:"profitLossPercent"`
	NetProfitLoss     decimal.Decimal `json:"netProfitLoss"`
}

// ScenarioSummary aggregates a list of scenarios.
// Best and Worst are nil when there are no scenarios.
type ScenarioSummary struct {
	Count              int                 `json:"count"`
	TotalInvestment    decimal.Decimal     `json:"totalInvestment"`
	TotalNetProfitLoss decimal.Decimal     `json:"totalNetProfitLoss"`
	Best               *InvestmentScenario `json:"best,omitempty"`
	Worst              *InvestmentScenario `json:"worst,omitempty"`
}
