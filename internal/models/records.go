package models

import "gorm.io/gorm"

// ComparisonRecord is a tracked security on the comparison board.
// Rows are kept in insertion order by ID.
type ComparisonRecord struct {
	gorm.Model
	Symbol string          `gorm:"uniqueIndex;not null"`
	Entry  ComparisonEntry `gorm:"serializer:json"`
}

// ScenarioRecord is one profit/loss scenario. Its only identity is its
// position in the ID-ordered list.
type ScenarioRecord struct {
	gorm.Model
	Scenario InvestmentScenario `gorm:"serializer:json"`
}
