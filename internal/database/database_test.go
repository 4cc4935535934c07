package database

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stock-predictor-go/internal/config"
	"stock-predictor-go/internal/models"
)

func TestNewDatabase(t *testing.T) {
	db, err := NewDatabase(&config.Database{DSN: "file::memory:"})
	require.NoError(t, err)

	assert.True(t, db.Migrator().HasTable(&models.ComparisonRecord{}))
	assert.True(t, db.Migrator().HasTable(&models.ScenarioRecord{}))

	require.NoError(t, db.Create(&models.ScenarioRecord{}).Error)

	// migrating again starts from an empty workspace
	require.NoError(t, AutoMigrate(db))
	var count int64
	require.NoError(t, db.Model(&models.ScenarioRecord{}).Count(&count).Error)
	assert.Zero(t, count)
}
