package database

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func TestMigrateCreatesAllTables(t *testing.T) {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	for _, table := range Tables() {
		assert.False(t, db.Migrator().HasTable(table), "table %s must not exist before Migrate", table)
	}

	require.NoError(t, Migrate(db))

	for _, table := range Tables() {
		assert.True(t, db.Migrator().HasTable(table), "table %s missing after Migrate", table)
	}

	// Migrate is safe to run against an already-applied schema.
	assert.NoError(t, Migrate(db))
}
