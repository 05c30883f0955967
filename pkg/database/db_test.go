package database_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shashiranjanraj/dinehub/pkg/database"
)

func TestOpenSQLiteMemory(t *testing.T) {
	db, err := database.Open(context.Background(), "sqlite", "file::memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = database.Close(db) })

	var one int
	require.NoError(t, db.Raw("SELECT 1").Scan(&one).Error)
	assert.Equal(t, 1, one)
}

func TestOpenUnknownDriver(t *testing.T) {
	_, err := database.Open(context.Background(), "oracle", "x")
	assert.ErrorContains(t, err, `unsupported driver "oracle"`)
}
