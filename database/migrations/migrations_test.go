package migrations_test

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shashiranjanraj/dinehub/app/models"
	"github.com/shashiranjanraj/dinehub/app/repositories"
	_ "github.com/shashiranjanraj/dinehub/database/migrations"
	"github.com/shashiranjanraj/dinehub/pkg/database"
	"github.com/shashiranjanraj/dinehub/pkg/migration"
)

func TestUpThenDown(t *testing.T) {
	ctx := context.Background()
	db, err := database.Open(ctx, "sqlite", "file::memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = database.Close(db) })

	var out bytes.Buffer
	runner := migration.NewWith(db, migration.Registered(), &out)
	require.NoError(t, runner.Run())

	for _, table := range []string{"users", "menu_items", "orders", "order_items"} {
		assert.True(t, db.Migrator().HasTable(table), table)
	}

	stores := repositories.NewGormStores("sqlite", db)
	o := models.NewOrder("u-1", "Ann", []models.LineItem{{Name: "Tea", Price: 1.5}})
	require.NoError(t, stores.Orders.Create(ctx, o))
	got, err := stores.Orders.FindByID(ctx, o.ID)
	require.NoError(t, err)
	assert.Equal(t, 1.5, got.Total)

	require.NoError(t, runner.Rollback())
	for _, table := range []string{"users", "menu_items", "orders", "order_items"} {
		assert.False(t, db.Migrator().HasTable(table), table)
	}
}
