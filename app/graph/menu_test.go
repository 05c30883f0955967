package graph_test

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/graphql-go/graphql"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shashiranjanraj/dinehub/app/graph"
	"github.com/shashiranjanraj/dinehub/app/repositories"
	"github.com/shashiranjanraj/dinehub/app/services"
)

func newSchema(t *testing.T) (graphql.Schema, *services.MenuService) {
	t.Helper()
	stores := repositories.NewMemoryStores()
	menu := services.NewMenuService(stores.Menu, nil, 0, nil)
	schema, err := graph.Schema(menu)
	require.NoError(t, err)
	return schema, menu
}

func run(t *testing.T, schema graphql.Schema, query string) map[string]any {
	t.Helper()
	res := graphql.Do(graphql.Params{Schema: schema, RequestString: query, Context: context.Background()})
	require.False(t, res.HasErrors(), "%v", res.Errors)

	raw, err := json.Marshal(res.Data)
	require.NoError(t, err)
	var out map[string]any
	require.NoError(t, json.Unmarshal(raw, &out))
	return out
}

func TestMenuItemsByCategory(t *testing.T) {
	schema, menu := newSchema(t)
	ctx := context.Background()

	_, err := menu.Create(ctx, services.MenuInput{Name: "Soup", Price: 4.5, Category: "Appetizer"})
	require.NoError(t, err)
	_, err = menu.Create(ctx, services.MenuInput{Name: "Steak", Price: 21, Category: "Main Course"})
	require.NoError(t, err)

	all := run(t, schema, `{ menuItems { name price category isAvailable } }`)
	assert.Len(t, all["menuItems"], 2)

	mains := run(t, schema, `{ menuItems(category: MAIN_COURSE) { name category } }`)
	items := mains["menuItems"].([]any)
	require.Len(t, items, 1)
	assert.Equal(t, "Steak", items[0].(map[string]any)["name"])
	assert.Equal(t, "Main Course", items[0].(map[string]any)["category"])
}

func TestMenuItemByID(t *testing.T) {
	schema, menu := newSchema(t)

	item, err := menu.Create(context.Background(), services.MenuInput{Name: "Cola", Price: 2, Category: "beverage"})
	require.NoError(t, err)

	got := run(t, schema, `{ menuItem(id: "`+item.ID+`") { id name } }`)
	assert.Equal(t, item.ID, got["menuItem"].(map[string]any)["id"])

	missing := run(t, schema, `{ menuItem(id: "nope") { id } }`)
	assert.Nil(t, missing["menuItem"])
}
