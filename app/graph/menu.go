// Package graph exposes the public menu as a read-only GraphQL schema.
package graph

import (
	"errors"

	"github.com/graphql-go/graphql"

	"github.com/shashiranjanraj/dinehub/app/models"
	"github.com/shashiranjanraj/dinehub/app/services"
	gql "github.com/shashiranjanraj/dinehub/pkg/graphql"
)

var categoryEnum = func() *graphql.Enum {
	values := graphql.EnumValueConfigMap{}
	for _, c := range models.Categories {
		values[enumName(c)] = &graphql.EnumValueConfig{Value: string(c)}
	}
	return graphql.NewEnum(graphql.EnumConfig{Name: "Category", Values: values})
}()

// enumName turns "Main Course" into MAIN_COURSE.
func enumName(c models.Category) string {
	out := make([]rune, 0, len(c))
	for _, r := range string(c) {
		switch {
		case r == ' ':
			out = append(out, '_')
		case r >= 'a' && r <= 'z':
			out = append(out, r-'a'+'A')
		default:
			out = append(out, r)
		}
	}
	return string(out)
}

var menuItemType = graphql.NewObject(graphql.ObjectConfig{
	Name: "MenuItem",
	Fields: graphql.Fields{
		"id": &graphql.Field{
			Type: graphql.NewNonNull(graphql.ID),
			Resolve: func(p graphql.ResolveParams) (any, error) {
				return p.Source.(models.MenuItem).ID, nil
			},
		},
		"name":        &graphql.Field{Type: graphql.NewNonNull(graphql.String)},
		"description": &graphql.Field{Type: graphql.String},
		"price":       &graphql.Field{Type: graphql.NewNonNull(graphql.Float)},
		"category": &graphql.Field{
			Type: graphql.NewNonNull(graphql.String),
			Resolve: func(p graphql.ResolveParams) (any, error) {
				return string(p.Source.(models.MenuItem).Category), nil
			},
		},
		"image":       &graphql.Field{Type: graphql.String},
		"isAvailable": &graphql.Field{Type: graphql.NewNonNull(graphql.Boolean)},
		"createdAt":   &graphql.Field{Type: graphql.DateTime},
		"updatedAt":   &graphql.Field{Type: graphql.DateTime},
	},
})

// MenuQuery builds the root query:
//
//	menuItems(category: Category): [MenuItem!]!
//	menuItem(id: ID!): MenuItem
func MenuQuery(menu *services.MenuService) *graphql.Object {
	return graphql.NewObject(graphql.ObjectConfig{
		Name: "Query",
		Fields: graphql.Fields{
			"menuItems": &graphql.Field{
				Type: graphql.NewNonNull(graphql.NewList(graphql.NewNonNull(menuItemType))),
				Args: graphql.FieldConfigArgument{
					"category": &graphql.ArgumentConfig{Type: categoryEnum},
				},
				Resolve: func(p graphql.ResolveParams) (any, error) {
					category, _ := p.Args["category"].(string)
					return menu.List(p.Context, category)
				},
			},
			"menuItem": &graphql.Field{
				Type: menuItemType,
				Args: graphql.FieldConfigArgument{
					"id": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.ID)},
				},
				Resolve: func(p graphql.ResolveParams) (any, error) {
					id, _ := p.Args["id"].(string)
					item, err := menu.Get(p.Context, id)
					if errors.Is(err, services.ErrNotFound) {
						return nil, nil
					}
					if err != nil {
						return nil, err
					}
					return *item, nil
				},
			},
		},
	})
}

// Schema is the complete public schema.
func Schema(menu *services.MenuService) (graphql.Schema, error) {
	return gql.NewSchema(MenuQuery(menu))
}
