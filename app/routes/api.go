// Package routes maps the public API onto the controllers.
package routes

import (
	"net/http"

	"github.com/shashiranjanraj/dinehub/app/controllers"
	"github.com/shashiranjanraj/dinehub/app/services"
	"github.com/shashiranjanraj/dinehub/pkg/auth"
	"github.com/shashiranjanraj/dinehub/pkg/ctx"
	"github.com/shashiranjanraj/dinehub/pkg/middleware"
	"github.com/shashiranjanraj/dinehub/pkg/rbac"
	"github.com/shashiranjanraj/dinehub/pkg/router"
)

// Deps carries what the API handlers need.
type Deps struct {
	Gate   *auth.Gate
	Auth   *services.AuthService
	Menu   *services.MenuService
	Orders *services.OrderService

	// GraphQL, when set, is mounted on /graphql.
	GraphQL http.Handler
}

func RegisterAPI(r *router.Router, d Deps) {
	users := controllers.NewAuthController(d.Auth)
	menu := controllers.NewMenuController(d.Menu)
	orders := controllers.NewOrderController(d.Orders)

	authenticated := middleware.Authenticate(d.Gate)

	api := r.Group("/api")

	// ─── Users ───────────────────────────────────────────────────────────
	api.Post("/users/register", "users.register", ctx.Wrap(users.Register))
	api.Post("/users/login", "users.login", ctx.Wrap(users.Login))
	api.Get("/users/profile", "users.profile", ctx.Wrap(users.Profile), authenticated)

	// ─── Menu ────────────────────────────────────────────────────────────
	api.Get("/menu-items", "menu.index", ctx.Wrap(menu.Index))
	api.Get("/menu-items/{id}", "menu.show", ctx.Wrap(menu.Show))

	menuAdmin := api.Group("/menu-items", authenticated, rbac.Admin)
	menuAdmin.Post("", "menu.store", ctx.Wrap(menu.Store))
	menuAdmin.Put("/{id}", "menu.update", ctx.Wrap(menu.Update))
	menuAdmin.Delete("/{id}", "menu.destroy", ctx.Wrap(menu.Destroy))
	menuAdmin.Post("/{id}/image", "menu.image", ctx.Wrap(menu.UploadImage))

	// ─── Orders ──────────────────────────────────────────────────────────
	api.Post("/orders", "orders.store", ctx.Wrap(orders.Store), authenticated)

	orderAdmin := api.Group("/orders", authenticated, rbac.Admin)
	orderAdmin.Get("", "orders.index", ctx.Wrap(orders.Index))
	orderAdmin.Get("/{id}", "orders.show", ctx.Wrap(orders.Show))
	orderAdmin.Put("/{id}", "orders.update", ctx.Wrap(orders.Update))
	orderAdmin.Delete("/{id}", "orders.destroy", ctx.Wrap(orders.Destroy))

	if d.GraphQL != nil {
		r.Handle("/graphql", "graphql", d.GraphQL)
	}
}
