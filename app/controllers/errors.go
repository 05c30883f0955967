package controllers

import (
	"errors"
	"net/http"

	"github.com/shashiranjanraj/dinehub/app/services"
	"github.com/shashiranjanraj/dinehub/pkg/auth"
	"github.com/shashiranjanraj/dinehub/pkg/ctx"
	"github.com/shashiranjanraj/dinehub/pkg/rbac"
)

// Client-facing messages.
const (
	MsgServerError      = "Server Error"
	MsgOrderNotFound    = "Order not found"
	MsgNoItems          = "No items"
	MsgOrderRemoved     = "Order removed"
	MsgDishNotFound     = "Dish not found"
	MsgItemRemoved      = "Item successfully removed from menu"
	MsgUserExists       = "User already exists"
	MsgBadCredentials   = "Invalid email or password"
	MsgUserNotFound     = "User not found"
	MsgAdminSignupOff   = "Admin registration is disabled"
	MsgImageRequired    = "An image file is required in the \"image\" field"
	MsgNotAuthenticated = "Not authorized, no token"
)

// fail maps a service error to its HTTP response. notFound is the message
// used when the referenced record does not exist. Unclassified errors are
// logged and answered with a bare 500.
func fail(c *ctx.Context, err error, notFound string) {
	switch {
	case errors.Is(err, services.ErrNotFound):
		c.NotFound(notFound)
	case errors.Is(err, rbac.ErrForbidden):
		c.Forbidden(rbac.ForbiddenMessage(auth.RoleAdmin))
	case errors.Is(err, services.ErrEmptyOrder):
		c.Error(http.StatusBadRequest, MsgNoItems)
	case errors.Is(err, services.ErrInvalidStatus),
		errors.Is(err, services.ErrInvalidTransition),
		errors.Is(err, services.ErrInvalidItem),
		errors.Is(err, services.ErrMenuItemUnavailable),
		errors.Is(err, services.ErrInvalidCategory),
		errors.Is(err, services.ErrInvalidPrice),
		errors.Is(err, services.ErrInvalidImage),
		errors.Is(err, services.ErrInvalidRole):
		c.Error(http.StatusBadRequest, err.Error())
	case errors.Is(err, auth.ErrPasswordTooLong):
		c.Error(http.StatusBadRequest, "Password must be at most 72 bytes")
	case errors.Is(err, services.ErrEmailTaken):
		c.Error(http.StatusConflict, MsgUserExists)
	case errors.Is(err, services.ErrBadCredentials):
		c.Unauthorized(MsgBadCredentials)
	case errors.Is(err, services.ErrAdminSignupDisabled):
		c.Forbidden(MsgAdminSignupOff)
	default:
		c.Log().Error("request failed", "method", c.Method(), "path", c.Path(), "error", err)
		c.Error(http.StatusInternalServerError, MsgServerError)
	}
}

// caller returns the authenticated identity or writes a 401.
func caller(c *ctx.Context) (auth.Identity, bool) {
	id, ok := c.Identity()
	if !ok {
		c.Unauthorized(MsgNotAuthenticated)
	}
	return id, ok
}
