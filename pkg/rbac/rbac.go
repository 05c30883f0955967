// Package rbac provides role-based access control for dinehub.
package rbac

import (
	"context"
	"errors"
	"net/http"

	"github.com/shashiranjanraj/dinehub/pkg/auth"
	"github.com/shashiranjanraj/dinehub/pkg/response"
)

// ErrForbidden is returned when the caller lacks the required role, or when
// no caller identity is attached at all.
var ErrForbidden = errors.New("rbac: forbidden")

// RequireRole succeeds only if the identity in ctx holds exactly role.
// There is no hierarchy: an admin does not satisfy RequireRole(ctx, "customer").
func RequireRole(ctx context.Context, role string) error {
	id, ok := auth.IdentityFrom(ctx)
	if !ok || id.Role != role {
		return ErrForbidden
	}
	return nil
}

// HasRole returns middleware that allows access only to callers holding one
// of roles. The auth middleware must have run first.
func HasRole(roles ...string) func(http.Handler) http.Handler {
	msg := ForbiddenMessage(roles...)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			for _, role := range roles {
				if RequireRole(r.Context(), role) == nil {
					next.ServeHTTP(w, r)
					return
				}
			}
			response.Error(w, http.StatusForbidden, msg)
		})
	}
}

// Admin is HasRole(auth.RoleAdmin).
func Admin(next http.Handler) http.Handler {
	return HasRole(auth.RoleAdmin)(next)
}

// ForbiddenMessage is the client-facing text for a role violation.
func ForbiddenMessage(roles ...string) string {
	if len(roles) != 1 {
		return "Not authorized"
	}
	switch roles[0] {
	case auth.RoleAdmin:
		return "Not authorized as an admin"
	default:
		return "Not authorized as a " + roles[0]
	}
}
