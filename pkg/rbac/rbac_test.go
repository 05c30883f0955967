package rbac_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/shashiranjanraj/dinehub/pkg/auth"
	"github.com/shashiranjanraj/dinehub/pkg/rbac"
)

func withRole(role string) context.Context {
	return auth.WithIdentity(context.Background(), auth.Identity{ID: "u-1", Role: role})
}

func TestRequireRole(t *testing.T) {
	assert.NoError(t, rbac.RequireRole(withRole(auth.RoleAdmin), auth.RoleAdmin))
	assert.ErrorIs(t, rbac.RequireRole(withRole(auth.RoleCustomer), auth.RoleAdmin), rbac.ErrForbidden)
	assert.ErrorIs(t, rbac.RequireRole(withRole(auth.RoleAdmin), auth.RoleCustomer), rbac.ErrForbidden, "no role hierarchy")
	assert.ErrorIs(t, rbac.RequireRole(context.Background(), auth.RoleAdmin), rbac.ErrForbidden, "fails closed without identity")
}

func TestAdminMiddleware(t *testing.T) {
	reached := false
	h := rbac.Admin(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		reached = true
		w.WriteHeader(http.StatusNoContent)
	}))

	cases := []struct {
		name    string
		ctx     context.Context
		status  int
		reached bool
	}{
		{"admin", withRole(auth.RoleAdmin), http.StatusNoContent, true},
		{"customer", withRole(auth.RoleCustomer), http.StatusForbidden, false},
		{"anonymous", context.Background(), http.StatusForbidden, false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			reached = false
			rec := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodGet, "/", nil).WithContext(tc.ctx)
			h.ServeHTTP(rec, req)

			assert.Equal(t, tc.status, rec.Code)
			assert.Equal(t, tc.reached, reached)
			if tc.status == http.StatusForbidden {
				assert.Contains(t, rec.Body.String(), `"message":"Not authorized as an admin"`)
			}
		})
	}
}
