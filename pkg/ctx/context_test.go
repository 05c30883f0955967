package ctx_test

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"

	"github.com/shashiranjanraj/dinehub/pkg/auth"
	appctx "github.com/shashiranjanraj/dinehub/pkg/ctx"
)

func run(req *http.Request, h appctx.HandlerFunc) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	appctx.Wrap(h)(rec, req)
	return rec
}

func TestJSON(t *testing.T) {
	rec := run(httptest.NewRequest(http.MethodGet, "/", nil), func(c *appctx.Context) {
		c.JSON(http.StatusOK, map[string]any{"ok": true})
	})

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"ok":true`)
}

func TestStatusTracksFirstWrite(t *testing.T) {
	var seen int
	rec := run(httptest.NewRequest(http.MethodPost, "/", nil), func(c *appctx.Context) {
		assert.Zero(t, c.Status())
		c.Created(map[string]any{"_id": "o-1"})
		seen = c.Status()
	})

	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, http.StatusCreated, seen)
}

func TestParamAndQuery(t *testing.T) {
	r := chi.NewRouter()
	r.Get("/orders/{id}", appctx.Wrap(func(c *appctx.Context) {
		c.Success(c.Param("id") + "/" + c.Query("view"))
	}))

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/orders/abc-123?view=full", nil))

	assert.Contains(t, rec.Body.String(), `"data":"abc-123/full"`)
}

func TestIdentity(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req = req.WithContext(auth.WithIdentity(req.Context(), auth.Identity{ID: "u-1", Role: auth.RoleAdmin}))

	run(req, func(c *appctx.Context) {
		id, ok := c.Identity()
		assert.True(t, ok)
		assert.Equal(t, auth.RoleAdmin, id.Role)
	})

	run(httptest.NewRequest(http.MethodGet, "/", nil), func(c *appctx.Context) {
		_, ok := c.Identity()
		assert.False(t, ok)
	})
}

func TestBindJSON(t *testing.T) {
	type input struct {
		Name  string `json:"name"  validate:"required"`
		Email string `json:"email" validate:"required,email"`
	}

	cases := []struct {
		name string
		body string
		ok   bool
		code int
	}{
		{"valid", `{"name":"Ann","email":"ann@example.com"}`, true, http.StatusOK},
		{"invalid", `{"name":""}`, false, http.StatusBadRequest},
		{"malformed", `{"name":`, false, http.StatusBadRequest},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(tc.body))
			req.Header.Set("Content-Type", "application/json")

			rec := run(req, func(c *appctx.Context) {
				var in input
				got := c.BindJSON(&in)
				assert.Equal(t, tc.ok, got)
				if got {
					assert.Equal(t, "Ann", in.Name)
					c.Success(nil)
				}
			})
			assert.Equal(t, tc.code, rec.Code, rec.Body.String())
		})
	}
}

func TestNotFound(t *testing.T) {
	rec := run(httptest.NewRequest(http.MethodGet, "/", nil), func(c *appctx.Context) {
		c.NotFound("Order not found")
	})

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), `"message":"Order not found"`)
}
