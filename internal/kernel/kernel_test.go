package kernel_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shashiranjanraj/dinehub/config"
	"github.com/shashiranjanraj/dinehub/internal/kernel"
)

func boot(t *testing.T) *kernel.Kernel {
	t.Helper()
	k, err := kernel.Boot(context.Background(), kernel.Options{Driver: "memory", Offline: true})
	require.NoError(t, err)
	t.Cleanup(func() { k.Close(context.Background()) })
	return k
}

func get(t *testing.T, h http.Handler, path string) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	req.RemoteAddr = "192.0.2.1:1234"
	h.ServeHTTP(rec, req)
	var body map[string]any
	_ = json.Unmarshal(rec.Body.Bytes(), &body)
	return rec, body
}

func TestBootMemory(t *testing.T) {
	k := boot(t)

	assert.Equal(t, "memory", k.Stores.Driver)
	assert.Nil(t, k.Cache)
	assert.Nil(t, k.Disk)

	rec, body := get(t, k.Handler(), "/healthz")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", body["data"].(map[string]any)["store"])
	assert.NotEmpty(t, rec.Header().Get("X-Request-ID"))
}

func TestUnknownRouteIsJSON404(t *testing.T) {
	k := boot(t)

	rec, body := get(t, k.Handler(), "/nope")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "Route not found", body["message"])
}

func TestMetricsEndpoint(t *testing.T) {
	k := boot(t)

	get(t, k.Handler(), "/api/menu-items")
	rec, _ := get(t, k.Handler(), "/metrics")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, strings.Contains(rec.Body.String(), "dinehub_http_requests_total"))
}

func TestUnsupportedDriver(t *testing.T) {
	_, err := kernel.OpenStores(context.Background(), "cassandra")
	assert.ErrorContains(t, err, "unsupported STORE_DRIVER")
}

func TestSeedAdmin(t *testing.T) {
	k := boot(t)

	config.Set("ADMIN_EMAIL", "")
	_, err := k.SeedAdmin(context.Background())
	assert.ErrorIs(t, err, kernel.ErrNoAdminCredentials)

	config.Set("ADMIN_EMAIL", "boss@example.com")
	config.Set("ADMIN_PASSWORD", "bosspass")
	t.Cleanup(func() {
		config.Set("ADMIN_EMAIL", "")
		config.Set("ADMIN_PASSWORD", "")
	})

	created, err := k.SeedAdmin(context.Background())
	require.NoError(t, err)
	assert.True(t, created)

	created, err = k.SeedAdmin(context.Background())
	require.NoError(t, err)
	assert.False(t, created)

	u, err := k.Stores.Users.FindByEmail(context.Background(), "boss@example.com")
	require.NoError(t, err)
	assert.Equal(t, "admin", u.Role)
}

func TestBootRefusesDefaultSecretInProduction(t *testing.T) {
	env, secret := config.Get("APP_ENV", ""), config.Get("JWT_SECRET", "")
	t.Cleanup(func() {
		config.Set("APP_ENV", env)
		config.Set("JWT_SECRET", secret)
	})

	config.Set("APP_ENV", "production")
	config.Set("JWT_SECRET", "change-me-in-production")
	k, err := kernel.Boot(context.Background(), kernel.Options{Driver: "memory", Offline: true})
	assert.ErrorIs(t, err, config.ErrInsecureJWTSecret)
	assert.Nil(t, k)

	config.Set("JWT_SECRET", "kernel-test-private-key")
	k, err = kernel.Boot(context.Background(), kernel.Options{Driver: "memory", Offline: true})
	require.NoError(t, err)
	k.Close(context.Background())
}
