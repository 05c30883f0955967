package routes_test

import (
	"bytes"
	"context"
	"encoding/json"
	"image"
	"image/color"
	"image/png"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shashiranjanraj/dinehub/app/graph"
	"github.com/shashiranjanraj/dinehub/app/repositories"
	"github.com/shashiranjanraj/dinehub/app/routes"
	"github.com/shashiranjanraj/dinehub/app/services"
	"github.com/shashiranjanraj/dinehub/pkg/auth"
	"github.com/shashiranjanraj/dinehub/pkg/event"
	gql "github.com/shashiranjanraj/dinehub/pkg/graphql"
	"github.com/shashiranjanraj/dinehub/pkg/router"
	"github.com/shashiranjanraj/dinehub/pkg/storage"
	"github.com/shashiranjanraj/dinehub/pkg/testkit"
)

const (
	adminEmail    = "root@example.com"
	adminPassword = "rootpass"
)

type app struct {
	router *router.Router
	auth   *services.AuthService
	events *event.Dispatcher
}

func newApp(t *testing.T, disk storage.Disk) *app {
	t.Helper()

	stores := repositories.NewMemoryStores()
	issuer, err := auth.NewIssuer("routes-test-secret", 30*24*time.Hour)
	require.NoError(t, err)

	events := event.NewDispatcher()
	authSvc := services.NewAuthService(stores.Users, issuer, true)
	menuSvc := services.NewMenuService(stores.Menu, nil, 0, disk)
	orderSvc := services.NewOrderService(stores.Orders, stores.Menu, events)

	schema, err := graph.Schema(menuSvc)
	require.NoError(t, err)

	r := router.New()
	routes.RegisterAPI(r, routes.Deps{
		Gate:    auth.NewGate(issuer, authSvc),
		Auth:    authSvc,
		Menu:    menuSvc,
		Orders:  orderSvc,
		GraphQL: gql.Handler(schema),
	})
	t.Cleanup(events.Wait)

	return &app{router: r, auth: authSvc, events: events}
}

func TestFlows(t *testing.T) {
	testkit.RunDir(t, "testdata", func(t *testing.T) (http.Handler, testkit.Vars) {
		a := newApp(t, nil)
		_, _, err := a.auth.EnsureAdmin(context.Background(), "Root", adminEmail, adminPassword)
		require.NoError(t, err)
		return a.router, testkit.Vars{"adminEmail": adminEmail, "adminPassword": adminPassword}
	})
}

func TestRouteTable(t *testing.T) {
	a := newApp(t, nil)

	got := map[string]bool{}
	for _, info := range a.router.Routes() {
		got[info.Method+" "+info.Path] = true
	}
	for _, want := range []string{
		"POST /api/users/register",
		"POST /api/users/login",
		"GET /api/users/profile",
		"GET /api/menu-items",
		"GET /api/menu-items/{id}",
		"POST /api/menu-items",
		"PUT /api/menu-items/{id}",
		"DELETE /api/menu-items/{id}",
		"POST /api/menu-items/{id}/image",
		"POST /api/orders",
		"GET /api/orders",
		"GET /api/orders/{id}",
		"PUT /api/orders/{id}",
		"DELETE /api/orders/{id}",
		"* /graphql",
	} {
		assert.True(t, got[want], "missing route %s", want)
	}
}

func adminToken(t *testing.T, a *app) string {
	t.Helper()
	_, _, err := a.auth.EnsureAdmin(context.Background(), "Root", adminEmail, adminPassword)
	require.NoError(t, err)
	tok, err := a.auth.IssueToken(context.Background(), adminEmail)
	require.NoError(t, err)
	return tok
}

func do(t *testing.T, h http.Handler, method, url, token string, body any) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, url, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	var out map[string]any
	_ = json.Unmarshal(rec.Body.Bytes(), &out)
	return rec, out
}

func TestUploadMenuImage(t *testing.T) {
	disk, err := storage.NewLocal(t.TempDir(), "http://cdn.local/storage")
	require.NoError(t, err)
	a := newApp(t, disk)
	token := adminToken(t, a)

	rec, body := do(t, a.router, http.MethodPost, "/api/menu-items", token,
		map[string]any{"name": "Fries", "price": 3.5, "category": "Appetizer"})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	id := body["data"].(map[string]any)["_id"].(string)

	upload := func(field string, content []byte) *httptest.ResponseRecorder {
		var buf bytes.Buffer
		mw := multipart.NewWriter(&buf)
		fw, err := mw.CreateFormFile(field, "fries.png")
		require.NoError(t, err)
		_, err = fw.Write(content)
		require.NoError(t, err)
		require.NoError(t, mw.Close())

		req := httptest.NewRequest(http.MethodPost, "/api/menu-items/"+id+"/image", &buf)
		req.Header.Set("Content-Type", mw.FormDataContentType())
		req.Header.Set("Authorization", "Bearer "+token)
		rec := httptest.NewRecorder()
		a.router.ServeHTTP(rec, req)
		return rec
	}

	img := image.NewRGBA(image.Rect(0, 0, 2, 2))
	img.Set(0, 0, color.RGBA{R: 255, A: 255})
	var pngBuf bytes.Buffer
	require.NoError(t, png.Encode(&pngBuf, img))

	rec = upload("image", pngBuf.Bytes())
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var out map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	url := out["data"].(map[string]any)["image"].(string)
	assert.True(t, strings.HasPrefix(url, "http://cdn.local/storage/menu/"+id+"/"), url)
	assert.True(t, strings.HasSuffix(url, ".png"), url)

	rec = upload("image", []byte("plain text, not an image"))
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = upload("file", pngBuf.Bytes())
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestGraphQLMenu(t *testing.T) {
	a := newApp(t, nil)
	token := adminToken(t, a)

	rec, _ := do(t, a.router, http.MethodPost, "/api/menu-items", token,
		map[string]any{"name": "Brownie", "price": 4, "category": "Dessert"})
	require.Equal(t, http.StatusCreated, rec.Code)

	rec, body := do(t, a.router, http.MethodPost, "/graphql", "",
		map[string]any{"query": `{ menuItems(category: DESSERT) { name price } }`})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	items := body["data"].(map[string]any)["menuItems"].([]any)
	require.Len(t, items, 1)
	assert.Equal(t, "Brownie", items[0].(map[string]any)["name"])
}

func TestAdminSignupDisabled(t *testing.T) {
	stores := repositories.NewMemoryStores()
	issuer, err := auth.NewIssuer("s", time.Hour)
	require.NoError(t, err)
	authSvc := services.NewAuthService(stores.Users, issuer, false)

	r := router.New()
	routes.RegisterAPI(r, routes.Deps{
		Gate:   auth.NewGate(issuer, authSvc),
		Auth:   authSvc,
		Menu:   services.NewMenuService(stores.Menu, nil, 0, nil),
		Orders: services.NewOrderService(stores.Orders, stores.Menu, nil),
	})

	rec, body := do(t, r, http.MethodPost, "/api/users/register", "",
		map[string]any{"name": "Mal", "email": "mal@example.com", "password": "secret1", "role": "admin"})
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Equal(t, "Admin registration is disabled", body["message"])
}
