// Package kernel assembles the running application: config, stores, cache,
// storage, services, the global middleware chain and the route table.
package kernel

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/shashiranjanraj/dinehub/app/graph"
	"github.com/shashiranjanraj/dinehub/app/repositories"
	"github.com/shashiranjanraj/dinehub/app/routes"
	"github.com/shashiranjanraj/dinehub/app/services"
	"github.com/shashiranjanraj/dinehub/config"
	"github.com/shashiranjanraj/dinehub/pkg/auth"
	"github.com/shashiranjanraj/dinehub/pkg/cache"
	"github.com/shashiranjanraj/dinehub/pkg/database"
	"github.com/shashiranjanraj/dinehub/pkg/event"
	gql "github.com/shashiranjanraj/dinehub/pkg/graphql"
	"github.com/shashiranjanraj/dinehub/pkg/logger"
	"github.com/shashiranjanraj/dinehub/pkg/metrics"
	"github.com/shashiranjanraj/dinehub/pkg/middleware"
	"github.com/shashiranjanraj/dinehub/pkg/mongodb"
	"github.com/shashiranjanraj/dinehub/pkg/reqid"
	"github.com/shashiranjanraj/dinehub/pkg/response"
	"github.com/shashiranjanraj/dinehub/pkg/router"
	"github.com/shashiranjanraj/dinehub/pkg/storage"
	"github.com/shashiranjanraj/dinehub/pkg/workerpool"
)

// Options adjusts Boot. The zero value boots from config.
type Options struct {
	// Driver overrides STORE_DRIVER.
	Driver string

	// Offline skips Redis, the MongoDB log sink and the storage disk, for
	// commands and tests that must not touch the network.
	Offline bool
}

// Kernel holds every long-lived dependency of a running process.
type Kernel struct {
	Stores *repositories.Stores
	Cache  *cache.Store
	Disk   storage.Disk
	Events *event.Dispatcher
	Pool   *workerpool.Pool

	Issuer *auth.Issuer
	Gate   *auth.Gate
	Auth   *services.AuthService
	Menu   *services.MenuService
	Orders *services.OrderService

	Router *router.Router

	closers []func(ctx context.Context)
}

// Boot connects the backends and builds the HTTP handler. On error every
// connection opened so far is released.
func Boot(ctx context.Context, opts Options) (k *Kernel, err error) {
	if err := config.Load(); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	if err := config.CheckJWTSecret(); err != nil {
		return nil, err
	}

	k = &Kernel{}
	defer func() {
		if err != nil {
			k.Close(context.Background())
			k = nil
		}
	}()

	if uri := config.LogMongoURI(); uri != "" && !opts.Offline {
		closeLog, err := logger.AttachMongo(ctx, uri, config.MongoDatabase())
		if err != nil {
			logger.Warn("log sink unavailable, logging to stdout only", "error", err)
		} else {
			k.onClose(func(context.Context) { closeLog() })
		}
	}

	driver := opts.Driver
	if driver == "" {
		driver = config.StoreDriver()
	}
	if k.Stores, err = OpenStores(ctx, driver); err != nil {
		return nil, err
	}
	k.onClose(func(ctx context.Context) {
		if err := k.Stores.Close(ctx); err != nil {
			logger.Warn("store close failed", "error", err)
		}
	})

	if !opts.Offline {
		k.Cache, err = cache.Connect(ctx)
		if err != nil {
			logger.Warn("redis unavailable, menu cache disabled", "error", err)
			k.Cache, err = nil, nil
		} else {
			k.onClose(func(context.Context) { k.Cache.Close() }) //nolint:errcheck
		}

		k.Disk, err = storage.Open(ctx, config.StorageDefault())
		if err != nil {
			logger.Warn("storage disk unavailable, image uploads disabled", "error", err)
			k.Disk, err = nil, nil
		}
	}

	if k.Issuer, err = auth.NewIssuer(config.JWTSecret(), config.TokenTTL()); err != nil {
		return nil, err
	}

	k.Pool = workerpool.New(config.EventWorkers())
	k.Events = event.NewDispatcher().UsePool(k.Pool)
	services.LogOrderEvents(k.Events)
	k.onClose(func(context.Context) {
		k.Events.Close()
		k.Pool.Shutdown()
	})

	k.Auth = services.NewAuthService(k.Stores.Users, k.Issuer, config.AllowAdminRegistration())
	k.Menu = services.NewMenuService(k.Stores.Menu, k.Cache, config.MenuCacheTTL(), k.Disk)
	k.Orders = services.NewOrderService(k.Stores.Orders, k.Stores.Menu, k.Events)
	k.Gate = auth.NewGate(k.Issuer, k.Auth)

	if k.Router, err = k.buildRouter(); err != nil {
		return nil, err
	}

	logger.Info("kernel booted", "store", driver, "cache", k.Cache != nil, "disk", k.Disk != nil)
	return k, nil
}

// OpenStores connects the named persistence backend.
func OpenStores(ctx context.Context, driver string) (*repositories.Stores, error) {
	switch {
	case driver == "memory":
		return repositories.NewMemoryStores(), nil

	case driver == "mongo":
		db, err := mongodb.Connect(ctx, config.MongoURI(), config.MongoDatabase())
		if err != nil {
			return nil, err
		}
		if err := repositories.EnsureMongoIndexes(ctx, db); err != nil {
			_ = mongodb.Disconnect(ctx, db)
			return nil, err
		}
		return repositories.NewMongoStores(db), nil

	case config.IsSQLDriver(driver):
		db, err := database.Open(ctx, driver, config.DatabaseDSN())
		if err != nil {
			return nil, err
		}
		return repositories.NewGormStores(driver, db), nil

	default:
		return nil, fmt.Errorf("unsupported STORE_DRIVER %q", driver)
	}
}

func (k *Kernel) buildRouter() (*router.Router, error) {
	r := router.New()

	// Outermost first: metrics sees total latency, recovery guards the
	// rest, the request id exists before anything logs.
	r.Use(metrics.Middleware())
	r.Use(middleware.Recovery)
	r.Use(reqid.Middleware())
	r.Use(middleware.Logger)
	r.Use(middleware.CORS(middleware.NewCORSPolicy(config.CORSOrigins()...)))
	if k.Cache != nil {
		r.Use(middleware.RateLimitWith(k.Cache, config.RateLimit(), time.Minute))
	} else {
		r.Use(middleware.RateLimit(config.RateLimit(), time.Minute))
	}

	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		response.NotFound(w, "Route not found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) {
		response.Error(w, http.StatusMethodNotAllowed, "Method not allowed")
	})

	r.Get("/metrics", "metrics", metrics.Handler())
	r.Get("/healthz", "health", k.health)

	if local, ok := k.Disk.(*storage.Local); ok {
		r.Handle("/storage/*", "storage", http.StripPrefix("/storage", local.Handler()))
	}

	schema, err := graph.Schema(k.Menu)
	if err != nil {
		return nil, fmt.Errorf("graphql schema: %w", err)
	}

	routes.RegisterAPI(r, routes.Deps{
		Gate:    k.Gate,
		Auth:    k.Auth,
		Menu:    k.Menu,
		Orders:  k.Orders,
		GraphQL: gql.Handler(schema),
	})
	return r, nil
}

func (k *Kernel) health(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	checks := map[string]string{"store": "ok", "cache": "disabled"}
	status := http.StatusOK

	if err := k.Stores.Ping(ctx); err != nil {
		checks["store"] = err.Error()
		status = http.StatusServiceUnavailable
	}
	if k.Cache != nil {
		checks["cache"] = "ok"
		if err := k.Cache.Ping(ctx); err != nil {
			checks["cache"] = err.Error()
		}
	}

	response.JSON(w, status, map[string]any{"status": status, "data": checks})
}

// Handler is the root HTTP handler.
func (k *Kernel) Handler() http.Handler { return k.Router }

func (k *Kernel) onClose(fn func(ctx context.Context)) {
	k.closers = append(k.closers, fn)
}

// Close releases resources in reverse order of acquisition.
func (k *Kernel) Close(ctx context.Context) {
	if k == nil {
		return
	}
	for i := len(k.closers) - 1; i >= 0; i-- {
		k.closers[i](ctx)
	}
	k.closers = nil
}

// ErrNoAdminCredentials is returned by SeedAdmin when ADMIN_EMAIL or
// ADMIN_PASSWORD is unset.
var ErrNoAdminCredentials = errors.New("ADMIN_EMAIL and ADMIN_PASSWORD must be set")

// SeedAdmin creates the configured administrator, or promotes the account
// with that email. created reports whether a new account was made.
func (k *Kernel) SeedAdmin(ctx context.Context) (created bool, err error) {
	email, password := config.AdminEmail(), config.AdminPassword()
	if email == "" || password == "" {
		return false, ErrNoAdminCredentials
	}
	_, created, err = k.Auth.EnsureAdmin(ctx, config.AdminName(), email, password)
	return created, err
}
