// Package repositories persists users, menu items and orders. Every backend
// (mongo, gorm, memory) implements the same interfaces and returns the same
// sentinel errors, so services never see driver-specific failures for the
// cases they handle.
package repositories

import (
	"context"
	"errors"
	"time"

	"github.com/shashiranjanraj/dinehub/app/models"
)

var (
	ErrNotFound   = errors.New("record not found")
	ErrEmailTaken = errors.New("email already registered")
	// ErrStatusConflict means the order exists but no longer has the status
	// the caller expected to replace.
	ErrStatusConflict = errors.New("order status changed concurrently")
)

type UserRepository interface {
	// Create hashes any staged password and inserts u.
	Create(ctx context.Context, u *models.User) error
	// FindByID returns the user without its password hash.
	FindByID(ctx context.Context, id string) (*models.User, error)
	// FindByEmail returns the user including its hash, for login.
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	SetRole(ctx context.Context, id, role string) error
}

type MenuRepository interface {
	Create(ctx context.Context, item *models.MenuItem) error
	FindByID(ctx context.Context, id string) (*models.MenuItem, error)
	// List returns items in creation order; an empty category means all.
	List(ctx context.Context, category models.Category) ([]models.MenuItem, error)
	// Update replaces the stored item with the same ID.
	Update(ctx context.Context, item *models.MenuItem) error
	Delete(ctx context.Context, id string) error
}

type OrderRepository interface {
	Create(ctx context.Context, o *models.Order) error
	FindByID(ctx context.Context, id string) (*models.Order, error)
	// List returns every order, newest first.
	List(ctx context.Context) ([]models.Order, error)
	// UpdateStatus sets status to `to` only while it is still `from` and
	// returns the updated order. ErrStatusConflict when it has moved on.
	UpdateStatus(ctx context.Context, id string, from, to models.OrderStatus, at time.Time) (*models.Order, error)
	Delete(ctx context.Context, id string) error
}

// Stores bundles one backend's repositories with its lifecycle hooks.
type Stores struct {
	Driver string
	Users  UserRepository
	Menu   MenuRepository
	Orders OrderRepository

	ping  func(ctx context.Context) error
	close func(ctx context.Context) error
}

// Ping reports whether the backend is reachable.
func (s *Stores) Ping(ctx context.Context) error {
	if s == nil || s.ping == nil {
		return nil
	}
	return s.ping(ctx)
}

// Close releases the backend's connections.
func (s *Stores) Close(ctx context.Context) error {
	if s == nil || s.close == nil {
		return nil
	}
	return s.close(ctx)
}

func stamp(created, updated *time.Time, now time.Time) {
	if created.IsZero() {
		*created = now
	}
	*updated = now
}
