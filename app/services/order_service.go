package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/shashiranjanraj/dinehub/app/models"
	"github.com/shashiranjanraj/dinehub/app/repositories"
	"github.com/shashiranjanraj/dinehub/pkg/auth"
	"github.com/shashiranjanraj/dinehub/pkg/event"
	"github.com/shashiranjanraj/dinehub/pkg/metrics"
	"github.com/shashiranjanraj/dinehub/pkg/rbac"
)

// Events fired by OrderService.
const (
	EventOrderCreated       = "order.created"
	EventOrderStatusChanged = "order.status_changed"
	EventOrderDeleted       = "order.deleted"
)

// StatusChange is the payload of EventOrderStatusChanged.
type StatusChange struct {
	Order *models.Order
	From  models.OrderStatus
	To    models.OrderStatus
}

// OrderService owns the order lifecycle. Any authenticated caller may place
// an order; reading, changing and removing orders is admin-only.
type OrderService struct {
	orders repositories.OrderRepository
	menu   repositories.MenuRepository
	events *event.Dispatcher
	now    func() time.Time
}

func NewOrderService(orders repositories.OrderRepository, menu repositories.MenuRepository, events *event.Dispatcher) *OrderService {
	return &OrderService{
		orders: orders,
		menu:   menu,
		events: events,
		now:    func() time.Time { return time.Now().UTC() },
	}
}

// OrderItemInput is one requested line. With MenuItemID set, name and price
// are taken from the catalog and the supplied ones are ignored.
type OrderItemInput struct {
	MenuItemID string
	Name       string
	Price      float64
}

// Create places a Pending order owned by owner. customerName falls back to
// the owner's name.
func (s *OrderService) Create(ctx context.Context, owner auth.Identity, customerName string, items []OrderItemInput) (*models.Order, error) {
	if owner.ID == "" {
		return nil, rbac.ErrForbidden
	}
	if len(items) == 0 {
		return nil, ErrEmptyOrder
	}

	lines := make([]models.LineItem, 0, len(items))
	for i, in := range items {
		line, err := s.snapshot(ctx, in)
		if err != nil {
			return nil, fmt.Errorf("item %d: %w", i, err)
		}
		lines = append(lines, line)
	}

	name := strings.TrimSpace(customerName)
	if name == "" {
		name = owner.Name
	}

	o := models.NewOrder(owner.ID, name, lines)
	if err := s.orders.Create(ctx, o); err != nil {
		return nil, fmt.Errorf("create order: %w", err)
	}

	metrics.OrdersCreated.Inc()
	s.events.FireAsync(ctx, EventOrderCreated, o)
	return o, nil
}

func (s *OrderService) snapshot(ctx context.Context, in OrderItemInput) (models.LineItem, error) {
	if id := strings.TrimSpace(in.MenuItemID); id != "" {
		item, err := s.menu.FindByID(ctx, id)
		if errors.Is(err, repositories.ErrNotFound) || (err == nil && !item.IsAvailable) {
			return models.LineItem{}, fmt.Errorf("%w: %s", ErrMenuItemUnavailable, id)
		}
		if err != nil {
			return models.LineItem{}, err
		}
		return models.LineItem{MenuItemID: item.ID, Name: item.Name, Price: item.Price}, nil
	}

	name := strings.TrimSpace(in.Name)
	if name == "" || in.Price < 0 {
		return models.LineItem{}, ErrInvalidItem
	}
	return models.LineItem{Name: name, Price: models.RoundCents(in.Price)}, nil
}

// List returns every order, newest first.
func (s *OrderService) List(ctx context.Context) ([]models.Order, error) {
	if err := rbac.RequireRole(ctx, auth.RoleAdmin); err != nil {
		return nil, err
	}
	return s.orders.List(ctx)
}

func (s *OrderService) Get(ctx context.Context, id string) (*models.Order, error) {
	if err := rbac.RequireRole(ctx, auth.RoleAdmin); err != nil {
		return nil, err
	}
	return s.orders.FindByID(ctx, id)
}

// UpdateStatus moves order id to status. Setting the current status is a
// no-op; a move the transition table forbids, or one that races with
// another writer, fails with ErrInvalidTransition.
func (s *OrderService) UpdateStatus(ctx context.Context, id, status string) (*models.Order, error) {
	if err := rbac.RequireRole(ctx, auth.RoleAdmin); err != nil {
		return nil, err
	}

	next, err := models.ParseOrderStatus(status)
	if err != nil {
		return nil, fmt.Errorf("%w: %q", ErrInvalidStatus, status)
	}

	o, err := s.orders.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if o.Status == next {
		return o, nil
	}
	if err := o.Status.CheckTransition(next); err != nil {
		return nil, fmt.Errorf("%w: %s -> %s", err, o.Status, next)
	}

	updated, err := s.orders.UpdateStatus(ctx, id, o.Status, next, s.now())
	if errors.Is(err, repositories.ErrStatusConflict) {
		return nil, fmt.Errorf("%w: order %s changed concurrently", ErrInvalidTransition, id)
	}
	if err != nil {
		return nil, err
	}

	metrics.OrderTransitions.WithLabelValues(string(o.Status), string(next)).Inc()
	s.events.FireAsync(ctx, EventOrderStatusChanged, StatusChange{Order: updated, From: o.Status, To: next})
	return updated, nil
}

func (s *OrderService) Delete(ctx context.Context, id string) error {
	if err := rbac.RequireRole(ctx, auth.RoleAdmin); err != nil {
		return err
	}
	if err := s.orders.Delete(ctx, id); err != nil {
		return err
	}
	s.events.FireAsync(ctx, EventOrderDeleted, id)
	return nil
}
