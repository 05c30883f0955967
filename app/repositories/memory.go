package repositories

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/shashiranjanraj/dinehub/app/models"
)

// NewMemoryStores returns process-local stores, used by STORE_DRIVER=memory
// and by tests. Records are copied on every read and write.
func NewMemoryStores() *Stores {
	return &Stores{
		Driver: "memory",
		Users:  &memoryUsers{byID: map[string]models.User{}},
		Menu:   &memoryMenu{byID: map[string]models.MenuItem{}},
		Orders: &memoryOrders{byID: map[string]models.Order{}},
	}
}

// ─── Users ───────────────────────────────────────────────────────────────────

type memoryUsers struct {
	mu   sync.RWMutex
	byID map[string]models.User
}

func (r *memoryUsers) Create(_ context.Context, u *models.User) error {
	if err := u.HashPendingPassword(); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	for _, existing := range r.byID {
		if existing.Email == u.Email {
			return ErrEmailTaken
		}
	}
	stamp(&u.CreatedAt, &u.UpdatedAt, time.Now().UTC())
	r.byID[u.ID] = *u
	return nil
}

func (r *memoryUsers) FindByID(_ context.Context, id string) (*models.User, error) {
	r.mu.RLock()
	u, ok := r.byID[id]
	r.mu.RUnlock()
	if !ok {
		return nil, ErrNotFound
	}
	u.Password = ""
	return &u, nil
}

func (r *memoryUsers) FindByEmail(_ context.Context, email string) (*models.User, error) {
	email = models.NormalizeEmail(email)

	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, u := range r.byID {
		if u.Email == email {
			return &u, nil
		}
	}
	return nil, ErrNotFound
}

func (r *memoryUsers) SetRole(_ context.Context, id, role string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.byID[id]
	if !ok {
		return ErrNotFound
	}
	u.Role = role
	u.UpdatedAt = time.Now().UTC()
	r.byID[id] = u
	return nil
}

// ─── Menu ────────────────────────────────────────────────────────────────────

type memoryMenu struct {
	mu   sync.RWMutex
	byID map[string]models.MenuItem
	ids  []string
}

func (r *memoryMenu) Create(_ context.Context, item *models.MenuItem) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	stamp(&item.CreatedAt, &item.UpdatedAt, time.Now().UTC())
	if _, ok := r.byID[item.ID]; !ok {
		r.ids = append(r.ids, item.ID)
	}
	r.byID[item.ID] = *item
	return nil
}

func (r *memoryMenu) FindByID(_ context.Context, id string) (*models.MenuItem, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	item, ok := r.byID[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &item, nil
}

func (r *memoryMenu) List(_ context.Context, category models.Category) ([]models.MenuItem, error) {
	r.mu.RLock()
	out := make([]models.MenuItem, 0, len(r.ids))
	for _, id := range r.ids {
		item := r.byID[id]
		if category == "" || item.Category == category {
			out = append(out, item)
		}
	}
	r.mu.RUnlock()

	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func (r *memoryMenu) Update(_ context.Context, item *models.MenuItem) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.byID[item.ID]; !ok {
		return ErrNotFound
	}
	item.UpdatedAt = time.Now().UTC()
	r.byID[item.ID] = *item
	return nil
}

func (r *memoryMenu) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.byID[id]; !ok {
		return ErrNotFound
	}
	delete(r.byID, id)
	r.ids = without(r.ids, id)
	return nil
}

// ─── Orders ──────────────────────────────────────────────────────────────────

type memoryOrders struct {
	mu   sync.RWMutex
	byID map[string]models.Order
	ids  []string
}

func copyOrder(o models.Order) models.Order {
	o.Items = append([]models.LineItem(nil), o.Items...)
	return o
}

func (r *memoryOrders) Create(_ context.Context, o *models.Order) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	stamp(&o.CreatedAt, &o.UpdatedAt, time.Now().UTC())
	if _, ok := r.byID[o.ID]; !ok {
		r.ids = append(r.ids, o.ID)
	}
	r.byID[o.ID] = copyOrder(*o)
	return nil
}

func (r *memoryOrders) FindByID(_ context.Context, id string) (*models.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	o, ok := r.byID[id]
	if !ok {
		return nil, ErrNotFound
	}
	o = copyOrder(o)
	return &o, nil
}

func (r *memoryOrders) List(_ context.Context) ([]models.Order, error) {
	r.mu.RLock()
	out := make([]models.Order, 0, len(r.ids))
	for i := len(r.ids) - 1; i >= 0; i-- {
		out = append(out, copyOrder(r.byID[r.ids[i]]))
	}
	r.mu.RUnlock()

	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (r *memoryOrders) UpdateStatus(_ context.Context, id string, from, to models.OrderStatus, at time.Time) (*models.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	o, ok := r.byID[id]
	if !ok {
		return nil, ErrNotFound
	}
	if o.Status != from {
		return nil, ErrStatusConflict
	}
	o.Status = to
	o.UpdatedAt = at
	r.byID[id] = o

	o = copyOrder(o)
	return &o, nil
}

func (r *memoryOrders) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.byID[id]; !ok {
		return ErrNotFound
	}
	delete(r.byID, id)
	r.ids = without(r.ids, id)
	return nil
}

func without(ids []string, id string) []string {
	for i, v := range ids {
		if v == id {
			return append(ids[:i:i], ids[i+1:]...)
		}
	}
	return ids
}
