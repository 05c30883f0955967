package repositories

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/shashiranjanraj/dinehub/app/models"
	"github.com/shashiranjanraj/dinehub/pkg/database"
	"github.com/shashiranjanraj/dinehub/pkg/metrics"
)

// NewGormStores wraps an open gorm connection. The schema is created by the
// migrations in database/migrations.
func NewGormStores(driver string, db *gorm.DB) *Stores {
	return &Stores{
		Driver: driver,
		Users:  &gormUsers{db: db},
		Menu:   &gormMenu{db: db},
		Orders: &gormOrders{db: db},
		ping: func(ctx context.Context) error {
			sqlDB, err := db.DB()
			if err != nil {
				return err
			}
			return sqlDB.PingContext(ctx)
		},
		close: func(context.Context) error { return database.Close(db) },
	}
}

func notFound(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	return err
}

// ─── Users ───────────────────────────────────────────────────────────────────

type gormUsers struct{ db *gorm.DB }

func (r *gormUsers) Create(ctx context.Context, u *models.User) error {
	defer metrics.TimeQuery("sql", "insert")()

	// BeforeSave hashes the staged password; the unique email index decides
	// races between concurrent sign-ups.
	err := r.db.WithContext(ctx).Create(u).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return ErrEmailTaken
	}
	return err
}

func (r *gormUsers) FindByID(ctx context.Context, id string) (*models.User, error) {
	defer metrics.TimeQuery("sql", "select")()

	var u models.User
	if err := r.db.WithContext(ctx).Omit("password").Where("id = ?", id).First(&u).Error; err != nil {
		return nil, notFound(err)
	}
	return &u, nil
}

func (r *gormUsers) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	defer metrics.TimeQuery("sql", "select")()

	var u models.User
	if err := r.db.WithContext(ctx).Where("email = ?", models.NormalizeEmail(email)).First(&u).Error; err != nil {
		return nil, notFound(err)
	}
	return &u, nil
}

func (r *gormUsers) SetRole(ctx context.Context, id, role string) error {
	defer metrics.TimeQuery("sql", "update")()

	res := r.db.WithContext(ctx).
		Session(&gorm.Session{SkipHooks: true}).
		Model(&models.User{}).
		Where("id = ?", id).
		Updates(map[string]any{"role": role, "updated_at": time.Now().UTC()})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// ─── Menu ────────────────────────────────────────────────────────────────────

type gormMenu struct{ db *gorm.DB }

func (r *gormMenu) Create(ctx context.Context, item *models.MenuItem) error {
	defer metrics.TimeQuery("sql", "insert")()
	return r.db.WithContext(ctx).Create(item).Error
}

func (r *gormMenu) FindByID(ctx context.Context, id string) (*models.MenuItem, error) {
	defer metrics.TimeQuery("sql", "select")()

	var item models.MenuItem
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&item).Error; err != nil {
		return nil, notFound(err)
	}
	return &item, nil
}

func (r *gormMenu) List(ctx context.Context, category models.Category) ([]models.MenuItem, error) {
	defer metrics.TimeQuery("sql", "select")()

	q := r.db.WithContext(ctx).Order("created_at asc")
	if category != "" {
		q = q.Where("category = ?", category)
	}
	items := []models.MenuItem{}
	if err := q.Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (r *gormMenu) Update(ctx context.Context, item *models.MenuItem) error {
	defer metrics.TimeQuery("sql", "update")()

	res := r.db.WithContext(ctx).Model(item).Select("*").Omit("id", "created_at").Updates(item)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *gormMenu) Delete(ctx context.Context, id string) error {
	defer metrics.TimeQuery("sql", "delete")()

	res := r.db.WithContext(ctx).Where("id = ?", id).Delete(&models.MenuItem{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// ─── Orders ──────────────────────────────────────────────────────────────────

type gormOrders struct{ db *gorm.DB }

func withItems(db *gorm.DB) *gorm.DB {
	return db.Preload("Items", func(tx *gorm.DB) *gorm.DB { return tx.Order("id asc") })
}

func (r *gormOrders) Create(ctx context.Context, o *models.Order) error {
	defer metrics.TimeQuery("sql", "insert")()
	return r.db.WithContext(ctx).Create(o).Error
}

func (r *gormOrders) FindByID(ctx context.Context, id string) (*models.Order, error) {
	defer metrics.TimeQuery("sql", "select")()

	var o models.Order
	if err := withItems(r.db.WithContext(ctx)).Where("id = ?", id).First(&o).Error; err != nil {
		return nil, notFound(err)
	}
	return &o, nil
}

func (r *gormOrders) List(ctx context.Context) ([]models.Order, error) {
	defer metrics.TimeQuery("sql", "select")()

	orders := []models.Order{}
	if err := withItems(r.db.WithContext(ctx)).Order("created_at desc").Find(&orders).Error; err != nil {
		return nil, err
	}
	return orders, nil
}

func (r *gormOrders) UpdateStatus(ctx context.Context, id string, from, to models.OrderStatus, at time.Time) (*models.Order, error) {
	done := metrics.TimeQuery("sql", "update")
	res := r.db.WithContext(ctx).
		Model(&models.Order{}).
		Where("id = ? AND status = ?", id, from).
		Updates(map[string]any{"status": to, "updated_at": at})
	done()
	if res.Error != nil {
		return nil, res.Error
	}

	o, err := r.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if res.RowsAffected == 0 {
		return nil, ErrStatusConflict
	}
	return o, nil
}

func (r *gormOrders) Delete(ctx context.Context, id string) error {
	defer metrics.TimeQuery("sql", "delete")()

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Where("id = ?", id).Delete(&models.Order{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrNotFound
		}
		return tx.Where("order_id = ?", id).Delete(&models.LineItem{}).Error
	})
}
