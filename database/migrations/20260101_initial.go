package migrations

import (
	"gorm.io/gorm"

	"github.com/shashiranjanraj/dinehub/app/models"
	"github.com/shashiranjanraj/dinehub/pkg/migration"
)

func init() {
	migration.Register("20260101000000_create_users_table", &CreateUsersTable{})
	migration.Register("20260101000001_create_menu_items_table", &CreateMenuItemsTable{})
	migration.Register("20260101000002_create_orders_table", &CreateOrdersTable{})
}

// -------- 0001: users --------

type CreateUsersTable struct{}

func (m *CreateUsersTable) Up(db *gorm.DB) error {
	return db.AutoMigrate(&models.User{})
}

func (m *CreateUsersTable) Down(db *gorm.DB) error {
	return db.Migrator().DropTable(&models.User{})
}

// -------- 0002: menu_items --------

type CreateMenuItemsTable struct{}

func (m *CreateMenuItemsTable) Up(db *gorm.DB) error {
	return db.AutoMigrate(&models.MenuItem{})
}

func (m *CreateMenuItemsTable) Down(db *gorm.DB) error {
	return db.Migrator().DropTable(&models.MenuItem{})
}

// -------- 0003: orders + order_items --------

// Line items are dropped with their order.
type CreateOrdersTable struct{}

func (m *CreateOrdersTable) Up(db *gorm.DB) error {
	return db.AutoMigrate(&models.Order{}, &models.LineItem{})
}

func (m *CreateOrdersTable) Down(db *gorm.DB) error {
	return db.Migrator().DropTable(&models.LineItem{}, &models.Order{})
}
