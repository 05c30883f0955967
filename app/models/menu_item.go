package models

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Category is the fixed set of menu sections.
type Category string

const (
	CategoryAppetizer  Category = "Appetizer"
	CategoryMainCourse Category = "Main Course"
	CategoryDessert    Category = "Dessert"
	CategoryBurgers    Category = "Burgers"
	CategoryBeverage   Category = "Beverage"
)

// Categories lists every category in menu order.
var Categories = []Category{
	CategoryAppetizer,
	CategoryMainCourse,
	CategoryDessert,
	CategoryBurgers,
	CategoryBeverage,
}

var ErrInvalidCategory = errors.New("invalid menu category")

// ParseCategory matches s against the known categories, ignoring case and
// surrounding whitespace.
func ParseCategory(s string) (Category, error) {
	s = strings.TrimSpace(s)
	for _, c := range Categories {
		if strings.EqualFold(s, string(c)) {
			return c, nil
		}
	}
	return "", ErrInvalidCategory
}

// MenuItem is a dish or drink on the catalog.
type MenuItem struct {
	ID          string    `gorm:"primaryKey;size:36" bson:"_id" json:"_id"`
	Name        string    `gorm:"size:255;not null" bson:"name" json:"name"`
	Description string    `gorm:"type:text;not null" bson:"description" json:"description"`
	Price       float64   `gorm:"not null" bson:"price" json:"price"`
	Category    Category  `gorm:"size:50;not null;index" bson:"category" json:"category"`
	Image       string    `gorm:"size:1024" bson:"image,omitempty" json:"image,omitempty"`
	IsAvailable bool      `gorm:"not null" bson:"isAvailable" json:"isAvailable"`
	CreatedAt   time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt   time.Time `bson:"updatedAt" json:"updatedAt"`
}

// NewMenuItem builds an unsaved, available item with a fresh id.
func NewMenuItem(name, description string, price float64, category Category) *MenuItem {
	return &MenuItem{
		ID:          uuid.NewString(),
		Name:        strings.TrimSpace(name),
		Description: strings.TrimSpace(description),
		Price:       RoundCents(price),
		Category:    category,
		IsAvailable: true,
	}
}
