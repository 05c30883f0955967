package models

import (
	"math"
	"time"

	"github.com/google/uuid"
)

// Order is a customer order. UserID is the account that placed it and never
// changes afterwards.
type Order struct {
	ID           string      `gorm:"primaryKey;size:36" bson:"_id" json:"_id"`
	UserID       string      `gorm:"size:36;not null;index" bson:"user" json:"user"`
	CustomerName string      `gorm:"size:255;not null" bson:"customerName" json:"customerName"`
	Items        []LineItem  `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE" bson:"items" json:"items"`
	Total        float64     `gorm:"not null" bson:"total" json:"total"`
	Status       OrderStatus `gorm:"size:20;not null;index" bson:"status" json:"status"`
	CreatedAt    time.Time   `gorm:"index" bson:"createdAt" json:"createdAt"`
	UpdatedAt    time.Time   `bson:"updatedAt" json:"updatedAt"`
}

// LineItem is the name and price of a dish captured when the order was
// placed. Later catalog edits do not change it.
type LineItem struct {
	ID         uint    `gorm:"primaryKey;autoIncrement" bson:"-" json:"-"`
	OrderID    string  `gorm:"size:36;not null;index" bson:"-" json:"-"`
	MenuItemID string  `gorm:"size:36" bson:"menuItemId,omitempty" json:"menuItemId,omitempty"`
	Name       string  `gorm:"size:255;not null" bson:"name" json:"name"`
	Price      float64 `gorm:"not null" bson:"price" json:"price"`
}

func (LineItem) TableName() string { return "order_items" }

// NewOrder builds a Pending order owned by userID. The total is derived from
// items and cannot be supplied by the caller.
func NewOrder(userID, customerName string, items []LineItem) *Order {
	return &Order{
		ID:           uuid.NewString(),
		UserID:       userID,
		CustomerName: customerName,
		Items:        items,
		Total:        ComputeTotal(items),
		Status:       StatusPending,
	}
}

// ComputeTotal sums line item prices, rounded to cents.
func ComputeTotal(items []LineItem) float64 {
	var sum float64
	for _, it := range items {
		sum += it.Price
	}
	return RoundCents(sum)
}

// RoundCents rounds v to two decimal places.
func RoundCents(v float64) float64 {
	return math.Round(v*100) / 100
}
