package models

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/codecuphq/codecup-backend/pkg/enums"
)

// Order is a placed order line. Created only by the checkout engine (one per
// surviving cart line) or the redemption engine (price zero, quantity one).
type Order struct {
	ID        int               `gorm:"column:id;primaryKey;autoIncrement"`
	UserEmail string            `gorm:"column:user_email;type:text;not null;index"`
	CoffeeID  int               `gorm:"column:coffee_id;not null"`
	Address   string            `gorm:"column:address;type:text;not null"`
	Price     decimal.Decimal   `gorm:"column:price;type:numeric(10,2);not null"`
	Quantity  int               `gorm:"column:quantity;not null"`
	PlacedAt  string            `gorm:"column:placed_at;type:text;not null"`
	Status    enums.OrderStatus `gorm:"column:status;type:text;not null;default:'ongoing'"`
	CreatedAt time.Time         `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time         `gorm:"column:updated_at;autoUpdateTime"`
}

// TableName sets the orders table name.
func (Order) TableName() string { return "orders" }
