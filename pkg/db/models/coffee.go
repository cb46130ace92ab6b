package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Coffee is a catalog item. Rows are seeded once and treated as read-only
// by the engines; price and redeem_point are always read live at checkout.
type Coffee struct {
	ID          int             `gorm:"column:id;primaryKey;autoIncrement"`
	Name        string          `gorm:"column:name;type:text;not null"`
	ImageRef    string          `gorm:"column:image_ref;type:text;not null"`
	Description string          `gorm:"column:description;type:text;not null"`
	Price       decimal.Decimal `gorm:"column:price;type:numeric(10,2);not null"`
	RedeemPoint int             `gorm:"column:redeem_point;not null"`
	Category    string          `gorm:"column:category;type:text;not null"`
	CreatedAt   time.Time       `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt   time.Time       `gorm:"column:updated_at;autoUpdateTime"`
}

// TableName sets the coffee table name.
func (Coffee) TableName() string { return "coffees" }
