package models

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/codecuphq/codecup-backend/pkg/enums"
)

// CartItem is one pending cart line. The composite unique index enforces the
// merge invariant: at most one line per (user, coffee, full variant key).
type CartItem struct {
	ID        int             `gorm:"column:id;primaryKey;autoIncrement"`
	UserEmail string          `gorm:"column:user_email;type:text;not null;uniqueIndex:uidx_cart_variant,priority:1"`
	CoffeeID  int             `gorm:"column:coffee_id;not null;uniqueIndex:uidx_cart_variant,priority:2"`
	Quantity  int             `gorm:"column:quantity;not null"`
	ShotType  enums.ShotType  `gorm:"column:shot_type;type:text;not null;uniqueIndex:uidx_cart_variant,priority:3"`
	DrinkType enums.DrinkType `gorm:"column:drink_type;type:text;not null;uniqueIndex:uidx_cart_variant,priority:4"`
	Size      enums.CupSize   `gorm:"column:size;type:text;not null;uniqueIndex:uidx_cart_variant,priority:5"`
	IceLevel  enums.IceLevel  `gorm:"column:ice_level;not null;uniqueIndex:uidx_cart_variant,priority:6"`
	// UnitPrice is the catalog price captured when the line was added.
	// Display only; checkout recomputes from the live catalog.
	UnitPrice decimal.Decimal `gorm:"column:unit_price;type:numeric(10,2);not null"`
	CreatedAt time.Time       `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time       `gorm:"column:updated_at;autoUpdateTime"`
}

// TableName sets the cart table name.
func (CartItem) TableName() string { return "cart_items" }
