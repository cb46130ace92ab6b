package models

import "time"

// RewardOffer is a redeemable offer seeded alongside the catalog. An offer
// with no AvailableUntil date is never redeemable (matching the shipped
// behavior of the mobile app; see DESIGN.md).
type RewardOffer struct {
	ID             int       `gorm:"column:id;primaryKey;autoIncrement"`
	CoffeeID       int       `gorm:"column:coffee_id;not null;index"`
	PointCost      int       `gorm:"column:point_cost;not null"`
	AvailableUntil *string   `gorm:"column:available_until;type:text"`
	CreatedAt      time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt      time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

// TableName sets the rewards table name.
func (RewardOffer) TableName() string { return "reward_offers" }
