package models

import "time"

// User is a loyalty account keyed by email. Stamps live in [0,8]; points are
// adjusted only by the checkout and redemption engines.
type User struct {
	Email        string    `gorm:"column:email;type:text;primaryKey"`
	FullName     string    `gorm:"column:full_name;type:text;not null"`
	Phone        string    `gorm:"column:phone;type:text;not null"`
	PasswordHash string    `gorm:"column:password_hash;type:text;not null"`
	Address      string    `gorm:"column:address;type:text;not null"`
	Stamps       int       `gorm:"column:stamps;not null;default:0"`
	Points       int       `gorm:"column:points;not null;default:0"`
	CreatedAt    time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt    time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

// TableName sets the users table name.
func (User) TableName() string { return "users" }
