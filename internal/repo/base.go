package repo

import (
	"context"

	"gorm.io/gorm"
)

// Base carries the gorm handle shared by the domain repositories. Rebinding
// a repository onto a transaction is just constructing a new one around the
// tx handle.
type Base struct {
	db *gorm.DB
}

func NewBase(db *gorm.DB) Base {
	return Base{db: db}
}

// DB returns the connection scoped to ctx so cancellation propagates into
// queries.
func (b Base) DB(ctx context.Context) *gorm.DB {
	if b.db == nil || ctx == nil {
		return b.db
	}
	return b.db.WithContext(ctx)
}
