package loyalty

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/codecuphq/codecup-backend/internal/repo"
	"github.com/codecuphq/codecup-backend/pkg/db/models"
)

const maxStamps = 8

// Repository persists loyalty accounts. Stamp and point mechanics are single
// UPDATE statements so concurrent engines never read-modify-write the row.
type Repository interface {
	WithTx(tx *gorm.DB) Repository

	Create(ctx context.Context, user *models.User) error
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	UpdateProfile(ctx context.Context, email string, fullName, phone, address string) error

	ApplyCheckoutDelta(ctx context.Context, email string, stampDelta, pointDelta int) error
	DecreasePoints(ctx context.Context, email string, amount int) error
	ResetStamps(ctx context.Context, email string) error
}

type repository struct {
	repo.Base
}

// NewRepository builds a loyalty repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{Base: repo.NewBase(db)}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	return &repository{Base: repo.NewBase(tx)}
}

func (r *repository) Create(ctx context.Context, user *models.User) error {
	return r.DB(ctx).Create(user).Error
}

// FindByEmail is a presence-style read: a missing account yields (nil, nil).
func (r *repository) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	err := r.DB(ctx).First(&user, "email = ?", email).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *repository) UpdateProfile(ctx context.Context, email string, fullName, phone, address string) error {
	return r.DB(ctx).
		Model(&models.User{}).
		Where("email = ?", email).
		Updates(map[string]any{
			"full_name": fullName,
			"phone":     phone,
			"address":   address,
		}).Error
}

// ApplyCheckoutDelta adds stamps (clamped at the card limit) and points in a
// single statement.
func (r *repository) ApplyCheckoutDelta(ctx context.Context, email string, stampDelta, pointDelta int) error {
	return r.DB(ctx).
		Model(&models.User{}).
		Where("email = ?", email).
		Updates(map[string]any{
			// CASE keeps the clamp portable across postgres and sqlite.
			"stamps": gorm.Expr("CASE WHEN stamps + ? > ? THEN ? ELSE stamps + ? END",
				stampDelta, maxStamps, maxStamps, stampDelta),
			"points": gorm.Expr("points + ?", pointDelta),
		}).Error
}

// DecreasePoints debits unconditionally; eligibility is the caller's gate.
func (r *repository) DecreasePoints(ctx context.Context, email string, amount int) error {
	return r.DB(ctx).
		Model(&models.User{}).
		Where("email = ?", email).
		UpdateColumn("points", gorm.Expr("points - ?", amount)).Error
}

func (r *repository) ResetStamps(ctx context.Context, email string) error {
	return r.DB(ctx).
		Model(&models.User{}).
		Where("email = ?", email).
		UpdateColumn("stamps", 0).Error
}
