package cart

import (
	"context"

	"gorm.io/gorm"

	"github.com/codecuphq/codecup-backend/internal/repo"
	"github.com/codecuphq/codecup-backend/pkg/db/models"
	"github.com/codecuphq/codecup-backend/pkg/enums"
)

// VariantKey identifies one cart line: the same coffee in two variants is two
// separate lines, the same variant twice is one line with summed quantity.
type VariantKey struct {
	UserEmail string
	CoffeeID  int
	ShotType  enums.ShotType
	DrinkType enums.DrinkType
	Size      enums.CupSize
	IceLevel  enums.IceLevel
}

// Repository persists cart lines.
type Repository interface {
	WithTx(tx *gorm.DB) Repository

	FindMatching(ctx context.Context, key VariantKey) (*models.CartItem, error)
	IncrementQuantity(ctx context.Context, id int, delta int) error
	Create(ctx context.Context, item *models.CartItem) error
	ListByUser(ctx context.Context, email string) ([]models.CartItem, error)
	DeleteByID(ctx context.Context, email string, id int) error
	ClearByUser(ctx context.Context, email string) error
}

type repository struct {
	repo.Base
}

// NewRepository builds a cart repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{Base: repo.NewBase(db)}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	return &repository{Base: repo.NewBase(tx)}
}

func (r *repository) FindMatching(ctx context.Context, key VariantKey) (*models.CartItem, error) {
	var item models.CartItem
	err := r.DB(ctx).
		Where("user_email = ? AND coffee_id = ? AND shot_type = ? AND drink_type = ? AND size = ? AND ice_level = ?",
			key.UserEmail, key.CoffeeID, key.ShotType, key.DrinkType, key.Size, key.IceLevel).
		First(&item).Error
	if err != nil {
		return nil, err
	}
	return &item, nil
}

// IncrementQuantity bumps a line's quantity in place with a single UPDATE.
func (r *repository) IncrementQuantity(ctx context.Context, id int, delta int) error {
	return r.DB(ctx).
		Model(&models.CartItem{}).
		Where("id = ?", id).
		UpdateColumn("quantity", gorm.Expr("quantity + ?", delta)).Error
}

func (r *repository) Create(ctx context.Context, item *models.CartItem) error {
	return r.DB(ctx).Create(item).Error
}

func (r *repository) ListByUser(ctx context.Context, email string) ([]models.CartItem, error) {
	var items []models.CartItem
	err := r.DB(ctx).
		Where("user_email = ?", email).
		Order("id ASC").
		Find(&items).Error
	if err != nil {
		return nil, err
	}
	return items, nil
}

// DeleteByID removes one line. Deleting a line that is already gone is not an
// error; the cart simply no longer contains it.
func (r *repository) DeleteByID(ctx context.Context, email string, id int) error {
	return r.DB(ctx).
		Where("user_email = ? AND id = ?", email, id).
		Delete(&models.CartItem{}).Error
}

func (r *repository) ClearByUser(ctx context.Context, email string) error {
	return r.DB(ctx).
		Where("user_email = ?", email).
		Delete(&models.CartItem{}).Error
}
