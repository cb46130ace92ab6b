package orders

import (
	"context"

	"gorm.io/gorm"

	"github.com/codecuphq/codecup-backend/internal/repo"
	"github.com/codecuphq/codecup-backend/pkg/db/models"
	"github.com/codecuphq/codecup-backend/pkg/enums"
)

// Repository persists placed orders.
type Repository interface {
	WithTx(tx *gorm.DB) Repository

	Create(ctx context.Context, order *models.Order) error
	FindByID(ctx context.Context, id int) (*models.Order, error)
	ListByUser(ctx context.Context, email string, status *enums.OrderStatus) ([]models.Order, error)
	UpdateStatus(ctx context.Context, id int, status enums.OrderStatus) error
}

type repository struct {
	repo.Base
}

// NewRepository builds an orders repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{Base: repo.NewBase(db)}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	return &repository{Base: repo.NewBase(tx)}
}

func (r *repository) Create(ctx context.Context, order *models.Order) error {
	return r.DB(ctx).Create(order).Error
}

func (r *repository) FindByID(ctx context.Context, id int) (*models.Order, error) {
	var order models.Order
	if err := r.DB(ctx).First(&order, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &order, nil
}

func (r *repository) ListByUser(ctx context.Context, email string, status *enums.OrderStatus) ([]models.Order, error) {
	query := r.DB(ctx).Where("user_email = ?", email)
	if status != nil {
		query = query.Where("status = ?", *status)
	}

	var rows []models.Order
	if err := query.Order("id DESC").Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// UpdateStatus is an unconditional field update; lifecycle gating lives in
// the service.
func (r *repository) UpdateStatus(ctx context.Context, id int, status enums.OrderStatus) error {
	result := r.DB(ctx).
		Model(&models.Order{}).
		Where("id = ?", id).
		UpdateColumn("status", status)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
