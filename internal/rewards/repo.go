package rewards

import (
	"context"

	"gorm.io/gorm"

	"github.com/codecuphq/codecup-backend/internal/repo"
	"github.com/codecuphq/codecup-backend/pkg/db/models"
)

// Repository persists reward offers.
type Repository interface {
	WithTx(tx *gorm.DB) Repository

	List(ctx context.Context) ([]models.RewardOffer, error)
	FindByID(ctx context.Context, id int) (*models.RewardOffer, error)
	Count(ctx context.Context) (int64, error)
	CreateBatch(ctx context.Context, offers []models.RewardOffer) error
}

type repository struct {
	repo.Base
}

// NewRepository builds a rewards repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{Base: repo.NewBase(db)}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	return &repository{Base: repo.NewBase(tx)}
}

func (r *repository) List(ctx context.Context) ([]models.RewardOffer, error) {
	var rows []models.RewardOffer
	if err := r.DB(ctx).Order("id ASC").Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *repository) FindByID(ctx context.Context, id int) (*models.RewardOffer, error) {
	var offer models.RewardOffer
	if err := r.DB(ctx).First(&offer, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &offer, nil
}

func (r *repository) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := r.DB(ctx).Model(&models.RewardOffer{}).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *repository) CreateBatch(ctx context.Context, offers []models.RewardOffer) error {
	if len(offers) == 0 {
		return nil
	}
	return r.DB(ctx).Create(&offers).Error
}
