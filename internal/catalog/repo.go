package catalog

import (
	"context"

	"gorm.io/gorm"

	"github.com/codecuphq/codecup-backend/internal/repo"
	"github.com/codecuphq/codecup-backend/pkg/db/models"
)

// Repository exposes read access to the coffee catalog plus the aggregate
// queries behind suggestions.
type Repository interface {
	List(ctx context.Context) ([]models.Coffee, error)
	FindByID(ctx context.Context, id int) (*models.Coffee, error)
	Count(ctx context.Context) (int64, error)
	CreateBatch(ctx context.Context, coffees []models.Coffee) error

	TopOrderedByUser(ctx context.Context, email string, limit int) ([]models.Coffee, error)
	TopTrending(ctx context.Context, limit int) ([]models.Coffee, error)
	NeverOrderedByUser(ctx context.Context, email string) ([]models.Coffee, error)
	OrderedCategories(ctx context.Context, email string) ([]string, error)
	ByCategoriesExcludingOrdered(ctx context.Context, email string, categories []string) ([]models.Coffee, error)
	Random(ctx context.Context, limit int) ([]models.Coffee, error)
}

type repository struct {
	repo.Base
}

// NewRepository builds a catalog repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{Base: repo.NewBase(db)}
}

func (r *repository) List(ctx context.Context) ([]models.Coffee, error) {
	var rows []models.Coffee
	if err := r.DB(ctx).Order("id ASC").Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *repository) FindByID(ctx context.Context, id int) (*models.Coffee, error) {
	var coffee models.Coffee
	if err := r.DB(ctx).First(&coffee, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &coffee, nil
}

func (r *repository) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := r.DB(ctx).Model(&models.Coffee{}).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *repository) CreateBatch(ctx context.Context, coffees []models.Coffee) error {
	if len(coffees) == 0 {
		return nil
	}
	return r.DB(ctx).Create(&coffees).Error
}

func (r *repository) TopOrderedByUser(ctx context.Context, email string, limit int) ([]models.Coffee, error) {
	var rows []models.Coffee
	err := r.DB(ctx).
		Joins("JOIN (SELECT coffee_id, COUNT(*) AS total FROM orders WHERE user_email = ? GROUP BY coffee_id) o ON o.coffee_id = coffees.id", email).
		Order("o.total DESC").
		Limit(limit).
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *repository) TopTrending(ctx context.Context, limit int) ([]models.Coffee, error) {
	var rows []models.Coffee
	err := r.DB(ctx).
		Joins("JOIN (SELECT coffee_id, COUNT(*) AS total FROM orders GROUP BY coffee_id) o ON o.coffee_id = coffees.id").
		Order("o.total DESC").
		Limit(limit).
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *repository) NeverOrderedByUser(ctx context.Context, email string) ([]models.Coffee, error) {
	var rows []models.Coffee
	err := r.DB(ctx).
		Where("id NOT IN (?)",
			r.DB(ctx).Model(&models.Order{}).Select("coffee_id").Where("user_email = ?", email)).
		Order("id ASC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *repository) OrderedCategories(ctx context.Context, email string) ([]string, error) {
	var categories []string
	err := r.DB(ctx).
		Model(&models.Order{}).
		Distinct("coffees.category").
		Joins("JOIN coffees ON coffees.id = orders.coffee_id").
		Where("orders.user_email = ?", email).
		Pluck("coffees.category", &categories).Error
	if err != nil {
		return nil, err
	}
	return categories, nil
}

func (r *repository) ByCategoriesExcludingOrdered(ctx context.Context, email string, categories []string) ([]models.Coffee, error) {
	if len(categories) == 0 {
		return nil, nil
	}
	var rows []models.Coffee
	err := r.DB(ctx).
		Where("category IN ?", categories).
		Where("id NOT IN (?)",
			r.DB(ctx).Model(&models.Order{}).Select("coffee_id").Where("user_email = ?", email)).
		Order("id ASC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *repository) Random(ctx context.Context, limit int) ([]models.Coffee, error) {
	var rows []models.Coffee
	if err := r.DB(ctx).Order("RANDOM()").Limit(limit).Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}
