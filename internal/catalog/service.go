package catalog

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/codecuphq/codecup-backend/pkg/db/models"
	pkgerrors "github.com/codecuphq/codecup-backend/pkg/errors"
)

const (
	topOrderedLimit  = 5
	trendingLimit    = 3
	randomPicksLimit = 5
)

// Service exposes catalog reads and the suggestion feed.
type Service interface {
	List(ctx context.Context) ([]models.Coffee, error)
	Get(ctx context.Context, id int) (*models.Coffee, error)
	Suggestions(ctx context.Context, email string) (*SuggestionFeed, error)
}

// SuggestionFeed groups the three suggestion lists shown to a user.
type SuggestionFeed struct {
	MostOrdered []models.Coffee `json:"most_ordered"`
	Trending    []models.Coffee `json:"trending"`
	Recommended []models.Coffee `json:"recommended"`
	NeverTried  []models.Coffee `json:"never_tried"`
}

type service struct {
	repo Repository
}

// NewService builds a catalog service backed by the provided repository.
func NewService(repo Repository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("catalog repository required")
	}
	return &service{repo: repo}, nil
}

func (s *service) List(ctx context.Context) ([]models.Coffee, error) {
	return s.repo.List(ctx)
}

// Get returns the coffee or a NotFound error when the id is unknown.
func (s *service) Get(ctx context.Context, id int) (*models.Coffee, error) {
	coffee, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "coffee not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load coffee")
	}
	return coffee, nil
}

// Suggestions builds the personalized feed: the user's most ordered coffees,
// shop-wide trending coffees, recommendations drawn from their ordered
// categories (random picks when the category pool is exhausted), and coffees
// they never tried.
func (s *service) Suggestions(ctx context.Context, email string) (*SuggestionFeed, error) {
	mostOrdered, err := s.repo.TopOrderedByUser(ctx, email, topOrderedLimit)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "top ordered")
	}

	trending, err := s.repo.TopTrending(ctx, trendingLimit)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "trending")
	}

	categories, err := s.repo.OrderedCategories(ctx, email)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "ordered categories")
	}

	var recommended []models.Coffee
	if len(categories) > 0 {
		recommended, err = s.repo.ByCategoriesExcludingOrdered(ctx, email, categories)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "recommended by category")
		}
	}
	if len(recommended) == 0 {
		recommended, err = s.repo.Random(ctx, randomPicksLimit)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "random picks")
		}
	}

	neverTried, err := s.repo.NeverOrderedByUser(ctx, email)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "never tried")
	}

	return &SuggestionFeed{
		MostOrdered: mostOrdered,
		Trending:    trending,
		Recommended: recommended,
		NeverTried:  neverTried,
	}, nil
}
