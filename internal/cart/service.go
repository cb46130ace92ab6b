package cart

import (
	"context"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/codecuphq/codecup-backend/internal/catalog"
	"github.com/codecuphq/codecup-backend/pkg/db"
	"github.com/codecuphq/codecup-backend/pkg/db/models"
	"github.com/codecuphq/codecup-backend/pkg/enums"
	pkgerrors "github.com/codecuphq/codecup-backend/pkg/errors"
)

// AddInput is one add-to-cart request after transport validation.
type AddInput struct {
	UserEmail string
	CoffeeID  int
	Quantity  int
	ShotType  enums.ShotType
	DrinkType enums.DrinkType
	Size      enums.CupSize
	IceLevel  enums.IceLevel
}

// Line is a cart item joined with its live catalog pricing.
type Line struct {
	Item      models.CartItem `json:"item"`
	Coffee    *models.Coffee  `json:"coffee,omitempty"`
	LineTotal decimal.Decimal `json:"line_total"`
}

// Summary is a priced view of one user's cart.
type Summary struct {
	Lines []Line          `json:"lines"`
	Total decimal.Decimal `json:"total"`
}

// Service manages pending cart lines for a user.
type Service interface {
	Add(ctx context.Context, in AddInput) (*models.CartItem, error)
	List(ctx context.Context, email string) (*Summary, error)
	Remove(ctx context.Context, email string, itemID int) error
	Clear(ctx context.Context, email string) error
}

type service struct {
	repo    Repository
	catalog catalog.Service
}

// NewService builds a cart service backed by the provided collaborators.
func NewService(repo Repository, catalogSvc catalog.Service) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("cart repository required")
	}
	if catalogSvc == nil {
		return nil, fmt.Errorf("catalog service required")
	}
	return &service{repo: repo, catalog: catalogSvc}, nil
}

// Add merges the request into an existing line with the same variant key, or
// creates a new line. A concurrent insert of the same variant trips the unique
// index, in which case the add is retried as an increment.
func (s *service) Add(ctx context.Context, in AddInput) (*models.CartItem, error) {
	if in.Quantity <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "quantity must be positive")
	}
	if !in.ShotType.IsValid() || !in.DrinkType.IsValid() || !in.Size.IsValid() || !in.IceLevel.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid drink variant")
	}

	coffee, err := s.catalog.Get(ctx, in.CoffeeID)
	if err != nil {
		return nil, err
	}

	key := VariantKey{
		UserEmail: in.UserEmail,
		CoffeeID:  in.CoffeeID,
		ShotType:  in.ShotType,
		DrinkType: in.DrinkType,
		Size:      in.Size,
		IceLevel:  in.IceLevel,
	}

	existing, err := s.repo.FindMatching(ctx, key)
	switch {
	case err == nil:
		if err := s.repo.IncrementQuantity(ctx, existing.ID, in.Quantity); err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "increment cart line")
		}
		existing.Quantity += in.Quantity
		return existing, nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		// fall through to insert
	default:
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "lookup cart line")
	}

	item := &models.CartItem{
		UserEmail: in.UserEmail,
		CoffeeID:  in.CoffeeID,
		Quantity:  in.Quantity,
		ShotType:  in.ShotType,
		DrinkType: in.DrinkType,
		Size:      in.Size,
		IceLevel:  in.IceLevel,
		UnitPrice: coffee.Price,
	}
	if err := s.repo.Create(ctx, item); err != nil {
		if db.IsUniqueViolation(err) {
			return s.mergeAfterRace(ctx, key, in.Quantity)
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create cart line")
	}
	return item, nil
}

func (s *service) mergeAfterRace(ctx context.Context, key VariantKey, quantity int) (*models.CartItem, error) {
	existing, err := s.repo.FindMatching(ctx, key)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "lookup cart line after conflict")
	}
	if err := s.repo.IncrementQuantity(ctx, existing.ID, quantity); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "increment cart line")
	}
	existing.Quantity += quantity
	return existing, nil
}

// List prices the cart against the live catalog. Lines whose coffee has been
// removed from the catalog are returned without pricing and excluded from the
// total, mirroring how checkout skips them.
func (s *service) List(ctx context.Context, email string) (*Summary, error) {
	items, err := s.repo.ListByUser(ctx, email)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list cart")
	}

	summary := &Summary{Lines: make([]Line, 0, len(items)), Total: decimal.Zero}
	for _, item := range items {
		line := Line{Item: item, LineTotal: decimal.Zero}
		coffee, err := s.catalog.Get(ctx, item.CoffeeID)
		switch {
		case err == nil:
			line.Coffee = coffee
			line.LineTotal = coffee.Price.Mul(decimal.NewFromInt(int64(item.Quantity)))
			summary.Total = summary.Total.Add(line.LineTotal)
		case pkgerrors.HasCode(err, pkgerrors.CodeNotFound):
			// keep the line visible, unpriced
		default:
			return nil, err
		}
		summary.Lines = append(summary.Lines, line)
	}
	return summary, nil
}

func (s *service) Remove(ctx context.Context, email string, itemID int) error {
	if err := s.repo.DeleteByID(ctx, email, itemID); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "remove cart line")
	}
	return nil
}

func (s *service) Clear(ctx context.Context, email string) error {
	if err := s.repo.ClearByUser(ctx, email); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "clear cart")
	}
	return nil
}
