package rewards

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/codecuphq/codecup-backend/internal/loyalty"
	"github.com/codecuphq/codecup-backend/internal/orders"
	"github.com/codecuphq/codecup-backend/pkg/db/models"
	"github.com/codecuphq/codecup-backend/pkg/enums"
	pkgerrors "github.com/codecuphq/codecup-backend/pkg/errors"
	"github.com/codecuphq/codecup-backend/pkg/metrics"
)

const engineLabel = "redemption"

// ExpiryLayout is the calendar-day format stored on offers (day.month.year).
const ExpiryLayout = "02.01.2006"

// Rejection reasons carried in the NotEligible error details.
const (
	ReasonInsufficientPoints = "insufficient_points"
	ReasonOfferExpired       = "offer_expired"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type userLocker interface {
	Acquire(email string) func()
}

type coffeeLoader interface {
	FindByID(ctx context.Context, id int) (*models.Coffee, error)
}

// Offer is a reward offer joined with its coffee and availability.
type Offer struct {
	ID             int            `json:"id"`
	Coffee         *models.Coffee `json:"coffee,omitempty"`
	PointCost      int            `json:"point_cost"`
	AvailableUntil *string        `json:"available_until,omitempty"`
	Available      bool           `json:"available"`
}

// Service lists reward offers and redeems them for zero-price orders.
type Service interface {
	ListOffers(ctx context.Context) ([]Offer, error)
	Redeem(ctx context.Context, email string, offerID int) (*models.Order, error)
}

type service struct {
	tx          txRunner
	locks       userLocker
	repo        Repository
	loyaltyRepo loyalty.Repository
	ordersRepo  orders.Repository
	coffees     coffeeLoader
	metrics     *metrics.EngineMetrics
	now         func() time.Time
}

// NewService builds the redemption engine.
func NewService(
	tx txRunner,
	locks userLocker,
	repo Repository,
	loyaltyRepo loyalty.Repository,
	ordersRepo orders.Repository,
	coffees coffeeLoader,
	engineMetrics *metrics.EngineMetrics,
) (Service, error) {
	if tx == nil {
		return nil, fmt.Errorf("tx runner required")
	}
	if locks == nil {
		return nil, fmt.Errorf("user locks required")
	}
	if repo == nil {
		return nil, fmt.Errorf("rewards repository required")
	}
	if loyaltyRepo == nil {
		return nil, fmt.Errorf("loyalty repository required")
	}
	if ordersRepo == nil {
		return nil, fmt.Errorf("orders repository required")
	}
	if coffees == nil {
		return nil, fmt.Errorf("coffee loader required")
	}
	return &service{
		tx:          tx,
		locks:       locks,
		repo:        repo,
		loyaltyRepo: loyaltyRepo,
		ordersRepo:  ordersRepo,
		coffees:     coffees,
		metrics:     engineMetrics,
		now:         time.Now,
	}, nil
}

// available reports whether the wall clock is strictly before the offer's
// expiry day. A missing or malformed expiry makes the offer unavailable.
func available(offer *models.RewardOffer, now time.Time) bool {
	if offer.AvailableUntil == nil {
		return false
	}
	expiry, err := time.Parse(ExpiryLayout, *offer.AvailableUntil)
	if err != nil {
		return false
	}
	return now.Before(expiry)
}

func (s *service) ListOffers(ctx context.Context) ([]Offer, error) {
	rows, err := s.repo.List(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list offers")
	}

	now := s.now()
	offers := make([]Offer, 0, len(rows))
	for _, row := range rows {
		offer := Offer{
			ID:             row.ID,
			PointCost:      row.PointCost,
			AvailableUntil: row.AvailableUntil,
			Available:      available(&row, now),
		}
		coffee, err := s.coffees.FindByID(ctx, row.CoffeeID)
		switch {
		case err == nil:
			offer.Coffee = coffee
		case errors.Is(err, gorm.ErrRecordNotFound):
			// offer survives its coffee; shown without details
		default:
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load offer coffee")
		}
		offers = append(offers, offer)
	}
	return offers, nil
}

// Redeem trades points for a zero-price order. The debit and the order are
// one transaction under the per-user lock; an ineligible redemption mutates
// nothing.
func (s *service) Redeem(ctx context.Context, email string, offerID int) (*models.Order, error) {
	if email == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "email required")
	}

	release := s.locks.Acquire(email)
	defer release()

	started := s.now()
	order, err := s.redeem(ctx, email, offerID)
	s.metrics.ObserveDuration(engineLabel, s.now().Sub(started))
	if err != nil {
		s.metrics.IncFailure(engineLabel)
		return nil, err
	}
	s.metrics.IncSuccess(engineLabel)
	return order, nil
}

func (s *service) redeem(ctx context.Context, email string, offerID int) (*models.Order, error) {
	var placed *models.Order

	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		offerRepo := s.repo.WithTx(tx)
		loyaltyRepo := s.loyaltyRepo.WithTx(tx)
		ordersRepo := s.ordersRepo.WithTx(tx)

		offer, err := offerRepo.FindByID(ctx, offerID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.New(pkgerrors.CodeNotFound, "offer not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load offer")
		}

		account, err := loyaltyRepo.FindByEmail(ctx, email)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load account")
		}
		if account == nil {
			return pkgerrors.New(pkgerrors.CodeNotFound, "account not found")
		}

		if !available(offer, s.now()) {
			return pkgerrors.New(pkgerrors.CodeStateConflict, "offer not redeemable").
				WithDetails(map[string]any{"reason": ReasonOfferExpired})
		}
		if account.Points < offer.PointCost {
			return pkgerrors.New(pkgerrors.CodeStateConflict, "offer not redeemable").
				WithDetails(map[string]any{
					"reason":   ReasonInsufficientPoints,
					"points":   account.Points,
					"required": offer.PointCost,
				})
		}

		if err := loyaltyRepo.DecreasePoints(ctx, email, offer.PointCost); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "debit points")
		}

		order := models.Order{
			UserEmail: email,
			CoffeeID:  offer.CoffeeID,
			Address:   account.Address,
			Price:     decimal.Zero,
			Quantity:  1,
			PlacedAt:  s.now().Format(orders.PlacedAtLayout),
			Status:    enums.OrderStatusOngoing,
		}
		if err := ordersRepo.Create(ctx, &order); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create reward order")
		}
		placed = &order
		return nil
	})
	if err != nil {
		return nil, err
	}
	return placed, nil
}
