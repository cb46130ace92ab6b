package checkout

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/codecuphq/codecup-backend/internal/cart"
	"github.com/codecuphq/codecup-backend/internal/loyalty"
	"github.com/codecuphq/codecup-backend/internal/orders"
	"github.com/codecuphq/codecup-backend/pkg/db/models"
	"github.com/codecuphq/codecup-backend/pkg/enums"
	pkgerrors "github.com/codecuphq/codecup-backend/pkg/errors"
	"github.com/codecuphq/codecup-backend/pkg/metrics"
)

const engineLabel = "checkout"

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type userLocker interface {
	Acquire(email string) func()
}

type coffeeLoader interface {
	FindByID(ctx context.Context, id int) (*models.Coffee, error)
}

// Receipt is the outcome of one checkout: the orders placed, the money total,
// and the loyalty deltas that were applied.
type Receipt struct {
	Orders       []models.Order  `json:"orders"`
	Total        decimal.Decimal `json:"total"`
	StampsEarned int             `json:"stamps_earned"`
	PointsEarned int             `json:"points_earned"`
	SkippedLines []int           `json:"skipped_lines,omitempty"`
}

// Service converts a cart into orders and loyalty credit in one transaction.
type Service interface {
	Execute(ctx context.Context, email string) (*Receipt, error)
}

type service struct {
	tx          txRunner
	locks       userLocker
	cartRepo    cart.Repository
	loyaltyRepo loyalty.Repository
	ordersRepo  orders.Repository
	coffees     coffeeLoader
	metrics     *metrics.EngineMetrics
	now         func() time.Time
}

// NewService builds the checkout engine.
func NewService(
	tx txRunner,
	locks userLocker,
	cartRepo cart.Repository,
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
	if cartRepo == nil {
		return nil, fmt.Errorf("cart repository required")
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
		cartRepo:    cartRepo,
		loyaltyRepo: loyaltyRepo,
		ordersRepo:  ordersRepo,
		coffees:     coffees,
		metrics:     engineMetrics,
		now:         time.Now,
	}, nil
}

// Execute places one order per cart line, credits one stamp per cup and the
// coffee's redeem points per cup, then clears the cart. Everything happens in
// a single transaction under a per-user lock: concurrent checkouts for the
// same account are serialized, and a failure anywhere leaves cart, orders,
// and account untouched.
func (s *service) Execute(ctx context.Context, email string) (*Receipt, error) {
	if email == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "email required")
	}

	release := s.locks.Acquire(email)
	defer release()

	started := s.now()
	receipt, err := s.execute(ctx, email)
	s.metrics.ObserveDuration(engineLabel, s.now().Sub(started))
	if err != nil {
		s.metrics.IncFailure(engineLabel)
		return nil, err
	}
	s.metrics.IncSuccess(engineLabel)
	return receipt, nil
}

func (s *service) execute(ctx context.Context, email string) (*Receipt, error) {
	receipt := &Receipt{Total: decimal.Zero}

	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		cartRepo := s.cartRepo.WithTx(tx)
		loyaltyRepo := s.loyaltyRepo.WithTx(tx)
		ordersRepo := s.ordersRepo.WithTx(tx)

		account, err := loyaltyRepo.FindByEmail(ctx, email)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load account")
		}
		if account == nil {
			return pkgerrors.New(pkgerrors.CodeNotFound, "account not found")
		}

		items, err := cartRepo.ListByUser(ctx, email)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list cart")
		}
		if len(items) == 0 {
			return nil
		}

		placedAt := s.now().Format(orders.PlacedAtLayout)
		for _, item := range items {
			coffee, err := s.coffees.FindByID(ctx, item.CoffeeID)
			if errors.Is(err, gorm.ErrRecordNotFound) {
				// Coffee was removed from the catalog after the line was
				// added; the line is dropped, not billed.
				receipt.SkippedLines = append(receipt.SkippedLines, item.ID)
				continue
			}
			if err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load coffee")
			}

			order := models.Order{
				UserEmail: email,
				CoffeeID:  coffee.ID,
				Address:   account.Address,
				Price:     coffee.Price.Mul(decimal.NewFromInt(int64(item.Quantity))),
				Quantity:  item.Quantity,
				PlacedAt:  placedAt,
				Status:    enums.OrderStatusOngoing,
			}
			if err := ordersRepo.Create(ctx, &order); err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create order")
			}

			receipt.Orders = append(receipt.Orders, order)
			receipt.Total = receipt.Total.Add(order.Price)
			receipt.StampsEarned += item.Quantity
			receipt.PointsEarned += coffee.RedeemPoint * item.Quantity
		}

		if err := loyaltyRepo.ApplyCheckoutDelta(ctx, email, receipt.StampsEarned, receipt.PointsEarned); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "apply loyalty delta")
		}
		if err := cartRepo.ClearByUser(ctx, email); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "clear cart")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return receipt, nil
}
