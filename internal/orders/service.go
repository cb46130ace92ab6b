package orders

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/codecuphq/codecup-backend/pkg/db/models"
	"github.com/codecuphq/codecup-backend/pkg/enums"
	pkgerrors "github.com/codecuphq/codecup-backend/pkg/errors"
)

// PlacedAtLayout is the wall-clock format stored on orders.
const PlacedAtLayout = "2006-01-02 15:04:05"

// Service exposes order history reads and the ongoing→history transition.
// Orders are only ever created by the checkout and redemption engines.
type Service interface {
	ListByUser(ctx context.Context, email string, status *enums.OrderStatus) ([]models.Order, error)
	MarkHistory(ctx context.Context, email string, orderID int) (*models.Order, error)
}

type service struct {
	repo Repository
}

// NewService builds an orders service backed by the provided repository.
func NewService(repo Repository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("orders repository required")
	}
	return &service{repo: repo}, nil
}

func (s *service) ListByUser(ctx context.Context, email string, status *enums.OrderStatus) ([]models.Order, error) {
	rows, err := s.repo.ListByUser(ctx, email, status)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list orders")
	}
	return rows, nil
}

// MarkHistory completes an ongoing order. History is terminal: completing an
// order that is already history succeeds without touching the row.
func (s *service) MarkHistory(ctx context.Context, email string, orderID int) (*models.Order, error) {
	order, err := s.repo.FindByID(ctx, orderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load order")
	}
	if order.UserEmail != email {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "order belongs to another account")
	}
	if order.Status == enums.OrderStatusHistory {
		return order, nil
	}

	if err := s.repo.UpdateStatus(ctx, orderID, enums.OrderStatusHistory); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update order status")
	}
	order.Status = enums.OrderStatusHistory
	return order, nil
}
