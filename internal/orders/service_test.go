package orders

import (
	"context"
	"testing"

	"gorm.io/gorm"

	"github.com/codecuphq/codecup-backend/pkg/db/models"
	"github.com/codecuphq/codecup-backend/pkg/enums"
	pkgerrors "github.com/codecuphq/codecup-backend/pkg/errors"
)

type stubOrdersRepo struct {
	orders        map[int]*models.Order
	statusUpdates int
}

func newStubOrdersRepo(orders ...*models.Order) *stubOrdersRepo {
	s := &stubOrdersRepo{orders: make(map[int]*models.Order)}
	for _, o := range orders {
		s.orders[o.ID] = o
	}
	return s
}

func (s *stubOrdersRepo) WithTx(tx *gorm.DB) Repository { return s }

func (s *stubOrdersRepo) Create(ctx context.Context, order *models.Order) error {
	order.ID = len(s.orders) + 1
	s.orders[order.ID] = order
	return nil
}

func (s *stubOrdersRepo) FindByID(ctx context.Context, id int) (*models.Order, error) {
	if o, ok := s.orders[id]; ok {
		copied := *o
		return &copied, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (s *stubOrdersRepo) ListByUser(ctx context.Context, email string, status *enums.OrderStatus) ([]models.Order, error) {
	var out []models.Order
	for _, o := range s.orders {
		if o.UserEmail == email && (status == nil || o.Status == *status) {
			out = append(out, *o)
		}
	}
	return out, nil
}

func (s *stubOrdersRepo) UpdateStatus(ctx context.Context, id int, status enums.OrderStatus) error {
	s.statusUpdates++
	if o, ok := s.orders[id]; ok {
		o.Status = status
		return nil
	}
	return gorm.ErrRecordNotFound
}

func newOrdersService(t *testing.T, repo Repository) Service {
	t.Helper()
	svc, err := NewService(repo)
	if err != nil {
		t.Fatalf("building service: %v", err)
	}
	return svc
}

func TestMarkHistoryCompletesOngoing(t *testing.T) {
	t.Parallel()

	repo := newStubOrdersRepo(&models.Order{ID: 1, UserEmail: "amy@example.com", Status: enums.OrderStatusOngoing})
	svc := newOrdersService(t, repo)

	order, err := svc.MarkHistory(context.Background(), "amy@example.com", 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if order.Status != enums.OrderStatusHistory {
		t.Fatalf("expected history status, got %s", order.Status)
	}
}

func TestMarkHistoryAlreadyHistoryIsNoOp(t *testing.T) {
	t.Parallel()

	repo := newStubOrdersRepo(&models.Order{ID: 1, UserEmail: "amy@example.com", Status: enums.OrderStatusHistory})
	svc := newOrdersService(t, repo)

	order, err := svc.MarkHistory(context.Background(), "amy@example.com", 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if order.Status != enums.OrderStatusHistory {
		t.Fatalf("expected history status, got %s", order.Status)
	}
	if repo.statusUpdates != 0 {
		t.Fatalf("expected no status update, got %d", repo.statusUpdates)
	}
}

func TestMarkHistoryUnknownOrder(t *testing.T) {
	t.Parallel()

	svc := newOrdersService(t, newStubOrdersRepo())

	_, err := svc.MarkHistory(context.Background(), "amy@example.com", 404)
	if !pkgerrors.HasCode(err, pkgerrors.CodeNotFound) {
		t.Fatalf("expected not-found error, got %v", err)
	}
}

func TestMarkHistoryWrongOwner(t *testing.T) {
	t.Parallel()

	repo := newStubOrdersRepo(&models.Order{ID: 1, UserEmail: "amy@example.com", Status: enums.OrderStatusOngoing})
	svc := newOrdersService(t, repo)

	_, err := svc.MarkHistory(context.Background(), "bob@example.com", 1)
	if !pkgerrors.HasCode(err, pkgerrors.CodeForbidden) {
		t.Fatalf("expected forbidden error, got %v", err)
	}
}
