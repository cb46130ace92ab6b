package cart

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/codecuphq/codecup-backend/internal/catalog"
	"github.com/codecuphq/codecup-backend/pkg/db/models"
	"github.com/codecuphq/codecup-backend/pkg/enums"
	pkgerrors "github.com/codecuphq/codecup-backend/pkg/errors"
)

type stubCartRepo struct {
	items  map[int]*models.CartItem
	nextID int
}

func newStubCartRepo() *stubCartRepo {
	return &stubCartRepo{items: make(map[int]*models.CartItem), nextID: 1}
}

func (s *stubCartRepo) WithTx(tx *gorm.DB) Repository { return s }

func (s *stubCartRepo) FindMatching(ctx context.Context, key VariantKey) (*models.CartItem, error) {
	for _, item := range s.items {
		if item.UserEmail == key.UserEmail && item.CoffeeID == key.CoffeeID &&
			item.ShotType == key.ShotType && item.DrinkType == key.DrinkType &&
			item.Size == key.Size && item.IceLevel == key.IceLevel {
			copied := *item
			return &copied, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (s *stubCartRepo) IncrementQuantity(ctx context.Context, id int, delta int) error {
	if item, ok := s.items[id]; ok {
		item.Quantity += delta
	}
	return nil
}

func (s *stubCartRepo) Create(ctx context.Context, item *models.CartItem) error {
	item.ID = s.nextID
	s.nextID++
	copied := *item
	s.items[item.ID] = &copied
	return nil
}

func (s *stubCartRepo) ListByUser(ctx context.Context, email string) ([]models.CartItem, error) {
	var out []models.CartItem
	for id := 1; id < s.nextID; id++ {
		if item, ok := s.items[id]; ok && item.UserEmail == email {
			out = append(out, *item)
		}
	}
	return out, nil
}

func (s *stubCartRepo) DeleteByID(ctx context.Context, email string, id int) error {
	if item, ok := s.items[id]; ok && item.UserEmail == email {
		delete(s.items, id)
	}
	return nil
}

func (s *stubCartRepo) ClearByUser(ctx context.Context, email string) error {
	for id, item := range s.items {
		if item.UserEmail == email {
			delete(s.items, id)
		}
	}
	return nil
}

type stubCatalog struct {
	coffees map[int]*models.Coffee
}

func (s stubCatalog) List(ctx context.Context) ([]models.Coffee, error) { return nil, nil }

func (s stubCatalog) Get(ctx context.Context, id int) (*models.Coffee, error) {
	if coffee, ok := s.coffees[id]; ok {
		return coffee, nil
	}
	return nil, pkgerrors.New(pkgerrors.CodeNotFound, "coffee not found")
}

func (s stubCatalog) Suggestions(ctx context.Context, email string) (*catalog.SuggestionFeed, error) {
	return &catalog.SuggestionFeed{}, nil
}

func testCatalog() stubCatalog {
	return stubCatalog{coffees: map[int]*models.Coffee{
		1: {ID: 1, Name: "Latte", Price: decimal.RequireFromString("3.80"), RedeemPoint: 18},
		2: {ID: 2, Name: "Mocha", Price: decimal.RequireFromString("4.00"), RedeemPoint: 20},
	}}
}

func newCartService(t *testing.T, repo Repository) Service {
	t.Helper()
	svc, err := NewService(repo, testCatalog())
	if err != nil {
		t.Fatalf("building service: %v", err)
	}
	return svc
}

func addInput(email string, coffeeID, qty int) AddInput {
	return AddInput{
		UserEmail: email,
		CoffeeID:  coffeeID,
		Quantity:  qty,
		ShotType:  enums.ShotTypeDouble,
		DrinkType: enums.DrinkTypeCold,
		Size:      enums.CupSizeLarge,
		IceLevel:  enums.IceLevelMedium,
	}
}

func TestAddMergesSameVariant(t *testing.T) {
	t.Parallel()

	repo := newStubCartRepo()
	svc := newCartService(t, repo)
	ctx := context.Background()

	first, err := svc.Add(ctx, addInput("amy@example.com", 1, 2))
	if err != nil {
		t.Fatalf("first add: %v", err)
	}
	second, err := svc.Add(ctx, addInput("amy@example.com", 1, 3))
	if err != nil {
		t.Fatalf("second add: %v", err)
	}

	if second.ID != first.ID {
		t.Fatalf("expected merge into line %d, got new line %d", first.ID, second.ID)
	}
	if second.Quantity != 5 {
		t.Fatalf("expected merged quantity 5, got %d", second.Quantity)
	}

	items, _ := repo.ListByUser(ctx, "amy@example.com")
	if len(items) != 1 {
		t.Fatalf("expected a single cart line, got %d", len(items))
	}
}

func TestAddDifferentVariantCreatesNewLine(t *testing.T) {
	t.Parallel()

	repo := newStubCartRepo()
	svc := newCartService(t, repo)
	ctx := context.Background()

	if _, err := svc.Add(ctx, addInput("bob@example.com", 1, 1)); err != nil {
		t.Fatalf("first add: %v", err)
	}

	in := addInput("bob@example.com", 1, 1)
	in.Size = enums.CupSizeSmall
	if _, err := svc.Add(ctx, in); err != nil {
		t.Fatalf("variant add: %v", err)
	}

	items, _ := repo.ListByUser(ctx, "bob@example.com")
	if len(items) != 2 {
		t.Fatalf("expected two distinct lines, got %d", len(items))
	}
}

// racingCartRepo simulates a concurrent request winning the insert: the first
// Create lands the other request's row and fails with the unique index error
// the drivers report.
type racingCartRepo struct {
	*stubCartRepo
	raced bool
}

func (r *racingCartRepo) WithTx(tx *gorm.DB) Repository { return r }

func (r *racingCartRepo) Create(ctx context.Context, item *models.CartItem) error {
	if !r.raced {
		r.raced = true
		concurrent := *item
		concurrent.Quantity = 1
		if err := r.stubCartRepo.Create(ctx, &concurrent); err != nil {
			return err
		}
		return errors.New(`ERROR: duplicate key value violates unique constraint "uidx_cart_variant" (SQLSTATE 23505)`)
	}
	return r.stubCartRepo.Create(ctx, item)
}

func TestAddMergesAfterConcurrentInsert(t *testing.T) {
	t.Parallel()

	repo := &racingCartRepo{stubCartRepo: newStubCartRepo()}
	svc := newCartService(t, repo)
	ctx := context.Background()

	item, err := svc.Add(ctx, addInput("amy@example.com", 1, 3))
	if err != nil {
		t.Fatalf("add during race: %v", err)
	}
	if item.Quantity != 4 {
		t.Fatalf("expected merged quantity 4 (1 concurrent + 3 retried), got %d", item.Quantity)
	}

	items, _ := repo.ListByUser(ctx, "amy@example.com")
	if len(items) != 1 {
		t.Fatalf("expected a single cart line after the race, got %d", len(items))
	}
}

func TestAddRejectsUnknownCoffee(t *testing.T) {
	t.Parallel()

	svc := newCartService(t, newStubCartRepo())

	_, err := svc.Add(context.Background(), addInput("amy@example.com", 99, 1))
	if !pkgerrors.HasCode(err, pkgerrors.CodeNotFound) {
		t.Fatalf("expected not-found error, got %v", err)
	}
}

func TestAddRejectsNonPositiveQuantity(t *testing.T) {
	t.Parallel()

	svc := newCartService(t, newStubCartRepo())

	_, err := svc.Add(context.Background(), addInput("amy@example.com", 1, 0))
	if !pkgerrors.HasCode(err, pkgerrors.CodeValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestListPricesAgainstLiveCatalog(t *testing.T) {
	t.Parallel()

	repo := newStubCartRepo()
	svc := newCartService(t, repo)
	ctx := context.Background()

	if _, err := svc.Add(ctx, addInput("amy@example.com", 1, 2)); err != nil {
		t.Fatalf("add latte: %v", err)
	}
	if _, err := svc.Add(ctx, addInput("amy@example.com", 2, 1)); err != nil {
		t.Fatalf("add mocha: %v", err)
	}

	summary, err := svc.List(ctx, "amy@example.com")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	// 2 × 3.80 + 1 × 4.00
	if want := decimal.RequireFromString("11.60"); !summary.Total.Equal(want) {
		t.Fatalf("expected total %s, got %s", want, summary.Total)
	}
}

func TestListSkipsRemovedCoffeeFromTotal(t *testing.T) {
	t.Parallel()

	repo := newStubCartRepo()
	svc := newCartService(t, repo)
	ctx := context.Background()

	if _, err := svc.Add(ctx, addInput("amy@example.com", 1, 1)); err != nil {
		t.Fatalf("add: %v", err)
	}
	// Simulate the coffee disappearing from the catalog after the add.
	orphan := addInput("amy@example.com", 2, 1)
	if _, err := svc.Add(ctx, orphan); err != nil {
		t.Fatalf("add orphan: %v", err)
	}
	for _, item := range repo.items {
		if item.CoffeeID == 2 {
			item.CoffeeID = 77
		}
	}

	summary, err := svc.List(ctx, "amy@example.com")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(summary.Lines) != 2 {
		t.Fatalf("expected both lines visible, got %d", len(summary.Lines))
	}
	if want := decimal.RequireFromString("3.80"); !summary.Total.Equal(want) {
		t.Fatalf("expected total %s, got %s", want, summary.Total)
	}
}
