package rewards

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/codecuphq/codecup-backend/internal/catalog"
	"github.com/codecuphq/codecup-backend/internal/loyalty"
	"github.com/codecuphq/codecup-backend/internal/orders"
	"github.com/codecuphq/codecup-backend/pkg/db/models"
	"github.com/codecuphq/codecup-backend/pkg/enums"
	pkgerrors "github.com/codecuphq/codecup-backend/pkg/errors"
	"github.com/codecuphq/codecup-backend/pkg/locks"
)

type gormTxRunner struct {
	conn *gorm.DB
}

func (r gormTxRunner) WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return r.conn.WithContext(ctx).Transaction(fn)
}

type rewardsFixture struct {
	conn        *gorm.DB
	repo        Repository
	loyaltyRepo loyalty.Repository
	ordersRepo  orders.Repository
	svc         *service
}

func newRewardsFixture(t *testing.T) *rewardsFixture {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	conn, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, conn.AutoMigrate(
		&models.Coffee{}, &models.User{}, &models.Order{}, &models.RewardOffer{},
	))

	f := &rewardsFixture{
		conn:        conn,
		repo:        NewRepository(conn),
		loyaltyRepo: loyalty.NewRepository(conn),
		ordersRepo:  orders.NewRepository(conn),
	}
	svc, err := NewService(
		gormTxRunner{conn: conn},
		locks.NewUserLocks(),
		f.repo,
		f.loyaltyRepo,
		f.ordersRepo,
		catalog.NewRepository(conn),
		nil,
	)
	require.NoError(t, err)
	f.svc = svc.(*service)
	return f
}

func (f *rewardsFixture) freezeClock(t *testing.T, day string) {
	t.Helper()
	at, err := time.Parse(ExpiryLayout, day)
	require.NoError(t, err)
	f.svc.now = func() time.Time { return at }
}

func (f *rewardsFixture) seedCoffee(t *testing.T, name string) *models.Coffee {
	t.Helper()
	coffee := &models.Coffee{
		Name:        name,
		ImageRef:    "coffees/test.png",
		Description: "test",
		Price:       decimal.RequireFromString("3.50"),
		RedeemPoint: 18,
		Category:    "Test",
	}
	require.NoError(t, f.conn.Create(coffee).Error)
	return coffee
}

func (f *rewardsFixture) seedUser(t *testing.T, email string, points int) {
	t.Helper()
	require.NoError(t, f.loyaltyRepo.Create(context.Background(), &models.User{
		Email:        email,
		FullName:     "Test User",
		Phone:        "555-0100",
		PasswordHash: "x",
		Address:      "12 Bean St",
		Points:       points,
	}))
}

func (f *rewardsFixture) seedOffer(t *testing.T, coffeeID, cost int, until *string) *models.RewardOffer {
	t.Helper()
	offer := &models.RewardOffer{CoffeeID: coffeeID, PointCost: cost, AvailableUntil: until}
	require.NoError(t, f.conn.Create(offer).Error)
	return offer
}

func strPtr(s string) *string { return &s }

func TestRedeemDebitsPointsAndPlacesFreeOrder(t *testing.T) {
	t.Parallel()

	f := newRewardsFixture(t)
	ctx := context.Background()
	f.freezeClock(t, "10.06.2025")

	coffee := f.seedCoffee(t, "Americano")
	offer := f.seedOffer(t, coffee.ID, 150, strPtr("01.07.2025"))
	f.seedUser(t, "amy@example.com", 200)

	order, err := f.svc.Redeem(ctx, "amy@example.com", offer.ID)
	require.NoError(t, err)
	require.True(t, order.Price.IsZero())
	require.Equal(t, 1, order.Quantity)
	require.Equal(t, coffee.ID, order.CoffeeID)
	require.Equal(t, enums.OrderStatusOngoing, order.Status)
	require.Equal(t, "12 Bean St", order.Address)

	account, err := f.loyaltyRepo.FindByEmail(ctx, "amy@example.com")
	require.NoError(t, err)
	require.Equal(t, 50, account.Points)

	// The balance no longer covers the cost; a second redemption is refused.
	_, err = f.svc.Redeem(ctx, "amy@example.com", offer.ID)
	require.True(t, pkgerrors.HasCode(err, pkgerrors.CodeStateConflict), "got %v", err)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	details, ok := typed.Details().(map[string]any)
	require.True(t, ok)
	require.Equal(t, ReasonInsufficientPoints, details["reason"])
}

func TestRedeemExpiredOffer(t *testing.T) {
	t.Parallel()

	f := newRewardsFixture(t)
	ctx := context.Background()
	f.freezeClock(t, "02.07.2025")

	coffee := f.seedCoffee(t, "Mocha")
	offer := f.seedOffer(t, coffee.ID, 100, strPtr("01.07.2025"))
	f.seedUser(t, "bob@example.com", 500)

	_, err := f.svc.Redeem(ctx, "bob@example.com", offer.ID)
	require.True(t, pkgerrors.HasCode(err, pkgerrors.CodeStateConflict), "got %v", err)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	details, ok := typed.Details().(map[string]any)
	require.True(t, ok)
	require.Equal(t, ReasonOfferExpired, details["reason"])

	// A refused redemption leaves the account and order book untouched.
	account, err := f.loyaltyRepo.FindByEmail(ctx, "bob@example.com")
	require.NoError(t, err)
	require.Equal(t, 500, account.Points)

	placed, err := f.ordersRepo.ListByUser(ctx, "bob@example.com", nil)
	require.NoError(t, err)
	require.Empty(t, placed)
}

func TestRedeemOfferWithoutExpiryIsUnavailable(t *testing.T) {
	t.Parallel()

	f := newRewardsFixture(t)
	f.freezeClock(t, "10.06.2025")

	coffee := f.seedCoffee(t, "Latte")
	offer := f.seedOffer(t, coffee.ID, 100, nil)
	f.seedUser(t, "cara@example.com", 500)

	_, err := f.svc.Redeem(context.Background(), "cara@example.com", offer.ID)
	require.True(t, pkgerrors.HasCode(err, pkgerrors.CodeStateConflict), "got %v", err)
}

func TestRedeemMalformedExpiryIsUnavailable(t *testing.T) {
	t.Parallel()

	f := newRewardsFixture(t)
	f.freezeClock(t, "10.06.2025")

	coffee := f.seedCoffee(t, "Espresso")
	offer := f.seedOffer(t, coffee.ID, 100, strPtr("015.07.2025"))
	f.seedUser(t, "dan@example.com", 500)

	_, err := f.svc.Redeem(context.Background(), "dan@example.com", offer.ID)
	require.True(t, pkgerrors.HasCode(err, pkgerrors.CodeStateConflict), "got %v", err)
}

func TestRedeemUnknownOffer(t *testing.T) {
	t.Parallel()

	f := newRewardsFixture(t)
	f.seedUser(t, "eve@example.com", 500)

	_, err := f.svc.Redeem(context.Background(), "eve@example.com", 404)
	require.True(t, pkgerrors.HasCode(err, pkgerrors.CodeNotFound), "got %v", err)
}

func TestListOffersMarksAvailability(t *testing.T) {
	t.Parallel()

	f := newRewardsFixture(t)
	f.freezeClock(t, "10.06.2025")

	coffee := f.seedCoffee(t, "Flat White")
	f.seedOffer(t, coffee.ID, 170, strPtr("20.07.2025"))
	f.seedOffer(t, coffee.ID, 200, strPtr("01.06.2025"))
	f.seedOffer(t, coffee.ID, 120, nil)

	offers, err := f.svc.ListOffers(context.Background())
	require.NoError(t, err)
	require.Len(t, offers, 3)
	require.True(t, offers[0].Available)
	require.False(t, offers[1].Available)
	require.False(t, offers[2].Available)
	require.NotNil(t, offers[0].Coffee)
}
