package cart

import (
	"context"
	"fmt"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/codecuphq/codecup-backend/pkg/db/models"
	"github.com/codecuphq/codecup-backend/pkg/enums"
)

func setupCartTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	conn, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, conn.AutoMigrate(&models.CartItem{}))
	return conn
}

func testVariant(email string, coffeeID int) VariantKey {
	return VariantKey{
		UserEmail: email,
		CoffeeID:  coffeeID,
		ShotType:  enums.ShotTypeSingle,
		DrinkType: enums.DrinkTypeHot,
		Size:      enums.CupSizeMedium,
		IceLevel:  enums.IceLevelLow,
	}
}

func newItem(key VariantKey, qty int) *models.CartItem {
	return &models.CartItem{
		UserEmail: key.UserEmail,
		CoffeeID:  key.CoffeeID,
		Quantity:  qty,
		ShotType:  key.ShotType,
		DrinkType: key.DrinkType,
		Size:      key.Size,
		IceLevel:  key.IceLevel,
		UnitPrice: decimal.RequireFromString("3.50"),
	}
}

func TestRepositoryMergeKeyUniqueness(t *testing.T) {
	t.Parallel()

	conn := setupCartTestDB(t)
	repo := NewRepository(conn)
	ctx := context.Background()
	key := testVariant("amy@example.com", 1)

	require.NoError(t, repo.Create(ctx, newItem(key, 2)))

	// Same variant again violates the composite unique index.
	err := repo.Create(ctx, newItem(key, 1))
	require.Error(t, err)

	// A different ice level is a distinct line.
	other := key
	other.IceLevel = enums.IceLevelHigh
	require.NoError(t, repo.Create(ctx, newItem(other, 1)))

	items, err := repo.ListByUser(ctx, key.UserEmail)
	require.NoError(t, err)
	require.Len(t, items, 2)
}

func TestRepositoryIncrementQuantity(t *testing.T) {
	t.Parallel()

	conn := setupCartTestDB(t)
	repo := NewRepository(conn)
	ctx := context.Background()
	key := testVariant("bob@example.com", 3)

	item := newItem(key, 2)
	require.NoError(t, repo.Create(ctx, item))
	require.NoError(t, repo.IncrementQuantity(ctx, item.ID, 5))

	found, err := repo.FindMatching(ctx, key)
	require.NoError(t, err)
	require.Equal(t, 7, found.Quantity)
}

func TestRepositoryDeleteIsIdempotent(t *testing.T) {
	t.Parallel()

	conn := setupCartTestDB(t)
	repo := NewRepository(conn)
	ctx := context.Background()
	key := testVariant("cara@example.com", 2)

	item := newItem(key, 1)
	require.NoError(t, repo.Create(ctx, item))
	require.NoError(t, repo.DeleteByID(ctx, key.UserEmail, item.ID))
	require.NoError(t, repo.DeleteByID(ctx, key.UserEmail, item.ID))

	items, err := repo.ListByUser(ctx, key.UserEmail)
	require.NoError(t, err)
	require.Empty(t, items)
}

func TestRepositoryClearScopedToUser(t *testing.T) {
	t.Parallel()

	conn := setupCartTestDB(t)
	repo := NewRepository(conn)
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, newItem(testVariant("dan@example.com", 1), 1)))
	require.NoError(t, repo.Create(ctx, newItem(testVariant("dan@example.com", 2), 1)))
	require.NoError(t, repo.Create(ctx, newItem(testVariant("eve@example.com", 1), 1)))

	require.NoError(t, repo.ClearByUser(ctx, "dan@example.com"))

	remaining, err := repo.ListByUser(ctx, "eve@example.com")
	require.NoError(t, err)
	require.Len(t, remaining, 1)

	cleared, err := repo.ListByUser(ctx, "dan@example.com")
	require.NoError(t, err)
	require.Empty(t, cleared)
}
