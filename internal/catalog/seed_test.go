package catalog

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/codecuphq/codecup-backend/internal/rewards"
	"github.com/codecuphq/codecup-backend/pkg/db/models"
)

func setupSeedTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	conn, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, conn.AutoMigrate(&models.Coffee{}, &models.RewardOffer{}))
	return conn
}

func TestSeedIfEmptyPopulatesCatalogAndOffers(t *testing.T) {
	t.Parallel()

	conn := setupSeedTestDB(t)
	ctx := context.Background()

	coffeeRepo := NewRepository(conn)
	offerRepo := rewards.NewRepository(conn)
	require.NoError(t, SeedIfEmpty(ctx, coffeeRepo, offerRepo, nil))

	coffeeCount, err := coffeeRepo.Count(ctx)
	require.NoError(t, err)
	require.EqualValues(t, 8, coffeeCount)

	offers, err := offerRepo.List(ctx)
	require.NoError(t, err)
	require.Len(t, offers, 4)

	// Offers point at real catalog rows.
	for _, offer := range offers {
		coffee, err := coffeeRepo.FindByID(ctx, offer.CoffeeID)
		require.NoError(t, err)
		require.NotNil(t, coffee)
		require.NotNil(t, offer.AvailableUntil)
	}
}

func TestSeedIfEmptyIsIdempotent(t *testing.T) {
	t.Parallel()

	conn := setupSeedTestDB(t)
	ctx := context.Background()

	coffeeRepo := NewRepository(conn)
	offerRepo := rewards.NewRepository(conn)
	require.NoError(t, SeedIfEmpty(ctx, coffeeRepo, offerRepo, nil))
	require.NoError(t, SeedIfEmpty(ctx, coffeeRepo, offerRepo, nil))

	coffeeCount, err := coffeeRepo.Count(ctx)
	require.NoError(t, err)
	require.EqualValues(t, 8, coffeeCount)

	offerCount, err := offerRepo.Count(ctx)
	require.NoError(t, err)
	require.EqualValues(t, 4, offerCount)
}

func TestSeedIfEmptyBackfillsMissingOffers(t *testing.T) {
	t.Parallel()

	conn := setupSeedTestDB(t)
	ctx := context.Background()

	coffeeRepo := NewRepository(conn)
	offerRepo := rewards.NewRepository(conn)

	// Catalog already present, offers lost: the next run heals the offers.
	require.NoError(t, coffeeRepo.CreateBatch(ctx, stockCoffees()))
	require.NoError(t, SeedIfEmpty(ctx, coffeeRepo, offerRepo, nil))

	coffeeCount, err := coffeeRepo.Count(ctx)
	require.NoError(t, err)
	require.EqualValues(t, 8, coffeeCount)

	offerCount, err := offerRepo.Count(ctx)
	require.NoError(t, err)
	require.EqualValues(t, 4, offerCount)
}
