package catalog

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/codecuphq/codecup-backend/pkg/db/models"
	"github.com/codecuphq/codecup-backend/pkg/logger"
)

// offerSeeder is the slice of the rewards repository seeding needs.
type offerSeeder interface {
	Count(ctx context.Context) (int64, error)
	CreateBatch(ctx context.Context, offers []models.RewardOffer) error
}

func price(value string) decimal.Decimal {
	return decimal.RequireFromString(value)
}

func stockCoffees() []models.Coffee {
	return []models.Coffee{
		{Name: "Americano", ImageRef: "coffees/americano.png", Description: "Classic black coffee with rich aroma.", Price: price("3.00"), RedeemPoint: 15, Category: "Black Coffee"},
		{Name: "Cappuccino", ImageRef: "coffees/cappuccino.png", Description: "Espresso with steamed milk foam.", Price: price("3.50"), RedeemPoint: 18, Category: "Milk-based"},
		{Name: "Mocha", ImageRef: "coffees/mocha.png", Description: "Chocolate-flavored coffee with milk.", Price: price("4.00"), RedeemPoint: 20, Category: "Milk-based"},
		{Name: "Flat White", ImageRef: "coffees/flatwhite.png", Description: "Smooth espresso with velvety milk.", Price: price("3.75"), RedeemPoint: 17, Category: "Milk-based"},
		{Name: "Espresso", ImageRef: "coffees/espresso.png", Description: "Strong, rich shot of pure coffee.", Price: price("2.50"), RedeemPoint: 10, Category: "Black Coffee"},
		{Name: "Macchiato", ImageRef: "coffees/macchiato.png", Description: "Espresso with a dollop of steamed milk.", Price: price("3.20"), RedeemPoint: 16, Category: "Black Coffee"},
		{Name: "Latte", ImageRef: "coffees/latte.png", Description: "Creamy espresso with steamed milk.", Price: price("3.80"), RedeemPoint: 18, Category: "Milk-based"},
		{Name: "Irish Coffee", ImageRef: "coffees/irish_coffee.png", Description: "Coffee mixed with Irish whiskey and cream.", Price: price("5.00"), RedeemPoint: 25, Category: "Specialty"},
	}
}

// stockOffers maps coffee names to the reward offers seeded alongside them.
func stockOffers() map[string]models.RewardOffer {
	until := func(s string) *string { return &s }
	return map[string]models.RewardOffer{
		"Americano":  {PointCost: 150, AvailableUntil: until("01.07.2025")},
		"Cappuccino": {PointCost: 180, AvailableUntil: until("15.07.2025")},
		"Mocha":      {PointCost: 200, AvailableUntil: until("20.06.2025")},
		"Flat White": {PointCost: 170, AvailableUntil: until("20.07.2025")},
	}
}

// SeedIfEmpty populates the coffee catalog and reward offers on first run.
// A non-empty catalog short-circuits; reward offers are only seeded when the
// rewards table is empty too, so a partially seeded store heals on restart.
func SeedIfEmpty(ctx context.Context, coffees Repository, offers offerSeeder, logg *logger.Logger) error {
	coffeeCount, err := coffees.Count(ctx)
	if err != nil {
		return fmt.Errorf("counting coffees: %w", err)
	}

	if coffeeCount == 0 {
		stock := stockCoffees()
		if err := coffees.CreateBatch(ctx, stock); err != nil {
			return fmt.Errorf("seeding coffees: %w", err)
		}
		if logg != nil {
			logg.Info(logg.WithField(ctx, "count", len(stock)), "seeded coffee catalog")
		}
	}

	offerCount, err := offers.Count(ctx)
	if err != nil {
		return fmt.Errorf("counting reward offers: %w", err)
	}
	if offerCount > 0 {
		return nil
	}

	rows, err := coffees.List(ctx)
	if err != nil {
		return fmt.Errorf("loading coffees for offers: %w", err)
	}
	byName := make(map[string]int, len(rows))
	for _, c := range rows {
		byName[c.Name] = c.ID
	}

	var batch []models.RewardOffer
	for name, offer := range stockOffers() {
		id, ok := byName[name]
		if !ok {
			continue
		}
		offer.CoffeeID = id
		batch = append(batch, offer)
	}
	if len(batch) == 0 {
		return nil
	}
	if err := offers.CreateBatch(ctx, batch); err != nil {
		return fmt.Errorf("seeding reward offers: %w", err)
	}
	if logg != nil {
		logg.Info(logg.WithField(ctx, "count", len(batch)), "seeded reward offers")
	}
	return nil
}
