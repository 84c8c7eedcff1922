package seed

import (
	"context"
	"fmt"

	"ezelectronics/internal/domain"
)

// ProductWriter upserts catalog entries.
type ProductWriter interface {
	Upsert(ctx context.Context, product domain.Product) (*domain.Product, error)
}

type productSeed struct {
	Model       string
	Category    domain.Category
	Price       string
	Quantity    int
	ArrivalDate string
	Details     string
}

var demoCatalog = []productSeed{
	{Model: "iPhone 12", Category: domain.CategorySmartphone, Price: "200", Quantity: 10, ArrivalDate: "2024-01-10", Details: "64GB, black"},
	{Model: "iPhone 11", Category: domain.CategorySmartphone, Price: "150", Quantity: 10, ArrivalDate: "2023-09-20", Details: "64GB, white"},
	{Model: "MacBook Air M2", Category: domain.CategoryLaptop, Price: "1199.99", Quantity: 4, ArrivalDate: "2024-02-01", Details: "13-inch, 8GB RAM"},
	{Model: "ThinkPad X1", Category: domain.CategoryLaptop, Price: "1450", Quantity: 2, ArrivalDate: "2024-03-15", Details: "14-inch, 16GB RAM"},
	{Model: "Dyson V11", Category: domain.CategoryAppliance, Price: "499.90", Quantity: 6, ArrivalDate: "2023-11-05", Details: "cordless vacuum"},
	{Model: "Nespresso Vertuo", Category: domain.CategoryAppliance, Price: "179", Quantity: 0, ArrivalDate: "2023-12-01", Details: "coffee machine, restocking"},
}

// Apply upserts the demo catalog for manual testing. It is idempotent.
func Apply(ctx context.Context, w ProductWriter) (int, error) {
	for _, s := range demoCatalog {
		price, err := domain.ParseMoney(s.Price)
		if err != nil {
			return 0, fmt.Errorf("seed %s price: %w", s.Model, err)
		}
		if _, err := w.Upsert(ctx, domain.Product{
			Model:        s.Model,
			Category:     s.Category,
			SellingPrice: price,
			Quantity:     s.Quantity,
			ArrivalDate:  s.ArrivalDate,
			Details:      s.Details,
		}); err != nil {
			return 0, fmt.Errorf("upsert product %s: %w", s.Model, err)
		}
	}
	return len(demoCatalog), nil
}
