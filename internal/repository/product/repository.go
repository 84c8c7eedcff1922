package product

import (
	"context"

	"ezelectronics/internal/domain"
)

// Repository reads and writes the product catalog.
type Repository interface {
	GetByModel(ctx context.Context, model string) (*domain.Product, error)
	AvailableStock(ctx context.Context, model string) (int, error)
	DecrementStock(ctx context.Context, model string, quantity int) error
	List(ctx context.Context) ([]domain.Product, error)
	Upsert(ctx context.Context, product domain.Product) (*domain.Product, error)
}
