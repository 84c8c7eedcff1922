package product

import (
	"context"
	"errors"
	"strings"

	"ezelectronics/internal/domain"
)

type productRepo interface {
	GetByModel(ctx context.Context, model string) (*domain.Product, error)
	List(ctx context.Context) ([]domain.Product, error)
}

// Service exposes the catalog read-only.
type Service struct {
	repo productRepo
}

func New(repo productRepo) *Service {
	return &Service{repo: repo}
}

// List returns every product, optionally narrowed to one category.
func (s *Service) List(ctx context.Context, category string) ([]domain.Product, error) {
	products, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	category = strings.TrimSpace(category)
	if category == "" {
		return products, nil
	}
	filtered := make([]domain.Product, 0, len(products))
	for _, p := range products {
		if strings.EqualFold(string(p.Category), category) {
			filtered = append(filtered, p)
		}
	}
	return filtered, nil
}

func (s *Service) Get(ctx context.Context, model string) (*domain.Product, error) {
	p, err := s.repo.GetByModel(ctx, strings.TrimSpace(model))
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrProductNotFound
		}
		return nil, err
	}
	return p, nil
}
