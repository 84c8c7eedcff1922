package product

import (
	"context"
	"errors"
	"fmt"

	"ezelectronics/internal/db"
	"ezelectronics/internal/domain"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

const productColumns = `model, category, selling_price::text, quantity, COALESCE(to_char(arrival_date, 'YYYY-MM-DD'), ''), COALESCE(details, '')`

type postgresRepo struct {
	q      db.Querier
	logger *zap.Logger
}

// NewPostgres returns a Repository backed by Postgres. q may be a pool or a
// transaction.
func NewPostgres(q db.Querier, logger *zap.Logger) Repository {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &postgresRepo{q: q, logger: logger}
}

func (r *postgresRepo) GetByModel(ctx context.Context, model string) (*domain.Product, error) {
	q := `SELECT ` + productColumns + ` FROM products WHERE model = $1`
	p, err := scanProduct(r.q.QueryRow(ctx, q, model))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			r.logger.Debug("product_not_found", zap.String("model", model))
			return nil, domain.ErrNotFound
		}
		r.logger.Error("product_get_failed", zap.String("model", model), zap.Error(err))
		return nil, err
	}
	return p, nil
}

func (r *postgresRepo) AvailableStock(ctx context.Context, model string) (int, error) {
	var qty int
	err := r.q.QueryRow(ctx, `SELECT quantity FROM products WHERE model = $1`, model).Scan(&qty)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, domain.ErrNotFound
		}
		return 0, err
	}
	return qty, nil
}

// DecrementStock subtracts quantity units. It refuses to go below zero so a
// caller that skipped validation cannot oversell.
func (r *postgresRepo) DecrementStock(ctx context.Context, model string, quantity int) error {
	if quantity <= 0 {
		return fmt.Errorf("product repo: decrement %q by non-positive quantity %d", model, quantity)
	}
	cmd, err := r.q.Exec(ctx, `
UPDATE products
SET quantity = quantity - $1
WHERE model = $2 AND quantity >= $1
`, quantity, model)
	if err != nil {
		r.logger.Error("product_decrement_failed", zap.String("model", model), zap.Int("quantity", quantity), zap.Error(err))
		return err
	}
	if cmd.RowsAffected() == 1 {
		return nil
	}

	stock, err := r.AvailableStock(ctx, model)
	if err != nil {
		return err
	}
	if stock == 0 {
		return domain.ErrEmptyProductStock
	}
	return domain.ErrLowProductStock
}

func (r *postgresRepo) List(ctx context.Context) ([]domain.Product, error) {
	rows, err := r.q.Query(ctx, `SELECT `+productColumns+` FROM products ORDER BY model`)
	if err != nil {
		r.logger.Error("product_list_failed", zap.Error(err))
		return nil, err
	}
	defer rows.Close()

	result := []domain.Product{}
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	r.logger.Debug("products_listed", zap.Int("count", len(result)))
	return result, nil
}

func (r *postgresRepo) Upsert(ctx context.Context, product domain.Product) (*domain.Product, error) {
	q := `
INSERT INTO products (model, category, selling_price, quantity, arrival_date, details)
VALUES ($1, $2, $3::text::numeric, $4, NULLIF($5, '')::date, NULLIF($6, ''))
ON CONFLICT (model) DO UPDATE SET
    category = EXCLUDED.category,
    selling_price = EXCLUDED.selling_price,
    quantity = EXCLUDED.quantity,
    arrival_date = EXCLUDED.arrival_date,
    details = EXCLUDED.details
RETURNING ` + productColumns
	p, err := scanProduct(r.q.QueryRow(ctx, q,
		product.Model,
		string(product.Category),
		product.SellingPrice.String(),
		product.Quantity,
		product.ArrivalDate,
		product.Details,
	))
	if err != nil {
		r.logger.Error("product_upsert_failed", zap.String("model", product.Model), zap.Error(err))
		return nil, err
	}
	r.logger.Debug("product_upserted", zap.String("model", p.Model), zap.Int("quantity", p.Quantity))
	return p, nil
}

func scanProduct(row pgx.Row) (*domain.Product, error) {
	var (
		p        domain.Product
		category string
		price    string
	)
	if err := row.Scan(&p.Model, &category, &price, &p.Quantity, &p.ArrivalDate, &p.Details); err != nil {
		return nil, err
	}
	money, err := domain.ParseMoney(price)
	if err != nil {
		return nil, fmt.Errorf("product %q: parse price %q: %w", p.Model, price, err)
	}
	p.Category = domain.Category(category)
	p.SellingPrice = money
	return &p, nil
}
