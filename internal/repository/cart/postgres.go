package cart

import (
	"context"
	"errors"
	"fmt"
	"time"

	"ezelectronics/internal/db"
	"ezelectronics/internal/domain"
	"github.com/jackc/pgx/v5"
)

const cartSelect = `
SELECT c.id, c.customer, c.paid, to_char(c.payment_date, 'YYYY-MM-DD'),
       l.model, l.quantity, l.category, l.price::text
FROM carts c
LEFT JOIN cart_lines l ON l.cart_id = c.id
`

const cartOrder = `
ORDER BY c.id ASC, l.created_at ASC, l.model ASC
`

type postgresRepo struct {
	q db.Querier
}

// NewPostgres returns a Repository backed by Postgres. q may be a pool or a
// transaction.
func NewPostgres(q db.Querier) Repository {
	return &postgresRepo{q: q}
}

func (r *postgresRepo) GetCurrent(ctx context.Context, customer string) (*domain.Cart, error) {
	return r.fetchOne(ctx, cartSelect+`WHERE c.customer = $1 AND NOT c.paid`+cartOrder, customer)
}

func (r *postgresRepo) GetByID(ctx context.Context, id int64) (*domain.Cart, error) {
	return r.fetchOne(ctx, cartSelect+`WHERE c.id = $1`+cartOrder, id)
}

func (r *postgresRepo) ListPaidByCustomer(ctx context.Context, customer string) ([]domain.Cart, error) {
	return r.fetchMany(ctx, cartSelect+`WHERE c.customer = $1 AND c.paid`+cartOrder, customer)
}

func (r *postgresRepo) ListAll(ctx context.Context) ([]domain.Cart, error) {
	return r.fetchMany(ctx, cartSelect+cartOrder)
}

func (r *postgresRepo) LockCurrent(ctx context.Context, customer string) (int64, error) {
	var id int64
	err := r.q.QueryRow(ctx, `
SELECT id
FROM carts
WHERE customer = $1 AND NOT paid
FOR UPDATE
`, customer).Scan(&id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, domain.ErrNotFound
		}
		return 0, err
	}
	return id, nil
}

// ensureAttempts bounds how often EnsureCurrent retries after the cart it
// waited on was paid by a concurrent checkout.
const ensureAttempts = 3

// EnsureCurrent creates the unpaid cart when missing and locks it. A
// concurrent insert for the same customer blocks on the partial unique index
// and then falls through to the lock. When the locked row turns out paid once
// the lock is granted, the insert is retried against a fresh snapshot.
func (r *postgresRepo) EnsureCurrent(ctx context.Context, customer string) (int64, error) {
	for attempt := 0; attempt < ensureAttempts; attempt++ {
		if _, err := r.q.Exec(ctx, `
INSERT INTO carts (customer, paid)
VALUES ($1, FALSE)
ON CONFLICT (customer) WHERE NOT paid DO NOTHING
`, customer); err != nil {
			return 0, fmt.Errorf("insert current cart: %w", err)
		}
		id, err := r.LockCurrent(ctx, customer)
		if !errors.Is(err, domain.ErrNotFound) {
			return id, err
		}
	}
	return 0, fmt.Errorf("current cart for %q kept closing after %d attempts", customer, ensureAttempts)
}

func (r *postgresRepo) AddLine(ctx context.Context, cartID int64, product domain.Product) error {
	_, err := r.q.Exec(ctx, `
INSERT INTO cart_lines (cart_id, model, quantity, category, price)
VALUES ($1, $2, 1, $3, $4::text::numeric)
ON CONFLICT (cart_id, model) DO UPDATE
SET quantity = cart_lines.quantity + 1
`, cartID, product.Model, string(product.Category), product.SellingPrice.String())
	return err
}

func (r *postgresRepo) DeleteLine(ctx context.Context, cartID int64, model string) (bool, error) {
	cmd, err := r.q.Exec(ctx, `
DELETE FROM cart_lines
WHERE cart_id = $1 AND model = $2
`, cartID, model)
	if err != nil {
		return false, err
	}
	return cmd.RowsAffected() > 0, nil
}

func (r *postgresRepo) ClearLines(ctx context.Context, cartID int64) error {
	_, err := r.q.Exec(ctx, `DELETE FROM cart_lines WHERE cart_id = $1`, cartID)
	return err
}

// CheckoutLines returns the cart lines with live stock and locks the product
// rows in model order, so concurrent checkouts sharing products queue up
// instead of deadlocking.
func (r *postgresRepo) CheckoutLines(ctx context.Context, cartID int64) ([]domain.CheckoutLine, error) {
	rows, err := r.q.Query(ctx, `
SELECT l.model, l.quantity, p.quantity
FROM cart_lines l
JOIN products p ON p.model = l.model
WHERE l.cart_id = $1
ORDER BY l.model ASC
FOR UPDATE OF p
`, cartID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var lines []domain.CheckoutLine
	for rows.Next() {
		var line domain.CheckoutLine
		if err := rows.Scan(&line.Model, &line.Quantity, &line.Stock); err != nil {
			return nil, err
		}
		lines = append(lines, line)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return lines, nil
}

func (r *postgresRepo) MarkPaid(ctx context.Context, cartID int64, paidAt time.Time) error {
	cmd, err := r.q.Exec(ctx, `
UPDATE carts
SET paid = TRUE, payment_date = $2::text::date
WHERE id = $1 AND NOT paid
`, cartID, paidAt.UTC().Format(domain.PaymentDateLayout))
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *postgresRepo) DeleteAll(ctx context.Context) (int64, error) {
	cmd, err := r.q.Exec(ctx, `DELETE FROM carts`)
	if err != nil {
		return 0, err
	}
	return cmd.RowsAffected(), nil
}

func (r *postgresRepo) fetchOne(ctx context.Context, query string, args ...interface{}) (*domain.Cart, error) {
	carts, err := r.fetchMany(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	if len(carts) == 0 {
		return nil, domain.ErrNotFound
	}
	return &carts[0], nil
}

func (r *postgresRepo) fetchMany(ctx context.Context, query string, args ...interface{}) ([]domain.Cart, error) {
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var stream []cartRow
	for rows.Next() {
		var (
			row   cartRow
			price *string
		)
		if err := rows.Scan(
			&row.CartID,
			&row.Customer,
			&row.Paid,
			&row.PaymentDate,
			&row.Model,
			&row.Quantity,
			&row.Category,
			&price,
		); err != nil {
			return nil, err
		}
		if price != nil {
			money, err := domain.ParseMoney(*price)
			if err != nil {
				return nil, fmt.Errorf("cart %d: parse price %q: %w", row.CartID, *price, err)
			}
			row.Price = &money
		}
		stream = append(stream, row)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return groupRows(stream), nil
}
