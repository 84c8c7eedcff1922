package cart

import (
	"context"
	"time"

	"ezelectronics/internal/domain"
)

// Repository persists carts and their lines.
//
// Methods taking a cartID expect the caller to hold the cart row lock
// obtained through LockCurrent or EnsureCurrent within the same transaction.
type Repository interface {
	GetCurrent(ctx context.Context, customer string) (*domain.Cart, error)
	GetByID(ctx context.Context, id int64) (*domain.Cart, error)
	ListPaidByCustomer(ctx context.Context, customer string) ([]domain.Cart, error)
	ListAll(ctx context.Context) ([]domain.Cart, error)

	LockCurrent(ctx context.Context, customer string) (int64, error)
	EnsureCurrent(ctx context.Context, customer string) (int64, error)
	AddLine(ctx context.Context, cartID int64, product domain.Product) error
	DeleteLine(ctx context.Context, cartID int64, model string) (bool, error)
	ClearLines(ctx context.Context, cartID int64) error
	CheckoutLines(ctx context.Context, cartID int64) ([]domain.CheckoutLine, error)
	MarkPaid(ctx context.Context, cartID int64, paidAt time.Time) error
	DeleteAll(ctx context.Context) (int64, error)
}
