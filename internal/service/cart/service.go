package cart

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"ezelectronics/internal/domain"
	"ezelectronics/internal/queue"
	"ezelectronics/internal/repository"
	cartrepo "ezelectronics/internal/repository/cart"
	productrepo "ezelectronics/internal/repository/product"
	"github.com/hibiken/asynq"
	"go.uber.org/zap"
)

// ErrInvalidInput marks a request the service rejects before touching storage.
var ErrInvalidInput = errors.New("invalid input")

// Service runs the cart lifecycle. Every mutation happens inside one
// transaction that first locks (or creates) the owner's current cart row, so
// mutations of one owner are serialized and checkout is all-or-nothing.
type Service struct {
	carts     cartStore
	tx        txRunner
	publisher checkoutPublisher
	logger    *zap.Logger
	now       func() time.Time
}

type cartStore interface {
	GetCurrent(ctx context.Context, customer string) (*domain.Cart, error)
	ListPaidByCustomer(ctx context.Context, customer string) ([]domain.Cart, error)
	ListAll(ctx context.Context) ([]domain.Cart, error)
	DeleteAll(ctx context.Context) (int64, error)
}

type txRunner interface {
	Within(ctx context.Context, fn repository.TxFunc) error
}

type checkoutPublisher interface {
	EnqueueCartCheckedOut(ctx context.Context, payload queue.CartCheckedOutPayload, opts ...asynq.Option) error
}

type Option func(*Service)

// WithPublisher announces successful checkouts.
func WithPublisher(p checkoutPublisher) Option {
	return func(s *Service) { s.publisher = p }
}

func WithLogger(l *zap.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithClock overrides the payment date source.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

func New(carts cartStore, tx txRunner, opts ...Option) *Service {
	s := &Service{
		carts:  carts,
		tx:     tx,
		logger: zap.NewNop(),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// GetCurrentCart returns the owner's unpaid cart, or an empty one when the
// owner has none.
func (s *Service) GetCurrentCart(ctx context.Context, owner string) (*domain.Cart, error) {
	cart, err := s.carts.GetCurrent(ctx, owner)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.NewEmptyCart(owner), nil
		}
		return nil, fmt.Errorf("get current cart: %w", err)
	}
	return cart, nil
}

// AddToCart adds one unit of model to the owner's current cart, creating the
// cart when needed.
func (s *Service) AddToCart(ctx context.Context, owner, model string) error {
	model = strings.TrimSpace(model)
	if model == "" {
		return fmt.Errorf("%w: model required", ErrInvalidInput)
	}
	return s.tx.Within(ctx, func(ctx context.Context, carts cartrepo.Repository, products productrepo.Repository) error {
		product, err := products.GetByModel(ctx, model)
		if err != nil {
			return productErr(err)
		}
		if !product.InStock() {
			return domain.ErrEmptyProductStock
		}
		cartID, err := carts.EnsureCurrent(ctx, owner)
		if err != nil {
			return fmt.Errorf("ensure current cart: %w", err)
		}
		if err := carts.AddLine(ctx, cartID, *product); err != nil {
			return fmt.Errorf("add line: %w", err)
		}
		return nil
	})
}

// RemoveProductFromCart deletes the whole line for model.
func (s *Service) RemoveProductFromCart(ctx context.Context, owner, model string) error {
	model = strings.TrimSpace(model)
	if model == "" {
		return fmt.Errorf("%w: model required", ErrInvalidInput)
	}
	return s.tx.Within(ctx, func(ctx context.Context, carts cartrepo.Repository, products productrepo.Repository) error {
		cartID, err := lockCurrent(ctx, carts, owner)
		if err != nil {
			return err
		}
		if _, err := products.GetByModel(ctx, model); err != nil {
			return productErr(err)
		}
		removed, err := carts.DeleteLine(ctx, cartID, model)
		if err != nil {
			return fmt.Errorf("delete line: %w", err)
		}
		if !removed {
			return domain.ErrProductNotInCart
		}
		return nil
	})
}

// ClearCart empties the current cart. The cart itself stays current.
func (s *Service) ClearCart(ctx context.Context, owner string) error {
	return s.tx.Within(ctx, func(ctx context.Context, carts cartrepo.Repository, _ productrepo.Repository) error {
		cartID, err := lockCurrent(ctx, carts, owner)
		if err != nil {
			return err
		}
		if err := carts.ClearLines(ctx, cartID); err != nil {
			return fmt.Errorf("clear lines: %w", err)
		}
		return nil
	})
}

// CheckoutCart validates every line against live stock, then decrements stock
// and marks the cart paid. Nothing is written unless every line passes.
func (s *Service) CheckoutCart(ctx context.Context, owner string) error {
	var paidID int64
	err := s.tx.Within(ctx, func(ctx context.Context, carts cartrepo.Repository, products productrepo.Repository) error {
		cartID, err := lockCurrent(ctx, carts, owner)
		if err != nil {
			return err
		}
		lines, err := carts.CheckoutLines(ctx, cartID)
		if err != nil {
			return fmt.Errorf("load checkout lines: %w", err)
		}
		if len(lines) == 0 {
			return domain.ErrEmptyCart
		}
		for _, line := range lines {
			if err := line.Validate(); err != nil {
				s.logger.Info("cart_checkout_rejected",
					zap.String("owner", owner),
					zap.String("model", line.Model),
					zap.Int("quantity", line.Quantity),
					zap.Int("stock", line.Stock),
					zap.Error(err),
				)
				return err
			}
		}
		for _, line := range lines {
			if err := products.DecrementStock(ctx, line.Model, line.Quantity); err != nil {
				if errors.Is(err, domain.ErrNotFound) {
					return domain.ErrProductNotFound
				}
				return err
			}
		}
		if err := carts.MarkPaid(ctx, cartID, s.now()); err != nil {
			return fmt.Errorf("mark paid: %w", err)
		}
		paidID = cartID
		return nil
	})
	if err != nil {
		return err
	}

	s.logger.Info("cart_checked_out", zap.String("owner", owner), zap.Int64("cart_id", paidID))
	s.publishCheckout(ctx, paidID, owner)
	return nil
}

func (s *Service) publishCheckout(ctx context.Context, cartID int64, owner string) {
	if s.publisher == nil {
		return
	}
	payload := queue.CartCheckedOutPayload{CartID: cartID, Customer: owner}
	if err := s.publisher.EnqueueCartCheckedOut(ctx, payload); err != nil {
		s.logger.Warn("cart_checkout_enqueue_failed", zap.String("owner", owner), zap.Int64("cart_id", cartID), zap.Error(err))
	}
}

// GetCustomerCarts returns the owner's paid carts, oldest first.
func (s *Service) GetCustomerCarts(ctx context.Context, owner string) ([]domain.Cart, error) {
	carts, err := s.carts.ListPaidByCustomer(ctx, owner)
	if err != nil {
		return nil, fmt.Errorf("list paid carts: %w", err)
	}
	return carts, nil
}

// GetAllCarts returns every cart of every owner, paid or not.
func (s *Service) GetAllCarts(ctx context.Context) ([]domain.Cart, error) {
	carts, err := s.carts.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("list carts: %w", err)
	}
	return carts, nil
}

func (s *Service) DeleteAllCarts(ctx context.Context) error {
	n, err := s.carts.DeleteAll(ctx)
	if err != nil {
		return fmt.Errorf("delete carts: %w", err)
	}
	s.logger.Info("carts_deleted", zap.Int64("count", n))
	return nil
}

func lockCurrent(ctx context.Context, carts cartrepo.Repository, owner string) (int64, error) {
	id, err := carts.LockCurrent(ctx, owner)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return 0, domain.ErrCartNotFound
		}
		return 0, fmt.Errorf("lock current cart: %w", err)
	}
	return id, nil
}

func productErr(err error) error {
	if errors.Is(err, domain.ErrNotFound) {
		return domain.ErrProductNotFound
	}
	return fmt.Errorf("get product: %w", err)
}
