package worker

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"ezelectronics/internal/domain"
	"ezelectronics/internal/queue"
	"github.com/hibiken/asynq"
	"go.uber.org/zap"
)

type cartReader interface {
	GetByID(ctx context.Context, id int64) (*domain.Cart, error)
}

// Consumer handles queued cart tasks.
type Consumer struct {
	carts  cartReader
	logger *zap.Logger
}

func NewConsumer(carts cartReader, logger *zap.Logger) *Consumer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Consumer{carts: carts, logger: logger}
}

func (c *Consumer) Register(mux *asynq.ServeMux) {
	mux.HandleFunc(queue.TaskCartCheckedOut, c.handleCartCheckedOut)
}

func (c *Consumer) handleCartCheckedOut(ctx context.Context, task *asynq.Task) error {
	payload, err := queue.ParseCartCheckedOut(task)
	if err != nil {
		c.logger.Warn("worker_cart_checked_out_unmarshal_failed", zap.Error(err))
		return fmt.Errorf("%w: %v", asynq.SkipRetry, err)
	}
	if payload.CartID <= 0 {
		c.logger.Debug("worker_cart_checked_out_skip_invalid_payload", zap.Int64("cart_id", payload.CartID))
		return nil
	}

	cart, err := c.carts.GetByID(ctx, payload.CartID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			// carts can be wiped by an admin before the task runs
			c.logger.Info("worker_cart_checked_out_skip_missing_cart", zap.Int64("cart_id", payload.CartID))
			return nil
		}
		c.logger.Warn("worker_cart_checked_out_fetch_failed", zap.Int64("cart_id", payload.CartID), zap.Error(err))
		return err
	}
	if !cart.Paid {
		c.logger.Warn("worker_cart_checked_out_skip_unpaid", zap.Int64("cart_id", cart.ID), zap.String("customer", cart.Customer))
		return nil
	}

	c.logger.Info("cart_receipt",
		zap.Int64("cart_id", cart.ID),
		zap.String("customer", cart.Customer),
		zap.String("payment_date", derefString(cart.PaymentDate)),
		zap.String("total", cart.Total.String()),
		zap.Int("lines", len(cart.Products)),
		zap.String("receipt", buildReceipt(cart)),
	)
	return nil
}

// buildReceipt renders one line per product followed by the total.
func buildReceipt(cart *domain.Cart) string {
	if cart == nil {
		return ""
	}
	var b strings.Builder
	for _, line := range cart.Products {
		fmt.Fprintf(&b, "%s x%d @ %s = %s\n", line.Model, line.Quantity, line.Price, line.Subtotal())
	}
	fmt.Fprintf(&b, "total %s", cart.Total)
	return b.String()
}

func derefString(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
