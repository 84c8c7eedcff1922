package repository

import (
	"context"

	"ezelectronics/internal/db"
	cartrepo "ezelectronics/internal/repository/cart"
	productrepo "ezelectronics/internal/repository/product"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

// TxFunc receives repositories bound to a single transaction.
type TxFunc func(ctx context.Context, carts cartrepo.Repository, products productrepo.Repository) error

// TxManager runs units of work spanning the cart and product tables.
type TxManager struct {
	pool   *pgxpool.Pool
	logger *zap.Logger
}

func NewTxManager(pool *pgxpool.Pool, logger *zap.Logger) *TxManager {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &TxManager{pool: pool, logger: logger}
}

// Within commits when fn returns nil. Any error rolls back every write made
// through the repositories handed to fn.
func (m *TxManager) Within(ctx context.Context, fn TxFunc) error {
	return db.WithTx(ctx, m.pool, func(tx pgx.Tx) error {
		return fn(ctx, cartrepo.NewPostgres(tx), productrepo.NewPostgres(tx, m.logger))
	})
}
