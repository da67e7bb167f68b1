package postgres

import (
	"context"
	"errors"

	"cloudstorage/internal/domain/repositories"
	"cloudstorage/internal/logger"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// TransactionManager runs a unit of work in one pgx transaction
type TransactionManager struct {
	pool   *pgxpool.Pool
	logger *logger.Logger
}

// NewTransactionManager creates a new transaction manager
func NewTransactionManager(pool *pgxpool.Pool, log *logger.Logger) repositories.TransactionManager {
	return &TransactionManager{pool: pool, logger: log}
}

// ExecTx executes fn within a transaction stored in the context,
// so repositories pick it up through GetExecutor
func (tm *TransactionManager) ExecTx(ctx context.Context, fn repositories.TxFn) error {
	tx, err := tm.pool.Begin(ctx)
	if err != nil {
		return wrapError("begin transaction", err)
	}

	// no-op once committed
	defer func() {
		if err := tx.Rollback(ctx); err != nil && !errors.Is(err, pgx.ErrTxClosed) {
			tm.logger.Warn().Err(err).Msg("rollback failed")
		}
	}()

	if err := fn(repositories.SetTx(ctx, tx)); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return wrapError("commit transaction", err)
	}

	return nil
}
