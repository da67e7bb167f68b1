package repositories

import "context"

// TxFn is a unit of work run by a TransactionManager
type TxFn func(ctx context.Context) error

// TransactionManager is the hook every tree mutation runs through.
// Stores without multi-document transactions use BestEffort.
type TransactionManager interface {
	// ExecTx runs fn, atomically if the implementation can
	ExecTx(ctx context.Context, fn TxFn) error
}

// BestEffort runs fn directly. Writes already applied when fn fails stay in place.
type BestEffort struct{}

// NewBestEffortTransactionManager returns the non-atomic transaction manager
func NewBestEffortTransactionManager() TransactionManager {
	return BestEffort{}
}

// ExecTx calls fn with ctx unchanged
func (BestEffort) ExecTx(ctx context.Context, fn TxFn) error {
	return fn(ctx)
}
