package storage

import (
	"context"
	"fmt"

	"cloudstorage/internal/domain/repositories"
	"cloudstorage/internal/lock"

	"github.com/google/uuid"
)

// MutationRunner is the single entry point for writes that touch more than one
// document. It takes the owner lock, then runs the work through the
// transaction manager.
type MutationRunner struct {
	locker    lock.OwnerLocker
	txManager repositories.TransactionManager
}

// NewMutationRunner wires a locker and a transaction manager. Nil arguments
// select lock.Noop and the best-effort manager.
func NewMutationRunner(locker lock.OwnerLocker, txManager repositories.TransactionManager) *MutationRunner {
	if locker == nil {
		locker = lock.Noop{}
	}
	if txManager == nil {
		txManager = repositories.NewBestEffortTransactionManager()
	}
	return &MutationRunner{locker: locker, txManager: txManager}
}

// Run executes fn for owner
func (m *MutationRunner) Run(ctx context.Context, owner uuid.UUID, fn repositories.TxFn) error {
	unlock, err := m.locker.Lock(ctx, owner)
	if err != nil {
		return fmt.Errorf("lock owner %s: %w", owner, err)
	}
	defer unlock()

	return m.txManager.ExecTx(ctx, fn)
}
