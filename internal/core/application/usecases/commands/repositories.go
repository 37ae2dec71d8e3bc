// Package commands contains the operations that change kitchen state.
// Every handler follows the same shape: validate the command, take the
// order's lock where an existing order is touched, run the change inside a
// unit of work, then refresh the kitchen dashboard from the committed state.
package commands

import (
	"context"
	"time"

	"kitchen/internal/core/domain/model/kernel"
	"kitchen/internal/core/ports"
)

type (
	// TxManager handles the transaction lifecycle.
	TxManager interface {
		Begin(ctx context.Context) error
		Commit(ctx context.Context) error
		Rollback(ctx context.Context) error
	}

	// OrderRepoFactory provides the order repository bound to the transaction.
	OrderRepoFactory interface {
		OrderRepository() ports.OrderRepository
	}

	// OrderUoW manages transactions for order operations.
	OrderUoW interface {
		TxManager
		OrderRepoFactory
	}

	// OrderUoWFactory creates new order unit of work instances.
	OrderUoWFactory interface {
		Create() OrderUoW
	}

	// OrderLocker serialises work on one order. The returned function
	// releases the lock.
	OrderLocker interface {
		Lock(orderID kernel.UUID) (unlock func())
	}
)

// now is the timestamp source for every state change. Postgres keeps
// microseconds, so stored and in-memory times compare equal.
func now() time.Time {
	return time.Now().UTC().Truncate(time.Microsecond)
}
