// Package ports defines the contracts between the kitchen core and its
// adapters: persistence, the menu source, event delivery and the dashboard.
package ports

import (
	"context"

	"kitchen/internal/core/domain/model/kernel"
	"kitchen/internal/core/domain/model/order"
)

// OrderRepository persists order aggregates together with their items.
type OrderRepository interface {
	// Add stores a new order.
	Add(ctx context.Context, aggregate *order.Order) error

	// Update stores changes to an existing order. It fails with
	// errs.VersionIsInvalidError when the stored version moved on since the
	// aggregate was read, and bumps the aggregate's version on success.
	Update(ctx context.Context, aggregate *order.Order) error

	// Get returns the order with its items, or errs.ObjectNotFoundError.
	Get(ctx context.Context, id kernel.UUID) (*order.Order, error)

	// GetAllActive returns every order that is not completed, oldest first.
	GetAllActive(ctx context.Context) ([]*order.Order, error)

	// MaxNumber returns the highest order number stored, or 0.
	MaxNumber(ctx context.Context) (int64, error)
}
