package ports

import (
	"kitchen/internal/core/domain/model/kernel"
	"kitchen/internal/core/domain/model/order"
)

// KitchenDashboard is the read model of active orders kept first-in-first-out.
type KitchenDashboard interface {
	// Apply records the latest state of an order. Completed orders are removed.
	Apply(snapshot order.Snapshot)

	// Reset replaces the whole view, used when rebuilding at startup.
	Reset(snapshots []order.Snapshot)

	List() []order.Snapshot
	Contains(id kernel.UUID) bool
	Len() int
}
