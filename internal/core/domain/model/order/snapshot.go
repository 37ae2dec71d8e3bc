package order

import (
	"time"

	"kitchen/internal/core/domain/model/kernel"
)

// Snapshot is a read-only copy of an order handed to queries and the
// kitchen dashboard. It shares no memory with the aggregate it came from.
type Snapshot struct {
	ID                  kernel.UUID
	Number              kernel.OrderNumber
	Status              Status
	Items               []ItemSnapshot
	SpecialInstructions string
	CustomerName        string
	TableNumber         *int
	Priority            Priority
	CreatedAt           time.Time
	CompletedAt         *time.Time
	Version             int64
}

type ItemSnapshot struct {
	ID                  kernel.UUID
	MenuItemID          int64
	Name                string
	Quantity            int
	Status              ItemStatus
	SpecialInstructions string
	StartedAt           *time.Time
	FinishedAt          *time.Time
}

// Snapshot copies the current state of the order.
func (o *Order) Snapshot() Snapshot {
	items := make([]ItemSnapshot, len(o.items))
	for i, item := range o.items {
		items[i] = ItemSnapshot{
			ID:                  item.id,
			MenuItemID:          item.menuItemID,
			Name:                item.name,
			Quantity:            item.quantity,
			Status:              item.status,
			SpecialInstructions: item.specialInstructions,
			StartedAt:           copyTime(item.startedAt),
			FinishedAt:          copyTime(item.finishedAt),
		}
	}

	return Snapshot{
		ID:                  o.id,
		Number:              o.number,
		Status:              o.status,
		Items:               items,
		SpecialInstructions: o.details.SpecialInstructions,
		CustomerName:        o.details.CustomerName,
		TableNumber:         o.TableNumber(),
		Priority:            o.details.Priority,
		CreatedAt:           o.createdAt,
		CompletedAt:         copyTime(o.completedAt),
		Version:             o.version,
	}
}

// IsActive reports whether the snapshot belongs on the kitchen dashboard.
func (s Snapshot) IsActive() bool { return s.Status.IsActive() }

// Before orders snapshots first-in-first-out: by creation time, then by id.
func (s Snapshot) Before(other Snapshot) bool {
	if !s.CreatedAt.Equal(other.CreatedAt) {
		return s.CreatedAt.Before(other.CreatedAt)
	}
	return s.ID.Compare(other.ID) < 0
}
