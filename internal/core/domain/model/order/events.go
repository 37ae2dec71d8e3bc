package order

import (
	"time"

	"kitchen/internal/core/domain/model/kernel"
)

// EventType names a lifecycle event. The value doubles as the routing key
// suffix when events leave the process.
type EventType string

const (
	EventOrderCreated      EventType = "order.created"
	EventItemStatusChanged EventType = "order.item_status_changed"
	EventOrderCompleted    EventType = "order.completed"
)

// Event is raised by the aggregate on every successful mutation and handed
// to the event publisher once the unit of work commits.
type Event struct {
	Type        EventType
	OrderID     kernel.UUID
	OrderNumber kernel.OrderNumber
	Status      Status
	// ItemID and ItemStatus are set for EventItemStatusChanged only.
	ItemID     *kernel.UUID
	ItemStatus ItemStatus
	OccurredAt time.Time
}

// DomainEvents returns the events raised since the last ClearDomainEvents.
func (o *Order) DomainEvents() []Event {
	events := make([]Event, len(o.events))
	copy(events, o.events)
	return events
}

func (o *Order) ClearDomainEvents() {
	o.events = nil
}

func (o *Order) raise(t EventType, itemID *kernel.UUID, itemStatus ItemStatus, at time.Time) {
	o.events = append(o.events, Event{
		Type:        t,
		OrderID:     o.id,
		OrderNumber: o.number,
		Status:      o.status,
		ItemID:      itemID,
		ItemStatus:  itemStatus,
		OccurredAt:  at,
	})
}
