// Package events hands domain events raised by committed aggregates to an
// EventPublisher and defines their wire form.
package events

import (
	"context"
	"log/slog"

	"kitchen/internal/core/domain/model/order"
	"kitchen/internal/core/ports"
)

// Source is an aggregate that records domain events.
type Source interface {
	DomainEvents() []order.Event
	ClearDomainEvents()
}

// Dispatcher publishes the pending events of aggregates once their unit of
// work has committed. A failed publish is logged and dropped.
type Dispatcher struct {
	publisher ports.EventPublisher
	logger    *slog.Logger
}

func NewDispatcher(publisher ports.EventPublisher, logger *slog.Logger) *Dispatcher {
	if logger == nil {
		logger = slog.Default()
	}
	return &Dispatcher{
		publisher: publisher,
		logger:    logger.With("component", "event-dispatcher"),
	}
}

// Dispatch drains the events of every source, in order, and publishes them
// as one batch. A nil Dispatcher only drains.
func (d *Dispatcher) Dispatch(ctx context.Context, sources ...Source) {
	var batch []order.Event
	for _, source := range sources {
		batch = append(batch, source.DomainEvents()...)
		source.ClearDomainEvents()
	}
	if d == nil || d.publisher == nil || len(batch) == 0 {
		return
	}

	if err := d.publisher.Publish(ctx, batch...); err != nil {
		d.logger.ErrorContext(ctx, "failed to publish order events",
			"events", len(batch),
			"first_order_id", batch[0].OrderID.String(),
			"error", err)
	}
}
