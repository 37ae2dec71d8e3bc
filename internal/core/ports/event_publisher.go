package ports

import (
	"context"

	"kitchen/internal/core/domain/model/order"
)

// EventPublisher delivers lifecycle events outside the process. Delivery
// happens after commit, so a failure is reported but never undoes the
// mutation that raised the event.
type EventPublisher interface {
	Publish(ctx context.Context, events ...order.Event) error
}
