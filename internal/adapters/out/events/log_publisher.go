package events

import (
	"context"
	"log/slog"

	"kitchen/internal/core/domain/model/order"
)

// LogPublisher writes events to the log. It stands in for a broker when none
// is configured.
type LogPublisher struct {
	logger *slog.Logger
}

func NewLogPublisher(logger *slog.Logger) *LogPublisher {
	if logger == nil {
		logger = slog.Default()
	}
	return &LogPublisher{logger: logger.With("component", "event-log")}
}

func (p *LogPublisher) Publish(ctx context.Context, events ...order.Event) error {
	for _, e := range events {
		msg := NewMessage(e)
		p.logger.InfoContext(ctx, "order event",
			"routing_key", RoutingKey(e),
			"order_id", msg.OrderID,
			"order_number", msg.OrderNumber,
			"status", msg.Status,
			"item_id", msg.ItemID,
			"item_status", msg.ItemStatus)
	}
	return nil
}
