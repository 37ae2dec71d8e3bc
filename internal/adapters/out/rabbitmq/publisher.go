package rabbitmq

import (
	"context"
	"errors"
	"fmt"
	"time"

	"kitchen/internal/adapters/out/events"
	"kitchen/internal/core/domain/model/order"
	"kitchen/internal/core/ports"

	amqp "github.com/rabbitmq/amqp091-go"
)

const defaultPublishTimeout = 5 * time.Second

type confirmingPublisher interface {
	Publish(ctx context.Context, exchange, key string, body []byte, headers amqp.Table) error
}

// Publisher sends each event to the exchange under kitchen.<event type>.
type Publisher struct {
	client   confirmingPublisher
	exchange string
	timeout  time.Duration
}

var _ ports.EventPublisher = (*Publisher)(nil)

func NewPublisher(client confirmingPublisher, exchange string) *Publisher {
	if exchange == "" {
		exchange = DefaultExchange
	}
	return &Publisher{client: client, exchange: exchange, timeout: defaultPublishTimeout}
}

// Publish tries every event even after a failure and reports all failures.
func (p *Publisher) Publish(ctx context.Context, evts ...order.Event) error {
	var errList []error
	for _, e := range evts {
		if err := p.publishOne(ctx, e); err != nil {
			errList = append(errList, fmt.Errorf("%s %s: %w", e.Type, e.OrderNumber, err))
		}
	}
	return errors.Join(errList...)
}

func (p *Publisher) publishOne(ctx context.Context, e order.Event) error {
	body, err := events.Encode(e)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	return p.client.Publish(ctx, p.exchange, events.RoutingKey(e), body, amqp.Table{
		"order_id":     e.OrderID.String(),
		"order_number": e.OrderNumber.String(),
	})
}
