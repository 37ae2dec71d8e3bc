package events

import (
	"encoding/json"
	"time"

	"kitchen/internal/core/domain/model/order"
)

// RoutingKeyPrefix namespaces lifecycle events on the topic exchange.
const RoutingKeyPrefix = "kitchen."

// Message is the JSON body of a published event.
type Message struct {
	Type        string    `json:"type"`
	OrderID     string    `json:"order_id"`
	OrderNumber string    `json:"order_number"`
	Status      string    `json:"status"`
	ItemID      string    `json:"item_id,omitempty"`
	ItemStatus  string    `json:"item_status,omitempty"`
	OccurredAt  time.Time `json:"occurred_at"`
}

func NewMessage(e order.Event) Message {
	msg := Message{
		Type:        string(e.Type),
		OrderID:     e.OrderID.String(),
		OrderNumber: e.OrderNumber.String(),
		Status:      e.Status.String(),
		OccurredAt:  e.OccurredAt,
	}
	if e.ItemID != nil {
		msg.ItemID = e.ItemID.String()
		msg.ItemStatus = e.ItemStatus.String()
	}
	return msg
}

// RoutingKey is RoutingKeyPrefix followed by the event type,
// e.g. kitchen.order.completed.
func RoutingKey(e order.Event) string {
	return RoutingKeyPrefix + string(e.Type)
}

func Encode(e order.Event) ([]byte, error) {
	return json.Marshal(NewMessage(e))
}
