package notify

import (
	"context"
	"fmt"
)

const EventOrderNotification = "order_notification"

type eventPublisher interface {
	PublishEvent(ctx context.Context, key string, event any) error
}

// EventPublisher emits each message as an order_notification event keyed by
// order id.
type EventPublisher struct {
	P eventPublisher
}

func NewEventPublisher(p eventPublisher) *EventPublisher {
	return &EventPublisher{P: p}
}

type orderEvent struct {
	Type string `json:"type"`
	Message
}

func (e *EventPublisher) Notify(ctx context.Context, m Message) error {
	ev := orderEvent{Type: EventOrderNotification, Message: m}
	if err := e.P.PublishEvent(ctx, m.OrderID.String(), ev); err != nil {
		return fmt.Errorf("publish %s: %w", EventOrderNotification, err)
	}
	return nil
}
