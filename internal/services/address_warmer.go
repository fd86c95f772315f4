package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"restaurant-dispatch-service/internal/ports"
	"strings"
)

var ErrInvalidEvent = errors.New("invalid order event")

// OrderCreatedEvent is published by the storefront when a customer checks out.
type OrderCreatedEvent struct {
	OrderID int64  `json:"order_id"`
	Address string `json:"address"`
}

// AddressWarmer resolves the delivery address of newly created orders ahead
// of the first dispatch board render.
type AddressWarmer struct {
	Resolver ports.CoordinateResolver
}

// Handle processes one raw event. Malformed events are logged and
// acknowledged. A returned error means the store failed and the event should
// be redelivered.
func (w AddressWarmer) Handle(ctx context.Context, raw []byte) error {
	ev, err := decodeOrderCreated(raw)
	if err != nil {
		log.Printf("address warmer: skip event: %v", err)
		return nil
	}

	coords, err := w.Resolver.Lookup(ctx, ev.Address)
	if err != nil {
		return fmt.Errorf("address warmer: order_id=%d: %w", ev.OrderID, err)
	}

	log.Printf("address warmer: order_id=%d address=%q resolved=%t", ev.OrderID, ev.Address, coords != nil)
	return nil
}

func decodeOrderCreated(raw []byte) (OrderCreatedEvent, error) {
	var ev OrderCreatedEvent
	if err := json.Unmarshal(raw, &ev); err != nil {
		return ev, fmt.Errorf("%w: %v", ErrInvalidEvent, err)
	}
	if ev.OrderID <= 0 {
		return ev, fmt.Errorf("%w: order_id must be positive", ErrInvalidEvent)
	}
	if strings.TrimSpace(ev.Address) == "" {
		return ev, fmt.Errorf("%w: empty address", ErrInvalidEvent)
	}
	return ev, nil
}
