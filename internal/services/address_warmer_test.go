package services

import (
	"context"
	"errors"
	"restaurant-dispatch-service/internal/adapters/cache"
	"restaurant-dispatch-service/internal/domain"
	"testing"
)

func TestAddressWarmer_ResolvesEventAddress(t *testing.T) {
	c, store, geo := newTestCache(map[string]domain.Coordinates{"Moscow, Arbat 1": arbat})
	w := AddressWarmer{Resolver: c}

	if err := w.Handle(context.Background(), []byte(`{"order_id": 42, "address": "Moscow, Arbat 1"}`)); err != nil {
		t.Fatalf("Handle error: %v", err)
	}
	if geo.Calls("Moscow, Arbat 1") != 1 || store.Len() != 1 {
		t.Fatalf("address was not warmed")
	}
}

func TestAddressWarmer_SkipsInvalidEvents(t *testing.T) {
	c, _, geo := newTestCache(nil)
	w := AddressWarmer{Resolver: c}

	for _, raw := range []string{`not json`, `{"order_id": 0, "address": "x"}`, `{"order_id": 1, "address": "  "}`} {
		if err := w.Handle(context.Background(), []byte(raw)); err != nil {
			t.Fatalf("Handle(%s) should ack invalid events, got %v", raw, err)
		}
	}
	if geo.TotalCalls() != 0 {
		t.Fatalf("invalid events reached the geocoder")
	}
}

func TestAddressWarmer_StoreErrorRequestsRedelivery(t *testing.T) {
	boom := errors.New("store down")
	store := &flakyStore{MemoryAddressStore: cache.NewMemoryAddressStore(), getErr: boom}
	w := AddressWarmer{Resolver: NewGeocodeCache(store, nil)}

	err := w.Handle(context.Background(), []byte(`{"order_id": 1, "address": "Moscow, Arbat 1"}`))
	if !errors.Is(err, boom) {
		t.Fatalf("got %v, want %v", err, boom)
	}
}

func TestDecodeOrderCreated(t *testing.T) {
	_, err := decodeOrderCreated([]byte(`{"order_id": "x"}`))
	if !errors.Is(err, ErrInvalidEvent) {
		t.Fatalf("got %v, want ErrInvalidEvent", err)
	}
}
