package services

import (
	"context"
	"errors"
	"fmt"
	"restaurant-dispatch-service/internal/adapters/cache"
	"restaurant-dispatch-service/internal/adapters/geocoder"
	"restaurant-dispatch-service/internal/domain"
	"restaurant-dispatch-service/internal/ports"
	"testing"
	"time"
)

var (
	arbat     = domain.Coordinates{Lat: 55.7522, Lon: 37.5929}
	tverskaya = domain.Coordinates{Lat: 55.7649, Lon: 37.6052}
	lenina    = domain.Coordinates{Lat: 55.7000, Lon: 37.5800}
)

// flakyStore wraps a memory store and fails reads or writes on demand.
type flakyStore struct {
	*cache.MemoryAddressStore
	getErr    error
	insertErr error
}

func (s *flakyStore) Get(ctx context.Context, address string) (domain.AddressEntry, bool, error) {
	if s.getErr != nil {
		return domain.AddressEntry{}, false, s.getErr
	}
	return s.MemoryAddressStore.Get(ctx, address)
}

func (s *flakyStore) GetMany(ctx context.Context, addresses []string) (map[string]domain.AddressEntry, error) {
	if s.getErr != nil {
		return nil, s.getErr
	}
	return s.MemoryAddressStore.GetMany(ctx, addresses)
}

func (s *flakyStore) Insert(ctx context.Context, entry domain.AddressEntry) error {
	if s.insertErr != nil {
		return s.insertErr
	}
	return s.MemoryAddressStore.Insert(ctx, entry)
}

func newTestCache(places map[string]domain.Coordinates) (*GeocodeCache, *cache.MemoryAddressStore, *geocoder.MockGeocoder) {
	store := cache.NewMemoryAddressStore()
	geo := geocoder.NewMockGeocoder(places)
	c := NewGeocodeCache(store, geo)
	c.Now = func() time.Time { return time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC) }
	return c, store, geo
}

func TestGeocodeCache_SecondLookupSkipsGeocoder(t *testing.T) {
	c, store, geo := newTestCache(map[string]domain.Coordinates{"Moscow, Arbat 1": arbat})
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		got, err := c.Lookup(ctx, "Moscow, Arbat 1")
		if err != nil {
			t.Fatalf("Lookup #%d error: %v", i+1, err)
		}
		if got == nil || *got != arbat {
			t.Fatalf("Lookup #%d = %v, want %v", i+1, got, arbat)
		}
	}

	if n := geo.TotalCalls(); n != 1 {
		t.Fatalf("geocoder called %d times, want 1", n)
	}

	entry, ok, _ := store.Get(ctx, "Moscow, Arbat 1")
	if !ok || !entry.Resolved() {
		t.Fatalf("expected a resolved entry, got %+v ok=%v", entry, ok)
	}
	if !entry.ResolvedAt.Equal(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("resolved_at = %v", entry.ResolvedAt)
	}
}

func TestGeocodeCache_NotFoundIsStored(t *testing.T) {
	c, store, geo := newTestCache(nil)
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		got, err := c.Lookup(ctx, "Atlantis")
		if err != nil {
			t.Fatalf("Lookup error: %v", err)
		}
		if got != nil {
			t.Fatalf("Lookup = %v, want nil", got)
		}
	}

	if n := geo.Calls("Atlantis"); n != 1 {
		t.Fatalf("geocoder called %d times, want 1", n)
	}
	entry, ok, _ := store.Get(ctx, "Atlantis")
	if !ok || entry.Resolved() {
		t.Fatalf("expected a negative entry, got %+v ok=%v", entry, ok)
	}
}

func TestGeocodeCache_FailuresAreNotStored(t *testing.T) {
	tests := []struct {
		name string
		err  error
	}{
		{"transport", &ports.TransportError{Op: "geocode", Err: errors.New("connection refused")}},
		{"malformed", fmt.Errorf("geocode: %w", ports.ErrMalformedResponse)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, store, geo := newTestCache(map[string]domain.Coordinates{"Moscow, Arbat 1": arbat})
			ctx := context.Background()

			geo.FailWith("Moscow, Arbat 1", tt.err)
			got, err := c.Lookup(ctx, "Moscow, Arbat 1")
			if err != nil {
				t.Fatalf("geocoder failure must not propagate, got %v", err)
			}
			if got != nil {
				t.Fatalf("Lookup = %v, want nil", got)
			}
			if store.Len() != 0 {
				t.Fatalf("failure was stored")
			}

			geo.FailWith("Moscow, Arbat 1", nil)
			got, err = c.Lookup(ctx, "Moscow, Arbat 1")
			if err != nil {
				t.Fatalf("retry error: %v", err)
			}
			if got == nil || *got != arbat {
				t.Fatalf("retry = %v, want %v", got, arbat)
			}
			if n := geo.Calls("Moscow, Arbat 1"); n != 2 {
				t.Fatalf("geocoder called %d times, want 2", n)
			}
		})
	}
}

func TestGeocodeCache_StoreErrorsPropagate(t *testing.T) {
	ctx := context.Background()
	boom := errors.New("disk full")

	store := &flakyStore{MemoryAddressStore: cache.NewMemoryAddressStore(), getErr: boom}
	c := NewGeocodeCache(store, geocoder.NewMockGeocoder(map[string]domain.Coordinates{"a": arbat}))
	if _, err := c.Lookup(ctx, "a"); !errors.Is(err, boom) {
		t.Fatalf("read failure: got %v, want %v", err, boom)
	}

	store.getErr = nil
	store.insertErr = boom
	if _, err := c.Lookup(ctx, "a"); !errors.Is(err, boom) {
		t.Fatalf("write failure: got %v, want %v", err, boom)
	}
}

func TestGeocodeCache_DuplicateInsertIsSuccess(t *testing.T) {
	store := &flakyStore{MemoryAddressStore: cache.NewMemoryAddressStore(), insertErr: ports.ErrDuplicateAddress}
	c := NewGeocodeCache(store, geocoder.NewMockGeocoder(map[string]domain.Coordinates{"a": arbat}))

	got, err := c.Lookup(context.Background(), "a")
	if err != nil {
		t.Fatalf("duplicate insert should succeed, got %v", err)
	}
	if got == nil || *got != arbat {
		t.Fatalf("Lookup = %v, want %v", got, arbat)
	}
}

func TestGeocodeCache_NormalizesKeys(t *testing.T) {
	c, store, geo := newTestCache(map[string]domain.Coordinates{"Moscow, Arbat 1": arbat})
	ctx := context.Background()

	for _, addr := range []string{"Moscow, Arbat 1", "  Moscow,   Arbat 1 ", "Moscow,\tArbat 1"} {
		if got, err := c.Lookup(ctx, addr); err != nil || got == nil {
			t.Fatalf("Lookup(%q) = %v, %v", addr, got, err)
		}
	}
	if geo.TotalCalls() != 1 || store.Len() != 1 {
		t.Fatalf("calls=%d entries=%d, want 1 and 1", geo.TotalCalls(), store.Len())
	}

	got, err := c.Lookup(ctx, "   ")
	if err != nil || got != nil {
		t.Fatalf("blank address = %v, %v; want nil, nil", got, err)
	}
	if geo.TotalCalls() != 1 {
		t.Fatalf("blank address reached the geocoder")
	}
}

func TestGeocodeCache_LookupMany(t *testing.T) {
	c, store, geo := newTestCache(map[string]domain.Coordinates{
		"Moscow, Arbat 1":      arbat,
		"Moscow, Tverskaya 10": tverskaya,
	})
	ctx := context.Background()

	if _, err := c.Lookup(ctx, "Moscow, Arbat 1"); err != nil {
		t.Fatalf("warm lookup: %v", err)
	}

	got, err := c.LookupMany(ctx, []string{"Moscow, Arbat 1", "Moscow, Tverskaya 10", "Atlantis", "", "Moscow,  Arbat 1"})
	if err != nil {
		t.Fatalf("LookupMany error: %v", err)
	}

	if len(got) != 3 {
		t.Fatalf("LookupMany returned %d entries, want 3: %v", len(got), got)
	}
	if c := got["Moscow, Tverskaya 10"]; c == nil || *c != tverskaya {
		t.Errorf("tverskaya = %v", c)
	}
	if c, ok := got["Atlantis"]; !ok || c != nil {
		t.Errorf("Atlantis = %v ok=%v, want nil entry", c, ok)
	}
	if n := geo.Calls("Moscow, Arbat 1"); n != 1 {
		t.Errorf("stored address geocoded %d times, want 1", n)
	}
	if store.Len() != 3 {
		t.Errorf("store has %d entries, want 3", store.Len())
	}
}
