package geocoder

import (
	"context"
	"fmt"
	"restaurant-dispatch-service/internal/domain"
	"restaurant-dispatch-service/internal/ports"
	"sync"
)

// MockGeocoder resolves addresses from a fixed table and counts calls.
// Unknown addresses yield ports.ErrAddressNotFound.
type MockGeocoder struct {
	mu     sync.Mutex
	places map[string]domain.Coordinates
	errs   map[string]error
	calls  map[string]int
}

func NewMockGeocoder(places map[string]domain.Coordinates) *MockGeocoder {
	m := make(map[string]domain.Coordinates, len(places))
	for k, v := range places {
		m[k] = v
	}
	return &MockGeocoder{
		places: m,
		errs:   make(map[string]error),
		calls:  make(map[string]int),
	}
}

// FailWith makes every following Geocode call for address return err.
// A nil err clears the failure.
func (g *MockGeocoder) FailWith(address string, err error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if err == nil {
		delete(g.errs, address)
		return
	}
	g.errs[address] = err
}

func (g *MockGeocoder) Geocode(ctx context.Context, address string) (domain.Coordinates, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	g.calls[address]++

	if err, ok := g.errs[address]; ok {
		return domain.Coordinates{}, err
	}
	c, ok := g.places[address]
	if !ok {
		return domain.Coordinates{}, fmt.Errorf("mock geocode %q: %w", address, ports.ErrAddressNotFound)
	}
	return c, nil
}

func (g *MockGeocoder) Calls(address string) int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.calls[address]
}

func (g *MockGeocoder) TotalCalls() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	n := 0
	for _, c := range g.calls {
		n += c
	}
	return n
}
