package services

import (
	"context"
	"restaurant-dispatch-service/internal/domain"
	"restaurant-dispatch-service/internal/ports"
	"sync"

	"golang.org/x/sync/singleflight"
)

// BatchMemo remembers resolved addresses for the duration of one ranking
// pass. It is safe for concurrent use. Concurrent lookups of the same address
// share one call to the underlying resolver.
type BatchMemo struct {
	resolver ports.CoordinateResolver

	mu     sync.Mutex
	coords map[string]*domain.Coordinates
	group  singleflight.Group
}

func NewBatchMemo(resolver ports.CoordinateResolver) *BatchMemo {
	return &BatchMemo{
		resolver: resolver,
		coords:   make(map[string]*domain.Coordinates),
	}
}

func (m *BatchMemo) Lookup(ctx context.Context, address string) (*domain.Coordinates, error) {
	key := NormalizeAddress(address)
	if key == "" {
		return nil, nil
	}

	if c, ok := m.cached(key); ok {
		return c, nil
	}

	v, err, _ := m.group.Do(key, func() (any, error) {
		if c, ok := m.cached(key); ok {
			return c, nil
		}
		c, err := m.resolver.Lookup(ctx, key)
		if err != nil {
			return nil, err
		}
		m.mu.Lock()
		m.coords[key] = c
		m.mu.Unlock()
		return c, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*domain.Coordinates), nil
}

// Prefetch resolves addresses in bulk when the resolver supports it.
// Otherwise it does nothing and lookups happen lazily.
func (m *BatchMemo) Prefetch(ctx context.Context, addresses []string) error {
	br, ok := m.resolver.(ports.BatchCoordinateResolver)
	if !ok {
		return nil
	}

	resolved, err := br.LookupMany(ctx, addresses)
	if err != nil {
		return err
	}

	m.mu.Lock()
	for k, c := range resolved {
		m.coords[k] = c
	}
	m.mu.Unlock()
	return nil
}

// Len reports how many addresses the memo holds.
func (m *BatchMemo) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.coords)
}

func (m *BatchMemo) cached(key string) (*domain.Coordinates, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.coords[key]
	return c, ok
}
