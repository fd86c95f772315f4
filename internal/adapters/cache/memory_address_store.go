package cache

import (
	"context"
	"restaurant-dispatch-service/internal/domain"
	"sync"
)

// MemoryAddressStore is a process-local address store. Outcomes are lost on restart.
type MemoryAddressStore struct {
	mu    sync.RWMutex
	store map[string]domain.AddressEntry
}

func NewMemoryAddressStore() *MemoryAddressStore {
	return &MemoryAddressStore{store: make(map[string]domain.AddressEntry)}
}

func (s *MemoryAddressStore) Get(_ context.Context, address string) (domain.AddressEntry, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	e, ok := s.store[address]
	return copyEntry(e), ok, nil
}

func (s *MemoryAddressStore) GetMany(_ context.Context, addresses []string) (map[string]domain.AddressEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make(map[string]domain.AddressEntry, len(addresses))
	for _, a := range addresses {
		if e, ok := s.store[a]; ok {
			out[a] = copyEntry(e)
		}
	}
	return out, nil
}

func (s *MemoryAddressStore) Insert(_ context.Context, entry domain.AddressEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.store[entry.Address]; ok {
		return nil
	}
	s.store[entry.Address] = copyEntry(entry)
	return nil
}

func (s *MemoryAddressStore) Delete(_ context.Context, address string) error {
	s.mu.Lock()
	delete(s.store, address)
	s.mu.Unlock()
	return nil
}

func (s *MemoryAddressStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.store)
}

func copyEntry(e domain.AddressEntry) domain.AddressEntry {
	if e.Coordinates != nil {
		c := *e.Coordinates
		e.Coordinates = &c
	}
	return e
}
