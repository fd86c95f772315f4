package ports

import (
	"context"
	"errors"
	"restaurant-dispatch-service/internal/domain"
)

// Returned by a store that detects an insert for an address that already has
// an entry. Callers treat it as success.
var ErrDuplicateAddress = errors.New("address already stored")

// Port: persistent key-value storage of geocoding outcomes, keyed by address text.
type AddressStore interface {
	// Return the entry for address and whether it exists.
	Get(ctx context.Context, address string) (domain.AddressEntry, bool, error)
	// Insert a new entry. An existing entry for the same address is left as is.
	Insert(ctx context.Context, entry domain.AddressEntry) error
	// Remove the entry so the next lookup resolves the address again.
	Delete(ctx context.Context, address string) error
}

// Optional extension for stores that can read many entries in one round trip.
// Missing addresses are absent from the result map.
type AddressBatchReader interface {
	GetMany(ctx context.Context, addresses []string) (map[string]domain.AddressEntry, error)
}
