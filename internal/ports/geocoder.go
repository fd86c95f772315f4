package ports

import (
	"context"
	"errors"
	"fmt"
	"restaurant-dispatch-service/internal/domain"
)

var (
	// The geocoder answered but found no place for the address.
	// This is a valid negative outcome and is cached.
	ErrAddressNotFound = errors.New("address not found")

	// The geocoder answered with a payload that could not be interpreted.
	// Treated like a transport failure: never cached.
	ErrMalformedResponse = errors.New("malformed geocoder response")
)

// TransportError reports a network, timeout or non-2xx failure while talking
// to the geocoding API. It is recoverable and never cached.
type TransportError struct {
	Op  string
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("%s: transport: %v", e.Op, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// Contract for resolving a human-readable address into coordinates through
// an external service. Implementations do not cache and do not retry.
type Geocoder interface {
	// Return the most relevant match for address, ErrAddressNotFound when the
	// service has no match, or a *TransportError / ErrMalformedResponse failure.
	Geocode(ctx context.Context, address string) (domain.Coordinates, error)
}

// Contract for address resolution that never fails on geocoding problems.
// A nil result means the position is unknown. An error means the backing
// store is unusable.
type CoordinateResolver interface {
	Lookup(ctx context.Context, address string) (*domain.Coordinates, error)
}

// Optional extension: resolve many addresses at once. The result holds an
// entry for every non-empty input address; unknown positions map to nil.
type BatchCoordinateResolver interface {
	CoordinateResolver
	LookupMany(ctx context.Context, addresses []string) (map[string]*domain.Coordinates, error)
}
