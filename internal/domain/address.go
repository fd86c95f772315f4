package domain

import "time"

// AddressEntry is a persisted geocoding outcome for one address string.
//
// A nil Coordinates is a durable negative result ("the geocoder found nothing"),
// distinct from the absence of an entry ("never looked up").
type AddressEntry struct {
	Address     string
	Coordinates *Coordinates
	ResolvedAt  time.Time
}

// Resolved reports whether the entry carries coordinates.
func (e AddressEntry) Resolved() bool { return e.Coordinates != nil }
