package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"restaurant-dispatch-service/internal/domain"
	"restaurant-dispatch-service/internal/platform/obs"
	"restaurant-dispatch-service/internal/ports"
	"strings"
	"time"
)

// NormalizeAddress collapses runs of whitespace so that cosmetic variants of
// the same address share one stored entry.
func NormalizeAddress(address string) string {
	return strings.Join(strings.Fields(address), " ")
}

// GeocodeCache resolves addresses through a persistent store, calling the
// geocoder only for addresses never seen before. Found and not-found outcomes
// are stored forever. Transport and malformed-response failures are not
// stored, so the address is retried on the next lookup.
type GeocodeCache struct {
	Store    ports.AddressStore
	Geocoder ports.Geocoder
	Now      func() time.Time
}

func NewGeocodeCache(store ports.AddressStore, geocoder ports.Geocoder) *GeocodeCache {
	return &GeocodeCache{Store: store, Geocoder: geocoder, Now: time.Now}
}

// Lookup returns the coordinates for address or nil when its position is
// unknown. Errors come only from the store.
func (c *GeocodeCache) Lookup(ctx context.Context, address string) (*domain.Coordinates, error) {
	key := NormalizeAddress(address)
	if key == "" {
		return nil, nil
	}

	entry, ok, err := c.Store.Get(ctx, key)
	if err != nil {
		return nil, fmt.Errorf("geocode cache: read %q: %w", key, err)
	}
	if ok {
		return entry.Coordinates, nil
	}

	return c.resolve(ctx, key)
}

// LookupMany resolves a set of addresses. Stores that support batched reads
// are consulted in one round trip; only the misses reach the geocoder.
func (c *GeocodeCache) LookupMany(
	ctx context.Context,
	addresses []string,
) (_ map[string]*domain.Coordinates, err error) {
	defer obs.Time(ctx, "geocode_cache.LookupMany")(&err)

	keys := make([]string, 0, len(addresses))
	seen := make(map[string]struct{}, len(addresses))
	for _, a := range addresses {
		k := NormalizeAddress(a)
		if k == "" {
			continue
		}
		if _, dup := seen[k]; dup {
			continue
		}
		seen[k] = struct{}{}
		keys = append(keys, k)
	}

	out := make(map[string]*domain.Coordinates, len(keys))
	if len(keys) == 0 {
		return out, nil
	}

	br, ok := c.Store.(ports.AddressBatchReader)
	if !ok {
		for _, k := range keys {
			coords, err := c.Lookup(ctx, k)
			if err != nil {
				return nil, err
			}
			out[k] = coords
		}
		return out, nil
	}

	stored, err := br.GetMany(ctx, keys)
	if err != nil {
		return nil, fmt.Errorf("geocode cache: batch read: %w", err)
	}

	for _, k := range keys {
		if e, hit := stored[k]; hit {
			out[k] = e.Coordinates
			continue
		}
		coords, err := c.resolve(ctx, k)
		if err != nil {
			return nil, err
		}
		out[k] = coords
	}

	return out, nil
}

func (c *GeocodeCache) resolve(ctx context.Context, key string) (*domain.Coordinates, error) {
	coords, err := c.Geocoder.Geocode(ctx, key)
	switch {
	case err == nil:
		return c.store(ctx, key, &coords)
	case errors.Is(err, ports.ErrAddressNotFound):
		return c.store(ctx, key, nil)
	default:
		var te *ports.TransportError
		kind := "malformed"
		if errors.As(err, &te) {
			kind = "transport"
		}
		log.Printf("req_id=%s geocode=%q outcome=%s err=%v", obs.RequestID(ctx), key, kind, err)
		return nil, nil
	}
}

func (c *GeocodeCache) store(ctx context.Context, key string, coords *domain.Coordinates) (*domain.Coordinates, error) {
	now := time.Now
	if c.Now != nil {
		now = c.Now
	}

	entry := domain.AddressEntry{Address: key, Coordinates: coords, ResolvedAt: now().UTC()}
	if err := c.Store.Insert(ctx, entry); err != nil && !errors.Is(err, ports.ErrDuplicateAddress) {
		return nil, fmt.Errorf("geocode cache: write %q: %w", key, err)
	}
	return coords, nil
}

var _ ports.BatchCoordinateResolver = (*GeocodeCache)(nil)
