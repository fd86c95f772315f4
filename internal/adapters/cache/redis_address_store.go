package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"restaurant-dispatch-service/internal/domain"
	"restaurant-dispatch-service/internal/platform/obs"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

const redisKeyPrefix = "geocode:address:"

type redisEntry struct {
	Lat        *float64  `json:"lat"`
	Lon        *float64  `json:"lon"`
	ResolvedAt time.Time `json:"resolved_at"`
}

// RedisAddressStore keeps one JSON value per address under geocode:address:<address>.
// Entries never expire.
type RedisAddressStore struct {
	Client redis.UniversalClient
}

func NewRedisAddressStore(client redis.UniversalClient) *RedisAddressStore {
	return &RedisAddressStore{Client: client}
}

func redisKey(address string) string {
	return redisKeyPrefix + address
}

func (s *RedisAddressStore) Get(ctx context.Context, address string) (domain.AddressEntry, bool, error) {
	raw, err := s.Client.Get(ctx, redisKey(address)).Bytes()
	if errors.Is(err, redis.Nil) {
		return domain.AddressEntry{}, false, nil
	}
	if err != nil {
		return domain.AddressEntry{}, false, fmt.Errorf("get address: redis get: %w", err)
	}

	entry, err := decodeRedisEntry(address, raw)
	if err != nil {
		return domain.AddressEntry{}, false, fmt.Errorf("get address: %w", err)
	}
	return entry, true, nil
}

func (s *RedisAddressStore) GetMany(
	ctx context.Context,
	addresses []string,
) (_ map[string]domain.AddressEntry, err error) {
	defer obs.Time(ctx, "address.redis.GetMany")(&err)

	uniq := uniqueAddresses(addresses)
	out := make(map[string]domain.AddressEntry, len(uniq))
	if len(uniq) == 0 {
		return out, nil
	}

	keys := make([]string, len(uniq))
	for i, a := range uniq {
		keys[i] = redisKey(a)
	}

	vals, err := s.Client.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, fmt.Errorf("get addresses: redis mget: %w", err)
	}

	for i, v := range vals {
		str, ok := v.(string)
		if !ok {
			continue
		}
		entry, err := decodeRedisEntry(uniq[i], []byte(str))
		if err != nil {
			return nil, fmt.Errorf("get addresses: %w", err)
		}
		out[uniq[i]] = entry
	}

	return out, nil
}

// Insert uses SETNX so the first writer of an address wins.
func (s *RedisAddressStore) Insert(ctx context.Context, entry domain.AddressEntry) error {
	if strings.TrimSpace(entry.Address) == "" {
		return errors.New("insert address: empty address key")
	}

	var v redisEntry
	v.ResolvedAt = entry.ResolvedAt.UTC()
	if entry.Coordinates != nil {
		lat, lon := entry.Coordinates.Lat, entry.Coordinates.Lon
		v.Lat, v.Lon = &lat, &lon
	}

	payload, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("insert address %q: encode: %w", entry.Address, err)
	}

	if err := s.Client.SetNX(ctx, redisKey(entry.Address), payload, 0).Err(); err != nil {
		return fmt.Errorf("insert address %q: redis setnx: %w", entry.Address, err)
	}
	return nil
}

func (s *RedisAddressStore) Delete(ctx context.Context, address string) error {
	if err := s.Client.Del(ctx, redisKey(address)).Err(); err != nil {
		return fmt.Errorf("delete address %q: redis del: %w", address, err)
	}
	return nil
}

func decodeRedisEntry(address string, raw []byte) (domain.AddressEntry, error) {
	var v redisEntry
	if err := json.Unmarshal(raw, &v); err != nil {
		return domain.AddressEntry{}, fmt.Errorf("decode entry for %q: %w", address, err)
	}

	entry := domain.AddressEntry{Address: address, ResolvedAt: v.ResolvedAt}
	if v.Lat != nil && v.Lon != nil {
		entry.Coordinates = &domain.Coordinates{Lat: *v.Lat, Lon: *v.Lon}
	}
	return entry, nil
}
