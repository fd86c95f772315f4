package cache

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"restaurant-dispatch-service/internal/platform/db"
	"restaurant-dispatch-service/internal/ports"

	"github.com/redis/go-redis/v9"
)

const (
	KindSQL    = "sql"
	KindRedis  = "redis"
	KindMemory = "memory"
)

// NewAddressStore builds the store selected by kind. The returned close func
// releases resources the store owns; the SQL connection stays with the caller.
func NewAddressStore(kind string, conn *sql.DB, driver, redisURL string) (ports.AddressStore, func() error, error) {
	noop := func() error { return nil }

	switch kind {
	case KindSQL:
		if conn == nil {
			return nil, nil, errors.New("address store: sql store needs a database")
		}
		if driver == db.DriverPostgres {
			return NewSQLAddressStore(conn), noop, nil
		}
		return NewSqliteAddressStore(conn), noop, nil
	case KindRedis:
		opts, err := redis.ParseURL(redisURL)
		if err != nil {
			return nil, nil, fmt.Errorf("address store: parse REDIS_URL: %w", err)
		}
		client := redis.NewClient(opts)
		if err := client.Ping(context.Background()).Err(); err != nil {
			client.Close()
			return nil, nil, fmt.Errorf("address store: ping redis: %w", err)
		}
		return NewRedisAddressStore(client), client.Close, nil
	case KindMemory:
		return NewMemoryAddressStore(), noop, nil
	default:
		return nil, nil, fmt.Errorf("address store: unsupported kind %q", kind)
	}
}
