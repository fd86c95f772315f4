package cache

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"restaurant-dispatch-service/internal/domain"
	"restaurant-dispatch-service/internal/platform/obs"
	"strings"
	"time"
)

// SQLAddressStore is a PostgreSQL-backed store mapping addresses to geocoding outcomes.
type SQLAddressStore struct {
	DB *sql.DB
}

func NewSQLAddressStore(db *sql.DB) *SQLAddressStore {
	return &SQLAddressStore{DB: db}
}

// Fetch the stored outcome for one address.
func (s *SQLAddressStore) Get(ctx context.Context, address string) (domain.AddressEntry, bool, error) {
	if s.DB == nil {
		return domain.AddressEntry{}, false, errors.New("address store: db is nil")
	}

	q := `
	SELECT lat, lon, resolved_at
    FROM addresses
    WHERE address = $1;
	`

	var lat, lon sql.NullFloat64
	var resolvedAt time.Time
	err := s.DB.QueryRowContext(ctx, q, address).Scan(&lat, &lon, &resolvedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.AddressEntry{}, false, nil
	}
	if err != nil {
		return domain.AddressEntry{}, false, fmt.Errorf("get address: query addresses table: %w", err)
	}

	return domain.AddressEntry{
		Address:     address,
		Coordinates: coordinatesFromNull(lat, lon),
		ResolvedAt:  resolvedAt,
	}, true, nil
}

// Fetch stored outcomes for the given addresses.
func (s *SQLAddressStore) GetMany(
	ctx context.Context,
	addresses []string,
) (_ map[string]domain.AddressEntry, err error) {
	defer obs.Time(ctx, "address.sql.GetMany")(&err)

	if s.DB == nil {
		return nil, errors.New("address store: db is nil")
	}

	uniq := uniqueAddresses(addresses)
	if len(uniq) == 0 {
		return map[string]domain.AddressEntry{}, nil
	}

	q := `
	SELECT address, lat, lon, resolved_at
    FROM addresses
    WHERE address = ANY($1::text[]);
	`

	rows, err := s.DB.QueryContext(ctx, q, uniq)
	if err != nil {
		return nil, fmt.Errorf("get addresses: query addresses table: %w", err)
	}
	defer rows.Close()

	out := make(map[string]domain.AddressEntry, len(uniq))
	for rows.Next() {
		var addr string
		var lat, lon sql.NullFloat64
		var resolvedAt time.Time
		if err := rows.Scan(&addr, &lat, &lon, &resolvedAt); err != nil {
			return nil, fmt.Errorf("get addresses: scan rows: %w", err)
		}
		out[addr] = domain.AddressEntry{
			Address:     addr,
			Coordinates: coordinatesFromNull(lat, lon),
			ResolvedAt:  resolvedAt,
		}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("get addresses: row iteration: %w", err)
	}

	return out, nil
}

// Store a new outcome. A concurrent insert of the same address wins silently.
func (s *SQLAddressStore) Insert(ctx context.Context, entry domain.AddressEntry) error {
	if s.DB == nil {
		return errors.New("address store: db is nil")
	}

	if strings.TrimSpace(entry.Address) == "" {
		return errors.New("insert address: empty address key")
	}

	var lat, lon sql.NullFloat64
	if entry.Coordinates != nil {
		lat = sql.NullFloat64{Float64: entry.Coordinates.Lat, Valid: true}
		lon = sql.NullFloat64{Float64: entry.Coordinates.Lon, Valid: true}
	}

	q := `
	INSERT INTO addresses (address, lat, lon, resolved_at)
    VALUES ($1, $2, $3, $4)
	ON CONFLICT (address) DO NOTHING;
	`
	if _, err := s.DB.ExecContext(ctx, q, entry.Address, lat, lon, entry.ResolvedAt.UTC()); err != nil {
		return fmt.Errorf("insert address %q: %w", entry.Address, err)
	}

	return nil
}

func (s *SQLAddressStore) Delete(ctx context.Context, address string) error {
	if s.DB == nil {
		return errors.New("address store: db is nil")
	}

	if _, err := s.DB.ExecContext(ctx, `DELETE FROM addresses WHERE address = $1;`, address); err != nil {
		return fmt.Errorf("delete address %q: %w", address, err)
	}
	return nil
}
