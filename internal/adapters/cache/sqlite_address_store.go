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

// SQLite backed store mapping address strings to geocoding outcomes.
// A row with NULL lat/lon is a cached "not found".
// Address keys are expected to be normalized by the caller.
type SqliteAddressStore struct {
	DB *sql.DB
}

func NewSqliteAddressStore(db *sql.DB) *SqliteAddressStore {
	return &SqliteAddressStore{DB: db}
}

// Fetch the stored outcome for one address.
func (s *SqliteAddressStore) Get(ctx context.Context, address string) (domain.AddressEntry, bool, error) {
	if s.DB == nil {
		return domain.AddressEntry{}, false, errors.New("address store: db is nil")
	}

	q := `
	SELECT
        lat,
        lon,
        resolved_at
    FROM addresses
    WHERE address = ?;
	`

	var lat, lon sql.NullFloat64
	var resolvedAt string
	err := s.DB.QueryRowContext(ctx, q, address).Scan(&lat, &lon, &resolvedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.AddressEntry{}, false, nil
	}
	if err != nil {
		return domain.AddressEntry{}, false, fmt.Errorf("get address: query addresses table: %w", err)
	}

	entry, err := sqliteEntry(address, lat, lon, resolvedAt)
	if err != nil {
		return domain.AddressEntry{}, false, fmt.Errorf("get address: %w", err)
	}
	return entry, true, nil
}

// Fetch stored outcomes for the given addresses.
func (s *SqliteAddressStore) GetMany(
	ctx context.Context,
	addresses []string,
) (_ map[string]domain.AddressEntry, err error) {
	defer obs.Time(ctx, "address.sqlite.GetMany")(&err)

	if s.DB == nil {
		return nil, errors.New("address store: db is nil")
	}

	uniq := uniqueAddresses(addresses)
	if len(uniq) == 0 {
		return map[string]domain.AddressEntry{}, nil
	}

	ph := make([]string, 0, len(uniq))
	args := make([]any, 0, len(uniq))
	for _, a := range uniq {
		ph = append(ph, "?")
		args = append(args, a)
	}

	// SQLite does not support binding slices directly in an IN (...) clause.
	// Only the placeholder structure is interpolated; all values remain parameterized.
	q := fmt.Sprintf(`
	SELECT
        address,
        lat,
        lon,
        resolved_at
    FROM addresses
    WHERE address IN (%s);
	`, strings.Join(ph, ","))

	rows, err := s.DB.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("get addresses: query addresses table: %w", err)
	}
	defer rows.Close()

	out := make(map[string]domain.AddressEntry, len(uniq))
	for rows.Next() {
		var addr, resolvedAt string
		var lat, lon sql.NullFloat64
		if err := rows.Scan(&addr, &lat, &lon, &resolvedAt); err != nil {
			return nil, fmt.Errorf("get addresses: scan rows: %w", err)
		}
		entry, err := sqliteEntry(addr, lat, lon, resolvedAt)
		if err != nil {
			return nil, fmt.Errorf("get addresses: %w", err)
		}
		out[addr] = entry
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("get addresses: row iteration: %w", err)
	}

	return out, nil
}

// Store a new outcome. A concurrent insert of the same address wins silently.
func (s *SqliteAddressStore) Insert(ctx context.Context, entry domain.AddressEntry) error {
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
	INSERT OR IGNORE INTO addresses (
        address,
        lat,
        lon,
        resolved_at
    )
    VALUES (?, ?, ?, ?);
	`
	resolvedAt := entry.ResolvedAt.UTC().Format(time.RFC3339Nano)
	if _, err := s.DB.ExecContext(ctx, q, entry.Address, lat, lon, resolvedAt); err != nil {
		return fmt.Errorf("insert address %q: %w", entry.Address, err)
	}

	return nil
}

func (s *SqliteAddressStore) Delete(ctx context.Context, address string) error {
	if s.DB == nil {
		return errors.New("address store: db is nil")
	}

	if _, err := s.DB.ExecContext(ctx, `DELETE FROM addresses WHERE address = ?;`, address); err != nil {
		return fmt.Errorf("delete address %q: %w", address, err)
	}
	return nil
}

func sqliteEntry(address string, lat, lon sql.NullFloat64, resolvedAt string) (domain.AddressEntry, error) {
	t, err := time.Parse(time.RFC3339Nano, resolvedAt)
	if err != nil {
		return domain.AddressEntry{}, fmt.Errorf("parse resolved_at for %q: %w", address, err)
	}
	return domain.AddressEntry{
		Address:     address,
		Coordinates: coordinatesFromNull(lat, lon),
		ResolvedAt:  t,
	}, nil
}
