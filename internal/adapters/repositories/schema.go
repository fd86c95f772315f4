package repositories

import (
	"database/sql"
	"errors"
	"fmt"
	"restaurant-dispatch-service/internal/platform/db"
)

// Table definitions per dialect. Only the column types differ.
type dialectTypes struct {
	id        string
	real      string
	timestamp string
	boolean   string
}

func typesFor(driver string) (dialectTypes, error) {
	switch driver {
	case db.DriverSQLite:
		return dialectTypes{id: "INTEGER", real: "REAL", timestamp: "TEXT", boolean: "INTEGER"}, nil
	case db.DriverPostgres:
		return dialectTypes{id: "BIGINT", real: "DOUBLE PRECISION", timestamp: "TIMESTAMPTZ", boolean: "BOOLEAN"}, nil
	default:
		return dialectTypes{}, fmt.Errorf("unsupported driver %q", driver)
	}
}

// Initialize the catalog and address tables for the given driver.
func InitSchema(conn *sql.DB, driver string) error {
	if conn == nil {
		return errors.New("init schema: DB is nil")
	}

	t, err := typesFor(driver)
	if err != nil {
		return fmt.Errorf("init schema: %w", err)
	}

	tx, err := conn.Begin()
	if err != nil {
		return fmt.Errorf("init schema: begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	createRestaurantsQuery := fmt.Sprintf(`
	CREATE TABLE IF NOT EXISTS restaurants (
		restaurant_id %[1]s PRIMARY KEY,
		name TEXT NOT NULL,
		address TEXT NOT NULL DEFAULT '',
		contact_phone TEXT NOT NULL DEFAULT ''
	);
	`, t.id)

	createProductsQuery := fmt.Sprintf(`
	CREATE TABLE IF NOT EXISTS products (
		product_id %[1]s PRIMARY KEY,
		name TEXT NOT NULL,
		price_cents %[1]s NOT NULL CHECK (price_cents >= 0)
	);
	`, t.id)

	createMenuItemsQuery := fmt.Sprintf(`
	CREATE TABLE IF NOT EXISTS menu_items (
		restaurant_id %[1]s NOT NULL REFERENCES restaurants(restaurant_id) ON DELETE CASCADE,
		product_id %[1]s NOT NULL REFERENCES products(product_id) ON DELETE CASCADE,
		availability %[2]s NOT NULL DEFAULT TRUE,
		PRIMARY KEY (restaurant_id, product_id)
	);
	`, t.id, t.boolean)

	createOrdersQuery := fmt.Sprintf(`
	CREATE TABLE IF NOT EXISTS orders (
		order_id %[1]s PRIMARY KEY,
		address TEXT NOT NULL,
		first_name TEXT NOT NULL,
		last_name TEXT NOT NULL,
		contact_phone TEXT NOT NULL,
		status TEXT NOT NULL DEFAULT 'S10_CREATED',
		payment_type TEXT NOT NULL DEFAULT 'P10_NOT_CHOSEN',
		comment TEXT NOT NULL DEFAULT '',
		created_at %[2]s NOT NULL,
		called_at %[2]s,
		delivered_at %[2]s,
		responsible_restaurant_id %[1]s REFERENCES restaurants(restaurant_id) ON DELETE SET NULL
	);
	`, t.id, t.timestamp)

	createOrderLinesQuery := fmt.Sprintf(`
	CREATE TABLE IF NOT EXISTS order_lines (
		order_id %[1]s NOT NULL REFERENCES orders(order_id) ON DELETE CASCADE,
		product_id %[1]s NOT NULL REFERENCES products(product_id) ON DELETE CASCADE,
		quantity INTEGER NOT NULL CHECK (quantity >= 1),
		price_cents %[1]s NOT NULL CHECK (price_cents >= 0),
		PRIMARY KEY (order_id, product_id)
	);
	`, t.id)

	createAddressesQuery := fmt.Sprintf(`
	CREATE TABLE IF NOT EXISTS addresses (
		address TEXT PRIMARY KEY,
		lat %[1]s,
		lon %[1]s,
		resolved_at %[2]s NOT NULL,
		CHECK ((lat IS NULL AND lon IS NULL) OR (lat IS NOT NULL AND lon IS NOT NULL))
	);
	`, t.real, t.timestamp)

	createIndexQuery := `
	CREATE INDEX IF NOT EXISTS idx_orders_status_created
	ON orders(status, created_at);
	`

	statements := []string{
		createRestaurantsQuery,
		createProductsQuery,
		createMenuItemsQuery,
		createOrdersQuery,
		createOrderLinesQuery,
		createAddressesQuery,
		createIndexQuery,
	}

	for i, stmt := range statements {
		if _, err := tx.Exec(stmt); err != nil {
			return fmt.Errorf("init schema: exec statement #%d: %w", i+1, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("init schema: commit tx: %w", err)
	}

	return nil
}
