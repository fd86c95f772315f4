package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"restaurant-dispatch-service/internal/domain"
	"restaurant-dispatch-service/internal/platform/obs"
	"time"
)

// SQL-backed implementation of the CatalogRepository port.
// Queries take no parameters so the same text runs on SQLite and PostgreSQL.
type SQLCatalogRepository struct{ DB *sql.DB }

func NewSQLCatalogRepository(db *sql.DB) *SQLCatalogRepository {
	return &SQLCatalogRepository{DB: db}
}

// Return orders that still need dispatching, grouped by status and newest first.
func (s *SQLCatalogRepository) ListPendingOrders(ctx context.Context) (_ []*domain.Order, err error) {
	defer obs.Time(ctx, "catalog.ListPendingOrders")(&err)

	if s.DB == nil {
		return nil, errors.New("sql catalog repository: DB is nil")
	}

	query := `
	SELECT
		order_id,
		address,
		first_name,
		last_name,
		contact_phone,
		status,
		payment_type,
		comment,
		created_at,
		called_at,
		delivered_at,
		responsible_restaurant_id
	FROM orders
	WHERE status <> 'S60_COMPLETED'
	ORDER BY status, created_at DESC, order_id DESC;
	`
	rows, err := s.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list orders: query orders table: %w", err)
	}
	defer rows.Close()

	orders := make([]*domain.Order, 0, 64)
	byID := make(map[int64]*domain.Order)
	for rows.Next() {
		var o domain.Order
		var status, payment string
		var createdAt, calledAt, deliveredAt sql.NullString
		var responsible sql.NullInt64
		err := rows.Scan(
			&o.OrderID,
			&o.Address,
			&o.FirstName,
			&o.LastName,
			&o.Phone,
			&status,
			&payment,
			&o.Comment,
			&createdAt,
			&calledAt,
			&deliveredAt,
			&responsible,
		)
		if err != nil {
			return nil, fmt.Errorf("list orders: scan row: %w", err)
		}

		o.Status = domain.OrderStatus(status)
		o.PaymentType = domain.PaymentType(payment)
		if responsible.Valid {
			id := responsible.Int64
			o.ResponsibleRestaurantID = &id
		}

		created, err := parseTime(createdAt)
		if err != nil {
			return nil, fmt.Errorf("list orders: order %d created_at: %w", o.OrderID, err)
		}
		if created != nil {
			o.CreatedAt = *created
		}
		if o.CalledAt, err = parseTime(calledAt); err != nil {
			return nil, fmt.Errorf("list orders: order %d called_at: %w", o.OrderID, err)
		}
		if o.DeliveredAt, err = parseTime(deliveredAt); err != nil {
			return nil, fmt.Errorf("list orders: order %d delivered_at: %w", o.OrderID, err)
		}

		order := &o
		orders = append(orders, order)
		byID[order.OrderID] = order
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list orders: row iteration: %w", err)
	}

	if len(orders) == 0 {
		return orders, nil
	}

	if err := s.attachLines(ctx, byID); err != nil {
		return nil, err
	}

	return orders, nil
}

func (s *SQLCatalogRepository) attachLines(ctx context.Context, byID map[int64]*domain.Order) error {
	query := `
	SELECT
		l.order_id,
		l.product_id,
		l.quantity,
		l.price_cents
	FROM order_lines l
	JOIN orders o ON o.order_id = l.order_id
	WHERE o.status <> 'S60_COMPLETED'
	ORDER BY l.order_id, l.product_id;
	`
	rows, err := s.DB.QueryContext(ctx, query)
	if err != nil {
		return fmt.Errorf("list orders: query order_lines table: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var orderID int64
		var l domain.OrderLine
		if err := rows.Scan(&orderID, &l.ProductID, &l.Quantity, &l.PriceCents); err != nil {
			return fmt.Errorf("list orders: scan line: %w", err)
		}
		if o, ok := byID[orderID]; ok {
			o.Lines = append(o.Lines, l)
		}
	}

	if err := rows.Err(); err != nil {
		return fmt.Errorf("list orders: line iteration: %w", err)
	}
	return nil
}

// Return every menu row, in stock or not.
func (s *SQLCatalogRepository) ListMenuItems(ctx context.Context) ([]domain.MenuItem, error) {
	if s.DB == nil {
		return nil, errors.New("sql catalog repository: DB is nil")
	}

	query := `
	SELECT
		restaurant_id,
		product_id,
		availability
	FROM menu_items
	ORDER BY restaurant_id, product_id;
	`
	rows, err := s.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list menu items: query menu_items table: %w", err)
	}
	defer rows.Close()

	items := make([]domain.MenuItem, 0, 128)
	for rows.Next() {
		var it domain.MenuItem
		if err := rows.Scan(&it.RestaurantID, &it.ProductID, &it.InStock); err != nil {
			return nil, fmt.Errorf("list menu items: scan row: %w", err)
		}
		items = append(items, it)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list menu items: row iteration: %w", err)
	}

	return items, nil
}

// Return all restaurants ordered by id.
func (s *SQLCatalogRepository) ListRestaurants(ctx context.Context) ([]*domain.Restaurant, error) {
	if s.DB == nil {
		return nil, errors.New("sql catalog repository: DB is nil")
	}

	query := `
	SELECT
		restaurant_id,
		name,
		address,
		contact_phone
	FROM restaurants
	ORDER BY restaurant_id;
	`
	rows, err := s.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list restaurants: query restaurants table: %w", err)
	}
	defer rows.Close()

	restaurants := make([]*domain.Restaurant, 0, 16)
	for rows.Next() {
		var r domain.Restaurant
		if err := rows.Scan(&r.RestaurantID, &r.Name, &r.Address, &r.Phone); err != nil {
			return nil, fmt.Errorf("list restaurants: scan row: %w", err)
		}
		restaurants = append(restaurants, &r)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list restaurants: row iteration: %w", err)
	}

	return restaurants, nil
}

// parseTime reads timestamps stored as TEXT by SQLite or converted from
// TIMESTAMPTZ by database/sql. Both use RFC 3339.
func parseTime(v sql.NullString) (*time.Time, error) {
	if !v.Valid || v.String == "" {
		return nil, nil
	}
	t, err := time.Parse(time.RFC3339Nano, v.String)
	if err != nil {
		return nil, err
	}
	return &t, nil
}
