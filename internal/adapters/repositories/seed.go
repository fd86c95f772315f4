package repositories

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"restaurant-dispatch-service/internal/domain"
	"strings"
	"time"
)

type RestaurantSeed struct {
	RestaurantID int64  `json:"restaurant_id"`
	Name         string `json:"name"`
	Address      string `json:"address"`
	ContactPhone string `json:"contact_phone"`
}

type ProductSeed struct {
	ProductID  int64  `json:"product_id"`
	Name       string `json:"name"`
	PriceCents int64  `json:"price_cents"`
}

type MenuItemSeed struct {
	RestaurantID int64 `json:"restaurant_id"`
	ProductID    int64 `json:"product_id"`
	Availability bool  `json:"availability"`
}

type OrderLineSeed struct {
	ProductID  int64 `json:"product_id"`
	Quantity   int   `json:"quantity"`
	PriceCents int64 `json:"price_cents"`
}

type OrderSeed struct {
	OrderID                 int64           `json:"order_id"`
	Address                 string          `json:"address"`
	FirstName               string          `json:"first_name"`
	LastName                string          `json:"last_name"`
	ContactPhone            string          `json:"contact_phone"`
	Status                  string          `json:"status"`
	PaymentType             string          `json:"payment_type"`
	Comment                 string          `json:"comment"`
	CreatedAt               time.Time       `json:"created_at"`
	CalledAt                *time.Time      `json:"called_at"`
	DeliveredAt             *time.Time      `json:"delivered_at"`
	ResponsibleRestaurantID *int64          `json:"responsible_restaurant_id"`
	Lines                   []OrderLineSeed `json:"lines"`
}

type CatalogSeed struct {
	Restaurants []RestaurantSeed `json:"restaurants"`
	Products    []ProductSeed    `json:"products"`
	MenuItems   []MenuItemSeed   `json:"menu_items"`
	Orders      []OrderSeed      `json:"orders"`
}

// Populate the catalog tables from a JSON file. Rows whose key already
// exists are left untouched.
func SeedFromJSON(conn *sql.DB, driver, jsonPath string) error {
	bytes, err := os.ReadFile(jsonPath)
	if err != nil {
		return fmt.Errorf("seed catalog: read %q: %w", jsonPath, err)
	}

	var data CatalogSeed
	if err := json.Unmarshal(bytes, &data); err != nil {
		return fmt.Errorf("seed catalog: parse json: %w", err)
	}

	return Seed(conn, driver, data)
}

// Seed validates and inserts a catalog in one transaction.
func Seed(conn *sql.DB, driver string, data CatalogSeed) error {
	if conn == nil {
		return errors.New("seed catalog: DB is nil")
	}

	if err := validateSeed(&data); err != nil {
		return fmt.Errorf("seed catalog: %w", err)
	}

	tx, err := conn.Begin()
	if err != nil {
		return fmt.Errorf("seed catalog: begin tx: %w", err)
	}
	defer tx.Rollback()

	for _, r := range data.Restaurants {
		q := rebind(driver, `
		INSERT INTO restaurants (restaurant_id, name, address, contact_phone)
		VALUES (?, ?, ?, ?)
		ON CONFLICT (restaurant_id) DO NOTHING;
		`)
		if _, err := tx.Exec(q, r.RestaurantID, r.Name, r.Address, r.ContactPhone); err != nil {
			return fmt.Errorf("seed catalog: insert restaurant_id=%d: %w", r.RestaurantID, err)
		}
	}

	for _, p := range data.Products {
		q := rebind(driver, `
		INSERT INTO products (product_id, name, price_cents)
		VALUES (?, ?, ?)
		ON CONFLICT (product_id) DO NOTHING;
		`)
		if _, err := tx.Exec(q, p.ProductID, p.Name, p.PriceCents); err != nil {
			return fmt.Errorf("seed catalog: insert product_id=%d: %w", p.ProductID, err)
		}
	}

	for _, m := range data.MenuItems {
		q := rebind(driver, `
		INSERT INTO menu_items (restaurant_id, product_id, availability)
		VALUES (?, ?, ?)
		ON CONFLICT (restaurant_id, product_id) DO NOTHING;
		`)
		if _, err := tx.Exec(q, m.RestaurantID, m.ProductID, m.Availability); err != nil {
			return fmt.Errorf("seed catalog: insert menu item %d/%d: %w", m.RestaurantID, m.ProductID, err)
		}
	}

	for _, o := range data.Orders {
		q := rebind(driver, `
		INSERT INTO orders (
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
		)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (order_id) DO NOTHING;
		`)
		_, err := tx.Exec(q,
			o.OrderID,
			o.Address,
			o.FirstName,
			o.LastName,
			o.ContactPhone,
			o.Status,
			o.PaymentType,
			o.Comment,
			timeArg(driver, o.CreatedAt),
			nullableTimeArg(driver, o.CalledAt),
			nullableTimeArg(driver, o.DeliveredAt),
			o.ResponsibleRestaurantID,
		)
		if err != nil {
			return fmt.Errorf("seed catalog: insert order_id=%d: %w", o.OrderID, err)
		}

		for _, l := range o.Lines {
			q := rebind(driver, `
			INSERT INTO order_lines (order_id, product_id, quantity, price_cents)
			VALUES (?, ?, ?, ?)
			ON CONFLICT (order_id, product_id) DO NOTHING;
			`)
			if _, err := tx.Exec(q, o.OrderID, l.ProductID, l.Quantity, l.PriceCents); err != nil {
				return fmt.Errorf("seed catalog: insert line order_id=%d product_id=%d: %w", o.OrderID, l.ProductID, err)
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("seed catalog: commit tx: %w", err)
	}

	return nil
}

func validateSeed(data *CatalogSeed) error {
	for i := range data.Restaurants {
		r := &data.Restaurants[i]
		if r.RestaurantID <= 0 {
			return fmt.Errorf("invalid restaurant_id at index %d: %d", i+1, r.RestaurantID)
		}
		r.Name = strings.TrimSpace(r.Name)
		if r.Name == "" {
			return fmt.Errorf("restaurant at index %d: name cannot be empty", i+1)
		}
		r.Address = strings.TrimSpace(r.Address)
	}

	for i, p := range data.Products {
		if p.ProductID <= 0 {
			return fmt.Errorf("invalid product_id at index %d: %d", i+1, p.ProductID)
		}
		if p.PriceCents < 0 {
			return fmt.Errorf("product %d: negative price", p.ProductID)
		}
	}

	for i := range data.Orders {
		o := &data.Orders[i]
		if o.OrderID <= 0 {
			return fmt.Errorf("invalid order_id at index %d: %d", i+1, o.OrderID)
		}
		o.Address = strings.TrimSpace(o.Address)
		if o.Address == "" {
			return fmt.Errorf("order %d: address cannot be empty", o.OrderID)
		}
		if o.Status == "" {
			o.Status = string(domain.StatusCreated)
		}
		if o.PaymentType == "" {
			o.PaymentType = string(domain.PaymentNotChosen)
		}
		if o.CreatedAt.IsZero() {
			o.CreatedAt = time.Now()
		}
		for _, l := range o.Lines {
			if l.Quantity < 1 {
				return fmt.Errorf("order %d product %d: quantity must be at least 1", o.OrderID, l.ProductID)
			}
		}
	}

	return nil
}
