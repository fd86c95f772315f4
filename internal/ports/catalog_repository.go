package ports

import (
	"context"
	"restaurant-dispatch-service/internal/domain"
)

// Port: read access to the order and menu catalog owned by the storefront.
type CatalogRepository interface {
	// Retrieve orders that are not completed, with their lines,
	// ordered by status and then newest first.
	ListPendingOrders(ctx context.Context) ([]*domain.Order, error)
	// Retrieve every restaurant menu row.
	ListMenuItems(ctx context.Context) ([]domain.MenuItem, error)
	// Retrieve every restaurant.
	ListRestaurants(ctx context.Context) ([]*domain.Restaurant, error)
}
