package services

import (
	"context"
	"fmt"
	"restaurant-dispatch-service/internal/domain"
	"restaurant-dispatch-service/internal/ports"
	"slices"
)

// RankRestaurants lists the restaurants able to fulfil the order, nearest
// first. Restaurants whose distance is unknown come last in candidate order.
// Orders with a responsible restaurant are not ranked and cost no lookups.
func RankRestaurants(
	ctx context.Context,
	order *domain.Order,
	availability domain.MenuAvailability,
	restaurants map[int64]*domain.Restaurant,
	resolver ports.CoordinateResolver,
) ([]domain.RankedRestaurant, error) {
	if order.ResponsibleRestaurantID != nil {
		return []domain.RankedRestaurant{}, nil
	}

	ids := AvailableRestaurants(order.Lines, availability)
	if len(ids) == 0 {
		return []domain.RankedRestaurant{}, nil
	}

	orderCoords, err := resolver.Lookup(ctx, order.Address)
	if err != nil {
		return nil, fmt.Errorf("rank restaurants: order_id=%d: resolve delivery address: %w", order.OrderID, err)
	}

	ranked := make([]domain.RankedRestaurant, 0, len(ids))
	for _, rid := range ids {
		var restaurantCoords *domain.Coordinates
		if r, ok := restaurants[rid]; ok {
			restaurantCoords, err = resolver.Lookup(ctx, r.Address)
			if err != nil {
				return nil, fmt.Errorf(
					"rank restaurants: order_id=%d: resolve restaurant_id=%d address: %w",
					order.OrderID, rid, err,
				)
			}
		}

		ranked = append(ranked, domain.RankedRestaurant{
			RestaurantID: rid,
			Distance:     Distance(orderCoords, restaurantCoords),
		})
	}

	slices.SortStableFunc(ranked, func(a, b domain.RankedRestaurant) int {
		return domain.CompareDistance(a.Distance, b.Distance)
	})

	return ranked, nil
}
