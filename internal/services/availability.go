package services

import (
	"restaurant-dispatch-service/internal/domain"
	"sort"
)

// AvailableRestaurants returns the ids of restaurants that have every ordered
// product in stock, ascending. Quantities do not matter. An order without
// lines has no candidates.
func AvailableRestaurants(lines []domain.OrderLine, availability domain.MenuAvailability) []int64 {
	var common map[int64]struct{}
	seen := make(map[int64]struct{}, len(lines))

	for _, l := range lines {
		if _, dup := seen[l.ProductID]; dup {
			continue
		}
		seen[l.ProductID] = struct{}{}

		rs := availability.RestaurantsFor(l.ProductID)
		if common == nil {
			common = rs
		} else {
			for rid := range common {
				if _, ok := rs[rid]; !ok {
					delete(common, rid)
				}
			}
		}

		if len(common) == 0 {
			return []int64{}
		}
	}

	ids := make([]int64, 0, len(common))
	for rid := range common {
		ids = append(ids, rid)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}
