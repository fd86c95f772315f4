package services

import (
	"restaurant-dispatch-service/internal/domain"
	"slices"
	"testing"
)

func TestAvailableRestaurants(t *testing.T) {
	avail := domain.NewMenuAvailability([]domain.MenuItem{
		{RestaurantID: 1, ProductID: 10, InStock: true},
		{RestaurantID: 2, ProductID: 10, InStock: true},
		{RestaurantID: 2, ProductID: 11, InStock: true},
		{RestaurantID: 3, ProductID: 11, InStock: true},
		{RestaurantID: 3, ProductID: 12, InStock: false},
		{RestaurantID: 1, ProductID: 13, InStock: true},
		{RestaurantID: 3, ProductID: 13, InStock: true},
		{RestaurantID: 2, ProductID: 13, InStock: true},
	})

	tests := []struct {
		name  string
		lines []domain.OrderLine
		want  []int64
	}{
		{"intersection", []domain.OrderLine{{ProductID: 10, Quantity: 1}, {ProductID: 11, Quantity: 5}}, []int64{2}},
		{"single product sorted", []domain.OrderLine{{ProductID: 13, Quantity: 1}}, []int64{1, 2, 3}},
		{"out of stock only", []domain.OrderLine{{ProductID: 12, Quantity: 1}}, []int64{}},
		{"unknown product", []domain.OrderLine{{ProductID: 13}, {ProductID: 99}}, []int64{}},
		{"repeated product", []domain.OrderLine{{ProductID: 10}, {ProductID: 10}}, []int64{1, 2}},
		{"no lines", nil, []int64{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := AvailableRestaurants(tt.lines, avail)
			if got == nil {
				t.Fatalf("got nil slice, want empty")
			}
			if !slices.Equal(got, tt.want) {
				t.Fatalf("got %v, want %v", got, tt.want)
			}
		})
	}
}
