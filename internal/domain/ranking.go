package domain

// A candidate restaurant for an order together with its distance from the
// delivery address. Produced per ranking call and never persisted.
type RankedRestaurant struct {
	RestaurantID int64
	Distance     Distance
}

// The dispatcher view of one pending order.
// Candidates is empty when the order already has a responsible restaurant
// or when no restaurant can supply every product.
type OrderCandidates struct {
	Order      *Order
	Candidates []RankedRestaurant
}
