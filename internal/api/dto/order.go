package dto

// CandidateResponse is one ranked restaurant. DistanceKM is null and
// DistanceKnown false when either address could not be located.
type CandidateResponse struct {
	RestaurantID  int64    `json:"restaurant_id"`
	Name          string   `json:"name"`
	Address       string   `json:"address"`
	DistanceKM    *float64 `json:"distance_km"`
	DistanceKnown bool     `json:"distance_known"`
}

type OrderResponse struct {
	OrderID                 int64               `json:"order_id"`
	Status                  string              `json:"status"`
	PaymentType             string              `json:"payment_type"`
	ClientName              string              `json:"client_name"`
	Phone                   string              `json:"phone"`
	Address                 string              `json:"address"`
	Comment                 string              `json:"comment"`
	TotalPriceCents         int64               `json:"total_price_cents"`
	ResponsibleRestaurantID *int64              `json:"responsible_restaurant_id"`
	Candidates              []CandidateResponse `json:"candidates"`
}

type ListOrdersResponse struct {
	Orders []OrderResponse `json:"orders"`
}
