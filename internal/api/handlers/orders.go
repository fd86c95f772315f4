package handlers

import (
	"log"
	"net/http"
	"restaurant-dispatch-service/internal/api/dto"
	"restaurant-dispatch-service/internal/domain"
	"restaurant-dispatch-service/internal/platform/obs"
	"restaurant-dispatch-service/internal/ports"
	"restaurant-dispatch-service/internal/services"
)

// OrdersHandler serves the dispatcher view of pending orders.
type OrdersHandler struct {
	Catalog     ports.CatalogRepository
	Resolver    ports.CoordinateResolver
	Concurrency int
}

// Candidates ranks restaurants for every pending order.
func (h *OrdersHandler) Candidates(w http.ResponseWriter, r *http.Request) {
	board, err := services.BuildDispatchBoard(r.Context(), h.Catalog, h.Resolver, h.Concurrency)
	if err != nil {
		log.Printf("req_id=%s build dispatch board failed: %v", obs.RequestID(r.Context()), err)
		writeError(w, r, http.StatusInternalServerError, "internal server error")
		return
	}

	res := dto.ListOrdersResponse{Orders: make([]dto.OrderResponse, 0, len(board.Orders))}
	for _, oc := range board.Orders {
		o := oc.Order
		res.Orders = append(res.Orders, dto.OrderResponse{
			OrderID:                 o.OrderID,
			Status:                  string(o.Status),
			PaymentType:             string(o.PaymentType),
			ClientName:              o.ClientName(),
			Phone:                   o.Phone,
			Address:                 o.Address,
			Comment:                 o.Comment,
			TotalPriceCents:         o.TotalPriceCents(),
			ResponsibleRestaurantID: o.ResponsibleRestaurantID,
			Candidates:              candidatesResponse(oc.Candidates, board.Restaurants),
		})
	}

	writeJSON(w, r, http.StatusOK, res)
}

func candidatesResponse(ranked []domain.RankedRestaurant, restaurants map[int64]*domain.Restaurant) []dto.CandidateResponse {
	out := make([]dto.CandidateResponse, 0, len(ranked))
	for _, rr := range ranked {
		c := dto.CandidateResponse{RestaurantID: rr.RestaurantID}
		if r, ok := restaurants[rr.RestaurantID]; ok {
			c.Name = r.Name
			c.Address = r.Address
		}
		if km, ok := rr.Distance.Kilometers(); ok {
			c.DistanceKM = &km
			c.DistanceKnown = true
		}
		out = append(out, c)
	}
	return out
}
