package handlers

import (
	"log"
	"net/http"
	"restaurant-dispatch-service/internal/api/dto"
	"restaurant-dispatch-service/internal/platform/obs"
	"restaurant-dispatch-service/internal/ports"
	"restaurant-dispatch-service/internal/services"
)

// AddressHandler resolves single addresses through the geocode cache.
type AddressHandler struct {
	Resolver ports.CoordinateResolver
}

func (h *AddressHandler) Lookup(w http.ResponseWriter, r *http.Request) {
	address := services.NormalizeAddress(r.URL.Query().Get("address"))
	if address == "" {
		writeError(w, r, http.StatusBadRequest, "address is required")
		return
	}

	coords, err := h.Resolver.Lookup(r.Context(), address)
	if err != nil {
		log.Printf("req_id=%s address lookup failed: %v", obs.RequestID(r.Context()), err)
		writeError(w, r, http.StatusInternalServerError, "internal server error")
		return
	}

	res := dto.AddressLookupResponse{Address: address}
	if coords != nil {
		lat, lon := coords.Lat, coords.Lon
		res.Found = true
		res.Lat = &lat
		res.Lon = &lon
	}
	writeJSON(w, r, http.StatusOK, res)
}
