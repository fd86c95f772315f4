package api

import (
	"net/http"
	"restaurant-dispatch-service/internal/api/handlers"
	"restaurant-dispatch-service/internal/ports"

	"github.com/gorilla/mux"
)

// NewRouter wires HTTP handlers with their dependencies and returns an http.Handler.
// Handlers stay unaware of concrete adapters.
func NewRouter(catalog ports.CatalogRepository, resolver ports.CoordinateResolver, rankConcurrency int) http.Handler {
	r := mux.NewRouter()

	ordersHandler := &handlers.OrdersHandler{
		Catalog:     catalog,
		Resolver:    resolver,
		Concurrency: rankConcurrency,
	}
	addressHandler := &handlers.AddressHandler{Resolver: resolver}

	r.HandleFunc("/health", handlers.Health).Methods(http.MethodGet)
	r.HandleFunc("/orders/candidates", ordersHandler.Candidates).Methods(http.MethodGet)
	r.HandleFunc("/addresses/lookup", addressHandler.Lookup).Methods(http.MethodGet)

	r.Use(requestIDMiddleware, loggingMiddleware)
	return r
}
