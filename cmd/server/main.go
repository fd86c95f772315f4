package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"restaurant-dispatch-service/internal/adapters/cache"
	"restaurant-dispatch-service/internal/adapters/geocoder"
	"restaurant-dispatch-service/internal/adapters/natsstan"
	"restaurant-dispatch-service/internal/adapters/repositories"
	"restaurant-dispatch-service/internal/api"
	"restaurant-dispatch-service/internal/config"
	"restaurant-dispatch-service/internal/platform/db"
	"restaurant-dispatch-service/internal/ports"
	"restaurant-dispatch-service/internal/services"
	"syscall"
	"time"

	"github.com/joho/godotenv"
)

// main is the application composition root.
// It wires concrete adapters (SQL, Redis, geocoding API, NATS) behind ports and starts the HTTP server.
func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found (using environment variables)")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	conn, err := db.Connect(cfg.DBDriver, cfg.DBPath, cfg.DatabaseURL)
	if err != nil {
		log.Fatal(err)
	}
	defer conn.Close()

	// Local runs start from an empty SQLite file; create tables and demo data.
	if cfg.DBDriver == db.DriverSQLite {
		if err := initAndSeed(conn, cfg.DBDriver, cfg.SeedPath); err != nil {
			log.Fatal(err)
		}
	}

	store, closeStore, err := cache.NewAddressStore(cfg.AddressStore, conn, cfg.DBDriver, cfg.RedisURL)
	if err != nil {
		log.Fatal(err)
	}
	defer closeStore()

	geo, err := newGeocoder(cfg)
	if err != nil {
		log.Fatal(err)
	}

	geocodeCache := services.NewGeocodeCache(store, geo)
	catalog := repositories.NewSQLCatalogRepository(conn)

	if cfg.StanClusterID != "" {
		sub := &natsstan.Subscriber{
			ClusterID: cfg.StanClusterID,
			ClientID:  cfg.StanClientID,
			URL:       cfg.NatsURL,
			Subject:   cfg.StanSubject,
		}
		warmer := services.AddressWarmer{Resolver: geocodeCache}
		if err := sub.Subscribe(ctx, warmer.Handle); err != nil {
			log.Printf("order events disabled: %v", err)
		}
	}

	router := api.NewRouter(catalog, geocodeCache, cfg.RankConcurrency)

	// Write timeout allows a cold board where every address hits the geocoder.
	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      120 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		log.Printf("Server listening addr=:%s db=%s store=%s geocoder=%s", cfg.Port, cfg.DBDriver, cfg.AddressStore, cfg.GeocoderProvider)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("http: %v", err)
		}
	}()

	<-ctx.Done()
	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancelShutdown()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("shutdown: %v", err)
	}
}

func newGeocoder(cfg config.Config) (ports.Geocoder, error) {
	switch cfg.GeocoderProvider {
	case "ors":
		return geocoder.NewORSGeocoder(cfg.ORSAPIKey, geocoder.ORSBaseURL, cfg.GeocoderTimeout)
	case "yandex":
		return geocoder.NewYandexGeocoder(cfg.YandexAPIKey, geocoder.YandexBaseURL, cfg.GeocoderTimeout)
	default:
		return nil, fmt.Errorf("unsupported geocoder provider %q", cfg.GeocoderProvider)
	}
}

func initAndSeed(conn *sql.DB, driver, seedPath string) error {
	if err := repositories.InitSchema(conn, driver); err != nil {
		return fmt.Errorf("init and seed: %w", err)
	}

	if err := repositories.SeedFromJSON(conn, driver, seedPath); err != nil {
		return fmt.Errorf("init and seed: %w", err)
	}

	return nil
}
