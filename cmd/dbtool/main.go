package main

import (
	"context"
	"database/sql"
	"flag"
	"log"
	"restaurant-dispatch-service/internal/adapters/cache"
	"restaurant-dispatch-service/internal/adapters/repositories"
	"restaurant-dispatch-service/internal/config"
	"restaurant-dispatch-service/internal/platform/db"
	"restaurant-dispatch-service/internal/services"

	"github.com/joho/godotenv"
)

func main() {
	forget := flag.String("forget", "", "drop the stored geocoding outcome for this address")
	skipSeed := flag.Bool("schema-only", false, "create tables without loading the seed catalog")
	flag.Parse()

	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found (using environment variables)")
	}

	driver := config.Get("DB_DRIVER", db.DriverSQLite)
	conn, err := db.Connect(driver, config.Get("DB_PATH", "data/app.db"), config.Get("DATABASE_URL", ""))
	if err != nil {
		log.Fatal(err)
	}
	defer conn.Close()

	if *forget != "" {
		forgetAddress(conn, driver, *forget)
		return
	}

	seedPath := config.Get("SEED_PATH", "data/seeds/catalog.json")
	initAndSeed(conn, driver, seedPath, !*skipSeed)
}

func initAndSeed(conn *sql.DB, driver, seedPath string, seed bool) {
	log.Println("Initializing database schema...")
	if err := repositories.InitSchema(conn, driver); err != nil {
		log.Fatalf("schema initialization failed: %v", err)
	}
	log.Println("Schema ready.")

	if !seed {
		return
	}

	log.Println("Seeding database...")
	if err := repositories.SeedFromJSON(conn, driver, seedPath); err != nil {
		log.Fatalf("seeding failed: %v", err)
	}
	log.Println("Seeding complete.")
}

func forgetAddress(conn *sql.DB, driver, address string) {
	kind := config.Get("ADDRESS_STORE", cache.KindSQL)
	store, closeStore, err := cache.NewAddressStore(kind, conn, driver, config.Get("REDIS_URL", "redis://localhost:6379/0"))
	if err != nil {
		log.Fatal(err)
	}
	defer closeStore()

	key := services.NormalizeAddress(address)
	if err := store.Delete(context.Background(), key); err != nil {
		log.Fatalf("forget failed: %v", err)
	}
	log.Printf("Forgot address=%q store=%s; next lookup will query the geocoder.", key, kind)
}
