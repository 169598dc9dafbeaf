package main

import (
	"context"
	"log"
	"os"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"

	"github.com/threadline/workwear-api/internal/store"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, relying on environment variables")
	}

	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		log.Fatal("DATABASE_URL is not set")
	}

	ctx := context.Background()
	pool, err := store.NewPool(ctx, dbURL, "workwear-seeder")
	if err != nil {
		log.Fatalf("Failed to open DB: %v", err)
	}
	defer pool.Close()

	st := store.New(pool)
	seedProducts(ctx, st)

	log.Println("Seeding completed successfully!")
}

func seedProducts(ctx context.Context, st *store.Store) {
	products := []store.Product{
		{Slug: "hi-vis-polo", Name: "Hi-Vis Work Polo", Description: "Breathable high-visibility polo with reflective tape.", Category: "hi-vis", UnitPrice: dec("24.99"), Customizable: true},
		{Slug: "hi-vis-vest", Name: "Hi-Vis Safety Vest", Description: "Day/night rated safety vest.", Category: "hi-vis", UnitPrice: dec("14.50"), Customizable: true},
		{Slug: "safety-boot", Name: "Steel Cap Safety Boot", Description: "Composite toe, oil resistant sole.", Category: "safety", UnitPrice: dec("89.00"), Customizable: false},
		{Slug: "work-polo", Name: "Classic Work Polo", Description: "Hard-wearing pique polo for everyday crews.", Category: "polos", UnitPrice: dec("19.99"), Customizable: true},
		{Slug: "crew-jacket", Name: "Crew Softshell Jacket", Description: "Windproof softshell with chest logo zone.", Category: "jackets", UnitPrice: dec("64.00"), Customizable: true},
		{Slug: "cargo-pants", Name: "Stretch Cargo Pants", Description: "Stretch fabric with knee pad pockets.", Category: "pants", UnitPrice: dec("44.95"), Customizable: false},
		{Slug: "crew-hoodie", Name: "Heavyweight Crew Hoodie", Description: "Brushed fleece hoodie, large back print area.", Category: "hoodies", UnitPrice: dec("39.99"), Customizable: true},
		{Slug: "bundle-starter-crew", Name: "Starter Crew Bundle", Description: "Six-piece polo and hoodie bundle for new teams.", Category: "bundles", UnitPrice: dec("179.00"), Customizable: true},
	}

	log.Println("Seeding Products...")
	for _, p := range products {
		if _, err := st.CreateProduct(ctx, p); err != nil {
			log.Fatalf("Failed to seed product %s: %v", p.Slug, err)
		}
	}
	log.Printf("Seeded %d products", len(products))
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}
