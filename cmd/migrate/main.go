// Applies pending schema migrations against DATABASE_URL:
//
//	go run ./cmd/migrate
package main

import (
	"context"
	"log"

	"justiplay-backend/internal/shared/config"
	"justiplay-backend/internal/shared/storage/db"
)

func main() {
	cfg := config.Load()
	ctx := context.Background()

	pool, err := db.Connect(ctx, cfg.DatabaseURL, db.OptionsFromEnv(db.DefaultMigrateOptions()))
	if err != nil {
		log.Fatalf("connect database: %v", err)
	}
	defer pool.Close()

	if err := db.RunMigrations(ctx, pool); err != nil {
		log.Fatalf("run migrations: %v", err)
	}
	log.Printf("migrations up to date")
}
