// Command migrate applies the embedded database migrations and exits.
// It is meant for operational use: CI pipelines and manual schema rollout
// against an environment the app itself only degrades around.
package main

import (
	"context"
	"database/sql"
	"log"

	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/dkrasnova/fintrack/internal/server/config"
	"github.com/dkrasnova/fintrack/internal/server/repositories/repomanager"
)

func main() {
	cfg := config.LoadConfig()

	db, err := sql.Open("pgx", cfg.DatabaseDSN)
	if err != nil {
		log.Fatalf("db open error: %v", err)
	}
	defer db.Close()

	ctx := context.Background()
	if err := db.PingContext(ctx); err != nil {
		log.Fatalf("db ping error: %v", err)
	}

	manager := repomanager.NewPostgresRepositoryManager()
	if err := manager.RunMigrations(ctx, db); err != nil {
		log.Fatalf("migration error: %v", err)
	}

	log.Println("migrations applied")
}
