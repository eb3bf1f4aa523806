package main

import (
	"context"
	"log"
	"net/http"

	"qbench/adapters/api"
	"qbench/adapters/postgres"
	"qbench/internal"
	"qbench/internal/config"
	"qbench/internal/migration"

	"github.com/jmoiron/sqlx"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system environment variables")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	if cfg.Database.URL == "" {
		log.Fatal("QBENCH_DATABASE_URL is required for the results API")
	}
	logger := internal.NewDefaultLogger()

	db, err := sqlx.Connect("postgres", cfg.Database.URL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	if err := migration.NewRunner().Run(context.Background(), db); err != nil {
		log.Fatalf("Database migration failed: %v", err)
	}

	server := api.NewServer(postgres.NewResultRepository(db), logger)
	logger.Info("results API listening on :%s", cfg.Server.Port)
	if err := http.ListenAndServe(":"+cfg.Server.Port, server); err != nil {
		log.Fatalf("Server failed: %v", err)
	}
}
