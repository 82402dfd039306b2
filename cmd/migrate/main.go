package main

import (
	"context"
	"log"
	"os"

	"fscompare/internal/config"
	"fscompare/internal/migration"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
)

func main() {
	if err := config.LoadDotEnv(); err != nil {
		log.Printf("Warning: %v", err)
	}

	databaseURL := os.Getenv("DATABASE_URL")
	if len(os.Args) > 1 {
		databaseURL = os.Args[1]
	}
	if databaseURL == "" {
		log.Fatal("Usage: migrate <database_url> (or set DATABASE_URL)")
	}

	dsn, err := config.DatabaseConfig{URL: databaseURL, SSLMode: os.Getenv("SSL_MODE")}.DSN()
	if err != nil {
		log.Fatalf("Invalid database URL: %v", err)
	}
	db, err := sqlx.Connect("postgres", dsn)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	runner := migration.NewRunner()
	log.Printf("Running schema migrations v%s", runner.Version())
	for _, step := range runner.Steps() {
		log.Printf("  - %s", step)
	}
	ctx := context.Background()
	if err := runner.Run(ctx, db); err != nil {
		log.Fatalf("Migration failed: %v", err)
	}
	versions, err := runner.AppliedVersions(ctx, db)
	if err != nil {
		log.Fatalf("Failed to read applied versions: %v", err)
	}
	log.Printf("Migration complete, applied versions: %v", versions)
}
