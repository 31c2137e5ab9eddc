package main

import (
	"fmt"
	"log"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/stdlib"
)

// setupDatabase creates the marketplace tables and seeds the research
// studies. Run via the -migrate flag.
func setupDatabase(cfg *Config) error {
	config, err := pgx.ParseConfig(normalizeDatabaseURL(cfg.DatabaseURL))
	if err != nil {
		return fmt.Errorf("failed to parse database URL: %w", err)
	}

	db := stdlib.OpenDB(*config)
	defer db.Close()

	if err := db.Ping(); err != nil {
		return fmt.Errorf("failed to ping database: %w", err)
	}

	log.Println("Creating database schema...")
	if err := ensureSchema(db); err != nil {
		return err
	}
	log.Println("Schema created successfully")

	log.Println("Seeding research studies...")
	if err := seedBounties(db); err != nil {
		return err
	}
	log.Println("Studies seeded successfully")

	return nil
}
