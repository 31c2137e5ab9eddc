package main

import (
	"database/sql"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/stdlib"
)

// normalizeDatabaseURL rewrites postgresql:// to postgres:// and makes
// sure sslmode is set, for compatibility with hosted connection strings.
func normalizeDatabaseURL(databaseURL string) string {
	if len(databaseURL) > 11 && databaseURL[:11] == "postgresql:" {
		databaseURL = "postgres" + databaseURL[10:]
	}
	if !strings.Contains(databaseURL, "sslmode=") {
		separator := "?"
		if strings.Contains(databaseURL, "?") {
			separator = "&"
		}
		databaseURL = databaseURL + separator + "sslmode=disable"
	}
	return databaseURL
}

// initDB opens the PostgreSQL connection backing the data marketplace and
// makes sure its schema and seed bounties are in place.
func initDB(cfg *Config) (*sql.DB, error) {
	config, err := pgx.ParseConfig(normalizeDatabaseURL(cfg.DatabaseURL))
	if err != nil {
		return nil, fmt.Errorf("failed to parse database URL: %w", err)
	}

	// Wait for database to be ready with retries
	var db *sql.DB
	maxRetries := 60
	retryDelay := 2 * time.Second

	for i := 0; i < maxRetries; i++ {
		db = stdlib.OpenDB(*config)
		if err := db.Ping(); err != nil {
			db.Close()
			if i < maxRetries-1 {
				if i%10 == 0 || i < 5 {
					log.Printf("Database not ready, retrying in %v... (attempt %d/%d) Error: %v", retryDelay, i+1, maxRetries, err)
				} else {
					log.Printf("Database not ready, retrying in %v... (attempt %d/%d)", retryDelay, i+1, maxRetries)
				}
				time.Sleep(retryDelay)
				continue
			}
			return nil, fmt.Errorf("failed to connect to database after %d attempts: %w", maxRetries, err)
		}
		log.Println("Database connection established")
		break
	}

	if err := ensureSchema(db); err != nil {
		db.Close()
		return nil, err
	}
	if err := seedBounties(db); err != nil {
		log.Printf("Warning: failed to seed bounties: %v", err)
	}

	return db, nil
}
