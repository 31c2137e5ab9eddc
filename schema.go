package main

import (
	"database/sql"
	"fmt"
)

const schemaSQL = `
	CREATE TABLE IF NOT EXISTS bounties (
		id VARCHAR(20) PRIMARY KEY,
		title VARCHAR(255) NOT NULL,
		reward DECIMAL(10,2) NOT NULL,
		criteria VARCHAR(255) NOT NULL,
		participants INTEGER NOT NULL DEFAULT 0,
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	);

	CREATE TABLE IF NOT EXISTS contributions (
		id SERIAL PRIMARY KEY,
		bounty_id VARCHAR(20) NOT NULL REFERENCES bounties(id),
		contributor VARCHAR(100) NOT NULL,
		reward DECIMAL(10,2) NOT NULL,
		proof_tag VARCHAR(100) NOT NULL,
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	);

	-- One contribution per contributor per study
	CREATE UNIQUE INDEX IF NOT EXISTS idx_contributions_bounty_contributor
		ON contributions(bounty_id, contributor);
`

const seedSQL = `
	INSERT INTO bounties (id, title, reward, criteria) VALUES
		('b-001', 'Study: Developer Burnout', 50, 'Role: Dev AND Stress > 50'),
		('b-002', 'Study: Sleep vs. Code Quality', 75, 'Sleep < 6h AND Bugs > 2'),
		('b-003', 'Study: Meditation Impact', 30, 'Habit: Meditation > 5 days')
	ON CONFLICT (id) DO NOTHING;
`

func ensureSchema(db *sql.DB) error {
	if _, err := db.Exec(schemaSQL); err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}
	return nil
}

func seedBounties(db *sql.DB) error {
	if _, err := db.Exec(seedSQL); err != nil {
		return fmt.Errorf("failed to seed bounties: %w", err)
	}
	return nil
}
