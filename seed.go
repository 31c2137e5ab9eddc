package main

import (
	"context"
	"fmt"
)

// seedDemoData loads a small demo dataset into the record stores for
// presentations. Idempotent: it only runs when every store is empty.
func seedDemoData(s *server) error {
	ctx := context.Background()

	if len(s.journal.Entries(ctx)) > 0 || len(s.finance.Transactions(ctx)) > 0 || len(s.habits.Habits(ctx)) > 0 {
		return nil
	}

	journalEntries := []string{
		"Shipped the new dashboard today. Feeling great about the progress.",
		"Long day, tired and a bit stressed about the deadline.",
		"Morning run done, calm and focused.",
	}
	for _, content := range journalEntries {
		if _, err := s.journal.AddEntry(ctx, content, ""); err != nil {
			return fmt.Errorf("seeding journal: %w", err)
		}
	}

	demoTransactions := []struct {
		description string
		amount      float64
		category    string
	}{
		{"Coffee", 5, "Food"},
		{"Bus", 2, "Transport"},
		{"Rent", 900, "Utilities"},
		{"Concert Tickets", 80, "Entertainment"},
	}
	for _, tx := range demoTransactions {
		if _, err := s.finance.AddTransaction(ctx, tx.description, tx.amount, tx.category); err != nil {
			return fmt.Errorf("seeding transactions: %w", err)
		}
	}

	if _, err := s.habits.GenerateHabits(ctx); err != nil {
		return fmt.Errorf("seeding habits: %w", err)
	}

	if _, err := s.wallet.Deposit(ctx, 100); err != nil {
		return fmt.Errorf("seeding wallet: %w", err)
	}

	return nil
}
