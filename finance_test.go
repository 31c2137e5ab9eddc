package main

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestFinanceService(t *testing.T) (*financeService, *walletService) {
	t.Helper()
	rdb := newTestRedis(t)
	wallet := newWalletService(rdb, newTestLogger())
	agents := newAgentRegistry(wallet)
	return newFinanceService(rdb, agents, 0, newTestLogger()), wallet
}

func TestAddTransactionRejectsUnknownCategory(t *testing.T) {
	svc, _ := newTestFinanceService(t)

	_, err := svc.AddTransaction(context.Background(), "Mystery", 10, "Gadgets")
	assert.Error(t, err)
}

func TestAddTransactionPopulatesRecord(t *testing.T) {
	svc, _ := newTestFinanceService(t)
	ctx := context.Background()

	tx, err := svc.AddTransaction(ctx, "Coffee", 5, "Food")
	require.NoError(t, err)

	assert.NotEmpty(t, tx.ID)
	assert.NotZero(t, tx.Timestamp)
	assert.Contains(t, tx.ProofTag, "proof-finance-")

	records := svc.Transactions(ctx)
	require.Len(t, records, 1)
	assert.Equal(t, tx.ID, records[0].ID)
}

func TestSpendingInsightScenario(t *testing.T) {
	svc, wallet := newTestFinanceService(t)
	ctx := context.Background()

	seed := []struct {
		description string
		amount      float64
		category    string
	}{
		{"Coffee", 5, "Food"},
		{"Bus", 2, "Transport"},
		{"Rent", 900, "Utilities"},
	}
	for _, tx := range seed {
		_, err := svc.AddTransaction(ctx, tx.description, tx.amount, tx.category)
		require.NoError(t, err)
	}

	insights, err := svc.Insights(ctx)
	require.NoError(t, err)
	require.NotEmpty(t, insights)

	// 907 total: within the healthy range
	assert.Equal(t, "Success", insights[0].Type)
	assert.Contains(t, insights[0].Message, "907.00")
	assert.NotEmpty(t, insights[0].AgentTxID)

	// Utilities crossed the category spotlight at 900
	foundSpotlight := false
	for _, insight := range insights {
		if insight.Type == "Info" {
			assert.Contains(t, insight.Message, "Utilities")
			foundSpotlight = true
		}
	}
	assert.True(t, foundSpotlight, "expected a category spotlight for Utilities")

	// another 100+ pushes the total over the threshold
	_, err = svc.AddTransaction(ctx, "New Monitor", 150, "Shopping")
	require.NoError(t, err)

	insights, err = svc.Insights(ctx)
	require.NoError(t, err)
	require.NotEmpty(t, insights)
	assert.Equal(t, "Warning", insights[0].Type)
	assert.Contains(t, insights[0].Message, "High spending detected")
	assert.Contains(t, insights[0].Message, fmt.Sprintf("%.2f", 1057.0))

	// each insight run charged the finance agent's fee to the ledger
	state := wallet.State(ctx)
	fees := 0
	for _, entry := range state.Transactions {
		if entry.Type == ledgerFee {
			fees++
			assert.Equal(t, -0.2, entry.Amount)
		}
	}
	assert.Equal(t, 2, fees)
	assert.Zero(t, state.Balance, "fees never debit the balance")
}

func TestDeleteTransactionRoundTrip(t *testing.T) {
	svc, _ := newTestFinanceService(t)
	ctx := context.Background()

	first, err := svc.AddTransaction(ctx, "Coffee", 5, "Food")
	require.NoError(t, err)
	second, err := svc.AddTransaction(ctx, "Bus", 2, "Transport")
	require.NoError(t, err)

	require.NoError(t, svc.DeleteTransaction(ctx, first.ID))

	records := svc.Transactions(ctx)
	require.Len(t, records, 1)
	assert.Equal(t, second.ID, records[0].ID)
}
