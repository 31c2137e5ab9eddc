package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const (
	highSpendingThreshold = 1000
	categorySpotlight     = 500
)

var transactionCategories = map[string]bool{
	"Food":          true,
	"Transport":     true,
	"Utilities":     true,
	"Entertainment": true,
	"Shopping":      true,
	"Other":         true,
}

// financeService owns the expense collection and the spending analysis
// performed by the finance agent.
type financeService struct {
	store      *recordStore[Transaction]
	agents     *agentRegistry
	financeSvc agentIdentity
}

func newFinanceService(rdb *redis.Client, agents *agentRegistry, maxBytes int, logger *slog.Logger) *financeService {
	return &financeService{
		store:  newRecordStore[Transaction](rdb, "nebula:finance", maxBytes, logger),
		agents: agents,
		financeSvc: agents.Register(agentConfig{
			Name:        "Nebula Finance Agent",
			Description: "Budgeting and spending analysis",
			Fee:         0.2,
			Version:     "1.0.0",
		}),
	}
}

// Transactions returns all tracked expenses, newest-first.
func (f *financeService) Transactions(ctx context.Context) []Transaction {
	return f.store.List(ctx)
}

// AddTransaction records a new expense.
func (f *financeService) AddTransaction(ctx context.Context, description string, amount float64, category string) (Transaction, error) {
	if !transactionCategories[category] {
		return Transaction{}, fmt.Errorf("unknown category %q", category)
	}

	tx := Transaction{
		ID:          uuid.NewString(),
		Description: description,
		Amount:      amount,
		Category:    category,
		Timestamp:   time.Now().UnixMilli(),
		ProofTag:    proofTag("finance", fmt.Sprint(amount), category),
	}
	return f.store.Add(ctx, tx)
}

// DeleteTransaction removes an expense by id.
func (f *financeService) DeleteTransaction(ctx context.Context, id string) error {
	return f.store.Delete(ctx, id)
}

// Insights runs the finance agent over the full expense history. The
// agent's fee is charged before the analysis runs.
func (f *financeService) Insights(ctx context.Context) ([]Insight, error) {
	transactions := f.Transactions(ctx)

	insights, txHash, err := runAgentTask(ctx, f.agents, f.financeSvc, func() ([]Insight, error) {
		var insights []Insight

		totalSpent := 0.0
		categoryTotals := make(map[string]float64)
		for _, t := range transactions {
			totalSpent += t.Amount
			categoryTotals[t.Category] += t.Amount
		}

		if totalSpent > highSpendingThreshold {
			insights = append(insights, Insight{
				Type:    "Warning",
				Message: fmt.Sprintf("High spending detected: $%.2f. Consider reviewing your budget.", totalSpent),
			})
		} else {
			insights = append(insights, Insight{
				Type:    "Success",
				Message: fmt.Sprintf("Spending is within a healthy range: $%.2f.", totalSpent),
			})
		}

		for category, amount := range categoryTotals {
			if amount > categorySpotlight {
				insights = append(insights, Insight{
					Type:    "Info",
					Message: fmt.Sprintf("You've spent $%.2f on %s.", amount, category),
				})
			}
		}
		return insights, nil
	})
	if err != nil {
		return nil, err
	}

	for i := range insights {
		insights[i].AgentTxID = txHash
	}
	return insights, nil
}

// getTransactions retrieves all tracked expenses.
func (s *server) getTransactions(c *gin.Context) {
	c.JSON(http.StatusOK, s.finance.Transactions(c.Request.Context()))
}

type addTransactionRequest struct {
	Description string  `json:"description" binding:"required"`
	Amount      float64 `json:"amount" binding:"required,gt=0"`
	Category    string  `json:"category" binding:"required"`
}

// addTransaction creates a new expense record.
func (s *server) addTransaction(c *gin.Context) {
	var req addTransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	tx, err := s.finance.AddTransaction(c.Request.Context(), req.Description, req.Amount, req.Category)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, tx)
}

// deleteTransaction removes an expense by ID.
func (s *server) deleteTransaction(c *gin.Context) {
	if err := s.finance.DeleteTransaction(c.Request.Context(), c.Param("id")); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Transaction deleted"})
}

// getFinanceInsights runs the finance agent's spending analysis.
func (s *server) getFinanceInsights(c *gin.Context) {
	insights, err := s.finance.Insights(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, insights)
}
