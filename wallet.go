package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const (
	ledgerFee      = "Fee"
	ledgerDeposit  = "Deposit"
	ledgerReward   = "Reward"
	ledgerTransfer = "Transfer"
)

// walletService owns the simulated wallet ledger: a single cached state of
// balance, transaction history and address. Fees are recorded as negative
// entries but never subtracted from the balance, since the simulation has
// no authority to spend real funds.
type walletService struct {
	rdb    *redis.Client
	key    string
	logger *slog.Logger
	mu     sync.Mutex
}

func newWalletService(rdb *redis.Client, logger *slog.Logger) *walletService {
	return &walletService{rdb: rdb, key: "nebula:wallet", logger: logger}
}

// State returns the cached wallet state, empty when uninitialized or
// unreadable.
func (w *walletService) State(ctx context.Context) WalletState {
	empty := WalletState{Balance: 0, Transactions: []LedgerEntry{}, Address: ""}

	data, err := w.rdb.Get(ctx, w.key).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			w.logger.Warn("wallet state read failed", slog.Any("error", err))
		}
		return empty
	}

	var state WalletState
	if err := json.Unmarshal(data, &state); err != nil {
		w.logger.Warn("wallet state corrupt, treating as empty", slog.Any("error", err))
		return empty
	}
	if state.Transactions == nil {
		state.Transactions = []LedgerEntry{}
	}
	return state
}

func (w *walletService) save(ctx context.Context, state WalletState) error {
	data, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("marshaling wallet state: %w", err)
	}
	if err := w.rdb.Set(ctx, w.key, data, 0).Err(); err != nil {
		return fmt.Errorf("persisting wallet state: %w", err)
	}
	return nil
}

// PayFee records a debit entry. It always succeeds regardless of the
// current balance: the demo flow must never block on insufficient funds,
// and the balance is left untouched because the fee is only simulated.
func (w *walletService) PayFee(ctx context.Context, amount float64, description string) (LedgerEntry, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	state := w.State(ctx)
	entry := LedgerEntry{
		ID:          uuid.NewString(),
		Type:        ledgerFee,
		Amount:      -amount,
		Description: description,
		Timestamp:   time.Now().UnixMilli(),
		Hash:        syntheticTxHash(),
	}
	state.Transactions = append([]LedgerEntry{entry}, state.Transactions...)
	if err := w.save(ctx, state); err != nil {
		return LedgerEntry{}, err
	}
	return entry, nil
}

// Deposit records a credit entry and increases the cached balance.
func (w *walletService) Deposit(ctx context.Context, amount float64) (LedgerEntry, error) {
	return w.credit(ctx, ledgerDeposit, amount, "Simulated top-up")
}

// CreditReward records a study reward payout and increases the balance.
func (w *walletService) CreditReward(ctx context.Context, amount float64, description string) (LedgerEntry, error) {
	return w.credit(ctx, ledgerReward, amount, description)
}

func (w *walletService) credit(ctx context.Context, entryType string, amount float64, description string) (LedgerEntry, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	state := w.State(ctx)
	entry := LedgerEntry{
		ID:          uuid.NewString(),
		Type:        entryType,
		Amount:      amount,
		Description: description,
		Timestamp:   time.Now().UnixMilli(),
		Hash:        syntheticTxHash(),
	}
	state.Transactions = append([]LedgerEntry{entry}, state.Transactions...)
	state.Balance += amount
	if err := w.save(ctx, state); err != nil {
		return LedgerEntry{}, err
	}
	return entry, nil
}

// SyncBalance overwrites the cached balance with the on-chain value.
func (w *walletService) SyncBalance(ctx context.Context, address string, balance float64) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	state := w.State(ctx)
	state.Balance = balance
	state.Address = address
	return w.save(ctx, state)
}

// SyncTransactions overwrites the cached history with on-chain entries.
func (w *walletService) SyncTransactions(ctx context.Context, address string, entries []LedgerEntry) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	state := w.State(ctx)
	state.Transactions = entries
	state.Address = address
	return w.save(ctx, state)
}

// getWallet returns the cached wallet state.
func (s *server) getWallet(c *gin.Context) {
	c.JSON(http.StatusOK, s.wallet.State(c.Request.Context()))
}

type depositRequest struct {
	Amount float64 `json:"amount" binding:"required,gt=0"`
}

// depositFunds credits the simulated wallet.
func (s *server) depositFunds(c *gin.Context) {
	var req depositRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	entry, err := s.wallet.Deposit(c.Request.Context(), req.Amount)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, entry)
}

type feeRequest struct {
	Amount      float64 `json:"amount" binding:"required,gt=0"`
	Description string  `json:"description" binding:"required"`
}

// payFee records a simulated fee payment.
func (s *server) payFee(c *gin.Context) {
	var req feeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	entry, err := s.wallet.PayFee(c.Request.Context(), req.Amount, req.Description)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, entry)
}

// getChainBalance looks up an address balance on the block explorer and
// refreshes the cached wallet state with the result.
func (s *server) getChainBalance(c *gin.Context) {
	address := c.Param("address")
	ctx := c.Request.Context()

	balance, err := s.explorer.Balance(ctx, address)
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
		return
	}
	if err := s.wallet.SyncBalance(ctx, address, balance); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"address": address, "balance": balance})
}

// getChainTransactions looks up recent transactions for an address and
// refreshes the cached wallet history.
func (s *server) getChainTransactions(c *gin.Context) {
	address := c.Param("address")
	ctx := c.Request.Context()

	entries, err := s.explorer.Transactions(ctx, address)
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
		return
	}
	if err := s.wallet.SyncTransactions(ctx, address, entries); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, entries)
}
