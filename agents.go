package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// agentConfig describes a registered analysis agent and its per-use fee.
type agentConfig struct {
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Fee         float64 `json:"fee"`
	Version     string  `json:"version"`
}

// agentIdentity is the registered identity of an agent on the payment
// network. Registration is simulated: the DID is fabricated locally.
type agentIdentity struct {
	DID    string      `json:"did"`
	Config agentConfig `json:"config"`
	Status string      `json:"status"`
}

// agentRegistry registers agents and charges their fees to the wallet
// ledger before running their analysis.
type agentRegistry struct {
	wallet *walletService
}

func newAgentRegistry(wallet *walletService) *agentRegistry {
	return &agentRegistry{wallet: wallet}
}

// Register fabricates an active identity for an agent.
func (r *agentRegistry) Register(cfg agentConfig) agentIdentity {
	slug := strings.ReplaceAll(strings.ToLower(cfg.Name), " ", "-")
	return agentIdentity{
		DID:    fmt.Sprintf("did:agent:%s-%.8s", slug, uuid.NewString()),
		Config: cfg,
		Status: "Active",
	}
}

// runAgentTask pays the agent's fee and then runs the task, returning the
// result together with the fee transaction hash. The fee is not rolled
// back when the task fails.
func runAgentTask[T any](ctx context.Context, r *agentRegistry, agent agentIdentity, task func() (T, error)) (T, string, error) {
	var zero T

	tx, err := r.wallet.PayFee(ctx, agent.Config.Fee, fmt.Sprintf("Agent fee: %s", agent.DID))
	if err != nil {
		return zero, "", fmt.Errorf("agent payment failed: %w", err)
	}

	result, err := task()
	if err != nil {
		return zero, tx.Hash, err
	}
	return result, tx.Hash, nil
}
