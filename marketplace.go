package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
)

// defaultContributor identifies the single local user in the
// contributions table.
const defaultContributor = "local-user"

// marketService owns the data marketplace: research studies users can
// contribute anonymized data to in exchange for a reward credited to the
// wallet ledger. The contribution check stands in for a real eligibility
// proof; the privacy guarantee is simulated.
type marketService struct {
	db     *sql.DB
	wallet *walletService
}

func newMarketService(db *sql.DB, wallet *walletService) *marketService {
	return &marketService{db: db, wallet: wallet}
}

// Bounties returns all open studies.
func (m *marketService) Bounties(ctx context.Context) ([]Bounty, error) {
	rows, err := m.db.QueryContext(ctx, `
		SELECT id, title, reward, criteria, participants
		FROM bounties
		ORDER BY id
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	// ensure empty array ([]) instead of null when no rows
	bounties := make([]Bounty, 0)

	for rows.Next() {
		var b Bounty
		if err := rows.Scan(&b.ID, &b.Title, &b.Reward, &b.Criteria, &b.Participants); err != nil {
			return nil, err
		}
		bounties = append(bounties, b)
	}
	return bounties, rows.Err()
}

type contributionResult struct {
	BountyID string  `json:"bountyId"`
	Reward   float64 `json:"reward"`
	ProofTag string  `json:"proofTag"`
}

// Contribute records an anonymized contribution to a study. Each
// contributor may join a study once; the reward is credited to the wallet
// ledger as a Reward entry.
func (m *marketService) Contribute(ctx context.Context, bountyID, contributor string) (contributionResult, error) {
	tx, err := m.db.BeginTx(ctx, nil)
	if err != nil {
		return contributionResult{}, err
	}
	defer func() {
		_ = tx.Rollback()
	}()

	var title string
	var reward float64
	err = tx.QueryRowContext(ctx, `
		SELECT title, reward FROM bounties WHERE id = $1 FOR UPDATE
	`, bountyID).Scan(&title, &reward)
	if errors.Is(err, sql.ErrNoRows) {
		return contributionResult{}, ErrBountyNotFound
	}
	if err != nil {
		return contributionResult{}, err
	}

	tag := proofTag("dao", bountyID, contributor)
	res, err := tx.ExecContext(ctx, `
		INSERT INTO contributions (bounty_id, contributor, reward, proof_tag)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (bounty_id, contributor) DO NOTHING
	`, bountyID, contributor, reward, tag)
	if err != nil {
		return contributionResult{}, err
	}
	if affected, _ := res.RowsAffected(); affected == 0 {
		return contributionResult{}, ErrAlreadyContributed
	}

	if _, err := tx.ExecContext(ctx, `
		UPDATE bounties SET participants = participants + 1 WHERE id = $1
	`, bountyID); err != nil {
		return contributionResult{}, err
	}

	if err := tx.Commit(); err != nil {
		return contributionResult{}, err
	}

	if _, err := m.wallet.CreditReward(ctx, reward, fmt.Sprintf("Study reward: %s", title)); err != nil {
		return contributionResult{}, err
	}

	return contributionResult{BountyID: bountyID, Reward: reward, ProofTag: tag}, nil
}

// TotalDistributed sums every reward paid out so far.
func (m *marketService) TotalDistributed(ctx context.Context) (float64, error) {
	var total float64
	err := m.db.QueryRowContext(ctx, `
		SELECT COALESCE(SUM(reward), 0) FROM contributions
	`).Scan(&total)
	return total, err
}

// getBounties lists the open research studies.
func (s *server) getBounties(c *gin.Context) {
	bounties, err := s.market.Bounties(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	total, err := s.market.TotalDistributed(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"bounties": bounties, "totalDistributed": total})
}

type contributeRequest struct {
	Contributor string `json:"contributor"`
}

// contributeToBounty records a contribution to a study.
func (s *server) contributeToBounty(c *gin.Context) {
	var req contributeRequest
	// body is optional; an absent or malformed one means the local user
	_ = c.ShouldBindJSON(&req)
	if req.Contributor == "" {
		req.Contributor = defaultContributor
	}

	result, err := s.market.Contribute(c.Request.Context(), c.Param("id"), req.Contributor)
	if err != nil {
		switch {
		case errors.Is(err, ErrAlreadyContributed):
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		case errors.Is(err, ErrBountyNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		}
		return
	}
	c.JSON(http.StatusCreated, result)
}
