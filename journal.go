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

// journalService owns the private journal collection. Every entry is
// scored for sentiment by the mood agent, which charges its fee to the
// wallet ledger before the analysis runs.
type journalService struct {
	store   *recordStore[JournalEntry]
	agents  *agentRegistry
	moodSvc agentIdentity
}

func newJournalService(rdb *redis.Client, agents *agentRegistry, maxBytes int, logger *slog.Logger) *journalService {
	store := newRecordStore[JournalEntry](rdb, "nebula:journal", maxBytes, logger)
	store.shrink = func(e JournalEntry) (JournalEntry, bool) {
		if e.ImageData == "" {
			return e, false
		}
		e.ImageData = ""
		return e, true
	}

	return &journalService{
		store:  store,
		agents: agents,
		moodSvc: agents.Register(agentConfig{
			Name:        "Nebula Mood Agent",
			Description: "Sentiment analysis for wellness journals",
			Fee:         0.1,
			Version:     "1.0.0",
		}),
	}
}

// Entries returns all journal entries, newest-first.
func (j *journalService) Entries(ctx context.Context) []JournalEntry {
	return j.store.List(ctx)
}

type moodResult struct {
	Score int
	Label string
}

// AddEntry scores the content, builds the entry and persists it. An entry
// whose image pushes the collection over the storage quota is retried
// without the image.
func (j *journalService) AddEntry(ctx context.Context, content, imageData string) (JournalEntry, error) {
	mood, txHash, err := runAgentTask(ctx, j.agents, j.moodSvc, func() (moodResult, error) {
		score := sentimentScore(content)
		return moodResult{Score: score, Label: moodLabel(score)}, nil
	})
	if err != nil {
		return JournalEntry{}, err
	}

	entry := JournalEntry{
		ID:        uuid.NewString(),
		Content:   content,
		Timestamp: time.Now().UnixMilli(),
		MoodScore: mood.Score,
		MoodLabel: mood.Label,
		ImageData: imageData,
		ProofTag:  proofTag("journal", content, fmt.Sprint(mood.Score)),
		AgentTxID: txHash,
	}
	return j.store.Add(ctx, entry)
}

// DeleteEntry removes an entry by id.
func (j *journalService) DeleteEntry(ctx context.Context, id string) error {
	return j.store.Delete(ctx, id)
}

// getJournal returns all journal entries.
func (s *server) getJournal(c *gin.Context) {
	c.JSON(http.StatusOK, s.journal.Entries(c.Request.Context()))
}

type addJournalRequest struct {
	Content   string `json:"content" binding:"required"`
	ImageData string `json:"imageData"`
}

// addJournalEntry creates a new journal entry.
func (s *server) addJournalEntry(c *gin.Context) {
	var req addJournalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	entry, err := s.journal.AddEntry(c.Request.Context(), req.Content, req.ImageData)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, entry)
}

// deleteJournalEntry removes a journal entry by ID.
func (s *server) deleteJournalEntry(c *gin.Context) {
	if err := s.journal.DeleteEntry(c.Request.Context(), c.Param("id")); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Entry deleted"})
}
