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

const distressThreshold = 80

// echoService owns the anonymous distress feed. Posting requires a stress
// level above the threshold; the check stands in for a zero-knowledge
// predicate over private wellness data. Only the generic public signal
// is shown to everyone, the encrypted payload is stored verbatim.
type echoService struct {
	rdb    *redis.Client
	key    string
	logger *slog.Logger
	mu     sync.Mutex
}

func newEchoService(rdb *redis.Client, logger *slog.Logger) *echoService {
	return &echoService{rdb: rdb, key: "nebula:echo", logger: logger}
}

// Feed returns the feed state, empty when uninitialized or unreadable.
func (e *echoService) Feed(ctx context.Context) EchoFeed {
	empty := EchoFeed{Messages: []GhostMessage{}, TotalVibes: 0}

	data, err := e.rdb.Get(ctx, e.key).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			e.logger.Warn("echo feed read failed", slog.Any("error", err))
		}
		return empty
	}

	var feed EchoFeed
	if err := json.Unmarshal(data, &feed); err != nil {
		e.logger.Warn("echo feed corrupt, treating as empty", slog.Any("error", err))
		return empty
	}
	if feed.Messages == nil {
		feed.Messages = []GhostMessage{}
	}
	return feed
}

func (e *echoService) save(ctx context.Context, feed EchoFeed) error {
	data, err := json.Marshal(feed)
	if err != nil {
		return fmt.Errorf("marshaling echo feed: %w", err)
	}
	if err := e.rdb.Set(ctx, e.key, data, 0).Err(); err != nil {
		return fmt.Errorf("persisting echo feed: %w", err)
	}
	return nil
}

// Post publishes an anonymous distress signal.
func (e *echoService) Post(ctx context.Context, encryptedContent string, stressLevel int) (GhostMessage, error) {
	if stressLevel < distressThreshold {
		return GhostMessage{}, ErrStressTooLow
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	msg := GhostMessage{
		ID:               fmt.Sprintf("ghost-%.6s", uuid.NewString()),
		Timestamp:        time.Now().UnixMilli(),
		Content:          "A Verified Human is feeling overwhelmed.",
		EncryptedContent: encryptedContent,
		Vibes:            0,
		Tags:             []string{"High Stress", "Verified Human"},
	}

	feed := e.Feed(ctx)
	feed.Messages = append([]GhostMessage{msg}, feed.Messages...)
	if err := e.save(ctx, feed); err != nil {
		return GhostMessage{}, err
	}
	return msg, nil
}

// SendVibes sends anonymous support to a message.
func (e *echoService) SendVibes(ctx context.Context, messageID string) (EchoFeed, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	feed := e.Feed(ctx)
	found := false
	for i := range feed.Messages {
		if feed.Messages[i].ID == messageID {
			feed.Messages[i].Vibes++
			found = true
			break
		}
	}
	if !found {
		return EchoFeed{}, ErrNotFound
	}

	feed.TotalVibes++
	if err := e.save(ctx, feed); err != nil {
		return EchoFeed{}, err
	}
	return feed, nil
}

// getEchoFeed returns the anonymous feed.
func (s *server) getEchoFeed(c *gin.Context) {
	c.JSON(http.StatusOK, s.echo.Feed(c.Request.Context()))
}

type postEchoRequest struct {
	EncryptedContent string `json:"encryptedContent" binding:"required"`
	StressLevel      int    `json:"stressLevel"`
}

// postEchoMessage publishes an anonymous distress signal.
func (s *server) postEchoMessage(c *gin.Context) {
	var req postEchoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	msg, err := s.echo.Post(c.Request.Context(), req.EncryptedContent, req.StressLevel)
	if err != nil {
		if errors.Is(err, ErrStressTooLow) {
			c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, msg)
}

// sendVibes sends support to a feed message.
func (s *server) sendVibes(c *gin.Context) {
	feed, err := s.echo.SendVibes(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, feed)
}
