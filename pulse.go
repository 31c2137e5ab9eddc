package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

const (
	defaultSleepHours = 7.5
	assumedIncome     = 2000
)

// pulseService owns the wellness avatar: a soul that levels up from
// cross-domain wellness signals. The aggregation is what a real system
// would run inside a private circuit; here it reads the other stores
// directly.
type pulseService struct {
	rdb      *redis.Client
	soulKey  string
	sleepKey string
	habits   *habitService
	finance  *financeService
	logger   *slog.Logger
	mu       sync.Mutex
}

func newPulseService(rdb *redis.Client, habits *habitService, finance *financeService, logger *slog.Logger) *pulseService {
	return &pulseService{
		rdb:      rdb,
		soulKey:  "nebula:pulse:soul",
		sleepKey: "nebula:pulse:sleep",
		habits:   habits,
		finance:  finance,
		logger:   logger,
	}
}

func newSoul() SoulState {
	return SoulState{
		Level:      1,
		XP:         0,
		Traits:     []string{"Basic Soul"},
		Aura:       "Neutral",
		LastUpdate: time.Now().UnixMilli(),
	}
}

// Soul returns the current avatar state, freshly initialized when absent
// or unreadable.
func (p *pulseService) Soul(ctx context.Context) SoulState {
	data, err := p.rdb.Get(ctx, p.soulKey).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			p.logger.Warn("soul state read failed", slog.Any("error", err))
		}
		return newSoul()
	}

	var soul SoulState
	if err := json.Unmarshal(data, &soul); err != nil {
		p.logger.Warn("soul state corrupt, reinitializing", slog.Any("error", err))
		return newSoul()
	}
	return soul
}

func (p *pulseService) save(ctx context.Context, soul SoulState) error {
	data, err := json.Marshal(soul)
	if err != nil {
		return fmt.Errorf("marshaling soul state: %w", err)
	}
	if err := p.rdb.Set(ctx, p.soulKey, data, 0).Err(); err != nil {
		return fmt.Errorf("persisting soul state: %w", err)
	}
	return nil
}

// Wellness aggregates the signals the evolution runs on: the longest
// meditation streak, savings against an assumed monthly income, and the
// (override-able) sleep hours.
func (p *pulseService) Wellness(ctx context.Context) WellnessStats {
	meditation := 0
	for _, habit := range p.habits.Habits(ctx) {
		if strings.Contains(strings.ToLower(habit.Title), "meditat") {
			meditation = habit.Streak
			break
		}
	}

	totalSpent := 0.0
	for _, tx := range p.finance.Transactions(ctx) {
		totalSpent += tx.Amount
	}

	sleep := defaultSleepHours
	if raw, err := p.rdb.Get(ctx, p.sleepKey).Result(); err == nil {
		if parsed, err := strconv.ParseFloat(raw, 64); err == nil {
			sleep = parsed
		}
	}

	return WellnessStats{
		Sleep:      sleep,
		Meditation: meditation,
		Savings:    assumedIncome - totalSpent,
	}
}

// SetSleep stores a sleep-hours override for demos.
func (p *pulseService) SetSleep(ctx context.Context, hours float64) error {
	return p.rdb.Set(ctx, p.sleepKey, strconv.FormatFloat(hours, 'f', -1, 64), 0).Err()
}

// Evolve applies the wellness stats to the soul and persists the result.
func (p *pulseService) Evolve(ctx context.Context) (SoulState, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	stats := p.Wellness(ctx)
	soul := applyWellness(p.Soul(ctx), stats)

	if err := p.save(ctx, soul); err != nil {
		return SoulState{}, err
	}
	return soul, nil
}

// applyWellness computes the next avatar state from wellness stats. Sleep
// deprivation overrides any aura earned in the same evolution.
func applyWellness(soul SoulState, stats WellnessStats) SoulState {
	xpGain := 10

	if stats.Meditation > 5 {
		soul.Aura = "Zen"
		soul.Traits = addTrait(soul.Traits, "Mindful Halo")
		xpGain += 50
	}
	if stats.Savings > 100 {
		soul.Traits = addTrait(soul.Traits, "Gold Armor")
		xpGain += 50
	}
	if stats.Sleep < 6 {
		soul.Aura = "Tired"
	}

	soul.Level += (soul.XP + xpGain) / 100
	soul.XP = (soul.XP + xpGain) % 100
	soul.LastUpdate = time.Now().UnixMilli()
	return soul
}

func addTrait(traits []string, trait string) []string {
	for _, t := range traits {
		if t == trait {
			return traits
		}
	}
	return append(traits, trait)
}

// getSoul returns the wellness avatar state.
func (s *server) getSoul(c *gin.Context) {
	c.JSON(http.StatusOK, s.pulse.Soul(c.Request.Context()))
}

// evolveSoul evolves the avatar from current wellness stats.
func (s *server) evolveSoul(c *gin.Context) {
	soul, err := s.pulse.Evolve(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"soul": soul, "stats": s.pulse.Wellness(c.Request.Context())})
}

type setSleepRequest struct {
	Hours float64 `json:"hours" binding:"required,gt=0"`
}

// setSleep stores the demo sleep override.
func (s *server) setSleep(c *gin.Context) {
	var req setSleepRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := s.pulse.SetSleep(c.Request.Context(), req.Hours); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"hours": req.Hours})
}
