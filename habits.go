package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const activeHabitWindow = 48 * time.Hour

// essentialHabits is the curated starter set offered by the habit agent.
var essentialHabits = []string{
	"Deep Work (2h)",
	"Hydration (2L)",
	"Meditation (15m)",
	"Sleep (8h)",
	"Read (30m)",
}

// habitService owns the habit collection and its streak bookkeeping.
type habitService struct {
	store *recordStore[Habit]
	loc   *time.Location
}

func newHabitService(rdb *redis.Client, loc *time.Location, maxBytes int, logger *slog.Logger) *habitService {
	return &habitService{
		store: newRecordStore[Habit](rdb, "nebula:habits", maxBytes, logger),
		loc:   loc,
	}
}

// Habits returns all habits, newest-first.
func (h *habitService) Habits(ctx context.Context) []Habit {
	return h.store.List(ctx)
}

// AddHabit creates a habit with no completions yet.
func (h *habitService) AddHabit(ctx context.Context, title string) (Habit, error) {
	habit := Habit{
		ID:       uuid.NewString(),
		Title:    title,
		Streak:   0,
		History:  []int64{},
		ProofTag: "pending-init",
	}
	return h.store.Add(ctx, habit)
}

// GenerateHabits adds the curated starter habits that are not already
// present, comparing titles case-insensitively. Returns how many were
// added.
func (h *habitService) GenerateHabits(ctx context.Context) (int, error) {
	existing := make(map[string]bool)
	for _, habit := range h.Habits(ctx) {
		existing[strings.ToLower(habit.Title)] = true
	}

	added := 0
	for _, title := range essentialHabits {
		if existing[strings.ToLower(title)] {
			continue
		}
		if _, err := h.AddHabit(ctx, title); err != nil {
			return added, err
		}
		added++
	}
	return added, nil
}

// ToggleHabit marks a habit complete for today and updates its streak.
func (h *habitService) ToggleHabit(ctx context.Context, id string) (Habit, error) {
	return h.store.Update(ctx, id, func(habit Habit) (Habit, error) {
		return completeHabit(habit, time.Now(), h.loc), nil
	})
}

// DeleteHabit removes a habit by id.
func (h *habitService) DeleteHabit(ctx context.Context, id string) error {
	return h.store.Delete(ctx, id)
}

// dayStart aligns an instant to local midnight.
func dayStart(t time.Time, loc *time.Location) time.Time {
	t = t.In(loc)
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, loc)
}

// completeHabit applies one completion at the given instant. The streak
// rule compares calendar days, never elapsed duration: a completion on the
// previous calendar day continues the streak no matter how many hours
// passed, a same-day repeat is a no-op, and anything older resets to 1.
func completeHabit(habit Habit, now time.Time, loc *time.Location) Habit {
	today := dayStart(now, loc)

	if habit.LastCompleted != nil {
		last := dayStart(time.UnixMilli(*habit.LastCompleted), loc)
		if last.Equal(today) {
			// Already completed today; toggling off is not supported.
			return habit
		}
		if last.AddDate(0, 0, 1).Equal(today) {
			habit.Streak++
		} else {
			habit.Streak = 1
		}
	} else {
		habit.Streak = 1
	}

	ts := now.UnixMilli()
	habit.LastCompleted = &ts
	habit.History = append(habit.History, ts)
	habit.ProofTag = proofTag("habit", habit.ID, fmt.Sprint(habit.Streak))
	return habit
}

// Insights derives motivational observations from the habit collection.
func (h *habitService) Insights(ctx context.Context) []Insight {
	habits := h.Habits(ctx)
	insights := []Insight{}

	if len(habits) == 0 {
		insights = append(insights, Insight{
			Type:    "Suggestion",
			Message: "Start small! Add your first habit to begin your journey.",
		})
		return insights
	}

	active := 0
	cutoff := time.Now().Add(-activeHabitWindow).UnixMilli()
	for _, habit := range habits {
		if habit.LastCompleted != nil && *habit.LastCompleted > cutoff {
			active++
		}
	}
	if active == len(habits) {
		insights = append(insights, Insight{
			Type:    "Motivation",
			Message: "You're on fire! All habits are active.",
		})
	}

	for _, habit := range habits {
		if habit.Streak > 5 {
			insights = append(insights, Insight{
				Type:    "Streak",
				Message: fmt.Sprintf("Impressive streak on %q! Keep it up.", habit.Title),
			})
			break
		}
	}
	return insights
}

// getHabits retrieves all habits.
func (s *server) getHabits(c *gin.Context) {
	c.JSON(http.StatusOK, s.habits.Habits(c.Request.Context()))
}

type addHabitRequest struct {
	Title string `json:"title" binding:"required"`
}

// addHabit creates a new habit.
func (s *server) addHabit(c *gin.Context) {
	var req addHabitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	habit, err := s.habits.AddHabit(c.Request.Context(), req.Title)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, habit)
}

// generateHabits seeds the curated starter habits.
func (s *server) generateHabits(c *gin.Context) {
	added, err := s.habits.GenerateHabits(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"added": added})
}

// toggleHabit marks a habit complete for today.
func (s *server) toggleHabit(c *gin.Context) {
	habit, err := s.habits.ToggleHabit(c.Request.Context(), c.Param("id"))
	if err != nil {
		status := http.StatusInternalServerError
		if err == ErrNotFound {
			status = http.StatusNotFound
		}
		c.JSON(status, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, habit)
}

// deleteHabit removes a habit by ID.
func (s *server) deleteHabit(c *gin.Context) {
	if err := s.habits.DeleteHabit(c.Request.Context(), c.Param("id")); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Habit deleted"})
}

// getHabitInsights derives motivational insights from habits.
func (s *server) getHabitInsights(c *gin.Context) {
	c.JSON(http.StatusOK, s.habits.Insights(c.Request.Context()))
}
