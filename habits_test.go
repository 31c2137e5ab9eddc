package main

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestHabitService(t *testing.T) *habitService {
	t.Helper()
	return newHabitService(newTestRedis(t), time.UTC, 0, newTestLogger())
}

func completedHabit(streak int, last time.Time) Habit {
	ts := last.UnixMilli()
	return Habit{
		ID:            "h1",
		Title:         "Meditation (15m)",
		Streak:        streak,
		LastCompleted: &ts,
		History:       []int64{ts},
	}
}

func TestAddHabitStartsAtZero(t *testing.T) {
	svc := newTestHabitService(t)
	ctx := context.Background()

	habit, err := svc.AddHabit(ctx, "Read (30m)")
	require.NoError(t, err)

	assert.NotEmpty(t, habit.ID)
	assert.Equal(t, 0, habit.Streak)
	assert.Empty(t, habit.History)
	assert.Nil(t, habit.LastCompleted)

	habits := svc.Habits(ctx)
	require.Len(t, habits, 1)
	assert.Equal(t, habit.ID, habits[0].ID)
}

func TestFirstCompletionStartsStreak(t *testing.T) {
	now := time.Date(2025, 3, 10, 14, 0, 0, 0, time.UTC)
	habit := Habit{ID: "h1", Title: "Read"}

	got := completeHabit(habit, now, time.UTC)

	assert.Equal(t, 1, got.Streak)
	require.NotNil(t, got.LastCompleted)
	assert.Equal(t, now.UnixMilli(), *got.LastCompleted)
	assert.Equal(t, []int64{now.UnixMilli()}, got.History)
	assert.Contains(t, got.ProofTag, "proof-habit-")
}

func TestSameDayCompletionIsNoop(t *testing.T) {
	morning := time.Date(2025, 3, 10, 8, 0, 0, 0, time.UTC)
	evening := time.Date(2025, 3, 10, 22, 30, 0, 0, time.UTC)
	habit := completedHabit(3, morning)

	got := completeHabit(habit, evening, time.UTC)

	assert.Equal(t, 3, got.Streak)
	assert.Equal(t, morning.UnixMilli(), *got.LastCompleted)
	assert.Len(t, got.History, 1)
}

func TestNextDayCompletionExtendsStreak(t *testing.T) {
	yesterday := time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)
	today := time.Date(2025, 3, 11, 9, 0, 0, 0, time.UTC)
	habit := completedHabit(3, yesterday)

	got := completeHabit(habit, today, time.UTC)

	assert.Equal(t, 4, got.Streak)
	assert.Len(t, got.History, 2)
}

// The rule compares calendar days, not elapsed hours: completing late one
// evening and early two mornings later crosses only one midnight and must
// still extend the streak even though more than 24 hours passed.
func TestCalendarDayRuleNotElapsedHours(t *testing.T) {
	lateNight := time.Date(2025, 3, 10, 23, 30, 0, 0, time.UTC)
	nextEvening := time.Date(2025, 3, 11, 23, 45, 0, 0, time.UTC) // 24h15m later, one midnight crossed
	habit := completedHabit(5, lateNight)

	got := completeHabit(habit, nextEvening, time.UTC)
	assert.Equal(t, 6, got.Streak)

	// 46h59m later but still only one midnight crossed
	earlyMorning := time.Date(2025, 3, 10, 1, 0, 0, 0, time.UTC)
	almostTwoDays := time.Date(2025, 3, 11, 23, 59, 0, 0, time.UTC)
	habit = completedHabit(5, earlyMorning)

	got = completeHabit(habit, almostTwoDays, time.UTC)
	assert.Equal(t, 6, got.Streak)
}

func TestGapResetsStreak(t *testing.T) {
	monday := time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)
	thursday := time.Date(2025, 3, 13, 9, 0, 0, 0, time.UTC)
	habit := completedHabit(7, monday)

	got := completeHabit(habit, thursday, time.UTC)
	assert.Equal(t, 1, got.Streak)
}

// Two midnights crossed in barely over 24 hours must reset: the previous
// completion was two calendar days ago.
func TestTwoMidnightsCrossedResets(t *testing.T) {
	justBeforeMidnight := time.Date(2025, 3, 10, 23, 59, 0, 0, time.UTC)
	justAfterNextMidnight := time.Date(2025, 3, 12, 0, 1, 0, 0, time.UTC) // 24h2m later
	habit := completedHabit(7, justBeforeMidnight)

	got := completeHabit(habit, justAfterNextMidnight, time.UTC)
	assert.Equal(t, 1, got.Streak)
}

func TestToggleHabitPersists(t *testing.T) {
	svc := newTestHabitService(t)
	ctx := context.Background()

	habit, err := svc.AddHabit(ctx, "Hydration (2L)")
	require.NoError(t, err)

	toggled, err := svc.ToggleHabit(ctx, habit.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, toggled.Streak)

	// same calendar day: idempotent
	again, err := svc.ToggleHabit(ctx, habit.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, again.Streak)
	assert.Len(t, again.History, 1)

	habits := svc.Habits(ctx)
	require.Len(t, habits, 1)
	assert.Equal(t, 1, habits[0].Streak)
}

func TestToggleUnknownHabit(t *testing.T) {
	svc := newTestHabitService(t)

	_, err := svc.ToggleHabit(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestGenerateHabitsSkipsExisting(t *testing.T) {
	svc := newTestHabitService(t)
	ctx := context.Background()

	_, err := svc.AddHabit(ctx, "meditation (15m)") // lowercase on purpose
	require.NoError(t, err)

	added, err := svc.GenerateHabits(ctx)
	require.NoError(t, err)
	assert.Equal(t, len(essentialHabits)-1, added)

	// second run adds nothing
	added, err = svc.GenerateHabits(ctx)
	require.NoError(t, err)
	assert.Zero(t, added)
}

func TestHabitInsights(t *testing.T) {
	svc := newTestHabitService(t)
	ctx := context.Background()

	insights := svc.Insights(ctx)
	require.Len(t, insights, 1)
	assert.Equal(t, "Suggestion", insights[0].Type)

	habit, err := svc.AddHabit(ctx, "Read (30m)")
	require.NoError(t, err)
	_, err = svc.ToggleHabit(ctx, habit.ID)
	require.NoError(t, err)

	insights = svc.Insights(ctx)
	require.NotEmpty(t, insights)
	assert.Equal(t, "Motivation", insights[0].Type)
}
