package main

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
)

// healthCheck handles the health check endpoint
func (s *server) healthCheck(c *gin.Context) {
	if err := s.db.Ping(); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"status": "unhealthy",
			"error":  err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"service": "nebula-backend",
	})
}

// analyzeMood triggers a webcam mood scan on the analysis backend. The
// scan needs real hardware, so there is no local fallback; failures are
// reported as recoverable errors for the client to toast.
func (s *server) analyzeMood(c *gin.Context) {
	scan, err := s.analysis.AnalyzeMood(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, scan)
}

// getMeme fetches a meme for an emotion, falling back to the canned list.
func (s *server) getMeme(c *gin.Context) {
	emotion := c.DefaultQuery("emotion", "neutral")
	memeURL, err := s.analysis.Meme(c.Request.Context(), emotion)
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"emotion": emotion, "meme_url": memeURL})
}

// transcribeAudio forwards a voice recording to the analysis backend and
// returns the transcription for the journal composer.
func (s *server) transcribeAudio(c *gin.Context) {
	file, header, err := c.Request.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "audio file is required"})
		return
	}
	defer func() {
		_ = file.Close()
	}()

	text, err := s.analysis.Transcribe(c.Request.Context(), header.Filename, file)
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"transcription": text})
}

// getLifeInsight correlates journal, finance and habit data. When the
// analysis backend is down the response is synthesized locally so the
// page always has something to show.
func (s *server) getLifeInsight(c *gin.Context) {
	ctx := c.Request.Context()
	data := lifeData{
		JournalEntries: s.journal.Entries(ctx),
		FinanceData:    s.finance.Transactions(ctx),
		HabitData:      s.habits.Habits(ctx),
	}

	analysis, err := s.analysis.AnalyzeLife(ctx, data)
	if err != nil {
		s.logger.Warn("life analysis unavailable, using local synthesis")
		c.JSON(http.StatusOK, gin.H{"analysis": localLifeInsights(data), "simulated": true})
		return
	}
	c.JSON(http.StatusOK, gin.H{"analysis": analysis})
}

// localLifeInsights fabricates a plausible cross-domain summary from the
// raw collections when no analysis backend is reachable.
func localLifeInsights(data lifeData) lifeAnalysis {
	moodTotal := 0
	for _, e := range data.JournalEntries {
		moodTotal += e.MoodScore
	}

	totalSpent := 0.0
	for _, t := range data.FinanceData {
		totalSpent += t.Amount
	}

	bestStreak := 0
	bestHabit := ""
	for _, h := range data.HabitData {
		if h.Streak > bestStreak {
			bestStreak = h.Streak
			bestHabit = h.Title
		}
	}

	insights := []string{
		fmt.Sprintf("You logged %d journal entries with an overall mood score of %d.", len(data.JournalEntries), moodTotal),
		fmt.Sprintf("You tracked $%.2f of spending across %d transactions.", totalSpent, len(data.FinanceData)),
	}
	if bestHabit != "" {
		insights = append(insights, fmt.Sprintf("Your strongest habit is %q with a %d-day streak.", bestHabit, bestStreak))
	} else {
		insights = append(insights, "No habit streaks yet. A small daily habit is the easiest place to start.")
	}

	return lifeAnalysis{
		Insights:       insights,
		Recommendation: "Keep journaling daily so the correlations have enough data to surface.",
	}
}
