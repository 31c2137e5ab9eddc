package main

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestJournalService(t *testing.T, maxBytes int) (*journalService, *walletService) {
	t.Helper()
	rdb := newTestRedis(t)
	wallet := newWalletService(rdb, newTestLogger())
	agents := newAgentRegistry(wallet)
	return newJournalService(rdb, agents, maxBytes, newTestLogger()), wallet
}

func TestMoodLabelFollowsScoreSign(t *testing.T) {
	tests := []struct {
		score int
		label string
	}{
		{3, moodPositive},
		{1, moodPositive},
		{0, moodNeutral},
		{-1, moodNegative},
		{-4, moodNegative},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.label, moodLabel(tt.score))
	}
}

func TestSentimentScoreSigns(t *testing.T) {
	assert.Positive(t, sentimentScore("What a great and happy day, I love it"))
	assert.Negative(t, sentimentScore("Terrible day, stressed and exhausted."))
	assert.Zero(t, sentimentScore("The meeting is at noon"))
}

func TestAddEntryLabelsMood(t *testing.T) {
	svc, wallet := newTestJournalService(t, 0)
	ctx := context.Background()

	entry, err := svc.AddEntry(ctx, "Today was a great day, I am happy and grateful", "")
	require.NoError(t, err)
	assert.Equal(t, moodPositive, entry.MoodLabel)
	assert.Positive(t, entry.MoodScore)
	assert.Contains(t, entry.ProofTag, "proof-journal-")
	assert.NotEmpty(t, entry.AgentTxID)

	entry, err = svc.AddEntry(ctx, "Awful week, anxious and miserable", "")
	require.NoError(t, err)
	assert.Equal(t, moodNegative, entry.MoodLabel)
	assert.Negative(t, entry.MoodScore)

	entry, err = svc.AddEntry(ctx, "Went to the store", "")
	require.NoError(t, err)
	assert.Equal(t, moodNeutral, entry.MoodLabel)
	assert.Zero(t, entry.MoodScore)

	// the mood agent charged its fee once per entry
	state := wallet.State(ctx)
	assert.Len(t, state.Transactions, 3)

	entries := svc.Entries(ctx)
	require.Len(t, entries, 3)
	assert.Equal(t, entry.ID, entries[0].ID, "newest entry first")
}

func TestAddEntryStripsOversizedImage(t *testing.T) {
	svc, _ := newTestJournalService(t, 1024)
	ctx := context.Background()

	entry, err := svc.AddEntry(ctx, "picture day", strings.Repeat("A", 8192))
	require.NoError(t, err)
	assert.Empty(t, entry.ImageData)
	assert.Equal(t, "picture day", entry.Content)

	entries := svc.Entries(ctx)
	require.Len(t, entries, 1)
	assert.Empty(t, entries[0].ImageData)
}

func TestAddEntrySmallImageKept(t *testing.T) {
	svc, _ := newTestJournalService(t, 0)
	ctx := context.Background()

	entry, err := svc.AddEntry(ctx, "picture day", "base64payload")
	require.NoError(t, err)
	assert.Equal(t, "base64payload", entry.ImageData)
}

func TestDeleteEntry(t *testing.T) {
	svc, _ := newTestJournalService(t, 0)
	ctx := context.Background()

	entry, err := svc.AddEntry(ctx, "to be removed", "")
	require.NoError(t, err)

	require.NoError(t, svc.DeleteEntry(ctx, entry.ID))
	assert.Empty(t, svc.Entries(ctx))
}
