package main

import "strings"

const (
	moodPositive = "Positive"
	moodNegative = "Negative"
	moodNeutral  = "Neutral"
)

// sentimentLexicon is a compact AFINN-style word list used when the
// analysis backend is unavailable. Weights follow the usual -5..5 scale.
var sentimentLexicon = map[string]int{
	"amazing":     4,
	"awesome":     4,
	"great":       3,
	"happy":       3,
	"love":        3,
	"loved":       3,
	"excited":     3,
	"good":        3,
	"grateful":    3,
	"calm":        2,
	"nice":        2,
	"peaceful":    2,
	"proud":       2,
	"relaxed":     2,
	"win":         2,
	"progress":    2,
	"hope":        2,
	"better":      2,
	"fine":        1,
	"okay":        1,
	"tired":       -2,
	"sad":         -2,
	"worried":     -3,
	"anxious":     -3,
	"angry":       -3,
	"stressed":    -3,
	"bad":         -3,
	"hate":        -3,
	"awful":       -3,
	"terrible":    -3,
	"exhausted":   -3,
	"overwhelmed": -3,
	"depressed":   -4,
	"miserable":   -4,
	"worst":       -4,
}

// sentimentScore sums lexicon weights over the words of a text.
func sentimentScore(text string) int {
	score := 0
	for _, word := range strings.Fields(strings.ToLower(text)) {
		word = strings.Trim(word, ".,!?;:'\"()")
		score += sentimentLexicon[word]
	}
	return score
}

// moodLabel maps a sentiment score onto a mood by sign.
func moodLabel(score int) string {
	switch {
	case score > 0:
		return moodPositive
	case score < 0:
		return moodNegative
	default:
		return moodNeutral
	}
}
