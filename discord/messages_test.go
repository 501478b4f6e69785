package discord

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/patchwerk/discord-riddle-bot/riddle"
)

func TestSplitCommand(t *testing.T) {
	cases := []struct {
		in       string
		wantName string
		wantArgs string
	}{
		{"riddle", "riddle", ""},
		{"delriddle 3", "delriddle", "3"},
		{"ADDRIDDLE what am I? | a map", "addriddle", "what am I? | a map"},
		{"  leaderboard   5 ", "leaderboard", "5"},
		{"", "", ""},
		{"   ", "", ""},
	}
	for _, tc := range cases {
		name, args := splitCommand(tc.in)
		assert.Equal(t, tc.wantName, name, "input %q", tc.in)
		assert.Equal(t, tc.wantArgs, args, "input %q", tc.in)
	}
}

func TestSplitRiddlePair(t *testing.T) {
	q, a, ok := splitRiddlePair("What has keys but no locks? | a piano")
	assert.True(t, ok)
	assert.Equal(t, "What has keys but no locks?", q)
	assert.Equal(t, "a piano", a)

	_, _, ok = splitRiddlePair("no separator here")
	assert.False(t, ok)

	_, _, ok = splitRiddlePair(" | answer without a question")
	assert.False(t, ok)

	_, _, ok = splitRiddlePair("question without an answer | ")
	assert.False(t, ok)
}

func TestFormatWait(t *testing.T) {
	assert.Equal(t, "1s", formatWait(400*time.Millisecond), "partial seconds round up")
	assert.Equal(t, "59s", formatWait(59*time.Second))
	assert.Equal(t, "1m 0s", formatWait(time.Minute))
	assert.Equal(t, "4m 58s", formatWait(4*time.Minute+58*time.Second))
	assert.Equal(t, "5m 0s", formatWait(4*time.Minute+59*time.Second+time.Millisecond))
}

func TestFormatLeaderboard(t *testing.T) {
	assert.Equal(t, "No scores yet!", formatLeaderboard(nil))

	got := formatLeaderboard([]riddle.ScoreEntry{
		{User: "111", Score: 7},
		{User: "222", Score: 3},
	})
	assert.Equal(t, "🏆 **Leaderboard**:\n1. <@111>: 7\n2. <@222>: 3", got)
}
