package discord

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDialogTwoStepFlow(t *testing.T) {
	d := newDialogTracker(time.Minute)
	now := time.Now()

	d.Begin("user-1", "chan-1", now)

	outcome, _, _ := d.Advance("user-1", "chan-1", "What has keys but no locks?", now.Add(5*time.Second))
	require.Equal(t, dialogPromptAnswer, outcome)

	outcome, question, answer := d.Advance("user-1", "chan-1", "  a piano  ", now.Add(10*time.Second))
	require.Equal(t, dialogComplete, outcome)
	assert.Equal(t, "What has keys but no locks?", question)
	assert.Equal(t, "a piano", answer)

	// the dialog is forgotten once complete
	outcome, _, _ = d.Advance("user-1", "chan-1", "another message", now.Add(11*time.Second))
	assert.Equal(t, dialogNone, outcome)
}

func TestDialogIsPerUserAndPerChannel(t *testing.T) {
	d := newDialogTracker(time.Minute)
	now := time.Now()

	d.Begin("user-1", "chan-1", now)

	outcome, _, _ := d.Advance("user-2", "chan-1", "hello", now)
	assert.Equal(t, dialogNone, outcome, "another user's message must not advance the dialog")

	outcome, _, _ = d.Advance("user-1", "chan-2", "hello", now)
	assert.Equal(t, dialogNone, outcome, "the opener speaking elsewhere must not advance the dialog")

	outcome, _, _ = d.Advance("user-1", "chan-1", "the question", now)
	assert.Equal(t, dialogPromptAnswer, outcome)
}

func TestDialogExpiry(t *testing.T) {
	d := newDialogTracker(time.Minute)
	now := time.Now()

	d.Begin("user-1", "chan-1", now)

	outcome, _, _ := d.Advance("user-1", "chan-1", "too late", now.Add(time.Minute+time.Second))
	require.Equal(t, dialogExpired, outcome)

	// expired dialogs are dropped, not retried
	outcome, _, _ = d.Advance("user-1", "chan-1", "again", now.Add(2*time.Minute))
	assert.Equal(t, dialogNone, outcome)
}

func TestDialogStepResetsDeadline(t *testing.T) {
	d := newDialogTracker(time.Minute)
	now := time.Now()

	d.Begin("user-1", "chan-1", now)

	outcome, _, _ := d.Advance("user-1", "chan-1", "the question", now.Add(50*time.Second))
	require.Equal(t, dialogPromptAnswer, outcome)

	// 50s into step one plus 50s into step two is fine; each step gets the
	// full timeout
	outcome, _, answer := d.Advance("user-1", "chan-1", "the answer", now.Add(100*time.Second))
	require.Equal(t, dialogComplete, outcome)
	assert.Equal(t, "the answer", answer)
}

func TestDialogCancel(t *testing.T) {
	d := newDialogTracker(time.Minute)
	now := time.Now()

	assert.False(t, d.Cancel("user-1"), "nothing pending yet")

	d.Begin("user-1", "chan-1", now)
	assert.True(t, d.Cancel("user-1"))

	outcome, _, _ := d.Advance("user-1", "chan-1", "hello", now)
	assert.Equal(t, dialogNone, outcome)
}

func TestDialogRestartReplacesPending(t *testing.T) {
	d := newDialogTracker(time.Minute)
	now := time.Now()

	d.Begin("user-1", "chan-1", now)
	_, _, _ = d.Advance("user-1", "chan-1", "first question", now)

	// a fresh Begin starts over at the question stage
	d.Begin("user-1", "chan-1", now.Add(time.Second))
	outcome, _, _ := d.Advance("user-1", "chan-1", "second question", now.Add(2*time.Second))
	assert.Equal(t, dialogPromptAnswer, outcome)
}

func TestDialogExpiredSweep(t *testing.T) {
	d := newDialogTracker(time.Minute)
	now := time.Now()

	d.Begin("user-1", "chan-1", now)
	d.Begin("user-2", "chan-2", now.Add(30*time.Second))

	expired := d.Expired(now.Add(time.Minute + time.Second))
	require.Len(t, expired, 1)
	assert.Equal(t, "user-1", expired[0].UserID)

	// the survivor is untouched
	outcome, _, _ := d.Advance("user-2", "chan-2", "still here", now.Add(time.Minute+2*time.Second))
	assert.Equal(t, dialogPromptAnswer, outcome)
}
