package riddle

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestManager(t *testing.T, opts ManagerOptions) (*Manager, *Bank, *Scoreboard) {
	t.Helper()
	st := newTestStore(t)
	bank := NewBank(st)
	board := NewScoreboard(st)
	cooldowns := NewCooldownTracker(300 * time.Second)
	return NewManager(bank, board, cooldowns, opts), bank, board
}

func TestPostEmptyBankReportsUnavailability(t *testing.T) {
	m, _, _ := newTestManager(t, ManagerOptions{})

	_, err := m.Post()
	assert.ErrorIs(t, err, ErrEmptyBank)

	_, active := m.Current()
	assert.False(t, active)
}

func TestCorrectGuessScoresAndRotates(t *testing.T) {
	m, bank, board := newTestManager(t, ManagerOptions{})
	require.NoError(t, bank.Add("What has keys but can't open locks?", "a piano"))
	require.NoError(t, bank.Add("spare", "spare answer"))

	q, err := m.Post()
	require.NoError(t, err)
	require.NotEmpty(t, q)

	// keep guessing the piano answer until the piano riddle is up
	now := time.Unix(1_000_000, 0)
	for {
		cur, active := m.Current()
		require.True(t, active)
		if cur == "What has keys but can't open locks?" {
			break
		}
		_, err = m.Post()
		require.NoError(t, err)
	}

	res := m.Evaluate("alice", "piano", now)
	assert.Equal(t, OutcomeCorrect, res.Outcome)
	assert.Equal(t, 1, res.NewScore)
	assert.Equal(t, 1, board.Score("alice"))

	// consumed on solve, and the round rotated to the remaining riddle
	assert.Equal(t, 1, bank.Len())
	assert.False(t, res.Exhausted)
	assert.Equal(t, "spare", res.NextQuestion)
	cur, active := m.Current()
	assert.True(t, active)
	assert.Equal(t, "spare", cur)
}

func TestIncorrectGuessLeavesRoundActive(t *testing.T) {
	m, bank, board := newTestManager(t, ManagerOptions{})
	require.NoError(t, bank.Add("What has keys but can't open locks?", "a piano"))

	_, err := m.Post()
	require.NoError(t, err)

	now := time.Unix(1_000_000, 0)
	res := m.Evaluate("alice", "guitar", now)
	assert.Equal(t, OutcomeIncorrect, res.Outcome)
	assert.Equal(t, 0, board.Score("alice"))

	_, active := m.Current()
	assert.True(t, active)

	// the wrong guess still armed the cooldown
	res = m.Evaluate("alice", "piano", now.Add(time.Second))
	assert.Equal(t, OutcomeCooldown, res.Outcome)
	assert.Equal(t, 299*time.Second, res.Wait)
}

func TestCooldownRejectionDoesNotRefreshTimestamp(t *testing.T) {
	m, bank, _ := newTestManager(t, ManagerOptions{})
	require.NoError(t, bank.Add("q", "answer"))
	_, err := m.Post()
	require.NoError(t, err)

	t0 := time.Unix(1_000_000, 0)
	res := m.Evaluate("alice", "wrong", t0)
	require.Equal(t, OutcomeIncorrect, res.Outcome)

	// rejected attempt just before the boundary
	res = m.Evaluate("alice", "answer", t0.Add(299*time.Second))
	require.Equal(t, OutcomeCooldown, res.Outcome)

	// graded exactly at the boundary despite the rejected attempt above
	res = m.Evaluate("alice", "answer", t0.Add(300*time.Second))
	assert.Equal(t, OutcomeCorrect, res.Outcome)
}

func TestExhaustionTransitionsToIdle(t *testing.T) {
	m, bank, _ := newTestManager(t, ManagerOptions{})
	require.NoError(t, bank.Add("only", "answer"))

	_, err := m.Post()
	require.NoError(t, err)

	res := m.Evaluate("alice", "answer", time.Unix(1_000_000, 0))
	assert.Equal(t, OutcomeCorrect, res.Outcome)
	assert.True(t, res.Exhausted)
	assert.Empty(t, res.NextQuestion)

	_, active := m.Current()
	assert.False(t, active)

	// subsequent posts report unavailability until a riddle is added
	_, err = m.Post()
	assert.ErrorIs(t, err, ErrEmptyBank)

	require.NoError(t, bank.Add("next", "thing"))
	q, err := m.Post()
	require.NoError(t, err)
	assert.Equal(t, "next", q)
}

func TestGuessWithNoActiveRoundIsIgnored(t *testing.T) {
	m, bank, board := newTestManager(t, ManagerOptions{})
	require.NoError(t, bank.Add("q", "answer"))

	res := m.Evaluate("alice", "answer", time.Unix(1_000_000, 0))
	assert.Equal(t, OutcomeNoRound, res.Outcome)
	assert.Equal(t, 0, board.Score("alice"))
}

func TestStopClearsWithoutAnnouncing(t *testing.T) {
	m, bank, _ := newTestManager(t, ManagerOptions{})
	require.NoError(t, bank.Add("q", "answer"))

	assert.False(t, m.Stop())

	_, err := m.Post()
	require.NoError(t, err)
	assert.True(t, m.Stop())

	_, active := m.Current()
	assert.False(t, active)
	// stop does not delete the riddle
	assert.Equal(t, 1, bank.Len())
}

func TestExpireAnnouncesAnswerAndRotates(t *testing.T) {
	m, bank, board := newTestManager(t, ManagerOptions{})
	require.NoError(t, bank.Add("q1", "answer one"))
	require.NoError(t, bank.Add("q2", "answer two"))

	_, err := m.Post()
	require.NoError(t, err)
	cur, _ := m.Current()

	res := m.Expire()
	assert.True(t, res.WasActive)
	assert.NotEmpty(t, res.Answer)
	assert.False(t, res.Exhausted)
	assert.NotEqual(t, cur, res.NextQuestion)

	// nobody scored on an expiry
	assert.Equal(t, 0, board.Len())
	// the expired riddle was retired under the consume policy
	assert.Equal(t, 1, bank.Len())
}

func TestExpireWhenIdlePostsNextRiddle(t *testing.T) {
	m, bank, _ := newTestManager(t, ManagerOptions{})
	require.NoError(t, bank.Add("q1", "answer one"))

	res := m.Expire()
	assert.False(t, res.WasActive)
	assert.Equal(t, "q1", res.NextQuestion)
}

func TestMarkPolicyRecordsSolverAndExcludes(t *testing.T) {
	m, bank, _ := newTestManager(t, ManagerOptions{SolvePolicy: SolveMark})
	require.NoError(t, bank.Add("q1", "answer one"))

	_, err := m.Post()
	require.NoError(t, err)

	res := m.Evaluate("alice", "answer one", time.Unix(1_000_000, 0))
	assert.Equal(t, OutcomeCorrect, res.Outcome)
	assert.True(t, res.Exhausted)

	// the entry survives with the solver recorded
	recs := bank.List()
	require.Len(t, recs, 1)
	assert.Equal(t, "alice", recs[0].SolvedBy)
	assert.Equal(t, 0, bank.Available())

	require.NoError(t, bank.ResetSolved())
	q, err := m.Post()
	require.NoError(t, err)
	assert.Equal(t, "q1", q)
}

func TestResetCooldownOnPost(t *testing.T) {
	m, bank, _ := newTestManager(t, ManagerOptions{ResetCooldownOnPost: true})
	require.NoError(t, bank.Add("q1", "answer one"))
	require.NoError(t, bank.Add("q2", "answer two"))

	_, err := m.Post()
	require.NoError(t, err)

	t0 := time.Unix(1_000_000, 0)
	res := m.Evaluate("alice", "wrong", t0)
	require.Equal(t, OutcomeIncorrect, res.Outcome)

	// reposting clears the cooldown map
	_, err = m.Post()
	require.NoError(t, err)
	res = m.Evaluate("alice", "also wrong", t0.Add(time.Second))
	assert.Equal(t, OutcomeIncorrect, res.Outcome)
}

func TestFuzzyBelowThresholdIsIncorrect(t *testing.T) {
	m, bank, _ := newTestManager(t, ManagerOptions{Matcher: FuzzyMatcher{Threshold: 0.9}})
	require.NoError(t, bank.Add("q", "a piano"))
	_, err := m.Post()
	require.NoError(t, err)

	res := m.Evaluate("alice", "piankeyboard", time.Unix(1_000_000, 0))
	assert.Equal(t, OutcomeIncorrect, res.Outcome)
}
