package riddle

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScoreboardIncrement(t *testing.T) {
	s := NewScoreboard(newTestStore(t))

	score, err := s.Increment("alice")
	require.NoError(t, err)
	assert.Equal(t, 1, score)

	score, err = s.Increment("alice")
	require.NoError(t, err)
	assert.Equal(t, 2, score)

	assert.Equal(t, 2, s.Score("alice"))
	assert.Equal(t, 0, s.Score("nobody"))
}

func TestScoreboardTopNOrderAndTies(t *testing.T) {
	s := NewScoreboard(newTestStore(t))

	for i := 0; i < 3; i++ {
		_, err := s.Increment("carol")
		require.NoError(t, err)
	}
	// alice and bob tie at 1; alice scored first
	_, err := s.Increment("alice")
	require.NoError(t, err)
	_, err = s.Increment("bob")
	require.NoError(t, err)

	top := s.TopN(10)
	require.Len(t, top, 3)
	assert.Equal(t, ScoreEntry{User: "carol", Score: 3}, top[0])
	assert.Equal(t, ScoreEntry{User: "alice", Score: 1}, top[1])
	assert.Equal(t, ScoreEntry{User: "bob", Score: 1}, top[2])

	top = s.TopN(1)
	require.Len(t, top, 1)
	assert.Equal(t, "carol", top[0].User)
}

func TestScoreboardPersistsAcrossRestart(t *testing.T) {
	st := newTestStore(t)

	s := NewScoreboard(st)
	_, err := s.Increment("alice")
	require.NoError(t, err)
	_, err = s.Increment("alice")
	require.NoError(t, err)

	reloaded := NewScoreboard(st)
	require.NoError(t, reloaded.Load())
	assert.Equal(t, 2, reloaded.Score("alice"))
}
