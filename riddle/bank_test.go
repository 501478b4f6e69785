package riddle

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/patchwerk/discord-riddle-bot/store"
)

func newTestStore(t *testing.T) *store.Store {
	t.Helper()
	st, err := store.New(t.TempDir(), nil)
	require.NoError(t, err)
	return st
}

func TestBankAddValidation(t *testing.T) {
	b := NewBank(newTestStore(t))

	assert.ErrorIs(t, b.Add("", "answer"), ErrValidation)
	assert.ErrorIs(t, b.Add("question?", "   "), ErrValidation)
	// answer made only of stop-words would trivially match nothing
	assert.ErrorIs(t, b.Add("question?", "the a an"), ErrValidation)
}

func TestBankAddCanonicalizesAnswer(t *testing.T) {
	b := NewBank(newTestStore(t))
	require.NoError(t, b.Add("What has keys?", "  A Piano  "))

	recs := b.List()
	require.Len(t, recs, 1)
	assert.Equal(t, "a piano", recs[0].Answer)
}

func TestBankPickRandomEventuallyReturnsEveryEntry(t *testing.T) {
	b := NewBank(newTestStore(t))
	require.NoError(t, b.Add("q1", "a1"))
	require.NoError(t, b.Add("q2", "a2"))
	require.NoError(t, b.Add("q3", "a3"))

	seen := map[string]bool{}
	for i := 0; i < 200; i++ {
		rec, err := b.PickRandom()
		require.NoError(t, err)
		seen[rec.Question] = true
	}
	assert.Len(t, seen, 3)
	// selection is side-effect free
	assert.Equal(t, 3, b.Len())
}

func TestBankRemoveMakesEntryUnselectable(t *testing.T) {
	b := NewBank(newTestStore(t))
	require.NoError(t, b.Add("q1", "a1"))
	require.NoError(t, b.Add("q2", "a2"))

	require.NoError(t, b.Remove("q1"))
	for i := 0; i < 50; i++ {
		rec, err := b.PickRandom()
		require.NoError(t, err)
		assert.Equal(t, "q2", rec.Question)
	}

	assert.ErrorIs(t, b.Remove("q1"), ErrNotFound)
}

func TestBankRemoveAt(t *testing.T) {
	b := NewBank(newTestStore(t))
	require.NoError(t, b.Add("q1", "a1"))
	require.NoError(t, b.Add("q2", "a2"))

	assert.ErrorIs(t, b.RemoveAt(5), ErrNotFound)
	assert.ErrorIs(t, b.RemoveAt(-1), ErrNotFound)

	require.NoError(t, b.RemoveAt(0))
	recs := b.List()
	require.Len(t, recs, 1)
	assert.Equal(t, "q2", recs[0].Question)
}

func TestBankEmpty(t *testing.T) {
	b := NewBank(newTestStore(t))
	_, err := b.PickRandom()
	assert.ErrorIs(t, err, ErrEmptyBank)
}

func TestBankMarkSolvedExcludesUntilReset(t *testing.T) {
	b := NewBank(newTestStore(t))
	require.NoError(t, b.Add("q1", "a1"))
	require.NoError(t, b.Add("q2", "a2"))

	require.NoError(t, b.MarkSolved("q1", "alice"))
	assert.Equal(t, 1, b.Available())
	assert.Equal(t, 2, b.Len())
	for i := 0; i < 50; i++ {
		rec, err := b.PickRandom()
		require.NoError(t, err)
		assert.Equal(t, "q2", rec.Question)
	}

	require.NoError(t, b.ResetSolved())
	assert.Equal(t, 2, b.Available())
}

func TestBankPersistsAcrossRestart(t *testing.T) {
	st := newTestStore(t)

	b := NewBank(st)
	require.NoError(t, b.Add("q1", "a1"))
	require.NoError(t, b.Add("q2", "a2"))
	require.NoError(t, b.Remove("q1"))

	reloaded := NewBank(st)
	require.NoError(t, reloaded.Load())
	recs := reloaded.List()
	require.Len(t, recs, 1)
	assert.Equal(t, "q2", recs[0].Question)
	assert.Equal(t, "a2", recs[0].Answer)
}

func TestBankLegacyMapImport(t *testing.T) {
	st := newTestStore(t)
	require.NoError(t, st.Save(store.DocRiddles, map[string]string{
		"What has keys?": "A Piano",
	}))

	b := NewBank(st)
	require.NoError(t, b.Load())

	recs := b.List()
	require.Len(t, recs, 1)
	assert.Equal(t, "What has keys?", recs[0].Question)
	assert.Equal(t, "a piano", recs[0].Answer)
}
