package store

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSaveLoadRoundtrip(t *testing.T) {
	s, err := New(t.TempDir(), nil)
	require.NoError(t, err)

	scores := map[string]int{"alice": 3, "bob": 1}
	require.NoError(t, s.Save(DocScores, scores))

	loaded := map[string]int{}
	require.NoError(t, s.Load(DocScores, &loaded))
	assert.Equal(t, scores, loaded)
}

func TestLoadMissingFileLeavesEmpty(t *testing.T) {
	s, err := New(t.TempDir(), nil)
	require.NoError(t, err)

	loaded := map[string]int{}
	require.NoError(t, s.Load(DocScores, &loaded))
	assert.Empty(t, loaded)
}

func TestLoadCorruptFileLeavesEmpty(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, DocScores), []byte("{not json"), 0o644))

	s, err := New(dir, nil)
	require.NoError(t, err)

	loaded := map[string]int{}
	require.NoError(t, s.Load(DocScores, &loaded))
	assert.Empty(t, loaded)
}

func TestSaveOverwritesWholeDocument(t *testing.T) {
	s, err := New(t.TempDir(), nil)
	require.NoError(t, err)

	require.NoError(t, s.Save(DocScores, map[string]int{"alice": 3}))
	require.NoError(t, s.Save(DocScores, map[string]int{"bob": 1}))

	loaded := map[string]int{}
	require.NoError(t, s.Load(DocScores, &loaded))
	assert.Equal(t, map[string]int{"bob": 1}, loaded)
}

func TestSaveReportsPersistenceError(t *testing.T) {
	dir := t.TempDir()
	s, err := New(dir, nil)
	require.NoError(t, err)

	// make the directory unwritable so the temp file write fails
	require.NoError(t, os.Chmod(dir, 0o500))
	defer os.Chmod(dir, 0o755)

	err = s.Save(DocScores, map[string]int{"alice": 1})
	require.Error(t, err)

	var perr *PersistenceError
	assert.ErrorAs(t, err, &perr)
	assert.Equal(t, DocScores, perr.Doc)
}

func TestWriteFileCreatesSubdirectories(t *testing.T) {
	s, err := New(t.TempDir(), nil)
	require.NoError(t, err)

	path, err := s.WriteFile(filepath.Join("transcripts", "ticket-1.txt"), []byte("hello"))
	require.NoError(t, err)

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "hello", string(raw))
}
