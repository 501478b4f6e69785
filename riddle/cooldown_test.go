package riddle

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestCooldownBoundaries(t *testing.T) {
	c := NewCooldownTracker(300 * time.Second)
	t0 := time.Unix(1_000_000, 0)

	// first ever guess is allowed
	assert.Zero(t, c.Remaining("alice", t0))
	c.Record("alice", t0)

	// one second before the boundary: still rejected
	assert.Equal(t, time.Second, c.Remaining("alice", t0.Add(299*time.Second)))
	// a rejected attempt did not refresh the timestamp, so exactly at the
	// boundary the guess is graded
	assert.Zero(t, c.Remaining("alice", t0.Add(300*time.Second)))
}

func TestCooldownPerUser(t *testing.T) {
	c := NewCooldownTracker(300 * time.Second)
	t0 := time.Unix(1_000_000, 0)

	c.Record("alice", t0)
	assert.NotZero(t, c.Remaining("alice", t0.Add(time.Second)))
	assert.Zero(t, c.Remaining("bob", t0.Add(time.Second)))
}

func TestCooldownReset(t *testing.T) {
	c := NewCooldownTracker(300 * time.Second)
	t0 := time.Unix(1_000_000, 0)

	c.Record("alice", t0)
	c.Reset()
	assert.Zero(t, c.Remaining("alice", t0.Add(time.Second)))
}
