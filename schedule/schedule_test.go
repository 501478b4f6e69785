package schedule

import (
	"testing"
	"time"

	"github.com/marcsantiago/gocron"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDaily(t *testing.T) {
	d := Daily("09:00")
	assert.Equal(t, uint64(1), d.Interval)
	assert.Equal(t, Days, d.Unit)
	assert.Equal(t, "09:00", d.AtTime)
	assert.Equal(t, "Every day at 09:00", d.String())
}

func TestDefinitionString(t *testing.T) {
	assert.Equal(t, "Every 5 minutes", Definition{Interval: 5, Unit: Minutes}.String())
	assert.Equal(t, "Every hour", Definition{Interval: 1, Unit: Hours}.String())
}

func TestNewJobRejectsBadUnit(t *testing.T) {
	_, err := NewJob(gocron.NewScheduler(), Definition{Interval: 1, Unit: "fortnights"})
	assert.Error(t, err)
}

func TestRunnerFiresSecondlyJob(t *testing.T) {
	r := NewRunner()
	fired := make(chan struct{}, 1)
	require.NoError(t, r.Add(Definition{Interval: 1, Unit: Seconds}, func() {
		select {
		case fired <- struct{}{}:
		default:
		}
	}))

	r.Start()
	defer r.Stop()

	select {
	case <-fired:
	case <-time.After(5 * time.Second):
		t.Fatal("scheduled job never fired")
	}
}
