// Package schedule wraps gocron for the bot's recurring jobs, chiefly the
// daily riddle rotation at a fixed time of day.
package schedule

import (
	"fmt"
	"strings"

	"github.com/marcsantiago/gocron"
)

// Definition describes one recurring job.
type Definition struct {
	// Interval (every 1 day would be expressed with an interval of 1).
	Interval uint64

	// Unit of the interval. Valid units are "hours", "days", "minutes",
	// "seconds".
	Unit string

	// Optional "at time" value (i.e. "09:00"). Only meaningful for daily
	// jobs.
	AtTime string
}

// Unit values
const (
	Hours   = "hours"
	Days    = "days"
	Minutes = "minutes"
	Seconds = "seconds"
)

// Daily returns the definition of a once-a-day job at the given HH:MM.
func Daily(at string) Definition {
	return Definition{Interval: 1, Unit: Days, AtTime: at}
}

// String renders a human-friendly description of the definition.
func (d Definition) String() string {
	var b strings.Builder

	fmt.Fprintf(&b, "Every ")
	if d.Interval == 1 {
		fmt.Fprintf(&b, "%s", strings.TrimSuffix(d.Unit, "s"))
	} else {
		fmt.Fprintf(&b, "%d %s", d.Interval, d.Unit)
	}
	if d.AtTime != "" {
		fmt.Fprintf(&b, " at %s", d.AtTime)
	}
	return b.String()
}

// NewJob sets up the gocron.Job with the schedule and leaves the task for
// the caller to attach with Do.
func NewJob(s *gocron.Scheduler, d Definition) (*gocron.Job, error) {
	j := s.Every(d.Interval, false)

	switch d.Unit {
	case Hours:
		j = j.Hours()
	case Days:
		j = j.Days()
	case Minutes:
		j = j.Minutes()
	case Seconds:
		j = j.Seconds()
	default:
		return nil, fmt.Errorf("invalid schedule unit %q", d.Unit)
	}

	if d.AtTime != "" {
		j = j.At(d.AtTime)
	}

	if j.Err() != nil {
		return nil, j.Err()
	}
	return j, nil
}

// Runner owns one scheduler and its stop channel.
type Runner struct {
	sc      *gocron.Scheduler
	stopped chan bool
}

func NewRunner() *Runner {
	return &Runner{sc: gocron.NewScheduler()}
}

// Add registers a task under a definition.
func (r *Runner) Add(d Definition, task func()) error {
	j, err := NewJob(r.sc, d)
	if err != nil {
		return fmt.Errorf("scheduling %s: %w", d, err)
	}
	j.Do(task)
	return nil
}

// Start runs the scheduler on its own goroutine.
func (r *Runner) Start() {
	r.stopped = r.sc.Start()
}

// Stop halts the scheduler. Safe to call when never started.
func (r *Runner) Stop() {
	if r.stopped != nil {
		r.stopped <- true
	}
}
