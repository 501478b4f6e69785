package discord

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/patchwerk/discord-riddle-bot/metrics"
)

// The interactive add-riddle flow spans two inbound messages: the question,
// then the answer. Each pending dialog is a per-user record with an expiry;
// nothing is added to the bank until the final step, so an expired or
// cancelled dialog leaves no partial state.

type dialogStage int

const (
	stageQuestion dialogStage = iota
	stageAnswer
)

type dialogOutcome int

const (
	dialogNone dialogOutcome = iota
	dialogPromptAnswer
	dialogComplete
	dialogExpired
)

type pendingDialog struct {
	UserID    string
	ChannelID string
	Stage     dialogStage
	Question  string
	Expires   time.Time
}

type dialogTracker struct {
	mu      sync.Mutex
	timeout time.Duration
	pending map[string]*pendingDialog
}

func newDialogTracker(timeout time.Duration) *dialogTracker {
	return &dialogTracker{
		timeout: timeout,
		pending: make(map[string]*pendingDialog),
	}
}

// Begin opens (or restarts) an add-riddle dialog for the user.
func (d *dialogTracker) Begin(user, channel string, now time.Time) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.pending[user] = &pendingDialog{
		UserID:    user,
		ChannelID: channel,
		Stage:     stageQuestion,
		Expires:   now.Add(d.timeout),
	}
}

// Advance feeds an inbound message to the user's dialog, if one is pending
// in that channel. On completion it returns the collected pair and forgets
// the dialog.
func (d *dialogTracker) Advance(user, channel, text string, now time.Time) (outcome dialogOutcome, question, answer string) {
	d.mu.Lock()
	defer d.mu.Unlock()

	p, ok := d.pending[user]
	if !ok || p.ChannelID != channel {
		return dialogNone, "", ""
	}
	if now.After(p.Expires) {
		delete(d.pending, user)
		return dialogExpired, "", ""
	}

	text = strings.TrimSpace(text)
	switch p.Stage {
	case stageQuestion:
		p.Question = text
		p.Stage = stageAnswer
		p.Expires = now.Add(d.timeout)
		return dialogPromptAnswer, "", ""
	default:
		delete(d.pending, user)
		return dialogComplete, p.Question, text
	}
}

// Cancel discards the user's pending dialog.
func (d *dialogTracker) Cancel(user string) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	_, ok := d.pending[user]
	delete(d.pending, user)
	return ok
}

// Expired removes and returns every dialog past its deadline.
func (d *dialogTracker) Expired(now time.Time) []pendingDialog {
	d.mu.Lock()
	defer d.mu.Unlock()

	var out []pendingDialog
	for user, p := range d.pending {
		if now.After(p.Expires) {
			out = append(out, *p)
			delete(d.pending, user)
		}
	}
	return out
}

// sweepDialogs cancels timed-out dialogs even when the user never speaks
// again.
func (c Client) sweepDialogs(ctx context.Context) {
	ticker := time.NewTicker(10 * time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			for _, p := range c.dialogs.Expired(now) {
				c.logger.Info("add-riddle dialog timed out", "user", p.UserID)
				_, err := c.Session.ChannelMessageSend(p.ChannelID, "⏳ Add-riddle dialog timed out. Nothing was saved.")
				if err != nil {
					c.logger.Error("error sending dialog timeout notice", "error", err.Error(), "channelID", p.ChannelID)
					continue
				}
				metrics.DiscordMessageSent.Add(1)
			}
		}
	}
}
