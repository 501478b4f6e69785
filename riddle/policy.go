package riddle

import (
	"fmt"
	"sync"

	"github.com/patchwerk/discord-riddle-bot/store"
)

// Channel policy modes. Exactly one semantic is active per deployment.
const (
	PolicyAllow = "allow"
	PolicyDeny  = "deny"
)

// ChannelPolicy decides which channels the round logic operates in. In
// allow mode the set is the channels to listen in, and an empty set places
// no restriction. In deny mode the set is the channels to ignore.
type ChannelPolicy struct {
	mu       sync.Mutex
	mode     string
	channels map[string]struct{}
	st       Storer
}

func NewChannelPolicy(mode string, st Storer) *ChannelPolicy {
	return &ChannelPolicy{
		mode:     mode,
		channels: make(map[string]struct{}),
		st:       st,
	}
}

// Load reads the persisted channel list (a JSON array of channel IDs).
func (p *ChannelPolicy) Load() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	var ids []string
	if err := p.st.Load(store.DocChannels, &ids); err != nil {
		return fmt.Errorf("loading channel policy: %w", err)
	}
	for _, id := range ids {
		p.channels[id] = struct{}{}
	}
	return nil
}

// Allowed reports whether the round logic may operate in the channel.
func (p *ChannelPolicy) Allowed(channelID string) bool {
	p.mu.Lock()
	defer p.mu.Unlock()

	_, listed := p.channels[channelID]
	if p.mode == PolicyDeny {
		return !listed
	}
	return len(p.channels) == 0 || listed
}

// Listen makes the channel operable and persists: added to the allow-list,
// or removed from the deny-list, depending on the mode.
func (p *ChannelPolicy) Listen(channelID string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.mode == PolicyDeny {
		delete(p.channels, channelID)
	} else {
		p.channels[channelID] = struct{}{}
	}
	return p.flushLocked()
}

// Ignore silences the channel and persists: removed from the allow-list, or
// added to the deny-list, depending on the mode.
func (p *ChannelPolicy) Ignore(channelID string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.mode == PolicyDeny {
		p.channels[channelID] = struct{}{}
	} else {
		delete(p.channels, channelID)
	}
	return p.flushLocked()
}

// Mode returns the active policy semantic.
func (p *ChannelPolicy) Mode() string {
	return p.mode
}

func (p *ChannelPolicy) flushLocked() error {
	ids := make([]string, 0, len(p.channels))
	for id := range p.channels {
		ids = append(ids, id)
	}
	return p.st.Save(store.DocChannels, ids)
}
