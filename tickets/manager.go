// Package tickets tracks the support-ticket workflow: a member opens a
// ticket (backed by a dedicated channel), staff claims it, and closing it
// writes a plain-text transcript under the data directory.
package tickets

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/patchwerk/discord-riddle-bot/logging"
	"github.com/patchwerk/discord-riddle-bot/store"
)

// Ticket states.
const (
	StateOpen    = "open"
	StateClaimed = "claimed"
	StateClosed  = "closed"
)

var (
	// ErrAlreadyOpen flags a second open by a user with a live ticket.
	ErrAlreadyOpen = errors.New("you already have an open ticket")
	// ErrNotFound flags an operation on an unknown ticket.
	ErrNotFound = errors.New("ticket not found")
	// ErrAlreadyClaimed flags claiming a ticket that has a claimer.
	ErrAlreadyClaimed = errors.New("ticket is already claimed")
	// ErrClosed flags claiming or closing a closed ticket.
	ErrClosed = errors.New("ticket is already closed")
)

// Ticket is one support request.
type Ticket struct {
	ID        string     `json:"id"`
	Opener    string     `json:"opener"`
	Claimer   string     `json:"claimer,omitempty"`
	ChannelID string     `json:"channel_id"`
	State     string     `json:"state"`
	OpenedAt  time.Time  `json:"opened_at"`
	ClosedAt  *time.Time `json:"closed_at,omitempty"`
}

// Storer is the slice of the document store the manager needs.
type Storer interface {
	Load(name string, v any) error
	Save(name string, v any) error
	WriteFile(name string, data []byte) (string, error)
}

// Manager owns the ticket registry.
type Manager struct {
	mu     sync.Mutex
	byID   map[string]*Ticket
	st     Storer
	logger *logging.Logger
	now    func() time.Time
}

func NewManager(st Storer, logger *logging.Logger) *Manager {
	if logger == nil {
		logger = logging.Default()
	}
	return &Manager{
		byID:   make(map[string]*Ticket),
		st:     st,
		logger: logger,
		now:    time.Now,
	}
}

// Load restores the persisted registry.
func (m *Manager) Load() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	var tickets []*Ticket
	if err := m.st.Load(store.DocTickets, &tickets); err != nil {
		return fmt.Errorf("loading tickets: %w", err)
	}
	for _, t := range tickets {
		m.byID[t.ID] = t
	}
	return nil
}

// Open registers a new ticket for the opener. One live (open or claimed)
// ticket per user at a time.
func (m *Manager) Open(opener, channelID string) (Ticket, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, t := range m.byID {
		if t.Opener == opener && t.State != StateClosed {
			return Ticket{}, ErrAlreadyOpen
		}
	}

	t := &Ticket{
		ID:        uuid.NewString(),
		Opener:    opener,
		ChannelID: channelID,
		State:     StateOpen,
		OpenedAt:  m.now(),
	}
	m.byID[t.ID] = t
	m.logger.Info("ticket opened", "ticket", t.ID, "opener", opener)
	return *t, m.flushLocked()
}

// Claim assigns a staff member to an open ticket.
func (m *Manager) Claim(id, staff string) (Ticket, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	t, ok := m.byID[id]
	if !ok {
		return Ticket{}, ErrNotFound
	}
	switch t.State {
	case StateClosed:
		return Ticket{}, ErrClosed
	case StateClaimed:
		return Ticket{}, ErrAlreadyClaimed
	}

	t.Claimer = staff
	t.State = StateClaimed
	m.logger.Info("ticket claimed", "ticket", t.ID, "claimer", staff)
	return *t, m.flushLocked()
}

// Close writes the transcript and archives the ticket. Returns the
// transcript path.
func (m *Manager) Close(id string, transcript []string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	t, ok := m.byID[id]
	if !ok {
		return "", ErrNotFound
	}
	if t.State == StateClosed {
		return "", ErrClosed
	}

	path, err := m.st.WriteFile(
		filepath.Join("transcripts", fmt.Sprintf("ticket-%s.txt", t.ID)),
		[]byte(strings.Join(transcript, "\n")),
	)
	if err != nil {
		return "", fmt.Errorf("writing transcript: %w", err)
	}

	closedAt := m.now()
	t.State = StateClosed
	t.ClosedAt = &closedAt
	m.logger.Info("ticket closed", "ticket", t.ID, "transcript", path)
	return path, m.flushLocked()
}

// ByChannel finds the live ticket backed by a channel.
func (m *Manager) ByChannel(channelID string) (Ticket, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, t := range m.byID {
		if t.ChannelID == channelID && t.State != StateClosed {
			return *t, true
		}
	}
	return Ticket{}, false
}

// Get returns a ticket by ID.
func (m *Manager) Get(id string) (Ticket, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	t, ok := m.byID[id]
	if !ok {
		return Ticket{}, false
	}
	return *t, true
}

func (m *Manager) flushLocked() error {
	tickets := make([]*Ticket, 0, len(m.byID))
	for _, t := range m.byID {
		tickets = append(tickets, t)
	}
	return m.st.Save(store.DocTickets, tickets)
}
