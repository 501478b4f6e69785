package riddle

import (
	"fmt"
	"sort"
	"sync"

	"github.com/patchwerk/discord-riddle-bot/store"
)

// ScoreEntry is one scoreboard row.
type ScoreEntry struct {
	User  string
	Score int
}

// Scoreboard tallies correct guesses per user. Scores only ever go up and
// every increment is flushed to disk immediately.
type Scoreboard struct {
	mu     sync.Mutex
	scores map[string]int
	order  []string // first-seen order, used as the tie-break
	st     Storer
}

func NewScoreboard(st Storer) *Scoreboard {
	return &Scoreboard{
		scores: make(map[string]int),
		st:     st,
	}
}

// Load reads the persisted {user: score} document. Insertion order is not
// persisted, so reloaded users tie-break alphabetically until they score
// again.
func (s *Scoreboard) Load() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.st.Load(store.DocScores, &s.scores); err != nil {
		return fmt.Errorf("loading scoreboard: %w", err)
	}
	s.order = make([]string, 0, len(s.scores))
	for user := range s.scores {
		s.order = append(s.order, user)
	}
	sort.Strings(s.order)
	return nil
}

// Increment adds one point, creating the entry at 1 when absent, and
// persists immediately. The new score is returned even when the flush
// fails; the write error is the caller's to log.
func (s *Scoreboard) Increment(user string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, seen := s.scores[user]; !seen {
		s.order = append(s.order, user)
	}
	s.scores[user]++
	return s.scores[user], s.st.Save(store.DocScores, s.scores)
}

// Score returns the user's tally, zero when absent.
func (s *Scoreboard) Score(user string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.scores[user]
}

// TopN returns up to n entries sorted descending by score, ties broken by
// insertion order.
func (s *Scoreboard) TopN(n int) []ScoreEntry {
	s.mu.Lock()
	defer s.mu.Unlock()

	entries := make([]ScoreEntry, 0, len(s.order))
	for _, user := range s.order {
		entries = append(entries, ScoreEntry{User: user, Score: s.scores[user]})
	}
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Score > entries[j].Score
	})
	if n >= 0 && len(entries) > n {
		entries = entries[:n]
	}
	return entries
}

// Len reports how many users have scored.
func (s *Scoreboard) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.scores)
}
