package riddle

import (
	"fmt"
	"math/rand"
	"strings"
	"sync"

	"github.com/patchwerk/discord-riddle-bot/store"
)

// Storer is the slice of the document store the riddle components need.
type Storer interface {
	Load(name string, v any) error
	Save(name string, v any) error
}

// Record is one riddle in the bank. Answer is held in lowercased, trimmed
// canonical form. SolvedBy is only ever set under the mark solve policy.
type Record struct {
	Question string `json:"question"`
	Answer   string `json:"answer"`
	SolvedBy string `json:"solved_by,omitempty"`
}

// Bank is the collection of riddles. The canonical persisted form is an
// array of records; the legacy {question: answer} map is accepted on load
// and rewritten canonically on the next save.
type Bank struct {
	mu      sync.Mutex
	records []Record
	st      Storer
}

func NewBank(st Storer) *Bank {
	return &Bank{st: st}
}

// Load reads the persisted bank, accepting either schema.
func (b *Bank) Load() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	var records []Record
	if err := b.st.Load(store.DocRiddles, &records); err != nil {
		return fmt.Errorf("loading riddle bank: %w", err)
	}
	if records != nil {
		b.records = records
		return nil
	}

	// legacy import: mapping of question to answer
	legacy := map[string]string{}
	if err := b.st.Load(store.DocRiddles, &legacy); err != nil {
		return fmt.Errorf("loading legacy riddle bank: %w", err)
	}
	for q, a := range legacy {
		b.records = append(b.records, Record{Question: q, Answer: strings.ToLower(strings.TrimSpace(a))})
	}
	return nil
}

// Add validates and stores a new riddle, flushing immediately so an
// in-flight crash does not lose the entry.
func (b *Bank) Add(question, answer string) error {
	question = strings.TrimSpace(question)
	answer = strings.ToLower(strings.TrimSpace(answer))
	if question == "" || answer == "" {
		return ErrValidation
	}
	// an answer that normalizes to nothing could only ever match an empty
	// guess, so refuse it up front
	if Normalize(answer) == "" {
		return fmt.Errorf("%w: answer has no comparable words", ErrValidation)
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	b.records = append(b.records, Record{Question: question, Answer: answer})
	return b.flushLocked()
}

// Remove deletes the first riddle whose question matches, persisting
// immediately.
func (b *Bank) Remove(question string) error {
	question = strings.TrimSpace(question)

	b.mu.Lock()
	defer b.mu.Unlock()
	for i, r := range b.records {
		if r.Question == question {
			b.records = append(b.records[:i], b.records[i+1:]...)
			return b.flushLocked()
		}
	}
	return ErrNotFound
}

// RemoveAt deletes the riddle at a zero-based index.
func (b *Bank) RemoveAt(index int) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if index < 0 || index >= len(b.records) {
		return ErrNotFound
	}
	b.records = append(b.records[:index], b.records[index+1:]...)
	return b.flushLocked()
}

// PickRandom returns a uniformly random available riddle without removing
// it. Under the mark policy, solved entries are not available.
func (b *Bank) PickRandom() (Record, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	avail := b.availableLocked()
	if len(avail) == 0 {
		return Record{}, ErrEmptyBank
	}
	return avail[rand.Intn(len(avail))], nil
}

// Retire applies the consume policy: the solved riddle is deleted.
func (b *Bank) Retire(question string) error {
	return b.Remove(question)
}

// MarkSolved applies the mark policy: the solver is recorded and the entry
// is excluded from selection until ResetSolved.
func (b *Bank) MarkSolved(question, user string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	for i := range b.records {
		if b.records[i].Question == question && b.records[i].SolvedBy == "" {
			b.records[i].SolvedBy = user
			return b.flushLocked()
		}
	}
	return ErrNotFound
}

// ResetSolved clears every solved_by marker, returning marked riddles to
// the selectable pool.
func (b *Bank) ResetSolved() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	for i := range b.records {
		b.records[i].SolvedBy = ""
	}
	return b.flushLocked()
}

// Available reports how many riddles are selectable.
func (b *Bank) Available() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.availableLocked())
}

// Len reports the total number of stored riddles, solved included.
func (b *Bank) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.records)
}

// List returns a copy of the records for display.
func (b *Bank) List() []Record {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]Record, len(b.records))
	copy(out, b.records)
	return out
}

func (b *Bank) availableLocked() []Record {
	avail := make([]Record, 0, len(b.records))
	for _, r := range b.records {
		if r.SolvedBy == "" {
			avail = append(avail, r)
		}
	}
	return avail
}

func (b *Bank) flushLocked() error {
	if b.records == nil {
		// keep the persisted form an array, not null
		return b.st.Save(store.DocRiddles, []Record{})
	}
	return b.st.Save(store.DocRiddles, b.records)
}
