package riddle

import (
	"sync"
	"time"

	"github.com/patchwerk/discord-riddle-bot/logging"
)

// Solve policies. Consume deletes a solved riddle from the bank; mark
// records the solver and excludes the entry until an explicit reset.
const (
	SolveConsume = "consume"
	SolveMark    = "mark"
)

// Outcome of a guess evaluation.
type Outcome int

const (
	// OutcomeNoRound means no riddle is active; the message is ignored.
	OutcomeNoRound Outcome = iota
	// OutcomeCooldown means the user must wait before guessing again.
	OutcomeCooldown
	// OutcomeIncorrect means the guess was graded and is wrong.
	OutcomeIncorrect
	// OutcomeCorrect means the guess was graded and solved the riddle.
	OutcomeCorrect
)

// GuessResult reports what Evaluate decided and what rotation followed.
type GuessResult struct {
	Outcome      Outcome
	Wait         time.Duration // set on OutcomeCooldown
	NewScore     int           // set on OutcomeCorrect
	NextQuestion string        // set on OutcomeCorrect when the bank had more
	Exhausted    bool          // set on OutcomeCorrect when it did not
}

// ExpireResult reports the outcome of a daily-boundary expiry.
type ExpireResult struct {
	WasActive    bool
	Answer       string // the unsolved answer to announce
	NextQuestion string
	Exhausted    bool
}

// Manager is the round state machine: at most one active riddle, posted,
// solved, expired or stopped. Every transition and the whole guess
// evaluation run under one mutex, so a guess arriving mid-dialog or two
// simultaneous guesses can never observe a half-rotated round.
type Manager struct {
	mu        sync.Mutex
	bank      *Bank
	board     *Scoreboard
	cooldowns *CooldownTracker
	matcher   Matcher
	logger    *logging.Logger

	solvePolicy         string
	resetCooldownOnPost bool

	current *Record // nil when Idle
}

// ManagerOptions configures a Manager.
type ManagerOptions struct {
	SolvePolicy         string
	ResetCooldownOnPost bool
	Matcher             Matcher
	Logger              *logging.Logger
}

func NewManager(bank *Bank, board *Scoreboard, cooldowns *CooldownTracker, opts ManagerOptions) *Manager {
	if opts.Matcher == nil {
		opts.Matcher = ExactMatcher{}
	}
	if opts.Logger == nil {
		opts.Logger = logging.Default()
	}
	if opts.SolvePolicy == "" {
		opts.SolvePolicy = SolveConsume
	}
	return &Manager{
		bank:                bank,
		board:               board,
		cooldowns:           cooldowns,
		matcher:             opts.Matcher,
		logger:              opts.Logger,
		solvePolicy:         opts.SolvePolicy,
		resetCooldownOnPost: opts.ResetCooldownOnPost,
	}
}

// Current returns the active question, if any.
func (m *Manager) Current() (question string, active bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.current == nil {
		return "", false
	}
	return m.current.Question, true
}

// Post selects a random riddle and makes it the active round, replacing any
// riddle already up. Returns ErrEmptyBank when nothing is available.
func (m *Manager) Post() (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.postLocked()
}

func (m *Manager) postLocked() (string, error) {
	rec, err := m.bank.PickRandom()
	if err != nil {
		return "", err
	}
	m.current = &rec
	if m.resetCooldownOnPost {
		m.cooldowns.Reset()
	}
	m.logger.Info("riddle posted", "question", rec.Question)
	return rec.Question, nil
}

// Stop clears the active round without announcing the answer. Returns
// whether a round was active.
func (m *Manager) Stop() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	wasActive := m.current != nil
	m.current = nil
	return wasActive
}

// Evaluate grades a guess against the active round.
//
// The cooldown check-then-set, the comparison and the solve-then-rotate all
// happen under the manager lock as one atomic step.
func (m *Manager) Evaluate(user, text string, now time.Time) GuessResult {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.current == nil {
		return GuessResult{Outcome: OutcomeNoRound}
	}

	if wait := m.cooldowns.Remaining(user, now); wait > 0 {
		// a rejected attempt does not refresh the timestamp
		return GuessResult{Outcome: OutcomeCooldown, Wait: wait}
	}
	m.cooldowns.Record(user, now)

	if !m.matcher.Match(text, m.current.Answer) {
		return GuessResult{Outcome: OutcomeIncorrect}
	}

	solved := *m.current
	m.current = nil

	score, err := m.board.Increment(user)
	if err != nil {
		m.logger.Error("failed to persist scoreboard", "error", err.Error(), "user", user)
	}
	m.retire(solved, user)

	res := GuessResult{Outcome: OutcomeCorrect, NewScore: score}
	next, err := m.postLocked()
	if err != nil {
		res.Exhausted = true
		m.logger.Info("riddle bank exhausted", "solved_by", user)
	} else {
		res.NextQuestion = next
	}
	return res
}

// Expire is the daily-boundary transition: announce the unsolved answer,
// then rotate without scoring anyone.
func (m *Manager) Expire() ExpireResult {
	m.mu.Lock()
	defer m.mu.Unlock()

	res := ExpireResult{}
	if m.current != nil {
		res.WasActive = true
		res.Answer = m.current.Answer
		expired := *m.current
		m.current = nil
		m.retire(expired, "")
	}

	next, err := m.postLocked()
	if err != nil {
		res.Exhausted = true
	} else {
		res.NextQuestion = next
	}
	return res
}

// retire applies the configured solve policy to a finished riddle. An
// expiry passes an empty user; under the mark policy the entry then stays
// selectable, matching selection-with-replacement.
func (m *Manager) retire(rec Record, user string) {
	switch m.solvePolicy {
	case SolveMark:
		if user == "" {
			return
		}
		if err := m.bank.MarkSolved(rec.Question, user); err != nil {
			m.logger.Error("failed to mark riddle solved", "error", err.Error(), "question", rec.Question)
		}
	default:
		if err := m.bank.Retire(rec.Question); err != nil {
			m.logger.Error("failed to retire riddle", "error", err.Error(), "question", rec.Question)
		}
	}
}
