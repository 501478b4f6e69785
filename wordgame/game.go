// Package wordgame runs the auxiliary word-guessing game: one hidden word,
// letter and whole-word guesses, a fixed budget of wrong attempts. The game
// snapshot is flushed after every mutation so a restart resumes a running
// game where it stood.
package wordgame

import (
	"errors"
	"fmt"
	"strings"
	"sync"
	"unicode"

	"github.com/patchwerk/discord-riddle-bot/logging"
	"github.com/patchwerk/discord-riddle-bot/store"
)

// DefaultAttempts is the wrong-guess budget of a fresh game.
const DefaultAttempts = 6

var (
	// ErrNoGame flags a guess with no game running.
	ErrNoGame = errors.New("no word game is running")
	// ErrGameRunning flags a start while a game is already up.
	ErrGameRunning = errors.New("a word game is already running")
	// ErrBadWord flags a start word with no letters in it.
	ErrBadWord = errors.New("word must contain letters")
)

// Snapshot is the persisted game state. The field names are the wire schema;
// they must stay stable across deployments.
type Snapshot struct {
	CurrentWord       string   `json:"current_word"`
	GuessedLetters    []string `json:"guessed_letters"`
	AttemptsRemaining int      `json:"attempts_remaining"`
	GameRunning       bool     `json:"game_running"`
}

// Result reports the effect of a guess.
type Result struct {
	Correct           bool
	Won               bool
	Lost              bool
	Masked            string
	AttemptsRemaining int
	Revealed          string // the word, set when the game just ended
}

// Storer is the slice of the document store the game needs.
type Storer interface {
	Load(name string, v any) error
	Save(name string, v any) error
}

// Game is the word-game state machine.
type Game struct {
	mu     sync.Mutex
	snap   Snapshot
	st     Storer
	logger *logging.Logger
}

func New(st Storer, logger *logging.Logger) *Game {
	if logger == nil {
		logger = logging.Default()
	}
	return &Game{st: st, logger: logger}
}

// Load restores a persisted snapshot, if any.
func (g *Game) Load() error {
	g.mu.Lock()
	defer g.mu.Unlock()
	if err := g.st.Load(store.DocWordGame, &g.snap); err != nil {
		return fmt.Errorf("loading word game: %w", err)
	}
	return nil
}

// Running reports whether a game is up.
func (g *Game) Running() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.snap.GameRunning
}

// Masked returns the current word with unguessed letters hidden.
func (g *Game) Masked() string {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.maskedLocked()
}

// Start begins a new game with the given word.
func (g *Game) Start(word string) error {
	word = strings.ToLower(strings.TrimSpace(word))

	hasLetter := false
	for _, r := range word {
		if unicode.IsLetter(r) {
			hasLetter = true
			break
		}
	}
	if !hasLetter {
		return ErrBadWord
	}

	g.mu.Lock()
	defer g.mu.Unlock()
	if g.snap.GameRunning {
		return ErrGameRunning
	}
	g.snap = Snapshot{
		CurrentWord:       word,
		GuessedLetters:    []string{},
		AttemptsRemaining: DefaultAttempts,
		GameRunning:       true,
	}
	g.logger.Info("word game started", "length", len(word))
	return g.flushLocked()
}

// GuessLetter grades a single-letter guess. A repeated letter costs
// nothing. Wrong letters burn one attempt.
func (g *Game) GuessLetter(letter string) (Result, error) {
	letter = strings.ToLower(strings.TrimSpace(letter))
	runes := []rune(letter)
	if len(runes) != 1 || !unicode.IsLetter(runes[0]) {
		return Result{}, ErrBadWord
	}

	g.mu.Lock()
	defer g.mu.Unlock()
	if !g.snap.GameRunning {
		return Result{}, ErrNoGame
	}

	if g.guessedLocked(letter) {
		return Result{
			Correct:           strings.Contains(g.snap.CurrentWord, letter),
			Masked:            g.maskedLocked(),
			AttemptsRemaining: g.snap.AttemptsRemaining,
		}, nil
	}

	g.snap.GuessedLetters = append(g.snap.GuessedLetters, letter)
	res := Result{Correct: strings.Contains(g.snap.CurrentWord, letter)}
	if !res.Correct {
		g.snap.AttemptsRemaining--
	}
	g.settleLocked(&res)
	return res, g.flushLocked()
}

// GuessWord grades a whole-word guess. A wrong word burns one attempt.
func (g *Game) GuessWord(word string) (Result, error) {
	word = strings.ToLower(strings.TrimSpace(word))

	g.mu.Lock()
	defer g.mu.Unlock()
	if !g.snap.GameRunning {
		return Result{}, ErrNoGame
	}

	res := Result{Correct: word == g.snap.CurrentWord}
	if res.Correct {
		res.Won = true
		res.Revealed = g.snap.CurrentWord
		g.snap.GameRunning = false
	} else {
		g.snap.AttemptsRemaining--
		g.settleLocked(&res)
	}
	if res.Won {
		res.Masked = g.snap.CurrentWord
		res.AttemptsRemaining = g.snap.AttemptsRemaining
	}
	return res, g.flushLocked()
}

// Stop abandons a running game. Returns whether one was running.
func (g *Game) Stop() (bool, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	wasRunning := g.snap.GameRunning
	g.snap.GameRunning = false
	return wasRunning, g.flushLocked()
}

// settleLocked fills the result view and ends the game on a win or loss.
func (g *Game) settleLocked(res *Result) {
	res.Masked = g.maskedLocked()
	res.AttemptsRemaining = g.snap.AttemptsRemaining

	if !strings.Contains(res.Masked, "_") {
		res.Won = true
		res.Revealed = g.snap.CurrentWord
		g.snap.GameRunning = false
		return
	}
	if g.snap.AttemptsRemaining <= 0 {
		res.Lost = true
		res.Revealed = g.snap.CurrentWord
		g.snap.GameRunning = false
	}
}

func (g *Game) guessedLocked(letter string) bool {
	for _, l := range g.snap.GuessedLetters {
		if l == letter {
			return true
		}
	}
	return false
}

func (g *Game) maskedLocked() string {
	var b strings.Builder
	for _, r := range g.snap.CurrentWord {
		switch {
		case !unicode.IsLetter(r):
			b.WriteRune(r)
		case g.guessedLocked(string(r)):
			b.WriteRune(r)
		default:
			b.WriteRune('_')
		}
	}
	return b.String()
}

func (g *Game) flushLocked() error {
	return g.st.Save(store.DocWordGame, g.snap)
}
