package database

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// GuessArchiver records graded guesses and solves for later analysis. The
// archive is strictly write-behind: failures are the caller's to log, never
// to act on.
type GuessArchiver interface {
	InsertGuess(ctx context.Context, g GuessRecord) (uuid.UUID, error)
	InsertSolve(ctx context.Context, s SolveRecord) error
}

// GuessRecord is one graded guess, right or wrong.
type GuessRecord struct {
	UUID      uuid.UUID `db:"uuid"`
	UserID    string    `db:"user_id"`
	ChannelID string    `db:"channel_id"`
	Question  string    `db:"question"`
	Guess     string    `db:"guess"`
	Correct   bool      `db:"correct"`
	CreatedAt time.Time `db:"created_at"`
}

// SolveRecord is one solved riddle.
type SolveRecord struct {
	UUID      uuid.UUID `db:"uuid"`
	UserID    string    `db:"user_id"`
	Question  string    `db:"question"`
	Answer    string    `db:"answer"`
	NewScore  int       `db:"new_score"`
	CreatedAt time.Time `db:"created_at"`
}

// InsertGuess inserts a graded guess and returns its ID.
func (p *Postgres) InsertGuess(ctx context.Context, g GuessRecord) (uuid.UUID, error) {
	ID, err := uuid.NewUUID()
	if err != nil {
		p.logger.Error("error generating UUID", "error", err.Error())
		return uuid.UUID{}, fmt.Errorf("error generating UUID: %w", err)
	}
	g.UUID = ID
	if g.CreatedAt.IsZero() {
		g.CreatedAt = time.Now()
	}

	query := "INSERT INTO guess_log (uuid, user_id, channel_id, question, guess, correct, created_at) VALUES (:uuid, :user_id, :channel_id, :question, :guess, :correct, :created_at)"
	p.logger.Debug("inserting guess into archive", "guessID", ID, "user", g.UserID)

	_, err = p.connections.NamedExecContext(ctx, query, g)
	if err != nil {
		p.logger.Error("error inserting guess", "error", err.Error(), "guessID", ID)
		return uuid.UUID{}, fmt.Errorf("error inserting guess: %w", err)
	}
	return ID, nil
}

// InsertSolve inserts a solve record.
func (p *Postgres) InsertSolve(ctx context.Context, s SolveRecord) error {
	ID, err := uuid.NewUUID()
	if err != nil {
		p.logger.Error("error generating UUID", "error", err.Error())
		return fmt.Errorf("error generating UUID: %w", err)
	}
	s.UUID = ID
	if s.CreatedAt.IsZero() {
		s.CreatedAt = time.Now()
	}

	query := "INSERT INTO solve_log (uuid, user_id, question, answer, new_score, created_at) VALUES (:uuid, :user_id, :question, :answer, :new_score, :created_at)"
	_, err = p.connections.NamedExecContext(ctx, query, s)
	if err != nil {
		p.logger.Error("error inserting solve", "error", err.Error(), "solveID", ID)
		return fmt.Errorf("error inserting solve: %w", err)
	}
	return nil
}

// NoopArchiver satisfies GuessArchiver when no POSTGRES_URL is configured.
type NoopArchiver struct{}

func (NoopArchiver) InsertGuess(ctx context.Context, g GuessRecord) (uuid.UUID, error) {
	return uuid.UUID{}, nil
}

func (NoopArchiver) InsertSolve(ctx context.Context, s SolveRecord) error {
	return nil
}
