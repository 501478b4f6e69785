package riddle

import "errors"

// Error taxonomy for the riddle lifecycle. All of these are reported back to
// the user in the originating channel; none is fatal to the event loop.
var (
	// ErrValidation flags malformed admin input (empty question or answer).
	ErrValidation = errors.New("question and answer must not be empty")
	// ErrNotFound flags removal of a riddle that is not in the bank.
	ErrNotFound = errors.New("riddle not found")
	// ErrEmptyBank flags a post attempt with no riddles available.
	ErrEmptyBank = errors.New("no riddles available")
)
