// internal/match/types.go
//
// Type definitions for the match state machine.
// Defines:
//   - Config: dimensions of a match (word length, attempts, rounds).
//   - Player: name, score and words guessed.
//   - State / Result: lifecycle and final outcome.
//   - WordSource / Random: collaborators injected at construction.

package match

import "fmt"

// State is the lifecycle stage of a match.
type State string

const (
	StateInProgress State = "in_progress"
	StateFinished   State = "finished"
)

// Result is the final outcome of a finished match.
type Result string

const (
	ResultWinner   Result = "winner"    // one player strictly ahead with a positive score
	ResultTie      Result = "tie"       // top score shared and positive
	ResultNoWinner Result = "no_winner" // nobody scored
)

// Config holds the match dimensions supplied at creation.
type Config struct {
	WordLength  int `json:"wordLength"`
	MaxAttempts int `json:"maxAttempts"`
	NumRounds   int `json:"numRounds"`
}

// Validate checks that every dimension is positive.
func (c Config) Validate() error {
	switch {
	case c.WordLength <= 0:
		return fmt.Errorf("%w: word length must be positive, got %d", ErrInvalidConfig, c.WordLength)
	case c.MaxAttempts <= 0:
		return fmt.Errorf("%w: max attempts must be positive, got %d", ErrInvalidConfig, c.MaxAttempts)
	case c.NumRounds <= 0:
		return fmt.Errorf("%w: number of rounds must be at least 1, got %d", ErrInvalidConfig, c.NumRounds)
	}
	return nil
}

// Player is a participant's running tally.
type Player struct {
	Name    string
	Score   int
	Guessed []string // secret words this player solved, in order
}

// credit records a solved round.
func (p *Player) credit(word string) {
	p.Score++
	p.Guessed = append(p.Guessed, word)
}

// WordSource supplies secret words. Words returns every remaining candidate
// of the given length; Remove withdraws a drawn word so it is not repeated.
type WordSource interface {
	Words(length int) []string
	Remove(word string)
}

// Random picks uniformly in [0, n). *rand.Rand from math/rand/v2 satisfies it.
type Random interface {
	IntN(n int) int
}
