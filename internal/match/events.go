package match

import "github.com/robalobadob/wordduel/internal/game"

// EventType names an event on the wire.
type EventType string

const (
	EventRoundStarted   EventType = "round_started"
	EventGuessEvaluated EventType = "guess_evaluated"
	EventTurnChanged    EventType = "turn_changed"
	EventRoundSummary   EventType = "round_summary"
	EventMatchFinished  EventType = "match_finished"
)

// Event is emitted by every state transition. The presentation layer
// renders events; the match never renders anything itself.
type Event interface {
	Type() EventType
}

// Standing is a player's position in a ranking.
type Standing struct {
	Position int      `json:"position"`
	Name     string   `json:"name"`
	Score    int      `json:"score"`
	Guessed  []string `json:"guessed"`
}

// RoundStarted announces a fresh board.
type RoundStarted struct {
	Round       int    `json:"round"`
	NumRounds   int    `json:"numRounds"`
	WordLength  int    `json:"wordLength"`
	MaxAttempts int    `json:"maxAttempts"`
	Player      string `json:"player"` // whose turn it is
}

// GuessEvaluated carries the verdicts for one row of the board.
type GuessEvaluated struct {
	Round   int                 `json:"round"`
	Attempt int                 `json:"attempt"` // zero-based board row
	Player  string              `json:"player"`
	Letters []game.LetterResult `json:"letters"`
}

// TurnChanged hands the board to the next player within a round.
type TurnChanged struct {
	Round   int    `json:"round"`
	Attempt int    `json:"attempt"`
	Player  string `json:"player"`
}

// RoundSummary reports how a round ended. Winner is empty when the
// attempts ran out.
type RoundSummary struct {
	Round     int        `json:"round"`
	Secret    string     `json:"secret"`
	Winner    string     `json:"winner,omitempty"`
	Standings []Standing `json:"standings"`
}

// MatchFinished is the terminal event.
type MatchFinished struct {
	Result     Result     `json:"result"`
	Winner     string     `json:"winner,omitempty"`
	Ranking    []Standing `json:"ranking"`
	LastSecret string     `json:"lastSecret"`
}

func (RoundStarted) Type() EventType   { return EventRoundStarted }
func (GuessEvaluated) Type() EventType { return EventGuessEvaluated }
func (TurnChanged) Type() EventType    { return EventTurnChanged }
func (RoundSummary) Type() EventType   { return EventRoundSummary }
func (MatchFinished) Type() EventType  { return EventMatchFinished }
