package match

import "github.com/robalobadob/wordduel/internal/game"

// PlayerView is a read-only copy of a Player.
type PlayerView struct {
	Name    string   `json:"name"`
	Score   int      `json:"score"`
	Guessed []string `json:"guessed"`
}

// Snapshot is everything a client needs to redraw the match.
// Secret is only filled in once the round is over.
type Snapshot struct {
	ID           string                  `json:"id"`
	State        State                   `json:"state"`
	Config       Config                  `json:"config"`
	Round        int                     `json:"round"`
	Attempt      int                     `json:"attempt"`
	ActivePlayer string                  `json:"activePlayer,omitempty"`
	Pending      bool                    `json:"pending"`
	Players      []PlayerView            `json:"players"`
	Board        [][]game.LetterResult   `json:"board"`
	Keyboard     map[string]game.Verdict `json:"keyboard"`
	Secret       string                  `json:"secret,omitempty"`
	Final        *MatchFinished          `json:"final,omitempty"`
}

// Snapshot copies the current state.
func (m *Match) Snapshot() Snapshot {
	s := Snapshot{
		ID:      m.id,
		State:   m.state,
		Config:  m.cfg,
		Round:   m.round,
		Attempt: m.attempt,
		Pending: m.pending,
		Board:   make([][]game.LetterResult, len(m.board)),
		Players: make([]PlayerView, len(m.players)),
	}
	for i, row := range m.board {
		s.Board[i] = append([]game.LetterResult(nil), row...)
	}
	s.Keyboard = game.KeyStates(m.board)
	for i, p := range m.players {
		s.Players[i] = PlayerView{Name: p.Name, Score: p.Score, Guessed: append([]string{}, p.Guessed...)}
	}
	if m.state == StateInProgress && m.round > 0 && !m.pending {
		s.ActivePlayer = m.players[m.active].Name
	}
	if m.pending || m.state == StateFinished {
		s.Secret = m.secret
	}
	if m.final != nil {
		f := *m.final
		s.Final = &f
	}
	return s
}
