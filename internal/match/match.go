// internal/match/match.go
//
// Match state machine for a multi-round guessing duel.
// Responsibilities:
//   - Draw secret words without replacement from the injected WordSource.
//   - Pick the starting player (random in round 1, rotating afterwards).
//   - Validate and apply guesses, credit points, rotate turns.
//   - Hold a pending transition between a finished round and the next one.
//   - Finalize the ranking once every round has been played.
//
// State transitions:
//   in_progress ──StartRound──▶ round n (board open)
//   round n ──SubmitGuess (solved or last attempt)──▶ pending
//   pending ──Advance──▶ round n+1, or finished after the last round
//
// A Match is not safe for concurrent use; callers serialize access
// (see the session package).
package match

import (
	"fmt"
	"math/rand/v2"
	"strings"

	"github.com/rs/zerolog"

	"github.com/robalobadob/wordduel/internal/game"
)

// Match is a sequence of rounds with persistent scoring across them.
type Match struct {
	id      string
	cfg     Config
	players []*Player
	words   WordSource
	rng     Random
	accept  func(string) bool
	log     zerolog.Logger

	state   State
	round   int    // 1-based once started
	secret  string // uppercase
	attempt int    // zero-based attempt within the round
	active  int    // index of the player whose turn it is
	starter int    // index of the player who opened the current round
	pending bool   // round over, waiting for Advance
	board   [][]game.LetterResult
	final   *MatchFinished
}

// Option customizes a Match at construction.
type Option func(*Match)

// WithRandom injects the randomness used for word draws and the first pick.
func WithRandom(r Random) Option { return func(m *Match) { m.rng = r } }

// WithLogger attaches a logger; the default discards everything.
func WithLogger(l zerolog.Logger) Option { return func(m *Match) { m.log = l } }

// WithID sets the match identifier.
func WithID(id string) Option { return func(m *Match) { m.id = id } }

// WithGuessFilter rejects well-formed guesses for which accept returns false.
func WithGuessFilter(accept func(string) bool) Option { return func(m *Match) { m.accept = accept } }

// New constructs a match. It fails with ErrInvalidConfig for a bad config or
// player list and with ErrNoWords when the source has no word of the
// configured length. No round is started.
func New(names []string, cfg Config, src WordSource, opts ...Option) (*Match, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if len(names) == 0 {
		return nil, fmt.Errorf("%w: at least one player is required", ErrInvalidConfig)
	}
	players := make([]*Player, len(names))
	for i, n := range names {
		n = strings.TrimSpace(n)
		if n == "" {
			return nil, fmt.Errorf("%w: player %d has no name", ErrInvalidConfig, i+1)
		}
		players[i] = &Player{Name: n, Guessed: []string{}}
	}
	if src == nil || len(src.Words(cfg.WordLength)) == 0 {
		return nil, fmt.Errorf("%w: length %d", ErrNoWords, cfg.WordLength)
	}

	m := &Match{
		cfg:     cfg,
		players: players,
		words:   src,
		log:     zerolog.Nop(),
		state:   StateInProgress,
	}
	for _, o := range opts {
		o(m)
	}
	if m.rng == nil {
		m.rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	m.log = m.log.With().Str("match", m.id).Logger()
	return m, nil
}

// ID returns the match identifier.
func (m *Match) ID() string { return m.id }

// Config returns the match dimensions.
func (m *Match) Config() Config { return m.cfg }

// State returns the lifecycle stage.
func (m *Match) State() State { return m.state }

// Pending reports whether a finished round is waiting for Advance.
func (m *Match) Pending() bool { return m.pending }

// StartRound opens the next round, or finalizes the match when every
// configured round has been played. It is valid before the first round and
// while a transition is pending.
func (m *Match) StartRound() ([]Event, error) {
	if m.state == StateFinished {
		return nil, ErrMatchFinished
	}
	if m.round > 0 && !m.pending {
		return nil, ErrRoundInProgress
	}
	if m.round >= m.cfg.NumRounds {
		return []Event{m.finalize()}, nil
	}

	secret, err := m.draw()
	if err != nil {
		return nil, err
	}

	m.round++
	m.attempt = 0
	m.secret = secret
	m.pending = false
	m.board = nil

	if m.round == 1 {
		m.starter = m.rng.IntN(len(m.players))
	} else {
		m.starter = (m.starter + 1) % len(m.players)
	}
	m.active = m.starter

	m.log.Debug().Int("round", m.round).Str("player", m.players[m.active].Name).Msg("round started")
	return []Event{RoundStarted{
		Round:       m.round,
		NumRounds:   m.cfg.NumRounds,
		WordLength:  m.cfg.WordLength,
		MaxAttempts: m.cfg.MaxAttempts,
		Player:      m.players[m.active].Name,
	}}, nil
}

// Advance runs the pending transition: the next round, or the final ranking.
func (m *Match) Advance() ([]Event, error) {
	if m.state == StateFinished {
		return nil, ErrMatchFinished
	}
	if !m.pending {
		return nil, ErrNothingPending
	}
	return m.StartRound()
}

// Outcome is what a single guess produced.
type Outcome struct {
	Letters   []game.LetterResult
	Solved    bool
	RoundOver bool
	Events    []Event
}

// SubmitGuess evaluates text for the active player.
//
// Validation rules:
//   - Match must be in progress with an open round.
//   - text must be exactly WordLength letters A–Z (any case) → else ErrInvalidInput.
//   - If a guess filter is set, it must accept the word → else ErrNotInWordList.
//
// A rejected guess does not consume an attempt or change the turn.
func (m *Match) SubmitGuess(text string) (Outcome, error) {
	switch {
	case m.state == StateFinished:
		return Outcome{}, ErrMatchFinished
	case m.round == 0:
		return Outcome{}, ErrRoundNotStarted
	case m.pending:
		return Outcome{}, ErrRoundOver
	}

	guess := game.Normalize(text)
	if !game.Valid(guess, m.cfg.WordLength) {
		return Outcome{}, fmt.Errorf("%w: want %d letters A-Z, got %q", ErrInvalidInput, m.cfg.WordLength, text)
	}
	if m.accept != nil && !m.accept(guess) {
		return Outcome{}, fmt.Errorf("%w: %s", ErrNotInWordList, guess)
	}

	player := m.players[m.active]
	letters := game.Evaluate(m.secret, guess)
	m.board = append(m.board, letters)

	out := Outcome{Letters: letters}
	out.Events = append(out.Events, GuessEvaluated{
		Round:   m.round,
		Attempt: m.attempt,
		Player:  player.Name,
		Letters: letters,
	})

	out.Solved = guess == m.secret
	lost := !out.Solved && m.attempt >= m.cfg.MaxAttempts-1

	if out.Solved {
		player.credit(m.secret)
	}

	if out.Solved || lost {
		out.RoundOver = true
		m.pending = true
		summary := RoundSummary{
			Round:     m.round,
			Secret:    m.secret,
			Standings: Rank(m.players),
		}
		if out.Solved {
			summary.Winner = player.Name
		}
		m.log.Debug().Int("round", m.round).Str("winner", summary.Winner).Msg("round over")
		out.Events = append(out.Events, summary)
		return out, nil
	}

	m.attempt++
	m.active = (m.active + 1) % len(m.players)
	out.Events = append(out.Events, TurnChanged{
		Round:   m.round,
		Attempt: m.attempt,
		Player:  m.players[m.active].Name,
	})
	return out, nil
}

// Final returns the terminal event once the match is finished.
func (m *Match) Final() (MatchFinished, bool) {
	if m.final == nil {
		return MatchFinished{}, false
	}
	return *m.final, true
}

// finalize computes the ranking and freezes the match.
func (m *Match) finalize() Event {
	m.state = StateFinished
	m.pending = false
	ranking := Rank(m.players)
	result, winner := Decide(ranking)
	m.final = &MatchFinished{
		Result:     result,
		Winner:     winner,
		Ranking:    ranking,
		LastSecret: m.secret,
	}
	m.log.Info().Str("result", string(result)).Str("winner", winner).Msg("match finished")
	return *m.final
}

// draw picks a secret uniformly at random and removes it from the source.
func (m *Match) draw() (string, error) {
	candidates := m.words.Words(m.cfg.WordLength)
	if len(candidates) == 0 {
		return "", fmt.Errorf("%w: round %d of %d", ErrInsufficientWords, m.round+1, m.cfg.NumRounds)
	}
	w := candidates[m.rng.IntN(len(candidates))]
	m.words.Remove(w)
	return strings.ToUpper(w), nil
}
