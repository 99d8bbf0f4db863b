// internal/httpserver/routes_match.go
//
// HTTP routes for playing a match.
//   - POST   /match/new          → create a match and open round 1
//   - GET    /match/{id}         → current snapshot
//   - POST   /match/{id}/guess   → submit a guess for the active player
//   - POST   /match/{id}/advance → skip the pause after a finished round
//   - DELETE /match/{id}         → close the match
//
// Every response that changes state carries the emitted events, in order,
// so a client can render without polling.

package httpserver

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/robalobadob/wordduel/internal/game"
	"github.com/robalobadob/wordduel/internal/match"
	"github.com/robalobadob/wordduel/internal/seed"
	"github.com/robalobadob/wordduel/internal/session"
	"github.com/robalobadob/wordduel/internal/words"
)

// envelope is the wire shape of a match event.
type envelope struct {
	Type match.EventType `json:"type"`
	Data any             `json:"data"`
}

func envelopes(evs []match.Event) []envelope {
	out := make([]envelope, len(evs))
	for i, ev := range evs {
		out[i] = envelope{Type: ev.Type(), Data: ev}
	}
	return out
}

// newMatchReq/Res payloads for POST /match/new.
type newMatchReq struct {
	Players     []string `json:"players"`
	WordLength  int      `json:"wordLength"`
	MaxAttempts int      `json:"maxAttempts"`
	NumRounds   int      `json:"numRounds"`
	Seed        string   `json:"seed"` // optional; same seed → same words and first player
}
type newMatchRes struct {
	MatchID   string         `json:"matchId"`
	Token     string         `json:"token"`
	ExpiresAt time.Time      `json:"expiresAt"`
	Snapshot  match.Snapshot `json:"snapshot"`
	Events    []envelope     `json:"events"`
}

// handleNewMatch validates the bootstrap parameters, creates the match and
// its session, and opens the first round.
func (s *Server) handleNewMatch(w http.ResponseWriter, r *http.Request) {
	var req newMatchReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_json")
		return
	}
	if len(req.Players) == 0 || len(req.Players) > s.cfg.MaxPlayers {
		writeError(w, http.StatusBadRequest, "invalid_players")
		return
	}
	cfg := match.Config{WordLength: req.WordLength, MaxAttempts: req.MaxAttempts, NumRounds: req.NumRounds}
	if err := cfg.Validate(); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_config")
		return
	}

	// Precondition: enough candidate words, checked before construction.
	switch available := len(s.dict.WordsOfLength(cfg.WordLength)); {
	case available == 0:
		writeError(w, http.StatusUnprocessableEntity, "no_words_for_length")
		return
	case available < cfg.NumRounds:
		writeError(w, http.StatusUnprocessableEntity, "insufficient_words")
		return
	}

	id := uuid.NewString()
	rng := seed.Random()
	if req.Seed != "" {
		rng = seed.New(s.cfg.SeedSalt, strings.TrimSpace(req.Seed))
	}
	opts := []match.Option{
		match.WithID(id),
		match.WithRandom(rng),
		match.WithLogger(log.Logger),
	}
	if s.cfg.StrictGuesses {
		opts = append(opts, match.WithGuessFilter(s.dict.Contains))
	}

	m, err := match.New(req.Players, cfg, words.NewPool(s.dict, cfg.WordLength), opts...)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	sess := session.New(m, s.clock, s.cfg.AdvanceDelay, log.Logger)
	evs, err := sess.Start()
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	if err := s.store.Save(r.Context(), sess); err != nil {
		log.Error().Err(err).Str("match", id).Msg("save match")
		writeError(w, http.StatusInternalServerError, "save_failed")
		return
	}

	tok, exp, err := s.signMatchToken(id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "sign_failed")
		return
	}
	s.setMatchCookie(w, tok, exp)

	log.Info().Str("match", id).Strs("players", req.Players).
		Int("wordLength", cfg.WordLength).Int("rounds", cfg.NumRounds).Msg("match created")
	writeJSON(w, http.StatusOK, newMatchRes{
		MatchID:   id,
		Token:     tok,
		ExpiresAt: exp,
		Snapshot:  sess.Snapshot(),
		Events:    envelopes(evs),
	})
}

// handleSnapshot returns the current match view.
func (s *Server) handleSnapshot(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, sessionFrom(r).Snapshot())
}

// guessReq/Res payloads for POST /match/{id}/guess.
type guessReq struct {
	Guess string `json:"guess"`
}
type guessRes struct {
	Letters   []game.LetterResult `json:"letters"`
	Solved    bool                `json:"solved"`
	RoundOver bool                `json:"roundOver"`
	Events    []envelope          `json:"events"`
	Snapshot  match.Snapshot      `json:"snapshot"`
}

// handleGuess applies a guess for the active player.
func (s *Server) handleGuess(w http.ResponseWriter, r *http.Request) {
	var req guessReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_json")
		return
	}
	sess := sessionFrom(r)
	out, err := sess.Guess(req.Guess)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, guessRes{
		Letters:   out.Letters,
		Solved:    out.Solved,
		RoundOver: out.RoundOver,
		Events:    envelopes(out.Events),
		Snapshot:  sess.Snapshot(),
	})
}

// advanceRes payload for POST /match/{id}/advance.
type advanceRes struct {
	Events   []envelope     `json:"events"`
	Snapshot match.Snapshot `json:"snapshot"`
}

// handleAdvance runs the pending transition immediately.
func (s *Server) handleAdvance(w http.ResponseWriter, r *http.Request) {
	sess := sessionFrom(r)
	evs, err := sess.Advance()
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, advanceRes{Events: envelopes(evs), Snapshot: sess.Snapshot()})
}

// handleClose forgets the match and disconnects its streams.
func (s *Server) handleClose(w http.ResponseWriter, r *http.Request) {
	if err := s.store.Delete(r.Context(), sessionFrom(r).ID()); err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
}
