// internal/httpserver/server.go
//
// HTTP server wiring for the WordDuel backend.
// Responsibilities:
//   - Router + middleware (JSON, CORS, timeouts, panic recovery, request IDs, access log).
//   - Public endpoints: "/", "/health", "/debug/words".
//   - Match endpoints: POST /match/new, then /match/{id}/... guarded by the match token.
//   - WebSocket stream of match events at /match/{id}/ws.
//   - Periodic sweep of idle matches.
//
// Notes:
//   - The server is the presentation boundary: it renders match events as JSON
//     and never reaches into match state except through a session.
//   - Timeouts apply to plain HTTP routes only; the WebSocket route is long-lived.

package httpserver

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"

	"github.com/robalobadob/wordduel/internal/config"
	"github.com/robalobadob/wordduel/internal/match"
	"github.com/robalobadob/wordduel/internal/session"
	"github.com/robalobadob/wordduel/internal/store"
	"github.com/robalobadob/wordduel/internal/words"
)

const handlerTimeout = 10 * time.Second

// Server bundles router, session store, dictionary and settings.
type Server struct {
	r        *chi.Mux
	store    store.Store
	dict     *words.Dictionary
	cfg      config.Config
	clock    session.Clock
	upgrader websocket.Upgrader
}

// New constructs a Server, installs middleware, and registers routes.
func New(st store.Store, dict *words.Dictionary, cfg config.Config) *Server {
	s := &Server{
		r:     chi.NewRouter(),
		store: st,
		dict:  dict,
		cfg:   cfg,
		clock: session.RealClock,
	}
	s.upgrader = websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin:     s.checkOrigin,
	}

	// --- middleware ---
	s.r.Use(chimw.RequestID)        // add X-Request-ID
	s.r.Use(chimw.RealIP)           // set RemoteAddr from X-Forwarded-For etc.
	s.r.Use(requestLogger)          // one zerolog line per request
	s.r.Use(chimw.Recoverer)        // recover from panics
	s.r.Use(jsonContentType)        // default JSON responses
	s.r.Use(cors(cfg.ClientOrigin)) // credentials-friendly CORS

	s.r.Group(func(r chi.Router) {
		r.Use(chimw.Timeout(handlerTimeout)) // bound handler time

		// --- diagnostics ---
		r.Get("/", func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`{"service":"wordduel","endpoints":["/health","/debug/words","POST /match/new","/match/{id}"]}`))
		})
		r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`{"ok":true}`))
		})
		r.Get("/debug/words", s.handleWordStats)

		r.Post("/match/new", s.handleNewMatch)
	})

	// Match routes require the token issued by /match/new.
	s.r.Route("/match/{id}", func(r chi.Router) {
		r.Use(s.withSession)

		// Long-lived; outside the timeout group.
		r.Get("/ws", s.handleStream)

		r.Group(func(r chi.Router) {
			r.Use(chimw.Timeout(handlerTimeout))
			r.Get("/", s.handleSnapshot)
			r.Post("/guess", s.handleGuess)
			r.Post("/advance", s.handleAdvance)
			r.Delete("/", s.handleClose)
		})
	})

	// JSON 404 for easier debugging
	s.r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "not_found", "path": r.URL.Path})
	})

	return s
}

// Start begins serving HTTP on addr.
func (s *Server) Start(addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.r,
		ReadHeaderTimeout: 5 * time.Second,
	}
	return srv.ListenAndServe()
}

// Router exposes the internal router (useful for tests).
func (s *Server) Router() chi.Router { return s.r }

// SweepIdle closes matches idle for longer than the configured timeout,
// checking every interval until ctx is done.
func (s *Server) SweepIdle(ctx context.Context, interval time.Duration) {
	t := time.NewTicker(interval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case now := <-t.C:
			if n := s.store.Sweep(ctx, now.Add(-s.cfg.IdleTimeout)); n > 0 {
				log.Info().Int("closed", n).Int("live", s.store.Len()).Msg("swept idle matches")
			}
		}
	}
}

// handleWordStats reports how many words exist per length.
func (s *Server) handleWordStats(w http.ResponseWriter, r *http.Request) {
	_ = json.NewEncoder(w).Encode(map[string]any{
		"total":    s.dict.Len(),
		"lengths":  s.dict.SortedLengths(),
		"byLength": s.dict.Lengths(),
	})
}

// -------------------------------- helpers ----------------------------------

// writeJSON writes v with the given status.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError writes {"error": code}.
func writeError(w http.ResponseWriter, status int, code string) {
	writeJSON(w, status, map[string]string{"error": code})
}

// errorCode maps domain errors to an HTTP status and wire code.
func errorCode(err error) (int, string) {
	switch {
	case errors.Is(err, match.ErrInvalidInput):
		return http.StatusBadRequest, "invalid_input"
	case errors.Is(err, match.ErrNotInWordList):
		return http.StatusBadRequest, "not_in_word_list"
	case errors.Is(err, match.ErrInvalidConfig):
		return http.StatusBadRequest, "invalid_config"
	case errors.Is(err, match.ErrNoWords):
		return http.StatusUnprocessableEntity, "no_words_for_length"
	case errors.Is(err, match.ErrInsufficientWords):
		return http.StatusUnprocessableEntity, "insufficient_words"
	case errors.Is(err, match.ErrRoundOver):
		return http.StatusConflict, "round_over"
	case errors.Is(err, match.ErrNothingPending):
		return http.StatusConflict, "nothing_pending"
	case errors.Is(err, match.ErrRoundInProgress):
		return http.StatusConflict, "round_in_progress"
	case errors.Is(err, match.ErrRoundNotStarted):
		return http.StatusConflict, "round_not_started"
	case errors.Is(err, match.ErrMatchFinished):
		return http.StatusConflict, "match_finished"
	case errors.Is(err, session.ErrClosed), errors.Is(err, store.ErrNotFound):
		return http.StatusNotFound, "not_found"
	}
	return http.StatusInternalServerError, "internal"
}

// writeDomainError maps err and logs anything unexpected.
func writeDomainError(w http.ResponseWriter, r *http.Request, err error) {
	status, code := errorCode(err)
	if status == http.StatusInternalServerError {
		log.Error().Err(err).Str("path", r.URL.Path).Msg("unhandled error")
	}
	writeError(w, status, code)
}
