// internal/session/session.go
//
// A Session hosts one match for the server.
// Responsibilities:
//   - Serialize every mutation of the match behind one mutex.
//   - Schedule the delayed advance after a round ends, through a Clock so
//     tests can fire it by hand.
//   - Cancel a scheduled advance when the round is advanced manually or the
//     session is closed; a stale timer never fires a second transition.
//   - Fan emitted events out to subscribers (WebSocket clients).

package session

import (
	"errors"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/robalobadob/wordduel/internal/match"
)

// ErrClosed is returned by operations on a closed session.
var ErrClosed = errors.New("session closed")

// subscriberBuffer bounds how far a subscriber may lag before events are dropped.
const subscriberBuffer = 32

// Clock schedules callbacks. AfterFunc returns a function that cancels the
// callback and reports whether it was stopped before running.
type Clock interface {
	AfterFunc(d time.Duration, f func()) (stop func() bool)
}

type realClock struct{}

func (realClock) AfterFunc(d time.Duration, f func()) func() bool {
	return time.AfterFunc(d, f).Stop
}

// RealClock is the wall-clock scheduler.
var RealClock Clock = realClock{}

// Session owns one match.
type Session struct {
	mu    sync.Mutex
	m     *match.Match
	clock Clock
	delay time.Duration
	log   zerolog.Logger

	stop   func() bool // cancels the scheduled advance, nil when none
	gen    uint64      // bumped on every transition; stale timers compare against it
	closed bool

	subs   map[int]chan match.Event
	nextID int

	lastSeen time.Time
}

// New wraps m. A non-positive delay disables the automatic advance; callers
// then drive rounds with Advance.
func New(m *match.Match, clock Clock, delay time.Duration, log zerolog.Logger) *Session {
	if clock == nil {
		clock = RealClock
	}
	return &Session{
		m:        m,
		clock:    clock,
		delay:    delay,
		log:      log.With().Str("match", m.ID()).Logger(),
		subs:     make(map[int]chan match.Event),
		lastSeen: time.Now(),
	}
}

// ID returns the hosted match ID.
func (s *Session) ID() string { return s.m.ID() }

// Start opens the first round.
func (s *Session) Start() ([]match.Event, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil, ErrClosed
	}
	evs, err := s.m.StartRound()
	if err != nil {
		return nil, err
	}
	s.touch()
	s.publish(evs)
	return evs, nil
}

// Guess submits a guess for the active player. When the guess ends the
// round, the advance is scheduled after the configured delay.
func (s *Session) Guess(text string) (match.Outcome, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return match.Outcome{}, ErrClosed
	}
	out, err := s.m.SubmitGuess(text)
	if err != nil {
		return out, err
	}
	s.touch()
	s.publish(out.Events)
	if out.RoundOver {
		s.schedule()
	}
	return out, nil
}

// Advance runs the pending transition now, cancelling any scheduled one.
func (s *Session) Advance() ([]match.Event, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil, ErrClosed
	}
	return s.advanceLocked()
}

// Snapshot returns the current match view.
func (s *Session) Snapshot() match.Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.m.Snapshot()
}

// Subscribe registers a listener for future events. The returned cancel
// function unregisters it and closes the channel.
func (s *Session) Subscribe() (<-chan match.Event, func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	ch := make(chan match.Event, subscriberBuffer)
	if s.closed {
		close(ch)
		return ch, func() {}
	}
	id := s.nextID
	s.nextID++
	s.subs[id] = ch
	var once sync.Once
	return ch, func() {
		once.Do(func() {
			s.mu.Lock()
			defer s.mu.Unlock()
			if c, ok := s.subs[id]; ok {
				delete(s.subs, id)
				close(c)
			}
		})
	}
}

// Close cancels any scheduled advance and disconnects subscribers.
func (s *Session) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	s.closed = true
	s.cancelLocked()
	for id, c := range s.subs {
		delete(s.subs, id)
		close(c)
	}
}

// Finished reports whether the hosted match has ended.
func (s *Session) Finished() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.m.State() == match.StateFinished
}

// IdleSince returns when the session last saw a successful action.
func (s *Session) IdleSince() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastSeen
}

// schedule arms the delayed advance for the current generation.
func (s *Session) schedule() {
	if s.delay <= 0 {
		return
	}
	s.cancelLocked()
	gen := s.gen
	s.stop = s.clock.AfterFunc(s.delay, func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		if s.closed || s.gen != gen || !s.m.Pending() {
			return
		}
		s.stop = nil
		if _, err := s.advanceLocked(); err != nil {
			s.log.Error().Err(err).Msg("scheduled advance")
		}
	})
}

func (s *Session) advanceLocked() ([]match.Event, error) {
	evs, err := s.m.Advance()
	if err != nil {
		return nil, err
	}
	s.cancelLocked()
	s.gen++
	s.touch()
	s.publish(evs)
	return evs, nil
}

func (s *Session) cancelLocked() {
	if s.stop != nil {
		s.stop()
		s.stop = nil
	}
}

func (s *Session) touch() { s.lastSeen = time.Now() }

// publish delivers events without blocking; a full subscriber loses them.
func (s *Session) publish(evs []match.Event) {
	for _, ev := range evs {
		for id, c := range s.subs {
			select {
			case c <- ev:
			default:
				s.log.Warn().Int("subscriber", id).Str("event", string(ev.Type())).Msg("subscriber lagging, event dropped")
			}
		}
	}
}
