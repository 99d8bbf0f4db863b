package httpserver

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"

	"github.com/robalobadob/wordduel/internal/session"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 1024
)

// clientMsg is what a browser may send over the stream.
type clientMsg struct {
	Type  string `json:"type"` // "guess" | "advance"
	Guess string `json:"guess,omitempty"`
}

// errorMsg reports a rejected client action to that client only.
type errorMsg struct {
	Type  string `json:"type"` // always "error"
	Error string `json:"error"`
}

// handleStream upgrades to a WebSocket, sends the snapshot, then forwards
// every match event until either side goes away.
func (s *Server) handleStream(w http.ResponseWriter, r *http.Request) {
	sess := sessionFrom(r)
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Warn().Err(err).Str("match", sess.ID()).Msg("websocket upgrade")
		return
	}
	defer conn.Close()

	events, unsubscribe := sess.Subscribe()
	defer unsubscribe()

	replies := make(chan any, 8)
	done := make(chan struct{})
	quit := make(chan struct{})
	defer close(quit)
	go s.readPump(conn, sess, replies, done, quit)

	if err := writeFrame(conn, map[string]any{"type": "snapshot", "data": sess.Snapshot()}); err != nil {
		return
	}

	ping := time.NewTicker(pingPeriod)
	defer ping.Stop()
	for {
		select {
		case ev, ok := <-events:
			if !ok {
				_ = conn.WriteControl(websocket.CloseMessage,
					websocket.FormatCloseMessage(websocket.CloseNormalClosure, "match closed"),
					time.Now().Add(writeWait))
				return
			}
			if err := writeFrame(conn, envelope{Type: ev.Type(), Data: ev}); err != nil {
				return
			}
		case msg := <-replies:
			if err := writeFrame(conn, msg); err != nil {
				return
			}
		case <-ping.C:
			if err := conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeWait)); err != nil {
				return
			}
		case <-done:
			return
		}
	}
}

// readPump applies client actions. Resulting events reach the client through
// the session subscription; only failures are replied directly.
func (s *Server) readPump(conn *websocket.Conn, sess *session.Session, replies chan<- any, done chan<- struct{}, quit <-chan struct{}) {
	defer close(done)
	reply := func(code string) bool {
		select {
		case replies <- errorMsg{Type: "error", Error: code}:
			return true
		case <-quit:
			return false
		}
	}
	conn.SetReadLimit(maxMessageSize)
	_ = conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Debug().Err(err).Str("match", sess.ID()).Msg("websocket read")
			}
			return
		}
		var msg clientMsg
		if err := json.Unmarshal(data, &msg); err != nil {
			if !reply("bad_json") {
				return
			}
			continue
		}
		switch msg.Type {
		case "guess":
			_, err = sess.Guess(msg.Guess)
		case "advance":
			_, err = sess.Advance()
		default:
			if !reply("unknown_type") {
				return
			}
			continue
		}
		if err != nil {
			if _, code := errorCode(err); !reply(code) {
				return
			}
		}
	}
}

func writeFrame(conn *websocket.Conn, v any) error {
	_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
	return conn.WriteJSON(v)
}
