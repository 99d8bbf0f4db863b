package httpserver

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/robalobadob/wordduel/internal/config"
	"github.com/robalobadob/wordduel/internal/store"
	"github.com/robalobadob/wordduel/internal/words"
)

func newTestServer(t *testing.T, list []string, tweak func(*config.Config)) *Server {
	t.Helper()
	cfg := config.Config{
		ClientOrigin: "http://localhost:5173",
		MatchSecret:  "test_secret",
		TokenTTL:     time.Hour,
		SeedSalt:     "test_salt",
		MaxPlayers:   4,
		IdleTimeout:  time.Hour,
	}
	if tweak != nil {
		tweak(&cfg)
	}
	return New(store.NewMemoryStore(), words.New(list), cfg)
}

type created struct {
	MatchID  string `json:"matchId"`
	Token    string `json:"token"`
	Snapshot struct {
		Round        int    `json:"round"`
		State        string `json:"state"`
		ActivePlayer string `json:"activePlayer"`
	} `json:"snapshot"`
	Events []struct {
		Type string          `json:"type"`
		Data json.RawMessage `json:"data"`
	} `json:"events"`
}

func do(t *testing.T, s *Server, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	s.Router().ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), rec.Body.String())
	return v
}

func errorOf(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	return decode[map[string]string](t, rec)["error"]
}

func createMatch(t *testing.T, s *Server, body map[string]any) created {
	t.Helper()
	rec := do(t, s, http.MethodPost, "/match/new", "", body)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	return decode[created](t, rec)
}

func duel(rounds, attempts int) map[string]any {
	return map[string]any{
		"players":     []string{"Alice", "Bob"},
		"wordLength":  5,
		"maxAttempts": attempts,
		"numRounds":   rounds,
	}
}

func TestHealthAndWordStats(t *testing.T) {
	s := newTestServer(t, []string{"CRANE", "ROBOT", "TREE"}, nil)

	rec := do(t, s, http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"ok":true}`, rec.Body.String())

	rec = do(t, s, http.MethodGet, "/debug/words", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"total":3,"lengths":[4,5],"byLength":{"4":1,"5":2}}`, rec.Body.String())

	rec = do(t, s, http.MethodGet, "/nope", "", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestNewMatch_Validation(t *testing.T) {
	s := newTestServer(t, []string{"CRANE"}, func(c *config.Config) { c.MaxPlayers = 2 })

	tests := []struct {
		name   string
		body   any
		status int
		code   string
	}{
		{"bad json", "not an object", http.StatusBadRequest, "bad_json"},
		{"no players", map[string]any{"players": []string{}, "wordLength": 5, "maxAttempts": 6, "numRounds": 1}, http.StatusBadRequest, "invalid_players"},
		{"too many players", map[string]any{"players": []string{"a", "b", "c"}, "wordLength": 5, "maxAttempts": 6, "numRounds": 1}, http.StatusBadRequest, "invalid_players"},
		{"zero attempts", duel(1, 0), http.StatusBadRequest, "invalid_config"},
		{"blank player", map[string]any{"players": []string{"a", " "}, "wordLength": 5, "maxAttempts": 6, "numRounds": 1}, http.StatusBadRequest, "invalid_config"},
		{"no words of length", map[string]any{"players": []string{"a", "b"}, "wordLength": 7, "maxAttempts": 6, "numRounds": 1}, http.StatusUnprocessableEntity, "no_words_for_length"},
		{"more rounds than words", duel(2, 6), http.StatusUnprocessableEntity, "insufficient_words"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := do(t, s, http.MethodPost, "/match/new", "", tt.body)
			assert.Equal(t, tt.status, rec.Code, rec.Body.String())
			assert.Equal(t, tt.code, errorOf(t, rec))
		})
	}
}

func TestMatchFlow_SingleRound(t *testing.T) {
	s := newTestServer(t, []string{"CRANE"}, nil)
	c := createMatch(t, s, duel(1, 6))

	assert.NotEmpty(t, c.MatchID)
	assert.NotEmpty(t, c.Token)
	assert.Equal(t, 1, c.Snapshot.Round)
	assert.Equal(t, "in_progress", c.Snapshot.State)
	require.Len(t, c.Events, 1)
	assert.Equal(t, "round_started", c.Events[0].Type)

	base := "/match/" + c.MatchID

	rec := do(t, s, http.MethodPost, base+"/guess", c.Token, map[string]string{"guess": "cr4ne"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "invalid_input", errorOf(t, rec))

	rec = do(t, s, http.MethodPost, base+"/advance", c.Token, nil)
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, "nothing_pending", errorOf(t, rec))

	rec = do(t, s, http.MethodPost, base+"/guess", c.Token, map[string]string{"guess": "crane"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	g := decode[struct {
		Solved    bool `json:"solved"`
		RoundOver bool `json:"roundOver"`
		Letters   []struct {
			Letter  string `json:"letter"`
			Verdict string `json:"verdict"`
		} `json:"letters"`
		Events []struct {
			Type string `json:"type"`
			Data struct {
				Secret string `json:"secret"`
				Winner string `json:"winner"`
			} `json:"data"`
		} `json:"events"`
	}](t, rec)
	assert.True(t, g.Solved)
	assert.True(t, g.RoundOver)
	require.Len(t, g.Letters, 5)
	assert.Equal(t, "correct", g.Letters[0].Verdict)
	require.Len(t, g.Events, 2)
	assert.Equal(t, "round_summary", g.Events[1].Type)
	assert.Equal(t, "CRANE", g.Events[1].Data.Secret)
	assert.Equal(t, c.Snapshot.ActivePlayer, g.Events[1].Data.Winner)

	rec = do(t, s, http.MethodPost, base+"/guess", c.Token, map[string]string{"guess": "crane"})
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, "round_over", errorOf(t, rec))

	rec = do(t, s, http.MethodPost, base+"/advance", c.Token, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	adv := decode[struct {
		Events []struct {
			Type string `json:"type"`
			Data struct {
				Result string `json:"result"`
			} `json:"data"`
		} `json:"events"`
		Snapshot struct {
			State string `json:"state"`
		} `json:"snapshot"`
	}](t, rec)
	require.Len(t, adv.Events, 1)
	assert.Equal(t, "match_finished", adv.Events[0].Type)
	assert.Equal(t, "winner", adv.Events[0].Data.Result)
	assert.Equal(t, "finished", adv.Snapshot.State)

	rec = do(t, s, http.MethodPost, base+"/guess", c.Token, map[string]string{"guess": "crane"})
	assert.Equal(t, "match_finished", errorOf(t, rec))
}

func TestMatchRoutes_RequireToken(t *testing.T) {
	s := newTestServer(t, []string{"CRANE", "ROBOT"}, nil)
	a := createMatch(t, s, duel(1, 6))
	b := createMatch(t, s, duel(1, 6))

	rec := do(t, s, http.MethodGet, "/match/"+a.MatchID, "", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "unauthorized", errorOf(t, rec))

	rec = do(t, s, http.MethodGet, "/match/"+a.MatchID, b.Token, nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "invalid_token", errorOf(t, rec))

	rec = do(t, s, http.MethodGet, "/match/"+a.MatchID, "garbage", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = do(t, s, http.MethodGet, "/match/"+a.MatchID, a.Token, nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	// Cookie works as well as the header.
	req := httptest.NewRequest(http.MethodGet, "/match/"+a.MatchID, nil)
	req.AddCookie(&http.Cookie{Name: matchCookieName, Value: a.Token})
	cookieRec := httptest.NewRecorder()
	s.Router().ServeHTTP(cookieRec, req)
	assert.Equal(t, http.StatusOK, cookieRec.Code)
}

func TestMatchRoutes_Close(t *testing.T) {
	s := newTestServer(t, []string{"CRANE"}, nil)
	c := createMatch(t, s, duel(1, 6))

	rec := do(t, s, http.MethodDelete, "/match/"+c.MatchID, c.Token, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = do(t, s, http.MethodGet, "/match/"+c.MatchID, c.Token, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestStrictGuesses(t *testing.T) {
	s := newTestServer(t, []string{"CRANE", "ROBOT"}, func(c *config.Config) { c.StrictGuesses = true })
	c := createMatch(t, s, duel(1, 6))

	rec := do(t, s, http.MethodPost, "/match/"+c.MatchID+"/guess", c.Token, map[string]string{"guess": "zzzzz"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "not_in_word_list", errorOf(t, rec))
}

func TestSeededMatchesReplay(t *testing.T) {
	s := newTestServer(t, []string{"CRANE", "ROBOT", "LLAMA", "BOOST", "ALLOY"}, nil)

	reveal := func() (string, string) {
		body := duel(1, 1)
		body["seed"] = "rematch"
		c := createMatch(t, s, body)
		rec := do(t, s, http.MethodPost, "/match/"+c.MatchID+"/guess", c.Token, map[string]string{"guess": "zzzzz"})
		require.Equal(t, http.StatusOK, rec.Code)
		snap := decode[struct {
			Snapshot struct {
				Secret string `json:"secret"`
			} `json:"snapshot"`
		}](t, rec)
		return c.Snapshot.ActivePlayer, snap.Snapshot.Secret
	}

	p1, w1 := reveal()
	p2, w2 := reveal()
	assert.Equal(t, p1, p2)
	assert.Equal(t, w1, w2)
	assert.NotEmpty(t, w1)
}

func TestStream(t *testing.T) {
	s := newTestServer(t, []string{"CRANE"}, nil)
	c := createMatch(t, s, duel(1, 6))

	ts := httptest.NewServer(s.Router())
	defer ts.Close()

	url := "ws" + strings.TrimPrefix(ts.URL, "http") + "/match/" + c.MatchID + "/ws?token=" + c.Token
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	defer conn.Close()
	_ = conn.SetReadDeadline(time.Now().Add(5 * time.Second))

	type frame struct {
		Type  string `json:"type"`
		Error string `json:"error"`
	}
	read := func() frame {
		var f frame
		require.NoError(t, conn.ReadJSON(&f))
		return f
	}

	assert.Equal(t, "snapshot", read().Type)

	require.NoError(t, conn.WriteJSON(map[string]string{"type": "guess", "guess": "zz"}))
	assert.Equal(t, frame{Type: "error", Error: "invalid_input"}, read())

	require.NoError(t, conn.WriteJSON(map[string]string{"type": "guess", "guess": "crane"}))
	assert.Equal(t, "guess_evaluated", read().Type)
	assert.Equal(t, "round_summary", read().Type)

	require.NoError(t, conn.WriteJSON(map[string]string{"type": "advance"}))
	assert.Equal(t, "match_finished", read().Type)

	_, _, err = websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(ts.URL, "http")+"/match/"+c.MatchID+"/ws", nil)
	assert.Error(t, err, "stream requires a token")
}
