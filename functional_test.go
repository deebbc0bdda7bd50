package main

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/julienschmidt/httprouter"
)

// newTestServer runs the real route table against an httptest listener.
func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()

	cfg := testConfig()
	h := newHub(cfg)

	mux := httprouter.New()
	registerHunt(cfg, h, mux)

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func dialRoom(t *testing.T, srv *httptest.Server, challenge, room string) *websocket.Conn {
	t.Helper()

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/hunt/" + challenge + "/" + room + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial %s: %v", url, err)
	}
	t.Cleanup(func() { conn.Close() })
	return conn
}

func sendJoin(t *testing.T, conn *websocket.Conn, name string) {
	t.Helper()
	if err := conn.WriteJSON(map[string]string{"type": "join", "name": name}); err != nil {
		t.Fatalf("join: %v", err)
	}
}

func sendAction(t *testing.T, conn *websocket.Conn, action string, payload any) {
	t.Helper()
	err := conn.WriteJSON(map[string]any{"type": "action", "action": action, "payload": payload})
	if err != nil {
		t.Fatalf("action %s: %v", action, err)
	}
}

// expectType reads messages until one of the wanted type arrives, failing
// after a short deadline. Unrelated broadcasts along the way are discarded.
func expectType(t *testing.T, conn *websocket.Conn, want string) map[string]any {
	t.Helper()

	deadline := time.Now().Add(5 * time.Second)
	var seen []string

	for time.Now().Before(deadline) {
		conn.SetReadDeadline(deadline)

		var msg map[string]any
		if err := conn.ReadJSON(&msg); err != nil {
			t.Fatalf("waiting for %q, saw %v: %v", want, seen, err)
		}

		msgType, _ := msg["type"].(string)
		if msgType == want {
			return msg
		}
		seen = append(seen, msgType)
	}

	t.Fatalf("timed out waiting for %q, saw %v", want, seen)
	return nil
}

func TestIntroWalkthroughCompletes(t *testing.T) {
	srv := newTestServer(t)

	conn := dialRoom(t, srv, "intro", "solo1")
	expectType(t, conn, "connected")

	sendJoin(t, conn, "Ada")
	expectType(t, conn, "init")
	first := expectType(t, conn, "intro_line")
	if int(first["index"].(float64)) != 0 {
		t.Fatalf("first line index = %v, want 0", first["index"])
	}

	for i := 1; i < len(introScript); i++ {
		sendAction(t, conn, "advance", map[string]any{})
		line := expectType(t, conn, "intro_line")
		if int(line["index"].(float64)) != i {
			t.Fatalf("line index = %v, want %d", line["index"], i)
		}
	}

	sendAction(t, conn, "advance", map[string]any{})
	done := expectType(t, conn, "challenge_completed")
	if done["success"] != true {
		t.Fatalf("completion = %v", done)
	}
}

func TestFullRoomQueuesAndPromotesOnDisconnect(t *testing.T) {
	srv := newTestServer(t)

	c1 := dialRoom(t, srv, "quiz", "room1")
	expectType(t, c1, "connected")
	sendJoin(t, c1, "Ada")
	expectType(t, c1, "init")

	c2 := dialRoom(t, srv, "quiz", "room1")
	expectType(t, c2, "connected")
	sendJoin(t, c2, "Ben")
	expectType(t, c2, "quiz_start")

	c3 := dialRoom(t, srv, "quiz", "room1")
	expectType(t, c3, "connected")
	sendJoin(t, c3, "Cal")
	queued := expectType(t, c3, "queued")
	if int(queued["position"].(float64)) != 1 {
		t.Fatalf("queue position = %v, want 1", queued["position"])
	}

	// Dropping an active player resets the round and pulls Cal in.
	c1.Close()
	expectType(t, c3, "promoted")
	expectType(t, c3, "init")
	expectType(t, c3, "quiz_start")

	expectType(t, c2, "game_reset")
}

func TestChatRelaysToTheWholeRoom(t *testing.T) {
	srv := newTestServer(t)

	c1 := dialRoom(t, srv, "quiz", "chat1")
	expectType(t, c1, "connected")
	sendJoin(t, c1, "Ada")
	expectType(t, c1, "init")

	c2 := dialRoom(t, srv, "quiz", "chat1")
	expectType(t, c2, "connected")
	sendJoin(t, c2, "Ben")
	expectType(t, c2, "init")

	sendAction(t, c1, "send_message", map[string]string{"text": "meet at the fountain"})

	msg := expectType(t, c2, "message")
	if msg["from"] != "Ada" || msg["text"] != "meet at the fountain" {
		t.Fatalf("chat = %v", msg)
	}
}

func TestUnknownChallengeRejectedOverWire(t *testing.T) {
	srv := newTestServer(t)

	conn := dialRoom(t, srv, "karaoke", "room1")
	expectType(t, conn, "connected")

	sendJoin(t, conn, "Ada")
	errMsg := expectType(t, conn, "error")
	if errMsg["code"] != errUnknownChallenge {
		t.Fatalf("error code = %v, want %q", errMsg["code"], errUnknownChallenge)
	}
}

func TestActionOutsideRoomRejected(t *testing.T) {
	srv := newTestServer(t)

	conn := dialRoom(t, srv, "quiz", "lurk1")
	expectType(t, conn, "connected")

	// Create the room with one real player first.
	member := dialRoom(t, srv, "quiz", "lurk1")
	expectType(t, member, "connected")
	sendJoin(t, member, "Ada")
	expectType(t, member, "init")

	sendAction(t, conn, "answer", map[string]int{"option": 0})
	errMsg := expectType(t, conn, "error")
	if errMsg["code"] != errNotInRoom {
		t.Fatalf("error code = %v, want %q", errMsg["code"], errNotInRoom)
	}
}

func TestStreakRoundTripOverWire(t *testing.T) {
	srv := newTestServer(t)

	c1 := dialRoom(t, srv, "trivia", triviaRoomID)
	expectType(t, c1, "connected")
	sendJoin(t, c1, "Ada")
	expectType(t, c1, "init")

	c2 := dialRoom(t, srv, "trivia", triviaRoomID)
	expectType(t, c2, "connected")
	sendJoin(t, c2, "Ben")

	q1 := expectType(t, c1, "streak_question")
	expectType(t, c2, "streak_question")

	// Ada joined first, so she holds the correct option for question zero.
	question, _ := q1["question"].(string)
	var correct string
	for _, q := range streakQuestions {
		if q.Text == question {
			correct = q.Correct
		}
	}
	if correct == "" {
		t.Fatalf("unknown question dealt: %q", question)
	}

	sendAction(t, c1, "answer", map[string]string{"option": correct})

	result := expectType(t, c2, "streak_result")
	if result["correct"] != true {
		t.Fatalf("result = %v", result)
	}
	if int(result["streak"].(float64)) != 1 {
		t.Fatalf("streak = %v, want 1", result["streak"])
	}
}

func TestNotifyEndpointRequiresToken(t *testing.T) {
	cfg := testConfig()
	cfg.notifyToken = "hunt-secret"
	h := newHub(cfg)

	mux := httprouter.New()
	mux.POST("/notify", serveNotify(cfg, h))
	registerHunt(cfg, h, mux)

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)

	body := `{"room":"` + triviaRoomID + `","event":"ping"}`

	resp, err := srv.Client().Post(srv.URL+"/notify", "application/json", strings.NewReader(body))
	if err != nil {
		t.Fatalf("post: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != 403 {
		t.Fatalf("status without token = %d, want 403", resp.StatusCode)
	}

	req, _ := json.Marshal(map[string]string{"room": triviaRoomID, "event": "ping", "message": "hello"})
	httpReq, err := http.NewRequest(http.MethodPost, srv.URL+"/notify", strings.NewReader(string(req)))
	if err != nil {
		t.Fatalf("build request: %v", err)
	}
	httpReq.Header.Set(notifyTokenHeader, "hunt-secret")

	resp2, err := srv.Client().Do(httpReq)
	if err != nil {
		t.Fatalf("authed post: %v", err)
	}
	resp2.Body.Close()
	if resp2.StatusCode != 202 {
		t.Fatalf("status with token = %d, want 202", resp2.StatusCode)
	}
}
