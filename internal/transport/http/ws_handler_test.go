package http

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"vocab-quiz-service/internal/app"
	"vocab-quiz-service/internal/domain"
	"vocab-quiz-service/internal/infra/memory"
	"vocab-quiz-service/internal/quizgen"
)

func TestWebSocketGameFlow(t *testing.T) {
	server := newTestServer(t)
	defer server.Close()

	// Host creates a room.
	host := dial(t, server, "unitId=unit-1&userId=host-1&name=Host")
	defer host.Close()

	typ, payload := readNext(host, t, "room")
	if typ != "room" {
		t.Fatalf("expected room, got %s", typ)
	}
	roomCode, _ := payload["roomCode"].(string)
	if roomCode == "" {
		t.Fatalf("expected room code in payload, got %v", payload)
	}
	if status, _ := payload["status"].(string); status != string(domain.StatusWaiting) {
		t.Fatalf("expected waiting room, got %v", payload["status"])
	}

	// Player joins with the code.
	player := dial(t, server, "roomCode="+roomCode+"&userId=p1&name=Alice")
	defer player.Close()
	readNext(player, t, "room")

	// A player cannot start the game.
	writeMsg(t, player, map[string]any{"type": "start"})
	if typ, _ := readNextOfType(player, t, "error"); typ != "error" {
		t.Fatalf("expected error for player start, got %s", typ)
	}

	// Host starts; both sides converge on in_progress with a question.
	writeMsg(t, host, map[string]any{"type": "start"})
	waitForStatus(t, host, domain.StatusInProgress)
	waitForStatus(t, player, domain.StatusInProgress)

	// A wrong answer is scored deterministically.
	writeMsg(t, player, map[string]any{
		"type":    "answer",
		"payload": map[string]any{"answer": "definitely-not-an-option"},
	})
	typ, payload = readNextOfType(player, t, "answerResult")
	if typ != "answerResult" {
		t.Fatalf("expected answerResult, got %s", typ)
	}
	if correct, _ := payload["correct"].(bool); correct {
		t.Fatalf("expected incorrect answer, got %v", payload)
	}
	if awarded, _ := payload["awarded"].(float64); awarded != 0 {
		t.Fatalf("expected 0 awarded, got %v", payload["awarded"])
	}

	// A second answer for the same question is rejected.
	writeMsg(t, player, map[string]any{
		"type":    "answer",
		"payload": map[string]any{"answer": "another-guess"},
	})
	if typ, _ := readNextOfType(player, t, "error"); typ != "error" {
		t.Fatalf("expected error for duplicate answer, got %s", typ)
	}

	// Host ends; everyone sees the finished room.
	writeMsg(t, host, map[string]any{"type": "end"})
	waitForStatus(t, host, domain.StatusFinished)
	waitForStatus(t, player, domain.StatusFinished)
}

func TestWebSocketRejectsBadParams(t *testing.T) {
	server := newTestServer(t)
	defer server.Close()

	// Neither unitId nor roomCode.
	u := "ws" + server.URL[len("http"):] + "/ws?userId=u1&name=Alice"
	_, resp, err := websocket.DefaultDialer.Dial(u, nil)
	if err == nil {
		t.Fatalf("expected dial to fail")
	}
	if resp == nil || resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400, got %+v", resp)
	}
}

func TestWebSocketUnknownRoom(t *testing.T) {
	server := newTestServer(t)
	defer server.Close()

	conn := dial(t, server, "roomCode=NOPE1&userId=p1&name=Alice")
	defer conn.Close()

	if typ, _ := readNext(conn, t, ""); typ != "error" {
		t.Fatalf("expected error for unknown room, got %s", typ)
	}
}

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	store := memory.NewRoomStore()
	words := memory.NewWordRepository(memory.NewStaticWordLoader(sampleUnits()), time.Minute)
	service := app.NewRoomService(store, words, quizgen.NewBuilderWithSeed(1))
	wsHandler := NewWSHandler(service)

	mux := http.NewServeMux()
	mux.HandleFunc("/ws", wsHandler.ServeWS)
	return httptest.NewServer(mux)
}

func dial(t *testing.T, server *httptest.Server, query string) *websocket.Conn {
	t.Helper()
	u := "ws" + server.URL[len("http"):] + "/ws?" + query
	conn, _, err := websocket.DefaultDialer.Dial(u, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	return conn
}

func writeMsg(t *testing.T, conn *websocket.Conn, msg map[string]any) {
	t.Helper()
	if err := conn.WriteJSON(msg); err != nil {
		t.Fatalf("write: %v", err)
	}
}

func readNext(conn *websocket.Conn, t *testing.T, expect string) (string, map[string]any) {
	t.Helper()
	var msg struct {
		Type    string         `json:"type"`
		Payload map[string]any `json:"payload"`
	}
	_ = conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	if err := conn.ReadJSON(&msg); err != nil {
		t.Fatalf("read json: %v", err)
	}
	if expect != "" && msg.Type != expect {
		t.Fatalf("expected type %s, got %s", expect, msg.Type)
	}
	return msg.Type, msg.Payload
}

// readNextOfType skips interleaved room broadcasts until a message of the
// wanted type arrives.
func readNextOfType(conn *websocket.Conn, t *testing.T, want string) (string, map[string]any) {
	t.Helper()
	for i := 0; i < 10; i++ {
		typ, payload := readNext(conn, t, "")
		if typ == want {
			return typ, payload
		}
	}
	t.Fatalf("no %s message within 10 reads", want)
	return "", nil
}

func waitForStatus(t *testing.T, conn *websocket.Conn, status domain.Status) {
	t.Helper()
	for i := 0; i < 10; i++ {
		typ, payload := readNext(conn, t, "")
		if typ != "room" {
			continue
		}
		if s, _ := payload["status"].(string); s == string(status) {
			return
		}
	}
	t.Fatalf("room never reached status %s", status)
}

func sampleUnits() map[string]domain.WordUnit {
	return map[string]domain.WordUnit{
		"unit-1": {
			ID:   "unit-1",
			Name: "Basics",
			Words: []domain.Word{
				{Headword: "perro", Translation: "dog"},
				{Headword: "gato", Translation: "cat"},
				{Headword: "casa", Translation: "house"},
				{Headword: "libro", Translation: "book"},
				{Headword: "agua", Translation: "water"},
			},
		},
	}
}
