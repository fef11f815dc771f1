package http

import (
	"encoding/json"
	"log"
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"vocab-quiz-service/internal/app"
	"vocab-quiz-service/internal/domain"
)

type WSHandler struct {
	service  *app.RoomService
	upgrader websocket.Upgrader
}

func NewWSHandler(service *app.RoomService) *WSHandler {
	return &WSHandler{
		service: service,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
	}
}

type inboundMessage struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

type nextPayload struct {
	Index int `json:"index"`
}

type answerPayload struct {
	Answer string `json:"answer"`
}

type outboundMessage[T any] struct {
	Type    string `json:"type"`
	Payload T      `json:"payload"`
}

type errorPayload struct {
	Message string `json:"message"`
}

// ServeWS upgrades HTTP requests to websockets and wires them into the room
// use cases. A connection either creates a room (unitId param, caller becomes
// host) or joins one (roomCode param); afterwards all operations arrive as
// JSON messages and every accepted mutation is pushed back as a room snapshot.
func (h *WSHandler) ServeWS(w http.ResponseWriter, r *http.Request) {
	userID := r.URL.Query().Get("userId")
	nickname := r.URL.Query().Get("name")
	unitID := r.URL.Query().Get("unitId")
	roomCode := r.URL.Query().Get("roomCode")
	if nickname == "" {
		http.Error(w, "missing name", http.StatusBadRequest)
		return
	}
	if (unitID == "") == (roomCode == "") {
		http.Error(w, "provide exactly one of unitId or roomCode", http.StatusBadRequest)
		return
	}
	if userID == "" {
		// Guests get a stable identity for the life of the connection.
		userID = uuid.NewString()
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("ws upgrade failed: %v", err)
		return
	}
	defer conn.Close()

	var entered domain.RoomSnapshot
	if unitID != "" {
		entered, err = h.service.CreateRoom(r.Context(), userID, unitID)
	} else {
		entered, err = h.service.Join(r.Context(), roomCode, userID, nickname)
	}
	if err != nil {
		_ = conn.WriteJSON(outboundMessage[errorPayload]{Type: "error", Payload: errorPayload{Message: err.Error()}})
		return
	}
	roomCode = entered.RoomCode

	updates, cancel, err := h.service.Subscribe(r.Context(), roomCode)
	if err != nil {
		_ = conn.WriteJSON(outboundMessage[errorPayload]{Type: "error", Payload: errorPayload{Message: err.Error()}})
		return
	}
	defer cancel()

	send := make(chan outboundMessage[any], 16)
	closeSignals := make(chan struct{})
	writerDone := make(chan struct{})
	updatesDone := make(chan struct{})

	go func() {
		defer close(writerDone)
		for msg := range send {
			if err := conn.WriteJSON(msg); err != nil {
				log.Printf("ws write error: %v", err)
				return
			}
		}
	}()

	go func() {
		defer close(updatesDone)
		for {
			select {
			case update, ok := <-updates:
				if !ok {
					return
				}
				select {
				case send <- outboundMessage[any]{Type: "room", Payload: update}:
				case <-closeSignals:
					return
				}
			case <-closeSignals:
				return
			}
		}
	}()

	send <- outboundMessage[any]{Type: "room", Payload: entered}

	for {
		var inbound inboundMessage
		if err := conn.ReadJSON(&inbound); err != nil {
			break
		}
		switch inbound.Type {
		case "start":
			if _, err := h.service.Start(r.Context(), roomCode, userID); err != nil {
				send <- outboundMessage[any]{Type: "error", Payload: errorPayload{Message: err.Error()}}
			}
		case "next":
			var payload nextPayload
			if err := json.Unmarshal(inbound.Payload, &payload); err != nil {
				send <- outboundMessage[any]{Type: "error", Payload: errorPayload{Message: "invalid next payload"}}
				continue
			}
			if _, err := h.service.Advance(r.Context(), roomCode, userID, payload.Index); err != nil {
				send <- outboundMessage[any]{Type: "error", Payload: errorPayload{Message: err.Error()}}
			}
		case "answer":
			var payload answerPayload
			if err := json.Unmarshal(inbound.Payload, &payload); err != nil {
				send <- outboundMessage[any]{Type: "error", Payload: errorPayload{Message: "invalid answer payload"}}
				continue
			}
			result, _, err := h.service.SubmitAnswer(r.Context(), roomCode, userID, payload.Answer)
			if err != nil {
				send <- outboundMessage[any]{Type: "error", Payload: errorPayload{Message: err.Error()}}
				continue
			}
			send <- outboundMessage[any]{Type: "answerResult", Payload: result}
		case "end":
			if _, err := h.service.End(r.Context(), roomCode, userID); err != nil {
				send <- outboundMessage[any]{Type: "error", Payload: errorPayload{Message: err.Error()}}
			}
		default:
			send <- outboundMessage[any]{Type: "error", Payload: errorPayload{Message: "unsupported message type"}}
		}
	}

	close(closeSignals)
	<-updatesDone
	close(send)
	<-writerDone
}
