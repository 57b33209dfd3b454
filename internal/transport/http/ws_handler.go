package http

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"trivia-quiz-service/internal/app"
	"trivia-quiz-service/internal/domain"
	"trivia-quiz-service/internal/view"
)

type WSHandler struct {
	service  *app.QuizService
	upgrader websocket.Upgrader
	loc      *time.Location
}

func NewWSHandler(service *app.QuizService, loc *time.Location) *WSHandler {
	if loc == nil {
		loc = time.Local
	}
	return &WSHandler{
		service: service,
		loc:     loc,
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

type answerPayload struct {
	Answer string `json:"answer"`
}

type completePayload struct {
	Percentage  int                   `json:"percentage"`
	Badge       view.Badge            `json:"badge"`
	Leaderboard []view.LeaderboardRow `json:"leaderboard"`
}

type outboundMessage[T any] struct {
	Type    string `json:"type"`
	Payload T      `json:"payload"`
}

type errorPayload struct {
	Message string `json:"message"`
}

// ServeWS upgrades HTTP requests to websockets and runs one play-through per connection.
// Closing the connection ends the session.
func (h *WSHandler) ServeWS(w http.ResponseWriter, r *http.Request) {
	bankID := r.URL.Query().Get("bank")

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("ws upgrade failed: %v", err)
		return
	}
	defer conn.Close()

	started, err := h.service.Start(r.Context(), bankID)
	if err != nil {
		_ = conn.WriteJSON(outboundMessage[errorPayload]{Type: "error", Payload: errorPayload{Message: err.Error()}})
		return
	}
	sessionID := started.SessionID
	defer h.service.End(context.Background(), sessionID)

	updates, cancel, err := h.service.Subscribe(r.Context(), sessionID)
	if err != nil {
		_ = conn.WriteJSON(outboundMessage[errorPayload]{Type: "error", Payload: errorPayload{Message: err.Error()}})
		return
	}
	defer cancel()

	send := make(chan outboundMessage[any], 16)
	closeSignals := make(chan struct{})
	writerDone := make(chan struct{})
	updatesDone := make(chan struct{})

	// single writer: gorilla connections do not support concurrent writes
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
		reported := false
		for {
			select {
			case state, ok := <-updates:
				if !ok {
					return
				}
				msgs := []outboundMessage[any]{{Type: "state", Payload: state}}
				if state.Complete && !reported {
					msgs = append(msgs, outboundMessage[any]{Type: "complete", Payload: completePayload{
						Percentage:  state.Percentage,
						Badge:       view.BadgeFor(state.Percentage),
						Leaderboard: view.Leaderboard(state.TopScores, h.loc),
					}})
				}
				reported = state.Complete
				for _, msg := range msgs {
					select {
					case send <- msg:
					case <-closeSignals:
						return
					}
				}
			case <-closeSignals:
				return
			}
		}
	}()

	for {
		var inbound inboundMessage
		if err := conn.ReadJSON(&inbound); err != nil {
			break
		}
		var err error
		switch inbound.Type {
		case "answer":
			var payload answerPayload
			if jsonErr := json.Unmarshal(inbound.Payload, &payload); jsonErr != nil {
				err = errors.New("invalid answer payload")
				break
			}
			if _, err = h.service.SelectAnswer(r.Context(), sessionID, payload.Answer); errors.Is(err, domain.ErrAnswerPending) {
				err = nil
			}
		case "restart":
			_, err = h.service.Restart(r.Context(), sessionID)
		default:
			err = errors.New("unsupported message type")
		}
		if err != nil && !deliver(send, writerDone, outboundMessage[any]{Type: "error", Payload: errorPayload{Message: err.Error()}}) {
			break
		}
	}

	close(closeSignals)
	<-updatesDone
	close(send)
	<-writerDone
}

// deliver queues msg for the writer. It reports false once the writer has stopped.
func deliver(send chan<- outboundMessage[any], writerDone <-chan struct{}, msg outboundMessage[any]) bool {
	select {
	case send <- msg:
		return true
	case <-writerDone:
		return false
	}
}
