package http

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"time"

	"trivia-quiz-service/internal/app"
	"trivia-quiz-service/internal/domain"
	"trivia-quiz-service/internal/view"
)

// APIHandler serves the JSON endpoints next to the websocket.
type APIHandler struct {
	quiz    *app.QuizService
	contact *app.ContactService
	loc     *time.Location
}

func NewAPIHandler(quiz *app.QuizService, contact *app.ContactService, loc *time.Location) *APIHandler {
	if loc == nil {
		loc = time.Local
	}
	return &APIHandler{quiz: quiz, contact: contact, loc: loc}
}

type leaderboardResponse struct {
	Entries []view.LeaderboardRow `json:"entries"`
}

// Leaderboard returns the persisted top scores.
func (h *APIHandler) Leaderboard(w http.ResponseWriter, r *http.Request) {
	rows := view.Leaderboard(h.quiz.Leaderboard(r.Context()), h.loc)
	writeJSON(w, http.StatusOK, leaderboardResponse{Entries: rows})
}

// Contact accepts a contact form submission.
func (h *APIHandler) Contact(w http.ResponseWriter, r *http.Request) {
	var msg domain.ContactMessage
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, 64<<10)).Decode(&msg); err != nil {
		writeJSON(w, http.StatusBadRequest, errorPayload{Message: "invalid contact payload"})
		return
	}
	if err := h.contact.Submit(r.Context(), msg); err != nil {
		if errors.Is(err, domain.ErrInvalidContact) {
			writeJSON(w, http.StatusBadRequest, errorPayload{Message: err.Error()})
			return
		}
		log.Printf("contact delivery failed: %v", err)
		writeJSON(w, http.StatusInternalServerError, errorPayload{Message: "could not deliver message"})
		return
	}
	writeJSON(w, http.StatusAccepted, map[string]string{"status": "received"})
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		log.Printf("write response: %v", err)
	}
}
