package http

import (
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"trivia-quiz-service/internal/app"
)

// NewRouter wires every endpoint the site talks to.
func NewRouter(quiz *app.QuizService, contact *app.ContactService, loc *time.Location) *mux.Router {
	ws := NewWSHandler(quiz, loc)
	api := NewAPIHandler(quiz, contact, loc)

	r := mux.NewRouter()
	r.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok"))
	}).Methods(http.MethodGet)
	r.HandleFunc("/ws", ws.ServeWS).Methods(http.MethodGet)

	sub := r.PathPrefix("/api").Subrouter()
	sub.HandleFunc("/leaderboard", api.Leaderboard).Methods(http.MethodGet)
	sub.HandleFunc("/contact", api.Contact).Methods(http.MethodPost)
	return r
}
