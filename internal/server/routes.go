package server

import (
	"net/http"

	"catspark/internal/handler"
	"catspark/internal/middleware"
)

func NewMux(h *handler.Handler) http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /healthz", h.HandleHealth)
	mux.HandleFunc("GET /api/quiz", h.HandleQuiz)

	mux.HandleFunc("POST /api/sessions", h.HandleCreateSession)
	mux.HandleFunc("POST /api/sessions/{id}/begin", h.HandleBegin)
	mux.HandleFunc("POST /api/sessions/{id}/answers", h.HandleAnswers)
	mux.HandleFunc("POST /api/sessions/{id}/profile/reaction", h.HandleProfileReaction)
	mux.HandleFunc("POST /api/sessions/{id}/profile", h.HandleProfile)

	mux.HandleFunc("POST /api/sessions/{id}/chat/start", h.HandleChatStart)
	mux.HandleFunc("POST /api/sessions/{id}/chat/message", h.HandleChatMessage)
	mux.HandleFunc("GET /api/sessions/{id}/chat/stream", h.HandleChatStream)

	mux.HandleFunc("POST /api/sessions/{id}/timeline", h.HandleTimeline)
	mux.HandleFunc("POST /api/sessions/{id}/reveal", h.HandleReveal)
	mux.HandleFunc("GET /api/sessions/{id}/card", h.HandleCard)
	mux.HandleFunc("POST /api/sessions/{id}/exit", h.HandleExit)
	mux.HandleFunc("POST /api/sessions/{id}/contact", h.HandleContact)
	mux.HandleFunc("POST /api/sessions/{id}/reset", h.HandleReset)

	return middleware.CORS(mux)
}
