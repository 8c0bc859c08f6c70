// Package handler exposes the session experience over a plain JSON API
// plus one websocket stream for the live conversation.
package handler

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strings"

	"github.com/gorilla/websocket"

	"catspark/internal/artifact"
	"catspark/internal/conversation"
	"catspark/internal/llm"
	"catspark/internal/persona"
	"catspark/internal/quiz"
	"catspark/internal/session"
	"catspark/internal/telemetry"
	"catspark/internal/vision"
)

// Handler carries every collaborator the routes need.
type Handler struct {
	sessions  *session.Manager
	scorer    *quiz.Scorer
	lib       persona.Library
	textGen   llm.TextGenerator
	imageGen  llm.ImageGenerator
	captioner *vision.Captioner
	cards     artifact.Store
	notifier  *telemetry.Notifier

	hub      *hub
	upgrader websocket.Upgrader
}

type Config struct {
	Sessions  *session.Manager
	Scorer    *quiz.Scorer
	Library   persona.Library
	TextGen   llm.TextGenerator
	ImageGen  llm.ImageGenerator
	Captioner *vision.Captioner
	Cards     artifact.Store
	Notifier  *telemetry.Notifier
}

func New(cfg Config) *Handler {
	lib := cfg.Library
	if lib == nil {
		lib = persona.Default()
	}
	cards := cfg.Cards
	if cards == nil {
		cards = artifact.NewMemoryStore()
	}
	return &Handler{
		sessions:  cfg.Sessions,
		scorer:    cfg.Scorer,
		lib:       lib,
		textGen:   cfg.TextGen,
		imageGen:  cfg.ImageGen,
		captioner: cfg.Captioner,
		cards:     cards,
		notifier:  cfg.Notifier,
		hub:       newHub(),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(*http.Request) bool { return true },
		},
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("handler: encode response: %v", err)
	}
}

func writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, session.ErrPrecondition),
		errors.Is(err, quiz.ErrInvalidAnswers),
		errors.Is(err, conversation.ErrEmptyInput):
		status = http.StatusBadRequest
	case errors.Is(err, session.ErrTransition),
		errors.Is(err, conversation.ErrBadPhase):
		status = http.StatusConflict
	}
	writeJSON(w, status, map[string]string{"error": err.Error()})
}

func decode(r *http.Request, v any) error {
	defer r.Body.Close()
	return json.NewDecoder(r.Body).Decode(v)
}

// lookup resolves the {id} path value to a live session.
func (h *Handler) lookup(w http.ResponseWriter, r *http.Request) (*session.Session, bool) {
	id := strings.TrimSpace(r.PathValue("id"))
	s, ok := h.sessions.Get(id)
	if !ok {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "unknown session"})
		return nil, false
	}
	return s, true
}

func (h *Handler) HandleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// HandleQuiz lists the scenarios without their score weights.
func (h *Handler) HandleQuiz(w http.ResponseWriter, r *http.Request) {
	type opt struct {
		Text string `json:"text"`
	}
	type scen struct {
		Emoji   string `json:"emoji"`
		Scene   string `json:"scene"`
		Options []opt  `json:"options"`
	}
	scenarios := quiz.Scenarios()
	out := make([]scen, 0, len(scenarios))
	for _, s := range scenarios {
		opts := make([]opt, 0, len(s.Options))
		for _, o := range s.Options {
			opts = append(opts, opt{Text: o.Text})
		}
		out = append(out, scen{Emoji: s.Emoji, Scene: s.Scene, Options: opts})
	}
	writeJSON(w, http.StatusOK, map[string]any{"scenarios": out})
}
