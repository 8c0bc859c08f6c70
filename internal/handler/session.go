package handler

import (
	"context"
	"encoding/base64"
	"log"
	"net/http"
	"strings"

	"catspark/internal/persona"
	"catspark/internal/session"
)

// HandleCreateSession starts a new session at welcome.
func (h *Handler) HandleCreateSession(w http.ResponseWriter, r *http.Request) {
	s := h.sessions.Create()
	writeJSON(w, http.StatusCreated, map[string]any{
		"sessionId": s.ID(),
		"stage":     s.Stage(),
	})
}

// HandleBegin collects the cat's name and photo and enters the test.
// The photo caption is produced out of band; the session proceeds
// without waiting for it.
func (h *Handler) HandleBegin(w http.ResponseWriter, r *http.Request) {
	s, ok := h.lookup(w, r)
	if !ok {
		return
	}
	var in struct {
		CatName     string `json:"catName"`
		PhotoBase64 string `json:"photoBase64"`
		PhotoMIME   string `json:"photoMime"`
	}
	if err := decode(r, &in); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid json body"})
		return
	}
	var photo []byte
	if raw := strings.TrimSpace(in.PhotoBase64); raw != "" {
		decoded, err := base64.StdEncoding.DecodeString(raw)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "photo is not valid base64"})
			return
		}
		photo = decoded
	}
	if err := s.Begin(in.CatName, photo, in.PhotoMIME); err != nil {
		writeError(w, err)
		return
	}
	h.captionAsync(s)
	h.sessions.Persist(s)
	writeJSON(w, http.StatusOK, map[string]any{
		"stage": s.Stage(),
	})
}

// captionAsync describes the photo in the background and applies the
// caption only if the session epoch is unchanged when it lands.
func (h *Handler) captionAsync(s *session.Session) {
	photo, mime := s.Photo()
	if h.captioner == nil || len(photo) == 0 {
		return
	}
	epoch := s.Epoch()
	go func() {
		caption := h.captioner.Caption(context.Background(), photo, mime)
		if caption == "" {
			return
		}
		if err := s.Apply(epoch, func(s *session.Session) { s.SetCaption(caption) }); err != nil {
			log.Printf("handler: caption for %s dropped: %v", s.ID(), err)
		}
	}()
}

// HandleAnswers scores the quiz and returns the classification with its
// presentation strings.
func (h *Handler) HandleAnswers(w http.ResponseWriter, r *http.Request) {
	s, ok := h.lookup(w, r)
	if !ok {
		return
	}
	var in struct {
		Answers []int `json:"answers"`
	}
	if err := decode(r, &in); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid json body"})
		return
	}
	result, err := s.Classify(h.scorer, in.Answers)
	if err != nil {
		writeError(w, err)
		return
	}
	h.sessions.Persist(s)

	tmpl := h.lib.Get(result.Primary)
	out := map[string]any{
		"primary":   result.Primary,
		"secondary": result.Secondary,
		"isPure":    result.IsPure,
		"emoji":     tmpl.Emoji,
		"name":      tmpl.Name,
		"label":     tmpl.Label,
		"selfIntro": tmpl.SelfIntro(s.CatName()),
		"stage":     s.Stage(),
	}
	if !result.IsPure {
		if mixed, found := persona.MixedLabelFor(result.Primary, result.Secondary); found {
			out["mixedLabel"] = mixed
		}
	}
	writeJSON(w, http.StatusOK, out)
}

// HandleProfileReaction returns the cat's one-liner to a single profile
// answer. Stateless; the interview submits the full profile separately.
func (h *Handler) HandleProfileReaction(w http.ResponseWriter, r *http.Request) {
	s, ok := h.lookup(w, r)
	if !ok {
		return
	}
	result, scored := s.Result()
	if !scored {
		writeJSON(w, http.StatusConflict, map[string]string{"error": "not classified yet"})
		return
	}
	var in struct {
		Question string `json:"question"` // schedule | energy | need | mbti
		Answer   string `json:"answer"`
	}
	if err := decode(r, &in); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid json body"})
		return
	}
	var reaction string
	switch in.Question {
	case "schedule":
		reaction = persona.ScheduleReaction(result.Primary, persona.Schedule(in.Answer))
	case "energy":
		reaction = persona.EnergyReaction(result.Primary, persona.Energy(in.Answer))
	case "need":
		reaction = persona.NeedReaction(result.Primary, persona.Need(in.Answer))
	case "mbti":
		reaction = persona.MBTIQuip(in.Answer)
	default:
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "unknown question"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"reaction": reaction})
}

// HandleProfile stores the interview answers and wires up the
// conversation and reveal components for the stages ahead.
func (h *Handler) HandleProfile(w http.ResponseWriter, r *http.Request) {
	s, ok := h.lookup(w, r)
	if !ok {
		return
	}
	var in persona.Profile
	if err := decode(r, &in); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid json body"})
		return
	}
	if err := s.EnterProfile(); err != nil {
		writeError(w, err)
		return
	}
	if err := s.SetProfile(in); err != nil {
		writeError(w, err)
		return
	}
	if err := h.attachComponents(s); err != nil {
		writeError(w, err)
		return
	}
	h.sessions.Persist(s)
	writeJSON(w, http.StatusOK, map[string]any{
		"stage":   s.Stage(),
		"profile": s.Profile(),
	})
}

// HandleReset discards the session back to welcome.
func (h *Handler) HandleReset(w http.ResponseWriter, r *http.Request) {
	s, ok := h.lookup(w, r)
	if !ok {
		return
	}
	h.sessions.Reset(s.ID())
	writeJSON(w, http.StatusOK, map[string]any{
		"stage": s.Stage(),
		"epoch": s.Epoch(),
	})
}
