package handler

import (
	"context"
	"errors"
	"log"
	"net/http"
	"time"

	"catspark/internal/artifact"
	"catspark/internal/reveal"
	"catspark/internal/session"
	"catspark/internal/telemetry"
)

const cardObjectName = "card.png"

// HandleTimeline settles the 7-day diary and advances to the reveal
// stage. Blocks at most the diary timeout.
func (h *Handler) HandleTimeline(w http.ResponseWriter, r *http.Request) {
	s, ok := h.lookup(w, r)
	if !ok {
		return
	}
	coord := s.Coordinator()
	if coord == nil {
		writeJSON(w, http.StatusConflict, map[string]string{"error": "session has no coordinator"})
		return
	}
	if err := s.CompleteConversation(); err != nil {
		writeError(w, err)
		return
	}
	entries := coord.Timeline(r.Context())
	if err := s.CompleteTimeline(entries); err != nil {
		writeError(w, err)
		return
	}
	h.sessions.Persist(s)
	writeJSON(w, http.StatusOK, map[string]any{
		"timeline": entries,
		"stage":    s.Stage(),
	})
}

// HandleReveal confirms the style choice, fires the poem and
// illustration generations, and returns once the reveal transition has
// fired. The illustration may still be in flight; it lands in the card
// store whenever it settles.
func (h *Handler) HandleReveal(w http.ResponseWriter, r *http.Request) {
	s, ok := h.lookup(w, r)
	if !ok {
		return
	}
	coord := s.Coordinator()
	if coord == nil {
		writeJSON(w, http.StatusConflict, map[string]string{"error": "session has no coordinator"})
		return
	}
	if s.Stage() != session.StageReveal {
		writeJSON(w, http.StatusConflict, map[string]string{"error": "reveal not open at stage " + string(s.Stage())})
		return
	}
	var in struct {
		Style string `json:"style"`
	}
	if err := decode(r, &in); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid json body"})
		return
	}
	style := in.Style
	if style == "" {
		if result, scored := s.Result(); scored {
			style = h.lib.Get(result.Primary).DefaultArtStyle
		}
	}

	// Detach generation from the request so a dropped connection does
	// not cancel the artwork.
	genCtx := context.Background()
	if err := coord.StartReveal(genCtx, style); err != nil && !errors.Is(err, reveal.ErrAlreadyStarted) {
		writeError(w, err)
		return
	}
	h.storeCardAsync(s, coord)

	if err := coord.AwaitReveal(r.Context()); err != nil {
		writeError(w, err)
		return
	}
	h.sessions.Persist(s)

	cardURL := "/api/sessions/" + s.ID() + "/card"
	if signed, err := h.cards.URL(r.Context(), s.ID(), cardObjectName); err == nil && signed != "" {
		cardURL = signed
	}

	b := coord.Bundle()
	writeJSON(w, http.StatusOK, map[string]any{
		"state":        coord.State(),
		"poem":         b.Poem,
		"poemFallback": b.PoemFallback,
		"style":        b.Style,
		"hasCard":      b.Illustration != nil,
		"cardUrl":      cardURL,
	})
}

// storeCardAsync persists the illustration once it settles, unless the
// session was reset in the meantime.
func (h *Handler) storeCardAsync(s *session.Session, coord *reveal.Coordinator) {
	epoch := s.Epoch()
	go func() {
		img, err := coord.AwaitIllustration(context.Background())
		if err != nil || img == nil {
			return
		}
		if err := s.Apply(epoch, func(*session.Session) {}); err != nil {
			return
		}
		obj := artifact.Object{Data: img.Bytes, ContentType: img.MIMEType}
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := h.cards.Put(ctx, s.ID(), cardObjectName, obj); err != nil {
			log.Printf("handler: store card for %s: %v", s.ID(), err)
		}
	}()
}

// HandleCard serves the illustration bytes, falling back to the live
// bundle when the store has nothing yet.
func (h *Handler) HandleCard(w http.ResponseWriter, r *http.Request) {
	s, ok := h.lookup(w, r)
	if !ok {
		return
	}
	obj, err := h.cards.Get(r.Context(), s.ID(), cardObjectName)
	if errors.Is(err, artifact.ErrNotFound) {
		if coord := s.Coordinator(); coord != nil {
			if img := coord.Bundle().Illustration; img != nil {
				obj = artifact.Object{Data: img.Bytes, ContentType: img.MIMEType}
				err = nil
			}
		}
	}
	if err != nil || len(obj.Data) == 0 {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "card not ready"})
		return
	}
	ct := obj.ContentType
	if ct == "" {
		ct = "application/octet-stream"
	}
	w.Header().Set("Content-Type", ct)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(obj.Data)
}

// HandleExit stores the survey, closes the session, and notifies the
// webhook.
func (h *Handler) HandleExit(w http.ResponseWriter, r *http.Request) {
	s, ok := h.lookup(w, r)
	if !ok {
		return
	}
	coord := s.Coordinator()
	if coord == nil {
		writeJSON(w, http.StatusConflict, map[string]string{"error": "session has no coordinator"})
		return
	}
	var in session.Survey
	if err := decode(r, &in); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid json body"})
		return
	}
	if err := s.Finish(coord.Bundle(), in); err != nil {
		writeError(w, err)
		return
	}
	h.sessions.Persist(s)

	rec := s.Snapshot()
	h.notifier.Track(telemetry.Outcome{
		Record:   rec,
		Duration: rec.UpdatedAt.Sub(rec.CreatedAt),
	})
	writeJSON(w, http.StatusOK, map[string]any{"stage": s.Stage()})
}

// HandleContact appends contact details left after the thanks screen and
// pushes the supplement card.
func (h *Handler) HandleContact(w http.ResponseWriter, r *http.Request) {
	s, ok := h.lookup(w, r)
	if !ok {
		return
	}
	var in struct {
		Nickname string `json:"nickname"`
		Contact  string `json:"contact"`
	}
	if err := decode(r, &in); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid json body"})
		return
	}
	rec := s.Snapshot()
	rec.Survey.Nickname = in.Nickname
	rec.Survey.Contact = in.Contact
	h.sessions.PersistRecord(rec)
	h.notifier.TrackSupplement(rec)
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
