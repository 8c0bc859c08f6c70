package handler

import (
	"net/http"

	"catspark/internal/conversation"
	"catspark/internal/reveal"
	"catspark/internal/session"
	"catspark/internal/types"
)

// attachComponents builds the orchestrator and coordinator for a session
// that just finished its profile. Conversation events flow into the hub
// for any websocket subscribers.
func (h *Handler) attachComponents(s *session.Session) error {
	result, _ := s.Result()
	id := s.ID()

	conv := conversation.New(conversation.Config{
		Generator: h.textGen,
		Library:   h.lib,
		CatName:   s.CatName(),
		Category:  result.Primary,
		Secondary: result.Secondary,
		Profile:   s.Profile(),
		Caption:   s.Caption(),
		Listener:  func(ev conversation.Event) { h.hub.broadcast(id, ev) },
	})
	coord := reveal.New(reveal.Config{
		TextGen:    h.textGen,
		ImageGen:   h.imageGen,
		Library:    h.lib,
		CatName:    s.CatName(),
		Category:   result.Primary,
		Secondary:  result.Secondary,
		Profile:    s.Profile(),
		Caption:    s.Caption(),
		Transcript: conv.Raw(),
	})
	return s.Attach(conv, coord)
}

func (h *Handler) conversationFor(w http.ResponseWriter, r *http.Request) (*session.Session, *conversation.Orchestrator, bool) {
	s, ok := h.lookup(w, r)
	if !ok {
		return nil, nil, false
	}
	conv := s.Conversation()
	if conv == nil {
		writeJSON(w, http.StatusConflict, map[string]string{"error": "conversation not started"})
		return nil, nil, false
	}
	return s, conv, true
}

func chatPayload(conv *conversation.Orchestrator, text string) map[string]any {
	return map[string]any{
		"text":         text,
		"round":        conv.Round(),
		"phase":        conv.Phase(),
		"quickReplies": conv.QuickReplies(),
		"done":         conv.Phase() == conversation.PhaseDone,
	}
}

// HandleChatStart produces the greeting and opens round one.
func (h *Handler) HandleChatStart(w http.ResponseWriter, r *http.Request) {
	s, conv, ok := h.conversationFor(w, r)
	if !ok {
		return
	}
	text, err := conv.Greet(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	h.sessions.Persist(s)
	writeJSON(w, http.StatusOK, chatPayload(conv, text))
}

// HandleChatMessage accepts one user line and returns the persona's
// turn.
func (h *Handler) HandleChatMessage(w http.ResponseWriter, r *http.Request) {
	s, conv, ok := h.conversationFor(w, r)
	if !ok {
		return
	}
	var in struct {
		Text string `json:"text"`
	}
	if err := decode(r, &in); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid json body"})
		return
	}
	text, err := conv.Submit(r.Context(), in.Text)
	if err != nil {
		writeError(w, err)
		return
	}
	h.sessions.Persist(s)
	writeJSON(w, http.StatusOK, chatPayload(conv, text))
}

// HandleChatStream upgrades to a websocket and mirrors the session's
// conversation events until the client goes away.
func (h *Handler) HandleChatStream(w http.ResponseWriter, r *http.Request) {
	s, ok := h.lookup(w, r)
	if !ok {
		return
	}
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}
	defer conn.Close()

	events := h.hub.subscribe(s.ID())
	defer h.hub.unsubscribe(s.ID(), events)

	// A late subscriber first receives the conversation so far, then the
	// live events.
	if conv := s.Conversation(); conv != nil {
		type replayFrame struct {
			Replay  bool          `json:"replay"`
			Speaker types.Speaker `json:"speaker"`
			Text    string        `json:"text"`
		}
		for _, e := range conv.Transcript() {
			if err := conn.WriteJSON(replayFrame{Replay: true, Speaker: e.Speaker, Text: e.Text}); err != nil {
				return
			}
		}
	}

	// Reader loop only notices the client closing.
	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	for {
		select {
		case ev := <-events:
			if err := conn.WriteJSON(ev); err != nil {
				return
			}
		case <-done:
			return
		case <-r.Context().Done():
			return
		}
	}
}
