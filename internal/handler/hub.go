package handler

import (
	"sync"

	"catspark/internal/conversation"
)

// hub fans conversation events out to websocket subscribers per session.
// Slow subscribers drop events rather than block the orchestrator.
type hub struct {
	mu   sync.Mutex
	subs map[string]map[chan conversation.Event]struct{}
}

func newHub() *hub {
	return &hub{subs: make(map[string]map[chan conversation.Event]struct{})}
}

func (h *hub) subscribe(sessionID string) chan conversation.Event {
	ch := make(chan conversation.Event, 16)
	h.mu.Lock()
	if h.subs[sessionID] == nil {
		h.subs[sessionID] = make(map[chan conversation.Event]struct{})
	}
	h.subs[sessionID][ch] = struct{}{}
	h.mu.Unlock()
	return ch
}

func (h *hub) unsubscribe(sessionID string, ch chan conversation.Event) {
	h.mu.Lock()
	if set, ok := h.subs[sessionID]; ok {
		delete(set, ch)
		if len(set) == 0 {
			delete(h.subs, sessionID)
		}
	}
	h.mu.Unlock()
	close(ch)
}

func (h *hub) broadcast(sessionID string, ev conversation.Event) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for ch := range h.subs[sessionID] {
		select {
		case ch <- ev:
		default:
		}
	}
}
