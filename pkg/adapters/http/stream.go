package http

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"sync"

	"github.com/aretw0/txtree/internal/logging"
	"github.com/go-chi/chi/v5"
)

// RevisionEvent announces a stored change of a document.
type RevisionEvent struct {
	Document string `json:"document"`
	Revision int    `json:"revision,omitempty"`
	Deleted  bool   `json:"deleted,omitempty"`
}

// StreamManager handles active SSE connections per document.
type StreamManager struct {
	mu          sync.RWMutex
	subscribers map[string]map[chan RevisionEvent]struct{}
	logger      *slog.Logger
}

func NewStreamManager() *StreamManager {
	return &StreamManager{
		subscribers: make(map[string]map[chan RevisionEvent]struct{}),
		logger:      logging.NewNop(),
	}
}

// Subscribe registers a channel for events of name. The returned func
// unsubscribes and closes the channel.
func (sm *StreamManager) Subscribe(name string) (<-chan RevisionEvent, func()) {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	ch := make(chan RevisionEvent, 10)
	if _, ok := sm.subscribers[name]; !ok {
		sm.subscribers[name] = make(map[chan RevisionEvent]struct{})
	}
	sm.subscribers[name][ch] = struct{}{}

	return ch, func() {
		sm.mu.Lock()
		defer sm.mu.Unlock()
		if subs, ok := sm.subscribers[name]; ok {
			if _, ok := subs[ch]; !ok {
				return
			}
			delete(subs, ch)
			close(ch)
			if len(subs) == 0 {
				delete(sm.subscribers, name)
			}
		}
	}
}

// Broadcast sends ev to the subscribers of name without blocking.
// Slow subscribers miss events.
func (sm *StreamManager) Broadcast(name string, ev RevisionEvent) {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	for ch := range sm.subscribers[name] {
		select {
		case ch <- ev:
		default:
			sm.logger.Warn("SSE client buffer full, dropping event", "document", name)
		}
	}
}

// SubscribeEvents handles GET /documents/{name}/events.
func (s *Server) SubscribeEvents(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "Streaming not supported", http.StatusInternalServerError)
		return
	}
	name := chi.URLParam(r, "name")

	ch, cancel := s.Streams.Subscribe(name)
	defer cancel()

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	fmt.Fprintf(w, "event: ping\ndata: connected\n\n")
	flusher.Flush()
	s.logger.Debug("SSE client subscribed", "document", name)

	for {
		select {
		case <-r.Context().Done():
			s.logger.Debug("SSE client disconnected", "document", name)
			return
		case ev, ok := <-ch:
			if !ok {
				return
			}
			data, err := json.Marshal(ev)
			if err != nil {
				s.logger.Error("SSE event encode failed", "err", err)
				continue
			}
			fmt.Fprintf(w, "event: revision\ndata: %s\n\n", data)
			flusher.Flush()
		}
	}
}
