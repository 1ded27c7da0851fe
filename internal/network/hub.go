// Package network is the thin transport boundary: a WebSocket
// broadcaster implementing orchestrator.Broadcaster, and an HTTP front
// door exposing health/version and the spectator upgrade endpoint.
// Adapted from the teacher's internal/network (hub.go) and
// internal/server (client.go, http.go, debug.go): same register/
// unregister/broadcast shape, generalized from per-entity unicast
// update channels to a single match-wide spectator fan-out, since a
// tank match has no per-client personalized view to unicast.
package network

import (
	"sync"

	"github.com/philippe-ths/tanks/internal/orchestrator"
)

// Hub fans out one match's broadcaster events to every connected
// spectator. It implements orchestrator.Broadcaster directly so a
// *Match can be constructed with a *Hub with no adapter in between.
type Hub struct {
	mu          sync.RWMutex
	subscribers map[string]chan envelope

	lastStart *orchestrator.MatchStart
}

// envelope is the tagged wire message shape sent down every spectator
// channel; Kind distinguishes which of the four payload fields is set,
// the same discriminated-union convention domain.Event uses.
type envelope struct {
	Kind    string                   `json:"kind"`
	Start   *orchestrator.MatchStart `json:"start,omitempty"`
	State   *orchestrator.State      `json:"state,omitempty"`
	End     *orchestrator.MatchEnd   `json:"end,omitempty"`
	Forfeit *orchestrator.Forfeit    `json:"forfeit,omitempty"`
}

// NewHub constructs an empty broadcaster hub.
func NewHub() *Hub {
	return &Hub{subscribers: make(map[string]chan envelope)}
}

// Register opens a new spectator channel keyed by an opaque
// connection id. If the match already started, the caller receives a
// synthetic start envelope first so a spectator joining mid-match
// still learns the seed/constants/roster.
func (h *Hub) Register(connID string) <-chan envelope {
	h.mu.Lock()
	defer h.mu.Unlock()

	if old, ok := h.subscribers[connID]; ok {
		close(old)
	}
	ch := make(chan envelope, 64)
	h.subscribers[connID] = ch

	if h.lastStart != nil {
		select {
		case ch <- envelope{Kind: "start", Start: h.lastStart}:
		default:
		}
	}
	return ch
}

// Unregister closes and drops connID's channel.
func (h *Hub) Unregister(connID string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if ch, ok := h.subscribers[connID]; ok {
		close(ch)
		delete(h.subscribers, connID)
	}
}

func (h *Hub) broadcast(e envelope) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for _, ch := range h.subscribers {
		select {
		case ch <- e:
		default:
			// A slow spectator drops frames rather than stalling the
			// match's own goroutines; State is throttled and frequent
			// enough that a dropped frame is superseded shortly after.
		}
	}
}

// MatchStart implements orchestrator.Broadcaster.
func (h *Hub) MatchStart(s orchestrator.MatchStart) {
	h.mu.Lock()
	h.lastStart = &s
	h.mu.Unlock()
	h.broadcast(envelope{Kind: "start", Start: &s})
}

// State implements orchestrator.Broadcaster.
func (h *Hub) State(s orchestrator.State) {
	h.broadcast(envelope{Kind: "state", State: &s})
}

// MatchEnd implements orchestrator.Broadcaster.
func (h *Hub) MatchEnd(e orchestrator.MatchEnd) {
	h.broadcast(envelope{Kind: "end", End: &e})
	h.mu.Lock()
	h.lastStart = nil
	h.mu.Unlock()
}

// Forfeit implements orchestrator.Broadcaster.
func (h *Hub) Forfeit(f orchestrator.Forfeit) {
	h.broadcast(envelope{Kind: "forfeit", Forfeit: &f})
}

// SubscriberCount reports how many spectators are currently connected.
func (h *Hub) SubscriberCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subscribers)
}
