// README: In-process fan-out of session events to websocket subscribers.
package session

import (
	"sync"

	"pabili/internal/types"
)

const subscriberBuffer = 8

// Hub delivers events to every subscriber of a session. A subscriber that
// falls behind misses events rather than blocking the publisher.
type Hub struct {
	mu   sync.RWMutex
	subs map[types.ID]map[chan Event]struct{}
}

func NewHub() *Hub {
	return &Hub{subs: make(map[types.ID]map[chan Event]struct{})}
}

// Subscribe returns the event channel and a cancel func that unregisters
// and closes it. cancel is safe to call more than once.
func (h *Hub) Subscribe(id types.ID) (<-chan Event, func()) {
	ch := make(chan Event, subscriberBuffer)
	h.mu.Lock()
	if h.subs[id] == nil {
		h.subs[id] = make(map[chan Event]struct{})
	}
	h.subs[id][ch] = struct{}{}
	h.mu.Unlock()

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			h.mu.Lock()
			defer h.mu.Unlock()
			delete(h.subs[id], ch)
			if len(h.subs[id]) == 0 {
				delete(h.subs, id)
			}
			close(ch)
		})
	}
}

// Publish returns how many subscribers received ev.
func (h *Hub) Publish(id types.ID, ev Event) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	delivered := 0
	for ch := range h.subs[id] {
		select {
		case ch <- ev:
			delivered++
		default:
		}
	}
	return delivered
}

func (h *Hub) Subscribers(id types.ID) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subs[id])
}
