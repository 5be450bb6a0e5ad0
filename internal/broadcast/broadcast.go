// Package broadcast fans typed server messages out to every subscriber of one
// room. Publication order is preserved per subscriber; a subscriber that
// cannot keep up is marked lagged instead of blocking the room, and the
// connection layer resynchronizes it with a fresh snapshot.
package broadcast

import (
	"sync"
	"sync/atomic"

	"typeracer/internal/metrics"
	"typeracer/internal/protocol"
)

const subscriberBuffer = 64

// Subscriber is one receiver of a room's broadcasts.
type Subscriber struct {
	C      chan protocol.ServerMsg
	lagged atomic.Bool
}

// Lagged reports whether a message was dropped since the last call, and
// clears the flag.
func (s *Subscriber) Lagged() bool {
	return s.lagged.Swap(false)
}

type Hub struct {
	mu   sync.Mutex
	subs map[*Subscriber]bool
}

func NewHub() *Hub {
	return &Hub{
		subs: make(map[*Subscriber]bool),
	}
}

func (h *Hub) Subscribe() *Subscriber {
	sub := &Subscriber{C: make(chan protocol.ServerMsg, subscriberBuffer)}
	h.mu.Lock()
	h.subs[sub] = true
	h.mu.Unlock()
	return sub
}

func (h *Hub) Unsubscribe(sub *Subscriber) {
	h.mu.Lock()
	if h.subs[sub] {
		delete(h.subs, sub)
		close(sub.C)
	}
	h.mu.Unlock()
}

// Publish delivers msg to every subscriber without blocking. Holding the lock
// for the whole fan-out keeps concurrent publishes in one order for all
// subscribers.
func (h *Hub) Publish(msg protocol.ServerMsg) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for sub := range h.subs {
		select {
		case sub.C <- msg:
		default:
			sub.lagged.Store(true)
			metrics.BroadcastDrops.Inc()
		}
	}
}

func (h *Hub) SubscriberCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.subs)
}
