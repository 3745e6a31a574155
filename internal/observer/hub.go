package observer

import (
	"sync"

	"github.com/vovakirdan/rope-survival/internal/sim"
)

// Hub is a sim.SnapshotSink that copies every published snapshot to all
// current subscribers. Safe for concurrent use.
type Hub struct {
	mu         sync.RWMutex
	subs       map[SubscriberID]*Subscriber
	latest     sim.Snapshot
	hasLatest  bool
	bufferSize int
	closed     bool
}

var _ sim.SnapshotSink = (*Hub)(nil)

// NewHub creates a hub whose subscribers buffer bufferSize snapshots.
func NewHub(bufferSize int) *Hub {
	return &Hub{
		subs:       make(map[SubscriberID]*Subscriber),
		bufferSize: bufferSize,
	}
}

// Publish implements sim.SnapshotSink.
func (h *Hub) Publish(snap sim.Snapshot) {
	h.mu.Lock()
	h.latest = snap
	h.hasLatest = true
	subs := make([]*Subscriber, 0, len(h.subs))
	for _, s := range h.subs {
		subs = append(subs, s)
	}
	h.mu.Unlock()

	for _, s := range subs {
		s.Send(snap)
	}
}

// Subscribe registers a new subscriber. It receives the latest snapshot
// right away, if there is one. A closed hub returns a closed subscriber.
func (h *Hub) Subscribe() *Subscriber {
	s := NewSubscriber(NewSubscriberID(), h.bufferSize)

	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		s.Close()
		return s
	}
	h.subs[s.ID()] = s
	if h.hasLatest {
		s.Send(h.latest)
	}
	return s
}

// Unsubscribe removes and closes a subscriber.
func (h *Hub) Unsubscribe(id SubscriberID) {
	h.mu.Lock()
	s, ok := h.subs[id]
	delete(h.subs, id)
	h.mu.Unlock()
	if ok {
		s.Close()
	}
}

// Latest returns the most recently published snapshot.
func (h *Hub) Latest() (sim.Snapshot, bool) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.latest, h.hasLatest
}

// Count returns the number of subscribers.
func (h *Hub) Count() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subs)
}

// Close closes every subscriber. Later subscriptions are closed at once.
func (h *Hub) Close() {
	h.mu.Lock()
	subs := h.subs
	h.subs = make(map[SubscriberID]*Subscriber)
	h.closed = true
	h.mu.Unlock()

	for _, s := range subs {
		s.Close()
	}
}
