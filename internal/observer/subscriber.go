// Package observer fans engine snapshots out to read-only watchers: the
// autopilot panel, websocket clients and anything else that wants to look
// at a running session without touching it.
package observer

import (
	"sync"

	"github.com/google/uuid"

	"github.com/vovakirdan/rope-survival/internal/sim"
)

// SubscriberID uniquely identifies a subscriber.
type SubscriberID string

// NewSubscriberID returns a fresh random id.
func NewSubscriberID() SubscriberID {
	return SubscriberID(uuid.NewString())
}

// Subscriber receives snapshots over a buffered channel.
// A slow reader loses the oldest snapshots, never blocks the publisher.
type Subscriber struct {
	id       SubscriberID
	snaps    chan sim.Snapshot
	done     chan struct{}
	doneOnce sync.Once
}

// NewSubscriber creates a subscriber. bufferSize controls how many
// snapshots can queue before the oldest is dropped.
func NewSubscriber(id SubscriberID, bufferSize int) *Subscriber {
	if bufferSize < 1 {
		bufferSize = 8
	}
	return &Subscriber{
		id:    id,
		snaps: make(chan sim.Snapshot, bufferSize),
		done:  make(chan struct{}),
	}
}

// ID returns the subscriber identifier.
func (s *Subscriber) ID() SubscriberID {
	return s.id
}

// Send queues a snapshot. If the buffer is full the oldest queued snapshot
// is dropped to make room.
func (s *Subscriber) Send(snap sim.Snapshot) {
	select {
	case <-s.done:
		return
	default:
	}

	select {
	case s.snaps <- snap:
	default:
		select {
		case <-s.snaps:
		default:
		}
		select {
		case s.snaps <- snap:
		default:
		}
	}
}

// Snapshots returns the channel to read from.
func (s *Subscriber) Snapshots() <-chan sim.Snapshot {
	return s.snaps
}

// Done returns a channel that closes when the subscriber is closed.
func (s *Subscriber) Done() <-chan struct{} {
	return s.done
}

// Close marks the subscriber as done. Safe to call multiple times.
func (s *Subscriber) Close() {
	s.doneOnce.Do(func() {
		close(s.done)
	})
}
