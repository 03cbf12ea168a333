// Package feed implements the in-process change feed for staff notes.
// This file contains the Broker, a topic-based publish/subscribe hub.
package feed

import (
	"sync"

	"github.com/rs/zerolog/log"
)

// defaultBuffer is the per-subscription channel capacity. Large enough to
// absorb bursts of writes; overflow is dropped (see Publish).
const defaultBuffer = 256

// Subscription is a handle to a single subscriber's event stream. Obtain one
// via Broker.Subscribe and release it with Broker.Unsubscribe.
type Subscription struct {
	topic string
	ch    chan Event

	mu     sync.Mutex
	closed bool
}

// Topic returns the topic this subscription is attached to.
func (s *Subscription) Topic() string { return s.topic }

// Events returns the receive channel for this subscription. The channel is
// closed when the subscription is removed from the broker.
func (s *Subscription) Events() <-chan Event { return s.ch }

// close shuts the event channel exactly once.
func (s *Subscription) close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.closed {
		s.closed = true
		close(s.ch)
	}
}

// deliver attempts a non-blocking send. It reports whether the event was
// accepted; false means the subscriber's buffer is full or the subscription
// is closed.
func (s *Subscription) deliver(ev Event) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return false
	}
	select {
	case s.ch <- ev:
		return true
	default:
		return false
	}
}

// Broker is a process-local publish/subscribe hub keyed by topic. It is safe
// for concurrent use.
type Broker struct {
	mu     sync.RWMutex
	topics map[string]map[*Subscription]struct{}
	buffer int
}

// NewBroker constructs an empty Broker.
func NewBroker() *Broker {
	return &Broker{
		topics: make(map[string]map[*Subscription]struct{}),
		buffer: defaultBuffer,
	}
}

// Subscribe registers a new subscriber on topic and returns its handle.
// Events published after Subscribe returns are delivered in publish order.
func (b *Broker) Subscribe(topic string) *Subscription {
	sub := &Subscription{topic: topic, ch: make(chan Event, b.buffer)}
	b.mu.Lock()
	set, ok := b.topics[topic]
	if !ok {
		set = make(map[*Subscription]struct{})
		b.topics[topic] = set
	}
	set[sub] = struct{}{}
	b.mu.Unlock()
	return sub
}

// Unsubscribe removes sub from the broker and closes its event channel.
// It is idempotent: unsubscribing an already-removed handle is a no-op.
func (b *Broker) Unsubscribe(sub *Subscription) {
	if sub == nil {
		return
	}
	b.mu.Lock()
	if set, ok := b.topics[sub.topic]; ok {
		delete(set, sub)
		if len(set) == 0 {
			delete(b.topics, sub.topic)
		}
	}
	b.mu.Unlock()
	sub.close()
}

// Publish fans ev out to every subscriber of topic. Subscribers whose buffers
// are full miss the event; the drop is logged and counted so operators can
// size buffers appropriately. Publish never blocks the caller.
func (b *Broker) Publish(topic string, ev Event) {
	b.mu.RLock()
	subs := make([]*Subscription, 0, len(b.topics[topic]))
	for s := range b.topics[topic] {
		subs = append(subs, s)
	}
	b.mu.RUnlock()

	for _, s := range subs {
		if !s.deliver(ev) {
			eventsDropped.WithLabelValues(string(ev.Op)).Inc()
			log.Warn().
				Str("topic", topic).
				Str("op", string(ev.Op)).
				Str("note_id", ev.NoteID).
				Msg("change feed subscriber buffer full, event dropped")
		}
	}
}

// SubscriberCount returns the number of active subscriptions on topic.
func (b *Broker) SubscriberCount(topic string) int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.topics[topic])
}
