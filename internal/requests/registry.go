// Package requests – topic registry.
//
// At most one realtime subscription may exist per topic within a process,
// even when component lifecycles overlap (two consumers for the same hotel
// starting nearly simultaneously). The registry makes the claim an atomic
// check-and-set so no two callers can both observe the topic as free.
package requests

import "sync"

// TopicRegistry tracks which realtime topics are currently claimed in this
// process. It is injected into every feed adapter rather than accessed as
// ambient global state, so tests can use isolated instances.
//
// The zero value is not usable; construct with NewTopicRegistry.
type TopicRegistry struct {
	mu      sync.Mutex
	claimed map[string]struct{}
}

// NewTopicRegistry constructs an empty registry.
func NewTopicRegistry() *TopicRegistry {
	return &TopicRegistry{claimed: make(map[string]struct{})}
}

// Claim atomically claims topic if it is free. It returns true when the
// caller now owns the topic and false when another owner already holds it.
func (r *TopicRegistry) Claim(topic string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, held := r.claimed[topic]; held {
		return false
	}
	r.claimed[topic] = struct{}{}
	return true
}

// Release frees a previously claimed topic. Releasing an unclaimed topic is
// a no-op, which keeps teardown idempotent.
func (r *TopicRegistry) Release(topic string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.claimed, topic)
}

// Held reports whether topic is currently claimed.
func (r *TopicRegistry) Held(topic string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, held := r.claimed[topic]
	return held
}
