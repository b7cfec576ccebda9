package infrastructure

import (
	"sync"
)

// TopicIndex maps topic names to the set of subscribed connection ids. It
// holds ids only, never the connections themselves; the registry owns those.
// A topic with zero subscribers is removed from the map and recreated lazily
// on the next subscribe.
type TopicIndex struct {
	mu sync.RWMutex
	// topic -> connection-id set
	topics map[string]map[string]struct{}
	// connection-id -> topic set, for single-pass removal on deregister
	byConn map[string]map[string]struct{}
}

func NewTopicIndex() *TopicIndex {
	return &TopicIndex{
		topics: make(map[string]map[string]struct{}),
		byConn: make(map[string]map[string]struct{}),
	}
}

// Subscribe adds the membership. Subscribing twice collapses into a single
// membership.
func (ti *TopicIndex) Subscribe(connID, topic string) {
	ti.mu.Lock()
	defer ti.mu.Unlock()
	if ti.topics[topic] == nil {
		ti.topics[topic] = make(map[string]struct{})
	}
	ti.topics[topic][connID] = struct{}{}
	if ti.byConn[connID] == nil {
		ti.byConn[connID] = make(map[string]struct{})
	}
	ti.byConn[connID][topic] = struct{}{}
}

// Unsubscribe removes the membership; absent memberships are a no-op.
func (ti *TopicIndex) Unsubscribe(connID, topic string) {
	ti.mu.Lock()
	defer ti.mu.Unlock()
	ti.removeLocked(connID, topic)
}

// RemoveAll drops every subscription held by connID in one pass. Called by
// the hub when a connection is deregistered.
func (ti *TopicIndex) RemoveAll(connID string) {
	ti.mu.Lock()
	defer ti.mu.Unlock()
	for topic := range ti.byConn[connID] {
		ti.removeLocked(connID, topic)
	}
}

func (ti *TopicIndex) removeLocked(connID, topic string) {
	if subs, ok := ti.topics[topic]; ok {
		delete(subs, connID)
		if len(subs) == 0 {
			delete(ti.topics, topic)
		}
	}
	if held, ok := ti.byConn[connID]; ok {
		delete(held, topic)
		if len(held) == 0 {
			delete(ti.byConn, connID)
		}
	}
}

// SubscribersOf returns a snapshot of the subscriber set. Unknown topics
// yield an empty slice, never an error. Iteration order is unspecified.
func (ti *TopicIndex) SubscribersOf(topic string) []string {
	ti.mu.RLock()
	defer ti.mu.RUnlock()
	subs := ti.topics[topic]
	ids := make([]string, 0, len(subs))
	for id := range subs {
		ids = append(ids, id)
	}
	return ids
}

// TopicsOf returns a snapshot of the topics connID is subscribed to.
func (ti *TopicIndex) TopicsOf(connID string) []string {
	ti.mu.RLock()
	defer ti.mu.RUnlock()
	held := ti.byConn[connID]
	topics := make([]string, 0, len(held))
	for topic := range held {
		topics = append(topics, topic)
	}
	return topics
}
