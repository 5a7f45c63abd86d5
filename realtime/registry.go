package realtime

import (
	"context"
	"log/slog"
	"sync"

	"partyline/contract"
	"partyline/domain/event"
)

type set map[string]struct{}

// Registry maps live connections to the topics they subscribed to and fans
// domain events out to them. It is the only bridge between producers
// (services) and transports (websocket clients): neither side knows about
// the other.
//
// Delivery is best-effort and fire-and-forget. A dead or slow connection
// drops events silently; nothing is retried or persisted.
type Registry struct {
	mu sync.RWMutex
	// sinks holds one inbox per live connection.
	sinks map[string]contract.EventSink
	// topicMembers maps a topic to the connections subscribed to it.
	topicMembers map[string]set
	// topicsByConn is the reverse index used by UnsubscribeAll on disconnect.
	topicsByConn map[string]set

	log *slog.Logger
}

func NewRegistry(log *slog.Logger) *Registry {
	return &Registry{
		sinks:        make(map[string]contract.EventSink),
		topicMembers: make(map[string]set),
		topicsByConn: make(map[string]set),
		log:          log,
	}
}

// Subscribe registers the connection's sink and adds it to the topic's
// subscriber set. Subscribing twice to the same topic is a no-op.
func (r *Registry) Subscribe(connectionID, topic string, sink contract.EventSink) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.sinks[connectionID] = sink

	if _, ok := r.topicMembers[topic]; !ok {
		r.topicMembers[topic] = make(set)
	}
	r.topicMembers[topic][connectionID] = struct{}{}

	if _, ok := r.topicsByConn[connectionID]; !ok {
		r.topicsByConn[connectionID] = make(set)
	}
	r.topicsByConn[connectionID][topic] = struct{}{}
}

// Unsubscribe removes the connection from one topic, dropping empty topic
// sets so the maps do not grow over time.
func (r *Registry) Unsubscribe(connectionID, topic string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.removeFromTopic(connectionID, topic)
	if topics, ok := r.topicsByConn[connectionID]; ok {
		delete(topics, topic)
		if len(topics) == 0 {
			delete(r.topicsByConn, connectionID)
			delete(r.sinks, connectionID)
		}
	}
}

// UnsubscribeAll removes the connection from every topic it ever joined.
// Called on disconnect.
func (r *Registry) UnsubscribeAll(connectionID string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for topic := range r.topicsByConn[connectionID] {
		r.removeFromTopic(connectionID, topic)
	}
	delete(r.topicsByConn, connectionID)
	delete(r.sinks, connectionID)
}

func (r *Registry) removeFromTopic(connectionID, topic string) {
	if members, ok := r.topicMembers[topic]; ok {
		delete(members, connectionID)
		if len(members) == 0 {
			delete(r.topicMembers, topic)
		}
	}
}

// Publish delivers e to every connection currently subscribed to its topic.
// The subscriber set is snapshotted under the read lock and iterated outside
// it, so a concurrent unsubscribe never corrupts an in-flight delivery.
func (r *Registry) Publish(ctx context.Context, e event.DomainEvent) {
	r.mu.RLock()
	members := r.topicMembers[e.Topic()]
	sinks := make([]contract.EventSink, 0, len(members))
	for connectionID := range members {
		if sink, ok := r.sinks[connectionID]; ok {
			sinks = append(sinks, sink)
		}
	}
	r.mu.RUnlock()

	for _, sink := range sinks {
		if err := sink.Consume(ctx, e); err != nil {
			r.log.Debug("event dropped", "topic", e.Topic(), "event", e.Name(), "error", err)
		}
	}
}

// IsUserOnline reports whether at least one live connection is subscribed to
// the user's personal topic.
func (r *Registry) IsUserOnline(userID string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.topicMembers[event.UserTopic(userID)]) > 0
}
