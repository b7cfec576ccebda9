package infrastructure

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"sync"
	"time"

	"parkeoWs/internal/realtime/domain"
)

// ErrNoSuchConnection is returned for sends addressed to an id that is not
// registered (already disconnected or never admitted).
var ErrNoSuchConnection = errors.New("no such connection")

// Hub composes the connection registry and the topic subscription index and
// provides the fan-out primitives. Domain logic never touches clients
// directly; it goes through SendToTopic / SendToSubject / BroadcastAll,
// which enqueue without waiting for remote writes.
//
// mu serializes membership mutation across the two structures, so a Detach
// and an in-flight Subscribe on the same connection cannot interleave and
// strand a deregistered id in the index. Fan-out reads stay on the inner
// locks.
type Hub struct {
	mu       sync.Mutex
	registry *Registry
	topics   *TopicIndex
}

func NewHub() *Hub {
	return &Hub{
		registry: NewRegistry(),
		topics:   NewTopicIndex(),
	}
}

// Attach admits an authenticated client: registers it, auto-subscribes it to
// its subject topic and, for admins, the admin topic, and returns the new
// connection id. The client appears under those topics for its entire
// lifetime.
func (h *Hub) Attach(c *Client) string {
	h.mu.Lock()
	id := h.registry.Register(c)
	h.topics.Subscribe(id, domain.SubjectTopic(c.subjectID))
	if c.role == domain.RoleAdmin {
		h.topics.Subscribe(id, domain.TopicRoleAdmin)
	}
	h.mu.Unlock()
	slog.Info("ws attached",
		slog.String("connId", id),
		slog.String("subjectId", c.subjectID),
		slog.String("role", string(c.role)),
	)
	return id
}

// Detach removes the connection from the index and the registry and closes
// it. Safe to call more than once and for never-registered clients.
func (h *Hub) Detach(c *Client) {
	if c == nil || c.id == "" {
		return
	}
	h.mu.Lock()
	h.topics.RemoveAll(c.id)
	removed := h.registry.Deregister(c.id)
	h.mu.Unlock()
	if removed != nil {
		slog.Info("ws detached", slog.String("connId", c.id), slog.String("subjectId", c.subjectID))
	}
	c.close()
}

// Subscribe validates the topic against the connection's registry-cached role
// and adds the membership. A connection that was detached in the meantime
// gets ErrNoSuchConnection; its id must not re-enter the index.
func (h *Hub) Subscribe(c *Client, topic string) error {
	if err := domain.AuthorizeSubscription(c.role, c.subjectID, topic); err != nil {
		return err
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.registry.Get(c.id) == nil {
		return ErrNoSuchConnection
	}
	h.topics.Subscribe(c.id, topic)
	return nil
}

// Unsubscribe removes the membership; unknown memberships are a no-op.
func (h *Hub) Unsubscribe(c *Client, topic string) {
	h.mu.Lock()
	h.topics.Unsubscribe(c.id, topic)
	h.mu.Unlock()
}

// SubscribersOf exposes the index to tests and the admin surface.
func (h *Hub) SubscribersOf(topic string) []string {
	return h.topics.SubscribersOf(topic)
}

// SendToTopic fans the event out to every current subscriber of the topic.
// Zero subscribers is a silent no-op; a full or closed queue on one
// connection never affects delivery to the rest.
func (h *Hub) SendToTopic(topic string, ev *domain.Event) {
	data, err := json.Marshal(ev)
	if err != nil {
		slog.Error("fan-out marshal error", slog.Any("error", err))
		return
	}
	for _, id := range h.topics.SubscribersOf(topic) {
		h.deliver(id, topic, ev.Kind, data)
	}
}

// SendToSubject targets every live connection of one subject (multi-device).
func (h *Hub) SendToSubject(subjectID string, ev *domain.Event) {
	h.SendToTopic(domain.SubjectTopic(subjectID), ev)
}

// BroadcastAll enqueues on every registered connection regardless of topic
// membership. Used only for system-wide announcements.
func (h *Hub) BroadcastAll(ev *domain.Event) {
	data, err := json.Marshal(ev)
	if err != nil {
		slog.Error("broadcast marshal error", slog.Any("error", err))
		return
	}
	for _, c := range h.registry.All() {
		if err := c.enqueue(data); err != nil {
			slog.Warn("broadcast drop",
				slog.String("connId", c.id),
				slog.String("kind", string(ev.Kind)),
				slog.Any("error", err),
			)
		}
	}
}

// SendToConnection targets a single connection id.
func (h *Hub) SendToConnection(connID string, ev *domain.Event) error {
	c := h.registry.Get(connID)
	if c == nil {
		return ErrNoSuchConnection
	}
	data, err := json.Marshal(ev)
	if err != nil {
		return err
	}
	return c.enqueue(data)
}

func (h *Hub) deliver(connID, topic string, kind domain.EventKind, data []byte) {
	c := h.registry.Get(connID)
	if c == nil {
		// Deregistered between the index snapshot and now; nothing to do.
		return
	}
	if err := c.enqueue(data); err != nil {
		slog.Warn("fan-out drop",
			slog.String("connId", connID),
			slog.String("topic", topic),
			slog.String("kind", string(kind)),
			slog.Any("error", err),
		)
	}
}

// Stats summarizes live connections for the notifier and the admin surface.
func (h *Hub) Stats() domain.ConnectionStats {
	return h.registry.Stats()
}

// Connections lists admin-facing connection metadata.
func (h *Hub) Connections() []ConnectionInfo {
	return h.registry.List()
}

// Shutdown detaches every connection and waits for the write pumps to flush
// what was already queued. The wait ends as soon as every pump has exited,
// bounded by the drain grace or the caller's context. An idle hub returns
// immediately.
func (h *Hub) Shutdown(ctx context.Context) {
	clients := h.registry.All()
	for _, c := range clients {
		h.Detach(c)
	}
	grace := time.After(3 * time.Second)
	for _, c := range clients {
		if c.conn == nil {
			// No transport, no pump to wait for.
			continue
		}
		select {
		case <-c.writerDone:
		case <-grace:
			return
		case <-ctx.Done():
			return
		}
	}
}
