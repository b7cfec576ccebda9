package infrastructure

import (
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"parkeoWs/internal/realtime/domain"
)

// ConnectionInfo is the admin-facing view of one live connection.
type ConnectionInfo struct {
	ConnectionID string      `json:"connection_id"`
	SubjectID    string      `json:"subject_id"`
	Role         domain.Role `json:"role"`
	ConnectedAt  time.Time   `json:"connected_at"`
}

// Registry owns every live connection, keyed by a process-unique connection
// id. One subject may hold several simultaneous connections (multi-device).
// The registry is the only lifetime manager of clients; the topic index holds
// non-owning ids.
type Registry struct {
	mu    sync.RWMutex
	conns map[string]*Client
	// subject-id -> connection-id set
	subjects map[string]map[string]struct{}
}

func NewRegistry() *Registry {
	return &Registry{
		conns:    make(map[string]*Client),
		subjects: make(map[string]map[string]struct{}),
	}
}

// Register admits the client, assigns it a fresh connection id, and returns
// that id.
func (r *Registry) Register(c *Client) string {
	id := uuid.NewString()
	r.mu.Lock()
	defer r.mu.Unlock()
	c.id = id
	c.connectedAt = time.Now().UTC()
	r.conns[id] = c
	if r.subjects[c.subjectID] == nil {
		r.subjects[c.subjectID] = make(map[string]struct{})
	}
	r.subjects[c.subjectID][id] = struct{}{}
	return id
}

// Deregister removes the connection. Removing an unknown or already-removed
// id is a no-op.
func (r *Registry) Deregister(connID string) *Client {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.conns[connID]
	if !ok {
		return nil
	}
	delete(r.conns, connID)
	if set, ok := r.subjects[c.subjectID]; ok {
		delete(set, connID)
		if len(set) == 0 {
			delete(r.subjects, c.subjectID)
		}
	}
	return c
}

// Get returns the live client for connID, or nil.
func (r *Registry) Get(connID string) *Client {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.conns[connID]
}

// Count returns the number of live connections.
func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.conns)
}

// All returns a snapshot of every live client.
func (r *Registry) All() []*Client {
	r.mu.RLock()
	defer r.mu.RUnlock()
	clients := make([]*Client, 0, len(r.conns))
	for _, c := range r.conns {
		clients = append(clients, c)
	}
	return clients
}

// List returns admin-facing connection metadata ordered by admission time.
func (r *Registry) List() []ConnectionInfo {
	r.mu.RLock()
	infos := make([]ConnectionInfo, 0, len(r.conns))
	for id, c := range r.conns {
		infos = append(infos, ConnectionInfo{
			ConnectionID: id,
			SubjectID:    c.subjectID,
			Role:         c.role,
			ConnectedAt:  c.connectedAt,
		})
	}
	r.mu.RUnlock()

	sort.Slice(infos, func(i, j int) bool {
		if infos[i].ConnectedAt.Equal(infos[j].ConnectedAt) {
			return infos[i].ConnectionID < infos[j].ConnectionID
		}
		return infos[i].ConnectedAt.Before(infos[j].ConnectedAt)
	})
	return infos
}

// Stats summarizes the live connection set.
func (r *Registry) Stats() domain.ConnectionStats {
	r.mu.RLock()
	defer r.mu.RUnlock()
	stats := domain.ConnectionStats{Total: len(r.conns)}
	for _, c := range r.conns {
		if c.role == domain.RoleAdmin {
			stats.AdminsOnline++
		}
	}
	return stats
}
