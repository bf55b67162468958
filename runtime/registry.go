package runtime

import (
	"chat-relay/domain"
	"chat-relay/errors"
	"slices"
	"sync"
	"time"

	"github.com/samber/lo"
)

// Registry is the authoritative mapping of live connections to sessions.
// Both indices are guarded by one mutex so a lookup never observes a rename
// or an unregister half applied.
type Registry struct {
	mu       sync.RWMutex
	sessions map[domain.ConnectionID]*domain.Session // map connection -> Session
	names    map[string]domain.ConnectionID          // map display name -> connection
	order    []domain.ConnectionID                   // registration order
	counter  uint64
	now      func() time.Time
}

func NewRegistry() *Registry {
	return &Registry{
		sessions: make(map[domain.ConnectionID]*domain.Session),
		names:    make(map[string]domain.ConnectionID),
		now:      func() time.Time { return time.Now().UTC() },
	}
}

// Register creates a session for the channel under the next free generated name.
// The counter is never rewound, so a generated name is never handed out twice.
// A generated name already claimed through a rename is skipped.
func (r *Registry) Register(channel domain.Channel, remoteAddress string) domain.Session {
	r.mu.Lock()
	defer r.mu.Unlock()

	var name string
	for {
		r.counter++
		name = domain.GeneratedName(r.counter)
		if _, taken := r.names[name]; !taken {
			break
		}
	}

	session := &domain.Session{
		ID:            channel.ID(),
		Channel:       channel,
		DisplayName:   name,
		ConnectedAt:   r.now(),
		RemoteAddress: remoteAddress,
	}
	r.sessions[session.ID] = session
	r.names[name] = session.ID
	r.order = append(r.order, session.ID)
	return *session
}

// Unregister removes the session from both indices.
// A second call for the same connection reports absence, not an error.
func (r *Registry) Unregister(id domain.ConnectionID) (domain.Session, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	session, ok := r.sessions[id]
	if !ok {
		return domain.Session{}, false
	}
	delete(r.sessions, id)
	delete(r.names, session.DisplayName)
	if idx := slices.Index(r.order, id); idx >= 0 {
		r.order = slices.Delete(r.order, idx, idx+1)
	}
	return *session, true
}

func (r *Registry) LookupByHandle(id domain.ConnectionID) (domain.Session, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	session, ok := r.sessions[id]
	if !ok {
		return domain.Session{}, false
	}
	return *session, true
}

// LookupByName resolves a display name, case-sensitively.
func (r *Registry) LookupByName(name string) (domain.ConnectionID, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	id, ok := r.names[name]
	return id, ok
}

// Rename swaps the secondary index entry and the session name under one lock.
func (r *Registry) Rename(id domain.ConnectionID, newName string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	session, ok := r.sessions[id]
	if !ok {
		return errors.ErrSessionNotFound
	}
	if session.DisplayName == newName {
		return errors.ErrSameName
	}
	if holder, taken := r.names[newName]; taken && holder != id {
		return errors.ErrNameTaken
	}

	delete(r.names, session.DisplayName)
	r.names[newName] = id
	session.DisplayName = newName
	return nil
}

// ListNames returns a snapshot of display names in registration order.
func (r *Registry) ListNames() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return lo.Map(r.order, func(id domain.ConnectionID, _ int) string {
		return r.sessions[id].DisplayName
	})
}

// Sessions returns a snapshot of every session in registration order.
func (r *Registry) Sessions() []domain.Session {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return lo.Map(r.order, func(id domain.ConnectionID, _ int) domain.Session {
		return *r.sessions[id]
	})
}

func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.sessions)
}
