package runtime

import (
	"sort"
	"sync"

	"chat-hub/errors"

	"github.com/samber/lo"
)

// Registry is the catalog of currently connected sessions keyed by
// username. All access is synchronized and callers get snapshots, never
// the live map, so a broadcast can iterate while connects and disconnects
// keep mutating the catalog.
type Registry struct {
	mu       sync.RWMutex
	sessions map[string]*Session
}

func NewRegistry() *Registry {
	return &Registry{sessions: make(map[string]*Session)}
}

// Register claims a username. The claim is case-sensitive and exclusive
// for the lifetime of the session.
func (r *Registry) Register(session *Session) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.sessions[session.Username]; ok {
		return errors.ErrUsernameTaken
	}
	r.sessions[session.Username] = session
	return nil
}

func (r *Registry) Unregister(username string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.sessions, username)
}

// Lookup returns the session currently holding the username, if any.
func (r *Registry) Lookup(username string) (*Session, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	session, ok := r.sessions[username]
	return session, ok
}

// Online returns a point-in-time snapshot of connected usernames, sorted.
func (r *Registry) Online() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	online := lo.Keys(r.sessions)
	sort.Strings(online)
	return online
}

// Snapshot returns the sessions themselves, for broadcast iteration
// outside the lock.
func (r *Registry) Snapshot() []*Session {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return lo.Values(r.sessions)
}
