package cosmos

import (
	"strings"
	"sync"
)

// sessionStore tracks the session token per container so that session
// consistency reads observe the caller's own writes. Tokens arrive on write
// responses and are replayed on subsequent requests under the same
// container link.
type sessionStore struct {
	mu     sync.RWMutex
	tokens map[string]string
}

func newSessionStore() *sessionStore {
	return &sessionStore{tokens: make(map[string]string)}
}

// containerScope reduces an arbitrary resource link to its container link;
// database-level links map to themselves.
func containerScope(link string) string {
	parts := strings.Split(link, "/")
	// dbs/{db}/colls/{coll}/...
	if len(parts) >= 4 && parts[0] == resourceTypeDatabase && parts[2] == resourceTypeContainer {
		return strings.Join(parts[:4], "/")
	}
	if len(parts) >= 2 && parts[0] == resourceTypeDatabase {
		return strings.Join(parts[:2], "/")
	}
	return link
}

func (s *sessionStore) get(link string) string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.tokens[containerScope(link)]
}

func (s *sessionStore) set(link, token string) {
	if token == "" {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tokens[containerScope(link)] = token
}

func (s *sessionStore) drop(link string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.tokens, containerScope(link))
}
