package workspace

import (
	"time"

	"github.com/google/uuid"
	"github.com/patrickmn/go-cache"
)

// SessionStore keeps one Navigator per connected user session. Entries expire
// after an hour of inactivity so abandoned sessions do not pile up.
type SessionStore struct {
	cache  *cache.Cache
	lister NoteLister
}

func NewSessionStore(lister NoteLister) *SessionStore {
	// Default expiration of 1 hour, purge expired items every 10 minutes.
	c := cache.New(1*time.Hour, 10*time.Minute)
	return &SessionStore{
		cache:  c,
		lister: lister,
	}
}

// Get returns the navigator for a session, creating one on first use. Each
// access refreshes the expiration.
func (s *SessionStore) Get(sessionID string, userID uuid.UUID) *Navigator {
	if x, found := s.cache.Get(sessionID); found {
		nav := x.(*Navigator)
		s.cache.Set(sessionID, nav, cache.DefaultExpiration)
		return nav
	}
	nav := NewNavigator(userID, s.lister)
	s.cache.Set(sessionID, nav, cache.DefaultExpiration)
	return nav
}

func (s *SessionStore) Delete(sessionID string) {
	s.cache.Delete(sessionID)
}
