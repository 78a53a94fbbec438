package conversation

import (
	"time"

	"github.com/google/uuid"
	gocache "github.com/patrickmn/go-cache"
)

// SessionCache holds per-session state in memory, bounded by TTL eviction so
// abandoned sessions do not accumulate for the process lifetime. It is safe
// for concurrent use across sessions; serialization of turns within one
// session is the State's own concern.
type SessionCache struct {
	cache *gocache.Cache
	ttl   time.Duration
}

func NewSessionCache(ttl, cleanupInterval time.Duration) *SessionCache {
	if ttl <= 0 {
		ttl = 2 * time.Hour
	}
	if cleanupInterval <= 0 {
		cleanupInterval = 10 * time.Minute
	}
	return &SessionCache{
		cache: gocache.New(ttl, cleanupInterval),
		ttl:   ttl,
	}
}

// GetOrCreate returns the state for a session, creating it lazily on first
// use. Access refreshes the TTL so active sessions are not evicted mid-flow.
func (s *SessionCache) GetOrCreate(sessionID uuid.UUID) *State {
	key := sessionID.String()

	for {
		if v, ok := s.cache.Get(key); ok {
			st := v.(*State)
			s.cache.Set(key, st, s.ttl)
			return st
		}

		st := NewState(sessionID)
		if err := s.cache.Add(key, st, s.ttl); err == nil {
			return st
		}
		// Lost the insert race; loop to pick up the winner's state.
	}
}

// Len reports how many sessions are currently resident.
func (s *SessionCache) Len() int {
	return s.cache.ItemCount()
}
