package memory

import (
	"sync"
	"time"

	"routine-advisor-be/pkg/store"

	"github.com/patrickmn/go-cache"
)

// SessionRepository holds live profile sessions. Idle sessions expire after an hour; the
// selection survives expiry through the preference store, the transcript does not.
type SessionRepository struct {
	cache *cache.Cache
	mu    sync.Mutex
}

func NewSessionRepository(ttl time.Duration) *SessionRepository {
	if ttl <= 0 {
		ttl = 1 * time.Hour
	}
	// Purges expired items every 10 minutes
	c := cache.New(ttl, 10*time.Minute)
	return &SessionRepository{
		cache: c,
	}
}

func (r *SessionRepository) Save(session *store.Session) {
	r.cache.Set(session.ID, session, cache.DefaultExpiration)
}

func (r *SessionRepository) Get(sessionID string) (*store.Session, bool) {
	if x, found := r.cache.Get(sessionID); found {
		return x.(*store.Session), true
	}
	return nil, false
}

// GetOrCreate returns the live session, building one with create when none exists.
// Access refreshes the expiry. A failed create caches nothing.
func (r *SessionRepository) GetOrCreate(sessionID string, create func() (*store.Session, error)) (*store.Session, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	session, found := r.Get(sessionID)
	if !found {
		var err error
		if session, err = create(); err != nil {
			return nil, err
		}
	}
	r.Save(session)
	return session, nil
}

func (r *SessionRepository) Delete(sessionID string) {
	r.cache.Delete(sessionID)
}

// Evict runs release against the live session (nil when there is none) while holding the
// repository lock, and drops the session when release succeeds. No session can be created for
// the id until release returns.
func (r *SessionRepository) Evict(sessionID string, release func(session *store.Session) error) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	session, _ := r.Get(sessionID)
	if err := release(session); err != nil {
		return err
	}
	r.cache.Delete(sessionID)
	return nil
}
