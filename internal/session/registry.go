package session

import (
	"strconv"
	"time"

	gocache "github.com/patrickmn/go-cache"
)

// Registry keeps the active session per chat. Abandoned sessions expire after
// the TTL so a technician who walks away mid-flow starts clean next time.
type Registry struct {
	cache *gocache.Cache
}

// NewRegistry creates a session registry with the given idle TTL.
func NewRegistry(ttl time.Duration) *Registry {
	return &Registry{
		cache: gocache.New(ttl, 10*time.Minute),
	}
}

// Start replaces any existing session for the chat with a fresh one.
func (r *Registry) Start(chatID int64) *Session {
	s := New(chatID)
	r.cache.SetDefault(key(chatID), s)
	return s
}

// Get returns the active session for the chat, refreshing its TTL.
func (r *Registry) Get(chatID int64) (*Session, bool) {
	v, found := r.cache.Get(key(chatID))
	if !found {
		return nil, false
	}
	s := v.(*Session)
	r.cache.SetDefault(key(chatID), s)
	return s, true
}

// Delete removes the session for the chat.
func (r *Registry) Delete(chatID int64) {
	r.cache.Delete(key(chatID))
}

func key(chatID int64) string {
	return strconv.FormatInt(chatID, 10)
}
