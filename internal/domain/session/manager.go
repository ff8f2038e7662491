package session

import (
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
)

// Session is the payload stored per MCP session id.
type Session struct {
	IDSID string
}

type entry struct {
	session    Session
	createdAt  time.Time
	lastActive time.Time
}

// Manager is a capacity- and TTL-bounded session table. Entries are reclaimed
// when their TTL lapses, or least-recently-used first once the table is at
// capacity; the request path never removes them explicitly. Every Get
// re-inserts the entry so access refreshes the deadline. Strict serialization
// of last_active updates is not required.
type Manager struct {
	cache *expirable.LRU[string, entry]
}

func NewManager(capacity int, ttl time.Duration) *Manager {
	return &Manager{
		cache: expirable.NewLRU[string, entry](capacity, nil, ttl),
	}
}

// Put inserts or replaces a session, preserving the original created_at when
// the id already exists.
func (m *Manager) Put(sessionID string, s Session) {
	now := time.Now()
	createdAt := now
	if existing, ok := m.cache.Peek(sessionID); ok {
		createdAt = existing.createdAt
	}
	m.cache.Add(sessionID, entry{
		session:    s,
		createdAt:  createdAt,
		lastActive: now,
	})
}

// Get returns the session payload and refreshes last_active. Absent on miss or
// TTL expiry.
func (m *Manager) Get(sessionID string) (Session, bool) {
	e, ok := m.cache.Get(sessionID)
	if !ok {
		return Session{}, false
	}
	e.lastActive = time.Now()
	m.cache.Add(sessionID, e)
	return e.session, true
}

// CreatedAt reports when the session was first inserted.
func (m *Manager) CreatedAt(sessionID string) (time.Time, bool) {
	e, ok := m.cache.Peek(sessionID)
	if !ok {
		return time.Time{}, false
	}
	return e.createdAt, true
}

func (m *Manager) Remove(sessionID string) {
	m.cache.Remove(sessionID)
}

func (m *Manager) Len() int {
	return m.cache.Len()
}
