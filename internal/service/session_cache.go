package service

import (
	"container/list"
	"sync"
	"time"
)

// ChatMessage is one turn of an assistant conversation.
type ChatMessage struct {
	Role      string    `json:"role"` // user | assistant
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"createdAt"`
}

// SessionCache is a bounded in-memory conversation store: a fixed-capacity
// map with oldest-entry eviction. It is the only piece of process-wide
// mutable state besides the rate limiter buckets, and it is injected rather
// than module-global so it stays testable.
type SessionCache struct {
	mu       sync.Mutex
	capacity int
	order    *list.List // session ids, oldest at the front
	sessions map[string]*sessionEntry
}

type sessionEntry struct {
	messages []ChatMessage
	elem     *list.Element
}

// NewSessionCache creates a cache bounded at capacity sessions.
func NewSessionCache(capacity int) *SessionCache {
	if capacity <= 0 {
		capacity = 100
	}
	return &SessionCache{
		capacity: capacity,
		order:    list.New(),
		sessions: make(map[string]*sessionEntry),
	}
}

// Append adds a message to a session, creating it if needed. When the
// capacity is exceeded the oldest session is evicted.
func (c *SessionCache) Append(sessionID string, msg ChatMessage) {
	c.mu.Lock()
	defer c.mu.Unlock()

	entry, ok := c.sessions[sessionID]
	if !ok {
		if len(c.sessions) >= c.capacity {
			oldest := c.order.Front()
			if oldest != nil {
				delete(c.sessions, oldest.Value.(string))
				c.order.Remove(oldest)
			}
		}
		entry = &sessionEntry{elem: c.order.PushBack(sessionID)}
		c.sessions[sessionID] = entry
	}
	entry.messages = append(entry.messages, msg)
}

// History returns a copy of the session's messages, oldest first.
func (c *SessionCache) History(sessionID string) []ChatMessage {
	c.mu.Lock()
	defer c.mu.Unlock()

	entry, ok := c.sessions[sessionID]
	if !ok {
		return nil
	}
	out := make([]ChatMessage, len(entry.messages))
	copy(out, entry.messages)
	return out
}

// Len reports the number of live sessions.
func (c *SessionCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.sessions)
}
