package cache

import (
	"container/list"
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/tutorhub/backend/internal/domain/notification"
)

// CredentialCache caches per-center SMS gateway credentials in front of a
// slower source (database lookup plus secret decryption). Entries expire after
// a TTL and the cache is bounded by LRU eviction so a large fleet of centers
// cannot grow it without limit.
type CredentialCache struct {
	source     notification.CredentialSource
	ttl        time.Duration
	maxEntries int

	mu      sync.Mutex
	entries map[uuid.UUID]*list.Element
	order   *list.List // front = most recently used
}

type credentialEntry struct {
	centerID  uuid.UUID
	creds     notification.Credentials
	expiresAt time.Time
}

// NewCredentialCache wraps source with a TTL-and-LRU bounded cache
func NewCredentialCache(source notification.CredentialSource, ttl time.Duration, maxEntries int) *CredentialCache {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	if maxEntries <= 0 {
		maxEntries = 256
	}
	return &CredentialCache{
		source:     source,
		ttl:        ttl,
		maxEntries: maxEntries,
		entries:    make(map[uuid.UUID]*list.Element),
		order:      list.New(),
	}
}

// Resolve returns the cached credentials for a center, falling through to the
// underlying source on miss or expiry. Source errors are not cached.
func (c *CredentialCache) Resolve(ctx context.Context, centerID uuid.UUID) (notification.Credentials, error) {
	c.mu.Lock()
	if elem, ok := c.entries[centerID]; ok {
		entry := elem.Value.(*credentialEntry)
		if time.Now().Before(entry.expiresAt) {
			c.order.MoveToFront(elem)
			creds := entry.creds
			c.mu.Unlock()
			return creds, nil
		}
		c.order.Remove(elem)
		delete(c.entries, centerID)
	}
	c.mu.Unlock()

	creds, err := c.source.Resolve(ctx, centerID)
	if err != nil {
		return notification.Credentials{}, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	// another goroutine may have filled the slot while we were loading
	if elem, ok := c.entries[centerID]; ok {
		c.order.Remove(elem)
		delete(c.entries, centerID)
	}
	elem := c.order.PushFront(&credentialEntry{
		centerID:  centerID,
		creds:     creds,
		expiresAt: time.Now().Add(c.ttl),
	})
	c.entries[centerID] = elem

	for c.order.Len() > c.maxEntries {
		oldest := c.order.Back()
		if oldest == nil {
			break
		}
		c.order.Remove(oldest)
		delete(c.entries, oldest.Value.(*credentialEntry).centerID)
	}

	return creds, nil
}

// Invalidate drops the cached entry for a center, forcing the next Resolve to
// hit the source. Call after gateway settings change.
func (c *CredentialCache) Invalidate(centerID uuid.UUID) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if elem, ok := c.entries[centerID]; ok {
		c.order.Remove(elem)
		delete(c.entries, centerID)
	}
}

// Len returns the number of cached entries
func (c *CredentialCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.order.Len()
}

var _ notification.CredentialSource = (*CredentialCache)(nil)
