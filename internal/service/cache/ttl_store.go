package cache

import (
	"sync"
	"time"
)

type entry struct {
	b        []byte
	inserted time.Time
	exp      time.Time
}

// TTLStore is an in-process BytesCache guarded by a mutex. The clock
// is injectable for tests.
type TTLStore struct {
	mu  sync.RWMutex
	m   map[string]entry
	now func() time.Time
}

func NewTTLStore() *TTLStore {
	return &TTLStore{m: make(map[string]entry), now: time.Now}
}

// WithClock overrides the store clock, for tests.
func (c *TTLStore) WithClock(now func() time.Time) *TTLStore {
	c.now = now
	return c
}

func (c *TTLStore) GetBytes(key string) ([]byte, bool, error) {
	c.mu.RLock()
	e, ok := c.m[key]
	c.mu.RUnlock()
	if !ok {
		return nil, false, nil
	}
	if !e.exp.IsZero() && c.now().After(e.exp) {
		c.mu.Lock()
		delete(c.m, key)
		c.mu.Unlock()
		return nil, false, nil
	}
	return e.b, true, nil
}

func (c *TTLStore) SetBytes(key string, value []byte, ttl time.Duration) error {
	now := c.now()
	var exp time.Time
	if ttl > 0 {
		exp = now.Add(ttl)
	}
	c.mu.Lock()
	c.m[key] = entry{b: value, inserted: now, exp: exp}
	c.mu.Unlock()
	return nil
}

func (c *TTLStore) Delete(key string) error {
	c.mu.Lock()
	delete(c.m, key)
	c.mu.Unlock()
	return nil
}

// Sweep drops entries inserted longer than maxAge ago and returns how
// many were removed.
func (c *TTLStore) Sweep(maxAge time.Duration) int {
	cutoff := c.now().Add(-maxAge)
	removed := 0
	c.mu.Lock()
	for key, e := range c.m {
		if e.inserted.Before(cutoff) {
			delete(c.m, key)
			removed++
		}
	}
	c.mu.Unlock()
	return removed
}

// Len reports the number of stored entries.
func (c *TTLStore) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.m)
}
