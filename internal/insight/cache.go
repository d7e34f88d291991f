package insight

import (
	"encoding/json"
	"fmt"
	"math"
	"time"

	"TradeInsight/internal/domain/models"
	icache "TradeInsight/internal/service/cache"
)

// DefaultCacheTTL is how long a memoized insight stays fresh.
const DefaultCacheTTL = 60 * time.Second

// cacheEntry is the stored snapshot plus its insertion time.
type cacheEntry struct {
	Insight    models.Insight `json:"insight"`
	InsertedAt time.Time      `json:"inserted_at"`
}

// Cache memoizes insights for a short TTL, keyed by the request
// fingerprint. Reads evict stale entries; writes opportunistically
// sweep entries older than 3x the TTL when the store supports it.
type Cache struct {
	store icache.BytesCache
	ttl   time.Duration
	now   func() time.Time
}

func NewCache(store icache.BytesCache, ttl time.Duration) *Cache {
	if ttl <= 0 {
		ttl = DefaultCacheTTL
	}
	return &Cache{store: store, ttl: ttl, now: time.Now}
}

// WithClock overrides the cache clock, for tests.
func (c *Cache) WithClock(now func() time.Time) *Cache {
	c.now = now
	return c
}

// Key builds the composite fingerprint: asset, side, bucketed
// notional, mode, news flag, lookback. Request id is deliberately
// excluded.
func Key(req models.TradeRequest) string {
	return fmt.Sprintf("insight:%s:%s:%d:%s:%t:%d",
		req.Asset, req.Side, notionalBucket(req.NotionalUSD), req.Mode, req.NewsEnabled, req.LookbackHours)
}

// notionalBucket rounds to the nearest 10 above $10, else to the
// nearest integer, so nearby order sizes share a cache slot.
func notionalBucket(notional float64) int {
	if notional > 10 {
		return int(math.Round(notional/10) * 10)
	}
	return int(math.Round(notional))
}

// Get returns a fresh cached insight, evicting a stale one.
func (c *Cache) Get(req models.TradeRequest) (models.Insight, bool) {
	key := Key(req)
	b, ok, err := c.store.GetBytes(key)
	if err != nil || !ok {
		return models.Insight{}, false
	}

	var e cacheEntry
	if err := json.Unmarshal(b, &e); err != nil {
		_ = c.store.Delete(key)
		return models.Insight{}, false
	}
	if c.now().Sub(e.InsertedAt) > c.ttl {
		_ = c.store.Delete(key)
		return models.Insight{}, false
	}
	return e.Insight, true
}

// Put stores the insight and sweeps long-expired entries.
func (c *Cache) Put(req models.TradeRequest, ins models.Insight) {
	b, err := json.Marshal(cacheEntry{Insight: ins, InsertedAt: c.now()})
	if err != nil {
		return
	}
	_ = c.store.SetBytes(Key(req), b, 3*c.ttl)
	if sweeper, ok := c.store.(icache.Sweeper); ok {
		sweeper.Sweep(3 * c.ttl)
	}
}
