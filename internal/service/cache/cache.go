package cache

import "time"

// BytesCache is a minimal cache API storing raw bytes with TTL.
type BytesCache interface {
	GetBytes(key string) (b []byte, ok bool, err error)
	SetBytes(key string, value []byte, ttl time.Duration) error
	Delete(key string) error
}

// Sweeper is implemented by stores that support explicit expiry
// sweeps. Stores with native TTL handling (Redis) do not need it.
type Sweeper interface {
	Sweep(maxAge time.Duration) int
}
