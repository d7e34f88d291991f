package pricefeed

import (
	"context"
	"fmt"
	"sync"
	"time"

	"TradeInsight/internal/domain/models"
)

// DefaultMaxTickAge bounds how old a book entry may be before lookups
// treat the symbol as unpriced.
const DefaultMaxTickAge = 2 * time.Minute

const sourceTag = "live_feed"

type bookEntry struct {
	price float64
	seen  time.Time
}

// Book holds the last observed price per product and serves
// PriceSource lookups. Stale entries are rejected rather than served.
type Book struct {
	mu        sync.RWMutex
	m         map[string]bookEntry
	maxAge    time.Duration
	now       func() time.Time
	toProduct func(symbol string) string
}

func NewBook(maxAge time.Duration) *Book {
	if maxAge <= 0 {
		maxAge = DefaultMaxTickAge
	}
	return &Book{
		m:         make(map[string]bookEntry),
		maxAge:    maxAge,
		now:       time.Now,
		toProduct: func(symbol string) string { return symbol + "-USD" },
	}
}

// WithClock overrides the book clock, for tests.
func (b *Book) WithClock(now func() time.Time) *Book {
	b.now = now
	return b
}

// Apply records one tick.
func (b *Book) Apply(tick *models.Tick) {
	if tick == nil || tick.Price <= 0 {
		return
	}
	b.mu.Lock()
	b.m[tick.Symbol] = bookEntry{price: tick.Price, seen: b.now()}
	b.mu.Unlock()
}

// Current implements PriceSource over the book.
func (b *Book) Current(_ context.Context, symbol string) (float64, string, error) {
	product := b.toProduct(symbol)
	b.mu.RLock()
	e, ok := b.m[product]
	b.mu.RUnlock()
	if !ok {
		return 0, "", fmt.Errorf("no price observed for %s", product)
	}
	if b.now().Sub(e.seen) > b.maxAge {
		return 0, "", fmt.Errorf("price for %s is older than %s", product, b.maxAge)
	}
	return e.price, sourceTag, nil
}
