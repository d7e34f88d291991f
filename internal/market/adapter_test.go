package market

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"TradeInsight/internal/domain/models"
)

type stubCandleStore struct {
	mu       sync.Mutex
	candles  []models.Candle
	readErr  error
	upserted []models.Candle
}

func (s *stubCandleStore) LatestN(context.Context, string, int) ([]models.Candle, error) {
	if s.readErr != nil {
		return nil, s.readErr
	}
	return s.candles, nil
}

func (s *stubCandleStore) UpsertIfAbsent(_ context.Context, candles []models.Candle) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.upserted = append(s.upserted, candles...)
	return nil
}

type stubPriceSource struct {
	price float64
	err   error
}

func (s *stubPriceSource) Current(context.Context, string) (float64, string, error) {
	if s.err != nil {
		return 0, "none", s.err
	}
	return s.price, "feed", nil
}

type stubFallback struct {
	candles []models.Candle
	err     error
	called  bool
}

func (s *stubFallback) Hourly(context.Context, string, time.Time, time.Time) ([]models.Candle, error) {
	s.called = true
	return s.candles, s.err
}

func hourly(closes ...float64) []models.Candle {
	start := time.Date(2026, 8, 20, 0, 0, 0, 0, time.UTC)
	out := make([]models.Candle, 0, len(closes))
	for i, c := range closes {
		out = append(out, models.Candle{
			Bucket: start.Add(time.Duration(i) * time.Hour),
			Symbol: "BTC",
			Open:   c,
			High:   c * 1.01,
			Low:    c * 0.99,
			Close:  c,
		})
	}
	return out
}

func TestSnapshotDerivesChanges(t *testing.T) {
	store := &stubCandleStore{candles: hourly(100, 102, 104, 106)}
	a := NewAdapter(store, &stubPriceSource{price: 106}, nil, nil, nil)

	snap := a.Snapshot(context.Background(), "BTC")
	if snap.Price == nil || *snap.Price != 106 {
		t.Fatalf("price %v", snap.Price)
	}
	if snap.Change24hPct == nil {
		t.Fatalf("missing 24h change")
	}
	want := (106.0 - 104.0) / 104.0 * 100
	if diff := *snap.Change24hPct - want; diff > 1e-9 || diff < -1e-9 {
		t.Fatalf("24h change %v want %v", *snap.Change24hPct, want)
	}
	if snap.Change7dPct == nil || snap.High7d == nil || snap.Low7d == nil {
		t.Fatalf("missing 7d metrics")
	}
	if snap.RangePositionPct == nil || snap.ATRVolatilityPct == nil {
		t.Fatalf("missing range/ATR metrics")
	}
}

func TestSnapshotPriceFailure(t *testing.T) {
	store := &stubCandleStore{candles: hourly(100, 101)}
	a := NewAdapter(store, &stubPriceSource{err: errors.New("down")}, nil, nil, nil)

	snap := a.Snapshot(context.Background(), "BTC")
	if snap.Price != nil {
		t.Fatalf("price must be nil on lookup failure")
	}
	if snap.Source != "none" {
		t.Fatalf("source %q", snap.Source)
	}
	// range position needs a price
	if snap.RangePositionPct != nil {
		t.Fatalf("range position requires a current price")
	}
	// 24h change still derivable from candles alone
	if snap.Change24hPct == nil {
		t.Fatalf("missing 24h change")
	}
}

func TestSnapshotInsufficientCandles(t *testing.T) {
	store := &stubCandleStore{candles: hourly(100)}
	a := NewAdapter(store, &stubPriceSource{price: 100}, nil, nil, nil)

	snap := a.Snapshot(context.Background(), "BTC")
	if snap.Change24hPct != nil || snap.Change7dPct != nil || snap.ATRVolatilityPct != nil {
		t.Fatalf("derived fields must be nil with a single candle")
	}
}

func TestSnapshotFallbackAndPersist(t *testing.T) {
	store := &stubCandleStore{}
	fb := &stubFallback{candles: hourly(50, 51, 52)}
	a := NewAdapter(store, &stubPriceSource{price: 52}, fb, nil, nil)

	snap := a.Snapshot(context.Background(), "BTC")
	if !fb.called {
		t.Fatalf("fallback not consulted on empty local history")
	}
	if snap.Change24hPct == nil {
		t.Fatalf("fallback candles not used for derivation")
	}

	// fire-and-forget persist lands eventually
	deadline := time.Now().Add(2 * time.Second)
	for {
		store.mu.Lock()
		n := len(store.upserted)
		store.mu.Unlock()
		if n == 3 {
			break
		}
		if time.Now().After(deadline) {
			t.Fatalf("fallback candles were not persisted, got %d", n)
		}
		time.Sleep(10 * time.Millisecond)
	}
}

func TestSnapshotFallbackErrorLeavesNils(t *testing.T) {
	store := &stubCandleStore{}
	fb := &stubFallback{err: errors.New("rate limited")}
	a := NewAdapter(store, &stubPriceSource{price: 10}, fb, nil, nil)

	snap := a.Snapshot(context.Background(), "BTC")
	if snap.Change24hPct != nil || snap.ATRVolatilityPct != nil {
		t.Fatalf("no candles anywhere: derived fields must stay nil")
	}
	if snap.Price == nil {
		t.Fatalf("price lookup is independent of candle availability")
	}
}

func TestSnapshotStoreErrorTriggersFallback(t *testing.T) {
	store := &stubCandleStore{readErr: errors.New("table missing")}
	fb := &stubFallback{candles: hourly(10, 11)}
	a := NewAdapter(store, &stubPriceSource{price: 11}, fb, nil, nil)

	snap := a.Snapshot(context.Background(), "BTC")
	if !fb.called {
		t.Fatalf("fallback should cover store read errors")
	}
	if snap.Change24hPct == nil {
		t.Fatalf("fallback candles not derived")
	}
}
