package server

import (
	"context"
	"testing"
	"time"

	icache "TradeInsight/internal/service/cache"
	"TradeInsight/pkg/config"
)

type closableStore struct {
	closed bool
}

func (s *closableStore) GetBytes(string) ([]byte, bool, error)        { return nil, false, nil }
func (s *closableStore) SetBytes(string, []byte, time.Duration) error { return nil }
func (s *closableStore) Delete(string) error                          { return nil }
func (s *closableStore) Close() error                                 { s.closed = true; return nil }

func testConfig() *config.Config {
	cfg := &config.Config{Environment: "test"}
	cfg.Server.ShutdownTimeout = time.Second
	return cfg
}

func TestShutdownClosesCacheStore(t *testing.T) {
	store := &closableStore{}
	app := New(testConfig(), nil, nil, nil, nil, nil, nil, store)

	if err := app.shutdown(context.Background()); err != nil {
		t.Fatalf("shutdown: %v", err)
	}
	if !store.closed {
		t.Fatalf("cache store was not closed on shutdown")
	}
}

func TestShutdownSkipsNonClosingStore(t *testing.T) {
	app := New(testConfig(), nil, nil, nil, nil, nil, nil, icache.NewTTLStore())

	if err := app.shutdown(context.Background()); err != nil {
		t.Fatalf("shutdown: %v", err)
	}
}
