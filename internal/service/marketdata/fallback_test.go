package marketdata

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestRowToCandleFieldOrder(t *testing.T) {
	row := []json.Number{"1756029600", "48000", "52000", "49000", "51000", "123.45"}

	c, err := rowToCandle("BTC", row)
	if err != nil {
		t.Fatalf("rowToCandle: %v", err)
	}
	if c.Symbol != "BTC" {
		t.Fatalf("symbol = %q", c.Symbol)
	}
	if c.Low != 48000 || c.High != 52000 || c.Open != 49000 || c.Close != 51000 || c.Volume != 123.45 {
		t.Fatalf("candle fields misordered: %+v", c)
	}
	if c.Bucket != time.Unix(1756029600, 0).UTC() {
		t.Fatalf("bucket = %v", c.Bucket)
	}
}

func TestRowToCandleRejectsShortRow(t *testing.T) {
	if _, err := rowToCandle("BTC", []json.Number{"1", "2", "3"}); err == nil {
		t.Fatalf("expected error for a short row")
	}
}

func TestHourlyOrdersOldestFirst(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/products/BTC-USD/candles" {
			t.Fatalf("path = %q", r.URL.Path)
		}
		if got := r.URL.Query().Get("granularity"); got != "3600" {
			t.Fatalf("granularity = %q", got)
		}
		// newest first, as the exchange returns them
		_, _ = w.Write([]byte(`[
			[1756033200, 48100, 52100, 49100, 51100, 10],
			[1756029600, 48000, 52000, 49000, 51000, 20],
			[1756029600.5, 1, 2, 3, 4, 5]
		]`))
	}))
	defer srv.Close()

	f := NewRESTFallback(srv.URL, time.Second)
	from := time.Unix(1756029600, 0).UTC()
	candles, err := f.Hourly(context.Background(), "BTC", from, from.Add(2*time.Hour))
	if err != nil {
		t.Fatalf("hourly: %v", err)
	}

	if len(candles) != 2 {
		t.Fatalf("got %d candles, want 2 (bad row skipped)", len(candles))
	}
	if !candles[0].Bucket.Before(candles[1].Bucket) {
		t.Fatalf("candles not oldest first: %v then %v", candles[0].Bucket, candles[1].Bucket)
	}
	if candles[0].Close != 51000 {
		t.Fatalf("oldest close = %v", candles[0].Close)
	}
}
