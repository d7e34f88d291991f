package models

import "time"

// Tick is a single trade print from the live price feed.
type Tick struct {
	Symbol    string
	Timestamp int64
	Price     float64
	Volume    float64
}

// Candle represents an hourly OHLCV record.
type Candle struct {
	Bucket time.Time
	Symbol string
	Open   float64
	High   float64
	Low    float64
	Close  float64
	Volume float64
}

// PriceSnapshot carries the current price and derived trailing metrics.
// Nil pointers mark data that could not be derived; they are never
// backfilled with guesses.
type PriceSnapshot struct {
	Price            *float64
	Change24hPct     *float64
	Change7dPct      *float64
	High7d           *float64
	Low7d            *float64
	RangePositionPct *float64
	ATRVolatilityPct *float64
	Source           string
}
