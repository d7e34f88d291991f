package models

// Side is the direction of a proposed trade.
type Side string

const (
	SideBuy  Side = "BUY"
	SideSell Side = "SELL"
)

// Mode is the execution mode of a proposed trade.
type Mode string

const (
	ModePaper Mode = "PAPER"
	ModeLive  Mode = "LIVE"
)

// TradeRequest is the immutable input to insight generation.
type TradeRequest struct {
	Asset         string
	Side          Side
	NotionalUSD   float64
	Mode          Mode
	NewsEnabled   bool
	LookbackHours int
	RequestID     string
}
