package models

import "time"

// Sentiment labels produced by the lexicon heuristic.
const (
	SentimentBullish = "bullish"
	SentimentBearish = "bearish"
	SentimentNeutral = "neutral"
)

// NewsItem is a raw stored headline as read from the news store.
type NewsItem struct {
	Title       string
	Source      string
	PublishedAt time.Time
	URL         string
	Assets      []string
}

// HeadlineRecord is a scored, sentiment-tagged headline.
type HeadlineRecord struct {
	Title       string  `json:"title"`
	Source      string  `json:"source"`
	PublishedAt string  `json:"published_at"`
	URL         string  `json:"url"`
	Sentiment   string  `json:"sentiment"`
	Confidence  float64 `json:"confidence"`
	Driver      string  `json:"driver"`
	Rationale   string  `json:"rationale"`
}

// News status values reported in NewsOutcome.
const (
	NewsStatusOK       = "ok"
	NewsStatusEmpty    = "empty"
	NewsStatusError    = "error"
	NewsStatusDisabled = "disabled"
)

// NewsOutcome records what the news retrieval actually did: which
// queries ran, over which window, and why the result looks the way
// it does.
type NewsOutcome struct {
	Queries       []string         `json:"queries"`
	LookbackLabel string           `json:"lookback_label"`
	Sources       []string         `json:"sources"`
	Status        string           `json:"status"`
	Reason        string           `json:"reason"`
	ItemCount     int              `json:"item_count"`
	AssetItems    []HeadlineRecord `json:"-"`
	MarketItems   []HeadlineRecord `json:"-"`
	FetchFailed   bool             `json:"-"`
	// FreshestAgeHours is the age of the newest asset headline, when
	// one exists with a parsable timestamp.
	FreshestAgeHours *float64 `json:"-"`
}

// SourceHealth summarises the news source catalog for diagnostics.
type SourceHealth struct {
	EnabledSources int
	TotalItems     int
	Sources        []string
}
