package models

// Volatility tiers derived by the fact pack builder.
const (
	VolatilityHigh     = "HIGH"
	VolatilityModerate = "MODERATE"
	VolatilityLow      = "LOW"
)

// Range position labels over the trailing 7-day band.
const (
	RangeNearHigh = "near_high"
	RangeNearLow  = "near_low"
	RangeMid      = "mid_range"
)

// QualityCheck is one data-quality diagnostic: a condition that held
// and a human-readable reason naming the asset and the concrete cause.
type QualityCheck struct {
	Check  string `json:"check"`
	Failed bool   `json:"failed"`
	Reason string `json:"reason"`
}

// FactPack is the deterministic structured snapshot that feeds insight
// rendering. It is built once per request and never mutated after.
type FactPack struct {
	Asset         string
	Side          Side
	Mode          Mode
	NotionalUSD   float64
	NewsEnabled   bool
	LookbackHours int

	Price PriceSnapshot

	VolatilityTier *string
	RangeLabel     *string
	FeeUSD         float64
	FeeImpactPct   float64

	RiskFlags  []string
	Confidence float64

	Headlines       []HeadlineRecord
	MarketHeadlines []HeadlineRecord
	News            NewsOutcome

	DataQuality    []QualityCheck
	KeyFacts       []string
	LiveDowngraded bool
}

// GeneratedBy values for an Insight.
const (
	GeneratedByTemplate = "template"
	GeneratedByLLM      = "llm"
	GeneratedByHybrid   = "hybrid"
)

// NewsEvidence is the asset-facing evidence block attached to every
// Insight: the facets of the query plus the (truncated) items it found.
type NewsEvidence struct {
	Queries       []string         `json:"queries"`
	LookbackLabel string           `json:"lookback_label"`
	Sources       []string         `json:"sources"`
	Status        string           `json:"status"`
	Reason        string           `json:"reason"`
	Items         []HeadlineRecord `json:"items"`
}

// Insight is the fixed-shape output of the engine. Every return path
// (fresh, cached, total-failure fallback) produces this schema.
type Insight struct {
	Headline          string           `json:"headline"`
	WhyItMatters      string           `json:"why_it_matters"`
	KeyFacts          []string         `json:"key_facts"`
	RiskFlags         []string         `json:"risk_flags"`
	Confidence        float64          `json:"confidence"`
	GeneratedBy       string           `json:"generated_by"`
	Sources           []string         `json:"sources"`
	DataQuality       []QualityCheck   `json:"data_quality"`
	NewsOutcome       *NewsOutcome     `json:"news_outcome"`
	AssetNewsEvidence *NewsEvidence    `json:"asset_news_evidence"`
	ImpactSummary     string           `json:"impact_summary"`
	RequestID         string           `json:"request_id"`
}
