package insight

import (
	"testing"

	"TradeInsight/internal/domain/models"
)

func TestNormalizeContractFillsDefaults(t *testing.T) {
	ins := NormalizeContract(models.Insight{})

	if ins.KeyFacts == nil || ins.RiskFlags == nil || ins.Sources == nil || ins.DataQuality == nil {
		t.Fatalf("nil slices survived normalization: %+v", ins)
	}
	if ins.GeneratedBy != models.GeneratedByTemplate {
		t.Fatalf("generated_by = %q, want template", ins.GeneratedBy)
	}
	if ins.NewsOutcome == nil || ins.NewsOutcome.Status != models.NewsStatusDisabled {
		t.Fatalf("missing default news outcome: %+v", ins.NewsOutcome)
	}
	if ins.AssetNewsEvidence == nil || ins.AssetNewsEvidence.Items == nil {
		t.Fatalf("missing evidence block: %+v", ins.AssetNewsEvidence)
	}
	if ins.ImpactSummary != "no headline signal" {
		t.Fatalf("impact summary = %q", ins.ImpactSummary)
	}
}

func TestNormalizeContractPreservesPopulatedFields(t *testing.T) {
	in := models.Insight{
		Headline:    "ETH is surging at $4000.00 (+4.20% 24h)",
		GeneratedBy: models.GeneratedByHybrid,
		RiskFlags:   []string{FlagHighVolatility},
		Confidence:  0.8,
	}
	out := NormalizeContract(in)

	if out.Headline != in.Headline || out.GeneratedBy != in.GeneratedBy || out.Confidence != in.Confidence {
		t.Fatalf("populated fields changed: %+v", out)
	}
	if len(out.RiskFlags) != 1 || out.RiskFlags[0] != FlagHighVolatility {
		t.Fatalf("risk flags changed: %v", out.RiskFlags)
	}
}

func TestNormalizeContractTruncatesEvidence(t *testing.T) {
	outcome := &models.NewsOutcome{
		Status: models.NewsStatusOK,
		AssetItems: []models.HeadlineRecord{
			{Title: "one"}, {Title: "two"}, {Title: "three"}, {Title: "four"}, {Title: "five"},
		},
		ItemCount: 5,
	}
	ins := NormalizeContract(models.Insight{NewsOutcome: outcome})

	if len(ins.AssetNewsEvidence.Items) != 3 {
		t.Fatalf("evidence items = %d, want 3", len(ins.AssetNewsEvidence.Items))
	}
	if ins.AssetNewsEvidence.Items[0].Title != "one" {
		t.Fatalf("evidence reordered: %+v", ins.AssetNewsEvidence.Items)
	}
}

func TestImpactSummaryQuotesTopTitles(t *testing.T) {
	outcome := &models.NewsOutcome{
		Status: models.NewsStatusOK,
		AssetItems: []models.HeadlineRecord{
			{Title: "ETF inflows accelerate"},
			{Title: "Miner selling slows"},
		},
	}
	ins := NormalizeContract(models.Insight{NewsOutcome: outcome})

	want := "ETF inflows accelerate | Miner selling slows"
	if ins.ImpactSummary != want {
		t.Fatalf("impact summary = %q, want %q", ins.ImpactSummary, want)
	}
}

func TestImpactSummaryFallsBackToMarketItems(t *testing.T) {
	outcome := &models.NewsOutcome{
		Status:      models.NewsStatusOK,
		MarketItems: []models.HeadlineRecord{{Title: "Crypto market steadies"}},
	}
	ins := NormalizeContract(models.Insight{NewsOutcome: outcome})

	if ins.ImpactSummary != "Crypto market steadies" {
		t.Fatalf("impact summary = %q", ins.ImpactSummary)
	}
}
