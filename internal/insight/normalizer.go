package insight

import (
	"TradeInsight/internal/domain/models"
)

// evidenceItemCap bounds how many headlines the evidence block carries.
const evidenceItemCap = 3

const noHeadlineSignal = "no headline signal"

// NormalizeContract guarantees the fixed Insight shape on every return
// path: fresh, cached, and total-failure fallback alike. It is a merge
// over the partially-filled Insight with per-field defaults; populated
// fields pass through untouched.
func NormalizeContract(ins models.Insight) models.Insight {
	if ins.KeyFacts == nil {
		ins.KeyFacts = []string{}
	}
	if ins.RiskFlags == nil {
		ins.RiskFlags = []string{}
	}
	if ins.Sources == nil {
		ins.Sources = []string{}
	}
	if ins.DataQuality == nil {
		ins.DataQuality = []models.QualityCheck{}
	}
	if ins.GeneratedBy == "" {
		ins.GeneratedBy = models.GeneratedByTemplate
	}

	if ins.NewsOutcome == nil {
		ins.NewsOutcome = &models.NewsOutcome{
			Queries:       []string{},
			LookbackLabel: "",
			Sources:       []string{},
			Status:        models.NewsStatusDisabled,
			Reason:        "news retrieval did not run",
		}
	}
	if ins.NewsOutcome.Queries == nil {
		ins.NewsOutcome.Queries = []string{}
	}
	if ins.NewsOutcome.Sources == nil {
		ins.NewsOutcome.Sources = []string{}
	}

	if ins.AssetNewsEvidence == nil {
		ins.AssetNewsEvidence = &models.NewsEvidence{
			Queries:       ins.NewsOutcome.Queries,
			LookbackLabel: ins.NewsOutcome.LookbackLabel,
			Sources:       ins.NewsOutcome.Sources,
			Status:        ins.NewsOutcome.Status,
			Reason:        ins.NewsOutcome.Reason,
			Items:         truncateItems(ins.NewsOutcome.AssetItems),
		}
	}
	if ins.AssetNewsEvidence.Items == nil {
		ins.AssetNewsEvidence.Items = []models.HeadlineRecord{}
	}

	if ins.ImpactSummary == "" {
		ins.ImpactSummary = impactSummary(ins.NewsOutcome)
	}
	return ins
}

func truncateItems(items []models.HeadlineRecord) []models.HeadlineRecord {
	if len(items) > evidenceItemCap {
		return items[:evidenceItemCap]
	}
	return items
}

// impactSummary quotes the one or two strongest headline titles,
// preferring asset coverage over market fallback.
func impactSummary(outcome *models.NewsOutcome) string {
	items := outcome.AssetItems
	if len(items) == 0 {
		items = outcome.MarketItems
	}
	switch {
	case len(items) >= 2:
		return items[0].Title + " | " + items[1].Title
	case len(items) == 1:
		return items[0].Title
	default:
		return noHeadlineSignal
	}
}
