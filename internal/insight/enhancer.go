package insight

import (
	"context"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"TradeInsight/internal/domain/models"
	"TradeInsight/internal/domain/repository"
	applogger "TradeInsight/pkg/logger"
)

// DefaultEnhanceTimeout caps a single generative call.
const DefaultEnhanceTimeout = 2 * time.Second

// Field length caps applied to generative output before use.
const (
	maxHeadlineLen  = 150
	maxNarrativeLen = 600
	maxFactLen      = 200
)

// Enhancer optionally rewrites the templated headline and narrative
// with a generative model. It is strictly non-authoritative: any
// error, timeout, or empty result leaves the template untouched, and
// nothing is ever retried.
type Enhancer struct {
	narrator repository.Narrator
	metrics  repository.Metrics
	log      *applogger.Logger
	timeout  time.Duration
}

func NewEnhancer(narrator repository.Narrator, metrics repository.Metrics, log *applogger.Logger, timeout time.Duration) *Enhancer {
	if timeout <= 0 {
		timeout = DefaultEnhanceTimeout
	}
	return &Enhancer{narrator: narrator, metrics: metrics, log: log, timeout: timeout}
}

// Enhance applies the time-boxed rewrite when a narrator is configured.
func (e *Enhancer) Enhance(ctx context.Context, pack models.FactPack, ins models.Insight) models.Insight {
	if e.narrator == nil || !e.narrator.Available() {
		return ins
	}

	callCtx, cancel := context.WithTimeout(ctx, e.timeout)
	defer cancel()

	start := time.Now()
	draft, err := e.narrator.Rewrite(callCtx, buildPrompt(pack, ins))
	if e.metrics != nil {
		e.metrics.RecordLatency("enhance", time.Since(start).Seconds())
	}
	if err != nil {
		if e.log != nil {
			e.log.Debug("narrative enhancement discarded",
				applogger.String("asset", pack.Asset),
				applogger.Error(err),
			)
		}
		if e.metrics != nil {
			e.metrics.RecordDegraded("enhancer")
		}
		return ins
	}
	if strings.TrimSpace(draft.Headline) == "" || strings.TrimSpace(draft.WhyItMatters) == "" {
		return ins
	}

	ins.Headline = clip(stripHeadings(draft.Headline), maxHeadlineLen)
	ins.WhyItMatters = clip(stripHeadings(draft.WhyItMatters), maxNarrativeLen)
	if len(draft.KeyFacts) > 0 {
		facts := make([]string, 0, len(draft.KeyFacts))
		for _, f := range draft.KeyFacts {
			f = clip(stripHeadings(f), maxFactLen)
			if f != "" {
				facts = append(facts, f)
			}
		}
		if len(facts) > 0 {
			ins.KeyFacts = facts
		}
	}
	ins.GeneratedBy = models.GeneratedByHybrid
	return ins
}

// buildPrompt packs trade, price, fee, and headline context into one
// structured instruction asking for JSON output.
func buildPrompt(pack models.FactPack, ins models.Insight) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Rewrite the following trade insight. Trade: %s %s, order size $%.2f, mode %s.\n",
		pack.Side, pack.Asset, pack.NotionalUSD, pack.Mode)

	if pack.Price.Price != nil {
		fmt.Fprintf(&b, "Price: $%.2f", *pack.Price.Price)
		if pack.Price.Change24hPct != nil {
			fmt.Fprintf(&b, " (%+.2f%% 24h)", *pack.Price.Change24hPct)
		}
		b.WriteString(".\n")
	} else {
		b.WriteString("Price: not available.\n")
	}

	fmt.Fprintf(&b, "Fee: $%.2f taker fee (%.2f%% of notional).\n", pack.FeeUSD, pack.FeeImpactPct)

	if len(pack.Headlines) > 0 {
		b.WriteString("Headlines:\n")
		for _, h := range pack.Headlines {
			fmt.Fprintf(&b, "- [%s] %s\n", h.Sentiment, h.Title)
		}
	} else {
		b.WriteString("Headlines: none found.\n")
	}

	fmt.Fprintf(&b, "Draft headline: %s\nDraft narrative: %s\n", ins.Headline, ins.WhyItMatters)

	b.WriteString(`Respond with JSON only: {"headline": string, "why_it_matters": string, "key_facts": [string]}. ` +
		`Constraints: no markdown headings; describe missing data as "not available because ..."; ` +
		`cite at least one headline when headlines are present.`)
	return b.String()
}

// stripHeadings drops leading markdown heading or bullet markers.
func stripHeadings(s string) string {
	s = strings.TrimSpace(s)
	for strings.HasPrefix(s, "#") || strings.HasPrefix(s, "*") {
		s = strings.TrimSpace(strings.TrimLeft(s, "#*"))
	}
	return s
}

// clip truncates to at most max bytes, never splitting a rune.
func clip(s string, max int) string {
	if len(s) <= max {
		return s
	}
	for max > 0 && !utf8.RuneStart(s[max]) {
		max--
	}
	return s[:max]
}
