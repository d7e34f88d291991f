package narrative

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"

	"TradeInsight/internal/domain/repository"
	applogger "TradeInsight/pkg/logger"
)

const defaultModel = "claude-3-5-haiku-latest"

const systemInstruction = "You rewrite trading insights into crisp, factual prose. " +
	"Never invent prices, percentages, or headlines that are not in the input. " +
	"Respond with a single JSON object and nothing else."

// Config holds the Anthropic client settings.
type Config struct {
	APIKey    string
	Model     string
	MaxTokens int
}

// ClaudeNarrator implements domain.repository.Narrator against the
// Anthropic Messages API. Availability is decided once at construction
// from whether an API key is configured.
type ClaudeNarrator struct {
	client    anthropic.Client
	model     anthropic.Model
	maxTokens int64
	available bool
	log       *applogger.Logger
}

func NewClaudeNarrator(cfg Config, log *applogger.Logger) *ClaudeNarrator {
	n := &ClaudeNarrator{
		model:     anthropic.Model(cfg.Model),
		maxTokens: int64(cfg.MaxTokens),
		available: cfg.APIKey != "",
		log:       log,
	}
	if cfg.Model == "" {
		n.model = defaultModel
	}
	if cfg.MaxTokens <= 0 {
		n.maxTokens = 1024
	}
	if n.available {
		n.client = anthropic.NewClient(option.WithAPIKey(cfg.APIKey))
	}
	return n
}

// Available reports whether the narrator can be called at all.
func (n *ClaudeNarrator) Available() bool {
	return n.available
}

// Rewrite sends the prompt and parses the JSON draft out of the reply.
// The caller owns the deadline on ctx.
func (n *ClaudeNarrator) Rewrite(ctx context.Context, prompt string) (repository.NarrativeDraft, error) {
	if !n.available {
		return repository.NarrativeDraft{}, fmt.Errorf("narrator is not configured")
	}

	params := anthropic.MessageNewParams{
		Model:     n.model,
		MaxTokens: n.maxTokens,
		System: []anthropic.TextBlockParam{
			{Text: systemInstruction},
		},
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(prompt)),
		},
	}

	resp, err := n.client.Messages.New(ctx, params)
	if err != nil {
		return repository.NarrativeDraft{}, fmt.Errorf("messages call failed: %w", err)
	}

	text := textContent(resp.Content)
	if text == "" {
		return repository.NarrativeDraft{}, fmt.Errorf("empty completion")
	}

	draft, err := parseDraft(text)
	if err != nil {
		if n.log != nil {
			n.log.Debug("unparseable narrator reply", applogger.Error(err))
		}
		return repository.NarrativeDraft{}, err
	}
	return draft, nil
}

// textContent concatenates the text blocks of a reply, skipping
// tool-use and thinking blocks.
func textContent(blocks []anthropic.ContentBlockUnion) string {
	var text strings.Builder
	for _, block := range blocks {
		if block.Type == "text" {
			text.WriteString(block.Text)
		}
	}
	return text.String()
}

// parseDraft tolerates replies wrapped in markdown code fences or
// surrounded by stray prose, as long as one JSON object is present.
func parseDraft(raw string) (repository.NarrativeDraft, error) {
	raw = strings.TrimSpace(raw)
	if i := strings.Index(raw, "{"); i >= 0 {
		if j := strings.LastIndex(raw, "}"); j > i {
			raw = raw[i : j+1]
		}
	}

	var draft repository.NarrativeDraft
	if err := json.Unmarshal([]byte(raw), &draft); err != nil {
		return repository.NarrativeDraft{}, fmt.Errorf("decode draft: %w", err)
	}
	return draft, nil
}
