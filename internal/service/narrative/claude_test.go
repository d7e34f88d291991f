package narrative

import (
	"context"
	"testing"

	"github.com/anthropics/anthropic-sdk-go"
)

func TestTextContentKeepsOnlyTextBlocks(t *testing.T) {
	blocks := []anthropic.ContentBlockUnion{
		{Type: "text", Text: `{"headline":`},
		{Type: "tool_use"},
		{Type: "text", Text: `"BTC grinds higher"}`},
	}

	got := textContent(blocks)
	want := `{"headline":"BTC grinds higher"}`
	if got != want {
		t.Fatalf("textContent = %q, want %q", got, want)
	}
}

func TestTextContentEmptyReply(t *testing.T) {
	if got := textContent([]anthropic.ContentBlockUnion{{Type: "tool_use"}}); got != "" {
		t.Fatalf("textContent = %q, want empty", got)
	}
}

func TestParseDraftTolerantExtraction(t *testing.T) {
	cases := []string{
		`{"headline":"h","why_it_matters":"w","key_facts":["f"]}`,
		"```json\n{\"headline\":\"h\",\"why_it_matters\":\"w\",\"key_facts\":[\"f\"]}\n```",
		`Here is the rewrite: {"headline":"h","why_it_matters":"w","key_facts":["f"]} hope it helps`,
	}
	for _, raw := range cases {
		draft, err := parseDraft(raw)
		if err != nil {
			t.Fatalf("parseDraft(%q): %v", raw, err)
		}
		if draft.Headline != "h" || draft.WhyItMatters != "w" || len(draft.KeyFacts) != 1 {
			t.Fatalf("parseDraft(%q) = %+v", raw, draft)
		}
	}
}

func TestParseDraftRejectsNonJSON(t *testing.T) {
	if _, err := parseDraft("no json here"); err == nil {
		t.Fatalf("expected error for a reply without a JSON object")
	}
}

func TestNarratorUnavailableWithoutKey(t *testing.T) {
	n := NewClaudeNarrator(Config{}, nil)
	if n.Available() {
		t.Fatalf("narrator must be unavailable without an API key")
	}
	if _, err := n.Rewrite(context.Background(), "prompt"); err == nil {
		t.Fatalf("rewrite must fail when unavailable")
	}
}
