package asset

import (
	"strings"
	"testing"
)

func TestNormalizeIdempotent(t *testing.T) {
	for _, in := range []string{"btc", " BTC-USD ", "Eth-usd", "sol", "BTC"} {
		once := Normalize(in)
		twice := Normalize(once)
		if once != twice {
			t.Fatalf("normalize not idempotent for %q: %q != %q", in, once, twice)
		}
	}
}

func TestNormalizeStripsPairSuffix(t *testing.T) {
	if got := Normalize(" btc-usd "); got != "BTC" {
		t.Fatalf("unexpected %q", got)
	}
}

func TestQueryTermsOrderAndDedup(t *testing.T) {
	terms := QueryTerms("BTC")
	want := []string{"BTC", "BTC-USD", "Bitcoin", "XBT"}
	if len(terms) != len(want) {
		t.Fatalf("got %v", terms)
	}
	for i := range want {
		if terms[i] != want[i] {
			t.Fatalf("term %d: got %q want %q", i, terms[i], want[i])
		}
	}

	// same list regardless of input casing
	again := QueryTerms("btc-usd")
	if len(again) != len(terms) {
		t.Fatalf("casing changed terms: %v", again)
	}

	seen := map[string]bool{}
	for _, term := range terms {
		k := strings.ToLower(term)
		if seen[k] {
			t.Fatalf("duplicate term %q", term)
		}
		seen[k] = true
	}
}

func TestQueryTermsXRPNoDuplicateName(t *testing.T) {
	// canonical name equals the symbol; dedup must drop it
	terms := QueryTerms("XRP")
	count := 0
	for _, term := range terms {
		if strings.EqualFold(term, "XRP") {
			count++
		}
	}
	if count != 1 {
		t.Fatalf("XRP appears %d times in %v", count, terms)
	}
}

func TestClassify(t *testing.T) {
	cases := []struct {
		sym  string
		want Tier
	}{
		{"BTC", TierMajor},
		{"eth-usd", TierMajor},
		{"SOL", TierL1Alt},
		{"ARB", TierL2Ecosystem},
		{"PEPE", TierMemeSmallcap},
		{"ZZZZ", TierUnknown},
	}
	for _, tc := range cases {
		if got := Classify(tc.sym); got != tc.want {
			t.Fatalf("%s: got %s want %s", tc.sym, got, tc.want)
		}
	}
}
