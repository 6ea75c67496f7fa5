package normalize

import (
	"strings"
	"testing"

	"github.com/docsift/docsift/internal/analysis"
)

func TestDate(t *testing.T) {
	tests := []struct {
		in   string
		want string
		ok   bool
	}{
		{"15/03/2026", "2026-03-15", true},
		{"1/6/26", "2026-06-01", true},
		{"15-03-99", "1999-03-15", true},
		{"31/12/50", "2050-12-31", true},
		{"01/01/51", "1951-01-01", true},
		{"31/02/2026", "31/02/2026", false}, // invalid calendar date
		{"32/01/2026", "32/01/2026", false}, // day out of range
		{"15/13/2026", "15/13/2026", false}, // month out of range
		{"March 15th", "March 15th", false},
		{"due on 15/03/2026", "2026-03-15", true}, // embedded date
		{"2026-03-15", "2026-03-15", false},       // already ISO, no D/M/Y match
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, ok := Date(tt.in)
			if ok != tt.ok {
				t.Fatalf("ok = %v, want %v", ok, tt.ok)
			}
			if got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestCurrency(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"€", "EUR"},
		{"$", "USD"},
		{"£", "GBP"},
		{"¥", "JPY"},
		{"₹", "INR"},
		{"eur", "EUR"},
		{" usd ", "USD"},
		{"chf", "CHF"},
		{"XYZ", "XYZ"}, // unknown code passthrough
		{"1.000 €", "EUR"},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			if got := Currency(tt.in); got != tt.want {
				t.Errorf("Currency(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func completeResult() analysis.Result {
	value := 30000.0
	currency := "EUR"
	return analysis.Result{
		DocumentType:   "employment_contract",
		Parties:        []string{"ACME Corp", "Jane Doe"},
		Dates:          []analysis.DateEntry{{Label: "Start", Value: "2026-03-01"}},
		Amounts:        []analysis.AmountEntry{{Concept: "Base salary", Value: &value, Currency: &currency}},
		Obligations:    []string{"Non-compete"},
		Rights:         []string{"30 days of vacation"},
		Risks:          []string{"Non-compete clause"},
		SummaryBullets: []string{"Annual contract", "Salary 30k EUR"},
		Notes:          []string{"existing note"},
		Confidence:     0.95,
	}
}

func TestApplyCompleteResultKeepsConfidence(t *testing.T) {
	n := New(Config{})
	text := strings.Repeat("Employment contract between ACME Corp and Jane Doe. Salary 30000 EUR. ", 20)

	out := n.Apply(completeResult(), text)
	if out.Confidence != 0.95 {
		t.Errorf("confidence = %v, want 0.95 (no penalties)", out.Confidence)
	}
	if out.Notes[0] != "existing note" {
		t.Error("existing notes must be preserved in place")
	}
}

func TestApplyPenaltiesCompound(t *testing.T) {
	n := New(Config{})
	sparse := analysis.Result{DocumentType: analysis.UnknownDocumentType, Confidence: 0.6}

	out := n.Apply(sparse, "tiny text")

	// 0.6 * 0.8 (sparse) * 0.9 (short text) * 0.85 (no bullets) = 0.37 rounded.
	if out.Confidence != 0.37 {
		t.Errorf("confidence = %v, want 0.37", out.Confidence)
	}
	if len(out.Notes) != 4 {
		t.Errorf("expected 4 diagnostic notes, got %d: %v", len(out.Notes), out.Notes)
	}
}

func TestApplyUnverifiedAmountsPenalty(t *testing.T) {
	n := New(Config{})
	result := completeResult()
	bogus := 99999.0
	result.Amounts = []analysis.AmountEntry{{Concept: "Salary", Value: &bogus}}

	text := strings.Repeat("Employment contract between the parties, amounts unspecified. ", 20)
	out := n.Apply(result, text)

	// Only the amount-verification penalty applies: 0.95 * 0.9 = 0.86 rounded.
	if out.Confidence != 0.86 {
		t.Errorf("confidence = %v, want 0.86", out.Confidence)
	}
}

func TestApplyVerifiedAmountsNoPenalty(t *testing.T) {
	n := New(Config{})
	text := strings.Repeat("The base salary is 30000 per year as agreed by both parties. ", 20)

	out := n.Apply(completeResult(), text)
	if out.Confidence != 0.95 {
		t.Errorf("confidence = %v, want 0.95", out.Confidence)
	}
}

func TestApplyRewritesDatesAndCurrencies(t *testing.T) {
	n := New(Config{})
	result := completeResult()
	symbol := "€"
	result.Dates = []analysis.DateEntry{
		{Label: "Start", Value: "15/03/2026"},
		{Label: "Renewal", Value: "next spring"},
	}
	result.Amounts[0].Currency = &symbol

	text := strings.Repeat("Salary 30000 paid monthly starting 15/03/2026. ", 20)
	out := n.Apply(result, text)

	if out.Dates[0].Value != "2026-03-15" {
		t.Errorf("date not normalized: %q", out.Dates[0].Value)
	}
	if out.Dates[1].Value != "next spring" {
		t.Errorf("literal date must be preserved: %q", out.Dates[1].Value)
	}
	if *out.Amounts[0].Currency != "EUR" {
		t.Errorf("currency not normalized: %q", *out.Amounts[0].Currency)
	}

	found := false
	for _, note := range out.Notes {
		if strings.Contains(note, "not normalized to ISO") {
			found = true
		}
	}
	if !found {
		t.Error("expected informational note about non-ISO dates")
	}
}

func TestApplyClampsConfidence(t *testing.T) {
	n := New(Config{})
	result := completeResult()
	result.Confidence = 1.5

	text := strings.Repeat("Salary 30000 as agreed. ", 30)
	out := n.Apply(result, text)
	if out.Confidence != 1.0 {
		t.Errorf("confidence = %v, want clamped 1.0", out.Confidence)
	}

	result.Confidence = -0.5
	out = n.Apply(result, text)
	if out.Confidence != 0.0 {
		t.Errorf("confidence = %v, want clamped 0.0", out.Confidence)
	}
}

func TestHasWarnings(t *testing.T) {
	n := New(Config{})
	sparse := analysis.Result{DocumentType: analysis.UnknownDocumentType, Confidence: 0.6}

	out := n.Apply(sparse, "tiny text")
	if !HasWarnings(out.Notes) {
		t.Errorf("expected warning-prefixed notes, got %v", out.Notes)
	}

	if HasWarnings([]string{"plain note", "another"}) {
		t.Error("plain notes must not count as warnings")
	}
}

func TestApplyDoesNotMutateInput(t *testing.T) {
	n := New(Config{})
	result := completeResult()
	symbol := "€"
	result.Amounts[0].Currency = &symbol
	result.Dates[0].Value = "15/03/2026"

	_ = n.Apply(result, "short")

	if result.Dates[0].Value != "15/03/2026" {
		t.Error("input dates were mutated")
	}
	if *result.Amounts[0].Currency != "€" {
		t.Error("input currency was mutated")
	}
	if len(result.Notes) != 1 {
		t.Error("input notes were mutated")
	}
	if result.Confidence != 0.95 {
		t.Error("input confidence was mutated")
	}
}
