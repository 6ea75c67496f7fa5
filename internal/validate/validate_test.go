package validate

import (
	"strings"
	"testing"
	"unicode/utf8"
)

const validResultJSON = `{
  "document_type": "employment_contract",
  "parties": ["ACME Corp", "Jane Doe"],
  "dates": [{"label": "Start", "value": "2026-03-01"}],
  "amounts": [{"concept": "Base salary", "value": 30000.0, "currency": "EUR"}],
  "obligations": ["Non-compete for 2 years"],
  "rights": ["30 days of vacation"],
  "risks": ["Non-compete clause"],
  "summary_bullets": ["Annual contract"],
  "notes": [],
  "confidence": 0.9
}`

func TestExtractJSONBlock(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want string
		ok   bool
	}{
		{
			name: "bare object",
			raw:  `{"a": 1}`,
			want: `{"a": 1}`,
			ok:   true,
		},
		{
			name: "object with surrounding prose",
			raw:  "Here is the analysis:\n{\"a\": 1}\nHope it helps",
			want: `{"a": 1}`,
			ok:   true,
		},
		{
			name: "no braces",
			raw:  "sorry, I cannot process this document",
			ok:   false,
		},
		{
			name: "closing brace before opening",
			raw:  "} nonsense {",
			ok:   false,
		},
		{
			name: "empty",
			raw:  "",
			ok:   false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ExtractJSONBlock(tt.raw)
			if ok != tt.ok {
				t.Fatalf("ok = %v, want %v", ok, tt.ok)
			}
			if ok && got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestParseAndValidate(t *testing.T) {
	t.Run("valid JSON with extra text", func(t *testing.T) {
		raw := "Here is the analysis:\n" + validResultJSON + "\nHope it helps."
		result, verr := ParseAndValidate(raw)
		if verr != nil {
			t.Fatalf("unexpected validation error: %v", verr)
		}
		if result.DocumentType != "employment_contract" {
			t.Errorf("document type = %q", result.DocumentType)
		}
		if result.Confidence != 0.9 {
			t.Errorf("confidence = %v", result.Confidence)
		}
		if len(result.Amounts) != 1 || result.Amounts[0].Value == nil || *result.Amounts[0].Value != 30000.0 {
			t.Errorf("amounts not parsed: %+v", result.Amounts)
		}
	})

	t.Run("syntax error includes excerpt", func(t *testing.T) {
		_, verr := ParseAndValidate(`{"document_type": "x", "confidence": }`)
		if verr == nil {
			t.Fatal("expected validation error")
		}
		if !strings.Contains(verr.Detail, "invalid JSON") {
			t.Errorf("detail missing syntax diagnosis: %s", verr.Detail)
		}
	})

	t.Run("confidence out of range", func(t *testing.T) {
		raw := strings.Replace(validResultJSON, `"confidence": 0.9`, `"confidence": 1.5`, 1)
		_, verr := ParseAndValidate(raw)
		if verr == nil {
			t.Fatal("expected validation error for confidence > 1")
		}
		if !strings.Contains(verr.Detail, "confidence") {
			t.Errorf("detail does not name the failing field: %s", verr.Detail)
		}
	})

	t.Run("too many summary bullets", func(t *testing.T) {
		bullets := `"` + strings.Join([]string{"a", "b", "c", "d", "e", "f", "g", "h", "i", "j", "k"}, `", "`) + `"`
		raw := strings.Replace(validResultJSON, `"summary_bullets": ["Annual contract"]`, `"summary_bullets": [`+bullets+`]`, 1)
		_, verr := ParseAndValidate(raw)
		if verr == nil {
			t.Fatal("expected validation error for 11 bullets")
		}
	})

	t.Run("missing required field", func(t *testing.T) {
		raw := strings.Replace(validResultJSON, `"parties": ["ACME Corp", "Jane Doe"],`, "", 1)
		_, verr := ParseAndValidate(raw)
		if verr == nil {
			t.Fatal("expected validation error for missing parties")
		}
	})

	t.Run("null amount value and currency accepted", func(t *testing.T) {
		raw := strings.Replace(validResultJSON,
			`{"concept": "Base salary", "value": 30000.0, "currency": "EUR"}`,
			`{"concept": "Unspecified bonus", "value": null, "currency": null}`, 1)
		result, verr := ParseAndValidate(raw)
		if verr != nil {
			t.Fatalf("unexpected validation error: %v", verr)
		}
		if result.Amounts[0].Value != nil || result.Amounts[0].Currency != nil {
			t.Error("null value/currency should map to nil")
		}
	})

	t.Run("no JSON in response", func(t *testing.T) {
		_, verr := ParseAndValidate("I am unable to help with that.")
		if verr == nil {
			t.Fatal("expected validation error")
		}
		if !strings.Contains(verr.Detail, "no JSON object found") {
			t.Errorf("unexpected detail: %s", verr.Detail)
		}
	})
}

func TestExcerptRuneSafe(t *testing.T) {
	long := strings.Repeat("é", 200)

	got := excerpt(long, 301)
	if !utf8.ValidString(got) {
		t.Fatalf("excerpt produced invalid UTF-8: %q", got)
	}
	if !strings.HasSuffix(got, "...") {
		t.Errorf("truncated excerpt must end with ellipsis: %q", got)
	}
	if len(got) != 303 {
		t.Errorf("excerpt length = %d, want cut at the previous rune boundary", len(got))
	}

	if short := excerpt("short", 300); short != "short" {
		t.Errorf("short input must pass through, got %q", short)
	}
}
