// Package normalize post-processes a per-chunk analysis result: date and
// currency normalization plus heuristic confidence re-scoring with
// diagnostic notes. All operations are pure; inputs are never mutated.
package normalize

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/docsift/docsift/internal/analysis"
)

// currencySymbols maps common symbols to ISO 4217 codes. Ordered so symbol
// lookup is deterministic.
var currencySymbols = []struct {
	symbol string
	code   string
}{
	{"€", "EUR"},
	{"$", "USD"},
	{"£", "GBP"},
	{"¥", "JPY"},
	{"₹", "INR"},
}

// knownCurrencyCodes are codes passed through as-is (uppercased).
var knownCurrencyCodes = map[string]bool{
	"EUR": true, "USD": true, "GBP": true, "JPY": true, "CHF": true, "INR": true,
}

var (
	dateFourDigitYear = regexp.MustCompile(`(\d{1,2})[/-](\d{1,2})[/-](\d{4})`)
	dateTwoDigitYear  = regexp.MustCompile(`(\d{1,2})[/-](\d{1,2})[/-](\d{2})`)
	isoDate           = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}`)
	numericToken      = regexp.MustCompile(`\d+[.,]?\d*`)
)

// Date rewrites a day-first date (D/M/YYYY or D/M/YY, slash or dash) to ISO
// YYYY-MM-DD. Two-digit years pivot at 50: 00..50 map to 2000s, 51..99 to
// 1900s. The boolean is false when no parseable, calendar-valid date is
// found; callers keep the literal value in that case.
func Date(value string) (string, bool) {
	for _, pattern := range []*regexp.Regexp{dateFourDigitYear, dateTwoDigitYear} {
		m := pattern.FindStringSubmatch(value)
		if m == nil {
			continue
		}

		day, _ := strconv.Atoi(m[1])
		month, _ := strconv.Atoi(m[2])
		year, _ := strconv.Atoi(m[3])

		if len(m[3]) == 2 {
			if year <= 50 {
				year += 2000
			} else {
				year += 1900
			}
		}

		if day < 1 || day > 31 || month < 1 || month > 12 {
			continue
		}

		// time.Date normalizes overflow (Feb 31 becomes Mar 3); a changed
		// component means the calendar date was invalid.
		d := time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
		if d.Year() != year || d.Month() != time.Month(month) || d.Day() != day {
			continue
		}

		return d.Format("2006-01-02"), true
	}
	return value, false
}

// Currency maps a symbol to its ISO 4217 code, uppercases known codes, and
// leaves anything unrecognized unchanged.
func Currency(value string) string {
	cleaned := strings.TrimSpace(value)
	if cleaned == "" {
		return value
	}
	if knownCurrencyCodes[strings.ToUpper(cleaned)] {
		return strings.ToUpper(cleaned)
	}
	for _, cs := range currencySymbols {
		if strings.Contains(cleaned, cs.symbol) {
			return cs.code
		}
	}
	return cleaned
}

// WarningPrefix marks diagnostic notes that indicate degraded extraction
// quality, as opposed to purely informational ones. The pipeline uses it to
// decide the record state.
const WarningPrefix = "warning: "

// HasWarnings reports whether any note carries the warning prefix.
func HasWarnings(notes []string) bool {
	for _, n := range notes {
		if strings.HasPrefix(n, WarningPrefix) {
			return true
		}
	}
	return false
}

// Config tunes the confidence heuristics. The zero value is usable; fields
// default to the reference thresholds.
type Config struct {
	// ShortTextThreshold is the chunk length (bytes) below which confidence
	// is penalized for limited context. Default: 500.
	ShortTextThreshold int

	// NumericTokenLimit is how many numeric tokens of the source chunk are
	// scanned when verifying extracted amounts. Default: 20.
	NumericTokenLimit int
}

// Normalizer applies normalization and confidence re-scoring to per-chunk
// results. Construct once and share freely; it is stateless.
type Normalizer struct {
	shortText    int
	numericLimit int
}

// New creates a Normalizer with the given configuration.
func New(cfg Config) *Normalizer {
	if cfg.ShortTextThreshold <= 0 {
		cfg.ShortTextThreshold = 500
	}
	if cfg.NumericTokenLimit <= 0 {
		cfg.NumericTokenLimit = 20
	}
	return &Normalizer{shortText: cfg.ShortTextThreshold, numericLimit: cfg.NumericTokenLimit}
}

// Apply returns a new result with dates rewritten to ISO where possible,
// currency symbols mapped to codes, and confidence re-scored against the
// source chunk text. Diagnostic notes are appended to the existing notes,
// never replacing them. The input is not modified.
func (n *Normalizer) Apply(result analysis.Result, sourceText string) analysis.Result {
	out := result.Clone()

	for i, d := range out.Dates {
		if iso, ok := Date(d.Value); ok {
			out.Dates[i].Value = iso
		}
	}
	for i, a := range out.Amounts {
		if a.Currency != nil {
			code := Currency(*a.Currency)
			out.Amounts[i].Currency = &code
		}
	}

	confidence := out.Confidence
	var notes []string

	// Penalties apply multiplicatively in a fixed order so identical inputs
	// always re-score identically.

	if !out.IsComplete() {
		confidence *= 0.8
		notes = append(notes, fmt.Sprintf(
			"incomplete analysis: only %d/8 categories populated (confidence reduced)",
			out.ContentCategories()))
	}

	if len(out.Amounts) > 0 && !n.amountsVerified(out.Amounts, sourceText) {
		confidence *= 0.9
		notes = append(notes, WarningPrefix+"extracted amounts not verified directly in text (possible inference)")
	}

	if len(sourceText) < n.shortText {
		confidence *= 0.9
		notes = append(notes, fmt.Sprintf(
			"very short source text (%d characters), limited information available", len(sourceText)))
	}

	if nonISO := countNonISODates(out.Dates); nonISO > 0 {
		notes = append(notes, fmt.Sprintf(
			"%d date(s) not normalized to ISO (literal value preserved)", nonISO))
	}

	if len(out.Parties) == 0 {
		notes = append(notes, WarningPrefix+"no parties identified (document incomplete or unsigned)")
	}

	if len(out.SummaryBullets) == 0 {
		confidence *= 0.85
		notes = append(notes, WarningPrefix+"no summary could be produced (text unreadable or heavily fragmented)")
	}

	out.Notes = append(out.Notes, notes...)
	out.Confidence = round2(clamp01(confidence))
	return out
}

// amountsVerified reports whether any extracted numeric value appears
// (within ±0.01) among the first numericLimit numeric tokens of the text.
func (n *Normalizer) amountsVerified(amounts []analysis.AmountEntry, text string) bool {
	var values []float64
	for _, a := range amounts {
		if a.Value != nil {
			values = append(values, *a.Value)
		}
	}
	if len(values) == 0 {
		// Nothing to verify; no penalty.
		return true
	}

	tokens := numericToken.FindAllString(text, n.numericLimit)
	for _, tok := range tokens {
		num, err := strconv.ParseFloat(strings.ReplaceAll(tok, ",", "."), 64)
		if err != nil {
			continue
		}
		for _, v := range values {
			if math.Abs(v-num) < 0.01 {
				return true
			}
		}
	}
	return false
}

func countNonISODates(dates []analysis.DateEntry) int {
	n := 0
	for _, d := range dates {
		if !isoDate.MatchString(d.Value) {
			n++
		}
	}
	return n
}

func clamp01(v float64) float64 {
	return math.Max(0.0, math.Min(1.0, v))
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
