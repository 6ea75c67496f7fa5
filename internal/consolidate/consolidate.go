// Package consolidate merges per-chunk analysis results into a single
// coherent record: plurality voting, fuzzy deduplication, numeric
// reconciliation and completeness-weighted confidence. Every tie-break
// resolves by first-encountered order so identical inputs always produce
// identical outputs.
package consolidate

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/docsift/docsift/internal/analysis"
)

// ErrNoResults is returned when the input list is empty. That is a
// programming-contract violation, not a recoverable condition.
var ErrNoResults = errors.New("no results to consolidate")

const (
	// nearDuplicateThreshold is the token-overlap ratio at which a shorter
	// phrase is considered redundant against a longer one.
	nearDuplicateThreshold = 0.85

	// conceptClusterThreshold is the word-overlap ratio above which two
	// amount concepts fall into the same group.
	conceptClusterThreshold = 0.6
)

// Consolidate merges an ordered, non-empty list of per-chunk results into
// one. A single-element list is returned unchanged.
func Consolidate(results []analysis.Result) (analysis.Result, error) {
	if len(results) == 0 {
		return analysis.Result{}, ErrNoResults
	}
	if len(results) == 1 {
		return results[0], nil
	}

	out := analysis.Result{
		DocumentType: voteDocumentType(results),
	}

	out.Parties = DedupList(concat(results, func(r analysis.Result) []string { return r.Parties }))
	out.Obligations = DedupList(concat(results, func(r analysis.Result) []string { return r.Obligations }))
	out.Rights = DedupList(concat(results, func(r analysis.Result) []string { return r.Rights }))
	out.Risks = DedupList(concat(results, func(r analysis.Result) []string { return r.Risks }))
	out.Dates = mergeDates(results)
	out.Amounts = mergeAmounts(results)
	out.SummaryBullets = mergeBullets(results)
	out.Notes = mergeNotes(results)
	out.Confidence = weightedConfidence(results)

	return out, nil
}

// voteDocumentType returns the plurality document type; ties go to the type
// encountered first.
func voteDocumentType(results []analysis.Result) string {
	counts := make(map[string]int)
	var order []string
	for _, r := range results {
		if _, seen := counts[r.DocumentType]; !seen {
			order = append(order, r.DocumentType)
		}
		counts[r.DocumentType]++
	}

	best := order[0]
	for _, t := range order[1:] {
		if counts[t] > counts[best] {
			best = t
		}
	}
	return best
}

// DedupList removes duplicates from a list of phrases in two passes: exact
// case-insensitive duplicates first (keeping the first occurrence), then
// near-duplicates where one phrase's words are mostly contained in a longer
// phrase (the shorter, more redundant phrasing is dropped). Equal-length
// near-duplicates keep the first-encountered item. Idempotent.
func DedupList(items []string) []string {
	if len(items) == 0 {
		return nil
	}

	seen := make(map[string]bool)
	var unique []string
	for _, item := range items {
		key := strings.ToLower(strings.TrimSpace(item))
		if !seen[key] {
			seen[key] = true
			unique = append(unique, item)
		}
	}

	var out []string
	for i, a := range unique {
		if !redundant(unique, i, a) {
			out = append(out, a)
		}
	}
	return out
}

// redundant reports whether unique[i] is mostly contained in another
// surviving candidate that is longer, or equally long but earlier.
func redundant(unique []string, i int, a string) bool {
	wordsA := wordSet(a)
	if len(wordsA) == 0 {
		return false
	}
	for j, b := range unique {
		if i == j {
			continue
		}
		longer := len(b) > len(a)
		earlierTie := len(b) == len(a) && j < i
		if !longer && !earlierTie {
			continue
		}
		if containmentRatio(wordsA, wordSet(b)) >= nearDuplicateThreshold {
			return true
		}
	}
	return false
}

// mergeDates concatenates all dates and drops duplicates keyed by the
// lowercased, trimmed (label, value) pair; first occurrence wins.
func mergeDates(results []analysis.Result) []analysis.DateEntry {
	type key struct{ label, value string }
	seen := make(map[key]bool)
	var out []analysis.DateEntry

	for _, r := range results {
		for _, d := range r.Dates {
			k := key{
				label: strings.ToLower(strings.TrimSpace(d.Label)),
				value: strings.ToLower(strings.TrimSpace(d.Value)),
			}
			if !seen[k] {
				seen[k] = true
				out = append(out, d)
			}
		}
	}
	return out
}

// mergeAmounts clusters amounts by concept similarity, then emits one entry
// per group: the first entry when non-null values and currencies agree,
// otherwise a reconciled entry built from the most frequent concept, value
// and currency. Minority values are discarded silently; no diagnostic note
// is recorded for numeric reconciliation.
func mergeAmounts(results []analysis.Result) []analysis.AmountEntry {
	type group struct {
		key   string
		words map[string]struct{}
		items []analysis.AmountEntry
	}
	var groups []*group

	for _, r := range results {
		for _, a := range r.Amounts {
			norm := strings.ToLower(strings.TrimSpace(a.Concept))
			normWords := wordSet(norm)

			var target *group
			for _, g := range groups {
				if unionOverlap(g.words, normWords) > conceptClusterThreshold {
					target = g
					break
				}
			}
			if target == nil {
				target = &group{key: norm, words: normWords}
				groups = append(groups, target)
			}
			target.items = append(target.items, a)
		}
	}

	var out []analysis.AmountEntry
	for _, g := range groups {
		out = append(out, reconcileGroup(g.items))
	}
	return out
}

func reconcileGroup(items []analysis.AmountEntry) analysis.AmountEntry {
	var values []float64
	var currencies []string
	for _, it := range items {
		if it.Value != nil {
			values = append(values, *it.Value)
		}
		if it.Currency != nil {
			currencies = append(currencies, *it.Currency)
		}
	}

	if distinctFloats(values) == 1 && distinctStrings(currencies) <= 1 {
		return items[0]
	}

	concepts := make([]string, len(items))
	for i, it := range items {
		concepts[i] = it.Concept
	}

	reconciled := analysis.AmountEntry{Concept: mostFrequentString(concepts)}
	if len(values) > 0 {
		v := mostFrequentFloat(values)
		reconciled.Value = &v
	}
	if len(currencies) > 0 {
		c := mostFrequentString(currencies)
		reconciled.Currency = &c
	}
	return reconciled
}

// mergeBullets pools all summary bullets. When more than MaxSummaryBullets
// distinct bullets exist the most frequent ones win (ties first-encountered);
// otherwise the pool is deduplicated and capped.
func mergeBullets(results []analysis.Result) []string {
	var pool []string
	for _, r := range results {
		pool = append(pool, r.SummaryBullets...)
	}
	if len(pool) == 0 {
		return nil
	}

	counts := make(map[string]int)
	var order []string
	for _, b := range pool {
		if _, seen := counts[b]; !seen {
			order = append(order, b)
		}
		counts[b]++
	}

	if len(order) > analysis.MaxSummaryBullets {
		return topByFrequency(order, counts, analysis.MaxSummaryBullets)
	}

	deduped := DedupList(pool)
	if len(deduped) > analysis.MaxSummaryBullets {
		deduped = deduped[:analysis.MaxSummaryBullets]
	}
	return deduped
}

func mergeNotes(results []analysis.Result) []string {
	var pool []string
	for _, r := range results {
		pool = append(pool, r.Notes...)
	}
	notes := DedupList(pool)

	header := fmt.Sprintf("consolidated analysis of %d document fragments", len(results))
	return append([]string{header}, notes...)
}

// weightedConfidence averages confidence across results, weighting each by
// how many list categories it populated (minimum weight 1).
func weightedConfidence(results []analysis.Result) float64 {
	var weightedSum, totalWeight float64
	for _, r := range results {
		weight := float64(r.ListCategories())
		if weight < 1 {
			weight = 1
		}
		weightedSum += r.Confidence * weight
		totalWeight += weight
	}
	return math.Round(weightedSum/totalWeight*100) / 100
}

// --- helpers ---

func concat(results []analysis.Result, field func(analysis.Result) []string) []string {
	var out []string
	for _, r := range results {
		out = append(out, field(r)...)
	}
	return out
}

func wordSet(s string) map[string]struct{} {
	words := strings.Fields(strings.ToLower(s))
	set := make(map[string]struct{}, len(words))
	for _, w := range words {
		set[w] = struct{}{}
	}
	return set
}

// containmentRatio is |a ∩ b| / |a|: how much of a is contained in b.
func containmentRatio(a, b map[string]struct{}) float64 {
	if len(a) == 0 {
		return 0
	}
	n := 0
	for w := range a {
		if _, ok := b[w]; ok {
			n++
		}
	}
	return float64(n) / float64(len(a))
}

// unionOverlap is |a ∩ b| / |a ∪ b|.
func unionOverlap(a, b map[string]struct{}) float64 {
	if len(a) == 0 || len(b) == 0 {
		return 0
	}
	inter := 0
	for w := range a {
		if _, ok := b[w]; ok {
			inter++
		}
	}
	union := len(a) + len(b) - inter
	return float64(inter) / float64(union)
}

func distinctFloats(values []float64) int {
	seen := make(map[float64]bool)
	for _, v := range values {
		seen[v] = true
	}
	return len(seen)
}

func distinctStrings(values []string) int {
	seen := make(map[string]bool)
	for _, v := range values {
		seen[v] = true
	}
	return len(seen)
}

func mostFrequentString(values []string) string {
	counts := make(map[string]int)
	var order []string
	for _, v := range values {
		if _, seen := counts[v]; !seen {
			order = append(order, v)
		}
		counts[v]++
	}
	best := order[0]
	for _, v := range order[1:] {
		if counts[v] > counts[best] {
			best = v
		}
	}
	return best
}

func mostFrequentFloat(values []float64) float64 {
	counts := make(map[float64]int)
	var order []float64
	for _, v := range values {
		if _, seen := counts[v]; !seen {
			order = append(order, v)
		}
		counts[v]++
	}
	best := order[0]
	for _, v := range order[1:] {
		if counts[v] > counts[best] {
			best = v
		}
	}
	return best
}

func topByFrequency(order []string, counts map[string]int, n int) []string {
	// Stable selection: repeatedly take the highest count, first-encountered
	// on ties. n is small (10), quadratic selection is fine.
	taken := make(map[string]bool)
	var out []string
	for len(out) < n && len(out) < len(order) {
		best := ""
		for _, candidate := range order {
			if taken[candidate] {
				continue
			}
			if best == "" || counts[candidate] > counts[best] {
				best = candidate
			}
		}
		taken[best] = true
		out = append(out, best)
	}
	return out
}
