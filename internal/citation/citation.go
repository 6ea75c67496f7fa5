// Package citation fuzzy-locates extracted phrases within the original
// document text, producing line ranges and context snippets as evidence.
// The scan is exhaustive over sliding line windows, which is fine for
// chunk-scale documents but not for book-scale corpora.
package citation

import (
	"fmt"
	"regexp"
	"strings"
)

const (
	// DefaultThreshold is the minimum similarity for a phrase to count as
	// located.
	DefaultThreshold = 0.7

	// DefaultContextLines is how many lines of context surround a snippet.
	DefaultContextLines = 2

	// maxWindowLines bounds the sliding-window height. Extracted phrases are
	// short; anything spanning more than five lines is not a usable citation.
	maxWindowLines = 5
)

// Citation is a located match of an extracted phrase within the source
// document. Line numbers are 1-indexed and inclusive.
type Citation struct {
	Phrase     string  `json:"phrase"`
	StartLine  int     `json:"start_line"`
	EndLine    int     `json:"end_line"`
	Snippet    string  `json:"snippet"`
	Similarity float64 `json:"similarity"`
}

// PhraseCitation pairs a phrase with its citation, nil when the phrase could
// not be located above the threshold.
type PhraseCitation struct {
	Phrase   string    `json:"phrase"`
	Citation *Citation `json:"citation"`
}

// Config tunes the mapper. The zero value picks the defaults.
type Config struct {
	Threshold    float64
	ContextLines int
}

// Mapper locates phrases in document text. It is stateless and safe for
// concurrent use.
type Mapper struct {
	threshold    float64
	contextLines int
}

// New creates a Mapper with the given configuration.
func New(cfg Config) *Mapper {
	if cfg.Threshold <= 0 {
		cfg.Threshold = DefaultThreshold
	}
	if cfg.ContextLines <= 0 {
		cfg.ContextLines = DefaultContextLines
	}
	return &Mapper{threshold: cfg.Threshold, contextLines: cfg.ContextLines}
}

var (
	nonMatchChars = regexp.MustCompile(`[^\p{L}\p{N}_\s.,;]`)
	whitespaceRun = regexp.MustCompile(`\s+`)
)

// NormalizeForMatching lowercases text, strips everything but word
// characters, whitespace and basic punctuation, and collapses whitespace
// runs. Both phrase and candidate windows go through this before comparison.
func NormalizeForMatching(text string) string {
	text = strings.ToLower(text)
	text = nonMatchChars.ReplaceAllString(text, " ")
	text = whitespaceRun.ReplaceAllString(text, " ")
	return strings.TrimSpace(text)
}

// Similarity returns the similarity ratio between two strings after
// normalization, in [0,1].
func Similarity(a, b string) float64 {
	return sequenceRatio([]rune(NormalizeForMatching(a)), []rune(NormalizeForMatching(b)))
}

// Locate scans documentLines for the window most similar to phrase, trying
// window heights of one to five lines at every starting position. It returns
// nil when no window reaches the threshold; a low-score Citation is never
// produced. The best window wins; ties keep the earliest, smallest window.
func (m *Mapper) Locate(phrase string, documentLines []string) *Citation {
	bestScore := 0.0
	bestStart, bestEnd := -1, -1

	for windowSize := 1; windowSize <= maxWindowLines; windowSize++ {
		for i := 0; i+windowSize <= len(documentLines); i++ {
			windowText := strings.Join(documentLines[i:i+windowSize], " ")
			score := Similarity(phrase, windowText)
			if score > bestScore && score >= m.threshold {
				bestScore = score
				bestStart, bestEnd = i, i+windowSize-1
			}
		}
	}

	if bestStart < 0 {
		return nil
	}

	snippetStart := bestStart - m.contextLines
	if snippetStart < 0 {
		snippetStart = 0
	}
	snippetEnd := bestEnd + m.contextLines + 1
	if snippetEnd > len(documentLines) {
		snippetEnd = len(documentLines)
	}

	return &Citation{
		Phrase:     phrase,
		StartLine:  bestStart + 1,
		EndLine:    bestEnd + 1,
		Snippet:    strings.Join(documentLines[snippetStart:snippetEnd], "\n"),
		Similarity: bestScore,
	}
}

// Map locates every phrase in the document text, preserving input order.
func (m *Mapper) Map(phrases []string, documentText string) []PhraseCitation {
	lines := strings.Split(documentText, "\n")

	out := make([]PhraseCitation, 0, len(phrases))
	for _, phrase := range phrases {
		out = append(out, PhraseCitation{
			Phrase:   phrase,
			Citation: m.Locate(phrase, lines),
		})
	}
	return out
}

// Report renders a human-readable summary of the mapping results.
func Report(entries []PhraseCitation) string {
	var b strings.Builder
	rule := strings.Repeat("=", 60)

	b.WriteString(rule + "\n")
	b.WriteString("CITATIONS TO ORIGINAL DOCUMENT\n")
	b.WriteString(rule + "\n")

	found := 0
	for _, e := range entries {
		if e.Citation != nil {
			found++
		}
	}
	if len(entries) > 0 {
		fmt.Fprintf(&b, "\nLocated: %d/%d (%.0f%%)\n\n", found, len(entries),
			float64(found)/float64(len(entries))*100)
	}

	for _, e := range entries {
		fmt.Fprintf(&b, "Phrase: %q\n", truncate(e.Phrase, 60))
		if c := e.Citation; c != nil {
			fmt.Fprintf(&b, "  Location: lines %d-%d\n", c.StartLine, c.EndLine)
			fmt.Fprintf(&b, "  Similarity: %.0f%%\n", c.Similarity*100)
			fmt.Fprintf(&b, "  Context: %s\n", truncate(c.Snippet, 100))
		} else {
			b.WriteString("  Not found in the document\n")
		}
		b.WriteString("\n")
	}

	b.WriteString(rule + "\n")
	return b.String()
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
