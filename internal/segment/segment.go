// Package segment splits long document text into ordered, overlapping,
// sentence-respecting chunks sized for a bounded-context oracle.
package segment

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

const (
	// DefaultMaxSize is the default chunk size in bytes.
	DefaultMaxSize = 12000

	// DefaultOverlap is the default overlap between consecutive chunks,
	// preserving context across the cut.
	DefaultOverlap = 200

	// backWindow and forwardWindow bound the search for a sentence
	// terminator around the candidate cut point.
	backWindow    = 500
	forwardWindow = 200
)

// sentenceEnd matches a sentence terminator followed by whitespace.
var sentenceEnd = regexp.MustCompile(`[.!?]\s+`)

// Split divides text into chunks of at most maxSize bytes (plus slack bounded
// by the terminator search window), cutting at sentence boundaries when one
// exists near the limit, falling back to whitespace, and hard-cutting only
// when neither is available. Consecutive chunks overlap by overlap bytes.
//
// Text no longer than maxSize is returned as a single chunk, untrimmed.
func Split(text string, maxSize, overlap int) []string {
	if maxSize <= 0 {
		maxSize = DefaultMaxSize
	}
	if overlap < 0 {
		overlap = 0
	}
	if overlap >= maxSize {
		// Overlap must be smaller than the chunk size or the scan cannot
		// make progress.
		overlap = maxSize - 1
	}

	if len(text) <= maxSize {
		return []string{text}
	}

	var chunks []string
	start := 0

	for start < len(text) {
		end := start + maxSize

		if end >= len(text) {
			if tail := strings.TrimSpace(text[start:]); tail != "" {
				chunks = append(chunks, tail)
			}
			break
		}

		cut := findCut(text, start, end, maxSize)

		if chunk := strings.TrimSpace(text[start:cut]); chunk != "" {
			chunks = append(chunks, chunk)
		}

		next := cut - overlap
		if next <= start {
			// Guarantee forward progress even with aggressive overlap.
			next = cut
		}
		start = next
	}

	return chunks
}

// findCut picks the cut position for the chunk beginning at start with hard
// limit end. Preference order: last sentence terminator inside the search
// window, then the last whitespace past 80% of maxSize, then the hard limit.
func findCut(text string, start, end, maxSize int) int {
	searchStart := start + maxSize - backWindow
	if searchStart < start {
		searchStart = start
	}
	searchEnd := end + forwardWindow
	if searchEnd > len(text) {
		searchEnd = len(text)
	}

	window := text[searchStart:searchEnd]
	if matches := sentenceEnd.FindAllStringIndex(window, -1); len(matches) > 0 {
		last := matches[len(matches)-1]
		return searchStart + last[1]
	}

	if lastSpace := strings.LastIndex(text[:end], " "); lastSpace > start+maxSize*8/10 {
		return lastSpace
	}

	// Hard cut. Back up to a rune boundary so multi-byte characters are
	// never split in half.
	for end > start && !utf8.RuneStart(text[end]) {
		end--
	}
	return end
}
