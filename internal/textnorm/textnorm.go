// Package textnorm cleans raw text coming out of the extractors: control
// characters, whitespace runs, extractor page markers and common OCR
// artifacts.
package textnorm

import (
	"regexp"
	"strings"
	"unicode"
)

// Options controls Normalize. The zero value preserves paragraph structure
// and applies no length limit.
type Options struct {
	// MaxLength truncates the cleaned text without cutting words when > 0.
	MaxLength int

	// Flatten replaces all newlines with spaces instead of preserving
	// paragraph breaks.
	Flatten bool
}

var (
	spaceRun     = regexp.MustCompile(`[ \t]+`)
	newlineRun   = regexp.MustCompile(`\n{3,}`)
	newlineSpace = regexp.MustCompile(`\n +`)
	pageMarker   = regexp.MustCompile(`---\s*Page\s+\d+\s*(\(OCR\))?\s*---`)
)

// Normalize cleans extracted text: drops control characters, collapses
// whitespace runs, and caps consecutive blank lines at one (a paragraph
// break) unless flattening.
func Normalize(raw string, opts Options) string {
	if raw == "" {
		return ""
	}

	var b strings.Builder
	b.Grow(len(raw))
	for _, r := range raw {
		if unicode.IsPrint(r) || r == '\n' || r == '\t' {
			b.WriteRune(r)
		}
	}
	text := spaceRun.ReplaceAllString(b.String(), " ")

	if opts.Flatten {
		text = strings.ReplaceAll(text, "\n", " ")
		text = spaceRun.ReplaceAllString(text, " ")
	} else {
		text = newlineRun.ReplaceAllString(text, "\n\n")
		text = newlineSpace.ReplaceAllString(text, "\n")
	}
	text = strings.TrimSpace(text)

	if opts.MaxLength > 0 && len(text) > opts.MaxLength {
		cut := text[:opts.MaxLength]
		if i := strings.LastIndex(cut, " "); i > 0 {
			cut = cut[:i]
		}
		text = strings.TrimSpace(cut) + "..."
	}
	return text
}

// RemovePageMarkers strips "--- Page N ---" lines inserted by the
// extractors, including OCR-tagged variants.
func RemovePageMarkers(text string) string {
	text = pageMarker.ReplaceAllString(text, "")
	text = newlineRun.ReplaceAllString(text, "\n\n")
	return strings.TrimSpace(text)
}

// ocr substitutions applied only between letters, where the characters are
// almost certainly misrecognized glyphs rather than real digits or pipes.
var ocrRepl = map[rune]rune{
	'|': 'l',
	'0': 'O',
	'1': 'l',
}

// CleanOCRArtifacts repairs common OCR misreads: pipes and look-alike
// digits surrounded by letters become the letters they resemble. A double
// pipe between letters collapses to a single "l".
func CleanOCRArtifacts(text string) string {
	runes := []rune(text)
	out := make([]rune, 0, len(runes))

	for i := 0; i < len(runes); i++ {
		r := runes[i]
		repl, ok := ocrRepl[r]
		if !ok {
			out = append(out, r)
			continue
		}

		end := i
		if r == '|' && i+1 < len(runes) && runes[i+1] == '|' {
			end = i + 1
		}
		prevLetter := len(out) > 0 && isLetter(out[len(out)-1])
		nextLetter := end+1 < len(runes) && isLetter(runes[end+1])
		if prevLetter && nextLetter {
			out = append(out, repl)
			i = end
		} else {
			out = append(out, r)
		}
	}
	return string(out)
}

// FirstWords returns the first n words of text with an ellipsis, for
// previews and log lines.
func FirstWords(text string, n int) string {
	words := strings.Fields(text)
	if len(words) <= n {
		return text
	}
	return strings.Join(words[:n], " ") + "..."
}

func isLetter(r rune) bool {
	return unicode.IsLetter(r)
}
