// Package lang detects the language of extracted text from common-word
// frequency, without external models. Only Spanish and English are
// distinguished; everything else reports unknown.
package lang

import (
	"regexp"
	"strings"
)

// Language codes returned by Detect.
const (
	Spanish = "es"
	English = "en"
	Unknown = "unknown"
)

// minTextLength is the shortest input worth classifying.
const minTextLength = 20

// DefaultMinWords is the minimum extracted word count for a verdict.
const DefaultMinWords = 10

// detection is scored against each language in this fixed order.
var commonWords = []struct {
	code  string
	words map[string]bool
}{
	{Spanish, wordSet(
		"de", "la", "que", "el", "en", "y", "a", "los", "del", "se",
		"las", "por", "un", "para", "con", "no", "una", "su", "al", "lo",
		"como", "más", "pero", "sus", "le", "ya", "o", "este", "sí", "porque",
		"esta", "entre", "cuando", "muy", "sin", "sobre", "también", "me", "hasta",
		"hay", "donde", "quien", "desde", "todo", "nos", "durante", "todos", "uno",
		"les", "ni", "contra", "otros", "ese", "eso", "ante", "ellos")},
	{English, wordSet(
		"the", "be", "to", "of", "and", "a", "in", "that", "have", "i",
		"it", "for", "not", "on", "with", "he", "as", "you", "do", "at",
		"this", "but", "his", "by", "from", "they", "we", "say", "her", "she",
		"or", "an", "will", "my", "one", "all", "would", "there", "their", "what",
		"so", "up", "out", "if", "about", "who", "get", "which", "go", "me")},
}

// distinctiveChars earn a small score bonus; accented vowels and inverted
// punctuation strongly suggest Spanish.
var distinctiveChars = map[string]map[rune]bool{
	Spanish: {'á': true, 'é': true, 'í': true, 'ó': true, 'ú': true, 'ñ': true, 'ü': true, '¿': true, '¡': true},
}

var wordPattern = regexp.MustCompile(`[a-záéíóúñü]{3,}`)

// Detect returns the language code of text, or Unknown when the text is too
// short, has fewer than minWords recognizable words, or no language clears
// the 15% common-word threshold. Pass minWords <= 0 for the default.
func Detect(text string, minWords int) string {
	if minWords <= 0 {
		minWords = DefaultMinWords
	}
	if len(strings.TrimSpace(text)) < minTextLength {
		return Unknown
	}

	words := wordPattern.FindAllString(strings.ToLower(text), -1)
	if len(words) < minWords {
		return Unknown
	}

	bestLang := Unknown
	bestScore := 0.0
	for _, lang := range commonWords {
		matches := 0
		for _, w := range words {
			if lang.words[w] {
				matches++
			}
		}
		score := float64(matches) / float64(len(words))

		if chars, ok := distinctiveChars[lang.code]; ok {
			hits := 0
			for _, r := range text {
				if chars[r] {
					hits++
				}
			}
			if hits > 0 {
				bonus := float64(hits) / 100.0
				if bonus > 0.2 {
					bonus = 0.2
				}
				score += bonus
			}
		}

		if score > bestScore {
			bestLang, bestScore = lang.code, score
		}
	}

	if bestScore < 0.15 {
		return Unknown
	}
	return bestLang
}

// Name returns the display name for a language code.
func Name(code string) string {
	switch code {
	case Spanish:
		return "Spanish"
	case English:
		return "English"
	default:
		return "Unknown"
	}
}

func wordSet(words ...string) map[string]bool {
	set := make(map[string]bool, len(words))
	for _, w := range words {
		set[w] = true
	}
	return set
}
