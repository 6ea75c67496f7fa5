// Package prompt assembles the oracle prompt: system instructions followed
// by the document text, truncated safely when the token budget requires it.
package prompt

import (
	"fmt"
	"strings"
)

const (
	// DefaultMaxTokens is the total prompt budget when none is configured.
	DefaultMaxTokens = 4000

	// responseReserveTokens is held back for the model's reply.
	responseReserveTokens = 200

	// minDocumentTokens is the smallest document budget worth sending.
	minDocumentTokens = 500

	// charsPerToken is the rough character-to-token heuristic for
	// Spanish/English prose.
	charsPerToken = 4
)

// EstimateTokens approximates the token count of text.
func EstimateTokens(text string) int {
	return len(text) / charsPerToken
}

// TruncateSafe cuts text to at most maxChars without splitting a word when
// a space falls in the final 20% of the budget, and appends an ellipsis.
func TruncateSafe(text string, maxChars int) string {
	if len(text) <= maxChars {
		return text
	}

	truncated := text[:maxChars]
	if lastSpace := strings.LastIndex(truncated, " "); lastSpace > maxChars*8/10 {
		truncated = truncated[:lastSpace]
	}
	return strings.TrimSpace(truncated) + "..."
}

// Config tunes the Builder. The zero value picks the defaults.
type Config struct {
	// MaxTokens is the total prompt budget including the reply reserve.
	MaxTokens int
}

// Builder assembles analysis prompts within a fixed token budget. It is
// stateless and safe for concurrent use.
type Builder struct {
	maxTokens int
}

// New creates a Builder with the given configuration.
func New(cfg Config) *Builder {
	if cfg.MaxTokens <= 0 {
		cfg.MaxTokens = DefaultMaxTokens
	}
	return &Builder{maxTokens: cfg.MaxTokens}
}

// Build assembles the full prompt for a document chunk. The boolean reports
// whether the document text had to be truncated to fit the budget. An error
// means the budget cannot hold the system prompt plus a useful amount of
// document text at all.
func (b *Builder) Build(text string) (string, bool, error) {
	system := SystemPrompt()
	systemTokens := EstimateTokens(system)

	availableTokens := b.maxTokens - systemTokens - responseReserveTokens
	if availableTokens < minDocumentTokens {
		return "", false, fmt.Errorf(
			"prompt budget too small: system prompt uses %d of %d tokens, need at least %d for the document",
			systemTokens, b.maxTokens, minDocumentTokens)
	}

	availableChars := availableTokens * charsPerToken
	truncated := len(text) > availableChars
	docText := text
	if truncated {
		docText = TruncateSafe(text, availableChars)
	}

	rule := strings.Repeat("=", 60)
	var sb strings.Builder
	sb.WriteString(system)
	sb.WriteString("\n\n" + rule)
	sb.WriteString("\nDOCUMENT TO ANALYZE:\n")
	sb.WriteString(rule + "\n\n")
	sb.WriteString(docText)

	if truncated {
		fmt.Fprintf(&sb,
			"\n\n[NOTE: document truncated to %d of %d characters to fit the model context. Analyze ONLY the visible content.]",
			availableChars, len(text))
	}

	return sb.String(), truncated, nil
}
