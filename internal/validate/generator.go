package validate

import (
	"context"
	"fmt"
	"log/slog"
	"unicode/utf8"

	"github.com/docsift/docsift/internal/analysis"
	"github.com/docsift/docsift/internal/oracle"
)

const (
	// maxErrorChars bounds the validation error text quoted back to the
	// oracle in a correction prompt.
	maxErrorChars = 300

	// documentTailChars is how much of the original prompt is restated in a
	// correction prompt so the oracle keeps the document in context.
	documentTailChars = 1000
)

// Config holds the generation parameters for a validated generator.
// It is passed in explicitly at construction; there is no global state.
type Config struct {
	Model       string
	Temperature float64
	MaxRetries  int // Correction retries after the first attempt (default: 2)
}

// Generator drives one oracle call through extraction, validation and a
// bounded correction-retry loop.
type Generator struct {
	oracle oracle.Generator
	cfg    Config
	logger *slog.Logger
}

// NewGenerator creates a validated generator around the given oracle.
func NewGenerator(gen oracle.Generator, cfg Config, logger *slog.Logger) *Generator {
	if cfg.MaxRetries < 0 {
		cfg.MaxRetries = 0
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Generator{oracle: gen, cfg: cfg, logger: logger}
}

// Generate runs the bounded retry state machine: attempt 1 uses the original
// prompt, later attempts use a correction prompt built from the last
// validation failure. It returns the validated result and the number of
// attempts used.
//
// Connectivity failures (oracle.ErrUnavailable) are not content errors and
// propagate immediately without corrective retrying. When all
// MaxRetries+1 attempts fail validation, the terminal error is a
// *RetryExhaustedError carrying the last failure.
func (g *Generator) Generate(ctx context.Context, originalPrompt string) (analysis.Result, int, error) {
	maxAttempts := g.cfg.MaxRetries + 1

	var lastErr *ValidationError
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		prompt := originalPrompt
		if attempt > 1 {
			prompt = correctionPrompt(originalPrompt, lastErr)
		}

		raw, err := g.oracle.Generate(ctx, g.cfg.Model, prompt, g.cfg.Temperature)
		if err != nil {
			return analysis.Result{}, attempt, fmt.Errorf("oracle call failed on attempt %d: %w", attempt, err)
		}

		result, verr := ParseAndValidate(raw)
		if verr == nil {
			g.logger.Debug("oracle output validated", "attempt", attempt)
			return result, attempt, nil
		}

		lastErr = verr
		g.logger.Warn("oracle output failed validation",
			"attempt", attempt,
			"max_attempts", maxAttempts,
			"error", excerpt(verr.Detail, maxErrorChars),
		)
	}

	return analysis.Result{}, maxAttempts, &RetryExhaustedError{Attempts: maxAttempts, Last: lastErr}
}

// correctionPrompt asks the oracle to fix its previous output: the prior
// validation error (truncated), a verbatim restatement of the required
// schema, and the tail of the original prompt for context.
func correctionPrompt(originalPrompt string, verr *ValidationError) string {
	errText := excerpt(verr.Detail, maxErrorChars)

	tail := originalPrompt
	if len(tail) > documentTailChars {
		// Advance to a rune boundary so accented text is never cut in half.
		cut := len(tail) - documentTailChars
		for cut < len(tail) && !utf8.RuneStart(tail[cut]) {
			cut++
		}
		tail = tail[cut:]
	}

	return fmt.Sprintf(`The previous response was not valid JSON or did not conform to the required schema.

ERROR: %s

Return ONLY a valid JSON object that follows EXACTLY this schema:

%s

Do not add explanatory text, only the raw JSON.

Original document: %s`, errText, analysis.WireSchema, tail)
}
