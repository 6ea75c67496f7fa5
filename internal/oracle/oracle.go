// Package oracle abstracts the text-generation collaborator. The oracle is
// unreliable by contract: it may emit malformed output and has no memory
// between calls. Callers own all validation and retry logic.
package oracle

import (
	"context"
	"errors"
)

// ErrUnavailable marks connectivity and timeout failures. These are distinct
// from content errors: the validation loop must not retry them with
// corrective prompting, they surface to the caller immediately.
var ErrUnavailable = errors.New("oracle unavailable")

// Generator is a single synchronous text-generation call.
type Generator interface {
	// Generate sends prompt to the named model and returns the raw output.
	// Connectivity and timeout failures wrap ErrUnavailable.
	Generate(ctx context.Context, model, prompt string, temperature float64) (string, error)

	// Name returns the generator identifier (e.g. "ollama").
	Name() string
}
