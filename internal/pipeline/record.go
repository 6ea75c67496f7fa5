package pipeline

import (
	"fmt"
	"time"

	"github.com/docsift/docsift/internal/analysis"
	"github.com/docsift/docsift/internal/extract"
	"github.com/docsift/docsift/internal/normalize"
)

// RecordState classifies how trustworthy a finished analysis is.
type RecordState int

const (
	StateValid RecordState = iota
	StateWithWarnings
	StateIncomplete
)

// String returns the stable wire name of the state.
func (s RecordState) String() string {
	switch s {
	case StateValid:
		return "valid"
	case StateWithWarnings:
		return "with_warnings"
	case StateIncomplete:
		return "incomplete"
	default:
		return "unknown"
	}
}

// ParseRecordState is the inverse of String, used when loading stored
// records.
func ParseRecordState(s string) (RecordState, error) {
	switch s {
	case "valid":
		return StateValid, nil
	case "with_warnings":
		return StateWithWarnings, nil
	case "incomplete":
		return StateIncomplete, nil
	default:
		return StateValid, fmt.Errorf("unknown record state %q", s)
	}
}

// StateFor derives the record state from a finished result: incomplete when
// fewer than half of the list categories are populated, with warnings when
// diagnostic warnings exist or confidence is low, valid otherwise.
func StateFor(r analysis.Result) RecordState {
	completeness := float64(r.ListCategories()) / 7.0
	switch {
	case completeness < 0.5:
		return StateIncomplete
	case normalize.HasWarnings(r.Notes) || r.Confidence < 0.6:
		return StateWithWarnings
	default:
		return StateValid
	}
}

// Record is the durable outcome of analyzing one document: source metadata,
// the consolidated result, and its derived state.
type Record struct {
	DocumentID string             `json:"id"`
	Name       string             `json:"name"`
	SourceKind extract.SourceKind `json:"-"`
	Source     string             `json:"source_kind"`
	Pages      int                `json:"pages,omitempty"`
	SizeBytes  int64              `json:"size_bytes"`
	Language   string             `json:"language"`
	ChunkCount int                `json:"chunk_count"`
	Result     analysis.Result    `json:"result"`
	State      string             `json:"state"`
	Text       string             `json:"-"`
	CreatedAt  time.Time          `json:"created_at"`
	UpdatedAt  time.Time          `json:"updated_at"`
}
