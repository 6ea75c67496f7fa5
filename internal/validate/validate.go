// Package validate turns raw oracle output into a schema-conformant
// analysis.Result, recovering from malformed output with a bounded
// correction-retry loop.
package validate

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"
	"unicode/utf8"

	"github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/docsift/docsift/internal/analysis"
)

// ValidationError is a content failure: the oracle produced output that is
// missing JSON, syntactically broken, or schema non-conformant. These are
// recoverable via corrective prompting, unlike oracle.ErrUnavailable.
type ValidationError struct {
	Detail string
}

func (e *ValidationError) Error() string {
	return e.Detail
}

// RetryExhaustedError is terminal: every attempt failed validation. It
// carries the last validation failure for diagnosis.
type RetryExhaustedError struct {
	Attempts int
	Last     *ValidationError
}

func (e *RetryExhaustedError) Error() string {
	return fmt.Sprintf("failed to get valid JSON after %d attempts: %s", e.Attempts, e.Last.Detail)
}

func (e *RetryExhaustedError) Unwrap() error {
	return e.Last
}

var (
	schemaOnce sync.Once
	compiled   *jsonschema.Schema
	schemaErr  error
)

// resultSchema compiles the embedded result schema once per process.
func resultSchema() (*jsonschema.Schema, error) {
	schemaOnce.Do(func() {
		compiler := jsonschema.NewCompiler()
		if err := compiler.AddResource("result.schema.json", bytes.NewReader(analysis.SchemaJSON())); err != nil {
			schemaErr = fmt.Errorf("failed to load result schema: %w", err)
			return
		}
		compiled, schemaErr = compiler.Compile("result.schema.json")
	})
	return compiled, schemaErr
}

// ExtractJSONBlock locates the first '{' and the last '}' in raw oracle
// output, discarding any prose around the object. The second return is false
// when no JSON object is present.
func ExtractJSONBlock(raw string) (string, bool) {
	first := strings.Index(raw, "{")
	last := strings.LastIndex(raw, "}")
	if first == -1 || last == -1 || first >= last {
		return "", false
	}
	return raw[first : last+1], true
}

// ParseAndValidate extracts the JSON block from raw output, parses it and
// validates it against the result schema. All failures come back as
// *ValidationError with enough detail to drive a correction prompt.
func ParseAndValidate(raw string) (analysis.Result, *ValidationError) {
	block, ok := ExtractJSONBlock(raw)
	if !ok {
		return analysis.Result{}, &ValidationError{
			Detail: "no JSON object found in response; the response must contain JSON between { and }",
		}
	}

	var doc any
	if err := json.Unmarshal([]byte(block), &doc); err != nil {
		return analysis.Result{}, &ValidationError{
			Detail: fmt.Sprintf("invalid JSON in response: %v; extracted block: %s", err, excerpt(block, 200)),
		}
	}

	schema, err := resultSchema()
	if err != nil {
		// Embedded schema failing to compile is a build defect, not oracle
		// misbehavior, but surfacing it as a validation failure keeps the
		// caller's error handling uniform.
		return analysis.Result{}, &ValidationError{Detail: err.Error()}
	}

	if err := schema.Validate(doc); err != nil {
		return analysis.Result{}, &ValidationError{Detail: formatSchemaError(err)}
	}

	var result analysis.Result
	if err := json.Unmarshal([]byte(block), &result); err != nil {
		return analysis.Result{}, &ValidationError{
			Detail: fmt.Sprintf("JSON does not map onto the result type: %v", err),
		}
	}
	return result, nil
}

// formatSchemaError flattens a jsonschema validation tree into one line per
// failing field, each with its instance path.
func formatSchemaError(err error) string {
	var verr *jsonschema.ValidationError
	if !errors.As(err, &verr) {
		return err.Error()
	}

	var b strings.Builder
	b.WriteString("JSON does not conform to the result schema:")
	for _, cause := range leafCauses(verr) {
		loc := cause.InstanceLocation
		if loc == "" {
			loc = "/"
		}
		fmt.Fprintf(&b, "\n  - %s: %s", loc, cause.Message)
	}
	return b.String()
}

func leafCauses(verr *jsonschema.ValidationError) []*jsonschema.ValidationError {
	if len(verr.Causes) == 0 {
		return []*jsonschema.ValidationError{verr}
	}
	var leaves []*jsonschema.ValidationError
	for _, c := range verr.Causes {
		leaves = append(leaves, leafCauses(c)...)
	}
	return leaves
}

func excerpt(s string, n int) string {
	if len(s) <= n {
		return s
	}
	// Back up to a rune boundary so the cut never splits a character.
	for n > 0 && !utf8.RuneStart(s[n]) {
		n--
	}
	return s[:n] + "..."
}
