package validate

import (
	"context"
	"errors"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/docsift/docsift/internal/oracle"
)

func TestGeneratorFirstAttemptSuccess(t *testing.T) {
	mock := oracle.NewMockGenerator(validResultJSON)
	gen := NewGenerator(mock, Config{Model: "m", Temperature: 0.2, MaxRetries: 2}, nil)

	result, attempts, err := gen.Generate(context.Background(), "analyze the document")
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}
	if attempts != 1 {
		t.Errorf("attempts = %d, want 1", attempts)
	}
	if result.DocumentType != "employment_contract" {
		t.Errorf("document type = %q", result.DocumentType)
	}
}

func TestGeneratorRecoversOnSecondAttempt(t *testing.T) {
	mock := oracle.NewMockGenerator("this is not json at all", validResultJSON)
	gen := NewGenerator(mock, Config{Model: "m", MaxRetries: 2}, nil)

	result, attempts, err := gen.Generate(context.Background(), "analyze: "+strings.Repeat("clause text ", 200))
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}
	if attempts != 2 {
		t.Errorf("attempts = %d, want 2", attempts)
	}
	if result.Confidence != 0.9 {
		t.Errorf("confidence = %v", result.Confidence)
	}

	prompts := mock.Prompts()
	if len(prompts) != 2 {
		t.Fatalf("expected 2 oracle calls, got %d", len(prompts))
	}
	correction := prompts[1]
	if !strings.Contains(correction, "no JSON object found") {
		t.Error("correction prompt missing the prior validation error")
	}
	if !strings.Contains(correction, `"document_type": "string"`) {
		t.Error("correction prompt missing the schema restatement")
	}
	if !strings.Contains(correction, "clause text") {
		t.Error("correction prompt missing the document tail")
	}
	if strings.Contains(correction, "analyze: clause") && len(prompts[0]) > documentTailChars {
		t.Error("correction prompt should carry only the tail of a long prompt")
	}
}

func TestCorrectionPromptTailIsValidUTF8(t *testing.T) {
	// One ASCII byte followed by three-byte runes lands the tail cut in the
	// middle of a rune.
	prompt := "a" + strings.Repeat("€", 400)
	verr := &ValidationError{Detail: "no JSON object found in response"}

	correction := correctionPrompt(prompt, verr)
	if !utf8.ValidString(correction) {
		t.Fatal("correction prompt contains invalid UTF-8")
	}
	if !strings.Contains(correction, "€") {
		t.Error("correction prompt lost the document tail")
	}
}

func TestGeneratorExhaustsRetries(t *testing.T) {
	mock := oracle.NewMockGenerator("garbage")
	gen := NewGenerator(mock, Config{Model: "m", MaxRetries: 2}, nil)

	_, attempts, err := gen.Generate(context.Background(), "prompt")
	if err == nil {
		t.Fatal("expected terminal error")
	}
	if attempts != 3 {
		t.Errorf("attempts = %d, want max_retries+1 = 3", attempts)
	}

	var exhausted *RetryExhaustedError
	if !errors.As(err, &exhausted) {
		t.Fatalf("expected *RetryExhaustedError, got %T", err)
	}
	if exhausted.Attempts != 3 {
		t.Errorf("exhausted.Attempts = %d", exhausted.Attempts)
	}
	if exhausted.Last == nil || !strings.Contains(exhausted.Last.Detail, "no JSON object found") {
		t.Error("terminal error must carry the last validation failure")
	}
	if mock.CallCount() != 3 {
		t.Errorf("oracle called %d times, want 3", mock.CallCount())
	}
}

func TestGeneratorConnectivityErrorNotRetried(t *testing.T) {
	mock := oracle.NewMockGenerator("unused")
	mock.Err = oracle.ErrUnavailable
	gen := NewGenerator(mock, Config{Model: "m", MaxRetries: 2}, nil)

	_, attempts, err := gen.Generate(context.Background(), "prompt")
	if !errors.Is(err, oracle.ErrUnavailable) {
		t.Fatalf("expected ErrUnavailable, got %v", err)
	}
	if attempts != 1 {
		t.Errorf("attempts = %d, connectivity failures must not be retried", attempts)
	}
	if mock.CallCount() != 1 {
		t.Errorf("oracle called %d times, want 1", mock.CallCount())
	}

	var exhausted *RetryExhaustedError
	if errors.As(err, &exhausted) {
		t.Error("connectivity failure must not be reported as retry exhaustion")
	}
}
