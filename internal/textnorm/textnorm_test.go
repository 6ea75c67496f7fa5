package textnorm

import (
	"strings"
	"testing"
)

func TestNormalizePreservesParagraphs(t *testing.T) {
	raw := "Text   with\n\nmultiple     spaces\n\n\n\nand excess breaks"
	got := Normalize(raw, Options{})
	want := "Text with\n\nmultiple spaces\n\nand excess breaks"
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestNormalizeFlatten(t *testing.T) {
	raw := "line one\nline two\n\nline three"
	got := Normalize(raw, Options{Flatten: true})
	want := "line one line two line three"
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestNormalizeDropsControlCharacters(t *testing.T) {
	raw := "clean\x00text\x07here"
	got := Normalize(raw, Options{})
	if strings.ContainsAny(got, "\x00\x07") {
		t.Errorf("control characters survived: %q", got)
	}
	if got != "cleantexthere" {
		t.Errorf("got %q", got)
	}
}

func TestNormalizeTruncatesAtWordBoundary(t *testing.T) {
	raw := strings.Repeat("word ", 100)
	got := Normalize(raw, Options{MaxLength: 50})
	if len(got) > 53 {
		t.Errorf("length %d exceeds budget: %q", len(got), got)
	}
	if !strings.HasSuffix(got, "...") {
		t.Errorf("missing ellipsis: %q", got)
	}
	if strings.Contains(strings.TrimSuffix(got, "..."), "wor ") {
		t.Errorf("cut mid-word: %q", got)
	}
}

func TestNormalizeEmpty(t *testing.T) {
	if got := Normalize("", Options{}); got != "" {
		t.Errorf("got %q, want empty", got)
	}
}

func TestRemovePageMarkers(t *testing.T) {
	text := "Page one text\n--- Page 1 ---\nPage two text\n--- Page 2 (OCR) ---\nPage three text"
	got := RemovePageMarkers(text)
	if strings.Contains(got, "---") {
		t.Errorf("markers survived: %q", got)
	}
	if !strings.Contains(got, "Page two text") {
		t.Errorf("content lost: %q", got)
	}
}

func TestCleanOCRArtifacts(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"sue|do", "sueldo"},
		{"emp|0yee", "emp|0yee"}, // neither char is flanked by letters on both sides
		{"a||b", "alb"},
		{"wages | salary", "wages | salary"}, // standalone pipe untouched
		{"c0ntract", "cOntract"},
		{"sa1ary", "salary"},
		{"2026", "2026"}, // digits outside words untouched
	}

	for _, tt := range tests {
		if got := CleanOCRArtifacts(tt.in); got != tt.want {
			t.Errorf("CleanOCRArtifacts(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestFirstWords(t *testing.T) {
	text := "one two three four five"
	if got := FirstWords(text, 3); got != "one two three..." {
		t.Errorf("got %q", got)
	}
	if got := FirstWords(text, 10); got != text {
		t.Errorf("short text must pass through, got %q", got)
	}
}
