// Package extract turns source files into raw text for the analysis
// pipeline. Each supported source kind has its own extractor; FromPath
// picks one by file extension.
package extract

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// SourceKind identifies the kind of source a document came from.
type SourceKind int

const (
	KindUnknown SourceKind = iota
	KindPlainText
	KindPDF
)

// String returns the stable name of the kind, used in records and exports.
func (k SourceKind) String() string {
	switch k {
	case KindPlainText:
		return "text"
	case KindPDF:
		return "pdf"
	default:
		return "unknown"
	}
}

// ErrUnsupportedSource is returned for file types no extractor handles.
var ErrUnsupportedSource = errors.New("unsupported source type")

// Document is the result of extraction: the raw text plus whatever source
// metadata the extractor could determine. PageCount is zero when the source
// has no page concept.
type Document struct {
	Text      string
	PageCount int
	Kind      SourceKind
}

// Extractor produces a Document from a source file.
type Extractor interface {
	Extract(path string) (*Document, error)
}

// KindOf maps a file path to its source kind by extension.
func KindOf(path string) SourceKind {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".txt", ".md":
		return KindPlainText
	case ".pdf":
		return KindPDF
	default:
		return KindUnknown
	}
}

// FromPath returns the extractor for a file, or ErrUnsupportedSource.
func FromPath(path string) (Extractor, error) {
	switch KindOf(path) {
	case KindPlainText:
		return &PlainTextExtractor{}, nil
	case KindPDF:
		return &PDFExtractor{}, nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedSource, filepath.Ext(path))
	}
}

// DocumentID computes the stable content identifier for a file: the
// SHA-256 of its bytes, truncated to 16 hex characters. The same file
// always yields the same ID, which is what keys the history store.
func DocumentID(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("open for hashing: %w", err)
	}
	defer f.Close()

	h := sha256.New()
	if _, err := io.Copy(h, f); err != nil {
		return "", fmt.Errorf("hash %s: %w", path, err)
	}
	return hex.EncodeToString(h.Sum(nil))[:16], nil
}
