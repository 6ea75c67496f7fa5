package extract

import (
	"fmt"
	"os"

	"github.com/docsift/docsift/internal/textnorm"
)

// PlainTextExtractor reads .txt and .md sources as-is, normalizing
// whitespace and control characters.
type PlainTextExtractor struct{}

func (e *PlainTextExtractor) Extract(path string) (*Document, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read text file: %w", err)
	}

	text := textnorm.CleanOCRArtifacts(string(raw))

	return &Document{
		Text: textnorm.Normalize(text, textnorm.Options{}),
		Kind: KindPlainText,
	}, nil
}
