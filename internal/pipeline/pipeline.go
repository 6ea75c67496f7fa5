// Package pipeline orchestrates the full document analysis: extraction,
// normalization, segmentation, validated generation per chunk, per-chunk
// post-processing, consolidation and document-type refinement. Chunks are
// processed serially so oracle load stays bounded and failures remain
// attributable to a specific chunk. Cancellation is cooperative: the
// context is polled between stages and once per chunk, never mid-call.
package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/docsift/docsift/internal/analysis"
	"github.com/docsift/docsift/internal/classify"
	"github.com/docsift/docsift/internal/consolidate"
	"github.com/docsift/docsift/internal/extract"
	"github.com/docsift/docsift/internal/lang"
	"github.com/docsift/docsift/internal/normalize"
	"github.com/docsift/docsift/internal/oracle"
	"github.com/docsift/docsift/internal/prompt"
	"github.com/docsift/docsift/internal/segment"
	"github.com/docsift/docsift/internal/textnorm"
	"github.com/docsift/docsift/internal/validate"
)

// oracleReadyTimeout bounds how long the pipeline waits for a backend to
// answer its readiness poll before the first chunk is sent.
const oracleReadyTimeout = 30 * time.Second

// Config tunes one pipeline instance. Zero fields fall back to defaults.
type Config struct {
	Model       string
	Temperature float64
	MaxRetries  int
	MaxTokens   int

	// MaxChunkChars is the document length above which segmentation kicks
	// in. Default: 30000.
	MaxChunkChars int
	ChunkSize     int
	ChunkOverlap  int

	Logger *slog.Logger
}

// Pipeline analyzes documents against a generation oracle. Instances hold
// no per-document state; separate documents may be processed concurrently
// by separate calls.
type Pipeline struct {
	gen        oracle.Generator
	builder    *prompt.Builder
	validator  *validate.Generator
	normalizer *normalize.Normalizer
	cfg        Config
	logger     *slog.Logger
}

// New creates a Pipeline around the given oracle.
func New(gen oracle.Generator, cfg Config) *Pipeline {
	if cfg.Model == "" {
		cfg.Model = "llama3.2:3b"
	}
	if cfg.Temperature == 0 {
		cfg.Temperature = 0.2
	}
	if cfg.MaxRetries == 0 {
		cfg.MaxRetries = 2
	}
	if cfg.MaxChunkChars <= 0 {
		cfg.MaxChunkChars = 30000
	}
	if cfg.ChunkSize <= 0 {
		cfg.ChunkSize = segment.DefaultMaxSize
	}
	if cfg.ChunkOverlap <= 0 {
		cfg.ChunkOverlap = segment.DefaultOverlap
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}

	return &Pipeline{
		gen:     gen,
		builder: prompt.New(prompt.Config{MaxTokens: cfg.MaxTokens}),
		validator: validate.NewGenerator(gen, validate.Config{
			Model:       cfg.Model,
			Temperature: cfg.Temperature,
			MaxRetries:  cfg.MaxRetries,
		}, cfg.Logger),
		normalizer: normalize.New(normalize.Config{}),
		cfg:        cfg,
		logger:     cfg.Logger,
	}
}

// AnalyzeFile runs the whole pipeline for a source file and returns its
// finished record.
func (p *Pipeline) AnalyzeFile(ctx context.Context, path string) (*Record, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("analysis cancelled: %w", err)
	}

	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("stat source: %w", err)
	}

	p.logger.Info("starting analysis", "file", filepath.Base(path), "size_bytes", info.Size())

	extractor, err := extract.FromPath(path)
	if err != nil {
		return nil, err
	}
	doc, err := extractor.Extract(path)
	if err != nil {
		return nil, fmt.Errorf("extraction failed: %w", err)
	}
	if doc.Text == "" {
		return nil, fmt.Errorf("extracted text is empty for %s", filepath.Base(path))
	}

	id, err := extract.DocumentID(path)
	if err != nil {
		return nil, err
	}

	result, chunkCount, err := p.AnalyzeText(ctx, doc.Text)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	rec := &Record{
		DocumentID: id,
		Name:       filepath.Base(path),
		SourceKind: doc.Kind,
		Source:     doc.Kind.String(),
		Pages:      doc.PageCount,
		SizeBytes:  info.Size(),
		Language:   lang.Detect(doc.Text, 0),
		ChunkCount: chunkCount,
		Result:     result,
		State:      StateFor(result).String(),
		Text:       doc.Text,
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	p.logger.Info("analysis complete",
		"file", rec.Name,
		"document_id", rec.DocumentID,
		"type", result.DocumentType,
		"confidence", result.Confidence,
		"state", rec.State,
		"chunks", chunkCount,
	)
	return rec, nil
}

// AnalyzeText analyzes already-extracted text and returns the consolidated
// result plus the number of chunks processed.
func (p *Pipeline) AnalyzeText(ctx context.Context, text string) (analysis.Result, int, error) {
	if err := ctx.Err(); err != nil {
		return analysis.Result{}, 0, fmt.Errorf("analysis cancelled: %w", err)
	}

	normalized := textnorm.Normalize(text, textnorm.Options{})

	var chunks []string
	if len(normalized) > p.cfg.MaxChunkChars {
		chunks = segment.Split(normalized, p.cfg.ChunkSize, p.cfg.ChunkOverlap)
		p.logger.Info("document segmented", "chars", len(normalized), "chunks", len(chunks))
	} else {
		chunks = []string{normalized}
	}

	// Backends that can wait for readiness get polled until they answer or
	// the timeout elapses; backends with only a one-shot probe get that.
	switch g := p.gen.(type) {
	case interface {
		WaitReady(context.Context, time.Duration) error
	}:
		if err := g.WaitReady(ctx, oracleReadyTimeout); err != nil {
			return analysis.Result{}, 0, fmt.Errorf("oracle not ready: %w", err)
		}
	case interface{ Healthy(context.Context) bool }:
		if !g.Healthy(ctx) {
			return analysis.Result{}, 0, fmt.Errorf("%w: %s did not answer the health probe",
				oracle.ErrUnavailable, p.gen.Name())
		}
	}

	results := make([]analysis.Result, 0, len(chunks))
	for i, chunk := range chunks {
		if err := ctx.Err(); err != nil {
			return analysis.Result{}, 0, fmt.Errorf("analysis cancelled at chunk %d/%d: %w", i+1, len(chunks), err)
		}

		promptText, truncated, err := p.builder.Build(chunk)
		if err != nil {
			return analysis.Result{}, 0, fmt.Errorf("chunk %d/%d: %w", i+1, len(chunks), err)
		}
		if truncated {
			p.logger.Warn("chunk truncated to fit prompt budget", "chunk", i+1, "chars", len(chunk))
		}

		res, attempts, err := p.validator.Generate(ctx, promptText)
		if err != nil {
			return analysis.Result{}, 0, fmt.Errorf("chunk %d/%d: %w", i+1, len(chunks), err)
		}
		p.logger.Debug("chunk analyzed",
			"chunk", i+1, "of", len(chunks), "attempts", attempts,
			"preview", textnorm.FirstWords(chunk, 8))

		results = append(results, p.normalizer.Apply(res, chunk))
	}

	final, err := consolidate.Consolidate(results)
	if err != nil {
		return analysis.Result{}, 0, err
	}

	if err := ctx.Err(); err != nil {
		return analysis.Result{}, 0, fmt.Errorf("analysis cancelled: %w", err)
	}

	// Cross-check the oracle's document type against keyword heuristics
	// over the full text.
	if refined, conf := classify.Refine(final.DocumentType, normalized); refined != final.DocumentType {
		p.logger.Info("document type refined", "from", final.DocumentType, "to", refined, "confidence", conf)
		final.DocumentType = refined
		final.Confidence = conf
	}

	return final, len(chunks), nil
}
