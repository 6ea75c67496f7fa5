package main

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/docsift/docsift/internal/history"
	"github.com/docsift/docsift/internal/lang"
	"github.com/docsift/docsift/internal/pipeline"
)

var (
	analyzeModel  string
	analyzeNoSave bool
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze <file>",
	Short: "Analyze a document and extract its structured record",
	Long: `Analyze a text, markdown or PDF document.

The document is normalized, segmented if long, sent to the configured
LLM chunk by chunk, and the per-chunk results are consolidated into one
record. The record is saved to the analysis history unless --no-save is
given.

Examples:
  docsift analyze contract.pdf
  docsift analyze contract.txt --model llama3.2:3b
  docsift analyze contract.txt -o json --no-save`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		cfg, h, logger, err := setup()
		if err != nil {
			return err
		}

		gen, err := newGenerator(cfg, logger)
		if err != nil {
			return err
		}

		model := cfg.Oracle.Model
		if analyzeModel != "" {
			model = analyzeModel
		}

		p := pipeline.New(gen, pipeline.Config{
			Model:         model,
			Temperature:   cfg.Oracle.Temperature,
			MaxRetries:    cfg.Analysis.MaxRetries,
			MaxTokens:     cfg.Analysis.MaxTokens,
			MaxChunkChars: cfg.Analysis.MaxChunkChars,
			ChunkSize:     cfg.Analysis.ChunkSize,
			ChunkOverlap:  cfg.Analysis.ChunkOverlap,
			Logger:        logger,
		})

		rec, err := p.AnalyzeFile(ctx, args[0])
		if err != nil {
			return err
		}

		if !analyzeNoSave {
			if err := h.EnsureExists(); err != nil {
				return err
			}
			store, err := history.Open(historyPath(cfg, h), logger)
			if err != nil {
				return err
			}
			defer store.Close()
			if err := store.Save(ctx, rec); err != nil {
				return err
			}
		}

		return printRecord(cmd, rec)
	},
}

func printRecord(cmd *cobra.Command, rec *pipeline.Record) error {
	if outputFormat == "json" {
		out, err := json.MarshalIndent(rec, "", "  ")
		if err != nil {
			return err
		}
		cmd.Println(string(out))
		return nil
	}

	r := rec.Result
	cmd.Printf("Document:   %s (%s)\n", rec.Name, rec.DocumentID)
	cmd.Printf("Type:       %s\n", r.DocumentType)
	cmd.Printf("State:      %s\n", rec.State)
	cmd.Printf("Language:   %s\n", lang.Name(rec.Language))
	cmd.Printf("Confidence: %s\n", formatFloat(r.Confidence))
	cmd.Printf("Chunks:     %d\n", rec.ChunkCount)

	if len(r.Parties) > 0 {
		cmd.Printf("\nParties:\n")
		for _, p := range r.Parties {
			cmd.Printf("  - %s\n", p)
		}
	}
	if len(r.Dates) > 0 {
		cmd.Printf("\nDates:\n")
		for _, d := range r.Dates {
			cmd.Printf("  - %s: %s\n", d.Label, d.Value)
		}
	}
	if len(r.Amounts) > 0 {
		cmd.Printf("\nAmounts:\n")
		for _, a := range r.Amounts {
			line := a.Concept
			if a.Value != nil {
				line += fmt.Sprintf(": %v", *a.Value)
			}
			if a.Currency != nil {
				line += " " + *a.Currency
			}
			cmd.Printf("  - %s\n", line)
		}
	}
	for _, section := range []struct {
		name  string
		items []string
	}{
		{"Obligations", r.Obligations},
		{"Rights", r.Rights},
		{"Risks", r.Risks},
		{"Summary", r.SummaryBullets},
		{"Notes", r.Notes},
	} {
		if len(section.items) == 0 {
			continue
		}
		cmd.Printf("\n%s:\n", section.name)
		for _, item := range section.items {
			cmd.Printf("  - %s\n", item)
		}
	}
	if len(r.Notes) == 0 && strings.TrimSpace(r.DocumentType) == "" {
		cmd.Println("\n(no content extracted)")
	}
	return nil
}

func init() {
	analyzeCmd.Flags().StringVar(&analyzeModel, "model", "", "override the configured model")
	analyzeCmd.Flags().BoolVar(&analyzeNoSave, "no-save", false, "do not record the result in history")

	rootCmd.AddCommand(analyzeCmd)
}
