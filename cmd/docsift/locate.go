package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/docsift/docsift/internal/citation"
	"github.com/docsift/docsift/internal/extract"
	"github.com/docsift/docsift/internal/history"
)

var (
	locateID        string
	locateThreshold float64
	locateContext   int
)

var locateCmd = &cobra.Command{
	Use:   "locate [file] <phrase>...",
	Short: "Locate phrases in a document and print their citations",
	Long: `Locate one or more phrases in a document using fuzzy matching and
print the line numbers and surrounding snippets.

The document comes either from a file argument or, with --id, from the
text stored with a previous analysis.

Examples:
  docsift locate contract.txt "base salary" "non-compete"
  docsift locate --id ab12cd34ef567890 "30 days of vacation"
  docsift locate contract.pdf "termination" --threshold 0.6`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		cfg, h, logger, err := setup()
		if err != nil {
			return err
		}

		var text string
		var phrases []string

		if locateID != "" {
			store, err := history.Open(historyPath(cfg, h), logger)
			if err != nil {
				return err
			}
			defer store.Close()

			rec, err := store.Get(ctx, locateID)
			if err != nil {
				return err
			}
			if rec.Text == "" {
				return fmt.Errorf("record %s has no stored document text", locateID)
			}
			text = rec.Text
			phrases = args
		} else {
			if len(args) < 2 {
				return fmt.Errorf("need a file and at least one phrase")
			}
			extractor, err := extract.FromPath(args[0])
			if err != nil {
				return err
			}
			doc, err := extractor.Extract(args[0])
			if err != nil {
				return err
			}
			text = doc.Text
			phrases = args[1:]
		}

		threshold := cfg.Citation.Threshold
		if cmd.Flags().Changed("threshold") {
			threshold = locateThreshold
		}
		contextLines := cfg.Citation.ContextLines
		if cmd.Flags().Changed("context") {
			contextLines = locateContext
		}

		mapper := citation.New(citation.Config{
			Threshold:    threshold,
			ContextLines: contextLines,
		})
		entries := mapper.Map(phrases, text)

		if outputFormat == "json" {
			out, err := json.MarshalIndent(entries, "", "  ")
			if err != nil {
				return err
			}
			cmd.Println(string(out))
			return nil
		}

		cmd.Print(citation.Report(entries))
		return nil
	},
}

func init() {
	locateCmd.Flags().StringVar(&locateID, "id", "", "locate in the stored text of a history record")
	locateCmd.Flags().Float64Var(&locateThreshold, "threshold", citation.DefaultThreshold,
		"minimum similarity for a match")
	locateCmd.Flags().IntVar(&locateContext, "context", citation.DefaultContextLines,
		"context lines around each snippet")

	rootCmd.AddCommand(locateCmd)
}
