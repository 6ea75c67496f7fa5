package main

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/docsift/docsift/internal/export"
	"github.com/docsift/docsift/internal/history"
)

var (
	exportFormat string
	exportOut    string
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export all analysis records to a file",
	Long: `Export the analysis history as JSON or an XLSX workbook.

Without --out the file lands in the home exports directory with a
timestamped name.

Examples:
  docsift export --format xlsx
  docsift export --format json --out records.json`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, h, logger, err := setup()
		if err != nil {
			return err
		}

		store, err := history.Open(historyPath(cfg, h), logger)
		if err != nil {
			return err
		}
		defer store.Close()

		records, err := store.List(cmd.Context())
		if err != nil {
			return err
		}

		var data []byte
		var ext string
		switch exportFormat {
		case "json":
			data, err = export.RecordsJSON(records)
			ext = "json"
		case "xlsx":
			data, err = export.RecordsXLSX(records)
			ext = "xlsx"
		default:
			return fmt.Errorf("unknown export format %q (want json or xlsx)", exportFormat)
		}
		if err != nil {
			return err
		}

		out := exportOut
		if out == "" {
			if err := h.EnsureExists(); err != nil {
				return err
			}
			out = filepath.Join(h.ExportsDir(),
				fmt.Sprintf("records_%s.%s", time.Now().Format("20060102_150405"), ext))
		}

		if err := os.WriteFile(out, data, 0o644); err != nil {
			return fmt.Errorf("write export: %w", err)
		}

		logger.Info("export written", "path", out, "records", len(records), "format", exportFormat)
		cmd.Printf("exported %d records to %s\n", len(records), out)
		return nil
	},
}

func init() {
	exportCmd.Flags().StringVar(&exportFormat, "format", "xlsx", "export format: json or xlsx")
	exportCmd.Flags().StringVar(&exportOut, "out", "", "output file path")

	rootCmd.AddCommand(exportCmd)
}
