package main

import (
	"encoding/json"

	"github.com/spf13/cobra"

	"github.com/docsift/docsift/internal/history"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Inspect previously analyzed documents",
}

var historyListCmd = &cobra.Command{
	Use:   "list",
	Short: "List analysis records, most recent first",
	Args:  cobra.NoArgs,
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

		if outputFormat == "json" {
			out, err := json.MarshalIndent(records, "", "  ")
			if err != nil {
				return err
			}
			cmd.Println(string(out))
			return nil
		}

		if len(records) == 0 {
			cmd.Println("no records")
			return nil
		}
		cmd.Printf("%-18s %-28s %-22s %-14s %-5s %s\n",
			"ID", "NAME", "TYPE", "STATE", "CONF", "UPDATED")
		for _, rec := range records {
			cmd.Printf("%-18s %-28s %-22s %-14s %-5s %s\n",
				rec.DocumentID,
				rec.Name,
				rec.Result.DocumentType,
				rec.State,
				formatFloat(rec.Result.Confidence),
				rec.UpdatedAt.Format("2006-01-02 15:04"),
			)
		}
		return nil
	},
}

var historyShowCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Show one analysis record",
	Args:  cobra.ExactArgs(1),
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

		rec, err := store.Get(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		return printRecord(cmd, rec)
	},
}

var historyDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete an analysis record",
	Args:  cobra.ExactArgs(1),
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

		if err := store.Delete(cmd.Context(), args[0]); err != nil {
			return err
		}
		cmd.Printf("deleted %s\n", args[0])
		return nil
	},
}

func init() {
	historyCmd.AddCommand(historyListCmd, historyShowCmd, historyDeleteCmd)
	rootCmd.AddCommand(historyCmd)
}
