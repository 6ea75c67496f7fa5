package main

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/docsift/docsift/internal/config"
	"github.com/docsift/docsift/internal/home"
	"github.com/docsift/docsift/internal/oracle"
	"github.com/docsift/docsift/version"
)

var (
	cfgFile      string
	homeDir      string
	outputFormat string
)

var rootCmd = &cobra.Command{
	Use:   "docsift",
	Short: "Document analysis pipeline with LLM-powered structuring and citation mapping",
	Long: `Docsift extracts structured records from legal and administrative
documents using a local or remote LLM, validates and consolidates the
output, and maps extracted phrases back to their source lines.

The pipeline includes:
  - Text and PDF extraction with OCR artifact cleanup
  - Schema-validated generation with corrective retries
  - Chunked analysis of long documents with consolidation
  - Fuzzy citation mapping from phrases to document lines`,
	Version: version.GitRelease,
}

func init() {
	rootCmd.PersistentFlags().StringVar(
		&cfgFile, "config", "", "config file (default: ./config.yaml or ~/.docsift/config.yaml)",
	)
	rootCmd.PersistentFlags().StringVar(
		&homeDir, "home", "", "docsift home directory (default: ~/.docsift)",
	)
	rootCmd.PersistentFlags().StringVarP(
		&outputFormat, "output", "o", "text", "output format: text or json",
	)

	rootCmd.AddCommand(versionCmd)
}

// setup resolves the home directory and loads configuration. The config
// file flag wins over the home directory's config.yaml.
func setup() (*config.Config, *home.Dir, *slog.Logger, error) {
	h, err := home.New(homeDir)
	if err != nil {
		return nil, nil, nil, err
	}

	path := cfgFile
	if path == "" && h.ConfigExists() {
		path = h.ConfigPath()
	}

	mgr, err := config.NewManager(path)
	if err != nil {
		return nil, nil, nil, err
	}
	cfg := mgr.Get()

	return cfg, h, newLogger(cfg.Logging), nil
}

func newLogger(cfg config.LoggingCfg) *slog.Logger {
	var level slog.Level
	switch cfg.Level {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{Level: level}
	if cfg.Format == "json" {
		return slog.New(slog.NewJSONHandler(os.Stderr, opts))
	}
	return slog.New(slog.NewTextHandler(os.Stderr, opts))
}

// newGenerator builds the configured oracle backend.
func newGenerator(cfg *config.Config, logger *slog.Logger) (oracle.Generator, error) {
	timeout := time.Duration(cfg.Oracle.TimeoutSeconds) * time.Second

	switch cfg.Oracle.Provider {
	case oracle.OllamaName:
		return oracle.NewOllamaClient(oracle.OllamaConfig{
			Endpoint: cfg.Oracle.Endpoint,
			Timeout:  timeout,
			Logger:   logger,
		}), nil
	case oracle.OpenAIName:
		return oracle.NewOpenAIClient(oracle.OpenAIConfig{
			APIKey:  cfg.ResolveAPIKey(),
			Timeout: timeout,
		}), nil
	default:
		return nil, fmt.Errorf("unknown oracle provider %q (want %q or %q)",
			cfg.Oracle.Provider, oracle.OllamaName, oracle.OpenAIName)
	}
}

func historyPath(cfg *config.Config, h *home.Dir) string {
	if cfg.History.Path != "" {
		return cfg.History.Path
	}
	return h.HistoryPath()
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', 2, 64)
}
