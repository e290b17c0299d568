// Command invoicescan turns receipt scans into structured data: scan parses
// a single file, export dumps stored receipts, serve runs the HTTP API.
package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/elperroloc0/InvoiceScanner/internal/common"
	"github.com/elperroloc0/InvoiceScanner/internal/llm"
	"github.com/elperroloc0/InvoiceScanner/internal/llm/openai"
	"github.com/elperroloc0/InvoiceScanner/internal/parser"
	"github.com/elperroloc0/InvoiceScanner/internal/pipeline"
	"github.com/elperroloc0/InvoiceScanner/internal/repository"
	"github.com/elperroloc0/InvoiceScanner/internal/template"
)

var verbose bool

var rootCmd = &cobra.Command{
	Use:   "invoicescan",
	Short: "Parse retail receipts from OCR fragments into structured data",
	Long: `invoicescan converts noisy OCR output from photographed retail receipts
into structured {store, items, total} records. Input can be a receipt
image (runs tesseract), a PDF, or a JSON/JSONL fragment dump.`,
	SilenceUsage: true,
}

func Execute() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
	rootCmd.AddCommand(scanCmd, exportCmd, serveCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func newLogger() *slog.Logger {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

// openStore picks Postgres when a DSN is configured, otherwise the local
// SQLite file.
func openStore(ctx context.Context, cfg *common.Config, logger *slog.Logger) (repository.ReceiptStore, error) {
	if cfg.Database.PostgresDSN != "" {
		return repository.OpenPostgres(ctx, repository.PostgresConfig{
			DSN:             cfg.Database.PostgresDSN,
			MaxConns:        cfg.Database.MaxConns,
			MinConns:        cfg.Database.MinConns,
			MaxConnLifetime: cfg.Database.MaxConnLifetime,
			MaxConnIdleTime: cfg.Database.MaxConnIdleTime,
			DialTimeout:     cfg.Database.DialTimeout,
		}, logger)
	}
	return repository.OpenSQLite(cfg.Database.SQLitePath, logger)
}

// buildProcessor wires the template registry and, when an API key is
// configured, the vision-model fallback.
func buildProcessor(cfg *common.Config, logger *slog.Logger) *pipeline.Processor {
	var vision llm.ReceiptExtractor
	if cfg.LLM.APIKey != "" {
		vision = openai.NewClient(openai.Config{
			APIKey:      cfg.LLM.APIKey,
			BaseURL:     cfg.LLM.BaseURL,
			Model:       cfg.LLM.Model,
			Temperature: cfg.LLM.Temperature,
			Timeout:     cfg.LLM.Timeout,
		}, logger)
	}
	engine := parser.New(parser.Config{MinConfidence: cfg.Parser.MinConfidence}, logger)
	registry := template.NewRegistry(template.NewPublix(engine))
	return pipeline.New(pipeline.Config{HeaderShare: cfg.OCR.HeaderShare}, registry, engine, vision, logger)
}
