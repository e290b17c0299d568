package main

import (
	"fmt"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"github.com/elperroloc0/InvoiceScanner/internal/common"
	"github.com/elperroloc0/InvoiceScanner/internal/entity"
	"github.com/elperroloc0/InvoiceScanner/internal/export"
)

var (
	exportOutPath string
	exportLimit   int
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export stored receipts (format inferred from the output extension)",
	RunE:  runExport,
}

func init() {
	exportCmd.Flags().StringVarP(&exportOutPath, "out", "o", "receipts.csv", "output path; extension selects json, jsonl, csv, or xlsx")
	exportCmd.Flags().IntVarP(&exportLimit, "limit", "n", 0, "export at most this many recent scans (0 = all stored)")
}

func runExport(cmd *cobra.Command, _ []string) error {
	logger := newLogger()
	cfg := common.LoadConfig()

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()

	store, err := openStore(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	recs, err := store.List(ctx, exportLimit)
	if err != nil {
		return err
	}
	receipts := make([]entity.Receipt, 0, len(recs))
	for _, rec := range recs {
		receipts = append(receipts, rec.Receipt)
	}

	if err := export.Save(exportOutPath, receipts, logger); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "exported %d receipts to %s\n", len(receipts), exportOutPath)
	return nil
}
