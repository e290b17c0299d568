package main

import (
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/elperroloc0/InvoiceScanner/internal/common"
	"github.com/elperroloc0/InvoiceScanner/internal/entity"
	"github.com/elperroloc0/InvoiceScanner/internal/export"
	"github.com/elperroloc0/InvoiceScanner/internal/ocr"
	"github.com/elperroloc0/InvoiceScanner/internal/pipeline"
	"github.com/elperroloc0/InvoiceScanner/internal/repository"
)

var (
	scanSavePath string
	scanAsJSON   bool
	scanPersist  bool
)

var scanCmd = &cobra.Command{
	Use:   "scan <file>",
	Short: "Parse one receipt file (image, PDF, or fragment JSON/JSONL)",
	Args:  cobra.ExactArgs(1),
	RunE:  runScan,
}

func init() {
	scanCmd.Flags().StringVarP(&scanSavePath, "save", "s", "", "also save the receipt to this path (json, jsonl, csv, or xlsx)")
	scanCmd.Flags().BoolVar(&scanAsJSON, "json", false, "print the full scan result as JSON instead of a table")
	scanCmd.Flags().BoolVar(&scanPersist, "store", false, "persist the scan in the configured database")
}

func runScan(cmd *cobra.Command, args []string) error {
	logger := newLogger()
	cfg := common.LoadConfig()

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()

	extractor := ocr.NewExtractor(ocr.Config{
		Tesseract:     cfg.OCR.Tesseract,
		TesseractLang: cfg.OCR.TesseractLang,
		PSM:           cfg.OCR.PSM,
	}, logger)

	frags, err := extractor.Extract(ctx, args[0])
	if err != nil {
		return err
	}

	res, err := buildProcessor(cfg, logger).Process(ctx, frags)
	if err != nil {
		return err
	}

	if res.AvgConfidence < cfg.Parser.AdvisoryBelow {
		fmt.Fprintf(cmd.ErrOrStderr(),
			"warning: average OCR confidence %.2f is low; extracted values may be unreliable\n",
			res.AvgConfidence)
	}

	if scanAsJSON {
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		if err := enc.Encode(res); err != nil {
			return err
		}
	} else {
		printReceipt(cmd, res)
	}

	if scanSavePath != "" {
		if err := export.Save(scanSavePath, []entity.Receipt{res.Receipt}, logger); err != nil {
			return err
		}
	}

	if scanPersist {
		store, err := openStore(ctx, cfg, logger)
		if err != nil {
			return err
		}
		defer func() { _ = store.Close() }()
		rec := &repository.ScanRecord{
			ID:            res.JobID,
			Receipt:       res.Receipt,
			Source:        res.Source,
			AvgConfidence: res.AvgConfidence,
		}
		if err := store.Save(ctx, rec); err != nil {
			return err
		}
	}
	return nil
}

func printReceipt(cmd *cobra.Command, res pipeline.ScanResult) {
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Store: %s  (source: %s, ocr confidence: %.2f)\n\n", res.Receipt.Store, res.Source, res.AvgConfidence)

	w := tabwriter.NewWriter(out, 2, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ITEM\tPRICE\tDETAILS")
	for _, it := range res.Receipt.Items {
		fmt.Fprintf(w, "%s\t%.2f\t%s\n", it.Name, it.Price, itemDetails(it))
	}
	_ = w.Flush()

	if res.Receipt.Total != nil {
		fmt.Fprintf(out, "\nTotal: %.2f\n", *res.Receipt.Total)
	} else {
		fmt.Fprintln(out, "\nTotal: unknown")
	}
}

func itemDetails(it entity.Item) string {
	switch {
	case it.Voided:
		return "voided"
	case it.Deal != nil:
		if it.Deal.UnitPrice != nil {
			return fmt.Sprintf("%d for %.2f each", it.Deal.Qty, *it.Deal.UnitPrice)
		}
		return fmt.Sprintf("%d for deal", it.Deal.Qty)
	case it.Unit != "":
		return fmt.Sprintf("%s %s @ %.2f", strconv.FormatFloat(it.Quantity, 'f', -1, 64), it.Unit, it.UnitPrice)
	case it.Quantity > 0:
		return fmt.Sprintf("%s @ %.2f", strconv.FormatFloat(it.Quantity, 'f', -1, 64), it.UnitPrice)
	default:
		return ""
	}
}
