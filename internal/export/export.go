// Package export renders parsed receipts into the supported save formats.
package export

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"

	"github.com/elperroloc0/InvoiceScanner/constants"
	"github.com/elperroloc0/InvoiceScanner/internal/common"
	"github.com/elperroloc0/InvoiceScanner/internal/entity"
)

// JSON renders the receipts as an indented JSON array.
func JSON(receipts []entity.Receipt) ([]byte, error) {
	if receipts == nil {
		receipts = []entity.Receipt{}
	}
	return json.MarshalIndent(receipts, "", "  ")
}

// JSONL writes one compact JSON document per line, the append-friendly
// format the scan log uses.
func JSONL(w io.Writer, receipts []entity.Receipt) error {
	enc := json.NewEncoder(w)
	for _, r := range receipts {
		if err := enc.Encode(r); err != nil {
			return fmt.Errorf("encode receipt: %w", err)
		}
	}
	return nil
}

// CSV writes one row per item with the receipt's store and total repeated
// on each row. A receipt with no items still gets a row, with N/A in the
// item columns, so the receipt is visible in the sheet.
func CSV(w io.Writer, receipts []entity.Receipt) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"store", "item_name", "price", "total"}); err != nil {
		return err
	}
	for _, r := range receipts {
		total := ""
		if r.Total != nil {
			total = strconv.FormatFloat(*r.Total, 'f', 2, 64)
		}
		if len(r.Items) == 0 {
			if err := cw.Write([]string{r.Store, "N/A", "N/A", total}); err != nil {
				return err
			}
			continue
		}
		for _, it := range r.Items {
			row := []string{
				r.Store,
				it.Name,
				strconv.FormatFloat(it.Price, 'f', 2, 64),
				total,
			}
			if err := cw.Write(row); err != nil {
				return err
			}
		}
	}
	cw.Flush()
	return cw.Error()
}

// Save writes the receipts to path in the format implied by its extension.
// JSONL appends; every other format replaces the file.
func Save(path string, receipts []entity.Receipt, logger *slog.Logger) error {
	if logger == nil {
		logger = slog.Default()
	}
	ext := constants.NormalizeExt(filepath.Ext(path))
	if _, ok := constants.SaveExtensions[ext]; !ok {
		return fmt.Errorf("%w: unsupported save format %q", common.ErrInvalidInput, ext)
	}

	var err error
	switch ext {
	case "json":
		var b []byte
		if b, err = JSON(receipts); err == nil {
			err = os.WriteFile(path, b, 0o644)
		}
	case "jsonl":
		var f *os.File
		f, err = os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err == nil {
			err = JSONL(f, receipts)
			if cerr := f.Close(); err == nil {
				err = cerr
			}
		}
	case "csv":
		var f *os.File
		f, err = os.Create(path)
		if err == nil {
			err = CSV(f, receipts)
			if cerr := f.Close(); err == nil {
				err = cerr
			}
		}
	case "xlsx":
		var b []byte
		if b, err = XLSX(receipts); err == nil {
			err = os.WriteFile(path, b, 0o644)
		}
	}
	if err != nil {
		return fmt.Errorf("save %s: %w", path, err)
	}

	logger.Info("export.save.ok", "path", path, "format", ext, "receipts", len(receipts))
	return nil
}
