package ocr

import (
	"fmt"

	"github.com/ledongthuc/pdf"

	"github.com/elperroloc0/InvoiceScanner/internal/common"
	"github.com/elperroloc0/InvoiceScanner/internal/entity"
)

// extractPDF reads embedded text rows from a digital PDF receipt. Text that
// is already machine-encoded needs no recognition step, so every fragment
// carries full confidence.
func extractPDF(path string) ([]entity.Fragment, error) {
	f, r, err := pdf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open pdf %s: %w: %v", path, common.ErrImageUnreadable, err)
	}
	defer f.Close()

	var frags []entity.Fragment
	for pageNum := 1; pageNum <= r.NumPage(); pageNum++ {
		page := r.Page(pageNum)
		if page.V.IsNull() {
			continue
		}
		rows, err := page.GetTextByRow()
		if err != nil {
			continue
		}
		for _, row := range rows {
			var line string
			for _, word := range row.Content {
				if line != "" {
					line += " "
				}
				line += word.S
			}
			if line == "" {
				continue
			}
			frags = append(frags, entity.Fragment{Text: line, Confidence: 1.0})
		}
	}
	if len(frags) == 0 {
		return nil, fmt.Errorf("no text in pdf %s: %w", path, common.ErrOCRFailed)
	}
	return frags, nil
}
