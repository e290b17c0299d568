package export

import (
	"fmt"
	"strconv"

	"github.com/xuri/excelize/v2"

	"github.com/elperroloc0/InvoiceScanner/internal/entity"
)

// XLSX returns a workbook with one row per item, mirroring the CSV layout.
func XLSX(receipts []entity.Receipt) ([]byte, error) {
	f := excelize.NewFile()
	const sheet = "Receipts"
	if index, _ := f.GetSheetIndex(sheet); index == -1 {
		if _, err := f.NewSheet(sheet); err != nil {
			return nil, err
		}
	}
	activeIndex, _ := f.GetSheetIndex(sheet)
	f.SetActiveSheet(activeIndex)

	headers := []string{"Store", "Item", "Price", "Total"}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		_ = f.SetCellValue(sheet, cell, h)
	}

	write := func(col, row int, v any) {
		cell, _ := excelize.CoordinatesToCellName(col, row)
		_ = f.SetCellValue(sheet, cell, v)
	}

	row := 2
	for _, r := range receipts {
		total := ""
		if r.Total != nil {
			total = strconv.FormatFloat(*r.Total, 'f', 2, 64)
		}
		if len(r.Items) == 0 {
			write(1, row, r.Store)
			write(2, row, "N/A")
			write(3, row, "N/A")
			write(4, row, total)
			row++
			continue
		}
		for _, it := range r.Items {
			write(1, row, r.Store)
			write(2, row, it.Name)
			write(3, row, it.Price)
			write(4, row, total)
			row++
		}
	}

	_ = f.SetColWidth(sheet, "A", "A", 22) // store
	_ = f.SetColWidth(sheet, "B", "B", 32) // item
	_ = f.SetColWidth(sheet, "C", "D", 12) // amounts

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("xlsx write: %w", err)
	}
	return buf.Bytes(), nil
}
