package ocr

import (
	"strconv"
	"strings"

	"github.com/elperroloc0/InvoiceScanner/internal/entity"
)

// parseTSV turns tesseract TSV output into fragments, one per detected
// line. Word confidences (0..100, -1 for structural rows) are averaged and
// scaled into [0,1].
func parseTSV(out string) []entity.Fragment {
	type lineKey struct{ block, par, line int }

	var order []lineKey
	words := make(map[lineKey][]string)
	confs := make(map[lineKey][]float64)

	rows := strings.Split(out, "\n")
	for i, row := range rows {
		if i == 0 || strings.TrimSpace(row) == "" {
			// header or trailing blank
			continue
		}
		cols := strings.Split(row, "\t")
		if len(cols) < 12 {
			continue
		}
		conf, err := strconv.ParseFloat(cols[10], 64)
		if err != nil || conf < 0 {
			continue
		}
		text := strings.TrimSpace(cols[11])
		if text == "" {
			continue
		}
		block, _ := strconv.Atoi(cols[2])
		par, _ := strconv.Atoi(cols[3])
		line, _ := strconv.Atoi(cols[4])
		k := lineKey{block, par, line}
		if _, seen := words[k]; !seen {
			order = append(order, k)
		}
		words[k] = append(words[k], text)
		confs[k] = append(confs[k], conf)
	}

	frags := make([]entity.Fragment, 0, len(order))
	for _, k := range order {
		var sum float64
		for _, c := range confs[k] {
			sum += c
		}
		frags = append(frags, entity.Fragment{
			Text:       strings.Join(words[k], " "),
			Confidence: sum / float64(len(confs[k])) / 100,
		})
	}
	return frags
}
