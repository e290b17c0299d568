package ocr

import "github.com/elperroloc0/InvoiceScanner/internal/entity"

// AverageConfidence returns the mean confidence over all fragments, 0 for an
// empty sequence. Low aggregate confidence is an advisory for the caller,
// never a parse error.
func AverageConfidence(frags []entity.Fragment) float64 {
	if len(frags) == 0 {
		return 0
	}
	var sum float64
	for _, f := range frags {
		sum += f.Confidence
	}
	return sum / float64(len(frags))
}
