package llm

import (
	"context"

	"github.com/elperroloc0/InvoiceScanner/internal/entity"
)

// ExtractRequest carries the full OCR fragment sequence to the vision-model
// fallback, plus whatever hints the pipeline has already gathered.
type ExtractRequest struct {
	Fragments []entity.Fragment

	// AvgConfidence is the aggregate OCR confidence; the model prompt
	// mentions it so the model knows how much to trust the text.
	AvgConfidence float64
}

// ReceiptExtractor is the interface the pipeline depends on. It returns the
// structured receipt plus the raw model JSON for audit logging.
type ReceiptExtractor interface {
	ExtractReceipt(ctx context.Context, req ExtractRequest) (entity.Receipt, []byte, error)
}
