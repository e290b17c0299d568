package ocr

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"

	"github.com/elperroloc0/InvoiceScanner/internal/common"
	"github.com/elperroloc0/InvoiceScanner/internal/entity"
)

// ReadFragmentsFile loads saved engine output: either a JSON array of
// {"text","confidence"} objects or one object per line (JSONL). A missing
// confidence decodes to zero, which the cleaning threshold then filters.
func ReadFragmentsFile(path string) ([]entity.Fragment, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read fragments %s: %w: %v", path, common.ErrInvalidInput, err)
	}
	return DecodeFragments(b)
}

func DecodeFragments(b []byte) ([]entity.Fragment, error) {
	var frags []entity.Fragment
	if err := json.Unmarshal(b, &frags); err == nil {
		return frags, nil
	}

	// JSONL fallback
	dec := json.NewDecoder(bytes.NewReader(b))
	for {
		var f entity.Fragment
		if err := dec.Decode(&f); err != nil {
			break
		}
		frags = append(frags, f)
	}
	if len(frags) == 0 {
		return nil, fmt.Errorf("no fragments decoded: %w", common.ErrInvalidInput)
	}
	return frags, nil
}
