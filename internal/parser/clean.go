package parser

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/elperroloc0/InvoiceScanner/internal/entity"
)

// DefaultMinConfidence is the acceptance threshold for name-like fragments.
// Prices are cheap to validate syntactically, so they are kept regardless.
const DefaultMinConfidence = 0.30

// CleanLines filters raw OCR fragments down to candidate lines: noise tokens
// and savings banners are dropped; a fragment survives if it carries a price,
// clears the confidence threshold, or is a plausible item name with at least
// weak confidence. Split price digits are merged afterwards.
func (l *Lexicon) CleanLines(frags []entity.Fragment, minConfidence float64) []string {
	lines := make([]string, 0, len(frags))
	for _, f := range frags {
		text := Normalize(f.Text)
		if text == "" {
			continue
		}
		if l.IsNoiseToken(text) || IsYouSaved(text) {
			continue
		}
		if PriceFrom(text) != nil ||
			f.Confidence >= minConfidence ||
			(f.Confidence >= 0.12 && l.LooksLikeItemName(text)) {
			lines = append(lines, text)
		}
	}
	return mergeSplitPrices(lines)
}

// mergeSplitPrices fuses a 1-2 digit line followed by an exactly-2-digit line
// into one "D.DD" token ("3" + "49" -> "3.49"). Three leading digits never
// qualify; those are addresses and phone numbers, not dollars.
func mergeSplitPrices(lines []string) []string {
	out := make([]string, 0, len(lines))
	for i := 0; i < len(lines); {
		a := Normalize(lines[i])
		if reDigits.MatchString(a) && len(a) <= 2 && i+1 < len(lines) {
			b := Normalize(lines[i+1])
			if reDigits.MatchString(b) && len(b) == 2 {
				n, _ := strconv.Atoi(a)
				out = append(out, fmt.Sprintf("%d.%s", n, b))
				i += 2
				continue
			}
		}
		out = append(out, a)
		i++
	}
	return out
}

// DetectStore scans the cleaned lines for the first configured store whose
// hint phrases appear; "Unknown" when nothing matches.
func DetectStore(lines []string, hints []StoreHint) string {
	joined := strings.ToLower(strings.Join(lines, " "))
	for _, sh := range hints {
		for _, h := range sh.Hints {
			if strings.Contains(joined, h) {
				return sh.Name
			}
		}
	}
	return entity.UnknownStore
}

// StoreHint maps a store name to the lowercase phrases that betray it.
// The table is deployment-configurable; store templates extend it further.
type StoreHint struct {
	Name  string
	Hints []string
}

// DefaultStoreHints returns the stock hint table.
func DefaultStoreHints() []StoreHint {
	return []StoreHint{
		{Name: "Publix", Hints: []string{"publix"}},
	}
}
