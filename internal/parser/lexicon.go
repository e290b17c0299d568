package parser

// Lexicon bundles the word tables the classifier predicates consult. A
// Lexicon must be treated as immutable once handed to a Parser; the defaults
// are calibrated against US grocery receipts.
type Lexicon struct {
	// NonItemWords are uppercased words that never start an item name.
	NonItemWords map[string]struct{}

	// StopHints mark the beginning of the totals/tax section.
	StopHints []string

	// TotalHints locate the grand-total line during total extraction.
	TotalHints []string

	// NoiseTokens are whole-line junk detections the OCR engine emits.
	NoiseTokens map[string]struct{}
}

// DefaultLexicon returns the stock tables.
func DefaultLexicon() *Lexicon {
	return &Lexicon{
		NonItemWords: set(
			"FOR", "TOTAL", "SUBTOTAL", "TAX", "SALES", "ORDER", "GRAND", "CREDIT",
			"PAYMENT", "CHANGE", "BALANCE", "SAVED", "SAVE", "YOU", "RECEIPT",
		),
		StopHints: []string{
			"grand total", "order total", "sub total", "subtotal", "amount due",
			"balance due", "total", "payment", "change", "credit", "debit",
		},
		TotalHints: []string{
			"grand total", "amount due", "balance due", "order total", "total",
		},
		NoiseTokens: set("t", "f", "t f", "tf", "{f", "iix"),
	}
}

func set(words ...string) map[string]struct{} {
	m := make(map[string]struct{}, len(words))
	for _, w := range words {
		m[w] = struct{}{}
	}
	return m
}
