package entity

// Fragment is one OCR-detected text span with its confidence score.
// Order reflects OCR scan order, which is not guaranteed top-to-bottom.
type Fragment struct {
	Text       string  `json:"text"`
	Confidence float64 `json:"confidence"`
}

// Deal describes multi-buy pricing ("2 FOR 1.99 3.98").
// UnitPrice is nil when only the final price could be read off the line.
type Deal struct {
	Qty       int      `json:"qty"`
	UnitPrice *float64 `json:"unit_price"`
}

// Item is one extracted receipt line item. Price is always set when the item
// is emitted; a voided item always carries a non-positive price.
type Item struct {
	Name      string  `json:"name"`
	Price     float64 `json:"price"`
	Quantity  float64 `json:"quantity,omitempty"`
	UnitPrice float64 `json:"unit_price,omitempty"`
	Unit      string  `json:"unit,omitempty"`
	Deal      *Deal   `json:"deal,omitempty"`
	Voided    bool    `json:"voided,omitempty"`
}

// Receipt is the structured result of one scan. Total is independently
// derived from a totals line (or the maximum observed price) and is not
// reconciled against the item sum; callers must expect a mismatch.
type Receipt struct {
	Store string   `json:"store"`
	Items []Item   `json:"items"`
	Total *float64 `json:"total"`
}

const (
	// UnknownStore is reported when no store hint matches.
	UnknownStore = "Unknown"

	// PromotionName labels the degenerate discount item.
	PromotionName = "PROMOTION"

	// VoidedItemName is the fallback name when a voided block has no
	// readable name lines.
	VoidedItemName = "VOIDED ITEM"
)
