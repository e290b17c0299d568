package parser

import (
	"log/slog"
	"regexp"
	"strconv"
	"strings"

	"github.com/elperroloc0/InvoiceScanner/internal/entity"
)

var (
	reDeal           = regexp.MustCompile(`(?i)\b(\d+)\s*FOR\b`)
	reQtyAt          = regexp.MustCompile(`(?i)\b(\d+)\s*@\s*(\d+[.,]\d{2})\b`)
	reWeight         = regexp.MustCompile(`(?i)(\d+[.,]\d+)\s*(?:lb|lbs|ib|1b)\s*(?:@|at|a)?\s*(\d+[.,]\d+)\s*(?:/?\s*(?:lb|lbs|ib|1b))?\s*(-?\d+[.,]\d{2})\b`)
	reWeightFallback = regexp.MustCompile(`(?i)(\d+[.,]\d+)\s*(?:@|at|a)?\s*(\d+[.,]\d+)\s*/\s*(?:lb|lbs|ib|1b).*?(-?\d+[.,]\d{2})\b`)
)

// Config holds the knobs and word tables for one Parser. Zero values fall
// back to the calibrated defaults.
type Config struct {
	MinConfidence float64
	Lexicon       *Lexicon
	StoreHints    []StoreHint
}

// Parser walks a cleaned line sequence once and reconstructs the receipt.
// A Parser is safe for concurrent use; all per-parse state lives on the
// stack of one Parse call and the configuration tables are never written.
type Parser struct {
	cfg    Config
	logger *slog.Logger
}

func New(cfg Config, logger *slog.Logger) *Parser {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.MinConfidence <= 0 {
		cfg.MinConfidence = DefaultMinConfidence
	}
	if cfg.Lexicon == nil {
		cfg.Lexicon = DefaultLexicon()
	}
	if cfg.StoreHints == nil {
		cfg.StoreHints = DefaultStoreHints()
	}
	return &Parser{cfg: cfg, logger: logger}
}

// ParseFragments cleans the raw OCR fragments and parses the result.
func (p *Parser) ParseFragments(frags []entity.Fragment) entity.Receipt {
	return p.Parse(p.cfg.Lexicon.CleanLines(frags, p.cfg.MinConfidence))
}

// Parse never fails; malformed or sparse input degrades to
// {Unknown, no items, nil total}.
func (p *Parser) Parse(lines []string) entity.Receipt {
	rec := entity.Receipt{
		Store: DetectStore(lines, p.cfg.StoreHints),
		Items: p.extractItems(lines),
		Total: p.extractTotal(lines),
	}
	p.logger.Debug("parse.done",
		"store", rec.Store, "items", len(rec.Items), "has_total", rec.Total != nil)
	return rec
}

// lineIntent tags what a line means at the current cursor position. The
// constant order is the branch priority order; it is calibrated against real
// receipt samples and must not be reshuffled.
type lineIntent int

const (
	intentVoided    lineIntent = iota // void marker, consumes a name+price block
	intentStop                        // totals section begins, extraction ends
	intentName                        // unpriced name-shaped line, accumulate
	intentPrice                       // line carries an extractable price
	intentPromotion                   // promotion marker without its own price
	intentOther                       // unclassifiable, advance
)

// classifyLine assigns the intent for lines[i]. A stop hint only counts when
// the next line is priced; a stray "TOTAL" inside an item name falls through
// to the later intents.
func (p *Parser) classifyLine(lines []string, i int) lineIntent {
	line := lines[i]
	lex := p.cfg.Lexicon
	switch {
	case IsVoided(line):
		return intentVoided
	case lex.IsStopLine(line) && i+1 < len(lines) && PriceFrom(lines[i+1]) != nil:
		return intentStop
	case PriceFrom(line) == nil && lex.LooksLikeItemName(line):
		return intentName
	case PriceFrom(line) != nil:
		return intentPrice
	case IsPromotion(line):
		return intentPromotion
	default:
		return intentOther
	}
}

// pendingName accumulates multi-line item names until a price closes them.
type pendingName struct {
	parts []string
}

func (b *pendingName) push(s string) { b.parts = append(b.parts, s) }
func (b *pendingName) reset()        { b.parts = b.parts[:0] }

func (b *pendingName) name() (string, bool) {
	nm := strings.TrimSpace(strings.Join(b.parts, " "))
	return nm, nm != ""
}

func (p *Parser) extractItems(lines []string) []entity.Item {
	items := []entity.Item{}
	var pending pendingName

	for i := 0; i < len(lines); {
		switch p.classifyLine(lines, i) {
		case intentVoided:
			i = p.collectVoided(lines, i+1, &items)
			pending.reset()

		case intentStop:
			// Everything from here is totals and tax, not items.
			return items

		case intentName:
			pending.push(lines[i])
			i++

		case intentPrice:
			if nm, ok := pending.name(); ok {
				items = append(items, p.closeItem(nm, lines[i]))
				pending.reset()
				i++
			} else if IsPromotion(lines[i]) {
				// Priced promotion line standing alone.
				i = p.closePromotion(lines, i, &items)
				pending.reset()
			} else {
				i++
			}

		case intentPromotion:
			i = p.closePromotion(lines, i, &items)
			pending.reset()

		default:
			i++
		}
	}
	return items
}

// closeItem closes the pending name against a price-bearing line. A line
// that is nothing but one bare price token closes immediately; otherwise the
// deal, quantity and weight shapes are tried in that fixed order before the
// plain name+price fallback.
func (p *Parser) closeItem(name, line string) entity.Item {
	if ps := PricesIn(line); len(ps) == 1 && reBare.MatchString(Normalize(line)) {
		return entity.Item{Name: name, Price: ps[0]}
	}
	if it, ok := dealItem(name, line); ok {
		return it
	}
	if it, ok := quantityItem(name, line); ok {
		return it
	}
	if it, ok := weightItem(name, line); ok {
		return it
	}
	return entity.Item{Name: name, Price: *PriceFrom(line)}
}

// dealItem matches "<N> FOR" multi-buy pricing. With two or more prices on
// the line the second-to-last is the unit price and the last the extended
// price ("... 2 FOR 1.99 3.98").
func dealItem(name, line string) (entity.Item, bool) {
	m := reDeal.FindStringSubmatch(line)
	if m == nil {
		return entity.Item{}, false
	}
	qty, _ := strconv.Atoi(m[1])
	deal := &entity.Deal{Qty: qty}

	ps := PricesIn(line)
	var final float64
	switch {
	case len(ps) >= 2:
		unit := ps[len(ps)-2]
		deal.UnitPrice = &unit
		final = ps[len(ps)-1]
	case len(ps) == 1:
		final = ps[0]
	default:
		return entity.Item{}, false
	}
	return entity.Item{Name: name, Price: final, Deal: deal}, true
}

// quantityItem matches "<N> @ <unit>" lines; the last price anywhere on the
// line is the extended price.
func quantityItem(name, line string) (entity.Item, bool) {
	m := reQtyAt.FindStringSubmatch(line)
	if m == nil {
		return entity.Item{}, false
	}
	ps := PricesIn(line)
	if len(ps) == 0 {
		return entity.Item{}, false
	}
	qty, _ := strconv.Atoi(m[1])
	unit, _ := strconv.ParseFloat(strings.ReplaceAll(m[2], ",", "."), 64)
	return entity.Item{
		Name:      name,
		Price:     ps[len(ps)-1],
		Quantity:  float64(qty),
		UnitPrice: unit,
	}, true
}

// weightItem matches "qty lb @ unit [/lb] total" and the fallback variant
// where "/lb" trails the unit price. The lb spellings cover the usual OCR
// mangles (ib, 1b).
func weightItem(name, line string) (entity.Item, bool) {
	m := reWeight.FindStringSubmatch(line)
	if m == nil {
		m = reWeightFallback.FindStringSubmatch(line)
	}
	if m == nil {
		return entity.Item{}, false
	}
	qty, _ := strconv.ParseFloat(strings.ReplaceAll(m[1], ",", "."), 64)
	unit, _ := strconv.ParseFloat(strings.ReplaceAll(m[2], ",", "."), 64)
	total, _ := strconv.ParseFloat(strings.ReplaceAll(m[3], ",", "."), 64)
	return entity.Item{
		Name:      name,
		Price:     total,
		Quantity:  qty,
		UnitPrice: unit,
		Unit:      "lb",
	}, true
}

// collectVoided consumes a voided-item block starting right after the void
// marker: up to three name lines, then a price on the cursor line or the one
// after it. Returns the next cursor position.
func (p *Parser) collectVoided(lines []string, i int, items *[]entity.Item) int {
	lex := p.cfg.Lexicon

	var nameParts []string
	for i < len(lines) && len(nameParts) < 3 {
		s := strings.TrimSpace(lines[i])
		if lex.IsStopLine(s) {
			break
		}
		if PriceFrom(s) != nil {
			// price ends the name
			break
		}
		if lex.IsNoiseToken(s) || IsYouSaved(s) || IsPromotion(s) {
			i++
			continue
		}
		if lex.LooksLikeItemName(s) {
			nameParts = append(nameParts, s)
		}
		i++
	}

	var price *float64
	if i < len(lines) {
		price = PriceFrom(lines[i])
		if price == nil && i+1 < len(lines) {
			price = PriceFrom(lines[i+1])
			if price != nil {
				i++
			}
		}
	}

	if price != nil {
		v := *price
		if v > 0 {
			// voided amounts are a refund/removal
			v = -v
		}
		name := strings.TrimSpace(strings.Join(nameParts, " "))
		if name == "" {
			name = entity.VoidedItemName
		}
		*items = append(*items, entity.Item{Name: name, Price: v, Voided: true})
	}
	return i + 1
}

// closePromotion reads the discount off the promotion line or the line after
// it, forces it negative, and emits the degenerate PROMOTION item. Nothing
// is emitted when no discount can be read.
func (p *Parser) closePromotion(lines []string, i int, items *[]entity.Item) int {
	disc := PriceFrom(lines[i])
	if disc == nil && i+1 < len(lines) {
		disc = PriceFrom(lines[i+1])
		if disc != nil {
			i++
		}
	}
	if disc != nil {
		v := *disc
		if v > 0 {
			v = -v
		}
		*items = append(*items, entity.Item{Name: entity.PromotionName, Price: v})
	}
	return i + 1
}

// extractTotal runs a second pass over the same lines: the first totals-hint
// line that yields a price (same line, then next line) wins. Failing that,
// the maximum non-negative price anywhere stands in, then the overall
// maximum, then nil.
func (p *Parser) extractTotal(lines []string) *float64 {
	for i, line := range lines {
		low := strings.ToLower(Normalize(line))
		hinted := false
		for _, h := range p.cfg.Lexicon.TotalHints {
			if strings.Contains(low, h) {
				hinted = true
				break
			}
		}
		if !hinted {
			continue
		}
		total := PriceFrom(line)
		if total == nil && i+1 < len(lines) {
			total = PriceFrom(lines[i+1])
		}
		if total != nil {
			return total
		}
	}

	var all, positives []float64
	for _, l := range lines {
		if v := PriceFrom(l); v != nil {
			all = append(all, *v)
			if *v >= 0 {
				positives = append(positives, *v)
			}
		}
	}
	if len(positives) > 0 {
		m := maxOf(positives)
		return &m
	}
	if len(all) > 0 {
		m := maxOf(all)
		return &m
	}
	return nil
}

func maxOf(vs []float64) float64 {
	m := vs[0]
	for _, v := range vs[1:] {
		if v > m {
			m = v
		}
	}
	return m
}
