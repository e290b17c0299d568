package parser

import (
	"regexp"
	"strings"
	"unicode"
)

var (
	reYouSav     = regexp.MustCompile(`\byou\s*sav`)
	reDigitParen = regexp.MustCompile(`^\d\)$`)
)

// IsYouSaved reports a "You Saved ..." savings banner, including the mangled
// forms OCR produces ("YouSav...").
func IsYouSaved(s string) bool {
	low := strings.ToLower(Normalize(s))
	return strings.Contains(low, "you saved") || reYouSav.MatchString(low)
}

// IsPromotion reports a promotion/discount marker line.
func IsPromotion(s string) bool {
	return strings.Contains(strings.ToLower(Normalize(s)), "promotion")
}

// IsVoided reports a point-of-sale void marker line.
func IsVoided(s string) bool {
	low := strings.ToLower(Normalize(s))
	return strings.Contains(low, "voided item") || strings.Contains(low, "void item")
}

// IsStopLine reports whether the line carries a totals/tax phrase.
func (l *Lexicon) IsStopLine(s string) bool {
	low := strings.ToLower(Normalize(s))
	for _, h := range l.StopHints {
		if strings.Contains(low, h) {
			return true
		}
	}
	return false
}

// IsNoiseToken reports whole-line junk: known garbage tokens or a lone
// digit-plus-close-paren detection.
func (l *Lexicon) IsNoiseToken(s string) bool {
	low := strings.ToLower(strings.TrimSpace(s))
	if _, ok := l.NoiseTokens[low]; ok {
		return true
	}
	return reDigitParen.MatchString(low)
}

// LooksLikeItemName reports whether the line has the shape of an item name.
// Receipt fonts are mostly uppercase but OCR leaks the occasional lowercase
// letter, so a 60% uppercase ratio is enough.
func (l *Lexicon) LooksLikeItemName(s string) bool {
	s = strings.TrimSpace(s)
	runes := []rune(s)
	if len(runes) <= 2 {
		return false
	}
	if unicode.IsDigit(runes[0]) {
		return false
	}
	if _, ok := l.NonItemWords[strings.ToUpper(s)]; ok {
		return false
	}
	if reDigits.MatchString(s) {
		return false
	}
	if PriceFrom(s) != nil {
		// a priceable string is never a name
		return false
	}

	letters, upper := 0, 0
	for _, r := range runes {
		if unicode.IsLetter(r) {
			letters++
			if unicode.IsUpper(r) {
				upper++
			}
		}
	}
	if letters < 3 {
		return false
	}
	return float64(upper)/float64(letters) >= 0.60
}
