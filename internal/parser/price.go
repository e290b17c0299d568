package parser

import (
	"regexp"
	"strconv"
	"strings"
)

var (
	// OCR confusion repairs, numeric context only. Python-style lookbehinds
	// are rewritten as capture groups because RE2 has no lookaround.
	reDotOh  = regexp.MustCompile(`(\d\.)[oO]`)              // 12.Og -> 12.0g
	reGQNine = regexp.MustCompile(`(?i)([\d.])[gq]`)         // 12.0g -> 12.09
	reSFive  = regexp.MustCompile(`(\d)[sS]($|\d|[^\w])`)    // 12.0S -> 12.05
	reSplitD = regexp.MustCompile(`(\d)\s*\.\s*(\d{2})\b`)   // 16 . 76 -> 16.76
	rePrice  = regexp.MustCompile(`-?\d+\.\d{2}\b`)
	reBare   = regexp.MustCompile(`^-?\d+\.\d{2}$`)
	reDigits = regexp.MustCompile(`^\d+$`)
)

// PriceFrom recovers a monetary value from a noisy fragment, or nil if none
// can be read. The repair rules run in a fixed order; later rules assume the
// earlier ones already ran.
func PriceFrom(s string) *float64 {
	s = strings.ReplaceAll(strings.TrimSpace(s), ",", ".")
	s = reSpaces.ReplaceAllString(s, " ")

	s = reDotOh.ReplaceAllString(s, "${1}0")
	s = reGQNine.ReplaceAllString(s, "${1}9")
	s = reSFive.ReplaceAllString(s, "${1}5${2}")

	s = reSplitD.ReplaceAllString(s, "${1}.${2}")

	m := rePrice.FindString(s)
	if m == "" {
		return nil
	}
	v, err := strconv.ParseFloat(m, 64)
	if err != nil {
		return nil
	}
	return &v
}

// PricesIn returns every non-overlapping price on the line, left to right.
// Used when a line may encode more than one price (unit + extended).
func PricesIn(s string) []float64 {
	s = Normalize(s)
	s = reSplitD.ReplaceAllString(s, "${1}.${2}")
	var out []float64
	for _, m := range rePrice.FindAllString(s, -1) {
		if v, err := strconv.ParseFloat(m, 64); err == nil {
			out = append(out, v)
		}
	}
	return out
}
