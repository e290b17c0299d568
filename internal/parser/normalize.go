package parser

import (
	"regexp"
	"strings"
)

var reSpaces = regexp.MustCompile(`\s+`)

// Normalize trims the fragment, converts comma decimals to periods (receipts
// from comma-decimal locales) and collapses whitespace runs to one space.
// Total and idempotent.
func Normalize(s string) string {
	s = strings.ReplaceAll(strings.TrimSpace(s), ",", ".")
	return reSpaces.ReplaceAllString(s, " ")
}
