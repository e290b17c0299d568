package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLooksLikeItemName(t *testing.T) {
	lex := DefaultLexicon()

	tests := []struct {
		in   string
		want bool
	}{
		{"MILK", true},
		{"APpLe", true}, // 60%+ uppercase still passes
		{"apple", false},
		{"123", false},
		{"TOTAL", false}, // reserved word
		{"TO", false},    // too short
		{"3.99", false},  // priceable strings are never names
		{"9X Z", false},  // leading digit
		{"A1 2", false},  // fewer than 3 letters
		{"GREEN MOUNTAIN", true},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, lex.LooksLikeItemName(tt.in), "input %q", tt.in)
	}
}

func TestIsStopLine(t *testing.T) {
	lex := DefaultLexicon()
	assert.True(t, lex.IsStopLine("TOTAL"))
	assert.True(t, lex.IsStopLine("Grand Total"))
	assert.True(t, lex.IsStopLine("Subtotal"))
	assert.True(t, lex.IsStopLine("Amount Due"))
	assert.False(t, lex.IsStopLine("MILK"))
}

func TestIsNoiseToken(t *testing.T) {
	lex := DefaultLexicon()
	for _, s := range []string{"F", "t", "T F", "tf", "{f", "iix", "3)"} {
		assert.True(t, lex.IsNoiseToken(s), "input %q", s)
	}
	assert.False(t, lex.IsNoiseToken("MILK"))
	assert.False(t, lex.IsNoiseToken("12)"))
}

func TestMarkerPredicates(t *testing.T) {
	assert.True(t, IsYouSaved("You Saved $1.50"))
	assert.True(t, IsYouSaved("YouSav 0.88")) // OCR-mangled variant
	assert.False(t, IsYouSaved("SAVORY SNACK"))

	assert.True(t, IsPromotion("Publix Promotion"))
	assert.False(t, IsPromotion("MILK"))

	assert.True(t, IsVoided("VOIDED ITEM"))
	assert.True(t, IsVoided("Void Item"))
	assert.False(t, IsVoided("AVOID"))
}
