package parser

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalize(t *testing.T) {
	assert.Equal(t, "HeLlo World!", Normalize("  HeLlo   World!  "))
	assert.Equal(t, "3.39", Normalize("3,39"))
	assert.Equal(t, "", Normalize("   "))

	// idempotent
	for _, s := range []string{"  a  b ", "3,39", "x", ""} {
		once := Normalize(s)
		assert.Equal(t, once, Normalize(once), "Normalize should be idempotent for %q", s)
	}
}

func TestPriceFrom(t *testing.T) {
	tests := []struct {
		in   string
		want *float64
	}{
		{"3,39", fp(3.39)},
		{"3, 39", fp(3.39)},
		{"46 , 17", fp(46.17)},
		{"12.Og", fp(12.09)}, // trailing O fixed to 0, then g to 9
		{"12.0g", fp(12.09)},
		{"12.0q", fp(12.09)},
		{"12.0S", fp(12.05)},
		{"3 O9", nil}, // no decimal point, not salvageable
		{"Total: -5.99", fp(-5.99)},
		{"MILK", nil},
		{"", nil},
		{"2 FOR 1.99 3.98", fp(1.99)}, // first match wins
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got := PriceFrom(tt.in)
			if tt.want == nil {
				assert.Nil(t, got)
				return
			}
			require.NotNil(t, got)
			assert.InDelta(t, *tt.want, *got, 1e-9)
		})
	}
}

func TestPriceFromAlwaysTwoDecimals(t *testing.T) {
	inputs := []string{"3,39", "foo 12.Og bar", "-0.50", "1.2.34", "99.999", "abc"}
	for _, in := range inputs {
		if v := PriceFrom(in); v != nil {
			assert.Regexp(t, `^-?\d+\.\d{2}$`, fmt.Sprintf("%.2f", *v))
		}
	}
}

func TestPricesIn(t *testing.T) {
	assert.Equal(t, []float64{1.99, 3.98}, PricesIn("2 FOR 1.99 3.98"))
	assert.Equal(t, []float64{0.79, 0.99}, PricesIn("1,25 lb @ 0,79 0,99"))
	assert.Empty(t, PricesIn("no prices here"))
	assert.Equal(t, []float64{16.76}, PricesIn("16 . 76"))
}

func fp(v float64) *float64 { return &v }
