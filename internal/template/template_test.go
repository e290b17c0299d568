package template

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/elperroloc0/InvoiceScanner/internal/entity"
)

func header(texts ...string) []entity.Fragment {
	out := make([]entity.Fragment, len(texts))
	for i, s := range texts {
		out[i] = entity.Fragment{Text: s, Confidence: 0.9}
	}
	return out
}

func TestRegistryMatch(t *testing.T) {
	reg := NewRegistry(NewPublix(nil))

	assert.NotNil(t, reg.Match(header("PUBLIX", "Where Shopping is a Pleasure")))
	assert.NotNil(t, reg.Match(header("publix super markets")))
	assert.Nil(t, reg.Match(header("WEGMANS", "FOOD MARKET")))
	assert.Nil(t, reg.Match(nil))
}

func TestPublixDelegatesToEngine(t *testing.T) {
	tpl := NewPublix(nil)

	rec := tpl.Parse([]entity.Fragment{
		{Text: "Publix", Confidence: 0.95},
		{Text: "MILK", Confidence: 0.95},
		{Text: "3.50", Confidence: 0.95},
	})
	assert.Equal(t, "Publix", rec.Store)
	require.Len(t, rec.Items, 1)
	assert.Equal(t, entity.Item{Name: "MILK", Price: 3.50}, rec.Items[0])
}
