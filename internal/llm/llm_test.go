package llm

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateReceiptDoc(t *testing.T) {
	t.Run("valid document passes", func(t *testing.T) {
		doc := []byte(`{"store":"Publix","items":[{"name":"MILK","price":3.39}],"total":3.39}`)
		assert.NoError(t, ValidateReceiptDoc(doc))
	})

	t.Run("null total passes", func(t *testing.T) {
		doc := []byte(`{"store":"Unknown","items":[],"total":null}`)
		assert.NoError(t, ValidateReceiptDoc(doc))
	})

	t.Run("missing store fails", func(t *testing.T) {
		doc := []byte(`{"items":[]}`)
		assert.Error(t, ValidateReceiptDoc(doc))
	})

	t.Run("string price fails", func(t *testing.T) {
		doc := []byte(`{"store":"Publix","items":[{"name":"MILK","price":"3.39"}]}`)
		assert.Error(t, ValidateReceiptDoc(doc))
	})

	t.Run("unknown item key fails", func(t *testing.T) {
		doc := []byte(`{"store":"Publix","items":[{"name":"MILK","price":3.39,"sku":"1"}]}`)
		assert.Error(t, ValidateReceiptDoc(doc))
	})

	t.Run("not json fails", func(t *testing.T) {
		assert.Error(t, ValidateReceiptDoc([]byte(`not json`)))
	})

	t.Run("repeated calls reuse the compiled schema", func(t *testing.T) {
		doc := []byte(`{"store":"Publix","items":[]}`)
		for range 3 {
			assert.NoError(t, ValidateReceiptDoc(doc))
		}
	})
}

func TestSanitizeReceiptDoc(t *testing.T) {
	t.Run("alias keys and string numbers", func(t *testing.T) {
		doc := []byte(`{"store_name":" Publix ","items":[{"item_name":"MILK","price":"$3.39"}],"total":"12,49"}`)
		cleaned, changed, err := SanitizeReceiptDoc(doc)
		require.NoError(t, err)
		assert.Contains(t, changed, "store_name")
		assert.Contains(t, changed, "item_name")
		assert.Contains(t, changed, "price")
		assert.Contains(t, changed, "total")

		require.NoError(t, ValidateReceiptDoc(cleaned))

		var m map[string]any
		require.NoError(t, json.Unmarshal(cleaned, &m))
		assert.Equal(t, "Publix", m["store"])
		assert.InDelta(t, 12.49, m["total"].(float64), 1e-9)
	})

	t.Run("missing items becomes empty array", func(t *testing.T) {
		cleaned, changed, err := SanitizeReceiptDoc([]byte(`{"store":"Publix"}`))
		require.NoError(t, err)
		assert.Contains(t, changed, "items")

		var m map[string]any
		require.NoError(t, json.Unmarshal(cleaned, &m))
		assert.Empty(t, m["items"])
	})

	t.Run("unparseable total dropped", func(t *testing.T) {
		cleaned, _, err := SanitizeReceiptDoc([]byte(`{"store":"X","items":[],"total":"n/a"}`))
		require.NoError(t, err)

		var m map[string]any
		require.NoError(t, json.Unmarshal(cleaned, &m))
		_, ok := m["total"]
		assert.False(t, ok)
	})

	t.Run("not json is an error", func(t *testing.T) {
		_, _, err := SanitizeReceiptDoc([]byte(`not json`))
		assert.Error(t, err)
	})
}
