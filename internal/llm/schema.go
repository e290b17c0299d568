package llm

// BuildReceiptJSONSchema returns a JSON-Schema (draft 2020-12 subset) as a
// generic map. We pass this to the model as a structured output constraint
// and also use it locally to validate the response.
func BuildReceiptJSONSchema() map[string]any {
	item := map[string]any{
		"type":                 "object",
		"additionalProperties": false,
		"properties": map[string]any{
			"name":       map[string]any{"type": "string", "minLength": 1},
			"price":      map[string]any{"type": "number"},
			"quantity":   map[string]any{"type": "number"},
			"unit_price": map[string]any{"type": "number"},
			"unit":       map[string]any{"type": "string"},
			"voided":     map[string]any{"type": "boolean"},
			"deal": map[string]any{
				"type":                 "object",
				"additionalProperties": false,
				"properties": map[string]any{
					"qty":        map[string]any{"type": "integer", "minimum": 1},
					"unit_price": map[string]any{"type": []string{"number", "null"}},
				},
				"required": []string{"qty"},
			},
		},
		"required": []string{"name", "price"},
	}

	return map[string]any{
		"type":                 "object",
		"additionalProperties": false,
		"properties": map[string]any{
			"store": map[string]any{"type": "string", "minLength": 1},
			"items": map[string]any{"type": "array", "items": item},
			"total": map[string]any{"type": []string{"number", "null"}},
		},
		"required": []string{"store", "items"},
	}
}
