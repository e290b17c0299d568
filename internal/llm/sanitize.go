package llm

import (
	"encoding/json"
	"strconv"
	"strings"
)

// SanitizeReceiptDoc normalizes the key aliases and loose types vision
// models like to emit ("store_name" for "store", "item_name" for "name",
// string-encoded numbers) so the strict schema can still validate. Returns
// the cleaned document and the list of keys that were rewritten.
func SanitizeReceiptDoc(doc []byte) ([]byte, []string, error) {
	var m map[string]any
	if err := json.Unmarshal(doc, &m); err != nil {
		return nil, nil, err
	}

	var changed []string

	if v, ok := m["store_name"]; ok {
		if _, exists := m["store"]; !exists {
			m["store"] = v
			changed = append(changed, "store_name")
		}
		delete(m, "store_name")
	}
	if v, ok := m["store"].(string); ok {
		m["store"] = strings.TrimSpace(v)
	}

	if items, ok := m["items"].([]any); ok {
		for _, raw := range items {
			it, ok := raw.(map[string]any)
			if !ok {
				continue
			}
			if v, ok := it["item_name"]; ok {
				if _, exists := it["name"]; !exists {
					it["name"] = v
					changed = append(changed, "item_name")
				}
				delete(it, "item_name")
			}
			if s, ok := it["price"].(string); ok {
				if f, ok := parseLooseNumber(s); ok {
					it["price"] = f
					changed = append(changed, "price")
				}
			}
		}
	} else {
		m["items"] = []any{}
		changed = append(changed, "items")
	}

	if s, ok := m["total"].(string); ok {
		if f, ok := parseLooseNumber(s); ok {
			m["total"] = f
			changed = append(changed, "total")
		} else {
			delete(m, "total")
			changed = append(changed, "total")
		}
	}

	b, err := json.Marshal(m)
	if err != nil {
		return nil, nil, err
	}
	return b, changed, nil
}

func parseLooseNumber(s string) (float64, bool) {
	s = strings.TrimSpace(strings.ReplaceAll(s, ",", "."))
	s = strings.TrimPrefix(s, "$")
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	return f, true
}
