package llm

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

// compileReceiptSchema compiles the receipt schema exactly once; every scan
// that reaches the vision fallback reuses the compiled form.
var compileReceiptSchema = sync.OnceValues(func() (*jsonschema.Schema, error) {
	b, err := json.Marshal(BuildReceiptJSONSchema())
	if err != nil {
		return nil, fmt.Errorf("marshal receipt schema: %w", err)
	}
	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource("receipt.json", bytes.NewReader(b)); err != nil {
		return nil, fmt.Errorf("add receipt schema: %w", err)
	}
	schema, err := compiler.Compile("receipt.json")
	if err != nil {
		return nil, fmt.Errorf("compile receipt schema: %w", err)
	}
	return schema, nil
})

// ValidateReceiptDoc checks a model response against the receipt schema.
func ValidateReceiptDoc(data []byte) error {
	schema, err := compileReceiptSchema()
	if err != nil {
		return err
	}
	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return fmt.Errorf("unmarshal receipt document: %w", err)
	}
	if err := schema.Validate(v); err != nil {
		return fmt.Errorf("receipt document does not match schema: %w", err)
	}
	return nil
}
