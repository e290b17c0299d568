package openai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/elperroloc0/InvoiceScanner/internal/common"
	"github.com/elperroloc0/InvoiceScanner/internal/entity"
	"github.com/elperroloc0/InvoiceScanner/internal/llm"
)

// ExtractReceipt implements llm.ReceiptExtractor over chat/completions. The
// raw OCR fragments go to the model as compact JSON; the response is
// validated against the receipt schema, with one lenient sanitize retry for
// the key aliases models like to invent.
func (c *Client) ExtractReceipt(ctx context.Context, req llm.ExtractRequest) (entity.Receipt, []byte, error) {
	rid := uuid.New().String()
	start := time.Now()

	payload, err := json.Marshal(req.Fragments)
	if err != nil {
		return entity.Receipt{}, nil, fmt.Errorf("marshal fragments: %w", err)
	}

	c.log.Info("llm.extract.start",
		"req_id", rid,
		"model", c.cfg.Model,
		"fragments", len(req.Fragments),
		"avg_confidence", req.AvgConfidence,
	)

	body := map[string]any{
		"model":           c.cfg.Model,
		"temperature":     c.cfg.Temperature,
		"response_format": map[string]any{"type": "json_object"},
		"messages": []map[string]any{
			{"role": "system", "content": buildSystemPrompt(req.AvgConfidence)},
			{"role": "user", "content": string(payload)},
			{"role": "system", "content": "JSON Schema:\n" + mustJSON(llm.BuildReceiptJSONSchema())},
		},
	}

	endpoint := strings.TrimRight(c.cfg.BaseURL, "/") + "/chat/completions"
	raw, httpErr := c.post(ctx, endpoint, body)
	if httpErr != nil {
		c.log.Error("llm.extract.http_error",
			"req_id", rid, "error", httpErr,
			"elapsed_ms", time.Since(start).Milliseconds(),
		)
		return entity.Receipt{}, nil, fmt.Errorf("%w: %v", common.ErrVisionFailed, httpErr)
	}

	var cc struct {
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
	}
	if err := json.Unmarshal(raw, &cc); err != nil {
		return entity.Receipt{}, raw, fmt.Errorf("decode openai response: %w", err)
	}
	if len(cc.Choices) == 0 {
		return entity.Receipt{}, raw, fmt.Errorf("no choices in openai response: %w", common.ErrVisionFailed)
	}
	rawContent := []byte(strings.TrimSpace(cc.Choices[0].Message.Content))

	if err := llm.ValidateReceiptDoc(rawContent); err != nil {
		cleaned, changed, sErr := llm.SanitizeReceiptDoc(rawContent)
		if sErr != nil {
			return entity.Receipt{}, rawContent, fmt.Errorf("sanitize failed: %w", sErr)
		}
		if vErr := llm.ValidateReceiptDoc(cleaned); vErr != nil {
			c.log.Error("llm.extract.schema_validation_failed",
				"req_id", rid, "error", vErr, "content", string(rawContent),
				"elapsed_ms", time.Since(start).Milliseconds(),
			)
			return entity.Receipt{}, rawContent, fmt.Errorf("schema validation failed: %w", vErr)
		}
		c.log.Warn("llm.extract.lenient_sanitize_applied",
			"req_id", rid, "changed", changed,
			"elapsed_ms", time.Since(start).Milliseconds(),
		)
		rawContent = cleaned
	}

	var out entity.Receipt
	if err := json.Unmarshal(rawContent, &out); err != nil {
		return entity.Receipt{}, rawContent, fmt.Errorf("unmarshal receipt: %w", err)
	}
	if out.Store == "" {
		out.Store = entity.UnknownStore
	}

	c.log.Info("llm.extract.ok",
		"req_id", rid,
		"store", out.Store,
		"items", len(out.Items),
		"has_total", out.Total != nil,
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return out, rawContent, nil
}

func (c *Client) post(ctx context.Context, url string, body map[string]any) ([]byte, error) {
	b, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(b))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+c.cfg.APIKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("openai http error: %w", err)
	}
	defer func(body io.ReadCloser) {
		if err := body.Close(); err != nil {
			c.log.Warn("openai response body close error", "error", err)
		}
	}(resp.Body)

	buf := new(bytes.Buffer)
	_, _ = buf.ReadFrom(resp.Body)
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("openai status %d: %s", resp.StatusCode, buf.String())
	}
	return buf.Bytes(), nil
}

func buildSystemPrompt(avgConfidence float64) string {
	parts := []string{
		"You are a receipt parser. The user message is a JSON array of OCR fragments {text, confidence} from a photographed retail receipt.",
		"Return ONLY JSON that matches the JSON Schema provided: {store, items, total}.",
		"Item prices are decimals; voided items and promotions carry negative prices.",
		"Use \"Unknown\" for the store when it cannot be identified.",
		"Never output null item fields. If a field is not present, omit it.",
	}
	if avgConfidence > 0 {
		parts = append(parts, fmt.Sprintf("Aggregate OCR confidence is %.2f; be suspicious of digits when it is low.", avgConfidence))
	}
	return strings.Join(parts, " ")
}

func mustJSON(v any) string {
	b, _ := json.MarshalIndent(v, "", "  ")
	return string(b)
}
