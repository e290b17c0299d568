package pipeline

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/elperroloc0/InvoiceScanner/internal/entity"
	"github.com/elperroloc0/InvoiceScanner/internal/llm"
)

type stubExtractor struct {
	receipt entity.Receipt
	err     error
	calls   int
}

func (s *stubExtractor) ExtractReceipt(_ context.Context, _ llm.ExtractRequest) (entity.Receipt, []byte, error) {
	s.calls++
	return s.receipt, nil, s.err
}

func frags(texts ...string) []entity.Fragment {
	out := make([]entity.Fragment, 0, len(texts))
	for _, t := range texts {
		out = append(out, entity.Fragment{Text: t, Confidence: 0.95})
	}
	return out
}

func TestProcessTemplateMatch(t *testing.T) {
	vision := &stubExtractor{}
	p := New(Config{}, nil, nil, vision, nil)

	res, err := p.Process(context.Background(), frags(
		"Publix", "Where Shopping is a Pleasure", "MILK", "3.39", "TOTAL", "3.39",
	))
	require.NoError(t, err)

	assert.Equal(t, SourceTemplate, res.Source)
	assert.Equal(t, "Publix", res.Receipt.Store)
	require.Len(t, res.Receipt.Items, 1)
	assert.Equal(t, "MILK", res.Receipt.Items[0].Name)
	assert.Zero(t, vision.calls, "vision must not run when a template matches")
	assert.NotEqual(t, [16]byte{}, [16]byte(res.JobID))
}

func TestProcessVisionFallback(t *testing.T) {
	total := 9.99
	vision := &stubExtractor{receipt: entity.Receipt{
		Store: "Trader Joe's",
		Items: []entity.Item{{Name: "SOUP", Price: 9.99}},
		Total: &total,
	}}
	p := New(Config{}, nil, nil, vision, nil)

	res, err := p.Process(context.Background(), frags("SOUP", "9.99"))
	require.NoError(t, err)

	assert.Equal(t, SourceVision, res.Source)
	assert.Equal(t, "Trader Joe's", res.Receipt.Store)
	assert.Equal(t, 1, vision.calls)
}

func TestProcessGenericWhenVisionFails(t *testing.T) {
	vision := &stubExtractor{err: errors.New("model unavailable")}
	p := New(Config{}, nil, nil, vision, nil)

	res, err := p.Process(context.Background(), frags("MILK", "3.39"))
	require.NoError(t, err)

	assert.Equal(t, SourceGeneric, res.Source)
	require.Len(t, res.Receipt.Items, 1)
	assert.Equal(t, "MILK", res.Receipt.Items[0].Name)
	assert.Equal(t, entity.UnknownStore, res.Receipt.Store)
}

func TestProcessGenericWithoutVision(t *testing.T) {
	p := New(Config{}, nil, nil, nil, nil)

	res, err := p.Process(context.Background(), frags("MILK", "3.39"))
	require.NoError(t, err)
	assert.Equal(t, SourceGeneric, res.Source)
}

func TestHeaderRegion(t *testing.T) {
	p := New(Config{HeaderShare: 0.25}, nil, nil, nil, nil)

	assert.Nil(t, p.header(nil))
	assert.Len(t, p.header(frags("a")), 1)
	assert.Len(t, p.header(frags("a", "b", "c", "d")), 1)
	assert.Len(t, p.header(frags("a", "b", "c", "d", "e", "f", "g", "h")), 2)
}
