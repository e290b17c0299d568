package ocr

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/elperroloc0/InvoiceScanner/internal/common"
	"github.com/elperroloc0/InvoiceScanner/internal/entity"
)

const sampleTSV = "level\tpage_num\tblock_num\tpar_num\tline_num\tword_num\tleft\ttop\twidth\theight\tconf\ttext\n" +
	"1\t1\t0\t0\t0\t0\t0\t0\t100\t200\t-1\t\n" +
	"5\t1\t1\t1\t1\t1\t10\t10\t40\t12\t96\tPUBLIX\n" +
	"5\t1\t1\t1\t2\t1\t10\t30\t30\t12\t91\tMILK\n" +
	"5\t1\t1\t1\t3\t1\t10\t50\t20\t12\t88\t3\n" +
	"5\t1\t1\t1\t3\t2\t34\t50\t20\t12\t84\t49\n"

func TestParseTSV(t *testing.T) {
	frags := parseTSV(sampleTSV)
	require.Len(t, frags, 3)

	assert.Equal(t, "PUBLIX", frags[0].Text)
	assert.InDelta(t, 0.96, frags[0].Confidence, 1e-9)

	assert.Equal(t, "MILK", frags[1].Text)

	// words on the same detected line are joined, confidences averaged
	assert.Equal(t, "3 49", frags[2].Text)
	assert.InDelta(t, 0.86, frags[2].Confidence, 1e-9)
}

func TestParseTSVEmpty(t *testing.T) {
	assert.Empty(t, parseTSV(""))
	assert.Empty(t, parseTSV("header only\n"))
}

func TestDecodeFragments(t *testing.T) {
	t.Run("json array", func(t *testing.T) {
		frags, err := DecodeFragments([]byte(`[{"text":"MILK","confidence":0.9},{"text":"3.49"}]`))
		require.NoError(t, err)
		require.Len(t, frags, 2)
		assert.Equal(t, entity.Fragment{Text: "MILK", Confidence: 0.9}, frags[0])
		assert.Zero(t, frags[1].Confidence)
	})

	t.Run("jsonl", func(t *testing.T) {
		frags, err := DecodeFragments([]byte("{\"text\":\"MILK\",\"confidence\":0.9}\n{\"text\":\"3.49\",\"confidence\":0.8}\n"))
		require.NoError(t, err)
		assert.Len(t, frags, 2)
	})

	t.Run("garbage", func(t *testing.T) {
		_, err := DecodeFragments([]byte("not json"))
		assert.Error(t, err)
	})
}

type stubRunner struct {
	out  []byte
	err  error
	cmd  string
	args []string
}

func (s *stubRunner) Run(_ context.Context, name string, args ...string) ([]byte, error) {
	s.cmd = name
	s.args = args
	return s.out, s.err
}

func TestExtractImageViaRunner(t *testing.T) {
	e := NewExtractor(Config{}, nil)
	runner := &stubRunner{out: []byte(sampleTSV)}
	e.runner = runner

	frags, err := e.Extract(context.Background(), "receipt.png")
	require.NoError(t, err)
	require.Len(t, frags, 3)
	assert.Equal(t, "PUBLIX", frags[0].Text)

	assert.Equal(t, "tesseract", runner.cmd)
	assert.Equal(t, []string{"receipt.png", "stdout", "-l", "eng", "--psm", "6", "tsv"}, runner.args)
}

func TestExtractImageEngineFailure(t *testing.T) {
	e := NewExtractor(Config{}, nil)
	e.runner = &stubRunner{err: errors.New("exit status 1")}

	_, err := e.Extract(context.Background(), "receipt.png")
	require.Error(t, err)
	assert.ErrorIs(t, err, common.ErrOCRFailed)
}

func TestTruncateCapsEngineNoise(t *testing.T) {
	long := strings.Repeat("x", stderrCap+100)
	got := truncate(long, stderrCap)
	assert.Len(t, got, stderrCap+len("...(truncated)"))
	assert.Equal(t, "short", truncate("short", stderrCap))
}

func TestAverageConfidence(t *testing.T) {
	assert.Zero(t, AverageConfidence(nil))
	frags := []entity.Fragment{{Confidence: 0.8}, {Confidence: 0.6}}
	assert.InDelta(t, 0.7, AverageConfidence(frags), 1e-9)
}
