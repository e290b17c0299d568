// Package pipeline orchestrates a scan: route the receipt to a matching
// store template, or hand it to the vision-model fallback when no local
// template recognizes the header.
package pipeline

import (
	"context"
	"log/slog"
	"math"

	"github.com/google/uuid"

	"github.com/elperroloc0/InvoiceScanner/internal/entity"
	"github.com/elperroloc0/InvoiceScanner/internal/llm"
	"github.com/elperroloc0/InvoiceScanner/internal/ocr"
	"github.com/elperroloc0/InvoiceScanner/internal/parser"
	"github.com/elperroloc0/InvoiceScanner/internal/template"
)

// Source labels which path produced the receipt.
const (
	SourceTemplate = "template"
	SourceVision   = "vision"
	SourceGeneric  = "generic"
)

// ScanResult is the outcome of one processed scan.
type ScanResult struct {
	JobID         uuid.UUID      `json:"job_id"`
	Receipt       entity.Receipt `json:"receipt"`
	Source        string         `json:"source"`
	AvgConfidence float64        `json:"avg_confidence"`
}

// Config for the processor.
type Config struct {
	// HeaderShare is the fraction of leading fragments used for template
	// matching. Store banners sit at the top of a receipt, so only the
	// header region votes.
	HeaderShare float64
}

// Processor routes fragments through templates, the generic line engine,
// and the optional vision fallback.
type Processor struct {
	cfg      Config
	registry *template.Registry
	engine   *parser.Parser
	vision   llm.ReceiptExtractor // nil disables the fallback
	log      *slog.Logger
}

func New(cfg Config, registry *template.Registry, engine *parser.Parser, vision llm.ReceiptExtractor, logger *slog.Logger) *Processor {
	if cfg.HeaderShare <= 0 || cfg.HeaderShare > 1 {
		cfg.HeaderShare = 0.25
	}
	if registry == nil {
		registry = template.NewRegistry(template.NewPublix(nil))
	}
	if engine == nil {
		engine = parser.New(parser.Config{}, logger)
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Processor{cfg: cfg, registry: registry, engine: engine, vision: vision, log: logger}
}

// Process parses one fragment sequence into a receipt. A matched store
// template parses locally; otherwise the vision fallback runs when
// configured, and the generic line engine covers the rest.
func (p *Processor) Process(ctx context.Context, frags []entity.Fragment) (ScanResult, error) {
	res := ScanResult{
		JobID:         uuid.New(),
		AvgConfidence: ocr.AverageConfidence(frags),
	}

	if t := p.registry.Match(p.header(frags)); t != nil {
		res.Receipt = t.Parse(frags)
		res.Source = SourceTemplate
		p.log.Info("pipeline.scan",
			"job_id", res.JobID,
			"source", res.Source,
			"template", t.StoreName(),
			"items", len(res.Receipt.Items),
			"avg_confidence", res.AvgConfidence,
		)
		return res, nil
	}

	if p.vision != nil {
		receipt, _, err := p.vision.ExtractReceipt(ctx, llm.ExtractRequest{
			Fragments:     frags,
			AvgConfidence: res.AvgConfidence,
		})
		if err == nil {
			res.Receipt = receipt
			res.Source = SourceVision
			p.log.Info("pipeline.scan",
				"job_id", res.JobID,
				"source", res.Source,
				"items", len(res.Receipt.Items),
				"avg_confidence", res.AvgConfidence,
			)
			return res, nil
		}
		p.log.Warn("pipeline.vision_fallback_failed",
			"job_id", res.JobID, "error", err,
		)
	}

	res.Receipt = p.engine.ParseFragments(frags)
	res.Source = SourceGeneric
	p.log.Info("pipeline.scan",
		"job_id", res.JobID,
		"source", res.Source,
		"items", len(res.Receipt.Items),
		"avg_confidence", res.AvgConfidence,
	)
	return res, nil
}

// header returns the leading fragments used for template matching, always
// at least one when any fragments exist.
func (p *Processor) header(frags []entity.Fragment) []entity.Fragment {
	if len(frags) == 0 {
		return nil
	}
	n := int(math.Ceil(float64(len(frags)) * p.cfg.HeaderShare))
	if n < 1 {
		n = 1
	}
	if n > len(frags) {
		n = len(frags)
	}
	return frags[:n]
}
