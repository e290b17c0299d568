// Package ocr acquires OCR fragments for the parser. The engine itself is
// external; this package shells out to it (or reads its saved output) and
// adapts the result into the fragment shape the parser consumes.
package ocr

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"strconv"
	"time"

	"github.com/elperroloc0/InvoiceScanner/constants"
	"github.com/elperroloc0/InvoiceScanner/internal/common"
	"github.com/elperroloc0/InvoiceScanner/internal/entity"
)

type Config struct {
	Tesseract string // binary name or absolute path; if empty -> "tesseract"

	TesseractLang string // default "eng"
	PSM           int    // 6 is good for a uniform block of text
}

type Extractor struct {
	cfg    Config
	runner Runner
	logger *slog.Logger
}

func NewExtractor(cfg Config, logger *slog.Logger) *Extractor {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.Tesseract == "" {
		cfg.Tesseract = "tesseract"
	}
	if cfg.TesseractLang == "" {
		cfg.TesseractLang = "eng"
	}
	if cfg.PSM <= 0 {
		cfg.PSM = 6
	}
	return &Extractor{cfg: cfg, runner: execRunner{logger: logger}, logger: logger}
}

// Extract picks a fragment source based on file extension: tesseract for
// images, embedded text for PDFs, saved engine output for JSON files.
func (e *Extractor) Extract(ctx context.Context, path string) ([]entity.Fragment, error) {
	start := time.Now()
	ext := constants.NormalizeExt(filepath.Ext(path))
	e.logger.Debug("starting fragment extraction", "path", path, "ext", ext)

	var frags []entity.Fragment
	var err error
	switch constants.MapExtToFormat(ext) {
	case constants.IMAGE:
		frags, err = e.extractImage(ctx, path)
	case constants.PDF:
		frags, err = extractPDF(path)
	case constants.JSON:
		frags, err = ReadFragmentsFile(path)
	default:
		e.logger.Error("unsupported input extension", "extension", ext)
		return nil, fmt.Errorf("unsupported extension %q: %w", ext, common.ErrInvalidInput)
	}
	if err != nil {
		return nil, err
	}

	e.logger.Info("fragments extracted",
		"path", path,
		"fragments", len(frags),
		"avg_confidence", AverageConfidence(frags),
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return frags, nil
}

func (e *Extractor) extractImage(ctx context.Context, path string) ([]entity.Fragment, error) {
	args := []string{
		path, "stdout",
		"-l", e.cfg.TesseractLang,
		"--psm", strconv.Itoa(e.cfg.PSM),
		"tsv",
	}
	out, err := e.runner.Run(ctx, e.cfg.Tesseract, args...)
	if err != nil {
		return nil, fmt.Errorf("tesseract %s: %w: %v", path, common.ErrOCRFailed, err)
	}
	frags := parseTSV(string(out))
	if len(frags) == 0 {
		return nil, fmt.Errorf("no text detected in %s: %w", path, common.ErrOCRFailed)
	}
	return frags, nil
}
