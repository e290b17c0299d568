package ocr

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"os/exec"
	"strings"
	"time"
)

// Runner abstracts the external recognition command so tests can stub the
// engine without a tesseract install.
type Runner interface {
	Run(ctx context.Context, name string, args ...string) ([]byte, error)
}

// stderrCap bounds how much engine noise is carried into logs and errors.
const stderrCap = 8 << 10

// execRunner shells out and reports through the extractor's logger. Engine
// stderr is folded into the returned error; callers only ever see stdout.
type execRunner struct {
	logger *slog.Logger
}

func (r execRunner) Run(ctx context.Context, name string, args ...string) ([]byte, error) {
	start := time.Now()

	cmd := exec.CommandContext(ctx, name, args...)
	var out, errb bytes.Buffer
	cmd.Stdout = &out
	cmd.Stderr = &errb

	err := cmd.Run()
	dur := time.Since(start)

	if err != nil {
		noise := truncate(strings.TrimSpace(errb.String()), stderrCap)
		r.logger.Error("engine exec failed",
			"cmd", name,
			"args", strings.Join(args, " "),
			"duration_ms", dur.Milliseconds(),
			"error", err,
			"stderr", noise,
		)
		if noise != "" {
			return nil, fmt.Errorf("%s: %w: %s", name, err, noise)
		}
		return nil, fmt.Errorf("%s: %w", name, err)
	}

	r.logger.Debug("engine exec ok",
		"cmd", name,
		"args", strings.Join(args, " "),
		"duration_ms", dur.Milliseconds(),
		"stdout_bytes", out.Len(),
	)
	return out.Bytes(), nil
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max] + "...(truncated)"
}
