package ocr

import (
	"context"
	"fmt"
	"log/slog"
	"time"
)

// Text recognition runs tesseract with a combined Arabic+Latin script
// hint; both scripts appear on Saudi visa stamps and passport bio pages.
const DefaultLanguages = "ara+eng"

// DefaultDPI renders PDF pages at twice the 72 DPI user-space
// resolution, which is enough for tesseract to resolve stamp text.
const DefaultDPI = 144

type Config struct {
	Pdftoppm  string // binary name or absolute path; if empty -> "pdftoppm"
	Tesseract string // binary name or absolute path; if empty -> "tesseract"

	Languages   string // tesseract -l value, default DefaultLanguages
	DPI         int    // rasterization DPI for PDFs, default DefaultDPI
	TessdataDir string

	PSM int // page segmentation mode; 0 uses tesseract's default
}

// Engine drives the external rasterizer and recognizer binaries.
type Engine struct {
	cfg    Config
	runner Runner
	logger *slog.Logger
}

func NewEngine(cfg Config, logger *slog.Logger) *Engine {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.Pdftoppm == "" {
		cfg.Pdftoppm = "pdftoppm"
	}
	if cfg.Tesseract == "" {
		cfg.Tesseract = "tesseract"
	}
	if cfg.Languages == "" {
		cfg.Languages = DefaultLanguages
	}
	if cfg.DPI <= 0 {
		cfg.DPI = DefaultDPI
	}
	return &Engine{cfg: cfg, runner: execRunner{}, logger: logger}
}

// Recognize runs tesseract over a still image and returns the
// recognized text, normalized. Recognizer failure is fatal to the
// caller's pipeline run.
func (e *Engine) Recognize(ctx context.Context, imagePath string) (string, error) {
	start := time.Now()

	args := []string{imagePath, "stdout", "-l", e.cfg.Languages}
	if e.cfg.PSM > 0 {
		args = append(args, "--psm", fmt.Sprintf("%d", e.cfg.PSM))
	}
	if e.cfg.TessdataDir != "" {
		args = append(args, "--tessdata-dir", e.cfg.TessdataDir)
	}

	out, errb, err := e.runner.Run(ctx, e.cfg.Tesseract, args...)
	if err != nil {
		return "", fmt.Errorf("tesseract: %w (%s)", err, truncate(string(errb), 512))
	}

	txt := Normalize(string(out))
	e.logger.Debug("recognition ok",
		"path", imagePath,
		"lang", e.cfg.Languages,
		"bytes", len(txt),
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return txt, nil
}
