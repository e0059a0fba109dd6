// runextract runs the extraction pipeline over a file or a directory
// of files and prints the assembled records as JSON on stdout.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/comfythings/visaflow/internal/common"
	"github.com/comfythings/visaflow/internal/entity"
	"github.com/comfythings/visaflow/internal/ingest"
	"github.com/comfythings/visaflow/internal/ocr"
	"github.com/comfythings/visaflow/internal/photo"
	"github.com/comfythings/visaflow/internal/pipeline"
)

type output struct {
	Path         string                  `json:"path"`
	DocumentType string                  `json:"document_type,omitempty"`
	Record       *entity.ExtractedRecord `json:"record,omitempty"`
	Text         string                  `json:"text,omitempty"`
	DurationMS   int64                   `json:"duration_ms,omitempty"`
	Error        string                  `json:"error,omitempty"`
}

func main() {
	var (
		skipHidden = flag.Bool("skip-hidden", true, "skip hidden files when scanning a directory")
		withText   = flag.Bool("text", false, "include the recognized text in the output")
	)
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "usage: %s [flags] <file-or-directory>\n", os.Args[0])
		flag.PrintDefaults()
	}
	flag.Parse()
	if flag.NArg() != 1 {
		flag.Usage()
		os.Exit(2)
	}

	// Keep stdout for the records; diagnostics go to stderr.
	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))
	slog.SetDefault(logger)

	cfg := common.LoadConfig()

	engine := ocr.NewEngine(ocr.Config{
		Pdftoppm:    cfg.OCR.Pdftoppm,
		Tesseract:   cfg.OCR.Tesseract,
		Languages:   cfg.OCR.Languages,
		TessdataDir: cfg.OCR.TessdataDir,
	}, logger)

	var detector photo.Detector
	if cfg.Detector.BaseURL != "" {
		detector = photo.NewHTTPDetector(cfg.Detector.BaseURL, cfg.Detector.Timeout)
	}
	pipe := pipeline.New(engine, photo.NewLocator(detector, logger), logger)

	target := flag.Arg(0)
	paths, err := collect(target, *skipHidden)
	if err != nil {
		logger.Error("failed to resolve target", "target", target, "error", err)
		os.Exit(1)
	}
	if len(paths) == 0 {
		logger.Error("no document files found", "target", target)
		os.Exit(1)
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")

	failed := 0
	for _, path := range paths {
		out := output{Path: path}
		res, err := pipe.Process(context.Background(), path)
		if err != nil {
			out.Error = err.Error()
			failed++
		} else {
			out.DocumentType = string(res.DocumentType)
			out.Record = &res.Record
			out.DurationMS = res.Duration.Milliseconds()
			if *withText {
				out.Text = res.Text
			}
		}
		if err := enc.Encode(out); err != nil {
			logger.Error("failed to encode output", "error", err)
			os.Exit(1)
		}
	}

	if failed == len(paths) {
		os.Exit(1)
	}
}

func collect(target string, skipHidden bool) ([]string, error) {
	info, err := os.Stat(target)
	if err != nil {
		return nil, err
	}
	if !info.IsDir() {
		return []string{target}, nil
	}
	paths, _, err := ingest.ScanDirectory(target, skipHidden)
	return paths, err
}
