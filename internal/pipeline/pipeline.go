// Package pipeline sequences one upload through rasterization, text
// recognition, classification, field extraction, photo location and
// email synthesis, and assembles the resulting client record.
package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/comfythings/visaflow/constants"
	"github.com/comfythings/visaflow/internal/classify"
	"github.com/comfythings/visaflow/internal/common"
	"github.com/comfythings/visaflow/internal/email"
	"github.com/comfythings/visaflow/internal/entity"
	"github.com/comfythings/visaflow/internal/fields"
	"github.com/comfythings/visaflow/internal/mrz"
)

// Recognizer is the rasterizing/recognizing collaborator: file in,
// flat text out. Satisfied by *ocr.Engine; stubbed in tests.
type Recognizer interface {
	RasterizeFirstPage(ctx context.Context, pdfPath, destDir string) (string, error)
	Recognize(ctx context.Context, imagePath string) (string, error)
}

// PhotoLocator derives the client photo from the OCR source image.
// Satisfied by *photo.Locator.
type PhotoLocator interface {
	Locate(ctx context.Context, imagePath string) string
}

// Result is one finished extraction run.
type Result struct {
	Record       entity.ExtractedRecord
	DocumentType constants.DocumentType
	Text         string // recognized text, kept for staff review
	Duration     time.Duration
}

type Pipeline struct {
	recognizer Recognizer
	locator    PhotoLocator
	logger     *slog.Logger
}

func New(recognizer Recognizer, locator PhotoLocator, logger *slog.Logger) *Pipeline {
	if logger == nil {
		logger = slog.Default()
	}
	return &Pipeline{recognizer: recognizer, locator: locator, logger: logger}
}

// Process runs the full extraction pipeline for one uploaded file.
// Rasterization and recognition failures abort the call; every other
// miss degrades to an empty field in an otherwise fully shaped record.
func (p *Pipeline) Process(ctx context.Context, path string) (Result, error) {
	start := time.Now()

	format := constants.MapExtToFormat(filepath.Ext(path))
	if format == "" {
		return Result{}, common.NewAppError("UNSUPPORTED_FORMAT",
			fmt.Sprintf("unsupported extension: %q", filepath.Ext(path)), common.ErrInvalidInput)
	}

	imagePath := path
	if format == constants.PDF {
		tmpDir, err := os.MkdirTemp("", "visaflow-raster-*")
		if err != nil {
			return Result{}, common.NewAppError("CONVERSION_ERROR", "create raster dir", common.ErrConversion)
		}
		defer func() {
			if rmErr := os.RemoveAll(tmpDir); rmErr != nil {
				p.logger.Warn("failed to remove raster dir", "dir", tmpDir, "error", rmErr)
			}
		}()

		imagePath, err = p.recognizer.RasterizeFirstPage(ctx, path, tmpDir)
		if err != nil {
			return Result{}, common.NewAppError("CONVERSION_ERROR", err.Error(), common.ErrConversion)
		}
	}

	// The photo branch only depends on the source image, so it runs
	// alongside recognition. It communicates by a single channel send;
	// nothing else is shared.
	photoCh := make(chan string, 1)
	go func() {
		photoCh <- p.locator.Locate(ctx, imagePath)
	}()

	text, err := p.recognizer.Recognize(ctx, imagePath)
	if err != nil {
		<-photoCh // let the branch finish before the temp dir is removed
		return Result{}, common.NewAppError("RECOGNITION_ERROR", err.Error(), common.ErrRecognition)
	}

	docType := classify.Detect(text)
	record := p.assembleRecord(text, docType)
	record.Photo = <-photoCh

	res := Result{
		Record:       record,
		DocumentType: docType,
		Text:         text,
		Duration:     time.Since(start),
	}

	p.logger.Info("extraction complete",
		"path", path,
		"document_type", docType,
		"name_found", record.FullName != "",
		"photo_found", record.Photo != "",
		"duration_ms", res.Duration.Milliseconds(),
	)
	return res, nil
}

func (p *Pipeline) assembleRecord(text string, docType constants.DocumentType) entity.ExtractedRecord {
	if docType == constants.DocumentPassport {
		return p.assemblePassport(text)
	}
	return p.assembleVisa(text)
}

func (p *Pipeline) assembleVisa(text string) entity.ExtractedRecord {
	name := fields.FullName(text)
	return entity.ExtractedRecord{
		FullName:       name,
		Email:          email.ForVisa(text, name),
		PassportNumber: fields.PassportNumber(text),
		VisaNumber:     fields.VisaNumber(text),
		BirthDate:      fields.BirthDate(text),
	}
}

func (p *Pipeline) assemblePassport(text string) entity.ExtractedRecord {
	decoded := mrz.Decode(text)
	if decoded == nil {
		p.logger.Debug("no MRZ located; using pattern extractors")
	}

	record := entity.ExtractedRecord{
		PassportNumber: fields.PassportNumber(text),
		BirthDate:      fields.BirthDate(text),
		// A passport never carries a visa number.
	}

	var mrzLast, mrzFirst string
	if decoded != nil {
		mrzLast, mrzFirst = decoded.LastName, decoded.FirstName
		if decoded.PassportNumber != "" {
			record.PassportNumber = decoded.PassportNumber
		}
		if decoded.BirthDate != "" {
			record.BirthDate = decoded.BirthDate
		}
	}

	// Name preference: Arabic bio page, then the general extractors,
	// then the MRZ name fields.
	record.FullName = fields.ArabicBioName(text)
	if record.FullName == "" {
		record.FullName = fields.FullName(text)
	}
	if record.FullName == "" {
		record.FullName = strings.TrimSpace(mrzFirst + " " + mrzLast)
	}

	record.Email = email.ForPassport(mrzLast, mrzFirst, record.FullName)
	return record
}
