package pipeline

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/comfythings/visaflow/constants"
	"github.com/comfythings/visaflow/internal/common"
)

type stubRecognizer struct {
	text         string
	rasterErr    error
	recognizeErr error
	rasterized   bool
	recognized   string
}

func (s *stubRecognizer) RasterizeFirstPage(_ context.Context, _, destDir string) (string, error) {
	if s.rasterErr != nil {
		return "", s.rasterErr
	}
	s.rasterized = true
	out := filepath.Join(destDir, "page.png")
	if err := os.WriteFile(out, []byte("png"), 0o644); err != nil {
		return "", err
	}
	return out, nil
}

func (s *stubRecognizer) Recognize(_ context.Context, imagePath string) (string, error) {
	if s.recognizeErr != nil {
		return "", s.recognizeErr
	}
	s.recognized = imagePath
	return s.text, nil
}

type stubLocator struct {
	photo string
}

func (s *stubLocator) Locate(context.Context, string) string { return s.photo }

const visaText = `Umrah Visa
Name الاسم: محمد الغزالي
Visa No: 1234567890
Travel Document AB1234567
Date of Birth: 01/05/1985`

const passportText = `جواز سفر
الاسم: محمد الغزالي
P<MARALGHAZALI<<MOHAMMED<<<<<<<<<<<<<<<<<<<<
AB12345674MAR8501019M3001017<<<<<<<<<<<<<<<<`

func TestProcessVisa(t *testing.T) {
	rec := &stubRecognizer{text: visaText}
	p := New(rec, &stubLocator{photo: "data:image/jpeg;base64,xx"}, nil)

	res, err := p.Process(context.Background(), "scan.jpg")
	require.NoError(t, err)
	require.Equal(t, constants.DocumentVisa, res.DocumentType)
	require.Equal(t, "محمد الغزالي", res.Record.FullName)
	require.Equal(t, "1234567890", res.Record.VisaNumber)
	require.Equal(t, "AB1234567", res.Record.PassportNumber)
	require.Equal(t, "01/05/1985", res.Record.BirthDate)
	require.Equal(t, "mhmdalg@comfythings.com", res.Record.Email)
	require.Equal(t, "data:image/jpeg;base64,xx", res.Record.Photo)
	require.False(t, rec.rasterized, "images must not be rasterized")
}

func TestProcessPassportPrefersMRZ(t *testing.T) {
	p := New(&stubRecognizer{text: passportText}, &stubLocator{}, nil)

	res, err := p.Process(context.Background(), "bio.png")
	require.NoError(t, err)
	require.Equal(t, constants.DocumentPassport, res.DocumentType)
	require.Equal(t, "AB1234567", res.Record.PassportNumber)
	require.Equal(t, "01/01/1985", res.Record.BirthDate)
	require.Empty(t, res.Record.VisaNumber)
	// Bio-page Arabic name wins over the MRZ name.
	require.Equal(t, "محمد الغزالي", res.Record.FullName)
	// Passport emails always come from the MRZ name fields.
	require.Equal(t, "alghazalimoh@comfythings.com", res.Record.Email)
}

func TestProcessPassportWithoutMRZ(t *testing.T) {
	text := `جواز سفر
Passport No: CD7654321
Date of Birth: 12/03/1990
الاسم: محمد الغزالي`
	p := New(&stubRecognizer{text: text}, &stubLocator{}, nil)

	res, err := p.Process(context.Background(), "bio.png")
	require.NoError(t, err)
	require.Equal(t, constants.DocumentPassport, res.DocumentType)
	require.Equal(t, "CD7654321", res.Record.PassportNumber)
	require.Equal(t, "12/03/1990", res.Record.BirthDate)
	require.Equal(t, "محمد الغزالي", res.Record.FullName)
	// No MRZ: email falls back to the transliterated document name.
	require.Equal(t, "alghzalymhm@comfythings.com", res.Record.Email)
}

func TestProcessPDFRasterizes(t *testing.T) {
	rec := &stubRecognizer{text: visaText}
	p := New(rec, &stubLocator{}, nil)

	_, err := p.Process(context.Background(), "visa.pdf")
	require.NoError(t, err)
	require.True(t, rec.rasterized)
	require.Equal(t, "page.png", filepath.Base(rec.recognized))
	_, statErr := os.Stat(filepath.Dir(rec.recognized))
	require.True(t, os.IsNotExist(statErr), "raster dir must be cleaned up")
}

func TestProcessUnsupportedExtension(t *testing.T) {
	p := New(&stubRecognizer{}, &stubLocator{}, nil)
	_, err := p.Process(context.Background(), "notes.txt")
	require.ErrorIs(t, err, common.ErrInvalidInput)
}

func TestProcessRasterizeFailure(t *testing.T) {
	rec := &stubRecognizer{rasterErr: errors.New("pdftoppm exploded")}
	p := New(rec, &stubLocator{}, nil)
	_, err := p.Process(context.Background(), "visa.pdf")
	require.ErrorIs(t, err, common.ErrConversion)
}

func TestProcessRecognizeFailure(t *testing.T) {
	rec := &stubRecognizer{recognizeErr: errors.New("tesseract exploded")}
	p := New(rec, &stubLocator{}, nil)
	_, err := p.Process(context.Background(), "scan.jpg")
	require.ErrorIs(t, err, common.ErrRecognition)
}

func TestProcessEmptyTextStillShaped(t *testing.T) {
	p := New(&stubRecognizer{text: ""}, &stubLocator{}, nil)

	res, err := p.Process(context.Background(), "blank.png")
	require.NoError(t, err)
	require.Equal(t, constants.DocumentVisa, res.DocumentType)
	require.Empty(t, res.Record.FullName)
	require.Empty(t, res.Record.Email)
	require.Empty(t, res.Record.PassportNumber)
	require.Empty(t, res.Record.VisaNumber)
	require.Empty(t, res.Record.BirthDate)
	require.Empty(t, res.Record.Photo)
}
