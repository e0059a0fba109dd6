package photo

import (
	"bytes"
	"context"
	"encoding/base64"
	"image"
	"image/jpeg"
	"log/slog"
	"os"

	_ "image/png" // rasterizer output

	xdraw "golang.org/x/image/draw"
)

const (
	// fallbackMaxDim bounds the full-image fallback.
	fallbackMaxDim = 1200

	// padFactor expands a detected face box by 25% on each side.
	padFactor = 0.25

	cropQuality     = 90
	fallbackQuality = 80
)

type Locator struct {
	detector Detector
	logger   *slog.Logger
}

// NewLocator builds a locator; detector may be nil, in which case every
// image takes the full-frame fallback path.
func NewLocator(detector Detector, logger *slog.Logger) *Locator {
	if logger == nil {
		logger = slog.Default()
	}
	return &Locator{detector: detector, logger: logger}
}

// Locate returns the client photo as a JPEG data URI: a padded face
// crop when detection succeeds, otherwise the full image downscaled so
// neither dimension exceeds fallbackMaxDim. An unreadable image yields
// "" — photo absence never fails the pipeline call.
func (l *Locator) Locate(ctx context.Context, imagePath string) string {
	img, err := loadImage(imagePath)
	if err != nil {
		l.logger.Warn("photo source unreadable", "path", imagePath, "error", err)
		return ""
	}

	if l.detector != nil {
		box, err := l.detector.DetectFace(ctx, img)
		if err != nil {
			l.logger.Warn("face detection failed; using full image", "path", imagePath, "error", err)
		} else if box != nil {
			if uri, err := encodeDataURI(cropFace(img, *box), cropQuality); err == nil {
				return uri
			}
		}
	}

	uri, err := encodeDataURI(scaleToFit(img, fallbackMaxDim), fallbackQuality)
	if err != nil {
		l.logger.Warn("photo encode failed", "path", imagePath, "error", err)
		return ""
	}
	return uri
}

func loadImage(path string) (image.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	return img, err
}

// cropFace expands the box by padFactor on each side, clamps it to the
// image bounds, and copies the region out.
func cropFace(img image.Image, box Box) image.Image {
	bounds := img.Bounds()
	padX := int(float64(box.Width) * padFactor)
	padY := int(float64(box.Height) * padFactor)

	rect := image.Rect(
		max(bounds.Min.X, box.X-padX),
		max(bounds.Min.Y, box.Y-padY),
		min(bounds.Max.X, box.X+box.Width+padX),
		min(bounds.Max.Y, box.Y+box.Height+padY),
	)

	dst := image.NewRGBA(image.Rect(0, 0, rect.Dx(), rect.Dy()))
	xdraw.Copy(dst, image.Point{}, img, rect, xdraw.Src, nil)
	return dst
}

// scaleToFit downscales so that max(width, height) <= maxDim, keeping
// the aspect ratio. Images already inside the box pass through.
func scaleToFit(img image.Image, maxDim int) image.Image {
	bounds := img.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	if w <= maxDim && h <= maxDim {
		return img
	}

	scale := float64(maxDim) / float64(w)
	if h > w {
		scale = float64(maxDim) / float64(h)
	}
	dw := int(float64(w) * scale)
	dh := int(float64(h) * scale)
	if dw < 1 {
		dw = 1
	}
	if dh < 1 {
		dh = 1
	}

	dst := image.NewRGBA(image.Rect(0, 0, dw, dh))
	xdraw.CatmullRom.Scale(dst, dst.Bounds(), img, bounds, xdraw.Src, nil)
	return dst
}

func encodeDataURI(img image.Image, quality int) (string, error) {
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: quality}); err != nil {
		return "", err
	}
	return "data:image/jpeg;base64," + base64.StdEncoding.EncodeToString(buf.Bytes()), nil
}
