package ocr

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/pdfcpu/pdfcpu/pkg/api"
)

// RasterizeFirstPage renders page 1 of a PDF to a PNG inside destDir
// and returns the image path. The document is validated with pdfcpu
// before the renderer is invoked; a corrupt container fails here rather
// than as an opaque pdftoppm exit code.
//
// Rendering failure aborts the whole pipeline call for that upload; the
// caller must not retry.
func (e *Engine) RasterizeFirstPage(ctx context.Context, pdfPath, destDir string) (string, error) {
	pages, err := api.PageCountFile(pdfPath)
	if err != nil {
		return "", fmt.Errorf("validate pdf: %w", err)
	}
	if pages < 1 {
		return "", fmt.Errorf("pdf has no pages")
	}

	prefix := filepath.Join(destDir, "page")
	// pdftoppm -f 1 -l 1 -r <dpi> -png -singlefile <in.pdf> <dest/page>
	_, errb, err := e.runner.Run(ctx, e.cfg.Pdftoppm,
		"-f", "1", "-l", "1",
		"-r", fmt.Sprintf("%d", e.cfg.DPI),
		"-png", "-singlefile",
		pdfPath, prefix,
	)
	if err != nil {
		return "", fmt.Errorf("pdftoppm: %w (%s)", err, truncate(string(errb), 512))
	}

	out := prefix + ".png"
	if st, statErr := os.Stat(out); statErr != nil || st.Size() == 0 {
		return "", fmt.Errorf("pdftoppm produced no image")
	}

	e.logger.Debug("rasterized first page", "pdf", pdfPath, "image", out, "pages_total", pages)
	return out, nil
}
