package render

import (
	"context"
	"errors"
	"fmt"
)

// PdfFileName is the attachment name used for exported PDFs.
const PdfFileName = "ai-resume.pdf"

// ErrSurfaceUnavailable is returned when there is nothing to capture.
var ErrSurfaceUnavailable = errors.New("resume preview surface unavailable")

// Raster is a captured image of the preview.
type Raster struct {
	Data   []byte
	Format string // "jpeg" or "png"
	Width  int
	Height int
}

// Surface produces a raster of the visual resume at the given pixel density.
type Surface interface {
	Capture(ctx context.Context, scale float64) (Raster, error)
}

// PageWriter writes a single-page A4 PDF holding img at placement.
type PageWriter interface {
	WriteA4(ctx context.Context, img Raster, placement Placement) ([]byte, error)
}

// PdfRenderer exports the preview as a single A4 page. Content taller than
// the page is scaled down to fit rather than split across pages.
type PdfRenderer struct {
	Writer PageWriter
	Scale  float64
}

// NewPdfRenderer constructs a PdfRenderer using w for page output.
func NewPdfRenderer(w PageWriter) *PdfRenderer {
	return &PdfRenderer{Writer: w, Scale: CaptureScale}
}

// Render captures s and places the image on one A4 page.
func (r *PdfRenderer) Render(ctx context.Context, s Surface) ([]byte, error) {
	if s == nil {
		return nil, ErrSurfaceUnavailable
	}
	if r.Writer == nil {
		return nil, errors.New("pdf page writer not configured")
	}
	scale := r.Scale
	if scale <= 0 {
		scale = CaptureScale
	}
	img, err := s.Capture(ctx, scale)
	if err != nil {
		return nil, fmt.Errorf("capture preview: %w", err)
	}
	placement, err := FitA4(img.Width, img.Height)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSurfaceUnavailable, err)
	}
	out, err := r.Writer.WriteA4(ctx, img, placement)
	if err != nil {
		return nil, fmt.Errorf("write pdf: %w", err)
	}
	return out, nil
}
