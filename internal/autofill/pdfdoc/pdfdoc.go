// Package pdfdoc loads uploaded PDFs and rasterizes their pages one at a
// time for text recognition.
package pdfdoc

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"

	"resume-builder/internal/extract"
)

// RenderScale is the page raster scale relative to 72 DPI.
const RenderScale = 2.0

// Document is a decoded upload.
type Document struct {
	Data  []byte
	pdf   *extract.PDF
	pages int
}

// Open decodes data. Content that is not a PDF fails with extract.ErrNotPDF.
func Open(data []byte) (*Document, error) {
	p, err := extract.OpenPDF(data)
	if err != nil {
		return nil, err
	}
	n := p.NumPages()
	if n <= 0 {
		return nil, fmt.Errorf("pdf has no pages")
	}
	return &Document{Data: data, pdf: p, pages: n}, nil
}

// NewDocument wraps raw bytes with a known page count and no text layer.
func NewDocument(data []byte, pages int) *Document {
	return &Document{Data: data, pages: pages}
}

// Pages returns the page count.
func (d *Document) Pages() int {
	return d.pages
}

// TextLayer returns the embedded text of a 1-based page, or "" when the
// document has none.
func (d *Document) TextLayer(page int) string {
	if d.pdf == nil {
		return ""
	}
	text, err := d.pdf.PageText(page)
	if err != nil {
		return ""
	}
	return text
}

// Rasterizer turns one page into a PNG image.
type Rasterizer interface {
	Rasterize(ctx context.Context, doc *Document, page int) ([]byte, error)
}

// Pdftoppm rasterizes pages with the poppler pdftoppm binary.
type Pdftoppm struct {
	Path string
	DPI  int
}

// NewPdftoppm returns a rasterizer at RenderScale.
func NewPdftoppm(path string) *Pdftoppm {
	if path == "" {
		path = "pdftoppm"
	}
	return &Pdftoppm{Path: path, DPI: int(72 * RenderScale)}
}

// Rasterize renders a 1-based page to PNG.
func (p *Pdftoppm) Rasterize(ctx context.Context, doc *Document, page int) ([]byte, error) {
	if page < 1 || page > doc.Pages() {
		return nil, fmt.Errorf("page %d out of range", page)
	}
	dir, err := os.MkdirTemp("", "autofill-page-*")
	if err != nil {
		return nil, err
	}
	defer os.RemoveAll(dir)

	in := filepath.Join(dir, "in.pdf")
	if err := os.WriteFile(in, doc.Data, 0o600); err != nil {
		return nil, err
	}
	outPrefix := filepath.Join(dir, "page")
	n := strconv.Itoa(page)

	var stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, p.Path, "-f", n, "-l", n, "-r", strconv.Itoa(p.DPI), "-png", "-singlefile", in, outPrefix)
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		return nil, fmt.Errorf("pdftoppm page %d: %w: %s", page, err, bytes.TrimSpace(stderr.Bytes()))
	}
	return os.ReadFile(outPrefix + ".png")
}

// NoRaster skips rasterization for engines that read the text layer.
type NoRaster struct{}

// Rasterize returns no image.
func (NoRaster) Rasterize(ctx context.Context, doc *Document, page int) ([]byte, error) {
	return nil, ctx.Err()
}
