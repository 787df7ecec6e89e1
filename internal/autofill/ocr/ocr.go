// Package ocr recognizes text on rasterized pages. An Engine hands out one
// Recognizer per autofill run; the caller releases it once after the last
// page.
package ocr

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
)

// Page is one page handed to a recognizer.
type Page struct {
	Number    int
	Image     []byte
	TextLayer string
}

// Recognizer reads text from pages. It is not safe for concurrent use.
type Recognizer interface {
	Recognize(ctx context.Context, p Page) (string, error)
	Close() error
}

// Engine acquires recognizers.
type Engine interface {
	Start(ctx context.Context) (Recognizer, error)
	// NeedsRaster reports whether pages must be rasterized first.
	NeedsRaster() bool
}

// Tesseract runs the tesseract binary.
type Tesseract struct {
	Path string
	Lang string
}

// NewTesseract returns an English tesseract engine.
func NewTesseract(path string) *Tesseract {
	if path == "" {
		path = "tesseract"
	}
	return &Tesseract{Path: path, Lang: "eng"}
}

func (t *Tesseract) NeedsRaster() bool { return true }

// Start checks the binary and prepares a scratch directory for page images.
func (t *Tesseract) Start(ctx context.Context) (Recognizer, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	bin, err := exec.LookPath(t.Path)
	if err != nil {
		return nil, fmt.Errorf("tesseract not available: %w", err)
	}
	dir, err := os.MkdirTemp("", "ocr-*")
	if err != nil {
		return nil, err
	}
	return &tesseractSession{bin: bin, lang: t.Lang, dir: dir}, nil
}

type tesseractSession struct {
	bin  string
	lang string
	dir  string
}

func (s *tesseractSession) Recognize(ctx context.Context, p Page) (string, error) {
	if len(p.Image) == 0 {
		return "", fmt.Errorf("page %d has no image", p.Number)
	}
	in := filepath.Join(s.dir, fmt.Sprintf("page-%d.png", p.Number))
	if err := os.WriteFile(in, p.Image, 0o600); err != nil {
		return "", err
	}
	defer os.Remove(in)

	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, s.bin, in, "stdout", "-l", s.lang)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		return "", fmt.Errorf("tesseract page %d: %w: %s", p.Number, err, bytes.TrimSpace(stderr.Bytes()))
	}
	return strings.TrimRight(stdout.String(), "\n\f "), nil
}

func (s *tesseractSession) Close() error {
	return os.RemoveAll(s.dir)
}

// TextLayer reads the text embedded in the PDF instead of recognizing
// pixels. It suits born-digital resumes and hosts without tesseract.
type TextLayer struct{}

func (TextLayer) NeedsRaster() bool { return false }

func (TextLayer) Start(ctx context.Context) (Recognizer, error) {
	return textLayerSession{}, ctx.Err()
}

type textLayerSession struct{}

func (textLayerSession) Recognize(ctx context.Context, p Page) (string, error) {
	return strings.TrimSpace(p.TextLayer), ctx.Err()
}

func (textLayerSession) Close() error { return nil }

// New picks an engine by name: "textlayer" or "tesseract".
func New(name, tesseractPath string) Engine {
	if strings.EqualFold(strings.TrimSpace(name), "textlayer") {
		return TextLayer{}
	}
	return NewTesseract(tesseractPath)
}
