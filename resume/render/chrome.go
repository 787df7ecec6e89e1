package render

import (
	"bytes"
	"context"
	"encoding/base64"
	"fmt"
	"image"
	"image/jpeg"
	_ "image/png" // screenshot decoding
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/chromedp"
)

const (
	defaultChromeTimeout = 60 * time.Second
	previewViewportWidth = 900
	jpegQuality          = 98
)

// Chrome drives a headless Chrome through chromedp. It captures HTML
// surfaces and prints A4 pages.
type Chrome struct {
	ExecPath string
	Timeout  time.Duration
}

// NewChrome returns a Chrome using CHROME_PATH when execPath is empty.
func NewChrome(execPath string) *Chrome {
	if execPath == "" {
		execPath = os.Getenv("CHROME_PATH")
	}
	return &Chrome{ExecPath: execPath, Timeout: defaultChromeTimeout}
}

func (c *Chrome) run(ctx context.Context, actions ...chromedp.Action) error {
	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", true),
		chromedp.Flag("no-sandbox", true),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("disable-dev-shm-usage", true),
	)
	if c.ExecPath != "" {
		opts = append(opts, chromedp.ExecPath(c.ExecPath))
	}

	allocCtx, cancel := chromedp.NewExecAllocator(ctx, opts...)
	defer cancel()

	browserCtx, cancelBrowser := chromedp.NewContext(allocCtx)
	defer cancelBrowser()

	timeout := c.Timeout
	if timeout <= 0 {
		timeout = defaultChromeTimeout
	}
	runCtx, cancelRun := context.WithTimeout(browserCtx, timeout)
	defer cancelRun()

	return chromedp.Run(runCtx, actions...)
}

// HTMLSurface is a capture surface backed by an HTML document. Selector
// identifies the element that is captured.
type HTMLSurface struct {
	Chrome   *Chrome
	HTML     string
	Selector string
}

// HasCaptureRoot reports whether html contains an element matching selector.
func HasCaptureRoot(html, selector string) bool {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return false
	}
	return doc.Find(selector).Length() > 0
}

// Capture screenshots the selected element at scale and re-encodes it as JPEG.
func (s *HTMLSurface) Capture(ctx context.Context, scale float64) (Raster, error) {
	if s == nil || s.Chrome == nil || !HasCaptureRoot(s.HTML, s.Selector) {
		return Raster{}, ErrSurfaceUnavailable
	}

	htmlPath, cleanup, err := writeTempHTML(s.HTML)
	if err != nil {
		return Raster{}, err
	}
	defer cleanup()

	var shot []byte
	err = s.Chrome.run(ctx,
		chromedp.EmulateViewport(previewViewportWidth, 1200, chromedp.EmulateScale(scale)),
		chromedp.Navigate("file://"+htmlPath),
		chromedp.WaitVisible(s.Selector, chromedp.ByQuery),
		chromedp.Screenshot(s.Selector, &shot, chromedp.NodeVisible, chromedp.ByQuery),
	)
	if err != nil {
		return Raster{}, fmt.Errorf("chrome capture: %w", err)
	}

	img, _, err := image.Decode(bytes.NewReader(shot))
	if err != nil {
		return Raster{}, fmt.Errorf("decode screenshot: %w", err)
	}
	var out bytes.Buffer
	if err := jpeg.Encode(&out, img, &jpeg.Options{Quality: jpegQuality}); err != nil {
		return Raster{}, fmt.Errorf("encode jpeg: %w", err)
	}
	bounds := img.Bounds()
	return Raster{Data: out.Bytes(), Format: "jpeg", Width: bounds.Dx(), Height: bounds.Dy()}, nil
}

// WriteA4 prints a one-page A4 PDF with img placed at placement.
func (c *Chrome) WriteA4(ctx context.Context, img Raster, placement Placement) ([]byte, error) {
	htmlPath, cleanup, err := writeTempHTML(pageHTML(img, placement))
	if err != nil {
		return nil, err
	}
	defer cleanup()

	var pdfBuf []byte
	err = c.run(ctx,
		chromedp.Navigate("file://"+htmlPath),
		chromedp.WaitReady("img", chromedp.ByQuery),
		chromedp.ActionFunc(func(ctx context.Context) error {
			var err error
			// A4: 210mm x 297mm -> inches: 8.27 x 11.69
			pdfBuf, _, err = page.PrintToPDF().
				WithPrintBackground(true).
				WithPaperWidth(8.27).
				WithPaperHeight(11.69).
				WithMarginTop(0).
				WithMarginBottom(0).
				WithMarginLeft(0).
				WithMarginRight(0).
				WithPreferCSSPageSize(true).
				Do(ctx)
			return err
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("chrome print: %w", err)
	}
	return pdfBuf, nil
}

func pageHTML(img Raster, p Placement) string {
	format := img.Format
	if format == "" {
		format = "jpeg"
	}
	return fmt.Sprintf(`<!DOCTYPE html>
<html><head><meta charset="utf-8"><style>
@page { size: A4; margin: 0; }
html, body { margin: 0; padding: 0; width: 210mm; height: 297mm; overflow: hidden; }
img { position: absolute; left: %.3fmm; top: %.3fmm; width: %.3fmm; height: %.3fmm; }
</style></head>
<body><img src="data:image/%s;base64,%s" alt=""></body></html>`,
		p.X, p.Y, p.Width, p.Height, format, base64.StdEncoding.EncodeToString(img.Data))
}

func writeTempHTML(html string) (string, func(), error) {
	dir, err := os.MkdirTemp("", "resume-render-")
	if err != nil {
		return "", nil, fmt.Errorf("temp dir: %w", err)
	}
	path := filepath.Join(dir, "index.html")
	if err := os.WriteFile(path, []byte(html), 0o644); err != nil {
		os.RemoveAll(dir)
		return "", nil, fmt.Errorf("write html: %w", err)
	}
	return path, func() { os.RemoveAll(dir) }, nil
}

var (
	_ Surface    = (*HTMLSurface)(nil)
	_ PageWriter = (*Chrome)(nil)
)
