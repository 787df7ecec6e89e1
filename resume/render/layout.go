package render

import "fmt"

const (
	A4WidthMM  = 210.0
	A4HeightMM = 297.0
	// CaptureScale is the pixel density used when rasterizing the preview.
	CaptureScale = 2.0
)

// Placement is the position and size of an image on an A4 page, in mm.
type Placement struct {
	X      float64
	Y      float64
	Width  float64
	Height float64
}

// FitA4 scales an image of the given pixel size to the largest box that fits
// an A4 page while keeping its aspect ratio, centered on both axes.
func FitA4(widthPx, heightPx int) (Placement, error) {
	if widthPx <= 0 || heightPx <= 0 {
		return Placement{}, fmt.Errorf("invalid image size %dx%d", widthPx, heightPx)
	}
	aspect := float64(widthPx) / float64(heightPx)
	var w, h float64
	if aspect > A4WidthMM/A4HeightMM {
		w = A4WidthMM
		h = A4WidthMM / aspect
	} else {
		h = A4HeightMM
		w = A4HeightMM * aspect
	}
	return Placement{
		X:      (A4WidthMM - w) / 2,
		Y:      (A4HeightMM - h) / 2,
		Width:  w,
		Height: h,
	}, nil
}
