package ocr

import (
	"context"
	"testing"
)

func TestNewPicksEngine(t *testing.T) {
	if _, ok := New("textlayer", "").(TextLayer); !ok {
		t.Fatalf("expected text layer engine")
	}
	eng, ok := New("tesseract", "/opt/tesseract").(*Tesseract)
	if !ok || eng.Path != "/opt/tesseract" || eng.Lang != "eng" {
		t.Fatalf("unexpected tesseract engine %+v", eng)
	}
}

func TestTextLayerRecognizer(t *testing.T) {
	rec, err := TextLayer{}.Start(context.Background())
	if err != nil {
		t.Fatalf("start: %v", err)
	}
	defer rec.Close()

	got, err := rec.Recognize(context.Background(), Page{Number: 1, TextLayer: "  Jane Doe\nEngineer \n"})
	if err != nil {
		t.Fatalf("recognize: %v", err)
	}
	if got != "Jane Doe\nEngineer" {
		t.Fatalf("unexpected text %q", got)
	}
}

func TestTesseractMissingBinary(t *testing.T) {
	eng := NewTesseract("/nonexistent/tesseract-binary")
	if _, err := eng.Start(context.Background()); err == nil {
		t.Fatalf("expected error for missing binary")
	}
}
