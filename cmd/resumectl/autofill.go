package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"

	"github.com/spf13/cobra"

	"resume-builder/internal/autofill"
	"resume-builder/internal/autofill/ocr"
	"resume-builder/internal/autofill/pdfdoc"
	"resume-builder/resume/model"
)

var autofillCmd = &cobra.Command{
	Use:   "autofill",
	Short: "Fill a resume document from a PDF resume",
	Long:  "Rasterizes each page, recognizes its text, asks the AI backend to parse the text into resume JSON and merges the result into the input document.",
	Args:  cobra.NoArgs,
	RunE:  runAutofill,
}

var (
	autofillFile      string
	autofillInFile    string
	autofillOutFile   string
	autofillEngine    string
	autofillTesseract string
	autofillPdftoppm  string
	autofillFlags     suggesterFlags
)

func init() {
	autofillCmd.Flags().StringVarP(&autofillFile, "file", "f", "", "PDF resume to read (required)")
	autofillCmd.Flags().StringVarP(&autofillInFile, "in", "i", "", "Document to merge into (default document when empty)")
	autofillCmd.Flags().StringVarP(&autofillOutFile, "out", "o", "", "Where to write the merged document (stdout when empty)")
	autofillCmd.Flags().StringVar(&autofillEngine, "ocr", envOr("OCR_ENGINE", "tesseract"), "Recognition engine: tesseract or textlayer")
	autofillCmd.Flags().StringVar(&autofillTesseract, "tesseract", envOr("TESSERACT_PATH", "tesseract"), "tesseract executable")
	autofillCmd.Flags().StringVar(&autofillPdftoppm, "pdftoppm", envOr("PDFTOPPM_PATH", "pdftoppm"), "pdftoppm executable")
	_ = autofillCmd.MarkFlagRequired("file")
	autofillFlags.register(autofillCmd)

	rootCmd.AddCommand(autofillCmd)
}

func runAutofill(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt)
	defer stop()

	doc, err := readDocument(autofillInFile)
	if err != nil {
		return err
	}
	data, err := os.ReadFile(autofillFile)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", autofillFile, err)
	}

	s, release, err := autofillFlags.suggester(ctx)
	if err != nil {
		return err
	}
	defer release()

	engine := ocr.New(autofillEngine, autofillTesseract)
	var raster pdfdoc.Rasterizer = pdfdoc.NoRaster{}
	if engine.NeedsRaster() {
		raster = pdfdoc.NewPdftoppm(autofillPdftoppm)
	}
	pipeline := autofill.New(raster, engine, s)

	upload := autofill.Upload{FileName: filepath.Base(autofillFile), Data: data}
	res, err := pipeline.Run(ctx, upload, func(p model.Patch) error {
		doc = model.Merge(doc, p)
		return nil
	})
	if err != nil {
		status := pipeline.Status()
		if status.RawResponse != "" {
			fmt.Fprintf(cmd.ErrOrStderr(), "Raw AI output:\n%s\n\nOriginal OCR text:\n%s\n", status.RawResponse, status.ExtractedText)
		}
		return err
	}
	fmt.Fprintf(cmd.ErrOrStderr(), "Processed %d page(s).\n", res.Pages)
	return writeDocument(autofillOutFile, doc)
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
