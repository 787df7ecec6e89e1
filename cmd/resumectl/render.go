package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"resume-builder/resume/preview"
	"resume-builder/resume/render"
)

var renderCmd = &cobra.Command{
	Use:   "render",
	Short: "Export a resume document",
}

var renderDocxCmd = &cobra.Command{
	Use:   "docx",
	Short: "Export a resume document as DOCX",
	Args:  cobra.NoArgs,
	RunE:  runRenderDocx,
}

var renderPdfCmd = &cobra.Command{
	Use:   "pdf",
	Short: "Export a resume document as a single A4 PDF page",
	Long:  "Renders the HTML preview in headless Chrome, captures it at 2x and places the image on one A4 page.",
	Args:  cobra.NoArgs,
	RunE:  runRenderPdf,
}

var (
	renderInFile     string
	renderOutFile    string
	renderChromePath string
)

func init() {
	renderCmd.PersistentFlags().StringVarP(&renderInFile, "in", "i", "", "Path to resume JSON (default document when empty)")
	renderCmd.PersistentFlags().StringVarP(&renderOutFile, "out", "o", "", "Output path")
	renderPdfCmd.Flags().StringVar(&renderChromePath, "chrome", os.Getenv("CHROME_PATH"), "Chrome executable (auto-detected when empty)")

	renderCmd.AddCommand(renderDocxCmd, renderPdfCmd)
	rootCmd.AddCommand(renderCmd)
}

func runRenderDocx(cmd *cobra.Command, _ []string) error {
	doc, err := readDocument(renderInFile)
	if err != nil {
		return err
	}
	out, err := render.NewDocxRenderer().Render(doc)
	if err != nil {
		return fmt.Errorf("render failed: %w", err)
	}
	return writeOutput(cmd, orDefault(renderOutFile, render.DocxFileName), out)
}

func runRenderPdf(cmd *cobra.Command, _ []string) error {
	doc, err := readDocument(renderInFile)
	if err != nil {
		return err
	}
	html, err := preview.Render(doc)
	if err != nil {
		return fmt.Errorf("preview failed: %w", err)
	}
	chrome := render.NewChrome(renderChromePath)
	surface := &render.HTMLSurface{Chrome: chrome, HTML: string(html), Selector: preview.RootSelector}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	out, err := render.NewPdfRenderer(chrome).Render(ctx, surface)
	if err != nil {
		return fmt.Errorf("render failed: %w", err)
	}
	return writeOutput(cmd, orDefault(renderOutFile, render.PdfFileName), out)
}

func writeOutput(cmd *cobra.Command, path string, data []byte) error {
	if err := writeFile(path, data); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "OK: wrote %s (%d bytes)\n", path, len(data))
	return nil
}

func orDefault(v, def string) string {
	if v == "" {
		return def
	}
	return v
}
