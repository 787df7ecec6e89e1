// Package extract reads text out of uploaded PDFs and generated DOCX files.
// PDFs go through github.com/ledongthuc/pdf; DOCX bodies are read straight
// from word/document.xml.
package extract

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/ledongthuc/pdf"
)

const (
	MimePDF  = "application/pdf"
	MimeDOCX = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
)

// ErrNotPDF is returned when a payload is not a PDF.
var ErrNotPDF = errors.New("file is not a pdf")

var pdfMagic = []byte("%PDF-")

// IsPDF reports whether the upload is a PDF. The declared type and file
// name are consulted first; the content must carry the PDF header either way.
func IsPDF(mimeType, fileName string, data []byte) bool {
	if !bytes.HasPrefix(data, pdfMagic) {
		return false
	}
	switch normalizeMimeType(mimeType, fileName, data) {
	case MimePDF, "application/octet-stream", "":
		return true
	default:
		return false
	}
}

// PDF is a decoded PDF held in memory.
type PDF struct {
	reader *pdf.Reader
	pages  int
}

// OpenPDF decodes data and counts its pages. Content the pdf library cannot
// parse fails with an error, including input that makes it panic.
func OpenPDF(data []byte) (doc *PDF, err error) {
	if !bytes.HasPrefix(data, pdfMagic) {
		return nil, ErrNotPDF
	}
	// the pdf library panics on broken xref tables and object streams
	defer func() {
		if r := recover(); r != nil {
			doc, err = nil, fmt.Errorf("decode pdf: %v", r)
		}
	}()
	r, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("decode pdf: %w", err)
	}
	return &PDF{reader: r, pages: r.NumPage()}, nil
}

// NumPages returns the page count.
func (p *PDF) NumPages() int {
	return p.pages
}

// PageText returns the embedded text layer of a 1-based page. Scanned pages
// yield an empty string.
func (p *PDF) PageText(page int) (text string, err error) {
	if page < 1 || page > p.NumPages() {
		return "", fmt.Errorf("page %d out of range", page)
	}
	// the pdf library panics on some malformed font dictionaries
	defer func() {
		if r := recover(); r != nil {
			text, err = "", fmt.Errorf("read page %d: %v", page, r)
		}
	}()
	pg := p.reader.Page(page)
	if pg.V.IsNull() || pg.V.Key("Contents").IsNull() {
		return "", nil
	}
	return pg.GetPlainText(nil)
}

// DocxText returns the paragraphs of a DOCX body, one per line.
func DocxText(data []byte) (string, error) {
	if len(data) == 0 {
		return "", errors.New("empty docx data")
	}
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", err
	}

	var docFile *zip.File
	for _, f := range zr.File {
		name := strings.ReplaceAll(f.Name, "\\", "/")
		if name == "word/document.xml" {
			docFile = f
			break
		}
	}
	if docFile == nil {
		return "", errors.New("document.xml file not found")
	}

	rc, err := docFile.Open()
	if err != nil {
		return "", err
	}
	defer rc.Close()

	raw, err := io.ReadAll(rc)
	if err != nil {
		return "", err
	}

	return stripDocxXML(string(raw)), nil
}

func stripDocxXML(raw string) string {
	decoder := xml.NewDecoder(strings.NewReader(raw))
	var buf strings.Builder
	for {
		tok, err := decoder.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return raw
		}
		switch t := tok.(type) {
		case xml.CharData:
			buf.WriteString(string(t))
		case xml.EndElement:
			if t.Name.Local == "p" || t.Name.Local == "br" {
				if last := buf.Len(); last > 0 {
					buf.WriteString("\n")
				}
			}
		}
	}
	return strings.TrimSpace(buf.String())
}

func normalizeMimeType(mimeType string, fileName string, data []byte) string {
	clean := strings.ToLower(strings.TrimSpace(strings.Split(mimeType, ";")[0]))
	if clean == "" || clean == "application/octet-stream" {
		if strings.EqualFold(filepath.Ext(fileName), ".pdf") {
			return MimePDF
		}
		if sniffed := http.DetectContentType(data); sniffed == MimePDF {
			return MimePDF
		}
	}
	if clean != "application/zip" {
		return clean
	}
	if isDocxZip(data) || strings.EqualFold(filepath.Ext(fileName), ".docx") {
		return MimeDOCX
	}
	return clean
}

func isDocxZip(data []byte) bool {
	if len(data) == 0 {
		return false
	}
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return false
	}
	for _, f := range zr.File {
		if strings.ReplaceAll(f.Name, "\\", "/") == "word/document.xml" {
			return true
		}
	}
	return false
}
