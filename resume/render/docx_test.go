package render

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"io"
	"strings"
	"testing"

	"resume-builder/resume/model"
)

func TestRenderProducesValidDocx(t *testing.T) {
	docxBytes, err := NewDocxRenderer().Render(model.Default())
	if err != nil {
		t.Fatalf("render failed: %v", err)
	}

	reader, err := zip.NewReader(bytes.NewReader(docxBytes), int64(len(docxBytes)))
	if err != nil {
		t.Fatalf("zip reader failed: %v", err)
	}
	required := map[string]bool{
		"[Content_Types].xml": false,
		"_rels/.rels":         false,
		"word/document.xml":   false,
		"word/styles.xml":     false,
		"word/numbering.xml":  false,
	}
	for _, file := range reader.File {
		if _, ok := required[file.Name]; ok {
			required[file.Name] = true
		}
	}
	for name, found := range required {
		if !found {
			t.Fatalf("expected docx to contain %s", name)
		}
	}

	documentXML, err := readDocumentXML(docxBytes)
	if err != nil {
		t.Fatalf("read document.xml failed: %v", err)
	}
	var doc struct {
		XMLName xml.Name `xml:"document"`
	}
	if err := xml.Unmarshal([]byte(documentXML), &doc); err != nil {
		t.Fatalf("document.xml parse failed: %v", err)
	}
	if doc.XMLName.Space != wmlNamespace {
		t.Fatalf("expected root in wml namespace, got %q", doc.XMLName.Space)
	}
}

func TestRenderIsDeterministic(t *testing.T) {
	r := NewDocxRenderer()
	first, err := r.Render(model.Default())
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	second, err := r.Render(model.Default())
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if !bytes.Equal(first, second) {
		t.Fatalf("expected identical output for identical input")
	}
}

func TestRenderEmptyDocumentYieldsPlaceholder(t *testing.T) {
	docxBytes, err := NewDocxRenderer().Render(model.Document{})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	paragraphs := readParagraphs(t, docxBytes)
	if len(paragraphs) != 1 || paragraphs[0] != PlaceholderText {
		t.Fatalf("expected single placeholder paragraph, got %q", paragraphs)
	}
}

func TestRenderFollowsSectionsOrder(t *testing.T) {
	doc := model.Default()
	doc.SectionsOrder = []model.SectionKey{model.SectionSkills, model.SectionPersonalInfo}

	docxBytes, err := NewDocxRenderer().Render(doc)
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	text := strings.Join(readParagraphs(t, docxBytes), "\n")

	skillsAt := strings.Index(text, "JavaScript, React, Node.js, WordPress")
	nameAt := strings.Index(text, "John Doe")
	if skillsAt < 0 || nameAt < 0 {
		t.Fatalf("expected skills and name in output:\n%s", text)
	}
	if skillsAt > nameAt {
		t.Fatalf("expected skills before personal info")
	}
	if strings.Contains(text, "Work Experience") {
		t.Fatalf("experience is not in sectionsOrder and must not render")
	}
}

func TestBuildBlocksFormatting(t *testing.T) {
	doc := model.Document{
		PersonalInfo: model.PersonalInfo{Name: "Ada", Email: "ada@example.com", Address: "London"},
		Experience: []model.Experience{{
			ID:               "x1",
			JobTitle:         "Analyst",
			Company:          "Engines Ltd",
			StartDate:        "1842-01-01",
			Responsibilities: "Wrote notes\n\n  \nPublished program",
		}},
		Education: []model.Education{{ID: "e1", Degree: "Mathematics", Institution: "Home", GraduationDate: "1835-01-01"}},
		Skills:    []string{"Math", "Poetry"},
	}

	blocks, err := BuildBlocks(doc)
	if err != nil {
		t.Fatalf("build blocks: %v", err)
	}
	if len(blocks) != 4 {
		t.Fatalf("expected 4 blocks, got %d", len(blocks))
	}

	personal := blocks[0].Text()
	assertContainsLine(t, personal, "Ada")
	assertContainsLine(t, personal, "ada@example.com | London")

	exp := blocks[1].Text()
	assertContainsLine(t, exp, "Work Experience")
	assertContainsLine(t, exp, "Engines Ltd | 1842-01-01 - Present")
	bullets := 0
	for _, p := range blocks[1].Paragraphs {
		if p.Props != nil && p.Props.Numbering != nil {
			bullets++
		}
	}
	if bullets != 2 {
		t.Fatalf("expected 2 bullet paragraphs, got %d", bullets)
	}

	assertContainsLine(t, blocks[2].Text(), "Home | 1835-01-01")
	assertContainsLine(t, blocks[3].Text(), "Math, Poetry")
}

func TestBuildBlocksSkipsEmptySections(t *testing.T) {
	doc := model.Document{Skills: []string{"Go"}}
	blocks, err := BuildBlocks(doc)
	if err != nil {
		t.Fatalf("build blocks: %v", err)
	}
	if len(blocks) != 1 || blocks[0].Section != model.SectionSkills {
		t.Fatalf("expected only the skills block, got %+v", blocks)
	}
}

func TestHeadingRunsAreStyled(t *testing.T) {
	docxBytes, err := NewDocxRenderer().Render(model.Default())
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	documentXML, err := readDocumentXML(docxBytes)
	if err != nil {
		t.Fatalf("read document.xml: %v", err)
	}
	idx := strings.Index(documentXML, ">Education</w:t>")
	if idx < 0 {
		t.Fatalf("expected Education heading")
	}
	start := idx - 300
	if start < 0 {
		start = 0
	}
	window := documentXML[start:idx]
	for _, want := range []string{`<w:pStyle w:val="Heading2">`, `<w:b>`, `<w:sz w:val="28">`} {
		if !strings.Contains(window, want) {
			t.Fatalf("expected %s before heading, window: %s", want, window)
		}
	}
}

func readDocumentXML(docxBytes []byte) (string, error) {
	reader, err := zip.NewReader(bytes.NewReader(docxBytes), int64(len(docxBytes)))
	if err != nil {
		return "", err
	}
	for _, file := range reader.File {
		if file.Name == "word/document.xml" {
			rc, err := file.Open()
			if err != nil {
				return "", err
			}
			defer rc.Close()

			content, err := io.ReadAll(rc)
			if err != nil {
				return "", err
			}
			return string(content), nil
		}
	}
	return "", io.EOF
}

// readParagraphs returns the text of every non-empty paragraph.
func readParagraphs(t *testing.T, docxBytes []byte) []string {
	t.Helper()
	documentXML, err := readDocumentXML(docxBytes)
	if err != nil {
		t.Fatalf("read document.xml: %v", err)
	}
	decoder := xml.NewDecoder(strings.NewReader(documentXML))
	var out []string
	var current strings.Builder
	inText := false
	for {
		tok, err := decoder.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			t.Fatalf("decode: %v", err)
		}
		switch v := tok.(type) {
		case xml.StartElement:
			if isWmlElement(v.Name, "p") {
				current.Reset()
			}
			inText = isWmlElement(v.Name, "t")
		case xml.CharData:
			if inText {
				current.Write(v)
			}
		case xml.EndElement:
			if isWmlElement(v.Name, "t") {
				inText = false
			}
			if isWmlElement(v.Name, "p") && current.Len() > 0 {
				out = append(out, current.String())
			}
		}
	}
	return out
}

func assertContainsLine(t *testing.T, lines []string, want string) {
	t.Helper()
	for _, l := range lines {
		if l == want {
			return
		}
	}
	t.Fatalf("expected line %q in %q", want, lines)
}
