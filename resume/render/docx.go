package render

import (
	"archive/zip"
	"bytes"
	"fmt"
	"strings"
	"time"

	"resume-builder/resume/model"
)

// DocxFileName is the attachment name used for exported documents.
const DocxFileName = "ai-resume.docx"

// DocxContentType is the MIME type of a WordprocessingML package.
const DocxContentType = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"

// fixed zip timestamps keep output byte-identical for identical input
var zipEpoch = time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC)

// DocxRenderer turns a resume document into a .docx package.
type DocxRenderer struct{}

// NewDocxRenderer constructs a DocxRenderer.
func NewDocxRenderer() *DocxRenderer {
	return &DocxRenderer{}
}

// Render builds the package for doc. It is pure: the same document always
// yields the same bytes.
func (r *DocxRenderer) Render(doc model.Document) ([]byte, error) {
	blocks, err := BuildBlocks(doc)
	if err != nil {
		return nil, err
	}
	var paragraphs []wParagraph
	for _, b := range blocks {
		paragraphs = append(paragraphs, b.Paragraphs...)
	}
	if len(paragraphs) == 0 {
		paragraphs = []wParagraph{styledParagraph(PlaceholderText, "body")}
	}

	documentXML, err := encodeDocumentXML(paragraphs)
	if err != nil {
		return nil, err
	}
	if err := validateDocumentXMLStructure(string(documentXML)); err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	parts := []struct {
		name string
		body []byte
	}{
		{"[Content_Types].xml", []byte(contentTypesXML)},
		{"_rels/.rels", []byte(rootRelsXML)},
		{"word/document.xml", documentXML},
		{"word/_rels/document.xml.rels", []byte(documentRelsXML)},
		{"word/styles.xml", []byte(stylesXML)},
		{"word/numbering.xml", []byte(numberingXML)},
	}
	for _, part := range parts {
		w, err := zw.CreateHeader(&zip.FileHeader{
			Name:     part.name,
			Method:   zip.Deflate,
			Modified: zipEpoch,
		})
		if err != nil {
			return nil, fmt.Errorf("create %s: %w", part.name, err)
		}
		if _, err := w.Write(part.body); err != nil {
			return nil, fmt.Errorf("write %s: %w", part.name, err)
		}
	}
	if err := zw.Close(); err != nil {
		return nil, fmt.Errorf("close docx: %w", err)
	}
	return buf.Bytes(), nil
}

// Block is the rendered content of one section.
type Block struct {
	Section    model.SectionKey
	Paragraphs []wParagraph
}

// Text returns the plain text of every paragraph in the block.
func (b Block) Text() []string {
	out := make([]string, 0, len(b.Paragraphs))
	for _, p := range b.Paragraphs {
		var sb strings.Builder
		for _, r := range p.Runs {
			sb.WriteString(r.Text.Value)
		}
		out = append(out, sb.String())
	}
	return out
}

// BuildBlocks renders each non-empty section in the effective order.
// Sections without content produce no block.
func BuildBlocks(doc model.Document) ([]Block, error) {
	b := &blockBuilder{}
	for _, key := range doc.Order() {
		b.current = nil
		if err := doc.Visit(key, b); err != nil {
			return nil, err
		}
		if len(b.current) > 0 {
			b.blocks = append(b.blocks, Block{Section: key, Paragraphs: b.current})
		}
	}
	return b.blocks, nil
}

type blockBuilder struct {
	blocks  []Block
	current []wParagraph
}

func (b *blockBuilder) add(p ...wParagraph) {
	b.current = append(b.current, p...)
}

func (b *blockBuilder) PersonalInfo(info model.PersonalInfo) error {
	if info.IsEmpty() {
		return nil
	}
	if name := strings.TrimSpace(info.Name); name != "" {
		b.add(styledParagraph(name, "name"))
	}
	if contact := info.ContactFields(); len(contact) > 0 {
		b.add(styledParagraph(strings.Join(contact, ContactSeparator), "contact"))
	}
	b.add(spacer(spacerAfterPersonal))
	return nil
}

func (b *blockBuilder) Summary(summary string) error {
	if strings.TrimSpace(summary) == "" {
		return nil
	}
	b.add(styledParagraph(model.SectionSummary.Title(), "sectionHeading"))
	b.add(styledParagraph(strings.TrimSpace(summary), "body"))
	b.add(spacer(spacerAfterEntry))
	return nil
}

func (b *blockBuilder) Experience(list []model.Experience) error {
	if len(list) == 0 {
		return nil
	}
	b.add(styledParagraph(model.SectionExperience.Title(), "sectionHeading"))
	for _, exp := range list {
		b.add(styledParagraph(orDefault(exp.JobTitle, "Job Title"), "entryTitle"))
		subtitle := fmt.Sprintf("%s | %s - %s", orDefault(exp.Company, "Company"), strings.TrimSpace(exp.StartDate), exp.EndOrPresent())
		b.add(styledParagraph(subtitle, "entrySubtitle"))
		for _, line := range exp.ResponsibilityLines() {
			b.add(styledParagraph(line, "bullet"))
		}
		b.add(spacer(spacerAfterEntry))
	}
	return nil
}

func (b *blockBuilder) Education(list []model.Education) error {
	if len(list) == 0 {
		return nil
	}
	b.add(styledParagraph(model.SectionEducation.Title(), "sectionHeading"))
	for _, edu := range list {
		b.add(styledParagraph(orDefault(edu.Degree, "Degree"), "entryTitle"))
		subtitle := fmt.Sprintf("%s | %s", orDefault(edu.Institution, "Institution"), orDefault(edu.GraduationDate, "Graduation Date"))
		b.add(styledParagraph(subtitle, "entrySubtitle"))
		if details := strings.TrimSpace(edu.Details); details != "" {
			b.add(styledParagraph(details, "entryDetails"))
		}
		b.add(spacer(spacerAfterEntry))
	}
	return nil
}

func (b *blockBuilder) Skills(skills []string) error {
	if len(skills) == 0 {
		return nil
	}
	b.add(styledParagraph(model.SectionSkills.Title(), "sectionHeading"))
	b.add(styledParagraph(strings.Join(skills, ", "), "body"))
	return nil
}

var _ model.SectionVisitor = (*blockBuilder)(nil)

func styledParagraph(text, element string) wParagraph {
	run := wRun{Text: wText{Space: "preserve", Value: text}}
	if style, ok := StyleMap[element]; ok {
		props := &wRunProps{}
		if style.Bold {
			props.Bold = &wEmpty{}
		}
		if style.Color != "" {
			props.Color = &wVal{Val: style.Color}
		}
		if style.Size > 0 {
			props.Size = &wVal{Val: itoa(style.Size)}
		}
		run.Props = props
	}
	p := wParagraph{Runs: []wRun{run}}
	if ps, ok := paragraphStyles[element]; ok {
		props := &wParagraphProps{}
		if ps.StyleID != "" {
			props.Style = &wVal{Val: ps.StyleID}
		}
		if ps.Bullet {
			props.Numbering = &wNumPr{Level: wVal{Val: "0"}, NumID: wVal{Val: "1"}}
		}
		if ps.HasSpacing {
			props.Spacing = &wSpacing{After: itoa(ps.SpaceAfter)}
		}
		if ps.IndentLeft > 0 {
			props.Indent = &wIndent{Left: itoa(ps.IndentLeft), Hanging: "360"}
		}
		if ps.Centered {
			props.Justify = &wVal{Val: "center"}
		}
		p.Props = props
	}
	return p
}

func spacer(after int) wParagraph {
	return wParagraph{Props: &wParagraphProps{Spacing: &wSpacing{After: itoa(after)}}}
}

func orDefault(v, def string) string {
	if s := strings.TrimSpace(v); s != "" {
		return s
	}
	return def
}
