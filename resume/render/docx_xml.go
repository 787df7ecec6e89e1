package render

import (
	"encoding/xml"
	"fmt"
	"io"
	"strings"
)

const wmlNamespace = "http://schemas.openxmlformats.org/wordprocessingml/2006/main"
const relNamespace = "http://schemas.openxmlformats.org/officeDocument/2006/relationships"

type wDocument struct {
	XMLName xml.Name `xml:"w:document"`
	XMLNSW  string   `xml:"xmlns:w,attr"`
	XMLNSR  string   `xml:"xmlns:r,attr"`
	Body    wBody    `xml:"w:body"`
}

type wBody struct {
	Paragraphs []wParagraph `xml:"w:p"`
	Section    wSectPr      `xml:"w:sectPr"`
}

type wParagraph struct {
	Props *wParagraphProps `xml:"w:pPr,omitempty"`
	Runs  []wRun           `xml:"w:r"`
}

// Child order follows the CT_PPr sequence.
type wParagraphProps struct {
	Style     *wVal     `xml:"w:pStyle,omitempty"`
	Numbering *wNumPr   `xml:"w:numPr,omitempty"`
	Spacing   *wSpacing `xml:"w:spacing,omitempty"`
	Indent    *wIndent  `xml:"w:ind,omitempty"`
	Justify   *wVal     `xml:"w:jc,omitempty"`
}

type wRun struct {
	Props *wRunProps `xml:"w:rPr,omitempty"`
	Text  wText      `xml:"w:t"`
}

// Child order follows the CT_RPr sequence.
type wRunProps struct {
	Bold  *wEmpty `xml:"w:b,omitempty"`
	Color *wVal   `xml:"w:color,omitempty"`
	Size  *wVal   `xml:"w:sz,omitempty"`
}

type wText struct {
	Space string `xml:"xml:space,attr,omitempty"`
	Value string `xml:",chardata"`
}

type wVal struct {
	Val string `xml:"w:val,attr"`
}

type wEmpty struct{}

type wNumPr struct {
	Level wVal `xml:"w:ilvl"`
	NumID wVal `xml:"w:numId"`
}

type wSpacing struct {
	After string `xml:"w:after,attr"`
}

type wIndent struct {
	Left    string `xml:"w:left,attr"`
	Hanging string `xml:"w:hanging,attr,omitempty"`
}

type wSectPr struct {
	PageSize   wPageSize   `xml:"w:pgSz"`
	PageMargin wPageMargin `xml:"w:pgMar"`
}

type wPageSize struct {
	W string `xml:"w:w,attr"`
	H string `xml:"w:h,attr"`
}

type wPageMargin struct {
	Top    string `xml:"w:top,attr"`
	Right  string `xml:"w:right,attr"`
	Bottom string `xml:"w:bottom,attr"`
	Left   string `xml:"w:left,attr"`
	Header string `xml:"w:header,attr"`
	Footer string `xml:"w:footer,attr"`
	Gutter string `xml:"w:gutter,attr"`
}

func encodeDocumentXML(paragraphs []wParagraph) ([]byte, error) {
	margin := itoa(PageMarginTwips)
	doc := wDocument{
		XMLNSW: wmlNamespace,
		XMLNSR: relNamespace,
		Body: wBody{
			Paragraphs: paragraphs,
			Section: wSectPr{
				PageSize: wPageSize{W: itoa(PageWidthTwips), H: itoa(PageHeightTwips)},
				PageMargin: wPageMargin{
					Top: margin, Right: margin, Bottom: margin, Left: margin,
					Header: "708", Footer: "708", Gutter: "0",
				},
			},
		},
	}
	out, err := xml.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("encode document.xml: %w", err)
	}
	return append([]byte(xml.Header), out...), nil
}

// validateDocumentXMLStructure rejects nested paragraphs and run properties
// that appear after run text, both of which Word refuses to open.
func validateDocumentXMLStructure(xmlText string) error {
	decoder := xml.NewDecoder(strings.NewReader(xmlText))
	var stack []xml.Name
	type runState struct {
		seenText bool
	}
	var runs []runState

	for {
		token, err := decoder.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return fmt.Errorf("document.xml parse failed: %w\n%s", err, firstLines(xmlText, 5))
		}
		switch t := token.(type) {
		case xml.StartElement:
			stack = append(stack, t.Name)
			if isWmlElement(t.Name, "p") {
				for i := len(stack) - 2; i >= 0; i-- {
					if isWmlElement(stack[i], "p") {
						return fmt.Errorf("document.xml has nested <w:p>\n%s", firstLines(xmlText, 5))
					}
				}
			}
			if isWmlElement(t.Name, "r") {
				runs = append(runs, runState{})
			}
			if isWmlElement(t.Name, "t") && len(runs) > 0 {
				runs[len(runs)-1].seenText = true
			}
			if isWmlElement(t.Name, "rPr") && len(runs) > 0 && runs[len(runs)-1].seenText {
				return fmt.Errorf("document.xml has <w:rPr> after <w:t> in a run\n%s", firstLines(xmlText, 5))
			}
		case xml.EndElement:
			if isWmlElement(t.Name, "r") && len(runs) > 0 {
				runs = runs[:len(runs)-1]
			}
			if len(stack) > 0 {
				stack = stack[:len(stack)-1]
			}
		}
	}
	return nil
}

func isWmlElement(name xml.Name, local string) bool {
	return name.Local == local && name.Space == wmlNamespace
}

func firstLines(text string, count int) string {
	if count <= 0 {
		return ""
	}
	lines := strings.Split(text, "\n")
	if len(lines) > count {
		lines = lines[:count]
	}
	return strings.Join(lines, "\n")
}

func itoa(v int) string {
	return fmt.Sprintf("%d", v)
}
