package render

// RunStyle captures the inline run formatting of a paragraph.
type RunStyle struct {
	Bold  bool
	Size  int // half-points
	Color string
}

// ParagraphStyle captures paragraph-level formatting.
type ParagraphStyle struct {
	StyleID    string
	Centered   bool
	Bullet     bool
	IndentLeft int // twips
	SpaceAfter int // twips
	HasSpacing bool
}

const (
	PageMarginTwips  = 1440
	PageWidthTwips   = 11906
	PageHeightTwips  = 16838
	PlaceholderText  = "No content available."
	ContactSeparator = " | "
)

// StyleMap centralizes the formatting of each resume element.
var StyleMap = map[string]RunStyle{
	"name":           {Bold: true, Size: 36},
	"contact":        {Size: 20, Color: "555555"},
	"sectionHeading": {Bold: true, Size: 28},
	"entryTitle":     {Bold: true, Size: 24},
	"entrySubtitle":  {Size: 20, Color: "333333"},
	"entryDetails":   {Size: 20, Color: "555555"},
	"bullet":         {Size: 20},
	"body":           {Size: 20},
}

var paragraphStyles = map[string]ParagraphStyle{
	"name":           {StyleID: "Heading1", Centered: true},
	"contact":        {Centered: true},
	"sectionHeading": {StyleID: "Heading2"},
	"bullet":         {Bullet: true, IndentLeft: 720, SpaceAfter: 100, HasSpacing: true},
}

const (
	spacerAfterEntry    = 200
	spacerAfterPersonal = 300
)
