package model

// SectionKey names one of the resume sections. The set is closed.
type SectionKey string

const (
	SectionPersonalInfo SectionKey = "personalInfo"
	SectionSummary      SectionKey = "summary"
	SectionExperience   SectionKey = "experience"
	SectionEducation    SectionKey = "education"
	SectionSkills       SectionKey = "skills"
)

// AllSections lists every known section key.
var AllSections = []SectionKey{
	SectionPersonalInfo,
	SectionSummary,
	SectionExperience,
	SectionEducation,
	SectionSkills,
}

// DefaultSectionsOrder returns the order used when a document carries none.
func DefaultSectionsOrder() []SectionKey {
	return []SectionKey{
		SectionPersonalInfo,
		SectionExperience,
		SectionEducation,
		SectionSkills,
	}
}

// ParseSectionKey reports whether raw names a known section.
func ParseSectionKey(raw string) (SectionKey, bool) {
	key := SectionKey(raw)
	return key, key.Valid()
}

// Valid reports whether k is one of the known sections.
func (k SectionKey) Valid() bool {
	switch k {
	case SectionPersonalInfo, SectionSummary, SectionExperience, SectionEducation, SectionSkills:
		return true
	default:
		return false
	}
}

// Title is the human heading for the section.
func (k SectionKey) Title() string {
	switch k {
	case SectionPersonalInfo:
		return "Personal Information"
	case SectionSummary:
		return "Professional Summary"
	case SectionExperience:
		return "Work Experience"
	case SectionEducation:
		return "Education"
	case SectionSkills:
		return "Skills"
	default:
		return string(k)
	}
}

// SectionVisitor is implemented by every consumer that handles sections one
// by one (renderers, editors, previews). Adding a section to the closed set
// means adding a method here, which breaks every implementation until it
// handles the new section.
type SectionVisitor interface {
	PersonalInfo(PersonalInfo) error
	Summary(string) error
	Experience([]Experience) error
	Education([]Education) error
	Skills([]string) error
}

// Visit dispatches the section identified by key to v.
func (d Document) Visit(key SectionKey, v SectionVisitor) error {
	switch key {
	case SectionPersonalInfo:
		return v.PersonalInfo(d.PersonalInfo)
	case SectionSummary:
		return v.Summary(d.Summary)
	case SectionExperience:
		return v.Experience(d.Experience)
	case SectionEducation:
		return v.Education(d.Education)
	case SectionSkills:
		return v.Skills(d.Skills)
	default:
		return unknownSection(key)
	}
}

// VisitInOrder dispatches every section in the effective order.
func (d Document) VisitInOrder(v SectionVisitor) error {
	for _, key := range d.Order() {
		if err := d.Visit(key, v); err != nil {
			return err
		}
	}
	return nil
}
