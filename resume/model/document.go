package model

import "strings"

// Present is the literal end date of an ongoing position.
const Present = "Present"

// Document is the working resume. Values are treated as immutable: every
// mutation helper returns a new Document and never writes through shared
// slices.
type Document struct {
	PersonalInfo  PersonalInfo `json:"personalInfo"`
	Summary       string       `json:"summary,omitempty"`
	Experience    []Experience `json:"experience"`
	Education     []Education  `json:"education"`
	Skills        []string     `json:"skills"`
	SectionsOrder []SectionKey `json:"sectionsOrder"`
}

// PersonalInfo holds the contact block.
type PersonalInfo struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Phone   string `json:"phone"`
	Address string `json:"address"`
	// ProfileImage is an opaque encoded image, typically a data URL.
	ProfileImage string `json:"profileImage,omitempty"`
}

// IsEmpty reports whether no renderable contact field is set.
func (p PersonalInfo) IsEmpty() bool {
	return strings.TrimSpace(p.Name) == "" &&
		strings.TrimSpace(p.Email) == "" &&
		strings.TrimSpace(p.Phone) == "" &&
		strings.TrimSpace(p.Address) == ""
}

// ContactFields returns the non-empty email, phone and address in that order.
func (p PersonalInfo) ContactFields() []string {
	var out []string
	for _, v := range []string{p.Email, p.Phone, p.Address} {
		if s := strings.TrimSpace(v); s != "" {
			out = append(out, s)
		}
	}
	return out
}

// Experience is one position.
type Experience struct {
	ID        EntryID `json:"id"`
	JobTitle  string  `json:"jobTitle"`
	Company   string  `json:"company"`
	StartDate string  `json:"startDate"`
	// EndDate is a date or the literal Present. Empty renders as Present.
	EndDate string `json:"endDate"`
	// Responsibilities is newline separated free text.
	Responsibilities string `json:"responsibilities"`
}

// EndOrPresent returns EndDate, or Present when it is blank.
func (e Experience) EndOrPresent() string {
	if strings.TrimSpace(e.EndDate) == "" {
		return Present
	}
	return e.EndDate
}

// ResponsibilityLines splits Responsibilities into its non-blank lines.
func (e Experience) ResponsibilityLines() []string {
	var out []string
	for _, line := range strings.Split(e.Responsibilities, "\n") {
		if strings.TrimSpace(line) != "" {
			out = append(out, strings.TrimRight(line, "\r"))
		}
	}
	return out
}

// Education is one degree or course.
type Education struct {
	ID             EntryID `json:"id"`
	Degree         string  `json:"degree"`
	Institution    string  `json:"institution"`
	GraduationDate string  `json:"graduationDate"`
	Details        string  `json:"details,omitempty"`
}

// Default returns the document a fresh session starts with.
func Default() Document {
	return Document{
		PersonalInfo: PersonalInfo{
			Name:    "John Doe",
			Email:   "john.doe@example.com",
			Phone:   "123-456-7890",
			Address: "123 Main St, Anytown, USA",
		},
		Experience: []Experience{
			{
				ID:               "1",
				JobTitle:         "Software Engineer",
				Company:          "Tech Solutions Inc.",
				StartDate:        "2020-01-01",
				EndDate:          Present,
				Responsibilities: "Developed and maintained web applications.",
			},
		},
		Education: []Education{
			{
				ID:             "1",
				Degree:         "B.S. in Computer Science",
				Institution:    "University of Example",
				GraduationDate: "2019-12-31",
			},
		},
		Skills:        []string{"JavaScript", "React", "Node.js", "WordPress"},
		SectionsOrder: DefaultSectionsOrder(),
	}
}

// Order returns the effective section order: the stored order with unknown
// and duplicate keys dropped, or the default order when nothing survives.
func (d Document) Order() []SectionKey {
	order := filterOrder(d.SectionsOrder)
	if len(order) == 0 {
		return DefaultSectionsOrder()
	}
	return order
}

// Normalize returns a copy with a clean section order, trimmed skill list
// and an id on every entry.
func (d Document) Normalize() Document {
	out := d
	out.SectionsOrder = d.Order()
	out.Skills = UnionSkills(nil, d.Skills)
	out.Experience = ensureExperienceIDs(d.Experience, NewEntryID)
	out.Education = ensureEducationIDs(d.Education, NewEntryID)
	return out
}

// IsEmpty reports whether no section holds renderable content.
func (d Document) IsEmpty() bool {
	return d.PersonalInfo.IsEmpty() &&
		strings.TrimSpace(d.Summary) == "" &&
		len(d.Experience) == 0 &&
		len(d.Education) == 0 &&
		len(d.Skills) == 0
}

// WithPersonalInfo returns a copy with the personal info replaced.
func (d Document) WithPersonalInfo(p PersonalInfo) Document {
	d.PersonalInfo = p
	return d
}

// WithSummary returns a copy with the summary replaced.
func (d Document) WithSummary(s string) Document {
	d.Summary = s
	return d
}

// WithExperience returns a copy holding its own copy of list.
func (d Document) WithExperience(list []Experience) Document {
	d.Experience = append([]Experience(nil), list...)
	return d
}

// WithEducation returns a copy holding its own copy of list.
func (d Document) WithEducation(list []Education) Document {
	d.Education = append([]Education(nil), list...)
	return d
}

// WithSkills returns a copy holding its own copy of skills.
func (d Document) WithSkills(skills []string) Document {
	d.Skills = append([]string(nil), skills...)
	return d
}

// WithSectionsOrder returns a copy with the given order after filtering.
func (d Document) WithSectionsOrder(order []SectionKey) Document {
	d.SectionsOrder = filterOrder(order)
	return d
}

// FindExperience returns the index of the entry with id, or -1.
func (d Document) FindExperience(id EntryID) int {
	for i, e := range d.Experience {
		if e.ID == id {
			return i
		}
	}
	return -1
}

// FindEducation returns the index of the entry with id, or -1.
func (d Document) FindEducation(id EntryID) int {
	for i, e := range d.Education {
		if e.ID == id {
			return i
		}
	}
	return -1
}

// UnionSkills appends the trimmed, non-empty members of add that are not
// already in base, preserving first-seen order. Comparison is exact.
func UnionSkills(base, add []string) []string {
	seen := make(map[string]struct{}, len(base)+len(add))
	out := make([]string, 0, len(base)+len(add))
	for _, list := range [][]string{base, add} {
		for _, s := range list {
			s = strings.TrimSpace(s)
			if s == "" {
				continue
			}
			if _, ok := seen[s]; ok {
				continue
			}
			seen[s] = struct{}{}
			out = append(out, s)
		}
	}
	return out
}

func filterOrder(order []SectionKey) []SectionKey {
	if len(order) == 0 {
		return nil
	}
	seen := make(map[SectionKey]struct{}, len(order))
	out := make([]SectionKey, 0, len(order))
	for _, key := range order {
		if !key.Valid() {
			continue
		}
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, key)
	}
	return out
}

func ensureExperienceIDs(list []Experience, newID func() EntryID) []Experience {
	if list == nil {
		return nil
	}
	out := make([]Experience, len(list))
	seen := make(map[EntryID]struct{}, len(list))
	for i, e := range list {
		if _, dup := seen[e.ID]; e.ID == "" || dup {
			e.ID = newID()
		}
		seen[e.ID] = struct{}{}
		out[i] = e
	}
	return out
}

func ensureEducationIDs(list []Education, newID func() EntryID) []Education {
	if list == nil {
		return nil
	}
	out := make([]Education, len(list))
	seen := make(map[EntryID]struct{}, len(list))
	for i, e := range list {
		if _, dup := seen[e.ID]; e.ID == "" || dup {
			e.ID = newID()
		}
		seen[e.ID] = struct{}{}
		out[i] = e
	}
	return out
}
