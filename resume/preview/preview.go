// Package preview renders the working document as a standalone HTML page.
// The page is what users see while editing and is the capture surface for
// PDF export.
package preview

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"strings"
	"time"

	"resume-builder/resume/model"
)

// RootSelector matches the element that holds the visual resume.
const RootSelector = "#resume-preview"

const (
	namePlaceholder  = "Your Name"
	emailPlaceholder = "your.email@example.com"
)

//go:embed templates/preview.html.tmpl
var templateFS embed.FS

var pageTemplate = template.Must(template.ParseFS(templateFS, "templates/preview.html.tmpl"))

type sectionView struct {
	Key   string
	Title string
}

type entryView struct {
	Title    string
	Subtitle string
	Details  string
}

type pageView struct {
	Sections     []sectionView
	ProfileImage template.URL
	Name         string
	Contact      string
	Summary      string
	Experience   []entryView
	Education    []entryView
	Skills       []string
}

// Render returns the preview page for doc. Sections appear in the
// document's effective order; empty sections are left out, except the
// personal header which falls back to placeholders.
func Render(doc model.Document) ([]byte, error) {
	b := &viewBuilder{}
	for _, key := range doc.Order() {
		if err := doc.Visit(key, b); err != nil {
			return nil, err
		}
	}

	var buf bytes.Buffer
	if err := pageTemplate.Execute(&buf, b.view); err != nil {
		return nil, fmt.Errorf("render preview: %w", err)
	}
	return buf.Bytes(), nil
}

// FormatDate renders an ISO date (2006-01-02) as "January 2, 2006". The
// literal Present and values that do not parse are returned unchanged.
func FormatDate(s string) string {
	s = strings.TrimSpace(s)
	if s == "" || s == model.Present {
		return s
	}
	for _, layout := range []string{"2006-01-02", time.RFC3339} {
		if t, err := time.Parse(layout, s); err == nil {
			return t.Format("January 2, 2006")
		}
	}
	return s
}

type viewBuilder struct {
	view pageView
}

func (b *viewBuilder) section(key model.SectionKey) {
	b.view.Sections = append(b.view.Sections, sectionView{Key: string(key), Title: key.Title()})
}

func (b *viewBuilder) PersonalInfo(info model.PersonalInfo) error {
	b.section(model.SectionPersonalInfo)
	if strings.HasPrefix(info.ProfileImage, "data:image/") {
		b.view.ProfileImage = template.URL(info.ProfileImage)
	}
	b.view.Name = placeholder(info.Name, namePlaceholder)
	contact := []string{placeholder(info.Email, emailPlaceholder)}
	for _, v := range []string{info.Phone, info.Address} {
		if s := strings.TrimSpace(v); s != "" {
			contact = append(contact, s)
		}
	}
	b.view.Contact = strings.Join(contact, " | ")
	return nil
}

func (b *viewBuilder) Summary(summary string) error {
	if strings.TrimSpace(summary) == "" {
		return nil
	}
	b.section(model.SectionSummary)
	b.view.Summary = strings.TrimSpace(summary)
	return nil
}

func (b *viewBuilder) Experience(list []model.Experience) error {
	if len(list) == 0 {
		return nil
	}
	b.section(model.SectionExperience)
	for _, exp := range list {
		b.view.Experience = append(b.view.Experience, entryView{
			Title:    placeholder(exp.JobTitle, "Job Title"),
			Subtitle: fmt.Sprintf("%s | %s - %s", placeholder(exp.Company, "Company Name"), FormatDate(exp.StartDate), FormatDate(exp.EndOrPresent())),
			Details:  placeholder(exp.Responsibilities, "Responsibilities..."),
		})
	}
	return nil
}

func (b *viewBuilder) Education(list []model.Education) error {
	if len(list) == 0 {
		return nil
	}
	b.section(model.SectionEducation)
	for _, edu := range list {
		b.view.Education = append(b.view.Education, entryView{
			Title:    placeholder(edu.Degree, "Degree"),
			Subtitle: fmt.Sprintf("%s | %s", placeholder(edu.Institution, "Institution Name"), FormatDate(edu.GraduationDate)),
			Details:  strings.TrimSpace(edu.Details),
		})
	}
	return nil
}

func (b *viewBuilder) Skills(skills []string) error {
	if len(skills) == 0 {
		return nil
	}
	b.section(model.SectionSkills)
	b.view.Skills = append([]string(nil), skills...)
	return nil
}

var _ model.SectionVisitor = (*viewBuilder)(nil)

func placeholder(v, def string) string {
	if s := strings.TrimSpace(v); s != "" {
		return s
	}
	return def
}
