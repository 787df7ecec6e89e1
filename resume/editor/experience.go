package editor

import (
	"context"
	"fmt"
	"strings"

	"resume-builder/resume/model"
)

// ExperienceField names an editable experience field.
type ExperienceField string

const (
	FieldJobTitle         ExperienceField = "jobTitle"
	FieldCompany          ExperienceField = "company"
	FieldStartDate        ExperienceField = "startDate"
	FieldEndDate          ExperienceField = "endDate"
	FieldResponsibilities ExperienceField = "responsibilities"
)

// AddExperience appends a blank entry with a fresh id.
func AddExperience(doc model.Document) (model.Document, model.EntryID) {
	entry := model.Experience{ID: model.NewEntryID()}
	list := append(append([]model.Experience(nil), doc.Experience...), entry)
	return doc.WithExperience(list), entry.ID
}

// UpdateExperience sets one field of the entry with id.
func UpdateExperience(doc model.Document, id model.EntryID, field ExperienceField, value string) (model.Document, error) {
	idx := doc.FindExperience(id)
	if idx < 0 {
		return doc, fmt.Errorf("%w: experience %s", ErrEntryNotFound, id)
	}
	entry := doc.Experience[idx]
	switch field {
	case FieldJobTitle:
		entry.JobTitle = value
	case FieldCompany:
		entry.Company = value
	case FieldStartDate:
		entry.StartDate = value
	case FieldEndDate:
		entry.EndDate = value
	case FieldResponsibilities:
		entry.Responsibilities = value
	default:
		return doc, fmt.Errorf("%w: experience.%s", ErrUnknownField, field)
	}
	list := append([]model.Experience(nil), doc.Experience...)
	list[idx] = entry
	return doc.WithExperience(list), nil
}

// RemoveExperience drops the entry with id.
func RemoveExperience(doc model.Document, id model.EntryID) (model.Document, error) {
	idx := doc.FindExperience(id)
	if idx < 0 {
		return doc, fmt.Errorf("%w: experience %s", ErrEntryNotFound, id)
	}
	list := make([]model.Experience, 0, len(doc.Experience)-1)
	list = append(list, doc.Experience[:idx]...)
	list = append(list, doc.Experience[idx+1:]...)
	return doc.WithExperience(list), nil
}

// ResponsibilitiesPrompt builds the bullet-point prompt for an entry.
func ResponsibilitiesPrompt(entry model.Experience) string {
	var b strings.Builder
	b.WriteString("Generate 3-5 concise, action-oriented bullet points for a resume based on the following job information.\n")
	b.WriteString("If existing responsibilities are provided, refine them or add to them.\n")
	fmt.Fprintf(&b, "Job Title: %s\n", entry.JobTitle)
	fmt.Fprintf(&b, "Company: %s\n", entry.Company)
	if existing := strings.TrimSpace(entry.Responsibilities); existing != "" {
		fmt.Fprintf(&b, "Existing Responsibilities (to refine/add to):\n%s\n", existing)
	}
	b.WriteString("\nFocus on achievements and skills. Start each bullet point with an action verb.")
	return b.String()
}

// SuggestResponsibilities asks s for bullet points and replaces the entry's
// responsibilities with the answer. On error doc is returned unchanged.
func SuggestResponsibilities(ctx context.Context, s Suggester, doc model.Document, id model.EntryID) (model.Document, error) {
	idx := doc.FindExperience(id)
	if idx < 0 {
		return doc, fmt.Errorf("%w: experience %s", ErrEntryNotFound, id)
	}
	suggestion, err := s.Suggest(ctx, ResponsibilitiesPrompt(doc.Experience[idx]))
	if err != nil {
		return doc, err
	}
	return UpdateExperience(doc, id, FieldResponsibilities, strings.TrimSpace(suggestion))
}
