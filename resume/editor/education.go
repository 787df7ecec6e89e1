package editor

import (
	"fmt"

	"resume-builder/resume/model"
)

// EducationField names an editable education field.
type EducationField string

const (
	FieldDegree         EducationField = "degree"
	FieldInstitution    EducationField = "institution"
	FieldGraduationDate EducationField = "graduationDate"
	FieldDetails        EducationField = "details"
)

// AddEducation appends a blank entry with a fresh id.
func AddEducation(doc model.Document) (model.Document, model.EntryID) {
	entry := model.Education{ID: model.NewEntryID()}
	list := append(append([]model.Education(nil), doc.Education...), entry)
	return doc.WithEducation(list), entry.ID
}

// UpdateEducation sets one field of the entry with id.
func UpdateEducation(doc model.Document, id model.EntryID, field EducationField, value string) (model.Document, error) {
	idx := doc.FindEducation(id)
	if idx < 0 {
		return doc, fmt.Errorf("%w: education %s", ErrEntryNotFound, id)
	}
	entry := doc.Education[idx]
	switch field {
	case FieldDegree:
		entry.Degree = value
	case FieldInstitution:
		entry.Institution = value
	case FieldGraduationDate:
		entry.GraduationDate = value
	case FieldDetails:
		entry.Details = value
	default:
		return doc, fmt.Errorf("%w: education.%s", ErrUnknownField, field)
	}
	list := append([]model.Education(nil), doc.Education...)
	list[idx] = entry
	return doc.WithEducation(list), nil
}

// RemoveEducation drops the entry with id.
func RemoveEducation(doc model.Document, id model.EntryID) (model.Document, error) {
	idx := doc.FindEducation(id)
	if idx < 0 {
		return doc, fmt.Errorf("%w: education %s", ErrEntryNotFound, id)
	}
	list := make([]model.Education, 0, len(doc.Education)-1)
	list = append(list, doc.Education[:idx]...)
	list = append(list, doc.Education[idx+1:]...)
	return doc.WithEducation(list), nil
}
