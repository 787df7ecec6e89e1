package model

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOrderFiltersUnknownAndFallsBack(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		order []SectionKey
		want  []SectionKey
	}{
		{name: "nil", order: nil, want: DefaultSectionsOrder()},
		{name: "only unknown", order: []SectionKey{"projects", "awards"}, want: DefaultSectionsOrder()},
		{name: "mixed", order: []SectionKey{"skills", "bogus", "personalInfo"}, want: []SectionKey{SectionSkills, SectionPersonalInfo}},
		{name: "duplicates", order: []SectionKey{"skills", "skills", "summary"}, want: []SectionKey{SectionSkills, SectionSummary}},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			doc := Document{SectionsOrder: tt.order}
			assert.Equal(t, tt.want, doc.Order())
		})
	}
}

func TestApplyReplacesOnlyTargetSection(t *testing.T) {
	doc := Default()
	value := json.RawMessage(`[{"jobTitle":"Staff Engineer","company":"Acme","startDate":"2021-03-01","endDate":"Present","responsibilities":"Led platform team"}]`)

	next, err := Apply(doc, SectionExperience, value)
	require.NoError(t, err)

	require.Len(t, next.Experience, 1)
	assert.Equal(t, "Staff Engineer", next.Experience[0].JobTitle)
	assert.NotEmpty(t, next.Experience[0].ID)

	assert.Equal(t, doc.PersonalInfo, next.PersonalInfo)
	assert.Equal(t, doc.Education, next.Education)
	assert.Equal(t, doc.Skills, next.Skills)
	assert.Equal(t, doc.SectionsOrder, next.SectionsOrder)
	assert.Equal(t, "Software Engineer", doc.Experience[0].JobTitle, "original must not change")
}

func TestApplyRejectsUnknownSectionAndBadValues(t *testing.T) {
	doc := Default()

	_, err := Apply(doc, SectionKey("projects"), json.RawMessage(`[]`))
	assert.True(t, errors.Is(err, ErrUnknownSection))

	_, err = Apply(doc, SectionSkills, json.RawMessage(`{"not":"a list"}`))
	assert.True(t, errors.Is(err, ErrInvalidValue))

	_, err = Apply(doc, SectionSummary, json.RawMessage(`null`))
	assert.True(t, errors.Is(err, ErrInvalidValue))
}

func TestApplySkillsDeduplicates(t *testing.T) {
	next, err := Apply(Document{}, SectionSkills, json.RawMessage(`["Go"," Go ","Rust",""]`))
	require.NoError(t, err)
	assert.Equal(t, []string{"Go", "Rust"}, next.Skills)
}

func TestReorder(t *testing.T) {
	t.Parallel()

	base := Document{SectionsOrder: DefaultSectionsOrder()}
	tests := []struct {
		name     string
		from, to int
		want     []SectionKey
	}{
		{name: "same index", from: 1, to: 1, want: DefaultSectionsOrder()},
		{name: "cancelled drag", from: 2, to: -1, want: DefaultSectionsOrder()},
		{name: "out of range", from: 0, to: 9, want: DefaultSectionsOrder()},
		{name: "move down", from: 0, to: 2, want: []SectionKey{SectionExperience, SectionEducation, SectionPersonalInfo, SectionSkills}},
		{name: "move up", from: 3, to: 0, want: []SectionKey{SectionSkills, SectionPersonalInfo, SectionExperience, SectionEducation}},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := Reorder(base, tt.from, tt.to)
			assert.Equal(t, tt.want, got.Order())
		})
	}
}

func TestReorderUsesEffectiveOrderWhenUnset(t *testing.T) {
	got := Reorder(Document{}, 0, 1)
	assert.Equal(t, []SectionKey{SectionExperience, SectionPersonalInfo, SectionEducation, SectionSkills}, got.SectionsOrder)
}

func TestDecodeDocumentAcceptsNumericIDs(t *testing.T) {
	raw := []byte(`{
		"personalInfo": {"name": "Jane", "email": "jane@example.com", "phone": null, "address": "", "profileImage": null},
		"experience": [{"id": 7, "jobTitle": "Chef", "company": "Bistro", "startDate": "2018-01-01", "endDate": "Present", "responsibilities": "Cooking"}],
		"education": [{"id": "e1", "degree": "BA", "institution": "Uni", "graduationDate": "2017-06-01"}],
		"skills": ["Knives"],
		"sectionsOrder": ["skills", "personalInfo", "hobbies"]
	}`)

	doc, err := DecodeDocument(raw)
	require.NoError(t, err)
	assert.Equal(t, EntryID("7"), doc.Experience[0].ID)
	assert.Equal(t, EntryID("e1"), doc.Education[0].ID)
	assert.Equal(t, []SectionKey{SectionSkills, SectionPersonalInfo}, doc.SectionsOrder)
}

func TestDecodeDocumentRejectsWrongShapes(t *testing.T) {
	for _, raw := range []string{
		``,
		`not json`,
		`[]`,
		`{"skills": "Go, Rust"}`,
		`{"experience": [{"jobTitle": 12}]}`,
	} {
		_, err := DecodeDocument([]byte(raw))
		assert.Truef(t, errors.Is(err, ErrInvalidDocument), "input %q: got %v", raw, err)
	}
}

func TestNormalizeAssignsMissingAndDuplicateIDs(t *testing.T) {
	doc := Document{
		Experience: []Experience{{ID: "a"}, {ID: "a"}, {}},
	}
	got := doc.Normalize()
	ids := map[EntryID]bool{}
	for _, e := range got.Experience {
		require.NotEmpty(t, e.ID)
		ids[e.ID] = true
	}
	assert.Len(t, ids, 3)
	assert.Equal(t, EntryID("a"), got.Experience[0].ID)
}

type orderRecorder struct {
	seen []SectionKey
}

func (r *orderRecorder) PersonalInfo(PersonalInfo) error {
	r.seen = append(r.seen, SectionPersonalInfo)
	return nil
}
func (r *orderRecorder) Summary(string) error {
	r.seen = append(r.seen, SectionSummary)
	return nil
}
func (r *orderRecorder) Experience([]Experience) error {
	r.seen = append(r.seen, SectionExperience)
	return nil
}
func (r *orderRecorder) Education([]Education) error {
	r.seen = append(r.seen, SectionEducation)
	return nil
}
func (r *orderRecorder) Skills([]string) error {
	r.seen = append(r.seen, SectionSkills)
	return nil
}

func TestVisitInOrderFollowsSectionsOrder(t *testing.T) {
	doc := Default()
	doc.SectionsOrder = []SectionKey{SectionSkills, SectionSummary, SectionPersonalInfo}

	rec := &orderRecorder{}
	require.NoError(t, doc.VisitInOrder(rec))
	assert.Equal(t, []SectionKey{SectionSkills, SectionSummary, SectionPersonalInfo}, rec.seen)
}
