package editor

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"resume-builder/resume/model"
)

type fakeSuggester struct {
	answer  string
	err     error
	prompts []string
}

func (f *fakeSuggester) Suggest(ctx context.Context, prompt string) (string, error) {
	f.prompts = append(f.prompts, prompt)
	return f.answer, f.err
}

func TestExperienceLifecycle(t *testing.T) {
	doc := model.Default()

	doc, id := AddExperience(doc)
	require.Len(t, doc.Experience, 2)
	assert.NotEqual(t, doc.Experience[0].ID, id)

	updated, err := UpdateExperience(doc, id, FieldCompany, "Globex")
	require.NoError(t, err)
	assert.Equal(t, "Globex", updated.Experience[1].Company)
	assert.Empty(t, doc.Experience[1].Company, "input document must not change")

	_, err = UpdateExperience(updated, id, ExperienceField("salary"), "1")
	assert.True(t, errors.Is(err, ErrUnknownField))

	removed, err := RemoveExperience(updated, id)
	require.NoError(t, err)
	require.Len(t, removed.Experience, 1)
	assert.Equal(t, model.EntryID("1"), removed.Experience[0].ID)

	_, err = RemoveExperience(removed, id)
	assert.True(t, errors.Is(err, ErrEntryNotFound))
}

func TestAddedIDsAreNotReused(t *testing.T) {
	doc := model.Document{}
	doc, first := AddEducation(doc)
	doc, err := RemoveEducation(doc, first)
	require.NoError(t, err)
	_, second := AddEducation(doc)
	assert.NotEqual(t, first, second)
}

func TestSkills(t *testing.T) {
	doc := model.Document{Skills: []string{"Go"}}

	_, err := AddSkill(doc, "   ")
	assert.True(t, errors.Is(err, ErrInvalidInput))

	same, err := AddSkill(doc, " Go ")
	require.NoError(t, err)
	assert.Equal(t, []string{"Go"}, same.Skills)

	more, err := AddSkill(doc, "SQL")
	require.NoError(t, err)
	assert.Equal(t, []string{"Go", "SQL"}, more.Skills)

	assert.Equal(t, []string{"SQL"}, RemoveSkill(more, "Go").Skills)
}

func TestSuggestSkillsUnionsAnswer(t *testing.T) {
	s := &fakeSuggester{answer: "Go, Kubernetes ,  , Terraform"}
	doc := model.Document{Skills: []string{"Go"}}

	next, suggested, err := SuggestSkills(context.Background(), s, doc, "Platform Engineer", "")
	require.NoError(t, err)
	assert.Equal(t, []string{"Go", "Kubernetes", "Terraform"}, suggested)
	assert.Equal(t, []string{"Go", "Kubernetes", "Terraform"}, next.Skills)
	require.Len(t, s.prompts, 1)
	assert.Contains(t, s.prompts[0], `"Platform Engineer"`)
	assert.NotContains(t, s.prompts[0], "description")
}

func TestSuggestResponsibilitiesKeepsDocOnError(t *testing.T) {
	doc := model.Default()
	s := &fakeSuggester{err: errors.New("upstream down")}

	got, err := SuggestResponsibilities(context.Background(), s, doc, "1")
	require.Error(t, err)
	assert.Equal(t, doc, got)

	s = &fakeSuggester{answer: "- Built things\n- Shipped things\n"}
	got, err = SuggestResponsibilities(context.Background(), s, doc, "1")
	require.NoError(t, err)
	assert.Equal(t, "- Built things\n- Shipped things", got.Experience[0].Responsibilities)
	assert.True(t, strings.Contains(s.prompts[0], "Existing Responsibilities"))
}

func TestProfileImage(t *testing.T) {
	doc := model.Default()

	_, err := SetProfileImage(doc, "https://example.com/me.png")
	assert.True(t, errors.Is(err, ErrInvalidInput))

	withImage, err := SetProfileImage(doc, "data:image/png;base64,AAAA")
	require.NoError(t, err)
	assert.Equal(t, "data:image/png;base64,AAAA", withImage.PersonalInfo.ProfileImage)
	assert.Empty(t, RemoveProfileImage(withImage).PersonalInfo.ProfileImage)
}
