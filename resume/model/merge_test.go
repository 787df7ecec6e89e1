package model

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string { return &s }

func TestMergeSkillsUnionKeepsExistingFirst(t *testing.T) {
	doc := Document{Skills: []string{"JS", "Go"}}
	got := Merge(doc, Patch{Skills: []string{"Go", "Rust"}})
	assert.Equal(t, []string{"JS", "Go", "Rust"}, got.Skills)
}

func TestMergePersonalInfoIsShallow(t *testing.T) {
	doc := Document{PersonalInfo: PersonalInfo{Name: "Old", Email: "old@example.com", Phone: "555"}}
	got := Merge(doc, Patch{PersonalInfo: &PersonalInfoPatch{Name: strPtr("New"), Address: strPtr("Main St")}})

	assert.Equal(t, PersonalInfo{Name: "New", Email: "old@example.com", Phone: "555", Address: "Main St"}, got.PersonalInfo)
}

func TestMergeListsReplaceOnlyWhenNonEmpty(t *testing.T) {
	doc := Default()

	kept := Merge(doc, Patch{Experience: []Experience{}, Education: nil})
	assert.Equal(t, doc.Experience, kept.Experience)
	assert.Equal(t, doc.Education, kept.Education)

	replaced := Merge(doc, Patch{Experience: []Experience{{JobTitle: "Pilot"}}})
	require.Len(t, replaced.Experience, 1)
	assert.Equal(t, "Pilot", replaced.Experience[0].JobTitle)
	assert.NotEmpty(t, replaced.Experience[0].ID)
}

func TestMergeSummaryAndOrder(t *testing.T) {
	doc := Default().WithSummary("keep me")

	got := Merge(doc, Patch{Summary: strPtr("  "), SectionsOrder: []string{"bogus"}})
	assert.Equal(t, "keep me", got.Summary)
	assert.Equal(t, doc.SectionsOrder, got.SectionsOrder)

	got = Merge(doc, Patch{Summary: strPtr("Seasoned engineer"), SectionsOrder: []string{"summary", "skills", "bogus"}})
	assert.Equal(t, "Seasoned engineer", got.Summary)
	assert.Equal(t, []SectionKey{SectionSummary, SectionSkills}, got.SectionsOrder)
}

func TestParsePatch(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		raw     string
		wantErr bool
		check   func(t *testing.T, p Patch)
	}{
		{
			name: "plain object",
			raw:  `{"personalInfo":{"name":"Ada","profileImage":null},"skills":["Math"]}`,
			check: func(t *testing.T, p Patch) {
				require.NotNil(t, p.PersonalInfo)
				assert.Equal(t, "Ada", *p.PersonalInfo.Name)
				assert.Nil(t, p.PersonalInfo.ProfileImage)
				assert.Nil(t, p.PersonalInfo.Email)
				assert.Equal(t, []string{"Math"}, p.Skills)
			},
		},
		{
			name: "fenced",
			raw:  "```json\n{\"summary\":\"Hi\"}\n```",
			check: func(t *testing.T, p Patch) {
				require.NotNil(t, p.Summary)
				assert.Equal(t, "Hi", *p.Summary)
			},
		},
		{name: "prose", raw: "Sorry, I cannot help with that.", wantErr: true},
		{name: "empty", raw: "   ", wantErr: true},
		{name: "wrong shape", raw: `{"skills":"Go"}`, wantErr: true},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			p, err := ParsePatch(tt.raw)
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, errors.Is(err, ErrInvalidPatch))
				return
			}
			require.NoError(t, err)
			tt.check(t, p)
		})
	}
}
