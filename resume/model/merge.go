package model

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Patch is the partial document produced by AI parsing. Pointer and nil
// fields mean the key was absent.
type Patch struct {
	PersonalInfo  *PersonalInfoPatch `json:"personalInfo,omitempty"`
	Summary       *string            `json:"summary,omitempty"`
	Experience    []Experience       `json:"experience,omitempty"`
	Education     []Education        `json:"education,omitempty"`
	Skills        []string           `json:"skills,omitempty"`
	SectionsOrder []string           `json:"sectionsOrder,omitempty"`
}

// PersonalInfoPatch carries only the contact keys the AI returned.
type PersonalInfoPatch struct {
	Name         *string `json:"name,omitempty"`
	Email        *string `json:"email,omitempty"`
	Phone        *string `json:"phone,omitempty"`
	Address      *string `json:"address,omitempty"`
	ProfileImage *string `json:"profileImage,omitempty"`
}

// ParsePatch reads AI output as a Patch. A surrounding markdown code fence is
// tolerated; anything else that is not a JSON object fails with ErrInvalidPatch.
func ParsePatch(raw string) (Patch, error) {
	cleaned := stripCodeFence(raw)
	if cleaned == "" {
		return Patch{}, fmt.Errorf("%w: empty response", ErrInvalidPatch)
	}
	if err := ValidatePatchJSON([]byte(cleaned)); err != nil {
		return Patch{}, fmt.Errorf("%w: %v", ErrInvalidPatch, err)
	}
	var p Patch
	if err := json.Unmarshal([]byte(cleaned), &p); err != nil {
		return Patch{}, fmt.Errorf("%w: %v", ErrInvalidPatch, err)
	}
	return p, nil
}

// Merge folds p into doc:
//   - personalInfo keys present in the patch overwrite existing keys
//   - summary replaces the existing one when non-empty
//   - experience and education replace the whole list when non-empty, and
//     entries without an id get a fresh one
//   - skills are unioned, existing skills first
//   - sectionsOrder replaces the existing order when at least one known key
//     survives filtering
func Merge(doc Document, p Patch) Document {
	out := doc

	if p.PersonalInfo != nil {
		info := doc.PersonalInfo
		overlay(&info.Name, p.PersonalInfo.Name)
		overlay(&info.Email, p.PersonalInfo.Email)
		overlay(&info.Phone, p.PersonalInfo.Phone)
		overlay(&info.Address, p.PersonalInfo.Address)
		overlay(&info.ProfileImage, p.PersonalInfo.ProfileImage)
		out = out.WithPersonalInfo(info)
	}

	if p.Summary != nil && strings.TrimSpace(*p.Summary) != "" {
		out = out.WithSummary(*p.Summary)
	}

	if len(p.Experience) > 0 {
		out = out.WithExperience(ensureExperienceIDs(p.Experience, NewEntryID))
	}
	if len(p.Education) > 0 {
		out = out.WithEducation(ensureEducationIDs(p.Education, NewEntryID))
	}

	if len(p.Skills) > 0 {
		out = out.WithSkills(UnionSkills(doc.Skills, p.Skills))
	}

	if len(p.SectionsOrder) > 0 {
		keys := make([]SectionKey, 0, len(p.SectionsOrder))
		for _, raw := range p.SectionsOrder {
			keys = append(keys, SectionKey(strings.TrimSpace(raw)))
		}
		if filtered := filterOrder(keys); len(filtered) > 0 {
			out.SectionsOrder = filtered
		}
	}

	return out
}

func overlay(dst *string, src *string) {
	if src != nil {
		*dst = *src
	}
}

func stripCodeFence(raw string) string {
	s := strings.TrimSpace(raw)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```")
	if nl := strings.IndexByte(s, '\n'); nl >= 0 {
		// drop the language tag line
		s = s[nl+1:]
	}
	s = strings.TrimSpace(s)
	s = strings.TrimSuffix(s, "```")
	return strings.TrimSpace(s)
}
