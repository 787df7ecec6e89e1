package editor

import (
	"context"
	"fmt"
	"strings"

	"resume-builder/resume/model"
)

// AddSkill appends a trimmed skill. Blank values are rejected; a skill that
// is already present leaves the document unchanged.
func AddSkill(doc model.Document, skill string) (model.Document, error) {
	skill = strings.TrimSpace(skill)
	if skill == "" {
		return doc, fmt.Errorf("%w: skill is empty", ErrInvalidInput)
	}
	for _, existing := range doc.Skills {
		if existing == skill {
			return doc, nil
		}
	}
	return doc.WithSkills(append(append([]string(nil), doc.Skills...), skill)), nil
}

// RemoveSkill drops every occurrence of skill.
func RemoveSkill(doc model.Document, skill string) model.Document {
	out := make([]string, 0, len(doc.Skills))
	for _, existing := range doc.Skills {
		if existing != skill {
			out = append(out, existing)
		}
	}
	return doc.WithSkills(out)
}

// SkillsPrompt builds the skills suggestion prompt.
func SkillsPrompt(jobTitle, description string) string {
	prompt := fmt.Sprintf("Based on the job title %q ", jobTitle)
	if d := strings.TrimSpace(description); d != "" {
		prompt += fmt.Sprintf("and description: %q", d)
	}
	return prompt + ", suggest 5-7 relevant skills for a resume. Return as a comma-separated list."
}

// ParseSkillList splits a comma separated answer into trimmed skills.
func ParseSkillList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if s := strings.TrimSpace(part); s != "" {
			out = append(out, s)
		}
	}
	return out
}

// SuggestSkills asks s for skills matching the role and unions them into
// the document.
func SuggestSkills(ctx context.Context, s Suggester, doc model.Document, jobTitle, description string) (model.Document, []string, error) {
	if strings.TrimSpace(jobTitle) == "" {
		return doc, nil, fmt.Errorf("%w: jobTitle is required", ErrInvalidInput)
	}
	answer, err := s.Suggest(ctx, SkillsPrompt(jobTitle, description))
	if err != nil {
		return doc, nil, err
	}
	suggested := ParseSkillList(answer)
	return doc.WithSkills(model.UnionSkills(doc.Skills, suggested)), suggested, nil
}
