package llm

import (
	_ "embed"
	"strings"
)

var (
	//go:embed prompts/autofill_parse_v1.txt
	autofillParseV1 string
)

// AutofillPromptVersion identifies the parse instructions sent with OCR text.
const AutofillPromptVersion = "autofill_parse_v1"

// AutofillParsePrompt wraps recognized resume text in the instructions that
// ask the model for a JSON resume patch and nothing else.
func AutofillParsePrompt(resumeText string) string {
	replacer := strings.NewReplacer("{{RESUME_TEXT}}", resumeText)
	return replacer.Replace(autofillParseV1)
}
