package llm

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
)

func TestUnconfiguredSuggester(t *testing.T) {
	_, err := Unconfigured{}.Suggest(context.Background(), "hi")
	if !errors.Is(err, ErrNotConfigured) {
		t.Fatalf("expected ErrNotConfigured, got %v", err)
	}
}

func TestIsTransient(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{name: "network", err: &NetworkError{Err: errors.New("refused")}, want: true},
		{name: "wrapped api", err: fmt.Errorf("suggest: %w", &APIError{Code: 503, Message: "busy"}), want: true},
		{name: "protocol", err: &ProtocolError{Reason: "missing text"}, want: false},
		{name: "not configured", err: ErrNotConfigured, want: false},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			if got := IsTransient(tt.err); got != tt.want {
				t.Fatalf("IsTransient(%v) = %v, want %v", tt.err, got, tt.want)
			}
		})
	}
}

func TestAutofillParsePromptEmbedsText(t *testing.T) {
	prompt := AutofillParsePrompt("Jane Roe\nGo developer")
	if !strings.Contains(prompt, "---\nJane Roe\nGo developer\n---") {
		t.Fatalf("expected resume text between separators, got:\n%s", prompt)
	}
	if !strings.HasSuffix(strings.TrimSpace(prompt), "Return only the JSON object.") {
		t.Fatalf("expected JSON-only instruction at the end")
	}
	if strings.Contains(prompt, "{{RESUME_TEXT}}") {
		t.Fatalf("placeholder was not replaced")
	}
}
