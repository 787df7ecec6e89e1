// Package gemini is the upstream suggestion provider used by the relay. It
// holds the server-side API key; nothing outside the relay wiring sees it.
package gemini

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"github.com/googleapis/gax-go/v2/apierror"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"

	"resume-builder/internal/llm"
	"resume-builder/internal/shared/telemetry"
)

// DefaultModel is used when LLM_MODEL is empty.
const DefaultModel = "gemini-1.5-flash"

// BlockedMessage is reported when the upstream refuses on safety grounds.
const BlockedMessage = "AI content generation blocked."

type generator interface {
	GenerateContent(ctx context.Context, parts ...genai.Part) (*genai.GenerateContentResponse, error)
}

// Client implements llm.Suggester on the Gemini generateContent API.
type Client struct {
	client *genai.Client
	model  string
	gen    generator
}

// NewClient creates a Gemini client for model using apiKey.
func NewClient(ctx context.Context, apiKey, model string) (*Client, error) {
	if strings.TrimSpace(apiKey) == "" {
		return nil, fmt.Errorf("GEMINI_API_KEY is required: %w", llm.ErrNotConfigured)
	}
	if strings.TrimSpace(model) == "" {
		model = DefaultModel
	}
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}
	return &Client{
		client: client,
		model:  model,
		gen:    client.GenerativeModel(model),
	}, nil
}

// Close releases resources held by the client.
func (c *Client) Close() error {
	if c.client != nil {
		return c.client.Close()
	}
	return nil
}

// Suggest makes one generateContent call and returns the first candidate's
// text.
func (c *Client) Suggest(ctx context.Context, prompt string) (string, error) {
	resp, err := c.gen.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return "", mapError(err)
	}
	if resp.UsageMetadata != nil {
		telemetry.Info("llm.response", map[string]any{
			"provider":      "gemini",
			"model":         c.model,
			"input_tokens":  resp.UsageMetadata.PromptTokenCount,
			"output_tokens": resp.UsageMetadata.CandidatesTokenCount,
			"total_tokens":  resp.UsageMetadata.TotalTokenCount,
		})
	}
	return extractText(resp)
}

// extractText returns the first text part of the first candidate.
func extractText(resp *genai.GenerateContentResponse) (string, error) {
	if resp == nil || len(resp.Candidates) == 0 {
		if resp != nil && resp.PromptFeedback != nil && resp.PromptFeedback.BlockReason != genai.BlockReasonUnspecified {
			return "", blocked(resp.PromptFeedback, nil)
		}
		return "", &llm.ProtocolError{Reason: "Unexpected response structure from AI."}
	}
	candidate := resp.Candidates[0]
	if candidate.Content == nil {
		return "", &llm.ProtocolError{Reason: "Unexpected response structure from AI."}
	}
	for _, part := range candidate.Content.Parts {
		if text, ok := part.(genai.Text); ok {
			return string(text), nil
		}
	}
	return "", &llm.ProtocolError{Reason: "Unexpected response structure from AI."}
}

func mapError(err error) error {
	var blockedErr *genai.BlockedError
	if errors.As(err, &blockedErr) {
		return blocked(blockedErr.PromptFeedback, blockedErr.Candidate)
	}

	var gapiErr *googleapi.Error
	if errors.As(err, &gapiErr) {
		msg := gapiErr.Message
		if msg == "" {
			msg = "Unknown error from Gemini API."
		}
		return &llm.APIError{Code: gapiErr.Code, Message: msg, Details: gapiErr.Body}
	}

	var apiErr *apierror.APIError
	if errors.As(err, &apiErr) {
		code := apiErr.HTTPCode()
		if code <= 0 {
			code = http.StatusBadGateway
		}
		details := map[string]any{"reason": apiErr.Reason()}
		if st := apiErr.GRPCStatus(); st != nil {
			details["status"] = st.Code().String()
		}
		return &llm.APIError{Code: code, Message: apiErr.Error(), Details: details}
	}

	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return err
	}
	return &llm.NetworkError{Err: err}
}

func blocked(feedback *genai.PromptFeedback, candidate *genai.Candidate) *llm.APIError {
	details := map[string]any{}
	if feedback != nil {
		details["blockReason"] = feedback.BlockReason.String()
		details["safetyRatings"] = ratings(feedback.SafetyRatings)
	}
	if candidate != nil {
		details["finishReason"] = candidate.FinishReason.String()
		if _, ok := details["safetyRatings"]; !ok {
			details["safetyRatings"] = ratings(candidate.SafetyRatings)
		}
	}
	return &llm.APIError{Code: http.StatusBadRequest, Message: BlockedMessage, Details: details}
}

func ratings(in []*genai.SafetyRating) []map[string]any {
	out := make([]map[string]any, 0, len(in))
	for _, r := range in {
		if r == nil {
			continue
		}
		out = append(out, map[string]any{
			"category":    r.Category.String(),
			"probability": r.Probability.String(),
			"blocked":     r.Blocked,
		})
	}
	return out
}

var _ llm.Suggester = (*Client)(nil)
