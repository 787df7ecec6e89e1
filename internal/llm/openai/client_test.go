package openai

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"resume-builder/internal/llm"
	"resume-builder/internal/shared/telemetry"
)

func TestIsGPT5(t *testing.T) {
	tests := []struct {
		name  string
		model string
		want  bool
	}{
		{name: "gpt5", model: "gpt-5", want: true},
		{name: "gpt5 variant", model: "gpt-5-mini", want: true},
		{name: "gpt5 uppercase", model: " GPT-5o ", want: true},
		{name: "gpt4", model: "gpt-4o", want: false},
		{name: "empty", model: "", want: false},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			if got := isGPT5(tt.model); got != tt.want {
				t.Fatalf("isGPT5(%q) = %v, want %v", tt.model, got, tt.want)
			}
		})
	}
}

func withServer(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	oldURL := apiURL
	apiURL = server.URL
	t.Cleanup(func() { apiURL = oldURL })

	restore := telemetry.SetOutput(io.Discard)
	t.Cleanup(restore)

	client, err := NewClient("test-key", "gpt-4o-mini")
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}
	return client
}

func TestSuggestReturnsFirstChoice(t *testing.T) {
	var payload map[string]any
	client := withServer(t, func(w http.ResponseWriter, r *http.Request) {
		defer r.Body.Close()
		if r.Header.Get("Authorization") != "Bearer test-key" {
			t.Errorf("missing bearer token")
		}
		if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
			t.Errorf("decode request: %v", err)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"choices":[{"message":{"role":"assistant","content":"  Go, SQL  "}}],"usage":{"total_tokens":7}}`))
	})

	got, err := client.Suggest(context.Background(), "skills please")
	if err != nil {
		t.Fatalf("Suggest: %v", err)
	}
	if got != "Go, SQL" {
		t.Fatalf("unexpected suggestion %q", got)
	}
	if _, ok := payload["response_format"]; ok {
		t.Fatalf("suggestions are free text; response_format must be omitted")
	}
}

func TestSuggestMapsUpstreamError(t *testing.T) {
	client := withServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		_, _ = w.Write([]byte(`{"error":{"message":"Rate limit reached","type":"rate_limit_error"}}`))
	})

	_, err := client.Suggest(context.Background(), "x")
	var apiErr *llm.APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected APIError, got %v", err)
	}
	if apiErr.Code != http.StatusTooManyRequests || apiErr.Message != "Rate limit reached" {
		t.Fatalf("unexpected api error %+v", apiErr)
	}
}

func TestSuggestMissingChoicesIsProtocolError(t *testing.T) {
	client := withServer(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"choices":[]}`))
	})

	_, err := client.Suggest(context.Background(), "x")
	var protoErr *llm.ProtocolError
	if !errors.As(err, &protoErr) {
		t.Fatalf("expected ProtocolError, got %v", err)
	}
}

func TestSuggestTransportFailure(t *testing.T) {
	client := withServer(t, func(w http.ResponseWriter, r *http.Request) {})
	apiURL = "http://127.0.0.1:1"

	_, err := client.Suggest(context.Background(), "x")
	var netErr *llm.NetworkError
	if !errors.As(err, &netErr) {
		t.Fatalf("expected NetworkError, got %v", err)
	}
}

func TestNewClientRequiresKey(t *testing.T) {
	if _, err := NewClient("", "gpt-4o"); !errors.Is(err, llm.ErrNotConfigured) {
		t.Fatalf("expected ErrNotConfigured, got %v", err)
	}
}
