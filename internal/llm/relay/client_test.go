package relay

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"resume-builder/internal/llm"
)

func TestSuggestPostsRelayForm(t *testing.T) {
	var got map[string]string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			t.Errorf("parse form: %v", err)
		}
		got = map[string]string{
			"action":         r.PostForm.Get("action"),
			"security_nonce": r.PostForm.Get("security_nonce"),
			"prompt":         r.PostForm.Get("prompt"),
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"success":true,"data":{"suggestion":"Go, Rust"}}`))
	}))
	defer server.Close()

	text, err := NewClient(server.URL, "n-123").Suggest(context.Background(), "suggest skills")
	if err != nil {
		t.Fatalf("Suggest: %v", err)
	}
	if text != "Go, Rust" {
		t.Fatalf("unexpected suggestion %q", text)
	}
	if got["action"] != Action || got["security_nonce"] != "n-123" || got["prompt"] != "suggest skills" {
		t.Fatalf("unexpected form %v", got)
	}
}

func TestSuggestWithoutConfiguration(t *testing.T) {
	tests := []struct {
		name string
		c    *Client
	}{
		{name: "nil", c: nil},
		{name: "no url", c: NewClient("", "nonce")},
		{name: "no nonce", c: NewClient("http://example.invalid", "")},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			if _, err := tt.c.Suggest(context.Background(), "x"); !errors.Is(err, llm.ErrNotConfigured) {
				t.Fatalf("expected ErrNotConfigured, got %v", err)
			}
		})
	}
}

func TestParseEnvelope(t *testing.T) {
	tests := []struct {
		name     string
		status   int
		body     string
		wantText string
		wantCode int
		wantMsg  string
		protocol bool
	}{
		{name: "success", status: 200, body: `{"success":true,"data":{"suggestion":"ok"}}`, wantText: "ok"},
		{name: "nonce failure", status: 403, body: `{"success":false,"data":{"message":"Nonce verification failed."}}`, wantCode: 403, wantMsg: "Nonce verification failed."},
		{name: "blocked", status: 400, body: `{"success":false,"data":{"message":"AI content generation blocked.","details":{"blockReason":"SAFETY"}}}`, wantCode: 400, wantMsg: "AI content generation blocked."},
		{name: "failure without message", status: 200, body: `{"success":false,"data":{}}`, wantCode: 502, wantMsg: "An unknown error occurred while fetching AI suggestion."},
		{name: "non json error", status: 500, body: `<html>oops</html>`, wantCode: 500, wantMsg: "HTTP error! Status: 500"},
		{name: "missing suggestion", status: 200, body: `{"success":true,"data":{}}`, protocol: true},
		{name: "non json success", status: 200, body: `nope`, protocol: true},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			text, err := parseEnvelope(tt.status, []byte(tt.body))
			switch {
			case tt.wantText != "":
				if err != nil || text != tt.wantText {
					t.Fatalf("expected %q, got %q (%v)", tt.wantText, text, err)
				}
			case tt.protocol:
				var protoErr *llm.ProtocolError
				if !errors.As(err, &protoErr) {
					t.Fatalf("expected ProtocolError, got %v", err)
				}
			default:
				var apiErr *llm.APIError
				if !errors.As(err, &apiErr) {
					t.Fatalf("expected APIError, got %v", err)
				}
				if apiErr.Code != tt.wantCode || apiErr.Message != tt.wantMsg {
					t.Fatalf("unexpected api error %+v", apiErr)
				}
			}
		})
	}
}
