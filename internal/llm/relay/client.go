// Package relay is the client side of the suggestion relay: it posts a
// prompt with the host-issued nonce and unwraps the success envelope.
package relay

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/tidwall/gjson"

	"resume-builder/internal/llm"
)

// Action is the fixed relay action name.
const Action = "airb_get_ai_suggestion"

// Client implements llm.Suggester against a relay endpoint. Token, when
// set, is sent as a bearer token.
type Client struct {
	URL        string
	Nonce      string
	Token      string
	HTTPClient *http.Client
}

// NewClient returns a relay client for ajaxURL using nonce.
func NewClient(ajaxURL, nonce string) *Client {
	return &Client{
		URL:        ajaxURL,
		Nonce:      nonce,
		HTTPClient: &http.Client{Timeout: 60 * time.Second},
	}
}

// Suggest posts prompt to the relay. A missing URL or nonce is reported as
// llm.ErrNotConfigured before any request is made.
func (c *Client) Suggest(ctx context.Context, prompt string) (string, error) {
	if c == nil || strings.TrimSpace(c.URL) == "" || strings.TrimSpace(c.Nonce) == "" {
		return "", fmt.Errorf("relay url or nonce missing: %w", llm.ErrNotConfigured)
	}

	form := url.Values{}
	form.Set("action", Action)
	form.Set("security_nonce", c.Nonce)
	form.Set("prompt", prompt)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.URL, strings.NewReader(form.Encode()))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Accept", "application/json")
	if c.Token != "" {
		req.Header.Set("Authorization", "Bearer "+c.Token)
	}

	httpClient := c.HTTPClient
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	resp, err := httpClient.Do(req)
	if err != nil {
		return "", &llm.NetworkError{Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", &llm.NetworkError{Err: err}
	}
	return parseEnvelope(resp.StatusCode, body)
}

func parseEnvelope(status int, body []byte) (string, error) {
	if !gjson.ValidBytes(body) {
		if status < 200 || status >= 300 {
			return "", &llm.APIError{Code: status, Message: fmt.Sprintf("HTTP error! Status: %d", status)}
		}
		return "", &llm.ProtocolError{Reason: "relay response is not JSON"}
	}

	envelope := gjson.ParseBytes(body)
	if !envelope.Get("success").Bool() || status < 200 || status >= 300 {
		msg := envelope.Get("data.message").String()
		if msg == "" {
			msg = "An unknown error occurred while fetching AI suggestion."
		}
		code := status
		if code >= 200 && code < 300 {
			code = http.StatusBadGateway
		}
		return "", &llm.APIError{Code: code, Message: msg, Details: envelope.Get("data.details").Value()}
	}

	suggestion := envelope.Get("data.suggestion")
	if suggestion.Type != gjson.String {
		return "", &llm.ProtocolError{Reason: "relay response missing data.suggestion"}
	}
	return suggestion.String(), nil
}

var _ llm.Suggester = (*Client)(nil)
