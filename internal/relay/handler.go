// Package relay is the server side of the AI suggestion relay. It checks the
// action name and nonce, forwards the prompt to the upstream provider with the
// server-held credential, and answers in the host's success/data envelope.
package relay

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"resume-builder/internal/llm"
	llmrelay "resume-builder/internal/llm/relay"
	"resume-builder/internal/shared/metrics"
	"resume-builder/internal/shared/server/middleware"
	"resume-builder/internal/shared/telemetry"
	"resume-builder/internal/shared/util"
)

const (
	msgNonceFailed    = "Nonce verification failed."
	msgNotConfigured  = "AI API key is not set in server settings."
	msgPromptMissing  = "Prompt data is missing."
	msgConnectFailed  = "Failed to connect to AI API: "
	msgUpstreamFailed = "Unknown error from AI API."
	msgBadStructure   = "Unexpected response structure from AI."
)

// Envelope is the relay response body.
type Envelope struct {
	Success bool `json:"success"`
	Data    any  `json:"data"`
}

// SuggestionData is the success payload.
type SuggestionData struct {
	Suggestion string `json:"suggestion"`
}

// FailureData is the failure payload.
type FailureData struct {
	Message string `json:"message"`
	Details any    `json:"details,omitempty"`
}

// Handler serves the relay endpoint.
type Handler struct {
	Nonces   NonceStore
	Upstream llm.Suggester
}

// NewHandler wires a relay handler. A nil upstream behaves as unconfigured.
func NewHandler(nonces NonceStore, upstream llm.Suggester) *Handler {
	if upstream == nil {
		upstream = llm.Unconfigured{}
	}
	return &Handler{Nonces: nonces, Upstream: upstream}
}

// Register mounts the relay on path.
func (h *Handler) Register(r gin.IRoutes, path string) {
	r.POST(path, h.Post)
}

// Post handles one relay call.
func (h *Handler) Post(c *gin.Context) {
	if c.PostForm("action") != llmrelay.Action {
		// unknown actions get the host's bare "0" answer
		c.String(http.StatusBadRequest, "0")
		return
	}
	c.Set(middleware.SectionKey, "relay")

	principal := middleware.PrincipalFromContext(c)
	ok, err := h.Nonces.Verify(c.Request.Context(), principal, c.PostForm("security_nonce"))
	if err != nil {
		telemetry.Error("relay.nonce_error", map[string]any{"error": err.Error()})
		ok = false
	}
	if !ok {
		h.fail(c, http.StatusForbidden, msgNonceFailed, nil)
		return
	}

	prompt := util.SanitizeTextarea(c.PostForm("prompt"))
	if _, unconfigured := h.Upstream.(llm.Unconfigured); unconfigured {
		h.fail(c, http.StatusBadRequest, msgNotConfigured, nil)
		return
	}
	if prompt == "" {
		h.fail(c, http.StatusBadRequest, msgPromptMissing, nil)
		return
	}

	text, err := h.Upstream.Suggest(c.Request.Context(), prompt)
	if err != nil {
		status, message, details := classify(err)
		telemetry.Warn("relay.upstream_failed", map[string]any{
			"principal": principal,
			"status":    status,
			"error":     err.Error(),
		})
		h.fail(c, status, message, details)
		return
	}

	metrics.IncRelaySuggestion()
	c.JSON(http.StatusOK, Envelope{Success: true, Data: SuggestionData{Suggestion: text}})
}

func (h *Handler) fail(c *gin.Context, status int, message string, details any) {
	metrics.IncRelayFailure()
	c.AbortWithStatusJSON(status, Envelope{Success: false, Data: FailureData{Message: message, Details: details}})
}

// classify maps a Suggester error onto the relay status, message and details.
func classify(err error) (int, string, any) {
	var apiErr *llm.APIError
	var protoErr *llm.ProtocolError
	var netErr *llm.NetworkError
	switch {
	case errors.Is(err, llm.ErrNotConfigured):
		return http.StatusBadRequest, msgNotConfigured, nil
	case errors.As(err, &apiErr):
		status := apiErr.Code
		if status < 400 || status > 599 {
			status = http.StatusBadGateway
		}
		message := strings.TrimSpace(apiErr.Message)
		if message == "" {
			message = msgUpstreamFailed
		}
		return status, message, apiErr.Details
	case errors.As(err, &protoErr):
		return http.StatusInternalServerError, msgBadStructure, protoErr.Details
	case errors.As(err, &netErr):
		return http.StatusInternalServerError, msgConnectFailed + netErr.Err.Error(), nil
	default:
		return http.StatusInternalServerError, msgConnectFailed + err.Error(), nil
	}
}
