// Package host builds the payload the editing app receives before it starts:
// the template catalog, the relay endpoint, and a fresh relay nonce.
package host

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"resume-builder/internal/catalog"
	"resume-builder/internal/relay"
	"resume-builder/internal/shared/server/middleware"
	"resume-builder/internal/shared/server/respond"
)

// GlobalName is the window property the script form of the payload assigns.
const GlobalName = "aiResumeBuilder"

// Payload is the Host->App data.
type Payload struct {
	Templates         []catalog.Entry `json:"templates"`
	AjaxURL           string          `json:"ajax_url"`
	AISuggestionNonce string          `json:"ai_suggestion_nonce"`
}

// Service assembles payloads.
type Service struct {
	Catalog *catalog.Service
	Nonces  relay.NonceStore
	AjaxURL string
}

// Build returns the payload for principal with a newly issued nonce.
func (s *Service) Build(ctx context.Context, principal string) (Payload, error) {
	entries, err := s.Catalog.List(ctx)
	if err != nil {
		return Payload{}, fmt.Errorf("list templates: %w", err)
	}
	nonce, err := s.Nonces.Issue(ctx, principal)
	if err != nil {
		return Payload{}, fmt.Errorf("issue nonce: %w", err)
	}
	if entries == nil {
		entries = []catalog.Entry{}
	}
	return Payload{Templates: entries, AjaxURL: s.AjaxURL, AISuggestionNonce: nonce}, nil
}

// Script renders p as a script assigning the payload to GlobalName.
func Script(p Payload) ([]byte, error) {
	b, err := json.Marshal(p)
	if err != nil {
		return nil, err
	}
	return []byte("window." + GlobalName + " = " + string(b) + ";\n"), nil
}

// Handler serves the payload.
type Handler struct {
	Svc *Service
}

// RegisterRoutes attaches host routes to the router group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/host", h.json)
	rg.GET("/host.js", h.script)
}

func (h *Handler) json(c *gin.Context) {
	p, err := h.Svc.Build(c.Request.Context(), middleware.PrincipalFromContext(c))
	if err != nil {
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to build host payload", nil)
		return
	}
	c.Header("Cache-Control", "no-store")
	respond.OK(c, p)
}

func (h *Handler) script(c *gin.Context) {
	p, err := h.Svc.Build(c.Request.Context(), middleware.PrincipalFromContext(c))
	if err != nil {
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to build host payload", nil)
		return
	}
	body, err := Script(p)
	if err != nil {
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to build host payload", nil)
		return
	}
	c.Header("Cache-Control", "no-store")
	c.Data(http.StatusOK, "application/javascript; charset=utf-8", body)
}
