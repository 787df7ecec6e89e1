package middleware

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	"resume-builder/internal/shared/telemetry"
)

func TestLoggingIncludesRequiredFields(t *testing.T) {
	gin.SetMode(gin.TestMode)

	router := gin.New()
	router.Use(RequestID(), Auth("dev"), Logging())
	router.GET("/api/v1/resume/export/:format", func(c *gin.Context) {
		c.Set(ExportFormatKey, c.Param("format"))
		c.Set(SectionKey, "skills")
		c.JSON(http.StatusOK, gin.H{"ok": true})
	})

	var buf bytes.Buffer
	restore := telemetry.SetOutput(&buf)
	defer restore()

	req := httptest.NewRequest(http.MethodGet, "/api/v1/resume/export/docx", nil)
	req.Header.Set(DevUserHeader, "jane")
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) == 0 {
		t.Fatalf("expected log output")
	}
	last := lines[len(lines)-1]
	var payload map[string]any
	if err := json.Unmarshal([]byte(last), &payload); err != nil {
		t.Fatalf("decode log json: %v", err)
	}

	required := []string{"request_id", "principal", "route", "duration_ms", "status", "export_format", "section"}
	for _, key := range required {
		if _, ok := payload[key]; !ok {
			t.Fatalf("missing log field: %s", key)
		}
	}
	if payload["principal"] != "dev:jane" {
		t.Fatalf("unexpected principal: %v", payload["principal"])
	}
	if payload["route"] != "/api/v1/resume/export/:format" {
		t.Fatalf("unexpected route: %v", payload["route"])
	}
	if payload["export_format"] != "docx" {
		t.Fatalf("unexpected export_format: %v", payload["export_format"])
	}
}
