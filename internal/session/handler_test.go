package session

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"resume-builder/resume/model"
	"resume-builder/resume/render"
)

func newRouter(t *testing.T, f *fixture) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(func(c *gin.Context) {
		c.Set("principal", principal)
		c.Next()
	})
	api := r.Group("/api/v1")
	NewHandler(f.svc).RegisterRoutes(api)
	return r
}

func doJSON(r http.Handler, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func decodeDocument(t *testing.T, rec *httptest.ResponseRecorder) model.Document {
	t.Helper()
	var body struct {
		Document model.Document `json:"document"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body.Document
}

func TestHandlerSectionRoutes(t *testing.T) {
	f := newFixture(t)
	r := newRouter(t, f)

	tests := []struct {
		name   string
		method string
		path   string
		body   string
		status int
	}{
		{name: "apply summary", method: http.MethodPut, path: "/api/v1/resume/sections/summary", body: `"Hello"`, status: http.StatusOK},
		{name: "unknown section", method: http.MethodPut, path: "/api/v1/resume/sections/hobbies", body: `[]`, status: http.StatusBadRequest},
		{name: "wrong shape", method: http.MethodPut, path: "/api/v1/resume/sections/skills", body: `{"a":1}`, status: http.StatusBadRequest},
		{name: "empty body", method: http.MethodPut, path: "/api/v1/resume/sections/summary", body: ``, status: http.StatusBadRequest},
		{name: "reorder", method: http.MethodPost, path: "/api/v1/resume/sections/reorder", body: `{"from":0,"to":1}`, status: http.StatusOK},
		{name: "reorder missing to", method: http.MethodPost, path: "/api/v1/resume/sections/reorder", body: `{"from":0}`, status: http.StatusBadRequest},
		{name: "unknown experience", method: http.MethodDelete, path: "/api/v1/resume/experience/missing", body: ``, status: http.StatusNotFound},
		{name: "unknown template", method: http.MethodPost, path: "/api/v1/resume/template", body: `{"templateId":"missing"}`, status: http.StatusNotFound},
		{name: "add skill", method: http.MethodPost, path: "/api/v1/resume/skills", body: `{"skill":"Go"}`, status: http.StatusOK},
		{name: "reset", method: http.MethodPost, path: "/api/v1/resume/reset", body: `{}`, status: http.StatusOK},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			rec := doJSON(r, tt.method, tt.path, tt.body)
			assert.Equal(t, tt.status, rec.Code, rec.Body.String())
		})
	}
}

func TestHandlerAddAndPatchEducation(t *testing.T) {
	f := newFixture(t)
	r := newRouter(t, f)

	rec := doJSON(r, http.MethodPost, "/api/v1/resume/education", `{}`)
	require.Equal(t, http.StatusCreated, rec.Code)
	var created struct {
		ID string `json:"id"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
	require.NotEmpty(t, created.ID)

	rec = doJSON(r, http.MethodPatch, "/api/v1/resume/education/"+created.ID, `{"degree":"M.Sc."}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	doc := decodeDocument(t, rec)
	idx := doc.FindEducation(model.EntryID(created.ID))
	require.GreaterOrEqual(t, idx, 0)
	assert.Equal(t, "M.Sc.", doc.Education[idx].Degree)

	rec = doJSON(r, http.MethodPatch, "/api/v1/resume/education/"+created.ID, `{"hobby":"x"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandlerSuggestWithoutBackend(t *testing.T) {
	f := newFixture(t)
	r := newRouter(t, f)

	rec := doJSON(r, http.MethodPost, "/api/v1/resume/skills/suggest", `{"jobTitle":"Engineer"}`)
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Contains(t, rec.Body.String(), "ai_not_configured")
}

func TestHandlerExportDocx(t *testing.T) {
	f := newFixture(t)
	r := newRouter(t, f)

	rec := doJSON(r, http.MethodGet, "/api/v1/resume/export/docx", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, render.DocxContentType, rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Header().Get("Content-Disposition"), render.DocxFileName)
	assert.True(t, bytes.HasPrefix(rec.Body.Bytes(), []byte("PK")))
}

func TestHandlerExportPDF(t *testing.T) {
	f := newFixture(t)
	r := newRouter(t, f)

	rec := doJSON(r, http.MethodGet, "/api/v1/resume/export/pdf", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Disposition"), render.PdfFileName)
}

func TestHandlerPreview(t *testing.T) {
	f := newFixture(t)
	r := newRouter(t, f)

	rec := doJSON(r, http.MethodGet, "/api/v1/resume/preview", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Type"), "text/html")
	assert.Contains(t, rec.Body.String(), "John Doe")
}

func multipartUpload(t *testing.T, name, contentType string, data []byte) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	h := make(map[string][]string)
	h["Content-Disposition"] = []string{`form-data; name="file"; filename="` + name + `"`}
	h["Content-Type"] = []string{contentType}
	part, err := w.CreatePart(h)
	require.NoError(t, err)
	_, err = part.Write(data)
	require.NoError(t, err)
	require.NoError(t, w.Close())
	return &buf, w.FormDataContentType()
}

func TestHandlerAutofill(t *testing.T) {
	f := newFixture(t)
	r := newRouter(t, f)
	f.answer = `{"summary":"Parsed summary"}`

	body, ctype := multipartUpload(t, "cv.pdf", "application/pdf", pdfUpload.Data)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/resume/autofill", body)
	req.Header.Set("Content-Type", ctype)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "Parsed summary", decodeDocument(t, rec).Summary)

	rec = doJSON(r, http.MethodGet, "/api/v1/resume/autofill", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"lastOutcome":"done"`)
}

func TestHandlerAutofillParseFailureReturnsRawAnswer(t *testing.T) {
	f := newFixture(t)
	r := newRouter(t, f)
	f.answer = "not json"

	body, ctype := multipartUpload(t, "cv.pdf", "application/pdf", pdfUpload.Data)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/resume/autofill", body)
	req.Header.Set("Content-Type", ctype)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	var resp struct {
		Error struct {
			Code    string            `json:"code"`
			Details map[string]string `json:"details"`
		} `json:"error"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "ai_parse_failed", resp.Error.Code)
	assert.Equal(t, "not json", resp.Error.Details["rawResponse"])
	assert.Contains(t, resp.Error.Details["extractedText"], "page text")
}

func TestHandlerAutofillRejectsNonPDF(t *testing.T) {
	f := newFixture(t)
	r := newRouter(t, f)

	body, ctype := multipartUpload(t, "notes.txt", "text/plain", []byte("hello"))
	req := httptest.NewRequest(http.MethodPost, "/api/v1/resume/autofill", body)
	req.Header.Set("Content-Type", ctype)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
