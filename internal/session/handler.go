package session

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"resume-builder/internal/autofill"
	"resume-builder/internal/catalog"
	"resume-builder/internal/llm"
	"resume-builder/internal/shared/server/middleware"
	"resume-builder/internal/shared/server/respond"
	"resume-builder/resume/editor"
	"resume-builder/resume/model"
	"resume-builder/resume/render"
)

// MaxUploadBytes bounds autofill uploads.
const MaxUploadBytes = 10 << 20

// Handler wires HTTP handlers to the service.
type Handler struct {
	Svc *Service
}

// NewHandler constructs a Handler.
func NewHandler(svc *Service) *Handler {
	return &Handler{Svc: svc}
}

// AIRoutes lists the routes that call the AI backend.
var AIRoutes = []string{
	"/resume/experience/:id/suggest",
	"/resume/skills/suggest",
	"/resume/autofill",
}

// RegisterRoutes attaches document routes under /resume.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	r := rg.Group("/resume")
	r.GET("", h.get)
	r.PUT("/sections/:section", h.applySection)
	r.POST("/sections/reorder", h.reorder)
	r.POST("/template", h.selectTemplate)
	r.POST("/reset", h.reset)

	r.POST("/experience", h.addExperience)
	r.PATCH("/experience/:id", h.updateExperience)
	r.DELETE("/experience/:id", h.removeExperience)

	r.POST("/education", h.addEducation)
	r.PATCH("/education/:id", h.updateEducation)
	r.DELETE("/education/:id", h.removeEducation)

	r.POST("/skills", h.addSkill)
	r.DELETE("/skills/:skill", h.removeSkill)

	r.PUT("/personal-info/profile-image", h.setProfileImage)
	r.DELETE("/personal-info/profile-image", h.removeProfileImage)

	r.POST("/experience/:id/suggest", h.suggestResponsibilities)
	r.POST("/skills/suggest", h.suggestSkills)
	r.POST("/autofill", h.autofill)
	r.GET("/autofill", h.autofillStatus)

	r.GET("/export/docx", h.exportDocx)
	r.GET("/export/pdf", h.exportPDF)
	r.GET("/preview", h.preview)
}

type documentResponse struct {
	Document model.Document `json:"document"`
}

type reorderRequest struct {
	From *int `json:"from" binding:"required"`
	To   *int `json:"to" binding:"required"`
}

type templateRequest struct {
	TemplateID string `json:"templateId"`
}

type skillRequest struct {
	Skill string `json:"skill" binding:"required,max=200"`
}

type suggestSkillsRequest struct {
	JobTitle    string `json:"jobTitle" binding:"required"`
	Description string `json:"description"`
}

type profileImageRequest struct {
	DataURL string `json:"dataUrl" binding:"required"`
}

func (h *Handler) get(c *gin.Context) {
	doc := h.Svc.Document(c.Request.Context(), middleware.PrincipalFromContext(c))
	respond.OK(c, documentResponse{Document: doc})
}

func (h *Handler) applySection(c *gin.Context) {
	section := c.Param("section")
	c.Set(middleware.SectionKey, section)
	body, err := io.ReadAll(c.Request.Body)
	if err != nil || len(strings.TrimSpace(string(body))) == 0 {
		respond.Error(c, http.StatusBadRequest, "validation_error", "section value is required", nil)
		return
	}
	doc, err := h.Svc.ApplySection(c.Request.Context(), middleware.PrincipalFromContext(c), section, json.RawMessage(body))
	h.reply(c, doc, err)
}

func (h *Handler) reorder(c *gin.Context) {
	var req reorderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "from and to are required", nil)
		return
	}
	doc, err := h.Svc.Reorder(c.Request.Context(), middleware.PrincipalFromContext(c), *req.From, *req.To)
	h.reply(c, doc, err)
}

func (h *Handler) selectTemplate(c *gin.Context) {
	var req templateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "invalid request body", nil)
		return
	}
	c.Set(middleware.TemplateIDKey, req.TemplateID)
	doc, warning, err := h.Svc.SelectTemplate(c.Request.Context(), middleware.PrincipalFromContext(c), req.TemplateID)
	if err != nil {
		writeError(c, err)
		return
	}
	respond.OK(c, gin.H{"document": doc, "warning": warning})
}

func (h *Handler) reset(c *gin.Context) {
	doc, err := h.Svc.Reset(c.Request.Context(), middleware.PrincipalFromContext(c))
	h.reply(c, doc, err)
}

func (h *Handler) addExperience(c *gin.Context) {
	doc, id, err := h.Svc.AddExperience(c.Request.Context(), middleware.PrincipalFromContext(c))
	if err != nil {
		writeError(c, err)
		return
	}
	c.Set(middleware.SectionKey, string(model.SectionExperience))
	respond.JSON(c, http.StatusCreated, gin.H{"document": doc, "id": id})
}

func (h *Handler) updateExperience(c *gin.Context) {
	fields, ok := bindFields(c)
	if !ok {
		return
	}
	c.Set(middleware.SectionKey, string(model.SectionExperience))
	doc, err := h.Svc.UpdateExperience(c.Request.Context(), middleware.PrincipalFromContext(c), model.EntryID(c.Param("id")), fields)
	h.reply(c, doc, err)
}

func (h *Handler) removeExperience(c *gin.Context) {
	c.Set(middleware.SectionKey, string(model.SectionExperience))
	doc, err := h.Svc.RemoveExperience(c.Request.Context(), middleware.PrincipalFromContext(c), model.EntryID(c.Param("id")))
	h.reply(c, doc, err)
}

func (h *Handler) suggestResponsibilities(c *gin.Context) {
	c.Set(middleware.SectionKey, string(model.SectionExperience))
	doc, err := h.Svc.SuggestResponsibilities(c.Request.Context(), middleware.PrincipalFromContext(c), model.EntryID(c.Param("id")))
	h.reply(c, doc, err)
}

func (h *Handler) addEducation(c *gin.Context) {
	doc, id, err := h.Svc.AddEducation(c.Request.Context(), middleware.PrincipalFromContext(c))
	if err != nil {
		writeError(c, err)
		return
	}
	c.Set(middleware.SectionKey, string(model.SectionEducation))
	respond.JSON(c, http.StatusCreated, gin.H{"document": doc, "id": id})
}

func (h *Handler) updateEducation(c *gin.Context) {
	fields, ok := bindFields(c)
	if !ok {
		return
	}
	c.Set(middleware.SectionKey, string(model.SectionEducation))
	doc, err := h.Svc.UpdateEducation(c.Request.Context(), middleware.PrincipalFromContext(c), model.EntryID(c.Param("id")), fields)
	h.reply(c, doc, err)
}

func (h *Handler) removeEducation(c *gin.Context) {
	c.Set(middleware.SectionKey, string(model.SectionEducation))
	doc, err := h.Svc.RemoveEducation(c.Request.Context(), middleware.PrincipalFromContext(c), model.EntryID(c.Param("id")))
	h.reply(c, doc, err)
}

func (h *Handler) addSkill(c *gin.Context) {
	var req skillRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "skill is required", nil)
		return
	}
	c.Set(middleware.SectionKey, string(model.SectionSkills))
	doc, err := h.Svc.AddSkill(c.Request.Context(), middleware.PrincipalFromContext(c), req.Skill)
	h.reply(c, doc, err)
}

func (h *Handler) removeSkill(c *gin.Context) {
	c.Set(middleware.SectionKey, string(model.SectionSkills))
	doc, err := h.Svc.RemoveSkill(c.Request.Context(), middleware.PrincipalFromContext(c), c.Param("skill"))
	h.reply(c, doc, err)
}

func (h *Handler) suggestSkills(c *gin.Context) {
	var req suggestSkillsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "jobTitle is required", nil)
		return
	}
	c.Set(middleware.SectionKey, string(model.SectionSkills))
	doc, suggested, err := h.Svc.SuggestSkills(c.Request.Context(), middleware.PrincipalFromContext(c), req.JobTitle, req.Description)
	if err != nil {
		writeError(c, err)
		return
	}
	respond.OK(c, gin.H{"document": doc, "suggested": suggested})
}

func (h *Handler) setProfileImage(c *gin.Context) {
	var req profileImageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "dataUrl is required", nil)
		return
	}
	c.Set(middleware.SectionKey, string(model.SectionPersonalInfo))
	doc, err := h.Svc.SetProfileImage(c.Request.Context(), middleware.PrincipalFromContext(c), req.DataURL)
	h.reply(c, doc, err)
}

func (h *Handler) removeProfileImage(c *gin.Context) {
	c.Set(middleware.SectionKey, string(model.SectionPersonalInfo))
	doc, err := h.Svc.RemoveProfileImage(c.Request.Context(), middleware.PrincipalFromContext(c))
	h.reply(c, doc, err)
}

func (h *Handler) autofill(c *gin.Context) {
	fh, err := c.FormFile("file")
	if err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "Please select a PDF file first.", nil)
		return
	}
	if fh.Size > MaxUploadBytes {
		respond.Error(c, http.StatusRequestEntityTooLarge, "file_too_large", "file exceeds upload limit", gin.H{"maxBytes": MaxUploadBytes})
		return
	}
	f, err := fh.Open()
	if err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "could not read upload", nil)
		return
	}
	defer f.Close()
	data, err := io.ReadAll(io.LimitReader(f, MaxUploadBytes+1))
	if err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "could not read upload", nil)
		return
	}

	principal := middleware.PrincipalFromContext(c)
	upload := autofill.Upload{
		FileName:    fh.Filename,
		ContentType: fh.Header.Get("Content-Type"),
		Data:        data,
	}
	res, doc, err := h.Svc.Autofill(c.Request.Context(), principal, upload)
	status := h.Svc.AutofillStatus(c.Request.Context(), principal)
	c.Set(middleware.AutofillStateKey, string(status.LastOutcome))
	if err != nil {
		writeError(c, err)
		return
	}
	respond.OK(c, gin.H{
		"document":      doc,
		"extractedText": res.Text,
		"pages":         res.Pages,
		"status":        status,
	})
}

func (h *Handler) autofillStatus(c *gin.Context) {
	status := h.Svc.AutofillStatus(c.Request.Context(), middleware.PrincipalFromContext(c))
	c.Set(middleware.AutofillStateKey, string(status.State))
	respond.OK(c, status)
}

func (h *Handler) exportDocx(c *gin.Context) {
	c.Set(middleware.ExportFormatKey, "docx")
	out, err := h.Svc.ExportDocx(c.Request.Context(), middleware.PrincipalFromContext(c))
	if err != nil {
		writeError(c, err)
		return
	}
	respond.Attachment(c, render.DocxFileName, render.DocxContentType, out)
}

func (h *Handler) exportPDF(c *gin.Context) {
	c.Set(middleware.ExportFormatKey, "pdf")
	out, err := h.Svc.ExportPDF(c.Request.Context(), middleware.PrincipalFromContext(c))
	if err != nil {
		writeError(c, err)
		return
	}
	respond.Attachment(c, render.PdfFileName, "application/pdf", out)
}

func (h *Handler) preview(c *gin.Context) {
	out, err := h.Svc.Preview(c.Request.Context(), middleware.PrincipalFromContext(c))
	if err != nil {
		writeError(c, err)
		return
	}
	respond.HTML(c, out)
}

func (h *Handler) reply(c *gin.Context, doc model.Document, err error) {
	if err != nil {
		writeError(c, err)
		return
	}
	respond.OK(c, documentResponse{Document: doc})
}

func bindFields(c *gin.Context) (map[string]string, bool) {
	var fields map[string]string
	if err := c.ShouldBindJSON(&fields); err != nil || len(fields) == 0 {
		respond.Error(c, http.StatusBadRequest, "validation_error", "at least one field is required", nil)
		return nil, false
	}
	return fields, true
}

func writeError(c *gin.Context, err error) {
	var (
		parseErr *autofill.ParseError
		apiErr   *llm.APIError
		netErr   *llm.NetworkError
		protoErr *llm.ProtocolError
		stageErr *autofill.StageError
	)
	switch {
	case errors.Is(err, autofill.ErrBusy):
		respond.Error(c, http.StatusConflict, "autofill_busy", "autofill is already running", nil)
	case errors.As(err, &parseErr):
		respond.Error(c, http.StatusUnprocessableEntity, "ai_parse_failed", "Failed to understand AI response.", gin.H{
			"rawResponse":   parseErr.Raw,
			"extractedText": parseErr.Text,
		})
	case errors.Is(err, autofill.ErrNotPDF):
		respond.Error(c, http.StatusBadRequest, "validation_error", "Please select a PDF file.", nil)
	case errors.Is(err, autofill.ErrEmptyFile),
		errors.Is(err, model.ErrUnknownSection),
		errors.Is(err, model.ErrInvalidValue),
		errors.Is(err, editor.ErrInvalidInput),
		errors.Is(err, editor.ErrUnknownField):
		respond.Error(c, http.StatusBadRequest, "validation_error", err.Error(), nil)
	case errors.Is(err, editor.ErrEntryNotFound):
		respond.Error(c, http.StatusNotFound, "not_found", "entry not found", nil)
	case errors.Is(err, catalog.ErrNotFound):
		respond.Error(c, http.StatusNotFound, "not_found", "template not found", nil)
	case errors.Is(err, llm.ErrNotConfigured):
		respond.Error(c, http.StatusServiceUnavailable, "ai_not_configured", "AI API key is not set in server settings.", nil)
	case errors.As(err, &apiErr):
		respond.Error(c, http.StatusBadGateway, "ai_upstream_error", apiErr.Message, gin.H{"code": apiErr.Code, "details": apiErr.Details})
	case errors.As(err, &netErr), errors.As(err, &protoErr):
		respond.Error(c, http.StatusBadGateway, "ai_upstream_error", err.Error(), nil)
	case errors.Is(err, context.Canceled):
		respond.Error(c, http.StatusRequestTimeout, "cancelled", "request cancelled", nil)
	case errors.As(err, &stageErr):
		respond.Error(c, http.StatusUnprocessableEntity, "autofill_failed", "Error: "+stageErr.Err.Error(), gin.H{"stage": stageErr.Stage})
	case errors.Is(err, render.ErrSurfaceUnavailable):
		respond.Error(c, http.StatusInternalServerError, "render_failed", "resume preview surface unavailable", nil)
	default:
		respond.Error(c, http.StatusInternalServerError, "internal_error", "request failed", nil)
	}
}
