// Package session owns each principal's working document. Every operation
// on a session runs under that session's lock, and every accepted mutation
// is snapshotted.
package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"golang.org/x/sync/singleflight"

	"resume-builder/internal/autofill"
	"resume-builder/internal/catalog"
	"resume-builder/internal/llm"
	"resume-builder/internal/shared/metrics"
	"resume-builder/internal/shared/telemetry"
	"resume-builder/internal/snapshot"
	"resume-builder/resume/editor"
	"resume-builder/resume/model"
	"resume-builder/resume/preview"
	"resume-builder/resume/render"
)

// InvalidTemplateWarning is reported when a degraded template is selected.
const InvalidTemplateWarning = "Selected template has invalid data. Loaded the default resume instead."

// SurfaceFactory wraps rendered preview HTML in a capture surface.
type SurfaceFactory func(html []byte) render.Surface

// Deps are the collaborators of a Service.
type Deps struct {
	Catalog     *catalog.Service
	Snapshots   *snapshot.Cache
	Suggester   llm.Suggester
	Docx        *render.DocxRenderer
	Pdf         *render.PdfRenderer
	Surface     SurfaceFactory
	NewPipeline func() *autofill.Pipeline
}

type session struct {
	mu       sync.Mutex
	doc      model.Document
	pipeline *autofill.Pipeline
}

// Service manages sessions keyed by principal.
type Service struct {
	deps Deps

	mu        sync.Mutex
	sessions  map[string]*session
	restoring singleflight.Group
}

// NewService constructs a Service.
func NewService(deps Deps) *Service {
	if deps.Suggester == nil {
		deps.Suggester = llm.Unconfigured{}
	}
	if deps.Docx == nil {
		deps.Docx = render.NewDocxRenderer()
	}
	return &Service{deps: deps, sessions: make(map[string]*session)}
}

// get returns principal's session, restoring it from a snapshot or starting
// from the default document on first use. The service lock is never held
// across snapshot I/O; concurrent first uses of one principal share a restore.
func (s *Service) get(ctx context.Context, principal string) *session {
	if sess, ok := s.lookup(principal); ok {
		return sess
	}
	v, _, _ := s.restoring.Do(principal, func() (any, error) {
		if sess, ok := s.lookup(principal); ok {
			return sess, nil
		}
		sess := s.restore(ctx, principal)
		s.mu.Lock()
		defer s.mu.Unlock()
		if existing, ok := s.sessions[principal]; ok {
			return existing, nil
		}
		s.sessions[principal] = sess
		return sess, nil
	})
	return v.(*session)
}

func (s *Service) lookup(principal string) (*session, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.sessions[principal]
	return sess, ok
}

func (s *Service) restore(ctx context.Context, principal string) *session {
	doc := model.Default()
	if s.deps.Snapshots != nil {
		restored, ok, err := s.deps.Snapshots.Load(ctx, principal)
		switch {
		case err != nil:
			telemetry.Warn("snapshot.load_failed", map[string]any{"principal": principal, "error": err.Error()})
		case ok:
			doc = restored
			telemetry.Info("snapshot.restored", map[string]any{"principal": principal})
		}
	}
	sess := &session{doc: doc}
	if s.deps.NewPipeline != nil {
		sess.pipeline = s.deps.NewPipeline()
	}
	return sess
}

// Document returns the working document.
func (s *Service) Document(ctx context.Context, principal string) model.Document {
	sess := s.get(ctx, principal)
	sess.mu.Lock()
	defer sess.mu.Unlock()
	return sess.doc
}

// mutate applies fn under the session lock. A failed fn leaves the document
// untouched; an accepted result is snapshotted.
func (s *Service) mutate(ctx context.Context, principal string, fn func(model.Document) (model.Document, error)) (model.Document, error) {
	sess := s.get(ctx, principal)
	sess.mu.Lock()
	defer sess.mu.Unlock()
	return s.mutateLocked(ctx, principal, sess, fn)
}

func (s *Service) mutateLocked(ctx context.Context, principal string, sess *session, fn func(model.Document) (model.Document, error)) (model.Document, error) {
	next, err := fn(sess.doc)
	if err != nil {
		return sess.doc, err
	}
	sess.doc = next
	s.save(ctx, principal, next)
	return next, nil
}

func (s *Service) save(ctx context.Context, principal string, doc model.Document) {
	if s.deps.Snapshots == nil {
		return
	}
	if err := s.deps.Snapshots.Save(ctx, principal, doc); err != nil {
		telemetry.Warn("snapshot.save_failed", map[string]any{"principal": principal, "error": err.Error()})
	}
}

// ApplySection replaces one section with a JSON value.
func (s *Service) ApplySection(ctx context.Context, principal, section string, value json.RawMessage) (model.Document, error) {
	return s.mutate(ctx, principal, func(doc model.Document) (model.Document, error) {
		return model.Apply(doc, model.SectionKey(section), value)
	})
}

// Reorder moves a section within the section order.
func (s *Service) Reorder(ctx context.Context, principal string, from, to int) (model.Document, error) {
	return s.mutate(ctx, principal, func(doc model.Document) (model.Document, error) {
		return model.Reorder(doc, from, to), nil
	})
}

// Reset loads the default document.
func (s *Service) Reset(ctx context.Context, principal string) (model.Document, error) {
	return s.mutate(ctx, principal, func(model.Document) (model.Document, error) {
		return model.Default(), nil
	})
}

// SelectTemplate replaces the document with a template's data. An empty id
// loads the default document. A degraded template also loads the default
// and returns InvalidTemplateWarning.
func (s *Service) SelectTemplate(ctx context.Context, principal, templateID string) (model.Document, string, error) {
	if templateID == "" {
		doc, err := s.Reset(ctx, principal)
		return doc, "", err
	}
	if s.deps.Catalog == nil {
		return model.Document{}, "", catalog.ErrNotFound
	}
	tmpl, err := s.deps.Catalog.Document(ctx, templateID)
	warning := ""
	switch {
	case errors.Is(err, catalog.ErrTemplateInvalid):
		tmpl = model.Default()
		warning = InvalidTemplateWarning
	case err != nil:
		return model.Document{}, "", err
	}
	doc, err := s.mutate(ctx, principal, func(model.Document) (model.Document, error) {
		return tmpl, nil
	})
	return doc, warning, err
}

// AddExperience appends a blank experience entry.
func (s *Service) AddExperience(ctx context.Context, principal string) (model.Document, model.EntryID, error) {
	var id model.EntryID
	doc, err := s.mutate(ctx, principal, func(doc model.Document) (model.Document, error) {
		var out model.Document
		out, id = editor.AddExperience(doc)
		return out, nil
	})
	return doc, id, err
}

// UpdateExperience sets the given fields of an experience entry. Fields are
// applied together or not at all.
func (s *Service) UpdateExperience(ctx context.Context, principal string, id model.EntryID, fields map[string]string) (model.Document, error) {
	return s.mutate(ctx, principal, func(doc model.Document) (model.Document, error) {
		var err error
		for name, value := range fields {
			doc, err = editor.UpdateExperience(doc, id, editor.ExperienceField(name), value)
			if err != nil {
				return doc, err
			}
		}
		return doc, nil
	})
}

// RemoveExperience deletes an experience entry.
func (s *Service) RemoveExperience(ctx context.Context, principal string, id model.EntryID) (model.Document, error) {
	return s.mutate(ctx, principal, func(doc model.Document) (model.Document, error) {
		return editor.RemoveExperience(doc, id)
	})
}

// SuggestResponsibilities replaces an entry's responsibilities with AI bullets.
func (s *Service) SuggestResponsibilities(ctx context.Context, principal string, id model.EntryID) (model.Document, error) {
	return s.mutate(ctx, principal, func(doc model.Document) (model.Document, error) {
		return editor.SuggestResponsibilities(ctx, s.deps.Suggester, doc, id)
	})
}

// AddEducation appends a blank education entry.
func (s *Service) AddEducation(ctx context.Context, principal string) (model.Document, model.EntryID, error) {
	var id model.EntryID
	doc, err := s.mutate(ctx, principal, func(doc model.Document) (model.Document, error) {
		var out model.Document
		out, id = editor.AddEducation(doc)
		return out, nil
	})
	return doc, id, err
}

// UpdateEducation sets the given fields of an education entry.
func (s *Service) UpdateEducation(ctx context.Context, principal string, id model.EntryID, fields map[string]string) (model.Document, error) {
	return s.mutate(ctx, principal, func(doc model.Document) (model.Document, error) {
		var err error
		for name, value := range fields {
			doc, err = editor.UpdateEducation(doc, id, editor.EducationField(name), value)
			if err != nil {
				return doc, err
			}
		}
		return doc, nil
	})
}

// RemoveEducation deletes an education entry.
func (s *Service) RemoveEducation(ctx context.Context, principal string, id model.EntryID) (model.Document, error) {
	return s.mutate(ctx, principal, func(doc model.Document) (model.Document, error) {
		return editor.RemoveEducation(doc, id)
	})
}

// AddSkill appends a skill.
func (s *Service) AddSkill(ctx context.Context, principal, skill string) (model.Document, error) {
	return s.mutate(ctx, principal, func(doc model.Document) (model.Document, error) {
		return editor.AddSkill(doc, skill)
	})
}

// RemoveSkill drops a skill.
func (s *Service) RemoveSkill(ctx context.Context, principal, skill string) (model.Document, error) {
	return s.mutate(ctx, principal, func(doc model.Document) (model.Document, error) {
		return editor.RemoveSkill(doc, skill), nil
	})
}

// SuggestSkills unions AI-suggested skills for a role into the document.
func (s *Service) SuggestSkills(ctx context.Context, principal, jobTitle, description string) (model.Document, []string, error) {
	var suggested []string
	doc, err := s.mutate(ctx, principal, func(doc model.Document) (model.Document, error) {
		var out model.Document
		var err error
		out, suggested, err = editor.SuggestSkills(ctx, s.deps.Suggester, doc, jobTitle, description)
		return out, err
	})
	return doc, suggested, err
}

// SetProfileImage stores an image data URL.
func (s *Service) SetProfileImage(ctx context.Context, principal, dataURL string) (model.Document, error) {
	return s.mutate(ctx, principal, func(doc model.Document) (model.Document, error) {
		return editor.SetProfileImage(doc, dataURL)
	})
}

// RemoveProfileImage clears the profile image.
func (s *Service) RemoveProfileImage(ctx context.Context, principal string) (model.Document, error) {
	return s.mutate(ctx, principal, func(doc model.Document) (model.Document, error) {
		return editor.RemoveProfileImage(doc), nil
	})
}

// Autofill runs the pipeline on file and merges the parsed patch into the
// working document. The session lock is held only while merging.
func (s *Service) Autofill(ctx context.Context, principal string, file autofill.Upload) (autofill.Result, model.Document, error) {
	sess := s.get(ctx, principal)
	if sess.pipeline == nil {
		return autofill.Result{}, model.Document{}, fmt.Errorf("autofill: %w", llm.ErrNotConfigured)
	}
	var merged model.Document
	res, err := sess.pipeline.Run(ctx, file, func(p model.Patch) error {
		sess.mu.Lock()
		defer sess.mu.Unlock()
		doc, err := s.mutateLocked(ctx, principal, sess, func(doc model.Document) (model.Document, error) {
			return model.Merge(doc, p), nil
		})
		merged = doc
		return err
	})
	if err != nil {
		return autofill.Result{}, s.Document(ctx, principal), err
	}
	return res, merged, nil
}

// AutofillStatus reports the session's pipeline status.
func (s *Service) AutofillStatus(ctx context.Context, principal string) autofill.Status {
	sess := s.get(ctx, principal)
	if sess.pipeline == nil {
		return autofill.Status{State: autofill.StateIdle, Message: "Idle"}
	}
	return sess.pipeline.Status()
}

// Preview renders the working document as HTML.
func (s *Service) Preview(ctx context.Context, principal string) ([]byte, error) {
	return preview.Render(s.Document(ctx, principal))
}

// ExportDocx renders the working document as DOCX.
func (s *Service) ExportDocx(ctx context.Context, principal string) ([]byte, error) {
	out, err := s.deps.Docx.Render(s.Document(ctx, principal))
	if err != nil {
		return nil, err
	}
	metrics.IncExportDocx()
	return out, nil
}

// ExportPDF captures the preview of the working document onto one A4 page.
func (s *Service) ExportPDF(ctx context.Context, principal string) ([]byte, error) {
	if s.deps.Pdf == nil || s.deps.Surface == nil {
		return nil, render.ErrSurfaceUnavailable
	}
	html, err := s.Preview(ctx, principal)
	if err != nil {
		return nil, err
	}
	out, err := s.deps.Pdf.Render(ctx, s.deps.Surface(html))
	if err != nil {
		return nil, err
	}
	metrics.IncExportPdf()
	return out, nil
}
