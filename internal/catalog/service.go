package catalog

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/google/uuid"

	"resume-builder/internal/shared/telemetry"
	"resume-builder/resume/model"
)

// Service lists, resolves and creates templates.
type Service struct {
	Repo  TemplatesRepo
	now   func() time.Time
	newID func() string
}

// NewService constructs a Service over repo.
func NewService(repo TemplatesRepo) *Service {
	return &Service{
		Repo:  repo,
		now:   func() time.Time { return time.Now().UTC() },
		newID: uuid.NewString,
	}
}

// List returns every template as an entry, degraded entries included.
func (s *Service) List(ctx context.Context) ([]Entry, error) {
	templates, err := s.Repo.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]Entry, 0, len(templates))
	for _, t := range templates {
		out = append(out, resolve(t))
	}
	return out, nil
}

// Get returns one entry by id.
func (s *Service) Get(ctx context.Context, id string) (Entry, error) {
	t, err := s.Repo.GetByID(ctx, id)
	if err != nil {
		return Entry{}, err
	}
	return resolve(t), nil
}

// Document returns the decoded document of a template, or ErrTemplateInvalid
// when its data is unreadable.
func (s *Service) Document(ctx context.Context, id string) (model.Document, error) {
	entry, err := s.Get(ctx, id)
	if err != nil {
		return model.Document{}, err
	}
	if entry.Degraded() {
		return model.Document{}, ErrTemplateInvalid
	}
	return *entry.Data, nil
}

// Create stores a template. The data blob is kept as given, valid or not.
func (s *Service) Create(ctx context.Context, title, data, createdBy string) (Entry, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return Entry{}, ErrInvalidInput
	}
	t := Template{
		ID:        s.newID(),
		Title:     title,
		Data:      data,
		CreatedBy: createdBy,
		CreatedAt: s.now(),
	}
	if err := s.Repo.Create(ctx, t); err != nil {
		return Entry{}, err
	}
	telemetry.Info("catalog.template_created", map[string]any{
		"template_id": t.ID,
		"created_by":  createdBy,
	})
	return resolve(t), nil
}

func resolve(t Template) Entry {
	doc, err := model.DecodeDocument([]byte(t.Data))
	if err != nil {
		telemetry.Warn("catalog.template_invalid", map[string]any{
			"template_id": t.ID,
			"error":       err.Error(),
		})
		return Entry{ID: t.ID, Title: t.Title + InvalidSuffix}
	}
	return Entry{ID: t.ID, Title: t.Title, Data: &doc}
}

// RawData turns a request's data field into the stored blob: a JSON string
// is taken as the blob itself, anything else is stored as its JSON text.
func RawData(raw json.RawMessage) string {
	trimmed := strings.TrimSpace(string(raw))
	if strings.HasPrefix(trimmed, `"`) {
		var s string
		if err := json.Unmarshal(raw, &s); err == nil {
			return s
		}
	}
	return trimmed
}
