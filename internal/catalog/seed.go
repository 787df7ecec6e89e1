package catalog

import (
	"context"
	_ "embed"
	"encoding/json"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"resume-builder/internal/shared/telemetry"
)

// SeedFile is the YAML layout of a template seed file. Each template's data
// may be a JSON string or a YAML mapping.
type SeedFile struct {
	Templates []SeedTemplate `yaml:"templates"`
}

// SeedTemplate is one seeded template.
type SeedTemplate struct {
	ID    string    `yaml:"id"`
	Title string    `yaml:"title"`
	Data  yaml.Node `yaml:"data"`
}

// LoadSeedFile reads a seed file from disk.
func LoadSeedFile(path string) ([]Template, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read seed file: %w", err)
	}
	return ParseSeed(raw)
}

// ParseSeed decodes seed YAML into templates.
func ParseSeed(raw []byte) ([]Template, error) {
	var file SeedFile
	if err := yaml.Unmarshal(raw, &file); err != nil {
		return nil, fmt.Errorf("parse seed file: %w", err)
	}
	out := make([]Template, 0, len(file.Templates))
	for i, st := range file.Templates {
		if st.ID == "" || st.Title == "" {
			return nil, fmt.Errorf("seed template %d: id and title are required", i)
		}
		data, err := seedData(st.Data)
		if err != nil {
			return nil, fmt.Errorf("seed template %s: %w", st.ID, err)
		}
		out = append(out, Template{ID: st.ID, Title: st.Title, Data: data, CreatedBy: "seed"})
	}
	return out, nil
}

func seedData(node yaml.Node) (string, error) {
	switch node.Kind {
	case 0:
		return "", nil
	case yaml.ScalarNode:
		return node.Value, nil
	default:
		var v any
		if err := node.Decode(&v); err != nil {
			return "", err
		}
		b, err := json.Marshal(v)
		if err != nil {
			return "", err
		}
		return string(b), nil
	}
}

// Seed stores templates, leaving ids that already exist untouched.
func (s *Service) Seed(ctx context.Context, templates []Template) error {
	seeded := 0
	for _, t := range templates {
		if _, err := s.Repo.GetByID(ctx, t.ID); err == nil {
			continue
		}
		if t.CreatedAt.IsZero() {
			t.CreatedAt = s.now()
		}
		if err := s.Repo.Create(ctx, t); err != nil {
			return fmt.Errorf("seed template %s: %w", t.ID, err)
		}
		seeded++
	}
	telemetry.Info("catalog.seeded", map[string]any{"count": seeded})
	return nil
}


//go:embed seed/templates.yaml
var defaultSeed []byte

// DefaultSeed returns the templates shipped with the binary.
func DefaultSeed() ([]Template, error) {
	return ParseSeed(defaultSeed)
}
