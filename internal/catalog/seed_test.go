package catalog

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseSeedAcceptsStringAndMappingData(t *testing.T) {
	raw := []byte(`
templates:
  - id: a
    title: Mapping
    data:
      skills: [Go, SQL]
  - id: b
    title: String
    data: '{"summary":"hi"}'
  - id: c
    title: Empty
`)
	templates, err := ParseSeed(raw)
	require.NoError(t, err)
	require.Len(t, templates, 3)
	assert.JSONEq(t, `{"skills":["Go","SQL"]}`, templates[0].Data)
	assert.Equal(t, `{"summary":"hi"}`, templates[1].Data)
	assert.Equal(t, "", templates[2].Data)
}

func TestParseSeedRequiresIDAndTitle(t *testing.T) {
	_, err := ParseSeed([]byte("templates:\n  - title: x\n"))
	assert.Error(t, err)
}

func TestDefaultSeedDecodes(t *testing.T) {
	svc := newTestService(t)
	templates, err := DefaultSeed()
	require.NoError(t, err)
	require.NoError(t, svc.Seed(context.Background(), templates))

	entries, err := svc.List(context.Background())
	require.NoError(t, err)
	require.NotEmpty(t, entries)
	for _, e := range entries {
		assert.False(t, e.Degraded(), "template %s should decode", e.ID)
	}
}

func TestSeedKeepsExistingTemplates(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(t)
	require.NoError(t, svc.Seed(ctx, []Template{{ID: "a", Title: "First", Data: `{}`}}))
	require.NoError(t, svc.Seed(ctx, []Template{{ID: "a", Title: "Second", Data: `{}`}}))

	entry, err := svc.Get(ctx, "a")
	require.NoError(t, err)
	assert.Equal(t, "First", entry.Title)
}
