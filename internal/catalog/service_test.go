package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"resume-builder/internal/shared/telemetry"
)

func newTestService(t *testing.T) *Service {
	t.Helper()
	restore := telemetry.SetOutput(io.Discard)
	t.Cleanup(restore)
	return NewService(NewMemoryRepo())
}

func TestListDegradesInvalidTemplates(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(t)

	_, err := svc.Create(ctx, "Zeta", `{"skills":["Go"]}`, "admin:1")
	require.NoError(t, err)
	_, err = svc.Create(ctx, "Alpha", `{not json`, "admin:1")
	require.NoError(t, err)
	_, err = svc.Create(ctx, "Mid", `{"skills":"Go"}`, "admin:1")
	require.NoError(t, err)

	entries, err := svc.List(ctx)
	require.NoError(t, err)
	require.Len(t, entries, 3)

	assert.Equal(t, "Alpha (Error: Invalid Data)", entries[0].Title)
	assert.True(t, entries[0].Degraded())
	assert.Equal(t, "Mid (Error: Invalid Data)", entries[1].Title)
	assert.Equal(t, "Zeta", entries[2].Title)
	require.NotNil(t, entries[2].Data)
	assert.Equal(t, []string{"Go"}, entries[2].Data.Skills)
}

func TestDegradedEntryEncodesNullData(t *testing.T) {
	b, err := json.Marshal(Entry{ID: "x", Title: "Broken" + InvalidSuffix})
	require.NoError(t, err)
	assert.JSONEq(t, `{"id":"x","title":"Broken (Error: Invalid Data)","data":null}`, string(b))
}

func TestDocument(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(t)

	good, err := svc.Create(ctx, "Good", `{"summary":"hello"}`, "")
	require.NoError(t, err)
	bad, err := svc.Create(ctx, "Bad", ``, "")
	require.NoError(t, err)

	doc, err := svc.Document(ctx, good.ID)
	require.NoError(t, err)
	assert.Equal(t, "hello", doc.Summary)

	_, err = svc.Document(ctx, bad.ID)
	assert.True(t, errors.Is(err, ErrTemplateInvalid))

	_, err = svc.Document(ctx, "nope")
	assert.True(t, errors.Is(err, ErrNotFound))
}

func TestCreateRequiresTitle(t *testing.T) {
	svc := newTestService(t)
	_, err := svc.Create(context.Background(), "   ", `{}`, "")
	assert.True(t, errors.Is(err, ErrInvalidInput))
}

func TestRawData(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{name: "object", in: `{"a":1}`, want: `{"a":1}`},
		{name: "string blob", in: `"{not json"`, want: `{not json`},
		{name: "empty", in: ``, want: ``},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, RawData(json.RawMessage(tt.in)))
		})
	}
}
