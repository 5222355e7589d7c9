package editor

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"contentapi/internal/model"
)

func TestLoadSchemaDir(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "seo.json"), []byte(`{
		"type": "object",
		"properties": {"title": {"type": "string", "maxLength": 10}},
		"required": ["title"]
	}`), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("ignored"), 0o644))

	schemas, err := LoadSchemaDir(dir)
	require.NoError(t, err)
	assert.Len(t, schemas, 1)
	assert.Contains(t, schemas, "seo")

	r, err := NewDefaultRegistry(Deps{JSONSchemas: schemas})
	require.NoError(t, err)
	e, ok := r.Resolve("json.seo")
	require.True(t, ok)

	_, err = e.Deserialize(context.Background(), model.EditorInput{Value: map[string]any{"title": "far too long a title"}}, nil)
	assert.ErrorIs(t, err, ErrInvalidValue)

	v, err := e.Deserialize(context.Background(), model.EditorInput{Value: `{"title":"ok"}`}, nil)
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"title": "ok"}, v)
}

func TestLoadSchemaDir_Empty(t *testing.T) {
	schemas, err := LoadSchemaDir("")
	assert.NoError(t, err)
	assert.Nil(t, schemas)
}
