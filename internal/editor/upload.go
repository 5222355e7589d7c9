package editor

import (
	"context"
	"fmt"
	"path"
	"strings"

	"github.com/google/uuid"

	"contentapi/internal/model"
)

// Copier copies an object inside the media store.
type Copier interface {
	Copy(ctx context.Context, srcKey, dstKey string) error
}

// Upload moves a staged upload into permanent media storage and stores its key.
//
// Without files the previous value is kept, unless the client sends {"clear": true}.
// Only the first file is used when several are attached.
type Upload struct {
	media  Copier
	prefix string
}

func NewUpload(media Copier, prefix string) *Upload {
	prefix = strings.Trim(prefix, "/")
	if prefix == "" {
		prefix = "media"
	}
	return &Upload{media: media, prefix: prefix}
}

func (e *Upload) Alias() string { return "upload" }

func (e *Upload) Deserialize(ctx context.Context, in model.EditorInput, previous any) (any, error) {
	if !in.Data.HasFiles() {
		if isClear(in.Value) {
			return nil, nil
		}
		return previous, nil
	}
	f := in.Data.Files[0]
	dst := path.Join(e.prefix, uuid.NewString()+strings.ToLower(path.Ext(f.Filename)))
	if err := e.media.Copy(ctx, f.Key, dst); err != nil {
		return nil, fmt.Errorf("store upload %s: %w", f.Filename, err)
	}
	return map[string]any{
		"src":          dst,
		"filename":     f.Filename,
		"content_type": f.ContentType,
		"size":         f.Size,
	}, nil
}

func isClear(v any) bool {
	m, ok := v.(map[string]any)
	if !ok {
		return false
	}
	c, _ := m["clear"].(bool)
	return c
}
