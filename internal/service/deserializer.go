package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"contentapi/internal/editor"
	"contentapi/internal/model"
)

// propertyUpdate is the outcome of deserializing one submitted property.
type propertyUpdate struct {
	alias   string
	value   any
	skipped bool
}

// deserializeProperty runs the property's editor against the previous stored value.
// A property without an editor is skipped and reported, never failed.
func deserializeProperty(ctx context.Context, log *slog.Logger, contentID int64, p model.SubmittedProperty, files []model.UploadedFile, previous any) (propertyUpdate, error) {
	in := model.EditorInput{
		Value: p.Value,
		Data:  model.EditorData{Files: files},
	}

	if p.Editor == nil {
		log.WarnContext(ctx, fmt.Sprintf("no property editor found for property %s", p.Alias),
			slog.String("alias", p.Alias),
			slog.Int64("content_id", contentID),
			slog.Int("files", len(files)),
		)
		return propertyUpdate{alias: p.Alias, skipped: true}, nil
	}

	v, err := p.Editor.Deserialize(ctx, in, previous)
	if err != nil {
		if errors.Is(err, editor.ErrInvalidValue) {
			return propertyUpdate{}, invalid(map[string]string{"properties." + p.Alias: err.Error()})
		}
		return propertyUpdate{}, fmt.Errorf("deserialize %s with %s: %w", p.Alias, p.Editor.Alias(), err)
	}
	return propertyUpdate{alias: p.Alias, value: v}, nil
}
