package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"contentapi/internal/model"
	"contentapi/internal/repository"
)

// ContentService defines the use cases for editing content.
type ContentService interface {
	// GetByID returns the display model of stored content.
	// A missing id fails with a FieldError keyed "id" wrapping ErrNotFound.
	GetByID(ctx context.Context, id int64) (*model.ContentItemDisplay, error)

	// GetEmpty scaffolds unsaved content of the given type under parentID. Nothing is persisted.
	GetEmpty(ctx context.Context, contentTypeAlias string, parentID int64) (*model.ContentItemDisplay, error)

	// Save applies a bound submission to its persisted content and stores it once.
	Save(ctx context.Context, item *model.ContentItemSave) (*model.ContentItemDisplay, error)
}

// contentService is a concrete implementation of ContentService.
type contentService struct {
	contents repository.ContentRepository
	types    repository.ContentTypeRepository
	log      *slog.Logger
	tracer   trace.Tracer
}

// NewContentService constructs a new ContentService.
func NewContentService(contents repository.ContentRepository, types repository.ContentTypeRepository, log *slog.Logger) ContentService {
	if log == nil {
		log = slog.Default()
	}
	return &contentService{
		contents: contents,
		types:    types,
		log:      log.With(slog.String("component", "content_service")),
		tracer:   otel.Tracer("contentapi/service"),
	}
}

func (s *contentService) GetByID(ctx context.Context, id int64) (*model.ContentItemDisplay, error) {
	ctx, span := s.tracer.Start(ctx, "ContentService.GetByID", trace.WithAttributes(attribute.Int64("content.id", id)))
	defer span.End()

	if id <= 0 {
		return nil, notFound("id", "content with id: %d was not found", id)
	}
	c, err := s.contents.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, notFound("id", "content with id: %d was not found", id)
		}
		return nil, fail(span, err)
	}
	return ToDisplay(c), nil
}

func (s *contentService) GetEmpty(ctx context.Context, contentTypeAlias string, parentID int64) (*model.ContentItemDisplay, error) {
	ctx, span := s.tracer.Start(ctx, "ContentService.GetEmpty", trace.WithAttributes(
		attribute.String("content_type.alias", contentTypeAlias),
		attribute.Int64("content.parent_id", parentID),
	))
	defer span.End()

	ct, err := s.types.FindByAlias(ctx, contentTypeAlias)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, notFound("contentTypeAlias", "content type with alias: %s was not found", contentTypeAlias)
		}
		return nil, fail(span, err)
	}
	return ToDisplay(model.NewContent(model.EmptyName, parentID, ct)), nil
}

// Save runs every submitted property through its editor, then commits the content once.
//
// Editors see a snapshot of the previous values and the new values are merged in a single
// step after all editors succeeded, so a failing editor leaves the entity untouched.
func (s *contentService) Save(ctx context.Context, item *model.ContentItemSave) (*model.ContentItemDisplay, error) {
	ctx, span := s.tracer.Start(ctx, "ContentService.Save")
	defer span.End()

	if item == nil || item.PersistedContent == nil {
		return nil, fail(span, fmt.Errorf("%w: no persisted content resolved", ErrPreconditionFailed))
	}
	persisted := item.PersistedContent
	span.SetAttributes(
		attribute.Int64("content.id", persisted.ID),
		attribute.Int("content.submitted_properties", len(item.ContentDto.Properties)),
		attribute.Int("content.uploaded_files", len(item.UploadedFiles)),
	)

	previous := make(map[string]any, len(item.ContentDto.Properties))
	for _, p := range item.ContentDto.Properties {
		dbo := persisted.Properties.Get(p.Alias)
		if dbo == nil {
			return nil, fail(span, fmt.Errorf("%w: property %q does not exist on content", ErrPreconditionFailed, p.Alias))
		}
		previous[p.Alias] = model.CloneValue(dbo.Value)
	}

	updates := make([]propertyUpdate, 0, len(item.ContentDto.Properties))
	skipped := 0
	for _, p := range item.ContentDto.Properties {
		u, err := deserializeProperty(ctx, s.log, persisted.ID, p, item.FilesFor(p.ID), previous[p.Alias])
		if err != nil {
			if errors.Is(err, ErrValidation) {
				return nil, err
			}
			return nil, fail(span, err)
		}
		if u.skipped {
			skipped++
			continue
		}
		updates = append(updates, u)
	}
	span.SetAttributes(attribute.Int("content.skipped_properties", skipped))

	for _, u := range updates {
		persisted.Properties.Get(u.alias).Value = u.value
	}

	saved, err := s.contents.Save(ctx, persisted)
	if err != nil {
		return nil, fail(span, fmt.Errorf("persist content: %w", err))
	}
	return ToDisplay(saved), nil
}

func fail(span trace.Span, err error) error {
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
	return err
}
