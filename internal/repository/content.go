package repository

import (
	"context"
	"errors"

	"contentapi/internal/model"
)

// ErrNotFound is returned by every repository when the requested row does not exist.
var ErrNotFound = errors.New("not found")

// ContentRepository persists content items.
// No business logic here, only persistence operations.
type ContentRepository interface {
	// FindByID returns the content with its content type and property values.
	FindByID(ctx context.Context, id int64) (*model.Content, error)

	// Save inserts new content (ID 0) or updates existing content and all of its property values
	// in a single unit of work. Returns the stored content with generated ids and timestamps.
	Save(ctx context.Context, c *model.Content) (*model.Content, error)
}

// ContentTypeRepository reads content type definitions.
type ContentTypeRepository interface {
	FindByAlias(ctx context.Context, alias string) (*model.ContentType, error)
	FindByID(ctx context.Context, id int64) (*model.ContentType, error)
}
