package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"contentapi/internal/model"
	"contentapi/internal/repository"
)

// ContentTypePostgres reads content types and their property types.
type ContentTypePostgres struct {
	db *sql.DB
}

// NewContentTypePostgres creates a new ContentTypePostgres repository.
func NewContentTypePostgres(db *sql.DB) *ContentTypePostgres {
	return &ContentTypePostgres{db: db}
}

var _ repository.ContentTypeRepository = (*ContentTypePostgres)(nil)

// FindByAlias fetches a content type by alias.
func (r *ContentTypePostgres) FindByAlias(ctx context.Context, alias string) (*model.ContentType, error) {
	const q = `
		SELECT id, alias, name
		FROM content_types
		WHERE alias = $1
	`
	return r.find(ctx, q, alias)
}

// FindByID fetches a content type by id.
func (r *ContentTypePostgres) FindByID(ctx context.Context, id int64) (*model.ContentType, error) {
	const q = `
		SELECT id, alias, name
		FROM content_types
		WHERE id = $1
	`
	return r.find(ctx, q, id)
}

func (r *ContentTypePostgres) find(ctx context.Context, q string, arg any) (*model.ContentType, error) {
	var ct model.ContentType
	if err := r.db.QueryRowContext(ctx, q, arg).Scan(&ct.ID, &ct.Alias, &ct.Name); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}

	pts, err := r.propertyTypes(ctx, ct.ID)
	if err != nil {
		return nil, err
	}
	ct.PropertyTypes = pts
	return &ct, nil
}

func (r *ContentTypePostgres) propertyTypes(ctx context.Context, contentTypeID int64) ([]model.PropertyType, error) {
	const q = `
		SELECT id, alias, name, editor_alias, sort_order, default_value
		FROM property_types
		WHERE content_type_id = $1
		ORDER BY sort_order, id
	`
	rows, err := r.db.QueryContext(ctx, q, contentTypeID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]model.PropertyType, 0)
	for rows.Next() {
		var (
			pt  model.PropertyType
			def []byte
		)
		if err := rows.Scan(&pt.ID, &pt.Alias, &pt.Name, &pt.EditorAlias, &pt.SortOrder, &def); err != nil {
			return nil, err
		}
		if pt.DefaultValue, err = decodeValue(def); err != nil {
			return nil, fmt.Errorf("property type %s default: %w", pt.Alias, err)
		}
		items = append(items, pt)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

// decodeValue turns a JSONB column into a property value. NULL decodes to nil.
func decodeValue(raw []byte) (any, error) {
	if raw == nil {
		return nil, nil
	}
	var v any
	if err := json.Unmarshal(raw, &v); err != nil {
		return nil, err
	}
	return v, nil
}

// encodeValue is the inverse of decodeValue.
func encodeValue(v any) (any, error) {
	if v == nil {
		return nil, nil
	}
	b, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}
