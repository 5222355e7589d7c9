package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"

	"contentapi/internal/model"
	"contentapi/internal/repository"
)

// ContentPostgres is a PostgreSQL implementation of repository.ContentRepository.
// Content types are loaded through the injected ContentTypeRepository so they can be cached.
type ContentPostgres struct {
	db    *sql.DB
	types repository.ContentTypeRepository
	now   func() time.Time
}

// NewContentPostgres creates a new ContentPostgres repository.
func NewContentPostgres(db *sql.DB, types repository.ContentTypeRepository) *ContentPostgres {
	return &ContentPostgres{
		db:    db,
		types: types,
		now:   func() time.Time { return time.Now().UTC() },
	}
}

var _ repository.ContentRepository = (*ContentPostgres)(nil)

// FindByID fetches a content row, its content type and its property values.
func (r *ContentPostgres) FindByID(ctx context.Context, id int64) (*model.Content, error) {
	const q = `
		SELECT id, name, parent_id, content_type_id, created_at, updated_at
		FROM contents
		WHERE id = $1
	`
	var (
		c             model.Content
		contentTypeID int64
	)
	if err := r.db.QueryRowContext(ctx, q, id).Scan(
		&c.ID,
		&c.Name,
		&c.ParentID,
		&contentTypeID,
		&c.CreatedAt,
		&c.UpdatedAt,
	); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}

	ct, err := r.types.FindByID(ctx, contentTypeID)
	if err != nil {
		return nil, fmt.Errorf("content type %d: %w", contentTypeID, err)
	}
	c.ContentType = ct

	values, err := r.values(ctx, c.ID)
	if err != nil {
		return nil, err
	}

	c.Properties = make(model.Properties, 0, len(ct.PropertyTypes))
	for _, pt := range ct.PropertyTypes {
		p := &model.Property{Alias: pt.Alias, Type: pt, Value: model.CloneValue(pt.DefaultValue)}
		if v, ok := values[pt.ID]; ok {
			p.ID = v.id
			p.Value = v.value
		}
		c.Properties = append(c.Properties, p)
	}
	return &c, nil
}

type storedValue struct {
	id    int64
	value any
}

func (r *ContentPostgres) values(ctx context.Context, contentID int64) (map[int64]storedValue, error) {
	const q = `
		SELECT id, property_type_id, value
		FROM property_values
		WHERE content_id = $1
	`
	rows, err := r.db.QueryContext(ctx, q, contentID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make(map[int64]storedValue)
	for rows.Next() {
		var (
			id, ptID int64
			raw      []byte
		)
		if err := rows.Scan(&id, &ptID, &raw); err != nil {
			return nil, err
		}
		v, err := decodeValue(raw)
		if err != nil {
			return nil, fmt.Errorf("property value %d: %w", id, err)
		}
		out[ptID] = storedValue{id: id, value: v}
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// Save writes the content row and every property value in one transaction.
func (r *ContentPostgres) Save(ctx context.Context, c *model.Content) (*model.Content, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback() }()

	out := c.Clone()
	now := r.now()
	if out.IsNew() {
		const q = `
			INSERT INTO contents (name, parent_id, content_type_id, created_at, updated_at)
			VALUES ($1, $2, $3, $4, $5)
			RETURNING id, created_at, updated_at
		`
		if err := tx.QueryRowContext(ctx, q,
			out.Name,
			out.ParentID,
			out.ContentType.ID,
			now,
			now,
		).Scan(&out.ID, &out.CreatedAt, &out.UpdatedAt); err != nil {
			return nil, err
		}
	} else {
		const q = `
			UPDATE contents SET name = $1, parent_id = $2, updated_at = $3
			WHERE id = $4
			RETURNING created_at, updated_at
		`
		if err := tx.QueryRowContext(ctx, q,
			out.Name,
			out.ParentID,
			now,
			out.ID,
		).Scan(&out.CreatedAt, &out.UpdatedAt); err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return nil, repository.ErrNotFound
			}
			return nil, err
		}
	}

	if err := r.upsertValues(ctx, tx, out); err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *ContentPostgres) upsertValues(ctx context.Context, tx *sql.Tx, c *model.Content) error {
	if len(c.Properties) == 0 {
		return nil
	}
	ins := sq.Insert("property_values").
		Columns("content_id", "property_type_id", "value").
		PlaceholderFormat(sq.Dollar)
	for _, p := range c.Properties {
		v, err := encodeValue(p.Value)
		if err != nil {
			return fmt.Errorf("encode %s: %w", p.Alias, err)
		}
		ins = ins.Values(c.ID, p.Type.ID, v)
	}
	q, args, err := ins.
		Suffix("ON CONFLICT (content_id, property_type_id) DO UPDATE SET value = EXCLUDED.value RETURNING id, property_type_id").
		ToSql()
	if err != nil {
		return err
	}

	rows, err := tx.QueryContext(ctx, q, args...)
	if err != nil {
		return err
	}
	defer rows.Close()

	ids := make(map[int64]int64, len(c.Properties))
	for rows.Next() {
		var id, ptID int64
		if err := rows.Scan(&id, &ptID); err != nil {
			return err
		}
		ids[ptID] = id
	}
	if err := rows.Err(); err != nil {
		return err
	}
	for _, p := range c.Properties {
		if id, ok := ids[p.Type.ID]; ok {
			p.ID = id
		}
	}
	return nil
}
