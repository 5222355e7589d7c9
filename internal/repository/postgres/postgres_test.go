package postgres

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"contentapi/internal/model"
	"contentapi/internal/repository"
)

var (
	typeCols     = []string{"id", "alias", "name"}
	propTypeCols = []string{"id", "alias", "name", "editor_alias", "sort_order", "default_value"}
	contentCols  = []string{"id", "name", "parent_id", "content_type_id", "created_at", "updated_at"}
	valueCols    = []string{"id", "property_type_id", "value"}
)

func newMock(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("an error '%s' was not expected when opening a stub database connection", err)
	}
	t.Cleanup(func() { db.Close() })
	return db, mock
}

func expectArticleType(mock sqlmock.Sqlmock) {
	mock.ExpectQuery("SELECT id, alias, name FROM content_types WHERE id = ?").
		WithArgs(int64(1)).
		WillReturnRows(sqlmock.NewRows(typeCols).AddRow(1, "article", "Article"))
	mock.ExpectQuery("SELECT (.+) FROM property_types WHERE content_type_id = ?").
		WithArgs(int64(1)).
		WillReturnRows(sqlmock.NewRows(propTypeCols).
			AddRow(10, "title", "Title", "textbox", 0, nil).
			AddRow(11, "body", "Body", "richtext", 1, []byte(`"<p></p>"`)))
}

func TestContentTypePostgres_FindByAlias(t *testing.T) {
	db, mock := newMock(t)
	repo := NewContentTypePostgres(db)
	ctx := context.Background()

	t.Run("found", func(t *testing.T) {
		mock.ExpectQuery("SELECT id, alias, name FROM content_types WHERE alias = ?").
			WithArgs("article").
			WillReturnRows(sqlmock.NewRows(typeCols).AddRow(1, "article", "Article"))
		mock.ExpectQuery("SELECT (.+) FROM property_types WHERE content_type_id = ?").
			WithArgs(int64(1)).
			WillReturnRows(sqlmock.NewRows(propTypeCols).
				AddRow(10, "title", "Title", "textbox", 0, nil).
				AddRow(11, "tags", "Tags", "json", 1, []byte(`["news"]`)))

		ct, err := repo.FindByAlias(ctx, "article")

		require.NoError(t, err)
		assert.Equal(t, "article", ct.Alias)
		require.Len(t, ct.PropertyTypes, 2)
		assert.Nil(t, ct.PropertyTypes[0].DefaultValue)
		assert.Equal(t, []any{"news"}, ct.PropertyTypes[1].DefaultValue)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("not found", func(t *testing.T) {
		mock.ExpectQuery("SELECT id, alias, name FROM content_types WHERE alias = ?").
			WithArgs("missing").
			WillReturnError(sql.ErrNoRows)

		ct, err := repo.FindByAlias(ctx, "missing")

		assert.ErrorIs(t, err, repository.ErrNotFound)
		assert.Nil(t, ct)
	})

	t.Run("bad default value", func(t *testing.T) {
		mock.ExpectQuery("SELECT id, alias, name FROM content_types WHERE alias = ?").
			WithArgs("broken").
			WillReturnRows(sqlmock.NewRows(typeCols).AddRow(2, "broken", "Broken"))
		mock.ExpectQuery("SELECT (.+) FROM property_types WHERE content_type_id = ?").
			WithArgs(int64(2)).
			WillReturnRows(sqlmock.NewRows(propTypeCols).AddRow(20, "x", "X", "json", 0, []byte(`{`)))

		_, err := repo.FindByAlias(ctx, "broken")
		assert.ErrorContains(t, err, "property type x default")
	})
}

func TestContentPostgres_FindByID(t *testing.T) {
	db, mock := newMock(t)
	repo := NewContentPostgres(db, NewContentTypePostgres(db))
	ctx := context.Background()
	now := time.Now().UTC()

	t.Run("found", func(t *testing.T) {
		mock.ExpectQuery("SELECT (.+) FROM contents WHERE id = ?").
			WithArgs(int64(1001)).
			WillReturnRows(sqlmock.NewRows(contentCols).AddRow(1001, "Home", -1, 1, now, now))
		expectArticleType(mock)
		mock.ExpectQuery("SELECT (.+) FROM property_values WHERE content_id = ?").
			WithArgs(int64(1001)).
			WillReturnRows(sqlmock.NewRows(valueCols).AddRow(500, 10, []byte(`"Hello"`)))

		c, err := repo.FindByID(ctx, 1001)

		require.NoError(t, err)
		assert.Equal(t, "Home", c.Name)
		assert.Equal(t, model.RootID, c.ParentID)
		assert.Equal(t, "article", c.ContentType.Alias)
		assert.Equal(t, []string{"title", "body"}, c.Properties.Aliases())
		assert.Equal(t, int64(500), c.Properties.Get("title").ID)
		assert.Equal(t, "Hello", c.Properties.Get("title").Value)
		// no stored row: falls back to the property type default
		assert.Equal(t, int64(0), c.Properties.Get("body").ID)
		assert.Equal(t, "<p></p>", c.Properties.Get("body").Value)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("not found", func(t *testing.T) {
		mock.ExpectQuery("SELECT (.+) FROM contents WHERE id = ?").
			WithArgs(int64(999)).
			WillReturnError(sql.ErrNoRows)

		c, err := repo.FindByID(ctx, 999)

		assert.ErrorIs(t, err, repository.ErrNotFound)
		assert.Nil(t, c)
	})
}

func articleContent() *model.Content {
	ct := &model.ContentType{
		ID:    1,
		Alias: "article",
		PropertyTypes: []model.PropertyType{
			{ID: 10, Alias: "title", EditorAlias: "textbox"},
			{ID: 11, Alias: "body", EditorAlias: "richtext"},
		},
	}
	c := model.NewContent("Hello", model.RootID, ct)
	c.Properties.Get("title").Value = "Hello"
	return c
}

func TestContentPostgres_Save(t *testing.T) {
	db, mock := newMock(t)
	repo := NewContentPostgres(db, NewContentTypePostgres(db))
	ctx := context.Background()
	now := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	repo.now = func() time.Time { return now }

	t.Run("insert", func(t *testing.T) {
		c := articleContent()

		mock.ExpectBegin()
		mock.ExpectQuery("INSERT INTO contents").
			WithArgs("Hello", int64(-1), int64(1), now, now).
			WillReturnRows(sqlmock.NewRows([]string{"id", "created_at", "updated_at"}).AddRow(1001, now, now))
		mock.ExpectQuery(`INSERT INTO property_values \(content_id,property_type_id,value\) VALUES \(\$1,\$2,\$3\),\(\$4,\$5,\$6\) ON CONFLICT`).
			WithArgs(int64(1001), int64(10), `"Hello"`, int64(1001), int64(11), nil).
			WillReturnRows(sqlmock.NewRows([]string{"id", "property_type_id"}).AddRow(1, 10).AddRow(2, 11))
		mock.ExpectCommit()

		out, err := repo.Save(ctx, c)

		require.NoError(t, err)
		assert.Equal(t, int64(1001), out.ID)
		assert.Equal(t, int64(1), out.Properties.Get("title").ID)
		assert.Equal(t, int64(2), out.Properties.Get("body").ID)
		assert.Zero(t, c.ID, "input is not mutated")
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("update missing row", func(t *testing.T) {
		c := articleContent()
		c.ID = 77

		mock.ExpectBegin()
		mock.ExpectQuery("UPDATE contents SET").
			WithArgs("Hello", int64(-1), now, int64(77)).
			WillReturnError(sql.ErrNoRows)
		mock.ExpectRollback()

		_, err := repo.Save(ctx, c)

		assert.ErrorIs(t, err, repository.ErrNotFound)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("value upsert failure rolls back", func(t *testing.T) {
		c := articleContent()
		c.ID = 1001

		mock.ExpectBegin()
		mock.ExpectQuery("UPDATE contents SET").
			WithArgs("Hello", int64(-1), now, int64(1001)).
			WillReturnRows(sqlmock.NewRows([]string{"created_at", "updated_at"}).AddRow(now, now))
		mock.ExpectQuery("INSERT INTO property_values").
			WillReturnError(errors.New("deadlock detected"))
		mock.ExpectRollback()

		_, err := repo.Save(ctx, c)

		assert.ErrorContains(t, err, "deadlock detected")
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}
