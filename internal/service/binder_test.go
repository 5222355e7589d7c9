package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"contentapi/internal/model"
	"contentapi/internal/repository"
	repoMocks "contentapi/internal/repository/mocks"
)

func TestSaveRequest_Validate(t *testing.T) {
	tests := []struct {
		name       string
		req        SaveRequest
		wantFields []string
	}{
		{
			name: "valid update",
			req:  SaveRequest{ID: 5, Name: "Page"},
		},
		{
			name: "valid create",
			req:  SaveRequest{Name: "Page", ContentTypeAlias: "article"},
		},
		{
			name:       "blank name",
			req:        SaveRequest{ID: 5, Name: "   "},
			wantFields: []string{"name"},
		},
		{
			name:       "create without content type",
			req:        SaveRequest{Name: "Page"},
			wantFields: []string{"content_type_alias"},
		},
		{
			name:       "negative id",
			req:        SaveRequest{ID: -3, Name: "Page"},
			wantFields: []string{"id"},
		},
		{
			name: "property without alias",
			req: SaveRequest{ID: 5, Name: "Page", Properties: []SaveRequestProperty{
				{Alias: "title"}, {Value: "x"},
			}},
			wantFields: []string{"properties.1.alias"},
		},
		{
			name: "duplicate alias",
			req: SaveRequest{ID: 5, Name: "Page", Properties: []SaveRequestProperty{
				{Alias: "title"}, {Alias: "title"},
			}},
			wantFields: []string{"properties"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := toFieldError(tt.req.Validate())
			if len(tt.wantFields) == 0 {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, ErrValidation)
			for _, f := range tt.wantFields {
				assert.Contains(t, Fields(err), f)
			}
		})
	}
}

func TestBinder_Bind(t *testing.T) {
	ctx := context.Background()

	t.Run("existing content", func(t *testing.T) {
		f := newFixture(t)

		item, err := f.binder.Bind(ctx, SaveRequest{
			ID:         1001,
			Name:       "Renamed",
			ParentID:   77,
			Properties: []SaveRequestProperty{{Alias: "title", Value: "T"}, {Alias: "image"}},
		}, []model.UploadedFile{{PropertyAlias: "image", Key: "staging/a.png"}})

		require.NoError(t, err)
		assert.Equal(t, "Renamed", item.PersistedContent.Name)
		assert.Equal(t, model.RootID, item.PersistedContent.ParentID)
		require.Len(t, item.ContentDto.Properties, 2)

		title := item.ContentDto.Properties[0]
		assert.Equal(t, int64(101), title.ID)
		require.NotNil(t, title.Editor)
		assert.Equal(t, "textbox", title.Editor.Alias())

		image := item.ContentDto.Properties[1]
		assert.Equal(t, int64(103), image.ID)
		assert.Nil(t, image.Editor)

		require.Len(t, item.UploadedFiles, 1)
		assert.Equal(t, int64(103), item.UploadedFiles[0].PropertyID)
		assert.Len(t, item.FilesFor(103), 1)
		assert.Empty(t, item.FilesFor(101))
		assert.Equal(t, 0, f.store.SaveCount())
	})

	t.Run("new content gets request scoped property ids", func(t *testing.T) {
		f := newFixture(t)

		item, err := f.binder.Bind(ctx, SaveRequest{
			Name:             "Fresh",
			ParentID:         1001,
			ContentTypeAlias: "article",
			Properties:       []SaveRequestProperty{{Alias: "title"}, {Alias: "body"}},
		}, []model.UploadedFile{{PropertyAlias: "body", Key: "staging/b"}})

		require.NoError(t, err)
		assert.True(t, item.PersistedContent.IsNew())
		assert.Equal(t, int64(1001), item.PersistedContent.ParentID)
		assert.Equal(t, int64(-1), item.ContentDto.Properties[0].ID)
		assert.Equal(t, int64(-2), item.ContentDto.Properties[1].ID)
		assert.Equal(t, int64(-2), item.UploadedFiles[0].PropertyID)
	})

	t.Run("unknown property and stray file", func(t *testing.T) {
		f := newFixture(t)

		_, err := f.binder.Bind(ctx, SaveRequest{
			ID:         1001,
			Name:       "x",
			Properties: []SaveRequestProperty{{Alias: "subtitle"}},
		}, []model.UploadedFile{{PropertyAlias: "avatar", Filename: "me.png"}})

		assert.ErrorIs(t, err, ErrValidation)
		fields := Fields(err)
		assert.Equal(t, "property subtitle does not exist on content type article", fields["properties.subtitle"])
		assert.Equal(t, "file me.png does not belong to a submitted property", fields["files.avatar"])
	})

	t.Run("missing content", func(t *testing.T) {
		f := newFixture(t)

		_, err := f.binder.Bind(ctx, SaveRequest{ID: 999, Name: "x"}, nil)

		assert.ErrorIs(t, err, ErrNotFound)
		assert.Equal(t, "content with id: 999 was not found", Fields(err)["id"])
	})

	t.Run("missing content type", func(t *testing.T) {
		f := newFixture(t)

		_, err := f.binder.Bind(ctx, SaveRequest{Name: "x", ContentTypeAlias: "nope"}, nil)

		assert.ErrorIs(t, err, ErrNotFound)
		assert.Contains(t, Fields(err), "contentTypeAlias")
	})

	t.Run("repository failure", func(t *testing.T) {
		mContents := new(repoMocks.MockContentRepository)
		mTypes := new(repoMocks.MockContentTypeRepository)
		mContents.On("FindByID", mock.Anything, int64(4)).Return(nil, errors.New("conn reset"))
		b := NewBinder(mContents, mTypes, nil)

		_, err := b.Bind(ctx, SaveRequest{ID: 4, Name: "x"}, nil)

		assert.EqualError(t, err, "load content 4: conn reset")
		assert.NotErrorIs(t, err, repository.ErrNotFound)
	})
}

func TestToDisplay(t *testing.T) {
	c := storedArticle(articleType())

	d := ToDisplay(c)

	assert.Equal(t, "Article", d.ContentTypeName)
	assert.Equal(t, "Title", d.Properties[0].Label)
	assert.Equal(t, "textbox", d.Properties[0].Editor)
	assert.Nil(t, d.CreatedAt)

	d.Properties[2].Value.(map[string]any)["src"] = "changed"
	assert.Equal(t, map[string]any{"src": "media/old.png"}, c.Properties.Get("image").Value)
}
