package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"contentapi/internal/model"
	"contentapi/internal/repository"
)

// SaveRequest is the JSON document posted by the editing client.
// ID zero creates new content of ContentTypeAlias below ParentID.
type SaveRequest struct {
	ID               int64                 `json:"id"`
	Name             string                `json:"name"`
	ParentID         int64                 `json:"parent_id"`
	ContentTypeAlias string                `json:"content_type_alias"`
	Properties       []SaveRequestProperty `json:"properties"`
}

// SaveRequestProperty is one submitted property value.
type SaveRequestProperty struct {
	Alias string `json:"alias"`
	Value any    `json:"value"`
}

// Validate implements validation.Validatable.
func (p SaveRequestProperty) Validate() error {
	return validation.ValidateStruct(&p,
		validation.Field(&p.Alias, validation.Required),
	)
}

// Validate checks the structure of the request before anything is loaded.
func (r SaveRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.ID, validation.Min(int64(0))),
		validation.Field(&r.Name, validation.Required, validation.By(func(value any) error {
			if strings.TrimSpace(value.(string)) == "" {
				return validation.NewError("content.name_required", "cannot be blank")
			}
			return nil
		})),
		validation.Field(&r.ContentTypeAlias, validation.When(r.ID == 0, validation.Required)),
		validation.Field(&r.Properties, validation.By(uniqueAliases)),
	)
}

func uniqueAliases(value any) error {
	props, _ := value.([]SaveRequestProperty)
	seen := make(map[string]struct{}, len(props))
	for _, p := range props {
		if _, ok := seen[p.Alias]; ok && p.Alias != "" {
			return validation.NewError("content.property_duplicate", fmt.Sprintf("property %s submitted more than once", p.Alias))
		}
		seen[p.Alias] = struct{}{}
	}
	return nil
}

// EditorResolver looks up property editors by alias.
type EditorResolver interface {
	Resolve(alias string) (model.PropertyEditor, bool)
}

// Binder turns a decoded SaveRequest and its staged files into a ContentItemSave.
type Binder struct {
	contents repository.ContentRepository
	types    repository.ContentTypeRepository
	editors  EditorResolver
}

// NewBinder constructs a Binder.
func NewBinder(contents repository.ContentRepository, types repository.ContentTypeRepository, editors EditorResolver) *Binder {
	return &Binder{contents: contents, types: types, editors: editors}
}

// Bind validates req, resolves the content it targets and associates files with submitted properties.
//
// Files are matched to properties by PropertyAlias. Properties of unsaved content have no id yet, so
// they get a negative id unique within the request and the files are keyed by that id.
func (b *Binder) Bind(ctx context.Context, req SaveRequest, files []model.UploadedFile) (*model.ContentItemSave, error) {
	if err := req.Validate(); err != nil {
		return nil, toFieldError(err)
	}

	persisted, err := b.resolve(ctx, req)
	if err != nil {
		return nil, err
	}

	fields := map[string]string{}
	submitted := make([]model.SubmittedProperty, 0, len(req.Properties))
	ids := make(map[string]int64, len(req.Properties))
	for i, rp := range req.Properties {
		dbo := persisted.Properties.Get(rp.Alias)
		if dbo == nil {
			fields["properties."+rp.Alias] = fmt.Sprintf("property %s does not exist on content type %s", rp.Alias, persisted.ContentType.Alias)
			continue
		}
		id := dbo.ID
		if id == 0 {
			id = -int64(i + 1)
		}
		sp := model.SubmittedProperty{ID: id, Alias: rp.Alias, Value: rp.Value}
		if e, ok := b.editors.Resolve(dbo.Type.EditorAlias); ok {
			sp.Editor = e
		}
		ids[rp.Alias] = id
		submitted = append(submitted, sp)
	}

	uploaded := make([]model.UploadedFile, 0, len(files))
	for _, f := range files {
		id, ok := ids[f.PropertyAlias]
		if !ok {
			fields["files."+f.PropertyAlias] = fmt.Sprintf("file %s does not belong to a submitted property", f.Filename)
			continue
		}
		f.PropertyID = id
		uploaded = append(uploaded, f)
	}

	if len(fields) > 0 {
		return nil, invalid(fields)
	}

	persisted.Name = req.Name
	return &model.ContentItemSave{
		ContentDto: model.ContentItemDto{
			ID:               persisted.ID,
			Name:             req.Name,
			ParentID:         persisted.ParentID,
			ContentTypeAlias: persisted.ContentType.Alias,
			Properties:       submitted,
		},
		UploadedFiles:    uploaded,
		PersistedContent: persisted,
	}, nil
}

func (b *Binder) resolve(ctx context.Context, req SaveRequest) (*model.Content, error) {
	if req.ID > 0 {
		c, err := b.contents.FindByID(ctx, req.ID)
		if errors.Is(err, repository.ErrNotFound) {
			return nil, notFound("id", "content with id: %d was not found", req.ID)
		}
		if err != nil {
			return nil, fmt.Errorf("load content %d: %w", req.ID, err)
		}
		return c, nil
	}

	ct, err := b.types.FindByAlias(ctx, req.ContentTypeAlias)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, notFound("contentTypeAlias", "content type with alias: %s was not found", req.ContentTypeAlias)
	}
	if err != nil {
		return nil, fmt.Errorf("load content type %s: %w", req.ContentTypeAlias, err)
	}
	parentID := req.ParentID
	if parentID == 0 {
		parentID = model.RootID
	}
	return model.NewContent(req.Name, parentID, ct), nil
}

// toFieldError flattens ozzo validation errors into dotted field keys.
func toFieldError(err error) error {
	var ve validation.Errors
	if !errors.As(err, &ve) {
		return err
	}
	fields := map[string]string{}
	flatten("", ve, fields)
	return invalid(fields)
}

func flatten(prefix string, errs validation.Errors, out map[string]string) {
	for k, e := range errs {
		key := k
		if prefix != "" {
			key = prefix + "." + k
		}
		var nested validation.Errors
		if errors.As(e, &nested) {
			flatten(key, nested, out)
			continue
		}
		out[key] = e.Error()
	}
}
