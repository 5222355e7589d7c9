package model

// UploadedFile is a file staged by the upload layer for a single property.
// Key addresses the staged object in storage and stays valid until the request ends.
type UploadedFile struct {
	PropertyID    int64  `json:"property_id"`
	PropertyAlias string `json:"property_alias"`
	Key           string `json:"key"`
	Filename      string `json:"filename"`
	ContentType   string `json:"content_type"`
	Size          int64  `json:"size"`
}

// SubmittedProperty is one property of an incoming save.
// Editor is nil when no editor is registered for the property type.
type SubmittedProperty struct {
	ID     int64          `json:"id"`
	Alias  string         `json:"alias"`
	Value  any            `json:"value"`
	Editor PropertyEditor `json:"-"`
}

// ContentItemDto is the client side view of the content being saved.
type ContentItemDto struct {
	ID               int64               `json:"id"`
	Name             string              `json:"name"`
	ParentID         int64               `json:"parent_id"`
	ContentTypeAlias string              `json:"content_type_alias"`
	Properties       []SubmittedProperty `json:"properties"`
}

// ContentItemSave is a bound and validated save request.
// PersistedContent is the entity the submission is applied to; it is resolved before saving.
type ContentItemSave struct {
	ContentDto       ContentItemDto
	UploadedFiles    []UploadedFile
	PersistedContent *Content
}

// FilesFor returns the uploaded files owned by the given property id, in upload order.
func (s *ContentItemSave) FilesFor(propertyID int64) []UploadedFile {
	var out []UploadedFile
	for _, f := range s.UploadedFiles {
		if f.PropertyID == propertyID {
			out = append(out, f)
		}
	}
	return out
}
