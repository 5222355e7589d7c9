package model

import "context"

// EditorData is auxiliary data handed to a property editor alongside the raw value.
// Files is empty for editors that never receive uploads.
type EditorData struct {
	Files []UploadedFile
}

// HasFiles reports whether any uploaded file was attached to the property.
func (d EditorData) HasFiles() bool {
	return len(d.Files) > 0
}

// EditorInput is what a property editor deserializes.
type EditorInput struct {
	Value any
	Data  EditorData
}

// PropertyEditor turns a submitted value into its stored form.
// previous is the value currently persisted so editors can keep parts the client did not send.
type PropertyEditor interface {
	Alias() string
	Deserialize(ctx context.Context, in EditorInput, previous any) (any, error)
}
