package editor

import (
	"context"
	"fmt"
	"strings"

	"github.com/microcosm-cc/bluemonday"

	"contentapi/internal/model"
)

// Textbox stores submitted values as plain strings.
type Textbox struct{}

func NewTextbox() *Textbox { return &Textbox{} }

func (e *Textbox) Alias() string { return "textbox" }

func (e *Textbox) Deserialize(_ context.Context, in model.EditorInput, _ any) (any, error) {
	s, ok := asString(in.Value)
	if !ok {
		return nil, nil
	}
	return s, nil
}

// Textarea is a multi-line textbox with normalised line endings.
type Textarea struct{}

func NewTextarea() *Textarea { return &Textarea{} }

func (e *Textarea) Alias() string { return "textarea" }

func (e *Textarea) Deserialize(_ context.Context, in model.EditorInput, _ any) (any, error) {
	s, ok := asString(in.Value)
	if !ok {
		return nil, nil
	}
	return strings.ReplaceAll(s, "\r\n", "\n"), nil
}

// RichText stores HTML after running it through a user generated content policy.
type RichText struct {
	policy *bluemonday.Policy
}

func NewRichText() *RichText {
	return &RichText{policy: bluemonday.UGCPolicy()}
}

func (e *RichText) Alias() string { return "richtext" }

func (e *RichText) Deserialize(_ context.Context, in model.EditorInput, _ any) (any, error) {
	s, ok := asString(in.Value)
	if !ok {
		return nil, nil
	}
	return e.policy.Sanitize(s), nil
}

// asString converts scalar submissions to strings; ok is false for nil.
func asString(v any) (string, bool) {
	switch t := v.(type) {
	case nil:
		return "", false
	case string:
		return t, true
	case []byte:
		return string(t), true
	default:
		return fmt.Sprint(t), true
	}
}
