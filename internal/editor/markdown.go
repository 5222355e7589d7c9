package editor

import (
	"bytes"
	"context"
	"fmt"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"

	"contentapi/internal/model"
)

// Markdown keeps the markdown source together with its rendered HTML.
// The stored value is a map with "markdown" and "html" keys.
type Markdown struct {
	engine goldmark.Markdown
}

// NewMarkdown builds the editor with GitHub flavoured extensions. Raw HTML is not rendered.
func NewMarkdown() *Markdown {
	return &Markdown{
		engine: goldmark.New(
			goldmark.WithExtensions(extension.GFM),
			goldmark.WithParserOptions(parser.WithAutoHeadingID()),
		),
	}
}

func (e *Markdown) Alias() string { return "markdown" }

func (e *Markdown) Deserialize(_ context.Context, in model.EditorInput, _ any) (any, error) {
	src, ok := asString(in.Value)
	if !ok {
		return nil, nil
	}
	var buf bytes.Buffer
	if err := e.engine.Convert([]byte(src), &buf); err != nil {
		return nil, fmt.Errorf("%w: markdown: %v", ErrInvalidValue, err)
	}
	return map[string]any{
		"markdown": src,
		"html":     buf.String(),
	}, nil
}
