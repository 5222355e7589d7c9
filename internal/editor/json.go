package editor

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v5"

	"contentapi/internal/model"
)

// JSON stores structured values. Strings are parsed as JSON documents.
// When a schema is attached every value is validated against it.
type JSON struct {
	alias  string
	schema *jsonschema.Schema
}

// NewJSON creates a JSON editor; schema may be nil.
func NewJSON(alias string, schema *jsonschema.Schema) *JSON {
	return &JSON{alias: alias, schema: schema}
}

// NewJSONWithSchema compiles the schema document and attaches it to a new editor.
func NewJSONWithSchema(alias, schemaDoc string) (*JSON, error) {
	sch, err := jsonschema.CompileString(alias+".schema.json", schemaDoc)
	if err != nil {
		return nil, fmt.Errorf("compile schema for %s: %w", alias, err)
	}
	return NewJSON(alias, sch), nil
}

func (e *JSON) Alias() string { return e.alias }

func (e *JSON) Deserialize(_ context.Context, in model.EditorInput, _ any) (any, error) {
	v, err := normalizeJSON(in.Value)
	if err != nil {
		return nil, err
	}
	if v == nil {
		return nil, nil
	}
	if e.schema != nil {
		if err := e.schema.Validate(v); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidValue, err)
		}
	}
	return v, nil
}

// normalizeJSON round-trips the value through encoding/json so the stored form only
// holds maps, slices, strings, float64, bool and nil.
func normalizeJSON(v any) (any, error) {
	var raw []byte
	switch t := v.(type) {
	case nil:
		return nil, nil
	case string:
		if strings.TrimSpace(t) == "" {
			return nil, nil
		}
		raw = []byte(t)
	default:
		b, err := json.Marshal(t)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidValue, err)
		}
		raw = b
	}
	var out any
	dec := json.NewDecoder(bytes.NewReader(raw))
	if err := dec.Decode(&out); err != nil {
		return nil, fmt.Errorf("%w: malformed json: %v", ErrInvalidValue, err)
	}
	if err := dec.Decode(&struct{}{}); err != io.EOF {
		return nil, fmt.Errorf("%w: malformed json: unexpected data after document", ErrInvalidValue)
	}
	return out, nil
}
