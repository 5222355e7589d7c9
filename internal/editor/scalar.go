package editor

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/goliatone/go-slug"

	"contentapi/internal/model"
)

// Slug normalises values into URL slugs.
// An empty submission keeps the previous slug.
type Slug struct{}

func NewSlug() *Slug { return &Slug{} }

func (e *Slug) Alias() string { return "slug" }

func (e *Slug) Deserialize(_ context.Context, in model.EditorInput, previous any) (any, error) {
	s, ok := asString(in.Value)
	if !ok || strings.TrimSpace(s) == "" {
		return previous, nil
	}
	out, err := slug.Normalize(s)
	if err != nil {
		return nil, fmt.Errorf("%w: slug %q: %v", ErrInvalidValue, s, err)
	}
	return out, nil
}

// Integer stores whole numbers as int64. Empty input clears the value.
type Integer struct{}

func NewInteger() *Integer { return &Integer{} }

func (e *Integer) Alias() string { return "integer" }

func (e *Integer) Deserialize(_ context.Context, in model.EditorInput, _ any) (any, error) {
	switch t := in.Value.(type) {
	case nil:
		return nil, nil
	case int:
		return int64(t), nil
	case int64:
		return t, nil
	case float64:
		if t != math.Trunc(t) {
			return nil, fmt.Errorf("%w: %v is not a whole number", ErrInvalidValue, t)
		}
		if t < math.MinInt64 || t >= math.MaxInt64 {
			return nil, fmt.Errorf("%w: %v is out of range", ErrInvalidValue, t)
		}
		return int64(t), nil
	case json.Number:
		n, err := t.Int64()
		if err != nil {
			return nil, fmt.Errorf("%w: %q is not a whole number", ErrInvalidValue, t.String())
		}
		return n, nil
	case string:
		s := strings.TrimSpace(t)
		if s == "" {
			return nil, nil
		}
		n, err := strconv.ParseInt(s, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("%w: %q is not a whole number", ErrInvalidValue, t)
		}
		return n, nil
	default:
		return nil, fmt.Errorf("%w: unsupported integer input %T", ErrInvalidValue, in.Value)
	}
}

// TrueFalse stores booleans; checkbox style inputs ("on", "1") are accepted.
type TrueFalse struct{}

func NewTrueFalse() *TrueFalse { return &TrueFalse{} }

func (e *TrueFalse) Alias() string { return "truefalse" }

func (e *TrueFalse) Deserialize(_ context.Context, in model.EditorInput, _ any) (any, error) {
	switch t := in.Value.(type) {
	case nil:
		return false, nil
	case bool:
		return t, nil
	case float64:
		return t != 0, nil
	case string:
		switch strings.ToLower(strings.TrimSpace(t)) {
		case "", "0", "false", "off", "no":
			return false, nil
		case "1", "true", "on", "yes":
			return true, nil
		}
		return nil, fmt.Errorf("%w: %q is not a boolean", ErrInvalidValue, t)
	default:
		return nil, fmt.Errorf("%w: unsupported boolean input %T", ErrInvalidValue, in.Value)
	}
}
