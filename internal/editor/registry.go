// Package editor holds the property editor registry and the built-in editors.
package editor

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"

	"contentapi/internal/model"
)

var (
	ErrDuplicateEditor = errors.New("property editor already registered")
	ErrInvalidValue    = errors.New("invalid property value")
	ErrEmptyAlias      = errors.New("property editor alias is empty")
)

// Registry maps property editor aliases to editors.
// Editors are registered at start-up; lookups are safe for concurrent use.
type Registry struct {
	mu      sync.RWMutex
	editors map[string]model.PropertyEditor
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{editors: make(map[string]model.PropertyEditor)}
}

// Register adds an editor under its alias.
func (r *Registry) Register(e model.PropertyEditor) error {
	alias := normalizeAlias(e.Alias())
	if alias == "" {
		return ErrEmptyAlias
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.editors[alias]; ok {
		return fmt.Errorf("%w: %s", ErrDuplicateEditor, alias)
	}
	r.editors[alias] = e
	return nil
}

// MustRegister is Register for start-up code paths.
func (r *Registry) MustRegister(editors ...model.PropertyEditor) {
	for _, e := range editors {
		if err := r.Register(e); err != nil {
			panic(err)
		}
	}
}

// Resolve returns the editor registered for the alias.
// A missing editor is a normal outcome, e.g. a property type whose editor was removed.
func (r *Registry) Resolve(alias string) (model.PropertyEditor, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	e, ok := r.editors[normalizeAlias(alias)]
	return e, ok
}

// Aliases returns the registered aliases sorted.
func (r *Registry) Aliases() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]string, 0, len(r.editors))
	for a := range r.editors {
		out = append(out, a)
	}
	sort.Strings(out)
	return out
}

func normalizeAlias(alias string) string {
	return strings.ToLower(strings.TrimSpace(alias))
}

// Deps are the collaborators some built-in editors need.
type Deps struct {
	Media       Copier
	MediaPrefix string
	JSONSchemas map[string]string
}

// NewDefaultRegistry registers every built-in editor.
// JSONSchemas adds one "json.<name>" editor per schema on top of the schemaless "json" editor.
func NewDefaultRegistry(deps Deps) (*Registry, error) {
	r := NewRegistry()
	editors := []model.PropertyEditor{
		NewTextbox(),
		NewTextarea(),
		NewRichText(),
		NewMarkdown(),
		NewSlug(),
		NewInteger(),
		NewTrueFalse(),
		NewJSON("json", nil),
	}
	names := make([]string, 0, len(deps.JSONSchemas))
	for name := range deps.JSONSchemas {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		e, err := NewJSONWithSchema("json."+name, deps.JSONSchemas[name])
		if err != nil {
			return nil, err
		}
		editors = append(editors, e)
	}
	if deps.Media != nil {
		editors = append(editors, NewUpload(deps.Media, deps.MediaPrefix))
	}
	for _, e := range editors {
		if err := r.Register(e); err != nil {
			return nil, err
		}
	}
	return r, nil
}
