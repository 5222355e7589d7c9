package model

import "time"

// RootID is the parent id of content placed at the top of the tree.
const RootID int64 = -1

// EmptyName is the name given to scaffolded content before the editor renames it.
const EmptyName = "Empty"

// PropertyType describes one property allowed on a content type.
// EditorAlias selects the property editor used to deserialize submitted values.
type PropertyType struct {
	ID           int64  `json:"id"`
	Alias        string `json:"alias"`
	Name         string `json:"name"`
	EditorAlias  string `json:"editor"`
	SortOrder    int    `json:"sort_order"`
	DefaultValue any    `json:"default_value,omitempty"`
}

// ContentType is the schema of a content item.
// It is treated as immutable once loaded.
type ContentType struct {
	ID            int64          `json:"id"`
	Alias         string         `json:"alias"`
	Name          string         `json:"name"`
	PropertyTypes []PropertyType `json:"property_types"`
}

// PropertyType returns the property type with the given alias.
func (ct *ContentType) PropertyType(alias string) (PropertyType, bool) {
	for _, pt := range ct.PropertyTypes {
		if pt.Alias == alias {
			return pt, true
		}
	}
	return PropertyType{}, false
}

// Property is the persisted value of one property on a content item.
type Property struct {
	ID    int64        `json:"id"`
	Alias string       `json:"alias"`
	Type  PropertyType `json:"type"`
	Value any          `json:"value"`
}

// Properties keeps the properties of a content item in content type order.
type Properties []*Property

// Get returns the property with the given alias or nil.
func (ps Properties) Get(alias string) *Property {
	for _, p := range ps {
		if p.Alias == alias {
			return p
		}
	}
	return nil
}

// Aliases lists property aliases in order.
func (ps Properties) Aliases() []string {
	out := make([]string, 0, len(ps))
	for _, p := range ps {
		out = append(out, p.Alias)
	}
	return out
}

// Content is a node in the content tree.
// ID is zero until the content has been saved for the first time.
type Content struct {
	ID          int64        `json:"id"`
	Name        string       `json:"name"`
	ParentID    int64        `json:"parent_id"`
	ContentType *ContentType `json:"content_type"`
	Properties  Properties   `json:"properties"`
	CreatedAt   time.Time    `json:"created_at"`
	UpdatedAt   time.Time    `json:"updated_at"`
}

// NewContent scaffolds unsaved content of the given type.
// Every property type gets a property holding a copy of its default value.
func NewContent(name string, parentID int64, ct *ContentType) *Content {
	c := &Content{
		Name:        name,
		ParentID:    parentID,
		ContentType: ct,
		Properties:  make(Properties, 0, len(ct.PropertyTypes)),
	}
	for _, pt := range ct.PropertyTypes {
		c.Properties = append(c.Properties, &Property{
			Alias: pt.Alias,
			Type:  pt,
			Value: CloneValue(pt.DefaultValue),
		})
	}
	return c
}

// IsNew reports whether the content has never been persisted.
func (c *Content) IsNew() bool {
	return c.ID == 0
}

// Clone returns a deep copy of the content. The content type is shared since it is immutable.
func (c *Content) Clone() *Content {
	if c == nil {
		return nil
	}
	out := *c
	out.Properties = make(Properties, 0, len(c.Properties))
	for _, p := range c.Properties {
		cp := *p
		cp.Value = CloneValue(p.Value)
		out.Properties = append(out.Properties, &cp)
	}
	return &out
}

// CloneValue deep copies the JSON-like values stored on properties.
// Maps and slices are copied recursively; anything else is returned as is.
func CloneValue(v any) any {
	switch t := v.(type) {
	case map[string]any:
		m := make(map[string]any, len(t))
		for k, val := range t {
			m[k] = CloneValue(val)
		}
		return m
	case []any:
		s := make([]any, len(t))
		for i, val := range t {
			s[i] = CloneValue(val)
		}
		return s
	case []string:
		return append([]string(nil), t...)
	default:
		return v
	}
}
