package model

import "time"

// ContentPropertyDisplay is the presentation view of one property.
type ContentPropertyDisplay struct {
	ID     int64  `json:"id"`
	Alias  string `json:"alias"`
	Label  string `json:"label"`
	Editor string `json:"editor"`
	Value  any    `json:"value"`
}

// ContentItemDisplay is the read-only projection returned to clients.
type ContentItemDisplay struct {
	ID               int64                    `json:"id"`
	Name             string                   `json:"name"`
	ParentID         int64                    `json:"parent_id"`
	ContentTypeAlias string                   `json:"content_type_alias"`
	ContentTypeName  string                   `json:"content_type_name"`
	IsNew            bool                     `json:"is_new"`
	CreatedAt        *time.Time               `json:"created_at,omitempty"`
	UpdatedAt        *time.Time               `json:"updated_at,omitempty"`
	Properties       []ContentPropertyDisplay `json:"properties"`
}
