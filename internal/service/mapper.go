package service

import (
	"time"

	"contentapi/internal/model"
)

// ToDisplay projects content into its presentation shape.
// Values are deep copied so the projection never aliases entity state.
func ToDisplay(c *model.Content) *model.ContentItemDisplay {
	d := &model.ContentItemDisplay{
		ID:         c.ID,
		Name:       c.Name,
		ParentID:   c.ParentID,
		IsNew:      c.IsNew(),
		CreatedAt:  timePtr(c.CreatedAt),
		UpdatedAt:  timePtr(c.UpdatedAt),
		Properties: make([]model.ContentPropertyDisplay, 0, len(c.Properties)),
	}
	if c.ContentType != nil {
		d.ContentTypeAlias = c.ContentType.Alias
		d.ContentTypeName = c.ContentType.Name
	}
	for _, p := range c.Properties {
		label := p.Type.Name
		if label == "" {
			label = p.Alias
		}
		d.Properties = append(d.Properties, model.ContentPropertyDisplay{
			ID:     p.ID,
			Alias:  p.Alias,
			Label:  label,
			Editor: p.Type.EditorAlias,
			Value:  model.CloneValue(p.Value),
		})
	}
	return d
}

func timePtr(t time.Time) *time.Time {
	if t.IsZero() {
		return nil
	}
	return &t
}
