package domain

import "fmt"

// Category is a marketplace category. Subcategories carry the parent id
// supplied by the model, which may be nil when the model omitted it.
type Category struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Description string  `json:"description"`
	ParentID    *string `json:"parent_id,omitempty"`

	// Subcategory is set for entries read from a "subcategories" array,
	// regardless of whether a parent id was provided.
	Subcategory bool `json:"-"`
}

func (c Category) IsTopLevel() bool {
	return !c.Subcategory
}

func (c Category) Text() string {
	return fmt.Sprintf("%s %s", c.Name, c.Description)
}

func (c Category) Record() Record {
	r := Record{
		"text":        c.Text(),
		"id":          c.ID,
		"name":        c.Name,
		"description": c.Description,
	}
	if c.Subcategory {
		if c.ParentID != nil {
			r["parent_id"] = *c.ParentID
		} else {
			r["parent_id"] = nil
		}
	}
	return r
}
