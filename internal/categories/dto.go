package categories

import "github.com/takuma-ones/ec-app/pkg/db/models"

// CategoryDTO is the transport shape for a browsing category.
type CategoryDTO struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// FromModel maps a persisted category onto the transport shape.
func FromModel(c *models.Category) *CategoryDTO {
	if c == nil {
		return nil
	}
	return &CategoryDTO{ID: c.ID, Name: c.Name}
}
