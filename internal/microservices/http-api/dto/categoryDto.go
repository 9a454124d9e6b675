package dto

import "yamdb/internal/microservices/http-api/models"

// CreateCategoryDTO for POST /categories
type CreateCategoryDTO struct {
	Name *string `json:"name" binding:"omitempty,max=200"`
	Slug string  `json:"slug" binding:"required,max=50,slug"`
}

type CategoryResponse struct {
	Name *string `json:"name"`
	Slug string  `json:"slug"`
}

func CategoryFromModel(c models.Category) CategoryResponse {
	return CategoryResponse{
		Name: c.Name,
		Slug: c.Slug,
	}
}
