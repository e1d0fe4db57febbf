package dto

import "reviewhub/internal/api/models"

// CreateCategoryRequest for creating a category
type CreateCategoryRequest struct {
	Name string `json:"name" binding:"required,max=256"`
	Slug string `json:"slug" binding:"required,max=50"`
}

// CategoryResponse for returning category information
type CategoryResponse struct {
	Name string `json:"name"`
	Slug string `json:"slug"`
}

func CategoryFromModel(category *models.Category) CategoryResponse {
	return CategoryResponse{Name: category.Name, Slug: category.Slug}
}
