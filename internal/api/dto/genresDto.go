package dto

import "reviewhub/internal/api/models"

// CreateGenreRequest for creating a genre
type CreateGenreRequest struct {
	Name string `json:"name" binding:"required,max=256"`
	Slug string `json:"slug" binding:"required,max=50"`
}

// GenreResponse for returning genre information
type GenreResponse struct {
	Name string `json:"name"`
	Slug string `json:"slug"`
}

func GenreFromModel(genre *models.Genre) GenreResponse {
	return GenreResponse{Name: genre.Name, Slug: genre.Slug}
}
