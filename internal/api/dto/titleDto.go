package dto

import "reviewhub/internal/api/models"

// CreateTitleRequest references category and genres by slug.
type CreateTitleRequest struct {
	Name        string   `json:"name" binding:"required"`
	Year        int      `json:"year" binding:"required"`
	Description *string  `json:"description"`
	Category    string   `json:"category"`
	Genre       []string `json:"genre"`
}

// UpdateTitleRequest: partial update; nil fields stay untouched.
// A non-nil empty Genre slice detaches all genres.
type UpdateTitleRequest struct {
	Name        *string   `json:"name"`
	Year        *int      `json:"year"`
	Description *string   `json:"description"`
	Category    *string   `json:"category"`
	Genre       *[]string `json:"genre"`
}

// TitleResponse for returning title information; Rating is nil when the
// title has no reviews yet.
type TitleResponse struct {
	ID          int64             `json:"id"`
	Name        string            `json:"name"`
	Year        int               `json:"year"`
	Description *string           `json:"description"`
	Genre       []GenreResponse   `json:"genre"`
	Category    *CategoryResponse `json:"category"`
	Rating      *float64          `json:"rating"`
}

func TitleFromModel(title *models.Title) TitleResponse {
	genres := make([]GenreResponse, 0, len(title.Genres))
	for i := range title.Genres {
		genres = append(genres, GenreFromModel(&title.Genres[i]))
	}

	var category *CategoryResponse
	if title.Category != nil {
		c := CategoryFromModel(title.Category)
		category = &c
	}

	return TitleResponse{
		ID:          title.ID,
		Name:        title.Name,
		Year:        title.Year,
		Description: title.Description,
		Genre:       genres,
		Category:    category,
		Rating:      title.Rating,
	}
}
