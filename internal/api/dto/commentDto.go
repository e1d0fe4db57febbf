package dto

import (
	"time"

	"reviewhub/internal/api/models"
)

// CreateCommentRequest for posting a comment under a review
type CreateCommentRequest struct {
	Text string `json:"text" binding:"required,min=1,max=5000"`
}

// UpdateCommentRequest for editing a comment
type UpdateCommentRequest struct {
	Text string `json:"text" binding:"required,min=1,max=5000"`
}

// CommentResponse for returning comment information
type CommentResponse struct {
	ID      int64     `json:"id"`
	Author  string    `json:"author"`
	Text    string    `json:"text"`
	PubDate time.Time `json:"pub_date"`
}

// FromModelToCommentResponse converts a Comment model to CommentResponse DTO
func FromModelToCommentResponse(comment *models.Comment) *CommentResponse {
	return &CommentResponse{
		ID:      comment.ID,
		Author:  comment.Author.Username,
		Text:    comment.Text,
		PubDate: comment.PubDate,
	}
}
