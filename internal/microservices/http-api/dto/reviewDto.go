package dto

import (
	"time"

	"yamdb/internal/microservices/http-api/models"
)

// CreateReviewDTO for POST /titles/:title_id/reviews
type CreateReviewDTO struct {
	Text  *string `json:"text"`
	Score int     `json:"score" binding:"required,min=1,max=10"`
}

// UpdateReviewDTO for PATCH; nil fields are left alone
type UpdateReviewDTO struct {
	Text  *string `json:"text"`
	Score *int    `json:"score" binding:"omitempty,min=1,max=10"`
}

// ReviewResponse shows the title by its description and the author by username.
type ReviewResponse struct {
	ID      int64     `json:"id"`
	Title   *string   `json:"title"`
	Author  *string   `json:"author"`
	Text    *string   `json:"text"`
	Score   int       `json:"score"`
	PubDate time.Time `json:"pub_date"`
}

// FromModelToReviewResponse expects Author and Title to be preloaded
func FromModelToReviewResponse(r *models.Review) ReviewResponse {
	return ReviewResponse{
		ID:      r.ID,
		Title:   r.Title.Description,
		Author:  r.Author.Username,
		Text:    r.Text,
		Score:   r.Score,
		PubDate: r.PubDate,
	}
}
