package dto

import "yamdb/internal/microservices/http-api/models"

// Titles are written with slug references and read back with the related
// objects embedded, so each direction has its own type.

// TitleWriteRequest for POST /titles
type TitleWriteRequest struct {
	Name        *string  `json:"name" binding:"omitempty,max=200"`
	Year        int      `json:"year" binding:"required"`
	Description *string  `json:"description"`
	Category    string   `json:"category" binding:"required,slug"`
	Genre       []string `json:"genre" binding:"required,min=1,dive,slug"`
}

// TitleUpdateRequest for PATCH /titles/:title_id; nil fields are left alone
type TitleUpdateRequest struct {
	Name        *string  `json:"name" binding:"omitempty,max=200"`
	Year        *int     `json:"year" binding:"omitempty,min=1"`
	Description *string  `json:"description"`
	Category    *string  `json:"category" binding:"omitempty,slug"`
	Genre       []string `json:"genre" binding:"omitempty,min=1,dive,slug"`
}

// TitleResponse is the read projection; rating is computed and never accepted.
type TitleResponse struct {
	ID          int64             `json:"id"`
	Name        *string           `json:"name"`
	Year        int               `json:"year"`
	Rating      *float64          `json:"rating"`
	Description *string           `json:"description"`
	Genre       []GenreResponse   `json:"genre"`
	Category    *CategoryResponse `json:"category"`
}

func FromModelToTitleResponse(t *models.Title) TitleResponse {
	resp := TitleResponse{
		ID:          t.ID,
		Name:        t.Name,
		Year:        t.Year,
		Rating:      t.Rating,
		Description: t.Description,
		Genre:       make([]GenreResponse, 0, len(t.Genres)),
	}
	for _, g := range t.Genres {
		resp.Genre = append(resp.Genre, GenreFromModel(g))
	}
	if t.Category != nil {
		c := CategoryFromModel(*t.Category)
		resp.Category = &c
	}
	return resp
}
