package models

// TitleGenre is a row of the join table gorm creates for Title.Genres.
// It is used to rewrite a title's genre set directly instead of through
// association upserts.
type TitleGenre struct {
	TitleID int64 `json:"title_id" gorm:"primaryKey"`
	GenreID int64 `json:"genre_id" gorm:"primaryKey"`
}

func (TitleGenre) TableName() string {
	return "title_genres"
}
