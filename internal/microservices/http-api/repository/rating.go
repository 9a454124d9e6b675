package repository

import (
	"database/sql"
	"errors"

	"yamdb/internal/microservices/http-api/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// lockTitles takes the row lock on the given titles in id order and returns
// the ids that exist.
func lockTitles(tx *gorm.DB, ids ...int64) ([]int64, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	q := tx.Model(&models.Title{}).Where("id IN ?", ids).Order("id")
	// sqlite has no row locks; its single writer already serialises the transaction
	if tx.Dialector.Name() == "postgres" {
		q = q.Clauses(clause.Locking{Strength: "UPDATE"})
	}
	var locked []int64
	if err := q.Pluck("id", &locked).Error; err != nil {
		return nil, err
	}
	return locked, nil
}

// recomputeRating stores the mean review score of the title, or NULL without reviews.
func recomputeRating(tx *gorm.DB, titleID int64) error {
	var avg sql.NullFloat64
	row := tx.Model(&models.Review{}).Select("AVG(score)").Where("title_id = ?", titleID).Row()
	if err := row.Scan(&avg); err != nil && !errors.Is(err, sql.ErrNoRows) {
		return err
	}

	var rating *float64
	if avg.Valid {
		rating = &avg.Float64
	}
	return tx.Model(&models.Title{}).Where("id = ?", titleID).Update("rating", rating).Error
}
