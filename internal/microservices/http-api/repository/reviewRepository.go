package repository

import (
	"context"

	"yamdb/internal/microservices/http-api/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ReviewRepository interface {
	Create(ctx context.Context, review *models.Review) error
	Update(ctx context.Context, review *models.Review) error
	Delete(ctx context.Context, titleID, reviewID int64) error
	GetByID(ctx context.Context, titleID, reviewID int64) (*models.Review, error)
	GetByTitle(ctx context.Context, titleID int64, page, pageSize int) ([]models.Review, int64, error)
}

type reviewRepository struct {
	db *gorm.DB
}

func NewReviewRepository(db *gorm.DB) ReviewRepository {
	return &reviewRepository{db: db}
}

// Create inserts the review and refreshes the title rating in the same transaction.
// A second review by the same author on the same title yields ErrDuplicate.
func (r *reviewRepository) Create(ctx context.Context, review *models.Review) error {
	return r.withTitleLock(ctx, review.TitleID, func(tx *gorm.DB) error {
		var existing int64
		if err := tx.Model(&models.Review{}).
			Where("author_id = ? AND title_id = ?", review.AuthorID, review.TitleID).
			Count(&existing).Error; err != nil {
			return err
		}
		if existing > 0 {
			return ErrDuplicate
		}
		return translate(tx.Omit(clause.Associations).Create(review).Error)
	})
}

// Update writes text and score, then refreshes the title rating.
func (r *reviewRepository) Update(ctx context.Context, review *models.Review) error {
	return r.withTitleLock(ctx, review.TitleID, func(tx *gorm.DB) error {
		result := tx.Model(&models.Review{}).
			Where("id = ? AND title_id = ?", review.ID, review.TitleID).
			Updates(map[string]any{"text": review.Text, "score": review.Score})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return ErrNotFound
		}
		return nil
	})
}

// Delete removes the review (its comments cascade) and refreshes the title rating.
func (r *reviewRepository) Delete(ctx context.Context, titleID, reviewID int64) error {
	return r.withTitleLock(ctx, titleID, func(tx *gorm.DB) error {
		result := tx.Where("id = ? AND title_id = ?", reviewID, titleID).Delete(&models.Review{})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return ErrNotFound
		}
		return nil
	})
}

// GetByID retrieves a review of the given title
func (r *reviewRepository) GetByID(ctx context.Context, titleID, reviewID int64) (*models.Review, error) {
	var review models.Review
	err := r.db.WithContext(ctx).
		Where("id = ? AND title_id = ?", reviewID, titleID).
		Preload("Author").
		Preload("Title").
		First(&review).Error
	if err != nil {
		return nil, translate(err)
	}
	return &review, nil
}

// GetByTitle retrieves all reviews for a specific title with pagination
func (r *reviewRepository) GetByTitle(ctx context.Context, titleID int64, page, pageSize int) ([]models.Review, int64, error) {
	var reviews []models.Review
	var total int64

	if err := r.db.WithContext(ctx).Model(&models.Review{}).Where("title_id = ?", titleID).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := r.db.WithContext(ctx).
		Where("title_id = ?", titleID).
		Scopes(paginate(page, pageSize)).
		Preload("Author").
		Preload("Title").
		Order("pub_date DESC").
		Order("id DESC").
		Find(&reviews).Error
	if err != nil {
		return nil, 0, err
	}
	return reviews, total, nil
}

// withTitleLock runs fn and the rating refresh in one transaction holding the
// title row lock, so concurrent review writes on a title are serialised.
// fn must only use tx.
func (r *reviewRepository) withTitleLock(ctx context.Context, titleID int64, fn func(tx *gorm.DB) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		locked, err := lockTitles(tx, titleID)
		if err != nil {
			return err
		}
		if len(locked) == 0 {
			return ErrNotFound
		}

		if err := fn(tx); err != nil {
			return err
		}
		return recomputeRating(tx, titleID)
	})
}
