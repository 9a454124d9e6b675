// Package seed fills a database with demo data for development.
package seed

import (
	"context"
	"fmt"
	"time"

	"yamdb/internal/microservices/http-api/models"
	"yamdb/internal/microservices/http-api/repository"

	"github.com/brianvoe/gofakeit/v6"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type builtIn struct {
	Name string
	Slug string
}

// BuiltInCategories are always present after Catalog runs.
var BuiltInCategories = []builtIn{
	{Name: "Films", Slug: "films"},
	{Name: "Books", Slug: "books"},
	{Name: "Music", Slug: "music"},
}

// BuiltInGenres are always present after Catalog runs.
var BuiltInGenres = []builtIn{
	{Name: "Drama", Slug: "drama"},
	{Name: "Comedy", Slug: "comedy"},
	{Name: "Noir", Slug: "noir"},
	{Name: "Science fiction", Slug: "sci-fi"},
	{Name: "Documentary", Slug: "documentary"},
	{Name: "Rock", Slug: "rock"},
	{Name: "Jazz", Slug: "jazz"},
}

// Catalog upserts the built-in categories and genres by slug. Safe to rerun.
func Catalog(ctx context.Context, db *gorm.DB) error {
	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		upsert := clause.OnConflict{
			Columns:   []clause.Column{{Name: "slug"}},
			DoUpdates: clause.AssignmentColumns([]string{"name"}),
		}
		for _, item := range BuiltInCategories {
			if err := tx.Clauses(upsert).Create(&models.Category{Name: &item.Name, Slug: item.Slug}).Error; err != nil {
				return fmt.Errorf("seed category %s: %w", item.Slug, err)
			}
		}
		for _, item := range BuiltInGenres {
			if err := tx.Clauses(upsert).Create(&models.Genre{Name: &item.Name, Slug: item.Slug}).Error; err != nil {
				return fmt.Errorf("seed genre %s: %w", item.Slug, err)
			}
		}
		return nil
	})
}

// Options controls how much demo content Run generates.
type Options struct {
	Users           int
	Titles          int
	ReviewsPerTitle int
	CommentsPerRev  int
	// Seed makes the output reproducible; 0 picks one from the clock.
	Seed int64
}

// Summary counts what Run created.
type Summary struct {
	Users    int
	Titles   int
	Reviews  int
	Comments int
}

// Run seeds the catalog, then users, titles, reviews and comments. Reviews go
// through the review repository so title ratings stay consistent.
func Run(ctx context.Context, db *gorm.DB, opts Options) (*Summary, error) {
	if err := Catalog(ctx, db); err != nil {
		return nil, err
	}

	seed := opts.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	f := newFactory(db, gofakeit.New(seed))
	sum := &Summary{}

	var categories []models.Category
	var genres []models.Genre
	if err := db.WithContext(ctx).Find(&categories).Error; err != nil {
		return nil, err
	}
	if err := db.WithContext(ctx).Find(&genres).Error; err != nil {
		return nil, err
	}

	users := make([]*models.User, 0, opts.Users)
	for i := 0; i < opts.Users; i++ {
		u, err := f.createUser(ctx, i)
		if err != nil {
			return sum, err
		}
		users = append(users, u)
		sum.Users++
	}

	reviews := repository.NewReviewRepository(db)
	comments := repository.NewCommentRepository(db)
	for i := 0; i < opts.Titles; i++ {
		title, err := f.createTitle(ctx, categories, genres)
		if err != nil {
			return sum, err
		}
		sum.Titles++

		// one review per user at most
		for j := 0; j < opts.ReviewsPerTitle && j < len(users); j++ {
			review := f.buildReview(title.ID, users[j].ID)
			if err := reviews.Create(ctx, review); err != nil {
				return sum, fmt.Errorf("seed review: %w", err)
			}
			sum.Reviews++

			for k := 0; k < opts.CommentsPerRev && len(users) > 0; k++ {
				author := users[f.faker.Number(0, len(users)-1)]
				c := &models.Comment{ReviewID: review.ID, AuthorID: author.ID, Text: f.faker.Sentence(8)}
				if err := comments.Create(ctx, c); err != nil {
					return sum, fmt.Errorf("seed comment: %w", err)
				}
				sum.Comments++
			}
		}
	}
	return sum, nil
}
