package repository

import (
	"context"
	"fmt"
	"strings"

	"yamdb/internal/microservices/http-api/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// TitleFilter holds the optional list filters; zero values are ignored.
type TitleFilter struct {
	Year     int
	Category string // category slug
	Genre    string // genre slug
	Name     string // case-insensitive substring
}

type TitleRepository interface {
	List(ctx context.Context, filter TitleFilter, page, pageSize int) ([]models.Title, int64, error)
	FindByID(ctx context.Context, id int64) (*models.Title, error)
	Create(ctx context.Context, title *models.Title, genreIDs []int64) error
	Update(ctx context.Context, title *models.Title, genreIDs []int64, replaceGenres bool) error
	Delete(ctx context.Context, id int64) error
}

type titleRepository struct {
	db *gorm.DB
}

func NewTitleRepository(db *gorm.DB) TitleRepository {
	return &titleRepository{db: db}
}

func (f TitleFilter) scope(db *gorm.DB) *gorm.DB {
	if f.Year != 0 {
		db = db.Where("titles.year = ?", f.Year)
	}
	if f.Category != "" {
		db = db.Where("titles.category_id IN (SELECT id FROM categories WHERE slug = ?)", f.Category)
	}
	if f.Genre != "" {
		db = db.Where(`titles.id IN (SELECT title_genres.title_id FROM title_genres
			JOIN genres ON genres.id = title_genres.genre_id WHERE genres.slug = ?)`, f.Genre)
	}
	if name := strings.TrimSpace(f.Name); name != "" {
		db = db.Where(ilike("titles.name"), containsPattern(name))
	}
	return db
}

// List returns titles matching every non-empty filter, with category and genres preloaded.
func (r *titleRepository) List(ctx context.Context, filter TitleFilter, page, pageSize int) ([]models.Title, int64, error) {
	var titles []models.Title
	var total int64

	if err := r.db.WithContext(ctx).Model(&models.Title{}).Scopes(filter.scope).Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("count titles: %w", err)
	}

	err := r.db.WithContext(ctx).
		Scopes(filter.scope, paginate(page, pageSize)).
		Preload("Category").
		Preload("Genres", func(db *gorm.DB) *gorm.DB { return db.Order("genres.name ASC") }).
		Order("titles.id ASC").
		Find(&titles).Error
	if err != nil {
		return nil, 0, fmt.Errorf("get titles: %w", err)
	}
	return titles, total, nil
}

func (r *titleRepository) FindByID(ctx context.Context, id int64) (*models.Title, error) {
	var title models.Title
	err := r.db.WithContext(ctx).
		Preload("Category").
		Preload("Genres", func(db *gorm.DB) *gorm.DB { return db.Order("genres.name ASC") }).
		First(&title, "id = ?", id).Error
	if err != nil {
		return nil, translate(err)
	}
	return &title, nil
}

// Create inserts the title and its genre links in one transaction.
// Rating is never taken from the caller.
func (r *titleRepository) Create(ctx context.Context, title *models.Title, genreIDs []int64) error {
	title.Rating = nil
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit(clause.Associations).Create(title).Error; err != nil {
			return translate(err)
		}
		return linkGenres(tx, title.ID, genreIDs)
	})
}

// Update writes name, year, description and category. When replaceGenres is set
// the genre links are rewritten to genreIDs.
func (r *titleRepository) Update(ctx context.Context, title *models.Title, genreIDs []int64, replaceGenres bool) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&models.Title{}).Where("id = ?", title.ID).Updates(map[string]any{
			"name":        title.Name,
			"year":        title.Year,
			"description": title.Description,
			"category_id": title.CategoryID,
		})
		if result.Error != nil {
			return translate(result.Error)
		}
		if result.RowsAffected == 0 {
			return ErrNotFound
		}
		if !replaceGenres {
			return nil
		}
		if err := tx.Where("title_id = ?", title.ID).Delete(&models.TitleGenre{}).Error; err != nil {
			return err
		}
		return linkGenres(tx, title.ID, genreIDs)
	})
}

func (r *titleRepository) Delete(ctx context.Context, id int64) error {
	result := r.db.WithContext(ctx).Where("id = ?", id).Delete(&models.Title{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func linkGenres(tx *gorm.DB, titleID int64, genreIDs []int64) error {
	if len(genreIDs) == 0 {
		return nil
	}
	seen := make(map[int64]struct{}, len(genreIDs))
	links := make([]models.TitleGenre, 0, len(genreIDs))
	for _, id := range genreIDs {
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		links = append(links, models.TitleGenre{TitleID: titleID, GenreID: id})
	}
	return tx.Create(&links).Error
}
