// Package testutil holds shared fixtures for package tests.
package testutil

import (
	"fmt"
	"io"
	"log/slog"
	"testing"

	"yamdb/database"
	"yamdb/internal/microservices/http-api/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// NewTestDB returns a migrated in-memory SQLite database private to the test.
func NewTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared&_foreign_keys=on", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	// one connection keeps the shared-cache database alive and serialises writers
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	require.NoError(t, db.Exec("PRAGMA foreign_keys = ON").Error)
	require.NoError(t, database.Migrate(db, DiscardLogger()))
	return db
}

// DiscardLogger is a slog logger that drops everything.
func DiscardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// CreateUser inserts a user with the given username and role.
func CreateUser(t *testing.T, db *gorm.DB, username string, role models.Role) *models.User {
	t.Helper()
	name := username
	user := &models.User{
		Username: &name,
		Email:    username + "@example.com",
		Role:     role,
		IsActive: true,
	}
	require.NoError(t, db.Create(user).Error)
	return user
}

// CreateCategory inserts a category named after its slug.
func CreateCategory(t *testing.T, db *gorm.DB, slug string) *models.Category {
	t.Helper()
	c := &models.Category{Name: &slug, Slug: slug}
	require.NoError(t, db.Create(c).Error)
	return c
}

// CreateGenre inserts a genre named after its slug.
func CreateGenre(t *testing.T, db *gorm.DB, slug string) *models.Genre {
	t.Helper()
	g := &models.Genre{Name: &slug, Slug: slug}
	require.NoError(t, db.Create(g).Error)
	return g
}

// CreateTitle inserts a title linked to the category and genres.
func CreateTitle(t *testing.T, db *gorm.DB, name string, year int, category *models.Category, genres ...*models.Genre) *models.Title {
	t.Helper()
	title := &models.Title{Name: &name, Year: year}
	if category != nil {
		title.CategoryID = &category.ID
	}
	require.NoError(t, db.Omit("Genres", "Category").Create(title).Error)
	for _, g := range genres {
		require.NoError(t, db.Create(&models.TitleGenre{TitleID: title.ID, GenreID: g.ID}).Error)
	}
	return title
}

// Ptr returns a pointer to v.
func Ptr[T any](v T) *T {
	return &v
}
