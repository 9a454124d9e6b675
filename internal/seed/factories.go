package seed

import (
	"context"
	"fmt"
	"strings"
	"time"

	"yamdb/internal/microservices/http-api/models"
	"yamdb/internal/microservices/http-api/repository"

	"github.com/brianvoe/gofakeit/v6"
	"gorm.io/gorm"
)

// factory builds entities from a seeded faker and persists them.
type factory struct {
	db     *gorm.DB
	faker  *gofakeit.Faker
	titles repository.TitleRepository
}

func newFactory(db *gorm.DB, faker *gofakeit.Faker) *factory {
	return &factory{db: db, faker: faker, titles: repository.NewTitleRepository(db)}
}

func (f *factory) createUser(ctx context.Context, n int) (*models.User, error) {
	// the suffix keeps handles unique across runs with the same seed
	username := fmt.Sprintf("%s_%d_%d", f.faker.Username(), n, f.faker.Number(1000, 9999))
	if len(username) > 30 {
		username = username[len(username)-30:]
	}
	bio := f.faker.Sentence(10)
	user := &models.User{
		Username:  &username,
		Email:     strings.ToLower(username) + "@demo.yamdb.local",
		FirstName: f.faker.FirstName(),
		LastName:  f.faker.LastName(),
		Bio:       &bio,
		Role:      models.RoleUser,
		IsActive:  true,
	}
	if err := f.db.WithContext(ctx).Create(user).Error; err != nil {
		return nil, fmt.Errorf("seed user: %w", err)
	}
	return user, nil
}

func (f *factory) createTitle(ctx context.Context, categories []models.Category, genres []models.Genre) (*models.Title, error) {
	name := fmt.Sprintf("The %s %s", capitalize(f.faker.Adjective()), capitalize(f.faker.Noun()))
	description := f.faker.Paragraph(1, 2, 12, " ")
	title := &models.Title{
		Name:        &name,
		Year:        f.faker.Number(1920, time.Now().Year()),
		Description: &description,
	}
	if len(categories) > 0 {
		title.CategoryID = &categories[f.faker.Number(0, len(categories)-1)].ID
	}

	var genreIDs []int64
	if len(genres) > 0 {
		for i := f.faker.Number(1, min(3, len(genres))); i > 0; i-- {
			genreIDs = append(genreIDs, genres[f.faker.Number(0, len(genres)-1)].ID)
		}
	}
	if err := f.titles.Create(ctx, title, genreIDs); err != nil {
		return nil, fmt.Errorf("seed title: %w", err)
	}
	return title, nil
}

func (f *factory) buildReview(titleID int64, authorID string) *models.Review {
	text := f.faker.Paragraph(1, 3, 10, " ")
	return &models.Review{
		TitleID:  titleID,
		AuthorID: authorID,
		Text:     &text,
		Score:    f.faker.Number(1, 10),
	}
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
