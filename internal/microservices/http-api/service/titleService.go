package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"yamdb/internal/microservices/http-api/dto"
	"yamdb/internal/microservices/http-api/models"
	"yamdb/internal/microservices/http-api/repository"
)

type TitleService interface {
	List(ctx context.Context, filter repository.TitleFilter, page, pageSize int) (*dto.Page[dto.TitleResponse], error)
	Get(ctx context.Context, id int64) (*dto.TitleResponse, error)
	Create(ctx context.Context, req dto.TitleWriteRequest) (*dto.TitleResponse, error)
	Update(ctx context.Context, id int64, req dto.TitleUpdateRequest) (*dto.TitleResponse, error)
	Delete(ctx context.Context, id int64) error
}

type titleService struct {
	titles     repository.TitleRepository
	categories repository.CategoryRepository
	genres     repository.GenreRepository
	now        func() time.Time
}

func NewTitleService(
	titles repository.TitleRepository,
	categories repository.CategoryRepository,
	genres repository.GenreRepository,
) TitleService {
	return &titleService{
		titles:     titles,
		categories: categories,
		genres:     genres,
		now:        time.Now,
	}
}

func (s *titleService) List(ctx context.Context, filter repository.TitleFilter, page, pageSize int) (*dto.Page[dto.TitleResponse], error) {
	titles, total, err := s.titles.List(ctx, filter, page, pageSize)
	if err != nil {
		return nil, err
	}
	results := make([]dto.TitleResponse, 0, len(titles))
	for i := range titles {
		results = append(results, dto.FromModelToTitleResponse(&titles[i]))
	}
	return dto.NewPage(results, total, page, pageSize), nil
}

func (s *titleService) Get(ctx context.Context, id int64) (*dto.TitleResponse, error) {
	title, err := s.titles.FindByID(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, notFound("title")
	}
	if err != nil {
		return nil, err
	}
	resp := dto.FromModelToTitleResponse(title)
	return &resp, nil
}

func (s *titleService) Create(ctx context.Context, req dto.TitleWriteRequest) (*dto.TitleResponse, error) {
	fields := map[string]string{}
	if msg := s.checkYear(req.Year); msg != "" {
		fields["year"] = msg
	}

	category, msg, err := s.resolveCategory(ctx, req.Category)
	if err != nil {
		return nil, err
	}
	if msg != "" {
		fields["category"] = msg
	}
	genreIDs, msg, err := s.resolveGenres(ctx, req.Genre)
	if err != nil {
		return nil, err
	}
	if msg != "" {
		fields["genre"] = msg
	}
	if len(fields) > 0 {
		return nil, &ValidationError{Fields: fields}
	}

	title := &models.Title{
		Name:        trimmed(req.Name),
		Year:        req.Year,
		Description: req.Description,
		CategoryID:  &category.ID,
	}
	if err := s.titles.Create(ctx, title, genreIDs); err != nil {
		return nil, err
	}
	return s.Get(ctx, title.ID)
}

func (s *titleService) Update(ctx context.Context, id int64, req dto.TitleUpdateRequest) (*dto.TitleResponse, error) {
	title, err := s.titles.FindByID(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, notFound("title")
	}
	if err != nil {
		return nil, err
	}

	fields := map[string]string{}
	if req.Name != nil {
		title.Name = trimmed(req.Name)
	}
	if req.Year != nil {
		if msg := s.checkYear(*req.Year); msg != "" {
			fields["year"] = msg
		}
		title.Year = *req.Year
	}
	if req.Description != nil {
		title.Description = req.Description
	}
	if req.Category != nil {
		category, msg, err := s.resolveCategory(ctx, *req.Category)
		if err != nil {
			return nil, err
		}
		if msg != "" {
			fields["category"] = msg
		} else {
			title.CategoryID = &category.ID
		}
	}

	var genreIDs []int64
	replaceGenres := req.Genre != nil
	if replaceGenres {
		ids, msg, err := s.resolveGenres(ctx, req.Genre)
		if err != nil {
			return nil, err
		}
		if msg != "" {
			fields["genre"] = msg
		}
		genreIDs = ids
	}
	if len(fields) > 0 {
		return nil, &ValidationError{Fields: fields}
	}

	if err := s.titles.Update(ctx, title, genreIDs, replaceGenres); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, notFound("title")
		}
		return nil, err
	}
	return s.Get(ctx, id)
}

func (s *titleService) Delete(ctx context.Context, id int64) error {
	if err := s.titles.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return notFound("title")
		}
		return err
	}
	return nil
}

func (s *titleService) checkYear(year int) string {
	if year > s.now().Year() {
		return fmt.Sprintf("year cannot be later than %d", s.now().Year())
	}
	return ""
}

// resolveCategory returns a validation message instead of an error for unknown slugs.
func (s *titleService) resolveCategory(ctx context.Context, slug string) (*models.Category, string, error) {
	category, err := s.categories.FindBySlug(ctx, slug)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, unknownSlug(slug), nil
	}
	if err != nil {
		return nil, "", err
	}
	return category, "", nil
}

func (s *titleService) resolveGenres(ctx context.Context, slugs []string) ([]int64, string, error) {
	if len(slugs) == 0 {
		return nil, "this list may not be empty", nil
	}
	genres, err := s.genres.FindBySlugs(ctx, slugs)
	if err != nil {
		return nil, "", err
	}
	bySlug := make(map[string]int64, len(genres))
	for _, g := range genres {
		bySlug[g.Slug] = g.ID
	}
	ids := make([]int64, 0, len(slugs))
	for _, slug := range slugs {
		id, ok := bySlug[slug]
		if !ok {
			return nil, unknownSlug(slug), nil
		}
		ids = append(ids, id)
	}
	return ids, "", nil
}
