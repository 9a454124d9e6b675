package service

import (
	"context"
	"errors"

	"yamdb/internal/microservices/http-api/dto"
	"yamdb/internal/microservices/http-api/models"
	"yamdb/internal/microservices/http-api/repository"
)

type GenreService interface {
	List(ctx context.Context, search string, page, pageSize int) (*dto.Page[dto.GenreResponse], error)
	Create(ctx context.Context, req dto.CreateGenreDTO) (*dto.GenreResponse, error)
	Delete(ctx context.Context, slug string) error
}

type genreService struct {
	repo repository.GenreRepository
}

func NewGenreService(r repository.GenreRepository) GenreService {
	return &genreService{repo: r}
}

func (s *genreService) List(ctx context.Context, search string, page, pageSize int) (*dto.Page[dto.GenreResponse], error) {
	list, total, err := s.repo.List(ctx, search, page, pageSize)
	if err != nil {
		return nil, err
	}
	results := make([]dto.GenreResponse, 0, len(list))
	for _, g := range list {
		results = append(results, dto.GenreFromModel(g))
	}
	return dto.NewPage(results, total, page, pageSize), nil
}

func (s *genreService) Create(ctx context.Context, req dto.CreateGenreDTO) (*dto.GenreResponse, error) {
	g := &models.Genre{Name: trimmed(req.Name), Slug: req.Slug}
	if err := s.repo.Create(ctx, g); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, fieldError("slug", "genre with this slug already exists")
		}
		return nil, err
	}
	resp := dto.GenreFromModel(*g)
	return &resp, nil
}

func (s *genreService) Delete(ctx context.Context, slug string) error {
	if err := s.repo.DeleteBySlug(ctx, slug); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return notFound("genre")
		}
		return err
	}
	return nil
}
