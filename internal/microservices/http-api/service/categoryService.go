package service

import (
	"context"
	"errors"

	"yamdb/internal/microservices/http-api/dto"
	"yamdb/internal/microservices/http-api/models"
	"yamdb/internal/microservices/http-api/repository"
)

type CategoryService interface {
	List(ctx context.Context, search string, page, pageSize int) (*dto.Page[dto.CategoryResponse], error)
	Create(ctx context.Context, req dto.CreateCategoryDTO) (*dto.CategoryResponse, error)
	Delete(ctx context.Context, slug string) error
}

type categoryService struct {
	repo repository.CategoryRepository
}

func NewCategoryService(r repository.CategoryRepository) CategoryService {
	return &categoryService{repo: r}
}

func (s *categoryService) List(ctx context.Context, search string, page, pageSize int) (*dto.Page[dto.CategoryResponse], error) {
	list, total, err := s.repo.List(ctx, search, page, pageSize)
	if err != nil {
		return nil, err
	}
	results := make([]dto.CategoryResponse, 0, len(list))
	for _, c := range list {
		results = append(results, dto.CategoryFromModel(c))
	}
	return dto.NewPage(results, total, page, pageSize), nil
}

func (s *categoryService) Create(ctx context.Context, req dto.CreateCategoryDTO) (*dto.CategoryResponse, error) {
	c := &models.Category{Name: trimmed(req.Name), Slug: req.Slug}
	if err := s.repo.Create(ctx, c); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, fieldError("slug", "category with this slug already exists")
		}
		return nil, err
	}
	resp := dto.CategoryFromModel(*c)
	return &resp, nil
}

// Delete removes the category; its titles stay with no category.
func (s *categoryService) Delete(ctx context.Context, slug string) error {
	if err := s.repo.DeleteBySlug(ctx, slug); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return notFound("category")
		}
		return err
	}
	return nil
}
