package service

import (
	"context"
	"errors"

	"yamdb/internal/authz"
	"yamdb/internal/metrics"
	"yamdb/internal/microservices/http-api/dto"
	"yamdb/internal/microservices/http-api/models"
	"yamdb/internal/microservices/http-api/repository"
)

// ReviewService manages reviews of a title. Writes go through Authorize first:
// it resolves the title and review (404) and applies the access policy, so the
// caller can validate the body only once access is settled.
type ReviewService interface {
	List(ctx context.Context, titleID int64, page, pageSize int) (*dto.Page[dto.ReviewResponse], error)
	Get(ctx context.Context, titleID, reviewID int64) (*dto.ReviewResponse, error)
	Authorize(ctx context.Context, actor *models.User, titleID, reviewID int64, action authz.Action) (*models.Review, error)
	Create(ctx context.Context, actor *models.User, titleID int64, req dto.CreateReviewDTO) (*dto.ReviewResponse, error)
	Update(ctx context.Context, review *models.Review, req dto.UpdateReviewDTO) (*dto.ReviewResponse, error)
	Delete(ctx context.Context, review *models.Review) error
}

type reviewService struct {
	reviews repository.ReviewRepository
	titles  repository.TitleRepository
	authz   Authorizer
}

func NewReviewService(reviews repository.ReviewRepository, titles repository.TitleRepository, authorizer Authorizer) ReviewService {
	return &reviewService{
		reviews: reviews,
		titles:  titles,
		authz:   authorizer,
	}
}

func (s *reviewService) requireTitle(ctx context.Context, titleID int64) error {
	_, err := s.titles.FindByID(ctx, titleID)
	if errors.Is(err, repository.ErrNotFound) {
		return notFound("title")
	}
	return err
}

func (s *reviewService) find(ctx context.Context, titleID, reviewID int64) (*models.Review, error) {
	review, err := s.reviews.GetByID(ctx, titleID, reviewID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, notFound("review")
	}
	return review, err
}

// List retrieves reviews of a title with pagination
func (s *reviewService) List(ctx context.Context, titleID int64, page, pageSize int) (*dto.Page[dto.ReviewResponse], error) {
	if err := s.requireTitle(ctx, titleID); err != nil {
		return nil, err
	}
	reviews, total, err := s.reviews.GetByTitle(ctx, titleID, page, pageSize)
	if err != nil {
		return nil, err
	}
	results := make([]dto.ReviewResponse, 0, len(reviews))
	for i := range reviews {
		results = append(results, dto.FromModelToReviewResponse(&reviews[i]))
	}
	return dto.NewPage(results, total, page, pageSize), nil
}

func (s *reviewService) Get(ctx context.Context, titleID, reviewID int64) (*dto.ReviewResponse, error) {
	if err := s.requireTitle(ctx, titleID); err != nil {
		return nil, err
	}
	review, err := s.find(ctx, titleID, reviewID)
	if err != nil {
		return nil, err
	}
	resp := dto.FromModelToReviewResponse(review)
	return &resp, nil
}

// Authorize checks access to a review of the title. For create, reviewID is
// ignored and the returned review is nil.
func (s *reviewService) Authorize(ctx context.Context, actor *models.User, titleID, reviewID int64, action authz.Action) (*models.Review, error) {
	if err := s.requireTitle(ctx, titleID); err != nil {
		return nil, err
	}

	req := authz.Request{Resource: authz.ResourceReview, Action: action}
	if actor != nil {
		req.Role = string(actor.EffectiveRole())
	}

	var review *models.Review
	if action != authz.ActionCreate {
		var err error
		if review, err = s.find(ctx, titleID, reviewID); err != nil {
			return nil, err
		}
		req.IsOwner = actor != nil && review.AuthorID == actor.ID
	}

	if err := decisionError(s.authz.Decide(req)); err != nil {
		return nil, err
	}
	return review, nil
}

// Create adds the actor's review. Author and title come from the request context.
func (s *reviewService) Create(ctx context.Context, actor *models.User, titleID int64, req dto.CreateReviewDTO) (*dto.ReviewResponse, error) {
	if _, err := s.Authorize(ctx, actor, titleID, 0, authz.ActionCreate); err != nil {
		return nil, err
	}
	review := &models.Review{
		TitleID:  titleID,
		AuthorID: actor.ID,
		Text:     trimmed(req.Text),
		Score:    req.Score,
	}
	if err := s.reviews.Create(ctx, review); err != nil {
		switch {
		case errors.Is(err, repository.ErrDuplicate):
			return nil, fieldError(NonFieldErrors, "you have already reviewed this title")
		case errors.Is(err, repository.ErrNotFound):
			return nil, notFound("title")
		}
		return nil, err
	}
	metrics.RatingRecomputations.WithLabelValues("create").Inc()

	return s.Get(ctx, titleID, review.ID)
}

// Update edits an authorized review and refreshes the title rating.
func (s *reviewService) Update(ctx context.Context, review *models.Review, req dto.UpdateReviewDTO) (*dto.ReviewResponse, error) {
	if req.Text != nil {
		review.Text = trimmed(req.Text)
	}
	if req.Score != nil {
		review.Score = *req.Score
	}

	if err := s.reviews.Update(ctx, review); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, notFound("review")
		}
		return nil, err
	}
	metrics.RatingRecomputations.WithLabelValues("update").Inc()

	return s.Get(ctx, review.TitleID, review.ID)
}

// Delete removes an authorized review and refreshes the title rating.
func (s *reviewService) Delete(ctx context.Context, review *models.Review) error {
	if err := s.reviews.Delete(ctx, review.TitleID, review.ID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return notFound("review")
		}
		return err
	}
	metrics.RatingRecomputations.WithLabelValues("delete").Inc()
	return nil
}
