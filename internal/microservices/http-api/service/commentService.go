package service

import (
	"context"
	"errors"
	"strings"

	"yamdb/internal/authz"
	"yamdb/internal/microservices/http-api/dto"
	"yamdb/internal/microservices/http-api/models"
	"yamdb/internal/microservices/http-api/repository"
)

// CommentService manages comments of a review, which itself belongs to a title.
type CommentService interface {
	List(ctx context.Context, titleID, reviewID int64, page, pageSize int) (*dto.Page[dto.CommentResponse], error)
	Get(ctx context.Context, titleID, reviewID, commentID int64) (*dto.CommentResponse, error)
	Authorize(ctx context.Context, actor *models.User, titleID, reviewID, commentID int64, action authz.Action) (*models.Comment, error)
	Create(ctx context.Context, actor *models.User, titleID, reviewID int64, req dto.CommentDTO) (*dto.CommentResponse, error)
	Update(ctx context.Context, comment *models.Comment, req dto.CommentDTO) (*dto.CommentResponse, error)
	Delete(ctx context.Context, comment *models.Comment) error
}

type commentService struct {
	comments repository.CommentRepository
	reviews  repository.ReviewRepository
	titles   repository.TitleRepository
	authz    Authorizer
}

func NewCommentService(
	comments repository.CommentRepository,
	reviews repository.ReviewRepository,
	titles repository.TitleRepository,
	authorizer Authorizer,
) CommentService {
	return &commentService{
		comments: comments,
		reviews:  reviews,
		titles:   titles,
		authz:    authorizer,
	}
}

// requireReview resolves both parents in URL order.
func (s *commentService) requireReview(ctx context.Context, titleID, reviewID int64) error {
	if _, err := s.titles.FindByID(ctx, titleID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return notFound("title")
		}
		return err
	}
	if _, err := s.reviews.GetByID(ctx, titleID, reviewID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return notFound("review")
		}
		return err
	}
	return nil
}

func (s *commentService) find(ctx context.Context, reviewID, commentID int64) (*models.Comment, error) {
	comment, err := s.comments.GetByID(ctx, reviewID, commentID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, notFound("comment")
	}
	return comment, err
}

// List retrieves comments of a review with pagination
func (s *commentService) List(ctx context.Context, titleID, reviewID int64, page, pageSize int) (*dto.Page[dto.CommentResponse], error) {
	if err := s.requireReview(ctx, titleID, reviewID); err != nil {
		return nil, err
	}
	comments, total, err := s.comments.GetByReview(ctx, reviewID, page, pageSize)
	if err != nil {
		return nil, err
	}
	results := make([]dto.CommentResponse, 0, len(comments))
	for i := range comments {
		results = append(results, dto.FromModelToCommentResponse(&comments[i]))
	}
	return dto.NewPage(results, total, page, pageSize), nil
}

// Get retrieves a comment by ID
func (s *commentService) Get(ctx context.Context, titleID, reviewID, commentID int64) (*dto.CommentResponse, error) {
	if err := s.requireReview(ctx, titleID, reviewID); err != nil {
		return nil, err
	}
	comment, err := s.find(ctx, reviewID, commentID)
	if err != nil {
		return nil, err
	}
	resp := dto.FromModelToCommentResponse(comment)
	return &resp, nil
}

// Authorize checks access to a comment of the review. For create, commentID is
// ignored and the returned comment is nil.
func (s *commentService) Authorize(ctx context.Context, actor *models.User, titleID, reviewID, commentID int64, action authz.Action) (*models.Comment, error) {
	if err := s.requireReview(ctx, titleID, reviewID); err != nil {
		return nil, err
	}

	req := authz.Request{Resource: authz.ResourceComment, Action: action}
	if actor != nil {
		req.Role = string(actor.EffectiveRole())
	}

	var comment *models.Comment
	if action != authz.ActionCreate {
		var err error
		if comment, err = s.find(ctx, reviewID, commentID); err != nil {
			return nil, err
		}
		req.IsOwner = actor != nil && comment.AuthorID == actor.ID
	}

	if err := decisionError(s.authz.Decide(req)); err != nil {
		return nil, err
	}
	return comment, nil
}

// Create adds a comment by the actor
func (s *commentService) Create(ctx context.Context, actor *models.User, titleID, reviewID int64, req dto.CommentDTO) (*dto.CommentResponse, error) {
	if _, err := s.Authorize(ctx, actor, titleID, reviewID, 0, authz.ActionCreate); err != nil {
		return nil, err
	}
	if strings.TrimSpace(req.Text) == "" {
		return nil, fieldError("text", "this field may not be blank")
	}

	comment := &models.Comment{
		ReviewID: reviewID,
		AuthorID: actor.ID,
		Text:     req.Text,
	}
	if err := s.comments.Create(ctx, comment); err != nil {
		return nil, err
	}

	// Reload with author data
	created, err := s.find(ctx, reviewID, comment.ID)
	if err != nil {
		return nil, err
	}
	resp := dto.FromModelToCommentResponse(created)
	return &resp, nil
}

// Update changes the text of an authorized comment
func (s *commentService) Update(ctx context.Context, comment *models.Comment, req dto.CommentDTO) (*dto.CommentResponse, error) {
	if strings.TrimSpace(req.Text) == "" {
		return nil, fieldError("text", "this field may not be blank")
	}
	comment.Text = req.Text
	if err := s.comments.Update(ctx, comment); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, notFound("comment")
		}
		return nil, err
	}

	updated, err := s.find(ctx, comment.ReviewID, comment.ID)
	if err != nil {
		return nil, err
	}
	resp := dto.FromModelToCommentResponse(updated)
	return &resp, nil
}

// Delete removes an authorized comment
func (s *commentService) Delete(ctx context.Context, comment *models.Comment) error {
	if err := s.comments.Delete(ctx, comment.ReviewID, comment.ID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return notFound("comment")
		}
		return err
	}
	return nil
}
