package handler

import (
	"context"
	"fmt"
	"net/http"
	"testing"

	"yamdb/internal/authz"
	"yamdb/internal/microservices/http-api/dto"
	"yamdb/internal/microservices/http-api/models"
	"yamdb/internal/microservices/http-api/service"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type MockReviewService struct {
	mock.Mock
}

func (m *MockReviewService) List(ctx context.Context, titleID int64, page, pageSize int) (*dto.Page[dto.ReviewResponse], error) {
	args := m.Called(ctx, titleID, page, pageSize)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.Page[dto.ReviewResponse]), args.Error(1)
}

func (m *MockReviewService) Get(ctx context.Context, titleID, reviewID int64) (*dto.ReviewResponse, error) {
	args := m.Called(ctx, titleID, reviewID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.ReviewResponse), args.Error(1)
}

func (m *MockReviewService) Authorize(ctx context.Context, actor *models.User, titleID, reviewID int64, action authz.Action) (*models.Review, error) {
	args := m.Called(ctx, actor, titleID, reviewID, action)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Review), args.Error(1)
}

func (m *MockReviewService) Create(ctx context.Context, actor *models.User, titleID int64, req dto.CreateReviewDTO) (*dto.ReviewResponse, error) {
	args := m.Called(ctx, actor, titleID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.ReviewResponse), args.Error(1)
}

func (m *MockReviewService) Update(ctx context.Context, review *models.Review, req dto.UpdateReviewDTO) (*dto.ReviewResponse, error) {
	args := m.Called(ctx, review, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.ReviewResponse), args.Error(1)
}

func (m *MockReviewService) Delete(ctx context.Context, review *models.Review) error {
	return m.Called(ctx, review).Error(0)
}

func reviewRouter(svc service.ReviewService, user *models.User) *gin.Engine {
	h := NewReviewHandler(svc, testSettings)
	router := setupRouter()
	router.Use(asUser(user))
	reviews := router.Group("/titles/:title_id/reviews")
	reviews.GET("", h.List)
	reviews.POST("", h.Create)
	reviews.GET("/:review_id", h.Get)
	reviews.PATCH("/:review_id", h.Update)
	reviews.DELETE("/:review_id", h.Delete)
	return router
}

func TestReviewCreate_MissingTitleBeforeBodyValidation(t *testing.T) {
	svc := new(MockReviewService)
	user := &models.User{ID: "u1", Role: models.RoleUser}
	svc.On("Authorize", mock.Anything, user, int64(9), int64(0), authz.ActionCreate).
		Return(nil, fmt.Errorf("title %w", service.ErrNotFound))

	w := doJSON(reviewRouter(svc, user), http.MethodPost, "/titles/9/reviews", gin.H{"score": 42})

	assert.Equal(t, http.StatusNotFound, w.Code)
	svc.AssertNotCalled(t, "Create", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestReviewCreate_AnonymousBeforeBodyValidation(t *testing.T) {
	svc := new(MockReviewService)
	svc.On("Authorize", mock.Anything, (*models.User)(nil), int64(1), int64(0), authz.ActionCreate).
		Return(nil, service.ErrUnauthorized)

	w := doJSON(reviewRouter(svc, nil), http.MethodPost, "/titles/1/reviews", gin.H{})

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestReviewCreate_InvalidScore(t *testing.T) {
	svc := new(MockReviewService)
	user := &models.User{ID: "u1", Role: models.RoleUser}
	svc.On("Authorize", mock.Anything, user, int64(1), int64(0), authz.ActionCreate).Return(nil, nil)

	w := doJSON(reviewRouter(svc, user), http.MethodPost, "/titles/1/reviews", gin.H{"text": "fine", "score": 11})

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, decodeError(t, w).Fields, "score")
	svc.AssertNotCalled(t, "Create", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestReviewCreate_Success(t *testing.T) {
	svc := new(MockReviewService)
	user := &models.User{ID: "u1", Role: models.RoleUser}
	text := "great"
	req := dto.CreateReviewDTO{Text: &text, Score: 8}
	svc.On("Authorize", mock.Anything, user, int64(1), int64(0), authz.ActionCreate).Return(nil, nil)
	svc.On("Create", mock.Anything, user, int64(1), req).Return(&dto.ReviewResponse{ID: 3, Text: &text, Score: 8}, nil)

	w := doJSON(reviewRouter(svc, user), http.MethodPost, "/titles/1/reviews", req)

	assert.Equal(t, http.StatusCreated, w.Code)
	svc.AssertExpectations(t)
}

func TestReviewCreate_ScoreOnly(t *testing.T) {
	svc := new(MockReviewService)
	user := &models.User{ID: "u1", Role: models.RoleUser}
	svc.On("Authorize", mock.Anything, user, int64(1), int64(0), authz.ActionCreate).Return(nil, nil)
	svc.On("Create", mock.Anything, user, int64(1), dto.CreateReviewDTO{Score: 6}).
		Return(&dto.ReviewResponse{ID: 4, Score: 6}, nil)

	w := doJSON(reviewRouter(svc, user), http.MethodPost, "/titles/1/reviews", gin.H{"score": 6})

	assert.Equal(t, http.StatusCreated, w.Code)
	assert.JSONEq(t, `{"id":4,"title":null,"author":null,"text":null,"score":6,"pub_date":"0001-01-01T00:00:00Z"}`, w.Body.String())
	svc.AssertExpectations(t)
}

func TestReviewCreate_Duplicate(t *testing.T) {
	svc := new(MockReviewService)
	user := &models.User{ID: "u1", Role: models.RoleUser}
	req := dto.CreateReviewDTO{Score: 5}
	svc.On("Authorize", mock.Anything, user, int64(1), int64(0), authz.ActionCreate).Return(nil, nil)
	svc.On("Create", mock.Anything, user, int64(1), req).Return(nil, &service.ValidationError{
		Fields: map[string]string{service.NonFieldErrors: "you have already reviewed this title"},
	})

	w := doJSON(reviewRouter(svc, user), http.MethodPost, "/titles/1/reviews", req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, decodeError(t, w).Fields, service.NonFieldErrors)
}

func TestReviewDelete_ForbiddenForStranger(t *testing.T) {
	svc := new(MockReviewService)
	stranger := &models.User{ID: "u2", Role: models.RoleUser}
	svc.On("Authorize", mock.Anything, stranger, int64(1), int64(5), authz.ActionDelete).Return(nil, service.ErrForbidden)

	w := doJSON(reviewRouter(svc, stranger), http.MethodDelete, "/titles/1/reviews/5", nil)

	assert.Equal(t, http.StatusForbidden, w.Code)
	svc.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
}

func TestReviewDelete_Moderator(t *testing.T) {
	svc := new(MockReviewService)
	moderator := &models.User{ID: "m1", Role: models.RoleModerator}
	review := &models.Review{ID: 5, TitleID: 1, AuthorID: "u1"}
	svc.On("Authorize", mock.Anything, moderator, int64(1), int64(5), authz.ActionDelete).Return(review, nil)
	svc.On("Delete", mock.Anything, review).Return(nil)

	w := doJSON(reviewRouter(svc, moderator), http.MethodDelete, "/titles/1/reviews/5", nil)

	assert.Equal(t, http.StatusNoContent, w.Code)
	svc.AssertExpectations(t)
}

func TestReviewUpdate_PassesAuthorizedReview(t *testing.T) {
	svc := new(MockReviewService)
	author := &models.User{ID: "u1", Role: models.RoleUser}
	review := &models.Review{ID: 5, TitleID: 1, AuthorID: "u1"}
	score := 9
	req := dto.UpdateReviewDTO{Score: &score}
	svc.On("Authorize", mock.Anything, author, int64(1), int64(5), authz.ActionUpdate).Return(review, nil)
	svc.On("Update", mock.Anything, review, req).Return(&dto.ReviewResponse{ID: 5, Score: 9}, nil)

	w := doJSON(reviewRouter(svc, author), http.MethodPatch, "/titles/1/reviews/5", gin.H{"score": 9})

	assert.Equal(t, http.StatusOK, w.Code)
	svc.AssertExpectations(t)
}

func TestReviewGet_NonNumericIDIsNotFound(t *testing.T) {
	svc := new(MockReviewService)

	w := doJSON(reviewRouter(svc, nil), http.MethodGet, "/titles/abc/reviews/1", nil)

	assert.Equal(t, http.StatusNotFound, w.Code)
	svc.AssertNotCalled(t, "Get", mock.Anything, mock.Anything, mock.Anything)
}

func TestReviewList_Envelope(t *testing.T) {
	svc := new(MockReviewService)
	page := dto.NewPage([]dto.ReviewResponse{{ID: 1}, {ID: 2}}, 3, 1, 2)
	svc.On("List", mock.Anything, int64(1), 1, 2).Return(page, nil)

	w := doJSON(reviewRouter(svc, nil), http.MethodGet, "/titles/1/reviews?page_size=2", nil)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"count":3`)
	assert.Contains(t, w.Body.String(), `"previous":null`)
	assert.Contains(t, w.Body.String(), "page=2")
}
