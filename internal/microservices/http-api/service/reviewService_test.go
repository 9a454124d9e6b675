package service

import (
	"context"
	"testing"

	"yamdb/internal/authz"
	"yamdb/internal/microservices/http-api/dto"
	"yamdb/internal/microservices/http-api/models"
	"yamdb/internal/microservices/http-api/repository"
	"yamdb/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"gorm.io/gorm"
)

type ReviewServiceSuite struct {
	suite.Suite
	db        *gorm.DB
	reviews   ReviewService
	comments  CommentService
	title     *models.Title
	author    *models.User
	stranger  *models.User
	moderator *models.User
	admin     *models.User
}

func (s *ReviewServiceSuite) SetupTest() {
	t := s.T()
	s.db = testutil.NewTestDB(t)
	enforcer, err := authz.NewEnforcer()
	require.NoError(t, err)

	reviewRepo := repository.NewReviewRepository(s.db)
	titleRepo := repository.NewTitleRepository(s.db)
	s.reviews = NewReviewService(reviewRepo, titleRepo, enforcer)
	s.comments = NewCommentService(repository.NewCommentRepository(s.db), reviewRepo, titleRepo, enforcer)

	description := "a film about a zone"
	s.title = testutil.CreateTitle(t, s.db, "Stalker", 1979, nil)
	require.NoError(t, s.db.Model(s.title).Update("description", description).Error)

	s.author = testutil.CreateUser(t, s.db, "author", models.RoleUser)
	s.stranger = testutil.CreateUser(t, s.db, "stranger", models.RoleUser)
	s.moderator = testutil.CreateUser(t, s.db, "mod", models.RoleModerator)
	s.admin = testutil.CreateUser(t, s.db, "root", models.RoleUser)
	require.NoError(t, s.db.Model(s.admin).Update("is_superuser", true).Error)
	s.admin.IsSuperuser = true
}

func (s *ReviewServiceSuite) createReview(actor *models.User, score int) *dto.ReviewResponse {
	resp, err := s.reviews.Create(context.Background(), actor, s.title.ID, dto.CreateReviewDTO{Text: strPtr("text"), Score: score})
	s.Require().NoError(err)
	return resp
}

func (s *ReviewServiceSuite) TestCreateShowsAuthorAndTitle() {
	resp := s.createReview(s.author, 8)
	s.Require().NotNil(resp.Author)
	s.Equal("author", *resp.Author)
	s.Require().NotNil(resp.Title)
	s.Equal("a film about a zone", *resp.Title)
	s.Equal(8, resp.Score)
}

func (s *ReviewServiceSuite) TestTextIsOptional() {
	ctx := context.Background()
	resp, err := s.reviews.Create(ctx, s.author, s.title.ID, dto.CreateReviewDTO{Score: 9})
	s.Require().NoError(err)
	s.Nil(resp.Text)

	review, err := s.reviews.Authorize(ctx, s.author, s.title.ID, resp.ID, authz.ActionUpdate)
	s.Require().NoError(err)
	resp, err = s.reviews.Update(ctx, review, dto.UpdateReviewDTO{Text: strPtr(" on reflection, a masterpiece ")})
	s.Require().NoError(err)
	s.Equal(strPtr("on reflection, a masterpiece"), resp.Text)
	s.Equal(9, resp.Score)
}

func (s *ReviewServiceSuite) TestSecondReviewIsRejected() {
	s.createReview(s.author, 8)

	_, err := s.reviews.Create(context.Background(), s.author, s.title.ID, dto.CreateReviewDTO{Text: strPtr("again"), Score: 2})
	var verr *ValidationError
	s.Require().ErrorAs(err, &verr)
	s.Contains(verr.Fields, NonFieldErrors)
}

func (s *ReviewServiceSuite) TestAnonymousCannotCreate() {
	_, err := s.reviews.Create(context.Background(), nil, s.title.ID, dto.CreateReviewDTO{Text: strPtr("x"), Score: 5})
	s.ErrorIs(err, ErrUnauthorized)
}

func (s *ReviewServiceSuite) TestMissingTitleComesFirst() {
	_, err := s.reviews.Authorize(context.Background(), nil, 999, 0, authz.ActionCreate)
	s.ErrorIs(err, ErrNotFound)

	_, err = s.reviews.Authorize(context.Background(), s.stranger, s.title.ID, 999, authz.ActionDelete)
	s.ErrorIs(err, ErrNotFound)
}

func (s *ReviewServiceSuite) TestWritePermissions() {
	created := s.createReview(s.author, 6)
	ctx := context.Background()

	_, err := s.reviews.Authorize(ctx, s.stranger, s.title.ID, created.ID, authz.ActionDelete)
	s.ErrorIs(err, ErrForbidden)

	_, err = s.reviews.Authorize(ctx, nil, s.title.ID, created.ID, authz.ActionUpdate)
	s.ErrorIs(err, ErrUnauthorized)

	for _, actor := range []*models.User{s.author, s.moderator, s.admin} {
		review, err := s.reviews.Authorize(ctx, actor, s.title.ID, created.ID, authz.ActionUpdate)
		s.Require().NoError(err)
		s.Equal(created.ID, review.ID)
	}

	review, err := s.reviews.Authorize(ctx, s.moderator, s.title.ID, created.ID, authz.ActionDelete)
	s.Require().NoError(err)
	s.Require().NoError(s.reviews.Delete(ctx, review))

	_, err = s.reviews.Get(ctx, s.title.ID, created.ID)
	s.ErrorIs(err, ErrNotFound)
}

func (s *ReviewServiceSuite) TestUpdateRefreshesRating() {
	ctx := context.Background()
	created := s.createReview(s.author, 2)
	s.createReview(s.stranger, 4)

	review, err := s.reviews.Authorize(ctx, s.author, s.title.ID, created.ID, authz.ActionUpdate)
	s.Require().NoError(err)
	score := 10
	_, err = s.reviews.Update(ctx, review, dto.UpdateReviewDTO{Score: &score})
	s.Require().NoError(err)

	var title models.Title
	s.Require().NoError(s.db.First(&title, s.title.ID).Error)
	s.Require().NotNil(title.Rating)
	s.InDelta(7.0, *title.Rating, 1e-9)
}

func (s *ReviewServiceSuite) TestCommentsFollowReviewRules() {
	ctx := context.Background()
	review := s.createReview(s.author, 7)

	created, err := s.comments.Create(ctx, s.stranger, s.title.ID, review.ID, dto.CommentDTO{Text: "nice"})
	s.Require().NoError(err)
	s.Equal("stranger", *created.Author)

	_, err = s.comments.Authorize(ctx, s.author, s.title.ID, review.ID, created.ID, authz.ActionUpdate)
	s.ErrorIs(err, ErrForbidden)

	comment, err := s.comments.Authorize(ctx, s.stranger, s.title.ID, review.ID, created.ID, authz.ActionUpdate)
	s.Require().NoError(err)
	updated, err := s.comments.Update(ctx, comment, dto.CommentDTO{Text: "very nice"})
	s.Require().NoError(err)
	s.Equal("very nice", updated.Text)

	// a comment is only reachable under its own review
	_, err = s.comments.Get(ctx, s.title.ID, review.ID+1, created.ID)
	s.ErrorIs(err, ErrNotFound)

	page, err := s.comments.List(ctx, s.title.ID, review.ID, 1, 10)
	s.Require().NoError(err)
	s.Equal(int64(1), page.Count)
}

func TestReviewServiceSuite(t *testing.T) {
	suite.Run(t, new(ReviewServiceSuite))
}

func TestDecisionError(t *testing.T) {
	assert.NoError(t, decisionError(authz.Allow))
	assert.ErrorIs(t, decisionError(authz.Unauthorized), ErrUnauthorized)
	assert.ErrorIs(t, decisionError(authz.Forbidden), ErrForbidden)
}
