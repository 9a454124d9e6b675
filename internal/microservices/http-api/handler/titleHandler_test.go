package handler

import (
	"context"
	"net/http"
	"testing"

	"yamdb/internal/microservices/http-api/dto"
	"yamdb/internal/microservices/http-api/repository"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type MockTitleService struct {
	mock.Mock
}

func (m *MockTitleService) List(ctx context.Context, filter repository.TitleFilter, page, pageSize int) (*dto.Page[dto.TitleResponse], error) {
	args := m.Called(ctx, filter, page, pageSize)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.Page[dto.TitleResponse]), args.Error(1)
}

func (m *MockTitleService) Get(ctx context.Context, id int64) (*dto.TitleResponse, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.TitleResponse), args.Error(1)
}

func (m *MockTitleService) Create(ctx context.Context, req dto.TitleWriteRequest) (*dto.TitleResponse, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.TitleResponse), args.Error(1)
}

func (m *MockTitleService) Update(ctx context.Context, id int64, req dto.TitleUpdateRequest) (*dto.TitleResponse, error) {
	args := m.Called(ctx, id, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.TitleResponse), args.Error(1)
}

func (m *MockTitleService) Delete(ctx context.Context, id int64) error {
	return m.Called(ctx, id).Error(0)
}

func titleRouter(svc *MockTitleService) *gin.Engine {
	h := NewTitleHandler(svc, testSettings)
	router := setupRouter()
	router.GET("/titles", h.List)
	router.POST("/titles", h.Create)
	router.PATCH("/titles/:title_id", h.Update)
	return router
}

func TestTitleList_PassesFilters(t *testing.T) {
	svc := new(MockTitleService)
	filter := repository.TitleFilter{Year: 1999, Genre: "drama", Category: "films", Name: "matrix"}
	svc.On("List", mock.Anything, filter, 1, 10).Return(dto.NewPage[dto.TitleResponse](nil, 0, 1, 10), nil)

	w := doJSON(titleRouter(svc), http.MethodGet, "/titles?year=1999&genre=drama&category=films&name=matrix", nil)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"count":0,"next":null,"previous":null,"results":[]}`, w.Body.String())
	svc.AssertExpectations(t)
}

func TestTitleList_InvalidYear(t *testing.T) {
	svc := new(MockTitleService)

	w := doJSON(titleRouter(svc), http.MethodGet, "/titles?year=nineteen", nil)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, decodeError(t, w).Fields, "year")
}

func TestTitleCreate_ValidatesSlugs(t *testing.T) {
	svc := new(MockTitleService)

	w := doJSON(titleRouter(svc), http.MethodPost, "/titles", gin.H{
		"name":     "Heat",
		"year":     1995,
		"category": "films",
		"genre":    []string{"bad slug!"},
	})

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, decodeError(t, w).Fields, "genre[0]")
	svc.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestTitleCreate_EmptyGenreList(t *testing.T) {
	svc := new(MockTitleService)

	w := doJSON(titleRouter(svc), http.MethodPost, "/titles", gin.H{
		"name":     "Heat",
		"year":     1995,
		"category": "films",
		"genre":    []string{},
	})

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "this list may not be empty", decodeError(t, w).Fields["genre"])
}

func TestTitleUpdate_RatingIsNotWritable(t *testing.T) {
	svc := new(MockTitleService)
	name := "Heat (1995)"
	svc.On("Update", mock.Anything, int64(4), dto.TitleUpdateRequest{Name: &name}).
		Return(&dto.TitleResponse{ID: 4, Name: &name}, nil)

	w := doJSON(titleRouter(svc), http.MethodPatch, "/titles/4", gin.H{"name": name, "rating": 10})

	assert.Equal(t, http.StatusOK, w.Code)
	svc.AssertExpectations(t)
}
