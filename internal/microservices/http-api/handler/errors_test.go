package handler

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"yamdb/internal/microservices/http-api/service"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func TestRespondErrorStatus(t *testing.T) {
	tests := []struct {
		err    error
		status int
	}{
		{&service.ValidationError{Fields: map[string]string{"slug": "taken"}}, http.StatusBadRequest},
		{fmt.Errorf("title %w", service.ErrNotFound), http.StatusNotFound},
		{service.ErrInvalidCode, http.StatusBadRequest},
		{service.ErrUnauthorized, http.StatusUnauthorized},
		{service.ErrInactiveUser, http.StatusUnauthorized},
		{service.ErrForbidden, http.StatusForbidden},
		{fmt.Errorf("%w: invalid page", errBadRequest), http.StatusBadRequest},
		{errors.New("connection reset"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.err.Error(), func(t *testing.T) {
			gin.SetMode(gin.TestMode)
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)

			respondError(c, tt.err)
			assert.Equal(t, tt.status, w.Code)
		})
	}
}

func TestRespondErrorHidesInternalDetail(t *testing.T) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	respondError(c, errors.New("pq: password authentication failed"))

	assert.NotContains(t, w.Body.String(), "password")
}

func TestPaginationParams(t *testing.T) {
	gin.SetMode(gin.TestMode)
	settings := Settings{PageSize: 10, MaxPageSize: 50}

	tests := []struct {
		query    string
		page     int
		pageSize int
		wantErr  bool
	}{
		{"", 1, 10, false},
		{"page=3", 3, 10, false},
		{"page=2&page_size=5", 2, 5, false},
		{"page_size=500", 1, 50, false},
		{"page=0", 0, 0, true},
		{"page=abc", 0, 0, true},
		{"page_size=-1", 0, 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			c, _ := gin.CreateTestContext(httptest.NewRecorder())
			c.Request = httptest.NewRequest(http.MethodGet, "/titles?"+tt.query, nil)

			page, pageSize, err := settings.pagination(c)
			if tt.wantErr {
				assert.ErrorIs(t, err, errBadRequest)
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, tt.page, page)
			assert.Equal(t, tt.pageSize, pageSize)
		})
	}
}
