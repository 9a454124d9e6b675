package handler

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"yamdb/internal/microservices/http-api/service"

	"github.com/gin-gonic/gin"
)

// Settings are the list and timeout defaults every handler shares.
type Settings struct {
	PageSize       int
	MaxPageSize    int
	RequestTimeout time.Duration
}

func (s Settings) withTimeout(c *gin.Context) (context.Context, context.CancelFunc) {
	timeout := s.RequestTimeout
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return context.WithTimeout(c.Request.Context(), timeout)
}

// pagination reads page and page_size; page_size is clamped to MaxPageSize.
func (s Settings) pagination(c *gin.Context) (page, pageSize int, err error) {
	page, pageSize = 1, s.PageSize
	if v := c.Query("page"); v != "" {
		if page, err = strconv.Atoi(v); err != nil || page < 1 {
			return 0, 0, fmt.Errorf("%w: invalid page %q", errBadRequest, v)
		}
	}
	if v := c.Query("page_size"); v != "" {
		if pageSize, err = strconv.Atoi(v); err != nil || pageSize < 1 {
			return 0, 0, fmt.Errorf("%w: invalid page_size %q", errBadRequest, v)
		}
	}
	if s.MaxPageSize > 0 && pageSize > s.MaxPageSize {
		pageSize = s.MaxPageSize
	}
	return page, pageSize, nil
}

// idParam parses a positive integer path parameter. Anything else names no resource.
func idParam(c *gin.Context, name string) (int64, error) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("%s %q %w", name, c.Param(name), service.ErrNotFound)
	}
	return id, nil
}
