package handler

import (
	"net/http"

	"yamdb/internal/microservices/http-api/dto"
	"yamdb/internal/microservices/http-api/service"

	"github.com/gin-gonic/gin"
)

type GenreHandler struct {
	svc      service.GenreService
	settings Settings
}

func NewGenreHandler(svc service.GenreService, settings Settings) *GenreHandler {
	return &GenreHandler{svc: svc, settings: settings}
}

// List handles GET /genres?search= (matches name or slug)
func (h *GenreHandler) List(c *gin.Context) {
	page, pageSize, err := h.settings.pagination(c)
	if err != nil {
		respondError(c, err)
		return
	}

	ctx, cancel := h.settings.withTimeout(c)
	defer cancel()

	result, err := h.svc.List(ctx, c.Query("search"), page, pageSize)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result.Envelope(c.Request.URL))
}

func (h *GenreHandler) Create(c *gin.Context) {
	var in dto.CreateGenreDTO
	if err := bindJSON(c, &in); err != nil {
		respondError(c, err)
		return
	}

	ctx, cancel := h.settings.withTimeout(c)
	defer cancel()

	genre, err := h.svc.Create(ctx, in)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, genre)
}

// Delete handles DELETE /genres/:slug
func (h *GenreHandler) Delete(c *gin.Context) {
	ctx, cancel := h.settings.withTimeout(c)
	defer cancel()

	if err := h.svc.Delete(ctx, c.Param("slug")); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
