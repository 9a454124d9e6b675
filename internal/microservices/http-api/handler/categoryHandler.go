package handler

import (
	"net/http"

	"yamdb/internal/microservices/http-api/dto"
	"yamdb/internal/microservices/http-api/service"

	"github.com/gin-gonic/gin"
)

type CategoryHandler struct {
	svc      service.CategoryService
	settings Settings
}

func NewCategoryHandler(svc service.CategoryService, settings Settings) *CategoryHandler {
	return &CategoryHandler{svc: svc, settings: settings}
}

// List handles GET /categories?search= (matches name)
func (h *CategoryHandler) List(c *gin.Context) {
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

func (h *CategoryHandler) Create(c *gin.Context) {
	var in dto.CreateCategoryDTO
	if err := bindJSON(c, &in); err != nil {
		respondError(c, err)
		return
	}

	ctx, cancel := h.settings.withTimeout(c)
	defer cancel()

	category, err := h.svc.Create(ctx, in)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, category)
}

// Delete handles DELETE /categories/:slug
func (h *CategoryHandler) Delete(c *gin.Context) {
	ctx, cancel := h.settings.withTimeout(c)
	defer cancel()

	if err := h.svc.Delete(ctx, c.Param("slug")); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
