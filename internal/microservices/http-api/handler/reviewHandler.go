package handler

import (
	"net/http"

	"yamdb/internal/authz"
	"yamdb/internal/microservices/http-api/dto"
	"yamdb/internal/microservices/http-api/middleware"
	"yamdb/internal/microservices/http-api/service"

	"github.com/gin-gonic/gin"
)

// ReviewHandler serves /titles/:title_id/reviews. Writes resolve the title and
// review, then check permission, and only then read the body.
type ReviewHandler struct {
	svc      service.ReviewService
	settings Settings
}

func NewReviewHandler(svc service.ReviewService, settings Settings) *ReviewHandler {
	return &ReviewHandler{svc: svc, settings: settings}
}

func (h *ReviewHandler) List(c *gin.Context) {
	titleID, err := idParam(c, "title_id")
	if err != nil {
		respondError(c, err)
		return
	}
	page, pageSize, err := h.settings.pagination(c)
	if err != nil {
		respondError(c, err)
		return
	}

	ctx, cancel := h.settings.withTimeout(c)
	defer cancel()

	result, err := h.svc.List(ctx, titleID, page, pageSize)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result.Envelope(c.Request.URL))
}

func (h *ReviewHandler) Get(c *gin.Context) {
	titleID, reviewID, err := reviewParams(c)
	if err != nil {
		respondError(c, err)
		return
	}

	ctx, cancel := h.settings.withTimeout(c)
	defer cancel()

	review, err := h.svc.Get(ctx, titleID, reviewID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, review)
}

func (h *ReviewHandler) Create(c *gin.Context) {
	titleID, err := idParam(c, "title_id")
	if err != nil {
		respondError(c, err)
		return
	}

	ctx, cancel := h.settings.withTimeout(c)
	defer cancel()

	actor := middleware.CurrentUser(c)
	if _, err := h.svc.Authorize(ctx, actor, titleID, 0, authz.ActionCreate); err != nil {
		respondError(c, err)
		return
	}

	var req dto.CreateReviewDTO
	if err := bindJSON(c, &req); err != nil {
		respondError(c, err)
		return
	}

	review, err := h.svc.Create(ctx, actor, titleID, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, review)
}

// Update handles PATCH by the author, a moderator or an admin.
func (h *ReviewHandler) Update(c *gin.Context) {
	titleID, reviewID, err := reviewParams(c)
	if err != nil {
		respondError(c, err)
		return
	}

	ctx, cancel := h.settings.withTimeout(c)
	defer cancel()

	review, err := h.svc.Authorize(ctx, middleware.CurrentUser(c), titleID, reviewID, authz.ActionUpdate)
	if err != nil {
		respondError(c, err)
		return
	}

	var req dto.UpdateReviewDTO
	if err := bindJSON(c, &req); err != nil {
		respondError(c, err)
		return
	}

	resp, err := h.svc.Update(ctx, review, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *ReviewHandler) Delete(c *gin.Context) {
	titleID, reviewID, err := reviewParams(c)
	if err != nil {
		respondError(c, err)
		return
	}

	ctx, cancel := h.settings.withTimeout(c)
	defer cancel()

	review, err := h.svc.Authorize(ctx, middleware.CurrentUser(c), titleID, reviewID, authz.ActionDelete)
	if err != nil {
		respondError(c, err)
		return
	}
	if err := h.svc.Delete(ctx, review); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func reviewParams(c *gin.Context) (titleID, reviewID int64, err error) {
	if titleID, err = idParam(c, "title_id"); err != nil {
		return 0, 0, err
	}
	if reviewID, err = idParam(c, "review_id"); err != nil {
		return 0, 0, err
	}
	return titleID, reviewID, nil
}
