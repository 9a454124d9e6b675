package handler

import (
	"net/http"

	"yamdb/internal/authz"
	"yamdb/internal/microservices/http-api/dto"
	"yamdb/internal/microservices/http-api/middleware"
	"yamdb/internal/microservices/http-api/service"

	"github.com/gin-gonic/gin"
)

// CommentHandler serves /titles/:title_id/reviews/:review_id/comments.
type CommentHandler struct {
	commentService service.CommentService
	settings       Settings
}

func NewCommentHandler(commentService service.CommentService, settings Settings) *CommentHandler {
	return &CommentHandler{
		commentService: commentService,
		settings:       settings,
	}
}

// List returns the comments of one review
// GET /titles/:title_id/reviews/:review_id/comments
func (h *CommentHandler) List(c *gin.Context) {
	titleID, reviewID, err := reviewParams(c)
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

	result, err := h.commentService.List(ctx, titleID, reviewID, page, pageSize)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result.Envelope(c.Request.URL))
}

// GetByID retrieves a comment
// GET /titles/:title_id/reviews/:review_id/comments/:comment_id
func (h *CommentHandler) GetByID(c *gin.Context) {
	titleID, reviewID, commentID, err := commentParams(c)
	if err != nil {
		respondError(c, err)
		return
	}

	ctx, cancel := h.settings.withTimeout(c)
	defer cancel()

	comment, err := h.commentService.Get(ctx, titleID, reviewID, commentID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, comment)
}

// Create adds a comment by the current user
// POST /titles/:title_id/reviews/:review_id/comments
func (h *CommentHandler) Create(c *gin.Context) {
	titleID, reviewID, err := reviewParams(c)
	if err != nil {
		respondError(c, err)
		return
	}

	ctx, cancel := h.settings.withTimeout(c)
	defer cancel()

	actor := middleware.CurrentUser(c)
	if _, err := h.commentService.Authorize(ctx, actor, titleID, reviewID, 0, authz.ActionCreate); err != nil {
		respondError(c, err)
		return
	}

	var req dto.CommentDTO
	if err := bindJSON(c, &req); err != nil {
		respondError(c, err)
		return
	}

	comment, err := h.commentService.Create(ctx, actor, titleID, reviewID, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, comment)
}

// Update edits a comment (author, moderator or admin)
// PATCH /titles/:title_id/reviews/:review_id/comments/:comment_id
func (h *CommentHandler) Update(c *gin.Context) {
	titleID, reviewID, commentID, err := commentParams(c)
	if err != nil {
		respondError(c, err)
		return
	}

	ctx, cancel := h.settings.withTimeout(c)
	defer cancel()

	comment, err := h.commentService.Authorize(ctx, middleware.CurrentUser(c), titleID, reviewID, commentID, authz.ActionUpdate)
	if err != nil {
		respondError(c, err)
		return
	}

	var req dto.CommentDTO
	if err := bindJSON(c, &req); err != nil {
		respondError(c, err)
		return
	}

	resp, err := h.commentService.Update(ctx, comment, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Delete removes a comment (author, moderator or admin)
// DELETE /titles/:title_id/reviews/:review_id/comments/:comment_id
func (h *CommentHandler) Delete(c *gin.Context) {
	titleID, reviewID, commentID, err := commentParams(c)
	if err != nil {
		respondError(c, err)
		return
	}

	ctx, cancel := h.settings.withTimeout(c)
	defer cancel()

	comment, err := h.commentService.Authorize(ctx, middleware.CurrentUser(c), titleID, reviewID, commentID, authz.ActionDelete)
	if err != nil {
		respondError(c, err)
		return
	}
	if err := h.commentService.Delete(ctx, comment); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func commentParams(c *gin.Context) (titleID, reviewID, commentID int64, err error) {
	if titleID, reviewID, err = reviewParams(c); err != nil {
		return 0, 0, 0, err
	}
	if commentID, err = idParam(c, "comment_id"); err != nil {
		return 0, 0, 0, err
	}
	return titleID, reviewID, commentID, nil
}
