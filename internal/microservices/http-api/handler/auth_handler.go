package handler

import (
	"net/http"

	"yamdb/internal/microservices/http-api/dto"
	"yamdb/internal/microservices/http-api/service"

	"github.com/gin-gonic/gin"
)

type AuthHandler struct {
	authService service.AuthService
	settings    Settings
}

func NewAuthHandler(authService service.AuthService, settings Settings) *AuthHandler {
	return &AuthHandler{authService: authService, settings: settings}
}

// RequestCode handles POST /auth/code. The response does not reveal whether
// the address was already registered.
func (h *AuthHandler) RequestCode(c *gin.Context) {
	var req dto.CodeRequest
	if err := bindJSON(c, &req); err != nil {
		respondError(c, err)
		return
	}

	ctx, cancel := h.settings.withTimeout(c)
	defer cancel()

	resp, err := h.authService.RequestCode(ctx, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Token handles POST /auth/token.
func (h *AuthHandler) Token(c *gin.Context) {
	var req dto.TokenRequest
	if err := bindJSON(c, &req); err != nil {
		respondError(c, err)
		return
	}

	ctx, cancel := h.settings.withTimeout(c)
	defer cancel()

	resp, err := h.authService.ExchangeCode(ctx, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
