package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/thereayou/voxus/internal/middleware"
	"github.com/thereayou/voxus/pkg/auth"
)

// TokenRevoker отзывает токены до их истечения
type TokenRevoker interface {
	Revoke(ctx context.Context, token string, until time.Time) error
}

// AuthHandler - выдачей токенов занимается внешний сервис, здесь только выход
type AuthHandler struct {
	jwtManager *auth.JWTManager
	revoker    TokenRevoker
}

func NewAuthHandler(jwtMgr *auth.JWTManager, revoker TokenRevoker) *AuthHandler {
	return &AuthHandler{jwtManager: jwtMgr, revoker: revoker}
}

// Logout ставит токен в черный список до истечения
func (h *AuthHandler) Logout(c *gin.Context) {
	rawToken := c.GetString(middleware.TokenKey)

	exp, err := h.jwtManager.Expiry(rawToken)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
		return
	}

	if err := h.revoker.Revoke(c.Request.Context(), rawToken, exp); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not revoke token"})
		return
	}

	c.Status(http.StatusOK)
}
