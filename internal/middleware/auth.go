package middleware

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/thereayou/voxus/internal/coordinator"
	"github.com/thereayou/voxus/pkg/auth"
)

const (
	UserIDKey   = "userID"
	UsernameKey = "username"
	TokenKey    = "token"
)

// TokenBlacklist - хранилище отозванных токенов
type TokenBlacklist interface {
	IsRevoked(ctx context.Context, token string) (bool, error)
}

// AuthMiddleware проверяет JWT токен. Для WebSocket токен можно передать
// параметром ?token=, браузер не умеет ставить заголовки при upgrade.
func AuthMiddleware(jwtManager *auth.JWTManager, blacklist TokenBlacklist) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := c.Query("token")
		if token == "" {
			var err error
			token, err = auth.ExtractTokenFromHeader(c.Request)
			if err != nil {
				c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing or invalid token"})
				return
			}
		}

		// Проверяем, не в черном списке ли токен
		revoked, err := blacklist.IsRevoked(c.Request.Context(), token)
		if err != nil || revoked {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "token is blacklisted"})
			return
		}

		claims, err := jwtManager.Verify(token)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			return
		}

		c.Set(UserIDKey, claims.Subject)
		c.Set(UsernameKey, claims.Username)
		c.Set(TokenKey, token)
		c.Next()
	}
}

// CurrentUser возвращает пользователя, проверенного AuthMiddleware
func CurrentUser(c *gin.Context) coordinator.User {
	return coordinator.User{
		ID:       c.GetString(UserIDKey),
		Username: c.GetString(UsernameKey),
	}
}
