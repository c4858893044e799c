package middleware

import (
	"strings"

	"gigmarket_backend/internal/auth"
	"gigmarket_backend/internal/logger"
	"gigmarket_backend/pkg/apperrors"
	"gigmarket_backend/pkg/contextkeys"

	"github.com/gin-gonic/gin"
)

// AuthMiddleware проверяет Bearer токен и кладет CallerContext в gin.Context.
// userID и role дублируются отдельными ключами.
func AuthMiddleware(tokens *auth.TokenManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenStr, ok := BearerToken(c.GetHeader("Authorization"))
		if !ok {
			apperrors.HandleError(c, apperrors.ErrNoToken)
			return
		}

		claims, err := tokens.ValidateToken(tokenStr)
		if err != nil {
			apperrors.HandleError(c, apperrors.ErrInvalidToken)
			return
		}

		caller := claims.Caller()
		c.Set(contextkeys.CallerKey, caller)
		c.Set("userID", caller.UserID)
		c.Set("role", caller.Role)
		c.Request = c.Request.WithContext(logger.WithUserID(c.Request.Context(), caller.UserID))

		c.Next()
	}
}

// BearerToken достает токен из заголовка "Bearer <token>"
func BearerToken(header string) (string, bool) {
	const prefix = "Bearer "
	if !strings.HasPrefix(header, prefix) {
		return "", false
	}
	token := strings.TrimSpace(strings.TrimPrefix(header, prefix))
	return token, token != ""
}

// GetCaller извлекает CallerContext, установленный AuthMiddleware
func GetCaller(c *gin.Context) (auth.CallerContext, bool) {
	val, exists := c.Get(contextkeys.CallerKey)
	if !exists {
		return auth.CallerContext{}, false
	}
	caller, ok := val.(auth.CallerContext)
	return caller, ok && caller.UserID != ""
}
