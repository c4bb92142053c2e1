package middleware

import (
	"context"
	"ecommerce/jwt"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

const (
	ContextToken    = "Token"
	ContextTokenID  = "TokenID"
	ContextUserID   = "UserID"
	ContextUsername = "Username"
)

type Authenticator interface {
	Authenticate(ctx context.Context, token string) (*jwt.Claims, error)
}

// AuthMiddleware 解析Bearer Token，驗證成功時將使用者資訊放入context
func AuthMiddleware(auth Authenticator) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		token := strings.TrimPrefix(authHeader, "Bearer ")

		if token == "" {
			c.Next()
			return
		}

		//如Token不合法、過期或已登出則視為未登入
		claims, err := auth.Authenticate(c.Request.Context(), token)
		if err != nil {
			log.Debug().Err(err).Msg("無法驗證Token")
			c.Next()
			return
		}

		c.Set(ContextToken, token)
		c.Set(ContextTokenID, claims.ID)
		c.Set(ContextUserID, claims.UserID)
		c.Set(ContextUsername, claims.Username)
		c.Next()
	}
}
