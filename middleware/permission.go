package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

// IsOwner 判斷目前登入者是否為username本人
func IsOwner(c *gin.Context, username string) bool {
	current, exists := c.Get(ContextUsername)
	return exists && current == username
}

// CheckOwnerMiddleware 路徑參數中的使用者必須是登入者本人，否則回傳403
func CheckOwnerMiddleware(param string) gin.HandlerFunc {
	return func(c *gin.Context) {
		username := c.Param(param)
		if !IsOwner(c, username) {
			log.Warn().Str("path", c.FullPath()).Str("target", username).Msg("沒有權限存取其他使用者資料")
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
				"message": "沒有權限",
				"error":   "resource belongs to another user",
			})
			return
		}
		c.Next()
	}
}
