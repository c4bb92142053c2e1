package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// 檢查是否有登入，沒有則中止請求
func CheckLoginMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, exists := c.Get(ContextUsername); !exists {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"message": "尚未登入",
				"error":   "missing or invalid token",
			})
			return
		}
		c.Next()
	}
}
