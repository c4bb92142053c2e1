package handlers

import (
	"ecommerce/middleware"
	"ecommerce/services"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
)

// 註冊使用者帳戶
func CreateUserHandler(c *gin.Context, users *services.UserService) {
	var req services.CreateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	user, err := users.CreateUser(c.Request.Context(), req)
	if err != nil {
		respondError(c, "註冊失敗", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "使用者已成功註冊",
		"user":    newUserView(user),
	})
}

func LoginHandler(c *gin.Context, auth *services.AuthService) {
	//檢查是否已經登入
	if _, ok := c.Get(middleware.ContextUsername); ok {
		c.JSON(http.StatusOK, gin.H{
			"message": "已經登入",
		})
		return
	}

	var req services.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	token, err := auth.Login(c.Request.Context(), req)
	if err != nil {
		respondError(c, "登入失敗", err)
		return
	}

	//成功登入 回傳Token和成功訊息
	c.Header("Authorization", "Bearer "+token)
	c.JSON(http.StatusOK, gin.H{
		"message": "成功登入",
	})
}

func LogOutHandler(c *gin.Context, auth *services.AuthService) {
	tokenID := c.GetString(middleware.ContextTokenID)
	if tokenID == "" {
		c.JSON(http.StatusBadRequest, gin.H{
			"message": "無法取得Token",
		})
		return
	}

	if err := auth.Logout(c.Request.Context(), tokenID); err != nil {
		if errors.Is(err, services.ErrNotFound) {
			c.JSON(http.StatusBadRequest, gin.H{
				"message": "找不到此token或已登出",
			})
			return
		}
		respondError(c, "登出失敗", err)
		return
	}

	c.Header("Authorization", "")
	c.JSON(http.StatusOK, gin.H{
		"message": "成功登出",
	})
}

func GetUserByIDHandler(c *gin.Context, users *services.UserService) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	user, err := users.FindByID(c.Request.Context(), id)
	if err != nil {
		respondError(c, "找不到此使用者", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "成功查詢使用者資料",
		"user":    newUserView(user),
	})
}

func GetUserByUsernameHandler(c *gin.Context, users *services.UserService) {
	user, err := users.FindByUsername(c.Request.Context(), c.Param("username"))
	if err != nil {
		respondError(c, "找不到此使用者", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "成功查詢使用者資料",
		"user":    newUserView(user),
	})
}
