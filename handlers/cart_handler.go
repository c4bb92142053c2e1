package handlers

import (
	"ecommerce/middleware"
	"ecommerce/services"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

// 綁定請求並確認操作的是登入者本人的購物車
func bindCartRequest(c *gin.Context) (services.ModifyCartRequest, bool) {
	var req services.ModifyCartRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return req, false
	}
	if !middleware.IsOwner(c, req.Username) {
		log.Warn().Str("target", req.Username).Msg("沒有權限修改其他使用者的購物車")
		respondError(c, "沒有權限", fmt.Errorf("%w: cart belongs to another user", services.ErrForbidden))
		return req, false
	}
	return req, true
}

func AddToCartHandler(c *gin.Context, carts *services.CartService) {
	req, ok := bindCartRequest(c)
	if !ok {
		return
	}

	cart, err := carts.AddToCart(c.Request.Context(), req)
	if err != nil {
		respondError(c, "新增商品至購物車失敗", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "成功新增商品至購物車",
		"cart":    newCartView(cart),
	})
}

func RemoveFromCartHandler(c *gin.Context, carts *services.CartService) {
	req, ok := bindCartRequest(c)
	if !ok {
		return
	}

	cart, err := carts.RemoveFromCart(c.Request.Context(), req)
	if err != nil {
		respondError(c, "移除購物車商品失敗", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "成功移除購物車商品",
		"cart":    newCartView(cart),
	})
}

// 查詢購物車商品
func GetCartHandler(c *gin.Context, carts *services.CartService) {
	cart, err := carts.GetCart(c.Request.Context(), c.Param("username"))
	if err != nil {
		respondError(c, "查詢購物車失敗", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "成功查詢購物車",
		"cart":    newCartView(cart),
	})
}
