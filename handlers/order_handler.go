package handlers

import (
	"ecommerce/models"
	"ecommerce/services"
	"net/http"

	"github.com/gin-gonic/gin"
)

// 以目前購物車內容建立訂單，購物車保持不變
func SubmitOrderHandler(c *gin.Context, orders *services.OrderService) {
	order, err := orders.Submit(c.Request.Context(), c.Param("username"))
	if err != nil {
		respondError(c, "送出訂單失敗", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "成功送出訂單",
		"order":   newOrderViews([]models.UserOrder{*order})[0],
	})
}

// 查詢訂單列表
func GetOrderHistoryHandler(c *gin.Context, orders *services.OrderService) {
	history, err := orders.History(c.Request.Context(), c.Param("username"))
	if err != nil {
		respondError(c, "查詢訂單列表失敗", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "成功查詢訂單列表",
		"orders":  newOrderViews(history),
	})
}
