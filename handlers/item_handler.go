package handlers

import (
	"ecommerce/models"
	"ecommerce/services"
	"net/http"

	"github.com/gin-gonic/gin"
)

// 查詢商品列表
func GetItemListHandler(c *gin.Context, items *services.ItemService) {
	list, err := items.List(c.Request.Context())
	if err != nil {
		respondError(c, "無法讀取商品列表", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "成功查詢商品列表",
		"items":   newItemViews(list),
	})
}

// 查詢商品詳細資料
func GetItemHandler(c *gin.Context, items *services.ItemService) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	item, err := items.Get(c.Request.Context(), id)
	if err != nil {
		respondError(c, "找不到此商品", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "成功查詢商品資料",
		"item":    newItemViews([]models.Item{*item})[0],
	})
}

// 依名稱搜尋商品
func FindItemsByNameHandler(c *gin.Context, items *services.ItemService) {
	list, err := items.FindByName(c.Request.Context(), c.Param("name"))
	if err != nil {
		respondError(c, "找不到此商品", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "成功查詢商品列表",
		"items":   newItemViews(list),
	})
}
