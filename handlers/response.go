package handlers

import (
	"ecommerce/models"
	"ecommerce/services"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
)

type userView struct {
	ID        uint      `json:"id"`
	Username  string    `json:"username"`
	CreatedAt time.Time `json:"createdAt"`
}

type itemView struct {
	ID          uint            `json:"id"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price"`
}

type cartView struct {
	ID    uint            `json:"id"`
	Items []itemView      `json:"items"`
	Total decimal.Decimal `json:"total"`
}

type orderView struct {
	ID        uint            `json:"id"`
	CreatedAt time.Time       `json:"createdAt"`
	Items     []itemView      `json:"items"`
	Total     decimal.Decimal `json:"total"`
}

func newUserView(user *models.User) userView {
	return userView{ID: user.ID, Username: user.Username, CreatedAt: user.CreatedAt}
}

func newItemViews(items []models.Item) []itemView {
	views := make([]itemView, 0, len(items))
	for _, item := range items {
		views = append(views, itemView{
			ID:          item.ID,
			Name:        item.Name,
			Description: item.Description,
			Price:       item.Price,
		})
	}
	return views
}

func newCartView(cart *models.Cart) cartView {
	return cartView{ID: cart.ID, Items: newItemViews(cart.Items()), Total: cart.Total}
}

func newOrderViews(orders []models.UserOrder) []orderView {
	views := make([]orderView, 0, len(orders))
	for i := range orders {
		views = append(views, orderView{
			ID:        orders[i].ID,
			CreatedAt: orders[i].CreatedAt,
			Items:     newItemViews(orders[i].Items()),
			Total:     orders[i].Total,
		})
	}
	return views
}

// 依錯誤種類決定HTTP狀態碼
func statusFor(err error) int {
	switch {
	case errors.Is(err, services.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, services.ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, services.ErrUnauthorized):
		return http.StatusUnauthorized
	case errors.Is(err, services.ErrForbidden):
		return http.StatusForbidden
	default:
		return http.StatusInternalServerError
	}
}

func respondError(c *gin.Context, message string, err error) {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		log.Error().Err(err).Str("path", c.FullPath()).Msg(message)
	}
	_ = c.Error(err)
	c.JSON(status, gin.H{
		"message": message,
		"error":   err.Error(),
	})
}

func bindError(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, gin.H{
		"message": "綁定請求資料錯誤",
		"error":   err.Error(),
	})
}

func parseID(c *gin.Context, param string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(param), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"message": "ID輸入錯誤",
			"error":   err.Error(),
		})
		return 0, false
	}
	return uint(id), true
}
