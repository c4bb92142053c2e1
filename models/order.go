package models

import (
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// 送出後不可變更的訂單
type UserOrder struct {
	gorm.Model
	UserID uint            `gorm:"index;not null"`
	User   User            `json:"-"`
	Lines  []OrderLine     `gorm:"foreignKey:OrderID"`
	Total  decimal.Decimal `gorm:"type:decimal(12,2);not null"`
}

// 下單當下的商品快照，之後商品改價不影響訂單
type OrderLine struct {
	ID          uint            `gorm:"primaryKey"`
	OrderID     uint            `gorm:"index;not null"`
	Position    int             `gorm:"not null"`
	ItemID      uint            `gorm:"not null"`
	Name        string          `gorm:"not null"`
	Description string
	Price       decimal.Decimal `gorm:"type:decimal(12,2);not null"`
}

// 複製購物車商品與總金額建立訂單
func NewUserOrder(user User, cart Cart) UserOrder {
	order := UserOrder{
		UserID: user.ID,
		User:   user,
		Lines:  make([]OrderLine, 0, len(cart.Lines)),
		Total:  cart.Total,
	}
	for i, line := range cart.Lines {
		order.Lines = append(order.Lines, OrderLine{
			Position:    i,
			ItemID:      line.ItemID,
			Name:        line.Item.Name,
			Description: line.Item.Description,
			Price:       line.Item.Price,
		})
	}
	return order
}

// 以下單當時的價格還原商品
func (o *UserOrder) Items() []Item {
	items := make([]Item, 0, len(o.Lines))
	for _, line := range o.Lines {
		item := Item{
			Name:        line.Name,
			Description: line.Description,
			Price:       line.Price,
		}
		item.ID = line.ItemID
		items = append(items, item)
	}
	return items
}
