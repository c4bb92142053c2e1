package models

import (
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type Cart struct {
	gorm.Model
	UserID uint            `gorm:"uniqueIndex;not null"`
	Lines  []CartLine      `gorm:"foreignKey:CartID"`
	Total  decimal.Decimal `gorm:"type:decimal(12,2);not null"`
}

// 購物車內的單一商品參照，同商品重複出現代表數量
type CartLine struct {
	ID       uint `gorm:"primaryKey"`
	CartID   uint `gorm:"index;not null"`
	Position int  `gorm:"not null"`
	ItemID   uint `gorm:"not null"`
	Item     Item
}

func (c *Cart) Items() []Item {
	items := make([]Item, 0, len(c.Lines))
	for _, line := range c.Lines {
		items = append(items, line.Item)
	}
	return items
}

// 加入quantity個商品並重新計算總金額
func (c *Cart) AddItem(item Item, quantity int) {
	for i := 0; i < quantity; i++ {
		c.Lines = append(c.Lines, CartLine{ItemID: item.ID, Item: item})
	}
	c.reindex()
	c.Recalculate()
}

// 從最早加入的開始移除最多quantity個，回傳實際移除數量
func (c *Cart) RemoveItem(itemID uint, quantity int) int {
	removed := 0
	lines := make([]CartLine, 0, len(c.Lines))
	for _, line := range c.Lines {
		if line.ItemID == itemID && removed < quantity {
			removed++
			continue
		}
		lines = append(lines, line)
	}
	c.Lines = lines
	c.reindex()
	c.Recalculate()
	return removed
}

// 總金額為所有商品價格加總
func (c *Cart) Recalculate() {
	total := decimal.Zero
	for _, line := range c.Lines {
		total = total.Add(line.Item.Price)
	}
	c.Total = total
}

func (c *Cart) reindex() {
	for i := range c.Lines {
		c.Lines[i].CartID = c.ID
		c.Lines[i].Position = i
	}
}
