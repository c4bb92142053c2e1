package models

import (
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type Item struct {
	gorm.Model
	Name        string          `gorm:"size:255;not null;index"`
	Description string
	Price       decimal.Decimal `gorm:"type:decimal(12,2);not null"`
}
