package models

import (
	"time"

	"gorm.io/gorm"
)

// 登入時發出的Token，以jti記錄，登出時刪除
type LoginToken struct {
	gorm.Model
	TokenID        string `gorm:"uniqueIndex;size:36;not null"`
	ExpirationTime time.Time
	UserID         uint `gorm:"index"`
}
