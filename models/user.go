package models

import "gorm.io/gorm"

type User struct {
	gorm.Model
	Username    string       `gorm:"uniqueIndex;size:50;not null"`
	Password    string       `gorm:"not null" json:"-"`
	Cart        Cart         `gorm:"foreignKey:UserID" json:"-"`
	Orders      []UserOrder  `json:"-"`
	LoginTokens []LoginToken `json:"-"`
}
