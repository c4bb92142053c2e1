package repository

import (
	"context"
	"ecommerce/models"
	"errors"
)

var (
	ErrNotFound  = errors.New("record not found")
	ErrDuplicate = errors.New("duplicated key")
)

type UserStore interface {
	//同時建立空的購物車
	Create(ctx context.Context, user *models.User) error
	FindByID(ctx context.Context, id uint) (*models.User, error)
	FindByUsername(ctx context.Context, username string) (*models.User, error)
}

type ItemStore interface {
	Create(ctx context.Context, item *models.Item) error
	Count(ctx context.Context) (int64, error)
	FindByID(ctx context.Context, id uint) (*models.Item, error)
	FindAll(ctx context.Context) ([]models.Item, error)
	FindByName(ctx context.Context, name string) ([]models.Item, error)
}

type CartStore interface {
	FindByUserID(ctx context.Context, userID uint) (*models.Cart, error)
	//鎖定購物車後讀取、修改並儲存，mutate回傳錯誤時不寫入
	Update(ctx context.Context, cartID uint, mutate func(cart *models.Cart) error) (*models.Cart, error)
}

type OrderStore interface {
	Create(ctx context.Context, order *models.UserOrder) error
	FindByUser(ctx context.Context, user *models.User) ([]models.UserOrder, error)
}

type TokenStore interface {
	Save(ctx context.Context, token *models.LoginToken) error
	Exists(ctx context.Context, tokenID string) (bool, error)
	Delete(ctx context.Context, tokenID string) (bool, error)
}

type Stores struct {
	Users  UserStore
	Items  ItemStore
	Carts  CartStore
	Orders OrderStore
	Tokens TokenStore
}
