package services

import (
	"context"
	"ecommerce/models"
	"ecommerce/repository"
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog/log"
)

const (
	MaxQuantity  = 1000
	MaxCartItems = 5000
)

type ModifyCartRequest struct {
	Username string `json:"username"`
	ItemID   uint   `json:"itemId"`
	Quantity int    `json:"quantity" validate:"gt=0"`
}

type CartService struct {
	users    repository.UserStore
	items    repository.ItemStore
	carts    repository.CartStore
	validate *validator.Validate
}

func NewCartService(users repository.UserStore, items repository.ItemStore, carts repository.CartStore) *CartService {
	return &CartService{
		users:    users,
		items:    items,
		carts:    carts,
		validate: newValidator(),
	}
}

func (s *CartService) resolve(ctx context.Context, req ModifyCartRequest) (*models.User, *models.Item, error) {
	if err := s.validate.Struct(req); err != nil {
		return nil, nil, validationError(err)
	}
	if req.Quantity > MaxQuantity {
		return nil, nil, fmt.Errorf("%w: quantity must be at most %d", ErrValidation, MaxQuantity)
	}
	user, err := s.users.FindByUsername(ctx, req.Username)
	if err != nil {
		return nil, nil, lookupError(err, "user %q", req.Username)
	}
	item, err := s.items.FindByID(ctx, req.ItemID)
	if err != nil {
		return nil, nil, lookupError(err, "item %d", req.ItemID)
	}
	return user, item, nil
}

// 新增quantity個商品至購物車
func (s *CartService) AddToCart(ctx context.Context, req ModifyCartRequest) (*models.Cart, error) {
	user, item, err := s.resolve(ctx, req)
	if err != nil {
		return nil, err
	}

	cart, err := s.carts.Update(ctx, user.Cart.ID, func(cart *models.Cart) error {
		if len(cart.Lines)+req.Quantity > MaxCartItems {
			return fmt.Errorf("%w: a cart holds at most %d items", ErrValidation, MaxCartItems)
		}
		cart.AddItem(*item, req.Quantity)
		return nil
	})
	if err != nil {
		return nil, lookupError(err, "cart of %q", user.Username)
	}

	log.Info().Str("username", user.Username).Uint("item", item.ID).Int("quantity", req.Quantity).Msg("新增商品至購物車")
	return cart, nil
}

// 從最早加入的開始移除，最多quantity個
func (s *CartService) RemoveFromCart(ctx context.Context, req ModifyCartRequest) (*models.Cart, error) {
	user, item, err := s.resolve(ctx, req)
	if err != nil {
		return nil, err
	}

	var removed int
	cart, err := s.carts.Update(ctx, user.Cart.ID, func(cart *models.Cart) error {
		removed = cart.RemoveItem(item.ID, req.Quantity)
		return nil
	})
	if err != nil {
		return nil, lookupError(err, "cart of %q", user.Username)
	}

	log.Info().Str("username", user.Username).Uint("item", item.ID).Int("removed", removed).Msg("從購物車移除商品")
	return cart, nil
}

func (s *CartService) GetCart(ctx context.Context, username string) (*models.Cart, error) {
	user, err := s.users.FindByUsername(ctx, username)
	if err != nil {
		return nil, lookupError(err, "user %q", username)
	}
	cart, err := s.carts.FindByUserID(ctx, user.ID)
	if err != nil {
		return nil, lookupError(err, "cart of %q", username)
	}
	return cart, nil
}
