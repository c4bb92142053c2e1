package services

import (
	"context"
	"ecommerce/events"
	"ecommerce/models"
	"ecommerce/repository"

	"github.com/rs/zerolog/log"
)

type OrderService struct {
	users  repository.UserStore
	carts  repository.CartStore
	orders repository.OrderStore
	events events.Publisher
}

func NewOrderService(users repository.UserStore, carts repository.CartStore, orders repository.OrderStore, publisher events.Publisher) *OrderService {
	return &OrderService{
		users:  users,
		carts:  carts,
		orders: orders,
		events: publisher,
	}
}

// 以目前購物車內容建立訂單，購物車不清空
func (s *OrderService) Submit(ctx context.Context, username string) (*models.UserOrder, error) {
	user, err := s.users.FindByUsername(ctx, username)
	if err != nil {
		return nil, lookupError(err, "user %q", username)
	}
	cart, err := s.carts.FindByUserID(ctx, user.ID)
	if err != nil {
		return nil, lookupError(err, "cart of %q", username)
	}

	order := models.NewUserOrder(*user, *cart)
	if err := s.orders.Create(ctx, &order); err != nil {
		return nil, err
	}

	log.Info().Str("username", user.Username).Uint("order", order.ID).Str("total", order.Total.StringFixed(2)).Msg("訂單已送出")

	itemIDs := make([]uint, 0, len(order.Lines))
	for _, line := range order.Lines {
		itemIDs = append(itemIDs, line.ItemID)
	}
	publish(ctx, s.events, events.OrderSubmitted, events.OrderSubmittedPayload{
		OrderID:  order.ID,
		UserID:   user.ID,
		Username: user.Username,
		ItemIDs:  itemIDs,
		Total:    order.Total.StringFixed(2),
	})
	return &order, nil
}

func (s *OrderService) History(ctx context.Context, username string) ([]models.UserOrder, error) {
	user, err := s.users.FindByUsername(ctx, username)
	if err != nil {
		return nil, lookupError(err, "user %q", username)
	}
	return s.orders.FindByUser(ctx, user)
}
