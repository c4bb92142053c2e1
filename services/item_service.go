package services

import (
	"context"
	"ecommerce/models"
	"ecommerce/repository"
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"
)

type ItemService struct {
	items repository.ItemStore
}

func NewItemService(items repository.ItemStore) *ItemService {
	return &ItemService{items: items}
}

func (s *ItemService) List(ctx context.Context) ([]models.Item, error) {
	return s.items.FindAll(ctx)
}

func (s *ItemService) Get(ctx context.Context, id uint) (*models.Item, error) {
	item, err := s.items.FindByID(ctx, id)
	if err != nil {
		return nil, lookupError(err, "item %d", id)
	}
	return item, nil
}

func (s *ItemService) FindByName(ctx context.Context, name string) ([]models.Item, error) {
	items, err := s.items.FindByName(ctx, name)
	if err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return nil, fmt.Errorf("%w: no item named %q", ErrNotFound, name)
	}
	return items, nil
}

// 商品為空時建立初始商品
func (s *ItemService) Seed(ctx context.Context, items []models.Item) (int, error) {
	count, err := s.items.Count(ctx)
	if err != nil {
		return 0, err
	}
	if count > 0 {
		return 0, nil
	}

	for i := range items {
		if strings.TrimSpace(items[i].Name) == "" {
			return 0, fmt.Errorf("%w: seed item %d has no name", ErrValidation, i)
		}
		if items[i].Price.IsNegative() {
			return 0, fmt.Errorf("%w: seed item %q has a negative price", ErrValidation, items[i].Name)
		}
	}

	for i := range items {
		item := items[i]
		if err := s.items.Create(ctx, &item); err != nil {
			return i, err
		}
	}
	log.Info().Int("count", len(items)).Msg("已建立初始商品")
	return len(items), nil
}
