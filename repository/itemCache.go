package repository

import (
	"context"
	"ecommerce/models"
	"encoding/json"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

const itemsCacheKey = "items"

// 以Redis ZSET快取商品列表，Redis無資料或失敗時改讀底層store
type CachedItemStore struct {
	next ItemStore
	rdb  *redis.Client
	ttl  time.Duration
}

// 商品可能在系統外被修改，快取在ttl後過期
func NewCachedItemStore(next ItemStore, rdb *redis.Client, ttl time.Duration) *CachedItemStore {
	return &CachedItemStore{next: next, rdb: rdb, ttl: ttl}
}

func (s *CachedItemStore) Create(ctx context.Context, item *models.Item) error {
	if err := s.next.Create(ctx, item); err != nil {
		return err
	}
	s.Invalidate(ctx)
	return nil
}

func (s *CachedItemStore) Count(ctx context.Context) (int64, error) {
	return s.next.Count(ctx)
}

func (s *CachedItemStore) FindByID(ctx context.Context, id uint) (*models.Item, error) {
	score := strconv.FormatUint(uint64(id), 10)
	members, err := s.rdb.ZRangeByScore(ctx, itemsCacheKey, &redis.ZRangeBy{Min: score, Max: score}).Result()
	if err == nil && len(members) == 1 {
		var item models.Item
		if err := json.Unmarshal([]byte(members[0]), &item); err == nil {
			return &item, nil
		}
	}
	return s.next.FindByID(ctx, id)
}

func (s *CachedItemStore) FindAll(ctx context.Context) ([]models.Item, error) {
	//嘗試從Redis讀取商品列表，如失敗則從資料庫讀取並儲存至Redis
	items, ok := s.cached(ctx)
	if ok {
		return items, nil
	}

	items, err := s.next.FindAll(ctx)
	if err != nil {
		return nil, err
	}
	s.fill(ctx, items)
	return items, nil
}

func (s *CachedItemStore) FindByName(ctx context.Context, name string) ([]models.Item, error) {
	all, err := s.FindAll(ctx)
	if err != nil {
		return nil, err
	}
	var items []models.Item
	for _, item := range all {
		if item.Name == name {
			items = append(items, item)
		}
	}
	return items, nil
}

// 清除商品快取
func (s *CachedItemStore) Invalidate(ctx context.Context) {
	if err := s.rdb.Del(ctx, itemsCacheKey).Err(); err != nil {
		log.Warn().Err(err).Msg("無法清除Redis商品快取")
	}
}

func (s *CachedItemStore) cached(ctx context.Context) ([]models.Item, bool) {
	members, err := s.rdb.ZRange(ctx, itemsCacheKey, 0, -1).Result()
	if err != nil {
		log.Warn().Err(err).Msg("無法從Redis讀取商品列表")
		return nil, false
	}
	if len(members) == 0 {
		return nil, false
	}

	items := make([]models.Item, 0, len(members))
	for _, member := range members {
		var item models.Item
		if err := json.Unmarshal([]byte(member), &item); err != nil {
			log.Warn().Err(err).Msg("無法反序列化商品資料")
			return nil, false
		}
		items = append(items, item)
	}
	return items, true
}

func (s *CachedItemStore) fill(ctx context.Context, items []models.Item) {
	if len(items) == 0 {
		return
	}

	members := make([]redis.Z, 0, len(items))
	for _, item := range items {
		itemJSON, err := json.Marshal(item)
		if err != nil {
			log.Warn().Err(err).Uint("item", item.ID).Msg("無法序列化商品資料")
			return
		}
		members = append(members, redis.Z{
			Score:  float64(item.ID),
			Member: itemJSON,
		})
	}

	_, err := s.rdb.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Del(ctx, itemsCacheKey)
		pipe.ZAdd(ctx, itemsCacheKey, members...)
		if s.ttl > 0 {
			pipe.Expire(ctx, itemsCacheKey, s.ttl)
		}
		return nil
	})
	if err != nil {
		log.Warn().Err(err).Msg("無法將商品資料加入Redis")
	}
}
