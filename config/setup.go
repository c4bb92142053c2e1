package config

import (
	"context"
	"ecommerce/events"
	"ecommerce/jwt"
	"ecommerce/models"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
)

func SetupLogger(cfg LogConfig) {
	zerolog.TimeFieldFormat = time.RFC3339
	level, err := zerolog.ParseLevel(cfg.Level)
	if err != nil || cfg.Level == "" {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)
	if cfg.Format == "console" {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stdout})
	} else {
		log.Logger = zerolog.New(os.Stdout).With().Timestamp().Logger()
	}
}

// SetupRedisConnection 未設定位址時回傳nil
func SetupRedisConnection(cfg RedisConfig) (*redis.Client, error) {
	if cfg.Addr == "" {
		return nil, nil
	}

	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.Database,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	if err := redisClient.Ping(ctx).Err(); err != nil {
		_ = redisClient.Close()
		return nil, err
	}
	return redisClient, nil
}

// SetupPublisher 未設定RabbitMQ時不發布事件
func SetupPublisher(cfg RabbitConfig) (events.Publisher, func(), error) {
	if cfg.URL == "" {
		return events.Nop{}, func() {}, nil
	}
	publisher, err := events.NewAMQPPublisher(cfg.URL, cfg.Exchange)
	if err != nil {
		return nil, nil, err
	}
	return publisher, publisher.Close, nil
}

// SetupTokenManager 優先使用RSA金鑰，否則使用HMAC secret
func SetupTokenManager(cfg JWTConfig) (*jwt.Manager, error) {
	if cfg.PrivateKeyPath != "" && cfg.PublicKeyPath != "" {
		return jwt.NewManagerFromFiles(cfg.PrivateKeyPath, cfg.PublicKeyPath, cfg.TTL)
	}
	if cfg.Secret != "" {
		return jwt.NewHMACManager([]byte(cfg.Secret), cfg.TTL), nil
	}
	return nil, errors.New("jwt: either a key pair or a secret must be configured")
}

// Items 將設定檔中的初始商品轉為models.Item
func (c CatalogConfig) Items() ([]models.Item, error) {
	items := make([]models.Item, 0, len(c.Seed))
	for _, seed := range c.Seed {
		price, err := decimal.NewFromString(seed.Price)
		if err != nil {
			return nil, fmt.Errorf("catalog item %q: %w", seed.Name, err)
		}
		items = append(items, models.Item{
			Name:        seed.Name,
			Description: seed.Description,
			Price:       price,
		})
	}
	return items, nil
}
