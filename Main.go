package main

import (
	"context"
	"ecommerce/config"
	"ecommerce/middleware"
	"ecommerce/repository"
	"ecommerce/routers"
	"ecommerce/services"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog/log"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("無法讀取設定檔")
	}
	config.SetupLogger(cfg.Log)

	//建立資料儲存
	var stores repository.Stores
	if cfg.Database.Driver == config.MemoryDriver {
		log.Warn().Msg("使用記憶體資料庫，重新啟動後資料將消失")
		stores = repository.NewMemoryDB().Stores()
	} else {
		db, err := config.SetupDatabase(cfg.Database)
		if err != nil {
			log.Fatal().Err(err).Str("driver", cfg.Database.Driver).Msg("無法連接到資料庫")
		}
		defer func() {
			dbInstance, _ := db.DB()
			_ = dbInstance.Close()
		}()
		stores = repository.NewGormStores(db)
	}

	//Redis為選用的商品快取
	rdb, err := config.SetupRedisConnection(cfg.Redis)
	if err != nil {
		log.Warn().Err(err).Msg("無法連接到Redis，不使用商品快取")
	}
	catalog := stores.Items
	if rdb != nil {
		defer rdb.Close()
		catalog = repository.NewCachedItemStore(stores.Items, rdb, cfg.Redis.CacheTTL)
	}

	publisher, closePublisher, err := config.SetupPublisher(cfg.Rabbit)
	if err != nil {
		log.Fatal().Err(err).Msg("無法連接到RabbitMQ")
	}
	defer closePublisher()

	tokens, err := config.SetupTokenManager(cfg.JWT)
	if err != nil {
		log.Fatal().Err(err).Msg("無法建立JWT")
	}

	hasher := services.BcryptHasher{}
	items := services.NewItemService(catalog)

	seed, err := cfg.Catalog.Items()
	if err != nil {
		log.Fatal().Err(err).Msg("初始商品設定錯誤")
	}
	if _, err := items.Seed(context.Background(), seed); err != nil {
		log.Fatal().Err(err).Msg("無法建立初始商品")
	}

	router := routers.SetupRouters(routers.Dependencies{
		Users:        services.NewUserService(stores.Users, hasher, publisher),
		Auth:         services.NewAuthService(stores.Users, stores.Tokens, hasher, tokens),
		Items:        items,
		//購物車以資料庫中的價格計算，不經過快取
		Carts:        services.NewCartService(stores.Users, stores.Items, stores.Carts),
		Orders:       services.NewOrderService(stores.Users, stores.Carts, stores.Orders, publisher),
		Metrics:      middleware.NewMetrics(),
		AllowOrigins: cfg.Server.AllowOrigins,
	})
	if router == nil {
		log.Fatal().Msg("無法建立路由")
	}

	server := &http.Server{
		Addr:    cfg.Server.Addr,
		Handler: router,
	}

	//收到中止訊號時關閉伺服器
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		log.Info().Str("addr", cfg.Server.Addr).Msg("伺服器啟動")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error().Err(err).Msg("伺服器錯誤")
			stop()
		}
	}()

	<-ctx.Done()
	log.Warn().Msg("shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("無法正常關閉伺服器")
	}
}
