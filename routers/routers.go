package routers

import (
	"ecommerce/handlers"
	"ecommerce/middleware"
	"ecommerce/services"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

type Dependencies struct {
	Users        *services.UserService
	Auth         *services.AuthService
	Items        *services.ItemService
	Carts        *services.CartService
	Orders       *services.OrderService
	Metrics      *middleware.Metrics
	AllowOrigins []string
}

func corsConfig(origins []string) cors.Config {
	config := cors.Config{
		AllowMethods:  []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders: []string{"Authorization"},
		MaxAge:        12 * time.Hour,
	}
	for _, origin := range origins {
		if origin == "*" {
			config.AllowAllOrigins = true
			return config
		}
	}
	if len(origins) == 0 {
		config.AllowAllOrigins = true
		return config
	}
	config.AllowOrigins = origins
	config.AllowCredentials = true
	return config
}

func SetupRouters(deps Dependencies) *gin.Engine {
	//建立Gin路由器
	router := gin.New()
	router.Use(gin.Recovery(), middleware.RequestLogger())
	if deps.Metrics != nil {
		router.Use(deps.Metrics.Middleware())
		router.GET("/metrics", deps.Metrics.Handler())
	}
	router.Use(cors.New(corsConfig(deps.AllowOrigins)))
	err := router.SetTrustedProxies(nil)
	if err != nil {
		return nil
	}

	router.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "ok"})
	})

	////無須權限，使用中間件解析Token
	router.Use(middleware.AuthMiddleware(deps.Auth))
	{
		//登入帳號
		router.POST("/login", func(context *gin.Context) {
			handlers.LoginHandler(context, deps.Auth)
		})
		//註冊帳號
		router.POST("/api/user/create", func(context *gin.Context) {
			handlers.CreateUserHandler(context, deps.Users)
		})

		////需要登入，使用中間件檢查是否登入
		api := router.Group("/api")
		api.Use(middleware.CheckLoginMiddleware())
		{
			//查詢使用者資料
			api.GET("/user/id/:id", func(context *gin.Context) {
				handlers.GetUserByIDHandler(context, deps.Users)
			})
			api.GET("/user/:username", func(context *gin.Context) {
				handlers.GetUserByUsernameHandler(context, deps.Users)
			})
			//登出
			api.POST("/user/logout", func(context *gin.Context) {
				handlers.LogOutHandler(context, deps.Auth)
			})

			//查詢商品列表
			api.GET("/item", func(context *gin.Context) {
				handlers.GetItemListHandler(context, deps.Items)
			})
			//查詢商品詳細資料
			api.GET("/item/:id", func(context *gin.Context) {
				handlers.GetItemHandler(context, deps.Items)
			})
			//依名稱搜尋商品
			api.GET("/item/name/:name", func(context *gin.Context) {
				handlers.FindItemsByNameHandler(context, deps.Items)
			})

			//新增商品至購物車
			api.POST("/cart/addToCart", func(context *gin.Context) {
				handlers.AddToCartHandler(context, deps.Carts)
			})
			//從購物車移除商品
			api.POST("/cart/removeFromCart", func(context *gin.Context) {
				handlers.RemoveFromCartHandler(context, deps.Carts)
			})

			////只能存取自己的購物車與訂單
			owner := middleware.CheckOwnerMiddleware("username")
			//查詢購物車商品
			api.GET("/cart/:username", owner, func(context *gin.Context) {
				handlers.GetCartHandler(context, deps.Carts)
			})
			//送出訂單
			api.POST("/order/submit/:username", owner, func(context *gin.Context) {
				handlers.SubmitOrderHandler(context, deps.Orders)
			})
			//查詢訂單列表
			api.GET("/order/history/:username", owner, func(context *gin.Context) {
				handlers.GetOrderHistoryHandler(context, deps.Orders)
			})
		}
	}

	return router
}
