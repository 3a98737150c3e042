package router

import (
	"net/http"

	"github.com/blues/fundflow/internal/config"
	"github.com/blues/fundflow/internal/handler"
	"github.com/blues/fundflow/internal/session"
	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

func Setup(db *gorm.DB, cfg *config.Config) *gin.Engine {
	r := gin.Default()

	// 中间件
	r.Use(corsMiddleware())

	store := cookie.NewStore([]byte(cfg.Session.Secret))
	r.Use(sessions.Sessions(cfg.Session.Name, store))

	// 健康检查
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":  "ok",
			"service": "fundflow",
		})
	})

	userHandler := handler.NewUserHandler(db)
	startupHandler := handler.NewStartupHandler(db)
	campaignHandler := handler.NewCampaignHandler(db)
	walletHandler := handler.NewWalletHandler(db)

	// 用户相关路由
	users := r.Group("/users")
	{
		users.POST("/register", userHandler.Register)
		users.POST("/login", userHandler.Login)
		users.POST("/logout", authRequired(), userHandler.Logout)
		users.GET("/me", authRequired(), userHandler.Me)

		users.POST("/startup/register", authRequired(), startupHandler.Register)

		startups := users.Group("/startups")
		{
			startups.GET("", startupHandler.List)
			startups.GET("/stats", startupHandler.Stats)
			startups.GET("/my_startup", authRequired(), startupHandler.MyStartup)
			startups.GET("/:id", startupHandler.Get)
		}
	}

	// 活动相关路由，读公开（可见性规则在 logic 层），写要登录
	campaigns := r.Group("/campaigns")
	{
		campaigns.GET("", campaignHandler.List)
		campaigns.POST("", authRequired(), campaignHandler.Create)
		campaigns.GET("/trending", campaignHandler.Trending)
		campaigns.GET("/popular", campaignHandler.Popular)
		campaigns.GET("/my_campaigns", authRequired(), campaignHandler.MyCampaigns)
		campaigns.GET("/:id", campaignHandler.Get)
		campaigns.PUT("/:id", authRequired(), campaignHandler.Update)
		campaigns.PATCH("/:id", authRequired(), campaignHandler.Update)
		campaigns.DELETE("/:id", authRequired(), campaignHandler.Delete)
	}

	// 钱包相关路由，全部要登录
	wallet := r.Group("/wallet", authRequired())
	{
		wallet.POST("/donate", walletHandler.Donate)
		wallet.POST("/deposit", walletHandler.Deposit)
		wallet.POST("/withdraw", walletHandler.Withdraw)
		wallet.GET("/wallets/my_wallet", walletHandler.MyWallet)
		wallet.GET("/transactions", walletHandler.Transactions)
		wallet.GET("/transactions/my_transactions", walletHandler.Transactions)
	}

	return r
}

// authRequired 会话认证中间件，把账号 ID 放进请求 context
func authRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		accountID, ok := session.AccountID(c)
		if !ok {
			handler.ErrorResponse(c, http.StatusUnauthorized, "authentication required")
			c.Abort()
			return
		}
		c.Set(handler.AccountIDKey, accountID)
		c.Next()
	}
}

// CORS中间件
func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET, POST, PUT, PATCH, DELETE, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Origin, Content-Type, Content-Length, Accept-Encoding, X-CSRF-Token, Authorization")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	}
}
