package main

import (
	"log"
	"net/http"
	"time"

	"github.com/artisanbakery/bakery-api/config"
	"github.com/artisanbakery/bakery-api/controllers"
	"github.com/artisanbakery/bakery-api/middleware"
	"github.com/artisanbakery/bakery-api/models"
	"github.com/artisanbakery/bakery-api/services"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const (
	checkoutPerMinute = 10
	checkoutBurst     = 5
	loginPerMinute    = 5
	loginBurst        = 5
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logger, err := config.InitLogger(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logger.Sync()

	zap.L().Info("Starting Bakery API server...", zap.String("env", cfg.GoEnv))

	if loc, err := time.LoadLocation(cfg.Timezone); err != nil {
		zap.L().Warn("Unknown TIMEZONE, keeping system location", zap.String("timezone", cfg.Timezone), zap.Error(err))
	} else {
		time.Local = loc
	}

	if err := config.ConnectDatabase(cfg); err != nil {
		zap.L().Fatal("Failed to connect to database", zap.Error(err))
	}

	db := config.GetDB()
	if err := db.AutoMigrate(models.Tables...); err != nil {
		zap.L().Fatal("Failed to migrate database", zap.Error(err))
	}
	zap.L().Info("Database migration completed successfully")

	if err := services.EnsureAdmin(db, cfg); err != nil {
		zap.L().Fatal("Failed to bootstrap administrator", zap.Error(err))
	}

	if _, err := services.EnsureSettings(db); err != nil {
		zap.L().Fatal("Failed to load store settings", zap.Error(err))
	}

	middleware.InitSessionStore(cfg)

	if cfg.HasS3() {
		if _, err := services.InitS3Service(cfg); err != nil {
			zap.L().Error("Failed to initialize S3, report archiving disabled", zap.Error(err))
		}
	} else {
		zap.L().Info("AWS_S3_BUCKET not set, report archiving disabled")
	}

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	router := setupRouter(cfg)

	addr := ":" + cfg.Port
	zap.L().Info("Server is running", zap.String("addr", addr))
	if err := router.Run(addr); err != nil {
		zap.L().Fatal("Failed to start server", zap.Error(err))
	}
}

// setupRouter wires every route of the API
func setupRouter(cfg *config.Config) *gin.Engine {
	origins := cfg.CORSOrigins
	if len(origins) == 0 {
		origins = []string{"http://localhost:3000"}
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestLogger())
	router.Use(cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", middleware.RequestIDHeader},
		ExposeHeaders:    []string{middleware.RequestIDHeader, "Content-Disposition"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	checkoutLimiter := middleware.NewRateLimiter(checkoutPerMinute, checkoutBurst)
	loginLimiter := middleware.NewRateLimiter(loginPerMinute, loginBurst)

	v1 := router.Group("/api/v1")
	{
		v1.GET("/health", healthCheck)
		v1.GET("/database/status", databaseStatus)

		store := v1.Group("/store")
		{
			store.GET("/catalog", controllers.GetCatalog)
			store.GET("/products/:id", controllers.GetStoreProduct)
			store.GET("/settings", controllers.GetStoreSettings)
			store.POST("/cart/quote", controllers.QuoteCart)
			store.POST("/checkout", checkoutLimiter.Limit(), controllers.Checkout)
		}

		auth := v1.Group("/auth")
		{
			auth.POST("/login", loginLimiter.Limit(), controllers.Login)
			auth.POST("/logout", controllers.Logout)
			auth.GET("/me", middleware.RequireSession(), controllers.Me)
		}

		admin := v1.Group("/admin")
		admin.Use(middleware.RequireSession(), middleware.RequireRole(models.RoleEmployee, models.RoleAdmin))
		{
			admin.GET("/dashboard", controllers.GetDashboard)

			admin.GET("/products", controllers.ListProducts)
			admin.POST("/products", controllers.CreateProduct)
			admin.GET("/products/:id", controllers.GetProduct)
			admin.PUT("/products/:id", controllers.UpdateProduct)
			admin.PATCH("/products/:id/toggle", controllers.ToggleProduct)
			admin.DELETE("/products/:id", controllers.DeleteProduct)

			admin.GET("/orders", controllers.ListOrders)
			admin.POST("/orders", controllers.CreateOrder)
			admin.GET("/orders/:id", controllers.GetOrder)
			admin.PATCH("/orders/:id/status", controllers.UpdateOrderStatus)
			admin.GET("/orders/:id/events", controllers.ListOrderEvents)
			admin.DELETE("/orders/:id", controllers.DeleteOrder)

			admin.GET("/ingredients", controllers.ListIngredients)
			admin.POST("/ingredients", controllers.CreateIngredient)
			admin.GET("/ingredients/:id", controllers.GetIngredient)
			admin.PUT("/ingredients/:id", controllers.UpdateIngredient)
			admin.POST("/ingredients/:id/stock", controllers.AdjustIngredientStock)
			admin.DELETE("/ingredients/:id", controllers.DeleteIngredient)

			owner := admin.Group("", middleware.RequireRole(models.RoleAdmin))
			{
				owner.GET("/financial", controllers.GetFinancialReport)
				owner.GET("/financial/export", controllers.ExportFinancialReport)
				owner.POST("/financial/archive", controllers.ArchiveFinancialReport)
				owner.GET("/transactions", controllers.ListTransactions)
				owner.POST("/transactions", controllers.CreateTransaction)

				owner.GET("/settings", controllers.GetSettings)
				owner.PUT("/settings", controllers.UpdateSettings)

				owner.GET("/users", controllers.ListUsers)
				owner.POST("/users", controllers.CreateUser)
				owner.PUT("/users/:id", controllers.UpdateUser)
				owner.DELETE("/users/:id", controllers.DeleteUser)
			}
		}
	}

	return router
}

// healthCheck handles the health check endpoint
func healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Bakery API is running",
	})
}

// databaseStatus checks database connectivity and returns table information
func databaseStatus(c *gin.Context) {
	db := config.GetDB()
	if db == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Database is not initialized",
			},
		})
		return
	}

	sqlDB, err := db.DB()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to get database instance",
			},
		})
		return
	}

	if err := sqlDB.PingContext(c.Request.Context()); err != nil {
		zap.L().Error("database ping failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_CONNECTION_ERROR",
				"message": "Database connection failed",
			},
		})
		return
	}

	tables, err := db.Migrator().GetTables()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_QUERY_ERROR",
				"message": "Failed to query tables",
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Database connected",
		"driver":  db.Dialector.Name(),
		"tables":  tables,
	})
}
