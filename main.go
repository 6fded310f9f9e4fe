package main

import (
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"grocermart-backend/config"
	"grocermart-backend/database"
	"grocermart-backend/internal/api"
	"grocermart-backend/internal/middleware"
	"grocermart-backend/internal/services"
	"grocermart-backend/internal/storage"
)

func main() {
	// Load environment variables
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system environment variables")
	}

	// Initialize configuration
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		log.Fatal("Invalid configuration: ", err)
	}
	log.Println(cfg.String())

	// Initialize database
	db, err := database.Initialize(cfg.DatabaseURL)
	if err != nil {
		log.Fatal("Failed to initialize database: ", err)
	}
	defer db.Close()

	if err := database.Migrate(db); err != nil {
		log.Fatal("Failed to run migrations: ", err)
	}

	// Select the key-value driver for orders and notifications
	var kv storage.Store
	switch cfg.StorageDriver {
	case "redis":
		redisStore, err := storage.NewRedisStore(cfg.RedisURL, cfg.RedisPassword)
		if err != nil {
			log.Fatal("Failed to connect to Redis: ", err)
		}
		defer redisStore.Close()
		kv = redisStore
	default:
		kv = storage.NewSQLiteStore(db)
	}
	store := storage.NewSerializedStore(kv)

	// Initialize services
	userService := services.NewUserService(db)
	authService := services.NewAuthService(cfg.JWTSecret, cfg.JWTExpiration)
	catalogService := services.NewCatalogService(storage.NewSQLiteDocumentStore(db))
	cartService := services.NewCartService()

	pushService := services.NewPushService(func(r *http.Request) bool {
		if cfg.AllowAllOrigins {
			return true
		}
		origin := r.Header.Get("Origin")
		for _, allowed := range cfg.AllowedOrigins {
			if origin == allowed {
				return true
			}
		}
		return false
	})

	notificationService := services.NewNotificationService(store, catalogService, pushService)
	orderService := services.NewOrderService(store, cartService, catalogService, notificationService, services.DeliveryFees{
		Standard: cfg.StandardDeliveryFee,
		Express:  cfg.ExpressDeliveryFee,
	})

	// Initialize handlers
	authHandlers := api.NewAuthHandlers(userService, authService)
	productHandlers := api.NewProductHandlers(catalogService)
	cartHandlers := api.NewCartHandlers(cartService, catalogService)
	orderHandlers := api.NewOrderHandlers(orderService)
	notificationHandlers := api.NewNotificationHandlers(notificationService)

	authMiddleware := middleware.NewAuthMiddleware(authService)

	// Initialize Gin router
	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Logger())
	router.Use(gin.Recovery())

	// CORS
	router.Use(func(c *gin.Context) {
		origin := c.GetHeader("Origin")

		allowedOrigin := ""
		if cfg.AllowAllOrigins {
			allowedOrigin = "*"
		} else {
			for _, allowed := range cfg.AllowedOrigins {
				if origin == allowed {
					allowedOrigin = origin
					break
				}
			}
		}

		if allowedOrigin != "" {
			c.Header("Access-Control-Allow-Origin", allowedOrigin)
			c.Header("Access-Control-Allow-Headers", "Content-Type, Authorization, Accept, Origin")
			c.Header("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS, PATCH")
			c.Header("Access-Control-Max-Age", "86400")
		}

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	})

	router.Use(middleware.SecurityMiddleware(&middleware.SecurityConfig{
		MaxRequestSize:    1 * 1024 * 1024,
		RateLimitRequests: cfg.RateLimitRequests,
		RateLimitWindow:   time.Duration(cfg.RateLimitWindow) * time.Second,
	}))

	// Health check
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"success": true,
			"data": gin.H{
				"status":      "ok",
				"environment": cfg.Environment,
				"connections": pushService.ConnectedClients(),
			},
		})
	})

	v1 := router.Group("/api/v1")

	// Public auth endpoints with stricter rate limiting
	auth := v1.Group("/auth")
	auth.Use(middleware.AuthRateLimitMiddleware())
	{
		auth.POST("/register", authHandlers.Register)
		auth.POST("/login", authHandlers.Login)
		auth.POST("/refresh", authHandlers.RefreshToken)
	}

	// Public catalog browsing
	v1.GET("/products", productHandlers.GetProducts)
	v1.GET("/products/:id", productHandlers.GetProduct)

	// Authenticated endpoints
	protected := v1.Group("")
	protected.Use(authMiddleware.AuthRequired())
	{
		protected.GET("/profile", authHandlers.GetProfile)
		protected.PUT("/profile/theme", authHandlers.UpdateTheme)

		protected.GET("/cart", cartHandlers.GetCart)
		protected.POST("/cart", cartHandlers.AddToCart)
		protected.PUT("/cart", cartHandlers.UpdateQuantity)
		protected.DELETE("/cart/:productId", cartHandlers.RemoveFromCart)
		protected.DELETE("/cart", cartHandlers.ClearCart)

		protected.POST("/orders", orderHandlers.Checkout)
		protected.GET("/orders", orderHandlers.GetOrders)
		protected.GET("/orders/:id", orderHandlers.GetOrder)

		protected.GET("/notifications", notificationHandlers.GetNotifications)
		protected.GET("/notifications/unread-count", notificationHandlers.GetUnreadCount)
		protected.PUT("/notifications/:id/read", notificationHandlers.MarkAsRead)
		protected.PUT("/notifications/read-all", notificationHandlers.MarkAllAsRead)
		protected.DELETE("/notifications", notificationHandlers.ClearAll)

		protected.GET("/ws", pushService.HandleWebSocket)
	}

	// Vendor and admin product management
	manage := v1.Group("")
	manage.Use(authMiddleware.AuthRequired())
	manage.Use(authMiddleware.RequireRoles("admin", "vendor"))
	{
		manage.POST("/products", productHandlers.CreateProduct)
		manage.PUT("/products/:id", productHandlers.UpdateProduct)
		manage.DELETE("/products/:id", productHandlers.DeleteProduct)

		manage.PUT("/orders/:id/status", orderHandlers.UpdateOrderStatus)
	}

	// Admin only
	admin := v1.Group("")
	admin.Use(authMiddleware.AuthRequired())
	admin.Use(authMiddleware.RequireRoles("admin"))
	{
		admin.PUT("/users/:id/vendor", authHandlers.PromoteToVendor)
	}

	log.Printf("Starting server on port %s", cfg.Port)
	if err := router.Run(":" + cfg.Port); err != nil {
		log.Fatal("Failed to start server: ", err)
	}
}
