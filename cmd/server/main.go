package main

import (
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"akounamatata-system/config"
	"akounamatata-system/internal/database"
	"akounamatata-system/internal/handlers"
	"akounamatata-system/internal/middleware"
	"akounamatata-system/internal/qrcode"
	"akounamatata-system/internal/services/auth"
	"akounamatata-system/internal/services/cart"
	"akounamatata-system/internal/services/catalog"
	"akounamatata-system/internal/services/order"
	"akounamatata-system/internal/services/table"
)

func main() {
	cfg := config.LoadConfig()

	db, err := database.NewConnection(cfg.DB.DSN())
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	if err := database.Migrate(db); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	redisClient := config.NewRedisClient(cfg.Redis)
	defer redisClient.Close()

	secret := []byte(cfg.Auth.JWTSecret)
	codec := qrcode.NewCodec(cfg.QR.BaseURL, cfg.QR.MaxAge)

	authService := auth.NewService(db, secret, cfg.Auth.TokenTTL)
	catalogService := catalog.NewService(db, redisClient)
	tableService := table.NewService(db, codec)
	cartService := cart.NewService(db, redisClient, cfg.Order.TaxRate, cfg.Order.Currency)
	orderService := order.NewService(db)

	authHandler := handlers.NewAuthHTTPHandler(authService)
	catalogHandler := handlers.NewCatalogHTTPHandler(catalogService)
	tableHandler := handlers.NewTableHTTPHandler(tableService)
	cartHandler := handlers.NewCartHTTPHandler(cartService)
	orderHandler := handlers.NewOrderHTTPHandler(orderService)

	r := gin.Default()

	r.Use(middleware.CORS(cfg.Server.CORSOrigin))
	r.Use(gin.Logger())
	r.Use(gin.Recovery())
	r.Use(middleware.RateLimit(cfg.Server.RateLimit))

	// --- Public API Group ---
	public := r.Group("/api/v1")
	{
		authGroup := public.Group("/auth")
		{
			authGroup.POST("/login", authHandler.Login)
			authGroup.POST("/register", authHandler.Register)
		}

		// Scanning a QR happens before login.
		public.POST("/tables/validate-qr", tableHandler.ValidateQR)

		public.GET("/dishes", catalogHandler.ListDishes)
		public.GET("/dishes/:id", catalogHandler.GetDish)
		public.GET("/categories", catalogHandler.ListCategories)
		public.GET("/menus/today", catalogHandler.TodayMenu)
	}

	// --- Protected API Group ---
	protected := r.Group("/api/v1")
	protected.Use(middleware.JWTAuth(secret))
	{
		cartGroup := protected.Group("/cart")
		{
			cartGroup.GET("", cartHandler.GetCart)
			cartGroup.GET("/summary", cartHandler.GetSummary)
			cartGroup.POST("/items", cartHandler.AddItem)
			cartGroup.PUT("/items/:dishId", cartHandler.UpdateItem)
			cartGroup.DELETE("/items/:dishId", cartHandler.RemoveItem)
			cartGroup.DELETE("", cartHandler.Clear)
			cartGroup.POST("/convert", cartHandler.Convert)
		}

		orders := protected.Group("/orders")
		{
			orders.GET("", orderHandler.ListOrders)
			orders.GET("/:id", orderHandler.GetOrder)
			orders.POST("/:id/cancel", orderHandler.CancelOrder)
			orders.PATCH("/:id/status", middleware.AdminOnly(), orderHandler.ChangeStatus)
			orders.GET("/kitchen", middleware.AdminOnly(), orderHandler.KitchenQueue)
			orders.GET("/stats", middleware.AdminOnly(), orderHandler.Stats)
		}

		tables := protected.Group("/tables")
		{
			tables.GET("", tableHandler.ListTables)
			tables.GET("/available", tableHandler.ListAvailable)
			tables.GET("/:id", tableHandler.GetTable)
			tables.POST("/:id/occupy", tableHandler.OccupyTable)
			tables.POST("", middleware.AdminOnly(), tableHandler.CreateTable)
			tables.PUT("/:id", middleware.AdminOnly(), tableHandler.UpdateTable)
			tables.DELETE("/:id", middleware.AdminOnly(), tableHandler.DeleteTable)
			tables.POST("/:id/free", middleware.AdminOnly(), tableHandler.FreeTable)
			tables.GET("/:id/qrcode", middleware.AdminOnly(), tableHandler.TableQRCode)
		}

		dishes := protected.Group("/dishes")
		dishes.Use(middleware.AdminOnly())
		{
			dishes.POST("", catalogHandler.CreateDish)
			dishes.PUT("/:id", catalogHandler.UpdateDish)
			dishes.PATCH("/:id/availability", catalogHandler.SetAvailability)
			dishes.DELETE("/:id", catalogHandler.DeleteDish)
		}

		categories := protected.Group("/categories")
		categories.Use(middleware.AdminOnly())
		{
			categories.POST("", catalogHandler.CreateCategory)
		}

		menus := protected.Group("/menus")
		menus.Use(middleware.AdminOnly())
		{
			menus.POST("", catalogHandler.CreateMenu)
		}
	}

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":    "healthy",
			"message":   "Server is running",
			"timestamp": time.Now(),
		})
	})

	addr := ":" + cfg.Server.Port
	log.Printf("Starting server on port %s", addr)
	if err := r.Run(addr); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
