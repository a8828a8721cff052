package main

import (
	"fmt"
	"log"
	"os"
	"strconv"

	"github.com/labstack/echo/v4"
	echoMiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/labstack/gommon/random"

	"agrilink/internal/caching"
	"agrilink/internal/handlers"
	"agrilink/internal/jobs/background"
	"agrilink/internal/middleware"
	"agrilink/internal/models"
	"agrilink/internal/repositories"
	"agrilink/internal/services"
	"agrilink/pkg/database"
)

func main() {
	// Database connection
	databaseURL := os.Getenv("DATABASE_URL")
	if databaseURL == "" {
		log.Fatal("DATABASE_URL environment variable is required")
	}

	pool, err := database.NewPool(databaseURL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer pool.Close()

	// JWT configuration
	jwtSecret := os.Getenv("JWT_SECRET")
	if jwtSecret == "" {
		jwtSecret = random.String(32) // Generated secret for development
		log.Printf("WARNING: JWT_SECRET not set, using a generated secret")
	}

	accessTTL := envInt("ACCESS_TOKEN_TTL_SECONDS", 900)
	refreshTTL := envInt("REFRESH_TOKEN_TTL_SECONDS", 30*24*3600)

	// Redis configuration
	redisAddr := os.Getenv("REDIS_ADDR")
	if redisAddr == "" {
		redisAddr = "localhost:6379"
	}
	redisPassword := os.Getenv("REDIS_PASSWORD")
	redisDB := envInt("REDIS_DB", 0)

	// MinIO configuration
	minioEndpoint := os.Getenv("MINIO_ENDPOINT")
	if minioEndpoint == "" {
		minioEndpoint = "localhost:9000"
	}
	minioAccessKey := os.Getenv("MINIO_ACCESS_KEY")
	if minioAccessKey == "" {
		minioAccessKey = "minioadmin"
	}
	minioSecretKey := os.Getenv("MINIO_SECRET_KEY")
	if minioSecretKey == "" {
		minioSecretKey = "minioadmin"
	}
	useSSL := os.Getenv("MINIO_USE_SSL") == "true"

	minioSvc, err := services.NewMinioService(minioEndpoint, minioAccessKey, minioSecretKey, useSSL)
	if err != nil {
		log.Fatalf("Failed to initialize MinIO service: %v", err)
	}

	// Repositories
	userRepo := repositories.NewUserRepo(pool)
	roleRepo := repositories.NewRoleRepo(pool)
	regionRepo := repositories.NewRegionRepo(pool)
	productRepo := repositories.NewProductRepo(pool)
	supplierRepo := repositories.NewSupplierRepo(pool)
	inventoryRepo := repositories.NewInventoryRepo(pool)
	orderRepo := repositories.NewOrderRepo(pool)
	procurementRepo := repositories.NewProcurementRepo(pool)
	auditLogRepo := repositories.NewAuditLogRepo(pool)
	tokenRepo := repositories.NewTokenRepo(pool)
	buyerGroupRepo := repositories.NewBuyerGroupRepo(pool)

	// Cache service
	cacheSvc := caching.NewRedisCacheService(redisAddr, redisPassword, redisDB)

	// Services
	authSvc := services.NewAuthService(userRepo, tokenRepo, jwtSecret, accessTTL, refreshTTL)
	rbacSvc := services.NewRBACService(userRepo, roleRepo)
	regionSvc := services.NewRegionService(regionRepo, userRepo, cacheSvc)
	productSvc := services.NewProductService(productRepo)
	supplierSvc := services.NewSupplierService(supplierRepo, productRepo)
	inventorySvc := services.NewInventoryService(inventoryRepo, productRepo, userRepo, supplierRepo, cacheSvc)
	catalogSvc := services.NewCatalogService(inventoryRepo, cacheSvc)
	cartSvc := services.NewCartService(inventoryRepo, cacheSvc)
	orderSvc := services.NewOrderService(orderRepo, inventoryRepo, userRepo, supplierRepo, cacheSvc)
	procurementSvc := services.NewProcurementService(procurementRepo, supplierRepo, minioSvc, cacheSvc)
	userSvc := services.NewUserService(userRepo, roleRepo, regionRepo, buyerGroupRepo)
	auditSvc := services.NewAuditLogService(auditLogRepo)
	dashboardSvc := services.NewDashboardService(orderRepo, procurementRepo, cacheSvc)

	// Middleware
	rbacMiddleware := middleware.NewRBACMiddleware(rbacSvc)

	// Handlers
	authHandlers := handlers.NewAuthHandlers(authSvc, userSvc)
	regionHandlers := handlers.NewRegionHandlers(regionSvc)
	catalogHandlers := handlers.NewCatalogHandlers(catalogSvc)
	cartHandlers := handlers.NewCartHandlers(cartSvc)
	orderHandlers := handlers.NewOrderHandlers(orderSvc)
	procurementHandlers := handlers.NewProcurementHandlers(procurementSvc)
	productHandlers := handlers.NewProductHandlers(productSvc)
	supplierHandlers := handlers.NewSupplierHandlers(supplierSvc)
	inventoryHandlers := handlers.NewInventoryHandlers(inventorySvc)
	userHandlers := handlers.NewUserHandlers(userSvc)
	dashboardHandlers := handlers.NewDashboardHandlers(dashboardSvc)
	auditLogHandlers := handlers.NewAuditLogHandlers(auditSvc)
	healthHandlers := handlers.NewHealthHandlers(pool, cacheSvc)

	// Background jobs
	scheduler := background.NewJobScheduler(inventorySvc, authSvc, dashboardSvc)
	if err := scheduler.Start(); err != nil {
		log.Fatalf("Failed to start job scheduler: %v", err)
	}
	defer scheduler.Stop()

	// Echo instance
	e := echo.New()

	e.Use(echoMiddleware.Logger())
	e.Use(echoMiddleware.Recover())
	e.Use(echoMiddleware.CORS())
	e.Use(echoMiddleware.RemoveTrailingSlash())
	e.Use(middleware.VersionHeader())

	// Health endpoints (no auth required)
	e.GET("/health", healthHandlers.HealthCheck)
	e.GET("/health/live", healthHandlers.LivenessCheck)
	e.GET("/health/ready", healthHandlers.ReadinessCheck)
	middleware.VersionRoute(e)

	v1 := e.Group("/v1")

	// Authentication routes (no JWT required)
	auth := v1.Group("/auth")
	auth.POST("/signup", authHandlers.Register)
	auth.POST("/login", authHandlers.Login)
	auth.POST("/refresh", authHandlers.Refresh)
	auth.POST("/logout", authHandlers.Logout)

	// Protected routes
	protected := v1.Group("")
	protected.Use(middleware.JWTMiddleware(jwtSecret))
	protected.Use(middleware.AuditMiddleware(auditSvc))

	protected.GET("/me", authHandlers.Me)

	// Region routes
	protected.GET("/regions", regionHandlers.ListRegions)
	protected.GET("/regions/:id", regionHandlers.GetRegionByID)

	// Catalog and cart
	protected.GET("/orders/catalog", catalogHandlers.Browse)
	protected.GET("/cart", cartHandlers.GetCart)
	protected.POST("/cart/items", cartHandlers.AddItem)
	protected.PUT("/cart/items/:key", cartHandlers.UpdateLine)
	protected.DELETE("/cart/items/:key", cartHandlers.RemoveLine)
	protected.DELETE("/cart", cartHandlers.ClearCart)

	// Orders
	protected.POST("/orders", orderHandlers.Checkout)
	protected.GET("/orders", orderHandlers.ListMyOrders)
	protected.GET("/orders/groups", orderHandlers.ListMyGroups)
	protected.GET("/orders/groups/:id", orderHandlers.GetGroup)
	protected.GET("/orders/ambassador-groups", orderHandlers.ListAmbassadorGroups, rbacMiddleware.RequireRole(models.RoleAmbassador))
	protected.GET("/orders/:id", orderHandlers.GetOrder)
	protected.PATCH("/orders/:id/status", orderHandlers.UpdateOrderStatus, rbacMiddleware.RequirePermission("order.status.update"))

	// Products and suppliers (read side)
	protected.GET("/products", productHandlers.ListProducts)
	protected.GET("/products/:id", productHandlers.GetProductByID)
	protected.GET("/product-types", productHandlers.ListProductTypes)
	protected.GET("/suppliers", supplierHandlers.ListSuppliers)
	protected.GET("/suppliers/:id", supplierHandlers.GetSupplierByID)
	protected.GET("/suppliers/:id/products", supplierHandlers.ListProductLinks)

	// Inventory, sellers and suppliers manage their own stock
	sellerOrAdmin := rbacMiddleware.RequireRole(models.RoleSeller, models.RoleSupplier, models.RoleAdmin, models.RoleSuperAdmin)
	protected.GET("/inventory", inventoryHandlers.ListInventoryItems, sellerOrAdmin)
	protected.POST("/inventory", inventoryHandlers.CreateInventoryItem, sellerOrAdmin)
	protected.GET("/inventory/:id", inventoryHandlers.GetInventoryItem, sellerOrAdmin)
	protected.PUT("/inventory/:id", inventoryHandlers.UpdateInventoryItem, sellerOrAdmin)
	protected.DELETE("/inventory/:id", inventoryHandlers.DeleteInventoryItem, sellerOrAdmin)

	// Procurement lifecycle
	adminOnly := rbacMiddleware.RequireRole(models.RoleAdmin, models.RoleSuperAdmin)
	procurement := protected.Group("/procurement", adminOnly)
	procurement.POST("", procurementHandlers.CreateProcurement)
	procurement.GET("", procurementHandlers.ListProcurements)
	procurement.GET("/options", procurementHandlers.ListProcurementOptions)
	procurement.GET("/:id", procurementHandlers.GetProcurement)
	procurement.PUT("/:id", procurementHandlers.UpdateProcurement)
	procurement.PATCH("/:id/status", procurementHandlers.UpdateProcurementStatus)
	procurement.POST("/:id/push-to-inventory", procurementHandlers.PushToInventory)
	procurement.POST("/:id/review", procurementHandlers.SubmitReview)
	procurement.GET("/:id/review", procurementHandlers.GetReview)

	// Ambassador routes
	ambassadorOnly := rbacMiddleware.RequireRole(models.RoleAmbassador)
	ambassadors := protected.Group("/ambassadors", ambassadorOnly)
	ambassadors.GET("/scope", userHandlers.GetScope)
	ambassadors.GET("/buyer-groups", userHandlers.ListBuyerGroups)
	ambassadors.POST("/buyer-groups", userHandlers.CreateBuyerGroup)
	ambassadors.DELETE("/buyer-groups/:id", userHandlers.DeleteBuyerGroup)
	ambassadors.POST("/buyer-groups/:id/members", userHandlers.AddBuyerToGroup)
	ambassadors.DELETE("/buyer-groups/:id/members/:buyerId", userHandlers.RemoveBuyerFromGroup)

	// Admin routes, region management needs the super admin role
	admin := protected.Group("/admin", adminOnly)
	superAdminOnly := rbacMiddleware.RequireRole(models.RoleSuperAdmin)
	admin.POST("/regions", regionHandlers.CreateRegion, superAdminOnly)
	admin.PUT("/regions/:id", regionHandlers.UpdateRegion, superAdminOnly)
	admin.DELETE("/regions/:id", regionHandlers.DeleteRegion, superAdminOnly)
	admin.PUT("/regions/:id/defaults", regionHandlers.SetDefaultUser, superAdminOnly)
	admin.GET("/regions/distribution/parent-options", regionHandlers.ListParentOptions, superAdminOnly)
	admin.GET("/regions/distribution/:majorId/eligible-locals", regionHandlers.ListEligibleLocals, superAdminOnly)
	admin.POST("/regions/distribution/regroup-local", regionHandlers.RegroupLocalRegions, superAdminOnly)
	admin.POST("/products", productHandlers.CreateProduct)
	admin.PUT("/products/:id", productHandlers.UpdateProduct)
	admin.POST("/product-types", productHandlers.CreateProductType)
	admin.POST("/suppliers", supplierHandlers.CreateSupplier)
	admin.PUT("/suppliers/:id", supplierHandlers.UpdateSupplier)
	admin.POST("/suppliers/:id/products", supplierHandlers.LinkProduct)
	admin.DELETE("/suppliers/:id/products/:linkId", supplierHandlers.UnlinkProduct)
	admin.GET("/users", userHandlers.ListUsers)
	admin.GET("/users/:id", userHandlers.GetUserByID)
	admin.POST("/users/:id/roles", userHandlers.AssignRole, superAdminOnly)
	admin.DELETE("/users/:id/roles/:role", userHandlers.RemoveRole, superAdminOnly)
	admin.PATCH("/sellers/:id/validation", userHandlers.SetSellerValidation)
	admin.PATCH("/sellers/:id/assigned-admin", userHandlers.ReassignSellerAdmin)
	admin.POST("/dashboard/refresh", dashboardHandlers.Refresh)

	// Read-only admin surface, support ops can see it too
	opsView := rbacMiddleware.RequireRole(models.RoleAdmin, models.RoleSuperAdmin, models.RoleSupportOps)
	ops := protected.Group("/admin", opsView)
	ops.GET("/orders", orderHandlers.ListAllOrders)
	ops.GET("/dashboard", dashboardHandlers.GetSummary)
	ops.GET("/audit-logs", auditLogHandlers.ListAuditLogs)

	// Start server
	portStr := os.Getenv("PORT")
	if portStr == "" {
		portStr = "8080"
	}
	port, err := strconv.Atoi(portStr)
	if err != nil {
		log.Fatalf("Invalid port %s: %v", portStr, err)
	}

	log.Printf("Agrilink server starting on port %d", port)
	e.Logger.Fatal(e.Start(fmt.Sprintf(":%d", port)))
}

func envInt(key string, fallback int) int {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		log.Printf("Invalid %s value %q, using %d", key, raw, fallback)
		return fallback
	}
	return v
}
