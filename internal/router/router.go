package router

import (
	"github.com/gin-gonic/gin"

	"billmunshi/internal/domain"
	"billmunshi/internal/handler"
	"billmunshi/internal/middleware"
	"billmunshi/internal/port"
	"billmunshi/internal/service"
)

// Setup configures the Gin engine with all routes and middleware.
func Setup(
	authSvc service.AuthService,
	apiKeys port.APIKeyRepository,
	corsOrigins []string,
	authH *handler.AuthHandler,
	fileH *handler.FileHandler,
	billH *handler.BillHandler,
	userH *handler.UserHandler,
	ledgerH *handler.LedgerHandler,
	bridgeH *handler.BridgeHandler,
	healthH *handler.HealthHandler,
) *gin.Engine {
	r := gin.New()

	// Global middleware
	r.Use(middleware.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger())
	r.Use(middleware.CORS(corsOrigins))

	// Health checks
	r.GET("/health", healthH.Health)
	r.GET("/ready", healthH.Ready)

	v1 := r.Group("/api/v1")

	// Public auth routes
	auth := v1.Group("/auth")
	auth.POST("/login", authH.Login)
	auth.POST("/refresh", authH.Refresh)

	// Protected routes - require valid JWT
	protected := v1.Group("")
	protected.Use(middleware.AuthMiddleware(authSvc))

	// File routes
	files := protected.Group("/files")
	files.POST("", fileH.Upload)
	files.GET("", fileH.List)
	files.GET("/:id/url", fileH.DownloadURL)

	// Bill lifecycle routes
	bills := protected.Group("/bills")
	bills.POST("", billH.Create)
	bills.GET("", billH.List)
	bills.GET("/export", billH.Export)
	bills.GET("/:id", billH.Get)
	bills.POST("/:id/analyze", billH.Analyze)
	bills.POST("/:id/verify", billH.Verify)
	bills.POST("/:id/sync", billH.Sync)
	bills.GET("/:id/posting", billH.Posting)
	bills.GET("/:id/checks", billH.Checks)

	// User management routes
	users := protected.Group("/users")
	users.POST("", middleware.RequireRole(domain.RoleAdmin), userH.Create)
	users.GET("", userH.List)
	users.GET("/:id", userH.Get)

	// Ledger directory routes
	ledgers := protected.Group("/ledgers")
	ledgers.GET("", ledgerH.List)
	ledgers.GET("/resolve-vendor", ledgerH.ResolveVendor)

	// Legacy bridge routes - API key auth
	bridge := r.Group("/bridge/v1")
	bridge.Use(middleware.APIKeyAuth(apiKeys))
	bridge.POST("/ledgers", bridgeH.IngestLedgers)
	bridge.GET("/vouchers", bridgeH.SyncedVouchers)

	return r
}
