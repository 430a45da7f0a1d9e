// internal/router/router.go
package router

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/ynstek/yns-backend/internal/config"
	"github.com/ynstek/yns-backend/internal/handlers"
	"github.com/ynstek/yns-backend/internal/middleware"
	"github.com/ynstek/yns-backend/internal/services"
	"github.com/ynstek/yns-backend/internal/utils"
)

func Initialize(db *gorm.DB, cfg *config.Config) *gin.Engine {
	// Initialize services
	storageService, _ := services.NewStorageService(cfg)
	authorizationService := services.NewAuthorizationService()

	shuttleService := services.NewShuttleService(db)
	applicationService := services.NewApplicationService(db, storageService, cfg.Upload)
	ndaService := services.NewNDAService(db, storageService, authorizationService)
	adminService := services.NewAdminService(db, authorizationService)

	// Initialize handlers
	shuttleHandler := handlers.NewShuttleHandler(shuttleService)
	applicationHandler := handlers.NewApplicationHandler(applicationService)
	ndaHandler := handlers.NewNDAHandler(ndaService)
	adminHandler := handlers.NewAdminHandler(adminService, ndaService)
	catalogHandler := handlers.NewCatalogHandler()

	// Set JWT secret
	utils.SetJWTSecret(cfg.JWT.SecretKey)

	// Initialize Gin router
	r := gin.New()

	// Global middleware
	r.Use(gin.Recovery())
	r.Use(middleware.RequestLogger())
	r.Use(middleware.CORS(cfg.Frontend.BaseURL))
	r.Use(middleware.I18nMiddleware())
	r.Use(middleware.GeneralRateLimit())
	r.Use(middleware.AuditLogMiddleware(db))

	// Health check
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "healthy",
			"version": "1.0.0",
		})
	})

	// API v1 routes
	v1 := r.Group("/v1")
	{
		// Public routes
		v1.GET("/services", catalogHandler.GetServices)
		v1.GET("/shuttles", shuttleHandler.GetShuttles)
		v1.GET("/shuttles/:id", middleware.OptionalAuth(), shuttleHandler.GetShuttle)

		// Upload routes
		shuttles := v1.Group("/shuttles")
		shuttles.Use(middleware.AuthRequired())
		{
			shuttles.POST("/:id/upload", middleware.UploadRateLimit(), applicationHandler.UploadGDS)
			shuttles.POST("/:id/upload-url", middleware.UploadRateLimit(), applicationHandler.CreateUploadURL)
		}

		// Application routes
		applications := v1.Group("/applications")
		applications.Use(middleware.AuthRequired())
		{
			applications.GET("", applicationHandler.GetMyApplications)
			applications.GET("/:id", applicationHandler.GetApplication)
			applications.POST("/:id/finalize", applicationHandler.FinalizeUpload)
		}

		// NDA and PDK routes
		nda := v1.Group("/nda")
		nda.Use(middleware.AuthRequired())
		{
			nda.POST("/request", ndaHandler.RequestNDA)
			nda.GET("/status", ndaHandler.GetNDAStatus)
		}
		v1.GET("/pdk/download", middleware.AuthRequired(), middleware.DownloadRateLimit(), ndaHandler.DownloadPDK)

		// Admin routes
		admin := v1.Group("/admin")
		admin.Use(middleware.AuthRequired())
		admin.Use(middleware.StaffRequired())
		{
			admin.GET("/applications", adminHandler.GetApplications)
			admin.GET("/nda", adminHandler.GetNDARequests)
			admin.PUT("/nda/:id/approve", adminHandler.ApproveNDA)
			admin.GET("/dashboard/stats", adminHandler.GetDashboardStats)
		}
	}

	return r
}
