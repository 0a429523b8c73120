package router

import (
	"github.com/gin-gonic/gin"

	"shipdesk/internal/domain"
	"shipdesk/internal/handler"
	"shipdesk/internal/middleware"
	"shipdesk/internal/service"
)

// Setup configures the Gin engine with all routes and middleware.
func Setup(
	authSvc service.AuthService,
	corsOrigins []string,
	authH *handler.AuthHandler,
	docH *handler.DocumentHandler,
	recordH *handler.RecordHandler,
	searchH *handler.SearchHandler,
	chatH *handler.ChatHandler,
	healthH *handler.HealthHandler,
) *gin.Engine {
	r := gin.New()

	// Global middleware
	r.Use(middleware.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger())
	r.Use(middleware.CORS(corsOrigins))

	// Health checks
	r.GET("/healthz", healthH.Liveness)
	r.GET("/readyz", healthH.Readiness)

	v1 := r.Group("/api/v1")

	// Public auth routes
	auth := v1.Group("/auth")
	auth.POST("/register", authH.Register)
	auth.POST("/send-otp", authH.SendOTP)
	auth.POST("/verify-otp", authH.VerifyOTP)
	auth.POST("/login", authH.Login)
	auth.POST("/refresh", authH.RefreshToken)

	// Protected routes - require valid JWT
	protected := v1.Group("")
	protected.Use(middleware.AuthMiddleware(authSvc))

	// Document processing: upload and task tracking are admin dashboard
	// operations.
	docs := protected.Group("/documents")
	docs.POST("/process", middleware.RequireRole(domain.RoleAdmin), docH.Process)

	tasks := protected.Group("/tasks")
	tasks.GET("/:id", middleware.RequireRole(domain.RoleAdmin), docH.TaskStatus)

	// Extracted records
	records := protected.Group("/records")
	records.GET("", recordH.List)
	records.POST("/refresh", middleware.RequireRole(domain.RoleAdmin), recordH.Refresh)
	records.PUT("/:id", middleware.RequireRole(domain.RoleAdmin), recordH.Update)
	records.GET("/export", middleware.RequireRole(domain.RoleAdmin), recordH.Export)

	// Search, chat and the upload log serve both dashboards
	protected.GET("/search", searchH.Search)
	protected.POST("/chat", chatH.Ask)
	protected.GET("/uploads", docH.Uploads)
	protected.GET("/uploads/:id/download", docH.DownloadUpload)

	return r
}
