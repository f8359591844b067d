package routes

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/escolarapp/escolar-api/internal/config"
	domainRepo "github.com/escolarapp/escolar-api/internal/domain/repository"
	"github.com/escolarapp/escolar-api/internal/presentation/http/handler"
	"github.com/escolarapp/escolar-api/internal/presentation/http/middleware"
	"github.com/escolarapp/escolar-api/pkg/utils"
)

// Handlers holds all the HTTP handlers used for route registration.
type Handlers struct {
	Auth        *handler.AuthHandler
	Tenant      *handler.TenantHandler
	Student     *handler.StudentHandler
	Receipt     *handler.ReceiptHandler
	Payment     *handler.PaymentHandler
	CashCut     *handler.CashCutHandler
	Scholarship *handler.ScholarshipHandler
	User        *handler.UserHandler
	Printer     *handler.PrinterHandler
}

// Deps holds shared dependencies needed by the routes.
type Deps struct {
	JWTManager      *utils.JWTManager
	Cfg             *config.Config
	TenantRepo      domainRepo.TenantRepository
	IdempotencyRepo domainRepo.IdempotencyRepository
}

// Setup creates the Gin router and registers all routes.
func Setup(h *Handlers, deps *Deps) *gin.Engine {
	router := gin.New()

	// Global middleware
	router.Use(gin.Recovery())
	router.Use(middleware.LoggerMiddleware())
	router.Use(middleware.CORSMiddleware(&deps.Cfg.CORS))

	// Health check endpoint
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":  "ok",
			"service": deps.Cfg.App.Name,
		})
	})

	// API v1 routes
	v1 := router.Group("/api/v1")
	{
		// Public routes (no authentication required)
		registerAuthRoutes(v1, h)

		// Protected routes (authentication required)
		protected := v1.Group("")
		protected.Use(middleware.AuthMiddleware(deps.JWTManager))
		protected.Use(middleware.TenantMiddleware(deps.TenantRepo))

		// Per-tenant rate limiter
		rateLimiter := middleware.NewTenantRateLimiter(middleware.RateLimiterConfig{
			RequestsPerSecond: float64(deps.Cfg.RateLimit.Requests) / float64(deps.Cfg.RateLimit.Duration),
			BurstSize:         deps.Cfg.RateLimit.Requests,
			CleanupInterval:   5 * time.Minute,
			EntryTTL:          10 * time.Minute,
		})
		protected.Use(rateLimiter.Middleware())

		registerProtectedRoutes(protected, h, deps)
	}

	return router
}

func registerAuthRoutes(v1 *gin.RouterGroup, h *Handlers) {
	auth := v1.Group("/auth")
	{
		auth.POST("/login", h.Auth.Login)
		auth.POST("/register", h.Auth.Register)
		auth.POST("/refresh", h.Auth.RefreshToken)
		auth.POST("/forgot-password", h.Auth.ForgotPassword)
		auth.POST("/reset-password", h.Auth.ResetPassword)
		// Microsoft OAuth routes
		auth.GET("/microsoft", h.Auth.MicrosoftAuth)
		auth.GET("/microsoft/callback", h.Auth.MicrosoftCallback)
	}
}

func registerProtectedRoutes(protected *gin.RouterGroup, h *Handlers, deps *Deps) {
	// Auth/Profile routes
	protected.POST("/auth/logout", h.Auth.Logout)
	protected.GET("/profile", h.Auth.GetProfile)
	protected.PUT("/profile", h.Auth.UpdateProfile)
	protected.PUT("/profile/password", h.Auth.ChangePassword)

	// Tenants
	registerTenantRoutes(protected, h)

	// Students
	registerStudentRoutes(protected, h)

	// Receipts
	registerReceiptRoutes(protected, h)

	// Payments
	registerPaymentRoutes(protected, h, deps)

	// Cash cuts
	registerCashCutRoutes(protected, h)

	// Scholarships
	registerScholarshipRoutes(protected, h)

	// Users (Admin)
	registerUserRoutes(protected, h)

	// Roles (Admin)
	registerRoleRoutes(protected, h)

	// Permissions (Admin)
	registerPermissionRoutes(protected, h)

	// Super Admin routes
	registerAdminRoutes(protected, h)

	// Printer
	registerPrinterRoutes(protected, h)
}

func registerTenantRoutes(protected *gin.RouterGroup, h *Handlers) {
	tenants := protected.Group("/tenants")
	{
		tenants.GET("", h.Tenant.ListTenants)
		tenants.POST("", h.Tenant.Create)
		tenants.GET("/current", h.Tenant.GetCurrentTenant)
		tenants.PUT("/current", h.Tenant.UpdateTenant)
		tenants.GET("/current/members", h.Tenant.ListMembers)
		tenants.POST("/current/members", h.Tenant.InviteMember)
		tenants.PUT("/current/members/:user_id", h.Tenant.UpdateMemberRole)
		tenants.DELETE("/current/members/:user_id", h.Tenant.RemoveMember)
	}
}

func registerStudentRoutes(protected *gin.RouterGroup, h *Handlers) {
	students := protected.Group("/students")
	students.Use(middleware.RequirePermission("manage-students"))
	{
		students.GET("", h.Student.List)
		students.POST("", h.Student.Create)
		students.GET("/matricula/:matricula", h.Student.GetByMatricula)
		students.GET("/:id", h.Student.Get)
		students.PUT("/:id", h.Student.Update)
		students.DELETE("/:id", h.Student.Delete)
		students.GET("/:id/statement", h.Student.GetStatement)
		students.GET("/:id/scholarships", h.Student.ListScholarships)
	}
}

func registerReceiptRoutes(protected *gin.RouterGroup, h *Handlers) {
	receipts := protected.Group("/receipts")
	receipts.Use(middleware.RequirePermission("manage-receipts"))
	{
		receipts.GET("", h.Receipt.List)
		receipts.POST("", h.Receipt.Create)
		receipts.POST("/refresh-overdue", h.Receipt.RefreshOverdue)
		receipts.GET("/folio/:folio", h.Receipt.GetByFolio)
		receipts.GET("/:id", h.Receipt.Get)
		receipts.POST("/:id/discount", middleware.RequirePermission("authorize-discounts"), h.Receipt.ApplyDiscount)
		receipts.POST("/:id/scholarship", middleware.RequirePermission("manage-scholarships"), h.Receipt.ApplyScholarship)
		receipts.POST("/:id/cancel", middleware.RequirePermission("cancel-receipts"), h.Receipt.Cancel)
		receipts.POST("/:id/waive", middleware.RequirePermission("cancel-receipts"), h.Receipt.Waive)
	}
}

func registerPaymentRoutes(protected *gin.RouterGroup, h *Handlers, deps *Deps) {
	payments := protected.Group("/payments")
	payments.Use(middleware.RequirePermission("register-payments"))
	{
		payments.GET("", h.Payment.List)
		// Payment registration uses idempotency middleware to prevent duplicates
		payments.POST("", middleware.IdempotencyRequired(middleware.IdempotencyConfig{
			Repo: deps.IdempotencyRepo,
		}), h.Payment.Register)
		payments.GET("/:id", h.Payment.Get)
		payments.POST("/:id/void", middleware.RequirePermission("void-payments"), h.Payment.Void)
	}
}

func registerCashCutRoutes(protected *gin.RouterGroup, h *Handlers) {
	cuts := protected.Group("/cash-cuts")
	cuts.Use(middleware.RequirePermission("manage-cash-cuts"))
	{
		cuts.GET("", h.CashCut.List)
		cuts.POST("", h.CashCut.Open)
		cuts.GET("/open", h.CashCut.GetOpen)
		cuts.GET("/:id", h.CashCut.Get)
		cuts.GET("/:id/summary", h.CashCut.Summary)
		cuts.POST("/:id/close", h.CashCut.Close)
	}
}

func registerScholarshipRoutes(protected *gin.RouterGroup, h *Handlers) {
	scholarships := protected.Group("/scholarships")
	scholarships.Use(middleware.RequirePermission("manage-scholarships"))
	{
		scholarships.GET("", h.Scholarship.List)
		scholarships.POST("", h.Scholarship.Create)
		scholarships.GET("/:id", h.Scholarship.Get)
		scholarships.PUT("/:id", h.Scholarship.Update)
		scholarships.DELETE("/:id", h.Scholarship.Delete)
		scholarships.POST("/:id/awards", h.Scholarship.Award)
	}

	awards := protected.Group("/scholarship-awards")
	awards.Use(middleware.RequirePermission("manage-scholarships"))
	{
		awards.DELETE("/:id", h.Scholarship.RevokeAward)
	}
}

func registerUserRoutes(protected *gin.RouterGroup, h *Handlers) {
	users := protected.Group("/users")
	users.Use(middleware.RequirePermission("manage-users"))
	{
		users.GET("", h.User.List)
		users.GET("/:id", h.User.Get)
		users.PUT("/:id/roles", h.User.UpdateRoles)
		users.DELETE("/:id", h.User.Delete)
	}
}

func registerRoleRoutes(protected *gin.RouterGroup, h *Handlers) {
	roles := protected.Group("/roles")
	roles.Use(middleware.RequirePermission("manage-users"))
	{
		roles.GET("", h.User.ListRoles)
	}
}

func registerPermissionRoutes(protected *gin.RouterGroup, h *Handlers) {
	permissions := protected.Group("/permissions")
	permissions.Use(middleware.RequirePermission("manage-users"))
	{
		permissions.GET("", h.User.ListPermissions)
	}
}

func registerAdminRoutes(protected *gin.RouterGroup, h *Handlers) {
	admin := protected.Group("/admin")
	admin.Use(middleware.RequireRole("super-admin"))
	{
		admin.POST("/tenants/assign-user", h.Tenant.AssignUserToTenant)
	}
}

func registerPrinterRoutes(protected *gin.RouterGroup, h *Handlers) {
	printerGroup := protected.Group("/printer")
	{
		printerGroup.GET("/status", h.Printer.GetStatus)
		printerGroup.POST("/test", h.Printer.TestPrint)
		printerGroup.POST("/ticket", h.Printer.PrintTicket)
	}
}
