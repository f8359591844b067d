package main

import (
	"log"
	"os"

	"github.com/gin-gonic/gin"

	"github.com/escolarapp/escolar-api/internal/application/service"
	"github.com/escolarapp/escolar-api/internal/config"
	"github.com/escolarapp/escolar-api/internal/infrastructure/database"
	"github.com/escolarapp/escolar-api/internal/infrastructure/repository"
	"github.com/escolarapp/escolar-api/internal/presentation/http/handler"
	"github.com/escolarapp/escolar-api/internal/presentation/http/routes"
	"github.com/escolarapp/escolar-api/pkg/email"
	"github.com/escolarapp/escolar-api/pkg/oauth"
	"github.com/escolarapp/escolar-api/pkg/printer"
	"github.com/escolarapp/escolar-api/pkg/utils"
)

func main() {
	// Load configuration
	cfg := config.Load()

	// Set Gin mode based on environment
	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	// Connect to database
	db, err := database.NewPostgresDB(&cfg.Database)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	// Run auto-migrations
	if err := database.AutoMigrate(db); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	// Seed default data
	if err := database.SeedDefaultData(db); err != nil {
		log.Printf("Warning: Failed to seed default data: %v", err)
	}

	// Initialize JWT manager
	jwtManager := utils.NewJWTManager(
		cfg.JWT.Secret,
		cfg.JWT.ExpiryHours,
		cfg.JWT.RefreshExpiryHours,
	)

	// Initialize repositories
	userRepo := repository.NewUserRepository(db)
	roleRepo := repository.NewRoleRepository(db)
	permissionRepo := repository.NewPermissionRepository(db)
	tenantRepo := repository.NewTenantRepository(db)
	studentRepo := repository.NewStudentRepository(db)
	receiptRepo := repository.NewReceiptRepository(db)
	paymentRepo := repository.NewPaymentRepository(db)
	cashCutRepo := repository.NewCashCutRepository(db)
	scholarshipRepo := repository.NewScholarshipRepository(db)
	idempotencyRepo := repository.NewIdempotencyRepository(db)
	passwordResetRepo := repository.NewPasswordResetTokenRepository(db)

	// Initialize email service
	emailService := email.NewEmailService(email.EmailConfig{
		SMTPHost:     cfg.Email.SMTPHost,
		SMTPPort:     cfg.Email.SMTPPort,
		SMTPUsername: cfg.Email.SMTPUsername,
		SMTPPassword: cfg.Email.SMTPPassword,
		FromName:     cfg.Email.FromName,
		FromEmail:    cfg.Email.FromEmail,
		FrontendURL:  cfg.App.FrontendURL,
	})

	// Initialize Microsoft OAuth service
	microsoftOAuthService := oauth.NewMicrosoftOAuthService(oauth.MicrosoftOAuthConfig{
		ClientID:           cfg.OAuth.MicrosoftClientID,
		ClientSecret:       cfg.OAuth.MicrosoftClientSecret,
		TenantID:           cfg.OAuth.MicrosoftTenantID,
		RedirectURL:        cfg.OAuth.RedirectURL,
		FrontendSuccessURL: cfg.OAuth.FrontendSuccessURL,
		FrontendErrorURL:   cfg.OAuth.FrontendErrorURL,
	})

	// Initialize services
	authService := service.NewAuthService(userRepo, roleRepo, passwordResetRepo, jwtManager, emailService, microsoftOAuthService)
	tenantService := service.NewTenantService(tenantRepo)
	studentService := service.NewStudentService(studentRepo, receiptRepo)
	receiptService := service.NewReceiptService(receiptRepo, studentRepo, tenantRepo, &cfg.Billing)
	paymentService := service.NewPaymentService(paymentRepo, receiptRepo, cashCutRepo, studentRepo, emailService)
	cashCutService := service.NewCashCutService(cashCutRepo, paymentRepo, tenantRepo)
	scholarshipService := service.NewScholarshipService(scholarshipRepo, receiptRepo, studentRepo)
	userService := service.NewUserService(userRepo, roleRepo, permissionRepo)

	// Initialize thermal printer
	thermalPrinter, err := printer.NewPrinterFromConfig(
		cfg.Printer.Type,
		cfg.Printer.USBPath,
		cfg.Printer.Address,
	)
	if err != nil {
		log.Printf("Warning: Failed to initialize printer: %v", err)
		thermalPrinter = printer.NewNullPrinter()
	}
	printerService := service.NewPrinterService(
		thermalPrinter,
		paymentRepo,
		cashCutRepo,
		studentRepo,
		tenantRepo,
		cfg.Printer.Type,
		cfg.Printer.Width,
	)

	// Initialize handlers
	handlers := &routes.Handlers{
		Auth:        handler.NewAuthHandler(authService),
		Tenant:      handler.NewTenantHandler(tenantService),
		Student:     handler.NewStudentHandler(studentService, receiptService, scholarshipService),
		Receipt:     handler.NewReceiptHandler(receiptService, scholarshipService),
		Payment:     handler.NewPaymentHandler(paymentService),
		CashCut:     handler.NewCashCutHandler(cashCutService),
		Scholarship: handler.NewScholarshipHandler(scholarshipService),
		User:        handler.NewUserHandler(userService),
		Printer:     handler.NewPrinterHandler(printerService),
	}

	// Setup routes
	router := routes.Setup(handlers, &routes.Deps{
		JWTManager:      jwtManager,
		Cfg:             cfg,
		TenantRepo:      tenantRepo,
		IdempotencyRepo: idempotencyRepo,
	})

	// Get port from environment or use default
	port := cfg.App.Port
	if port == "" {
		port = "8080"
	}

	log.Printf("Starting %s server on port %s...", cfg.App.Name, port)
	log.Printf("Environment: %s", cfg.App.Env)

	if err := router.Run(":" + port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
		os.Exit(1)
	}
}
