package main

import (
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"devhub-api/internal/handler"
	"devhub-api/internal/middleware"
	"devhub-api/pkg/config"
	"devhub-api/pkg/database"
	"devhub-api/pkg/jwtutil"
	"devhub-api/pkg/logger"
	"devhub-api/prometheus"
)

func main() {
	// Load configuration from .env file and environment variables
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	// Initialize logger with config
	if err := logger.InitLogger(cfg); err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	log := logger.GetLogger()
	log.Info("Starting DevHub API...", zap.String("environment", cfg.Server.Env))

	// Initialize database
	if err := database.InitDB(cfg); err != nil {
		log.Fatal("Failed to initialize database", zap.Error(err))
	}
	log.Info("Database connection established")

	// Initialize JWT utility
	jwtutil.Initialize(&cfg.JWT)
	log.Info("JWT utility initialized")

	// Initialize Echo framework
	e := echo.New()
	e.HideBanner = true

	// Apply global middleware - order matters
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.CORS())
	e.Use(middleware.RequestIDMiddleware)
	e.Use(logger.Middleware(log))
	e.Use(prometheus.MetricsMiddleware())

	// Public routes - no authentication required
	e.GET("/health", handler.HealthCheck)
	e.GET("/metrics", handler.MetricsHandler)

	// Authentication routes, rate limited against credential stuffing
	auth := e.Group("/auth")
	auth.Use(echomiddleware.RateLimiter(echomiddleware.NewRateLimiterMemoryStore(rate.Limit(5))))
	auth.POST("/login", handler.Login)
	auth.POST("/register-founder", handler.RegisterFounder)

	// API routes - all require authentication
	api := e.Group("/api")
	api.Use(middleware.AuthMiddleware)

	api.GET("/profile", handler.GetProfile)

	// Tenant administration - founder scoped inside the service layer
	tenants := api.Group("/tenants")
	tenants.POST("", handler.CreateTenant)
	tenants.GET("", handler.ListTenants)
	tenants.GET("/:id", handler.GetTenant)
	tenants.DELETE("/:id", handler.DeactivateTenant)

	// Tenant user management
	users := api.Group("/users")
	users.Use(middleware.RequireTenantContext)
	users.POST("", handler.CreateUser)
	users.GET("", handler.ListUsers)
	users.GET("/:id", handler.GetUser)

	// CRM - customers, interactions, notes
	customers := api.Group("/customers")
	customers.Use(middleware.RequireTenantContext)
	customers.Use(middleware.RequireFeature("crm"))
	customers.GET("", handler.ListCustomers)
	customers.POST("", handler.CreateCustomer)
	customers.GET("/:id", handler.GetCustomer)
	customers.PATCH("/:id", handler.UpdateCustomer)
	customers.DELETE("/:id", handler.DeleteCustomer)
	customers.GET("/:id/interactions", handler.ListInteractions)
	customers.POST("/:id/interactions", handler.CreateInteraction)
	customers.GET("/:id/notes", handler.ListNotes)
	customers.POST("/:id/notes", handler.CreateNote)

	// CRM - leads
	leads := api.Group("/leads")
	leads.Use(middleware.RequireTenantContext)
	leads.Use(middleware.RequireFeature("crm"))
	leads.GET("", handler.ListLeads)
	leads.POST("", handler.CreateLead)
	leads.GET("/:id", handler.GetLead)
	leads.POST("/:id/convert", handler.ConvertLead)

	// Projects
	projects := api.Group("/projects")
	projects.Use(middleware.RequireTenantContext)
	projects.Use(middleware.RequireFeature("projects"))
	projects.GET("", handler.ListProjects)
	projects.POST("", handler.CreateProject)
	projects.GET("/:id", handler.GetProject)
	projects.PATCH("/:id/status", handler.UpdateProjectStatus)

	// Invoices
	invoices := api.Group("/invoices")
	invoices.Use(middleware.RequireTenantContext)
	invoices.Use(middleware.RequireFeature("invoices"))
	invoices.GET("", handler.ListInvoices)
	invoices.POST("", handler.CreateInvoice)
	invoices.GET("/:id", handler.GetInvoice)
	invoices.PATCH("/:id/status", handler.UpdateInvoiceStatus)

	// Start server
	log.Info("Starting server", zap.String("port", cfg.Server.Port))
	if err := e.Start(":" + cfg.Server.Port); err != nil {
		log.Fatal("Failed to start server", zap.Error(err))
	}
}
