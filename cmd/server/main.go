package main

import (
	"kavalife-erp/internal/handler"
	"kavalife-erp/internal/middleware"
	"kavalife-erp/pkg/config"
	"kavalife-erp/pkg/database"
	"kavalife-erp/pkg/jwtutil"
	"kavalife-erp/pkg/logger"
	"kavalife-erp/prometheus"

	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"
)

func main() {
	// Load configuration from .env file and environment variables
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	// Initialize logger with config
	logger.InitLogger(cfg)
	log := logger.GetLogger()
	log.Info("Starting Kavalife ERP service...", zap.String("environment", cfg.Server.Env))

	// Initialize database
	if err := database.InitDB(cfg); err != nil {
		log.Fatal("Failed to initialize database", zap.Error(err))
	}
	log.Info("Database connection established")

	// Initialize JWT utility
	jwtutil.Initialize(&cfg.JWT)
	log.Info("JWT utility initialized")

	// Initialize Prometheus metrics
	prometheus.InitMetrics(cfg)
	httpMetrics := prometheus.NewHTTPMetrics("kavalife-erp")
	log.Info("Prometheus metrics initialized")

	// Initialize handlers that carry configuration
	handler.InitAuthHandler(cfg)

	// Initialize Echo framework
	e := echo.New()
	e.Validator = handler.NewRequestValidator()

	// Apply global middleware - order matters
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.CORS())
	e.Use(middleware.RequestIDMiddleware)
	e.Use(httpMetrics.Middleware())

	// Public routes - no authentication required
	e.GET("/", handler.Hello)
	e.GET("/health", handler.Hello)
	e.GET("/metrics", echo.WrapHandler(prometheus.GetPrometheusHandler()))
	e.POST("/api/login", handler.Login)

	// Session routes
	api := e.Group("/api")
	api.Use(middleware.AuthMiddleware)
	api.POST("/logout", handler.Logout)
	api.GET("/checkUser", handler.CheckUser)

	// Reference data consumed by the bootstrap cache
	vendor := e.Group("/vendor", middleware.AuthMiddleware)
	vendor.GET("/allVendors", handler.AllVendors)

	product := e.Group("/product", middleware.AuthMiddleware)
	product.GET("/allProducts", handler.AllProducts)

	user := e.Group("/user", middleware.AuthMiddleware)
	user.GET("/allUsers", handler.AllUsers)

	// Vehicle inspection reports
	vir := e.Group("/vir", middleware.AuthMiddleware)
	vir.GET("/all", handler.ListVIRs)
	vir.GET("/:virNumber", handler.GetVIR)
	vir.POST("/create", handler.CreateVIR)
	vir.PATCH("/verify/:virNumber", handler.VerifyVIR)

	// Goods received notes
	grn := e.Group("/grn", middleware.AuthMiddleware)
	grn.GET("/view", handler.ViewGRNs)
	grn.POST("/create", handler.CreateGRN)
	grn.PUT("/update/:id", handler.UpdateGRN)

	// QA/QC sign-offs
	qaqc := e.Group("/qaqc", middleware.AuthMiddleware)
	qaqc.GET("/view", handler.ViewQAQC)
	qaqc.POST("/create", handler.CreateQAQC)

	// Production process logs
	process := e.Group("/process", middleware.AuthMiddleware)
	process.GET("/extraction", handler.ListExtractions)
	process.POST("/extraction", handler.CreateExtraction)
	process.PATCH("/extraction/:id/complete", handler.CompleteExtraction)
	process.GET("/stripping", handler.ListStrippings)
	process.POST("/stripping", handler.CreateStripping)
	process.PATCH("/stripping/:id/complete", handler.CompleteStripping)
	process.GET("/purification", handler.ListPurifications)
	process.POST("/purification", handler.CreatePurification)
	process.PATCH("/purification/:id/complete", handler.CompletePurification)

	// Get server port from configuration
	port := cfg.Server.Port

	// Start server
	log.Info("Starting server", zap.String("port", port))
	if err := e.Start(":" + port); err != nil {
		log.Fatal("Failed to start server", zap.Error(err))
	}
}
