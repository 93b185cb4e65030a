package main

import (
	"net/http"

	"procurement-service/internal/handler"
	mid "procurement-service/internal/middleware"
	"procurement-service/internal/model"
	"procurement-service/internal/sheets"
	"procurement-service/internal/store"
	"procurement-service/pkg/config"
	"procurement-service/pkg/database"
	"procurement-service/pkg/jwtutil"
	"procurement-service/pkg/logger"
	"procurement-service/prometheus"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

// requestValidator adapts go-playground/validator to echo's Validator interface
type requestValidator struct {
	validate *validator.Validate
}

func (v *requestValidator) Validate(i interface{}) error {
	return v.validate.Struct(i)
}

func main() {
	// Load configuration
	appConfig, err := config.Load("procurement-service")
	if err != nil {
		// Can't use structured logger yet since it's not initialized
		panic("Failed to load configuration: " + err.Error())
	}

	// Initialize logger
	if err := logger.InitLogger(&logger.LogConfig{
		Level:       appConfig.Log.Level,
		Environment: appConfig.Server.Env,
		ServiceName: appConfig.ServiceName,
	}); err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	log := logger.GetLogger()
	defer log.Sync()

	log.Info("Starting procurement-service", appConfig.LogConfig()...)

	// Initialize JWT utility
	jwtutil.Initialize(&appConfig.JWT)
	log.Info("JWT utility initialized")

	// Initialize Prometheus metrics
	prometheus.InitMetrics(appConfig)
	log.Info("Prometheus metrics initialized",
		zap.String("metrics_prefix", appConfig.Metrics.Prefix))

	// Initialize database (users and audit trail)
	if err := database.InitDB(appConfig); err != nil {
		log.Fatal("Failed to initialize database", zap.Error(err))
	}
	log.Info("Database connection established")

	// Initialize sheet gateway client and the shared record store
	gatewayClient := sheets.NewClient(&appConfig.Gateway, log)
	store.Init(store.New(gatewayClient, appConfig.Gateway.RefreshDelay, log))
	handler.Init(gatewayClient)
	log.Info("Sheet gateway client initialized",
		zap.String("base_url", appConfig.Gateway.BaseURL))

	// Initialize Echo instance
	e := echo.New()
	e.Validator = &requestValidator{validate: validator.New()}

	// Middleware
	e.Use(middleware.Recover())
	e.Use(mid.RequestIDMiddleware)
	e.Use(mid.MetricsMiddleware)

	// Metrics endpoint
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	// Health check endpoint
	e.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
	})

	// Authentication
	e.POST("/api/login", handler.Login)
	e.GET("/api/me", handler.Me, mid.AuthMiddleware)

	// Master configuration (vendors, departments, item taxonomies)
	e.GET("/api/masters", handler.GetMasterOptions, mid.AuthMiddleware)

	// Indent pipeline
	indentAPI := e.Group("/api/indents", mid.AuthMiddleware)
	indentAPI.POST("", handler.CreateIndent, mid.RequirePermission(model.PermIndentCreate))
	indentAPI.GET("/stage/:n", handler.IndentStageView)
	indentAPI.POST("/approve", handler.ApproveIndents, mid.RequirePermission(model.PermIndentApprove))
	indentAPI.POST("/stage/:n/complete", handler.CompleteIndentStage, mid.RequirePermission(model.PermGoodsReceive))

	// Three-party rate comparison
	quotationAPI := e.Group("/api/quotations", mid.AuthMiddleware)
	quotationAPI.POST("", handler.CreateQuotations, mid.RequirePermission(model.PermRateCompare))
	quotationAPI.GET("", handler.ListQuotations)
	quotationAPI.POST("/select", handler.SelectQuotation, mid.RequirePermission(model.PermRateCompare))

	// Purchase orders
	poAPI := e.Group("/api/purchase-orders", mid.AuthMiddleware)
	poAPI.POST("", handler.GeneratePurchaseOrder, mid.RequirePermission(model.PermPOGenerate))
	poAPI.GET("", handler.PurchaseOrderView)
	poAPI.POST("/decide", handler.DecidePurchaseOrder, mid.RequirePermission(model.PermPOApprove))
	poAPI.DELETE("/:poNumber", handler.DeletePurchaseOrder, mid.RequirePermission(model.PermPODelete))

	// Store-out pipeline
	storeOutAPI := e.Group("/api/store-outs", mid.AuthMiddleware)
	storeOutAPI.POST("", handler.CreateStoreOut, mid.RequirePermission(model.PermStoreOutCreate))
	storeOutAPI.GET("/stage/:n", handler.StoreOutStageView)
	storeOutAPI.POST("/approve", handler.ApproveStoreOuts, mid.RequirePermission(model.PermStoreOutApprove))
	storeOutAPI.POST("/issue", handler.IssueStoreOuts, mid.RequirePermission(model.PermStoreOutIssue))
	storeOutAPI.POST("/receipt", handler.AcknowledgeStoreOuts)

	// Start server
	port := appConfig.Server.Port
	log.Info("Starting server", zap.String("port", port))
	if err := e.Start(":" + port); err != nil {
		log.Fatal("Server error", zap.Error(err))
	}
}
