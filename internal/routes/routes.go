// internal/routes/routes.go
package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"
	swaggerfiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	"printer-service/internal/config"
	"printer-service/internal/handler"
	"printer-service/internal/middleware"
	"printer-service/internal/utils"
)

// Router holds all dependencies for routing
type Router struct {
	config         *config.Config
	logger         *zap.Logger
	printerService handler.PrinterService

	wsHandler *handler.WebSocketHandler
}

// NewRouter creates a new router instance
func NewRouter(
	config *config.Config,
	logger *zap.Logger,
	printerService handler.PrinterService,
) *Router {
	return &Router{
		config:         config,
		logger:         logger,
		printerService: printerService,
	}
}

// SetupRouter creates and configures the Gin router
func (r *Router) SetupRouter() *gin.Engine {
	switch {
	case r.config.IsProduction():
		gin.SetMode(gin.ReleaseMode)
	case gin.Mode() == gin.TestMode:
	case r.config.IsDebugEnabled():
		gin.SetMode(gin.DebugMode)
	default:
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()

	r.addMiddleware(router)
	r.addRoutes(router)

	return router
}

// Close disconnects the WebSocket clients
func (r *Router) Close() {
	if r.wsHandler != nil {
		r.wsHandler.Close()
	}
}

// addMiddleware adds middleware to the router
func (r *Router) addMiddleware(router *gin.Engine) {
	router.Use(middleware.RecoveryMiddleware(r.logger))
	router.Use(middleware.RequestIDMiddleware())

	serviceLogger := utils.NewServiceLogger(r.logger, "http-server")
	router.Use(middleware.LoggingMiddleware(serviceLogger))

	router.Use(middleware.CORSMiddleware(&r.config.Security))

	r.logger.Info("Middleware configured")
}

// addRoutes sets up all application routes
func (r *Router) addRoutes(router *gin.Engine) {
	healthHandler := handler.NewHealthHandler(r.printerService, r.config, r.logger)
	bluetoothHandler := handler.NewBluetoothHandler(r.printerService, r.logger)
	printHandler := handler.NewPrintHandler(r.printerService, r.logger)
	r.wsHandler = handler.NewWebSocketHandler(r.printerService, &r.config.Security, r.logger)

	r.addHealthRoutes(router, healthHandler)

	apiV1 := router.Group("/api/v1")
	r.addBluetoothRoutes(apiV1, bluetoothHandler)
	r.addPrintRoutes(apiV1, printHandler)
	r.addWebSocketRoutes(apiV1, r.wsHandler)

	r.addDocumentationRoutes(router)

	r.logger.Info("All routes configured successfully")
}

// addHealthRoutes sets up health check routes
func (r *Router) addHealthRoutes(router *gin.Engine, handler *handler.HealthHandler) {
	health := router.Group("")
	{
		health.GET("/health", handler.HealthCheck)
		health.GET("/ready", handler.ReadinessCheck)
		health.GET("/live", handler.LivenessCheck)
	}
}

// addBluetoothRoutes sets up adapter and link routes
func (r *Router) addBluetoothRoutes(api *gin.RouterGroup, handler *handler.BluetoothHandler) {
	bluetooth := api.Group("/bluetooth")
	{
		bluetooth.GET("/status", handler.GetStatus)
		bluetooth.GET("/devices", handler.ListDevices)
		bluetooth.POST("/connect", handler.Connect)
		bluetooth.POST("/disconnect", handler.Disconnect)
	}
}

// addPrintRoutes sets up print job routes
func (r *Router) addPrintRoutes(api *gin.RouterGroup, handler *handler.PrintHandler) {
	api.POST("/print", handler.Print)
	api.POST("/print/preview", handler.Preview)
	api.GET("/printers/models", handler.ListModels)
}

// addWebSocketRoutes sets up WebSocket routes
func (r *Router) addWebSocketRoutes(api *gin.RouterGroup, handler *handler.WebSocketHandler) {
	ws := api.Group("/ws")
	{
		ws.GET("/events", handler.HandleEventConnection)
		ws.GET("/stats", handler.GetConnectionStats)
	}
}

// addDocumentationRoutes sets up documentation routes
func (r *Router) addDocumentationRoutes(router *gin.Engine) {
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerfiles.Handler))

	router.GET("/docs", func(c *gin.Context) {
		c.Redirect(http.StatusMovedPermanently, "/swagger/index.html")
	})
}
