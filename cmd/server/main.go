// cmd/server/main.go
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	_ "printer-service/docs"
	"printer-service/internal/config"
	"printer-service/internal/connection"
	"printer-service/internal/discovery"
	"printer-service/internal/driver"
	"printer-service/internal/model"
	"printer-service/internal/protocol"
	"printer-service/internal/receipt"
	"printer-service/internal/routes"
	"printer-service/internal/service"
	"printer-service/internal/utils"
)

// Application represents the main application
type Application struct {
	config *config.Config
	logger *zap.Logger
	server *http.Server
	router *routes.Router

	// Printer link
	transport  protocol.Transport
	paired     discovery.PairedRegistry
	dispatcher *connection.Dispatcher
	manager    *connection.Manager

	// Services
	printerService *service.PrinterService

	// Driver registry
	driverRegistry *driver.Registry
}

// @title Printer Service API
// @version 1.0.0
// @description Bluetooth SPP thermal receipt printing for Woosim and Honeywell printers

// @contact.name Printer Service API Support

// @license.name MIT
// @license.url https://opensource.org/licenses/MIT

// @host localhost:8085
// @BasePath /
func main() {
	configPath := flag.String("config", "", "path to config file")
	flag.Parse()

	app, err := NewApplication(*configPath)
	if err != nil {
		fmt.Printf("Failed to initialize application: %v\n", err)
		os.Exit(1)
	}

	if err := app.Start(); err != nil {
		app.logger.Fatal("Failed to start application", zap.Error(err))
	}
}

// NewApplication creates a new application instance
func NewApplication(configPath string) (*Application, error) {
	cfg, err := config.LoadFrom(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	logger, err := utils.NewLogger(&cfg.Logging)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	serviceLogger := utils.NewServiceLogger(logger, "printer-service")
	serviceLogger.LogServiceStart(cfg.App.Version, cfg)

	app := &Application{
		config: cfg,
		logger: logger,
	}

	if err := app.initializeDriverRegistry(); err != nil {
		return nil, fmt.Errorf("failed to initialize driver registry: %w", err)
	}

	if err := app.initializeConnection(); err != nil {
		return nil, fmt.Errorf("failed to initialize printer connection: %w", err)
	}

	if err := app.initializeServices(); err != nil {
		return nil, fmt.Errorf("failed to initialize services: %w", err)
	}

	if err := app.initializeServer(); err != nil {
		return nil, fmt.Errorf("failed to initialize server: %w", err)
	}

	return app, nil
}

// initializeDriverRegistry sets up the printer driver registry
func (app *Application) initializeDriverRegistry() error {
	app.driverRegistry = driver.NewRegistry(app.logger)
	driver.RegisterDefaultDrivers(app.driverRegistry, app.logger)

	models := make([]string, 0, len(model.PrinterModels()))
	for _, m := range model.PrinterModels() {
		if !app.driverRegistry.IsSupported(m) {
			return fmt.Errorf("no driver registered for %s", m)
		}
		models = append(models, string(m))
	}

	app.logger.Info("Driver registry initialized successfully",
		zap.Strings("printer_models", models),
	)
	return nil
}

// initializeConnection creates the transport, the paired registry and the
// connection manager with its event dispatcher
func (app *Application) initializeConnection() error {
	transport, err := protocol.NewTransport(&app.config.Bluetooth, app.logger)
	if err != nil {
		return err
	}
	app.transport = transport

	paired, err := discovery.NewPairedRegistry(&app.config.Bluetooth, app.logger)
	if err != nil {
		return err
	}
	app.paired = paired

	app.dispatcher = connection.NewDispatcher(app.logger)
	app.dispatcher.Subscribe(app.logEvent)
	app.manager = connection.NewManager(transport, app.dispatcher, app.logger, connection.Options{})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	app.logger.Info("Printer connection initialized",
		zap.String("transport", transport.Kind()),
		zap.String("paired_registry", paired.Kind()),
		zap.Bool("adapter_available", paired.IsAvailable(ctx)),
	)
	return nil
}

// initializeServices creates service instances
func (app *Application) initializeServices() error {
	composer := receipt.NewComposer(receipt.WaterBillNotice(app.config.Receipt), app.logger)

	app.printerService = service.NewPrinterService(
		app.paired,
		app.manager,
		app.driverRegistry,
		composer,
		app.config,
		app.logger,
	)

	app.logger.Info("Services initialized successfully")
	return nil
}

// initializeServer sets up HTTP server and routes
func (app *Application) initializeServer() error {
	app.router = routes.NewRouter(app.config, app.logger, app.printerService)

	app.server = &http.Server{
		Addr:         app.config.GetServerAddr(),
		Handler:      app.router.SetupRouter(),
		ReadTimeout:  app.config.Server.ReadTimeout,
		WriteTimeout: app.config.Server.WriteTimeout,
		IdleTimeout:  app.config.Server.IdleTimeout,
	}

	app.logger.Info("HTTP server initialized",
		zap.String("address", app.config.GetServerAddr()),
		zap.Bool("tls_enabled", app.config.Server.TLS.Enabled),
	)

	return nil
}

// logEvent records link events in the service log
func (app *Application) logEvent(e model.Event) {
	switch e.Type {
	case model.EventDataReceived:
		app.logger.Debug("Printer data received", zap.Int("bytes", len(e.Data)))
	case model.EventStateChanged:
		app.logger.Debug("Connection state changed",
			zap.String("from", e.From.String()),
			zap.String("to", e.To.String()),
		)
	case model.EventConnectionFailed, model.EventConnectionLost:
		app.logger.Warn("Printer link event",
			zap.String("event_type", string(e.Type)),
			zap.String("message", e.Message),
		)
	default:
		fields := []zap.Field{zap.String("event_type", string(e.Type))}
		if e.Device != nil {
			fields = append(fields, zap.String("device_address", e.Device.Address))
		}
		app.logger.Info("Printer link event", fields...)
	}
}

// waitForShutdown waits for shutdown signal and performs graceful shutdown
func (app *Application) waitForShutdown() {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	sig := <-quit
	app.logger.Info("Received shutdown signal", zap.String("signal", sig.String()))

	app.shutdown()
}

// shutdown performs graceful shutdown
func (app *Application) shutdown() {
	serviceLogger := utils.NewServiceLogger(app.logger, "printer-service")
	serviceLogger.LogServiceStop("shutdown signal received")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := app.server.Shutdown(ctx); err != nil {
		app.logger.Error("HTTP server shutdown error", zap.Error(err))
	} else {
		app.logger.Info("HTTP server stopped")
	}

	app.router.Close()

	// Closes the socket, waits for the workers and drains the event queue
	app.manager.Close()
	app.logger.Info("Printer connection closed")

	app.logger.Info("Application shutdown completed")

	if err := utils.CloseLogger(app.logger); err != nil {
		fmt.Printf("Logger close error: %v\n", err)
	}
}

// Start serves HTTP until a shutdown signal arrives
func (app *Application) Start() error {
	go func() {
		app.logger.Info("Starting HTTP server",
			zap.String("address", app.server.Addr),
		)

		var err error
		if app.config.Server.TLS.Enabled {
			err = app.server.ListenAndServeTLS(
				app.config.Server.TLS.CertFile,
				app.config.Server.TLS.KeyFile,
			)
		} else {
			err = app.server.ListenAndServe()
		}

		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			app.logger.Fatal("Failed to start HTTP server", zap.Error(err))
		}
	}()

	app.waitForShutdown()

	return nil
}
