// internal/utils/logger.go
package utils

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"

	"printer-service/internal/config"
)

const defaultLogFile = "./logs/printer-service.log"

// NewLogger builds the process logger from the logging section
func NewLogger(cfg *config.LoggingConfig) (*zap.Logger, error) {
	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return nil, fmt.Errorf("failed to parse log level: %w", err)
	}

	sink, err := logSink(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create log output: %w", err)
	}

	core := zapcore.NewCore(logEncoder(cfg.Format), sink, level)
	return zap.New(core,
		zap.AddCaller(),
		zap.AddStacktrace(zapcore.ErrorLevel),
	), nil
}

func logEncoder(format string) zapcore.Encoder {
	enc := zap.NewProductionEncoderConfig()
	enc.TimeKey = "timestamp"
	enc.MessageKey = "message"
	enc.EncodeTime = zapcore.TimeEncoderOfLayout(time.RFC3339)
	enc.EncodeLevel = zapcore.LowercaseLevelEncoder
	enc.EncodeCaller = zapcore.ShortCallerEncoder

	if format == "console" {
		enc.EncodeLevel = zapcore.CapitalColorLevelEncoder
		enc.EncodeTime = zapcore.TimeEncoderOfLayout("2006-01-02 15:04:05")
		return zapcore.NewConsoleEncoder(enc)
	}
	return zapcore.NewJSONEncoder(enc)
}

// logSink resolves stdout, stderr or a rotated file
func logSink(cfg *config.LoggingConfig) (zapcore.WriteSyncer, error) {
	switch cfg.Output {
	case "stdout":
		return zapcore.AddSync(os.Stdout), nil
	case "stderr":
		return zapcore.AddSync(os.Stderr), nil
	}

	path := cfg.Output
	if path == "" {
		path = defaultLogFile
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create log directory: %w", err)
	}

	return zapcore.AddSync(&lumberjack.Logger{
		Filename:   path,
		MaxSize:    cfg.MaxSize, // MB
		MaxBackups: cfg.MaxBackups,
		MaxAge:     cfg.MaxAge, // days
		Compress:   cfg.Compress,
	}), nil
}

// DeviceLogger tags every entry with the remote printer
type DeviceLogger struct {
	*zap.Logger
	address string
}

// NewDeviceLogger creates a logger for one printer session
func NewDeviceLogger(baseLogger *zap.Logger, address, name string) *DeviceLogger {
	return &DeviceLogger{
		Logger: baseLogger.With(
			zap.String("component", "printer-link"),
			zap.String("device_address", address),
			zap.String("device_name", name),
		),
		address: address,
	}
}

// LogConnection records a socket lifecycle step. socketType is
// Secure or Insecure.
func (dl *DeviceLogger) LogConnection(action, socketType string, success bool, err error) {
	fields := []zap.Field{
		zap.String("action", action),
		zap.String("socket_type", socketType),
		zap.Bool("success", success),
	}
	if err != nil {
		dl.Warn("Printer link "+action+" failed", append(fields, zap.Error(err))...)
		return
	}
	dl.Info("Printer link "+action, fields...)
}

// LogTransfer records bytes moved over the link
func (dl *DeviceLogger) LogTransfer(direction string, bytes int, duration time.Duration) {
	dl.Debug("Printer link transfer",
		zap.String("direction", direction),
		zap.Int("bytes", bytes),
		zap.Duration("duration", duration),
	)
}

// OperationLogger times a single print job
type OperationLogger struct {
	logger    *zap.Logger
	startTime time.Time
}

// NewOperationLogger creates a logger for the job identified by operationID
func NewOperationLogger(baseLogger *zap.Logger, operationType, operationID string) *OperationLogger {
	return &OperationLogger{
		logger: baseLogger.With(
			zap.String("component", "job"),
			zap.String("operation_type", operationType),
			zap.String("operation_id", operationID),
		),
		startTime: time.Now(),
	}
}

func (ol *OperationLogger) Start(fields ...zap.Field) {
	ol.logger.Info("Job started", fields...)
}

func (ol *OperationLogger) Success(fields ...zap.Field) {
	ol.logger.Info("Job completed",
		append([]zap.Field{zap.Duration("duration", time.Since(ol.startTime))}, fields...)...)
}

func (ol *OperationLogger) Error(err error, fields ...zap.Field) {
	ol.logger.Error("Job failed",
		append([]zap.Field{zap.Duration("duration", time.Since(ol.startTime)), zap.Error(err)}, fields...)...)
}

// Progress logs an intermediate step at debug level
func (ol *OperationLogger) Progress(message string, fields ...zap.Field) {
	ol.logger.Debug(message,
		append([]zap.Field{zap.Duration("elapsed", time.Since(ol.startTime))}, fields...)...)
}

// ServiceLogger is a component logger for services and handlers
type ServiceLogger struct {
	*zap.Logger
}

// NewServiceLogger creates a logger tagged with the service name
func NewServiceLogger(baseLogger *zap.Logger, serviceName string) *ServiceLogger {
	return &ServiceLogger{
		Logger: baseLogger.With(
			zap.String("service", serviceName),
			zap.String("component", "service"),
		),
	}
}

func (sl *ServiceLogger) LogServiceStart(version string, cfg *config.Config) {
	sl.Info("Service starting",
		zap.String("version", version),
		zap.String("transport", cfg.Bluetooth.Transport),
		zap.String("charset", cfg.Printer.Charset),
		zap.String("listen", cfg.GetServerAddr()),
	)
}

func (sl *ServiceLogger) LogServiceStop(reason string) {
	sl.Info("Service stopping", zap.String("reason", reason))
}

// LogAPIRequest logs an HTTP request at a level chosen from its status
func (sl *ServiceLogger) LogAPIRequest(method, path, userAgent, clientIP, requestID string, statusCode int, duration time.Duration) {
	level := zapcore.InfoLevel
	switch {
	case statusCode >= 500:
		level = zapcore.ErrorLevel
	case statusCode >= 400:
		level = zapcore.WarnLevel
	}

	if ce := sl.Check(level, "API request"); ce != nil {
		ce.Write(
			zap.String("method", method),
			zap.String("path", path),
			zap.String("user_agent", userAgent),
			zap.String("client_ip", clientIP),
			zap.String("request_id", requestID),
			zap.Int("status_code", statusCode),
			zap.Duration("duration", duration),
		)
	}
}

// CloseLogger flushes buffered entries
func CloseLogger(logger *zap.Logger) error {
	return logger.Sync()
}
