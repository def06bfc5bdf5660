// internal/middleware/recovery_middleware.go
package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"printer-service/internal/utils"
)

// Context keys handlers set so a panic can be tied to the printer involved
const (
	PrinterModelKey  = "printer_model"
	DeviceAddressKey = "device_address"
)

// RecoveryMiddleware logs a handler panic with the route and printer
// context, then answers with a 500 envelope
func RecoveryMiddleware(logger *zap.Logger) gin.HandlerFunc {
	logger = logger.With(zap.String("component", "http"))

	return gin.CustomRecovery(func(c *gin.Context, recovered interface{}) {
		fields := []zap.Field{
			zap.Any("panic", recovered),
			zap.String("route", c.FullPath()),
			zap.String("request_id", c.GetString(RequestIDKey)),
		}
		for _, key := range []string{PrinterModelKey, DeviceAddressKey} {
			if v := c.GetString(key); v != "" {
				fields = append(fields, zap.String(key, v))
			}
		}
		logger.Error("Handler panicked", append(fields, zap.Stack("stacktrace"))...)

		utils.ErrorResponse(c, http.StatusInternalServerError, "Internal server error", nil)
		c.Abort()
	})
}
