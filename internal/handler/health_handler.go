// internal/handler/health_handler.go
package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"printer-service/internal/config"
	"printer-service/internal/utils"
)

// HealthHandler handles health check requests
type HealthHandler struct {
	printerService PrinterService
	config         *config.Config
	logger         *utils.ServiceLogger
	startedAt      time.Time
}

// NewHealthHandler creates a new health handler
func NewHealthHandler(printerService PrinterService, config *config.Config, logger *zap.Logger) *HealthHandler {
	return &HealthHandler{
		printerService: printerService,
		config:         config,
		logger:         utils.NewServiceLogger(logger, "health-handler"),
		startedAt:      time.Now(),
	}
}

// HealthCheck performs general health check
// @Summary Health check
// @Description Service health including the bluetooth adapter and printer link
// @Tags Health
// @Produce json
// @Success 200 {object} HealthResponse "Service is healthy"
// @Failure 503 {object} HealthResponse "Bluetooth adapter unavailable"
// @Router /health [get]
func (h *HealthHandler) HealthCheck(c *gin.Context) {
	status := h.printerService.Status(c.Request.Context())

	health := &HealthResponse{
		Status:    "healthy",
		Timestamp: time.Now(),
		Service:   h.config.App.Name,
		Version:   h.config.App.Version,
		Uptime:    time.Since(h.startedAt).String(),
		Checks:    make(map[string]CheckResult),
	}

	switch {
	case !status.Available:
		health.Status = "unhealthy"
		health.Checks["bluetooth"] = CheckResult{Status: "unhealthy", Message: "Bluetooth adapter unavailable"}
	case !status.Enabled:
		health.Status = "degraded"
		health.Checks["bluetooth"] = CheckResult{Status: "degraded", Message: "Bluetooth adapter is switched off"}
	default:
		health.Checks["bluetooth"] = CheckResult{Status: "healthy", Message: "Bluetooth adapter OK"}
	}

	health.Checks["printer"] = CheckResult{
		Status: "healthy",
		Data: map[string]interface{}{
			"transport":     status.Transport,
			"state":         status.State.String(),
			"bytes_written": status.Stats.BytesWritten,
			"error_count":   status.Stats.ErrorCount,
		},
	}

	statusCode := http.StatusOK
	if health.Status == "unhealthy" {
		h.logger.Warn("Health check failed", zap.String("transport", status.Transport))
		statusCode = http.StatusServiceUnavailable
	}

	c.JSON(statusCode, health)
}

// ReadinessCheck for Kubernetes readiness probe
// @Summary Readiness check
// @Tags Health
// @Produce json
// @Success 200 {object} object{status=string,timestamp=string} "Service is ready"
// @Failure 503 {object} object{status=string,reason=string} "Service is not ready"
// @Router /ready [get]
func (h *HealthHandler) ReadinessCheck(c *gin.Context) {
	if !h.printerService.Status(c.Request.Context()).Available {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status": "not ready",
			"reason": "bluetooth adapter unavailable",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":    "ready",
		"timestamp": time.Now(),
	})
}

// LivenessCheck for Kubernetes liveness probe
// @Summary Liveness check
// @Tags Health
// @Produce json
// @Success 200 {object} object{status=string,timestamp=string} "Service is alive"
// @Router /live [get]
func (h *HealthHandler) LivenessCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":    "alive",
		"timestamp": time.Now(),
	})
}

// HealthResponse represents health check response
type HealthResponse struct {
	Status    string                 `json:"status"`
	Timestamp time.Time              `json:"timestamp"`
	Service   string                 `json:"service"`
	Version   string                 `json:"version"`
	Uptime    string                 `json:"uptime"`
	Checks    map[string]CheckResult `json:"checks"`
}

// CheckResult represents individual check result
type CheckResult struct {
	Status  string                 `json:"status"`
	Message string                 `json:"message,omitempty"`
	Data    map[string]interface{} `json:"data,omitempty"`
}
