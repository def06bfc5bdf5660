// internal/handler/bluetooth_handler.go
package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"printer-service/internal/connection"
	"printer-service/internal/middleware"
	"printer-service/internal/model"
	"printer-service/internal/receipt"
	"printer-service/internal/service"
	"printer-service/internal/utils"
	"printer-service/pkg/driver"
)

// PrinterService is the service surface the handlers use
type PrinterService interface {
	Status(ctx context.Context) service.Status
	ListPairedDevices(ctx context.Context) ([]model.Device, error)
	Connect(ctx context.Context, address string, secure bool) error
	Disconnect()
	State() model.ConnectionState
	Subscribe(l connection.Listener) (unsubscribe func())
	ListModels() []driver.Info
	PrintJob(ctx context.Context, printerModel string, fields receipt.Fields) (*service.PrintResult, error)
	Preview(ctx context.Context, printerModel string, fields receipt.Fields) (*service.Preview, error)
}

// ConnectRequest selects a paired printer
type ConnectRequest struct {
	Address string `json:"address" binding:"required" example:"00:11:22:33:44:55"`
	Secure  bool   `json:"secure"`
}

// BluetoothHandler handles adapter, paired device and link requests
type BluetoothHandler struct {
	printerService PrinterService
	logger         *utils.ServiceLogger
}

// NewBluetoothHandler creates a new bluetooth handler
func NewBluetoothHandler(printerService PrinterService, logger *zap.Logger) *BluetoothHandler {
	return &BluetoothHandler{
		printerService: printerService,
		logger:         utils.NewServiceLogger(logger, "bluetooth-handler"),
	}
}

// GetStatus reports the adapter and the link
// @Summary Bluetooth status
// @Description Adapter availability, power state and the printer connection state
// @Tags Bluetooth
// @Produce json
// @Success 200 {object} utils.APIResponse{data=service.Status} "Status retrieved"
// @Router /api/v1/bluetooth/status [get]
func (h *BluetoothHandler) GetStatus(c *gin.Context) {
	utils.SuccessResponse(c, http.StatusOK, "Status retrieved", h.printerService.Status(c.Request.Context()))
}

// ListDevices lists the paired devices
// @Summary List paired devices
// @Description Devices already bonded with the host adapter
// @Tags Bluetooth
// @Produce json
// @Success 200 {object} utils.APIResponse{data=object{count=int,devices=[]model.Device}} "Paired devices"
// @Failure 403 {object} utils.APIResponse "Bluetooth permission denied"
// @Failure 503 {object} utils.APIResponse "Adapter missing or switched off"
// @Router /api/v1/bluetooth/devices [get]
func (h *BluetoothHandler) ListDevices(c *gin.Context) {
	devices, err := h.printerService.ListPairedDevices(c.Request.Context())
	if err != nil {
		h.logger.Warn("Failed to list paired devices", zap.Error(err))
		utils.ErrorResponse(c, statusFor(err), "Failed to list paired devices", err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Paired devices retrieved", gin.H{
		"count":   len(devices),
		"devices": devices,
	})
}

// Connect starts connecting to a paired printer
// @Summary Connect to a printer
// @Description Starts an asynchronous connect. The outcome is published on /ws/events.
// @Tags Bluetooth
// @Accept json
// @Produce json
// @Param request body ConnectRequest true "Printer address"
// @Success 202 {object} utils.APIResponse "Connect started"
// @Failure 400 {object} utils.APIResponse "Invalid request"
// @Failure 403 {object} utils.APIResponse "Bluetooth permission denied"
// @Failure 404 {object} utils.APIResponse "Device is not paired"
// @Router /api/v1/bluetooth/connect [post]
func (h *BluetoothHandler) Connect(c *gin.Context) {
	var req ConnectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	c.Set(middleware.DeviceAddressKey, req.Address)

	if err := h.printerService.Connect(c.Request.Context(), req.Address, req.Secure); err != nil {
		utils.ErrorResponse(c, statusFor(err), "Failed to connect", err)
		return
	}

	utils.SuccessResponse(c, http.StatusAccepted, "Connect started", gin.H{
		"address":     req.Address,
		"socket_type": model.SocketType(req.Secure),
		"state":       h.printerService.State(),
	})
}

// Disconnect closes the printer link
// @Summary Disconnect the printer
// @Tags Bluetooth
// @Produce json
// @Success 200 {object} utils.APIResponse "Disconnected"
// @Router /api/v1/bluetooth/disconnect [post]
func (h *BluetoothHandler) Disconnect(c *gin.Context) {
	h.printerService.Disconnect()
	utils.SuccessResponse(c, http.StatusOK, "Disconnected", gin.H{
		"state": h.printerService.State(),
	})
}
