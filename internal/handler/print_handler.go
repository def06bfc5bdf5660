// internal/handler/print_handler.go
package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"printer-service/internal/middleware"
	"printer-service/internal/receipt"
	"printer-service/internal/utils"
)

// PrintRequest names the printer model and carries the receipt fields
type PrintRequest struct {
	PrinterModel string         `json:"printer_model" binding:"required" example:"WOOSIM_WSP_i350"`
	Fields       receipt.Fields `json:"fields" swaggertype:"object,string"`
}

// PrintHandler handles print job requests
type PrintHandler struct {
	printerService PrinterService
	logger         *utils.ServiceLogger
}

// NewPrintHandler creates a new print handler
func NewPrintHandler(printerService PrinterService, logger *zap.Logger) *PrintHandler {
	return &PrintHandler{
		printerService: printerService,
		logger:         utils.NewServiceLogger(logger, "print-handler"),
	}
}

// Print encodes a receipt and sends it to the connected printer
// @Summary Print a receipt
// @Description Encodes the water bill notice for the model and hands it to the printer link.
// @Description A job sent while no printer is connected is dropped; the result reports the link state.
// @Tags Print
// @Accept json
// @Produce json
// @Param request body PrintRequest true "Printer model and receipt fields"
// @Success 200 {object} utils.APIResponse{data=service.PrintResult} "Print job sent"
// @Failure 400 {object} utils.APIResponse "Unsupported printer model or job too large"
// @Router /api/v1/print [post]
func (h *PrintHandler) Print(c *gin.Context) {
	var req PrintRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	c.Set(middleware.PrinterModelKey, req.PrinterModel)

	result, err := h.printerService.PrintJob(c.Request.Context(), req.PrinterModel, req.Fields)
	if err != nil {
		h.logger.Error("Print job failed",
			zap.String("printer_model", req.PrinterModel),
			zap.Error(err),
		)
		utils.ErrorResponse(c, statusFor(err), "Print job failed", err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Print job sent", result)
}

// Preview encodes a receipt without sending it
// @Summary Preview a print job
// @Description Returns the encoded byte stream (base64) for diagnostics
// @Tags Print
// @Accept json
// @Produce json
// @Param request body PrintRequest true "Printer model and receipt fields"
// @Success 200 {object} utils.APIResponse{data=service.Preview} "Print job encoded"
// @Failure 400 {object} utils.APIResponse "Unsupported printer model or job too large"
// @Router /api/v1/print/preview [post]
func (h *PrintHandler) Preview(c *gin.Context) {
	var req PrintRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	c.Set(middleware.PrinterModelKey, req.PrinterModel)

	preview, err := h.printerService.Preview(c.Request.Context(), req.PrinterModel, req.Fields)
	if err != nil {
		utils.ErrorResponse(c, statusFor(err), "Preview failed", err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Print job encoded", preview)
}

// ListModels lists the supported printer models
// @Summary Supported printer models
// @Tags Print
// @Produce json
// @Success 200 {object} utils.APIResponse{data=[]driver.Info} "Supported models"
// @Router /api/v1/printers/models [get]
func (h *PrintHandler) ListModels(c *gin.Context) {
	utils.SuccessResponse(c, http.StatusOK, "Supported printer models", h.printerService.ListModels())
}
