// internal/handler/errors.go
package handler

import (
	"context"
	"errors"
	"net/http"

	"printer-service/internal/model"
	"printer-service/pkg/driver"
)

// statusFor maps service errors to HTTP status codes
func statusFor(err error) int {
	switch {
	case errors.Is(err, model.ErrPermissionDenied):
		return http.StatusForbidden
	case errors.Is(err, model.ErrDeviceNotFound):
		return http.StatusNotFound
	case errors.Is(err, driver.ErrUnsupportedPrinterModel),
		errors.Is(err, driver.ErrNotSupported),
		errors.Is(err, driver.ErrBufferOverflow):
		return http.StatusBadRequest
	case errors.Is(err, model.ErrTransportUnavailable),
		errors.Is(err, model.ErrTransportDisabled),
		errors.Is(err, model.ErrManagerClosed):
		return http.StatusServiceUnavailable
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return http.StatusRequestTimeout
	default:
		return http.StatusInternalServerError
	}
}
