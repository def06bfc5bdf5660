// internal/discovery/registry.go
package discovery

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"printer-service/internal/config"
	"printer-service/internal/discovery/bluez"
	"printer-service/internal/discovery/serial"
	"printer-service/internal/model"
)

// PairedRegistry is the platform registry of previously paired devices.
// Pairing itself happens outside this service.
type PairedRegistry interface {
	Kind() string
	IsAvailable(ctx context.Context) bool
	IsEnabled(ctx context.Context) bool
	PairedDevices(ctx context.Context) ([]model.Device, error)
}

// NewPairedRegistry picks the registry matching the configured transport
func NewPairedRegistry(cfg *config.BluetoothConfig, logger *zap.Logger) (PairedRegistry, error) {
	var registry PairedRegistry
	switch cfg.Transport {
	case config.TransportRFCOMM:
		registry = bluez.NewRegistry(cfg.Adapter, logger)
	case config.TransportSerial:
		registry = serial.NewRegistry(cfg.Serial.Ports, logger)
	default:
		return nil, fmt.Errorf("unsupported transport: %s", cfg.Transport)
	}

	logger.Info("Paired device registry created", zap.String("type", registry.Kind()))
	return registry, nil
}

// FindDevice looks address up among the paired devices, ignoring case
func FindDevice(ctx context.Context, registry PairedRegistry, address string) (model.Device, error) {
	devices, err := registry.PairedDevices(ctx)
	if err != nil {
		return model.Device{}, err
	}
	for _, d := range devices {
		if strings.EqualFold(d.Address, address) {
			return d, nil
		}
	}
	return model.Device{}, fmt.Errorf("%w: %s", model.ErrDeviceNotFound, address)
}
