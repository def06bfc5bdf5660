// internal/driver/registry_init.go
package driver

import (
	"go.uber.org/zap"

	"printer-service/internal/driver/honeywell"
	"printer-service/internal/driver/pr3"
	"printer-service/internal/driver/woosim"
)

// RegisterDefaultDrivers registers all built in printer drivers
func RegisterDefaultDrivers(registry *Registry, logger *zap.Logger) {
	registry.Register(woosim.Info(), woosim.NewWoosimDriver)
	registry.Register(honeywell.Info(), honeywell.NewHoneywell0188Driver)
	registry.Register(pr3.Info(), pr3.NewPR3Driver)

	logger.Info("Printer drivers registered",
		zap.Int("models", len(registry.ListDrivers())),
	)
}
