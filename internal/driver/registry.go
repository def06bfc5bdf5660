// internal/driver/registry.go
package driver

import (
	"fmt"
	"slices"
	"sync"

	"go.uber.org/zap"

	"printer-service/internal/model"
	"printer-service/pkg/driver"
)

// DriverFactory creates a printer driver bound to a connection writer
type DriverFactory func(opts driver.Options, writer driver.Writer, logger *zap.Logger) (driver.PrinterDriver, error)

type registration struct {
	info    driver.Info
	factory DriverFactory
}

// Registry manages printer driver registration and creation
type Registry struct {
	drivers map[model.PrinterModel]registration
	mu      sync.RWMutex
	logger  *zap.Logger
}

// NewRegistry creates a new driver registry
func NewRegistry(logger *zap.Logger) *Registry {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Registry{
		drivers: make(map[model.PrinterModel]registration),
		logger:  logger,
	}
}

// Register registers a driver factory. Registering a model twice replaces
// the earlier factory.
func (r *Registry) Register(info driver.Info, factory DriverFactory) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.drivers[info.Model] = registration{info: info, factory: factory}
	r.logger.Info("Driver registered",
		zap.String("model", string(info.Model)),
		zap.String("name", info.Name),
		zap.Int("page_width", info.PageWidth),
	)
}

// CreateDriver creates a driver instance for m
func (r *Registry) CreateDriver(m model.PrinterModel, opts driver.Options, writer driver.Writer) (driver.PrinterDriver, error) {
	r.mu.RLock()
	reg, exists := r.drivers[m]
	r.mu.RUnlock()

	if !exists {
		return nil, fmt.Errorf("%w: %s", driver.ErrUnsupportedPrinterModel, m)
	}
	return reg.factory(opts, writer, r.logger.With(zap.String("printer_model", string(m))))
}

// Info returns the description of a registered model
func (r *Registry) Info(m model.PrinterModel) (driver.Info, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	reg, exists := r.drivers[m]
	return reg.info, exists
}

// ListDrivers returns all registered drivers sorted by model
func (r *Registry) ListDrivers() []driver.Info {
	r.mu.RLock()
	defer r.mu.RUnlock()

	infos := make([]driver.Info, 0, len(r.drivers))
	for _, reg := range r.drivers {
		infos = append(infos, reg.info)
	}
	slices.SortFunc(infos, func(a, b driver.Info) int {
		switch {
		case a.Model < b.Model:
			return -1
		case a.Model > b.Model:
			return 1
		}
		return 0
	})
	return infos
}

// IsSupported checks if a model has a registered driver
func (r *Registry) IsSupported(m model.PrinterModel) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	_, exists := r.drivers[m]
	return exists
}
