// internal/discovery/serial/registry.go
package serial

import (
	"context"
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"go.bug.st/serial/enumerator"
	"go.uber.org/zap"

	"printer-service/internal/model"
)

// Registry treats every configured address whose port is present on the
// system as a paired device
type Registry struct {
	ports  map[string]string
	logger *zap.Logger
	// list is enumerator.GetDetailedPortsList, replaced in tests
	list func() ([]*enumerator.PortDetails, error)
}

// NewRegistry creates a registry over the address to port bindings
func NewRegistry(ports map[string]string, logger *zap.Logger) *Registry {
	return &Registry{
		ports:  ports,
		logger: logger.With(zap.String("registry", "serial")),
		list:   enumerator.GetDetailedPortsList,
	}
}

func (r *Registry) Kind() string {
	return "serial"
}

// IsAvailable reports whether serial ports can be enumerated
func (r *Registry) IsAvailable(ctx context.Context) bool {
	_, err := r.list()
	return err == nil
}

// IsEnabled is the same as IsAvailable, a tty has no power switch
func (r *Registry) IsEnabled(ctx context.Context) bool {
	return r.IsAvailable(ctx)
}

// PairedDevices lists bound devices whose port currently exists
func (r *Registry) PairedDevices(ctx context.Context) ([]model.Device, error) {
	ports, err := r.list()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", model.ErrTransportUnavailable, err)
	}

	present := make(map[string]*enumerator.PortDetails, len(ports))
	for _, p := range ports {
		present[p.Name] = p
	}

	devices := []model.Device{}
	for addr, portName := range r.ports {
		details, ok := present[portName]
		if !ok {
			r.logger.Debug("Bound port not present", zap.String("address", addr), zap.String("port", portName))
			continue
		}
		name := details.Product
		if name == "" {
			name = filepath.Base(portName)
		}
		devices = append(devices, model.Device{Name: name, Address: strings.ToUpper(addr)})
	}

	sort.Slice(devices, func(i, j int) bool {
		return devices[i].Address < devices[j].Address
	})
	return devices, nil
}
