// internal/discovery/bluez/registry.go
package bluez

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/godbus/dbus/v5"
	"go.uber.org/zap"

	"printer-service/internal/model"
)

const (
	service          = "org.bluez"
	adapterInterface = "org.bluez.Adapter1"
	deviceInterface  = "org.bluez.Device1"
	getManaged       = "org.freedesktop.DBus.ObjectManager.GetManagedObjects"

	errAccessDenied   = "org.freedesktop.DBus.Error.AccessDenied"
	errServiceUnknown = "org.freedesktop.DBus.Error.ServiceUnknown"
)

// ManagedObjects is the reply of ObjectManager.GetManagedObjects: object
// path -> interface -> property -> value
type ManagedObjects map[dbus.ObjectPath]map[string]map[string]dbus.Variant

// Registry reads the paired devices of one adapter from BlueZ
type Registry struct {
	adapter dbus.ObjectPath
	logger  *zap.Logger
	// objects fetches the BlueZ object tree, replaced in tests
	objects func(ctx context.Context) (ManagedObjects, error)
}

// NewRegistry creates a registry for adapter (for example "hci0") on the
// system bus
func NewRegistry(adapter string, logger *zap.Logger) *Registry {
	return &Registry{
		adapter: dbus.ObjectPath("/org/bluez/" + adapter),
		logger:  logger.With(zap.String("registry", "bluez"), zap.String("adapter", adapter)),
		objects: systemBusObjects,
	}
}

func systemBusObjects(ctx context.Context) (ManagedObjects, error) {
	conn, err := dbus.SystemBus()
	if err != nil {
		return nil, err
	}
	var objects ManagedObjects
	err = conn.Object(service, "/").CallWithContext(ctx, getManaged, 0).Store(&objects)
	return objects, err
}

func (r *Registry) Kind() string {
	return "bluez"
}

// load maps D-Bus failures onto the transport errors
func (r *Registry) load(ctx context.Context) (ManagedObjects, map[string]dbus.Variant, error) {
	objects, err := r.objects(ctx)
	if err != nil {
		switch errorName(err) {
		case errAccessDenied:
			return nil, nil, fmt.Errorf("%w: %v", model.ErrPermissionDenied, err)
		case errServiceUnknown:
			return nil, nil, fmt.Errorf("%w: bluetoothd is not running", model.ErrTransportUnavailable)
		}
		return nil, nil, fmt.Errorf("%w: %v", model.ErrTransportUnavailable, err)
	}

	adapter, ok := objects[r.adapter][adapterInterface]
	if !ok {
		return nil, nil, fmt.Errorf("%w: adapter %s not found", model.ErrTransportUnavailable, r.adapter)
	}
	return objects, adapter, nil
}

// IsAvailable reports whether the adapter exists
func (r *Registry) IsAvailable(ctx context.Context) bool {
	_, _, err := r.load(ctx)
	if err != nil {
		r.logger.Debug("Adapter not available", zap.Error(err))
	}
	return err == nil
}

// IsEnabled reports whether the adapter is powered
func (r *Registry) IsEnabled(ctx context.Context) bool {
	_, adapter, err := r.load(ctx)
	if err != nil {
		return false
	}
	return boolProp(adapter, "Powered")
}

// PairedDevices lists devices of the adapter with Paired set, sorted by
// address
func (r *Registry) PairedDevices(ctx context.Context) ([]model.Device, error) {
	objects, adapter, err := r.load(ctx)
	if err != nil {
		return nil, err
	}
	if !boolProp(adapter, "Powered") {
		return nil, fmt.Errorf("%w: adapter %s is powered off", model.ErrTransportDisabled, r.adapter)
	}

	devices := []model.Device{}
	for _, ifaces := range objects {
		props, ok := ifaces[deviceInterface]
		if !ok || !boolProp(props, "Paired") {
			continue
		}
		if owner, ok := props["Adapter"].Value().(dbus.ObjectPath); ok && owner != r.adapter {
			continue
		}

		address := stringProp(props, "Address")
		if address == "" {
			continue
		}
		name := stringProp(props, "Alias")
		if name == "" {
			name = stringProp(props, "Name")
		}
		devices = append(devices, model.Device{Name: name, Address: address})
	}

	sort.Slice(devices, func(i, j int) bool {
		return devices[i].Address < devices[j].Address
	})

	r.logger.Debug("Paired devices listed", zap.Int("count", len(devices)))
	return devices, nil
}

// errorName returns the D-Bus error name of err, replies carry it by value
// and NewError by pointer
func errorName(err error) string {
	var value dbus.Error
	if errors.As(err, &value) {
		return value.Name
	}
	var ptr *dbus.Error
	if errors.As(err, &ptr) {
		return ptr.Name
	}
	return ""
}

func boolProp(props map[string]dbus.Variant, name string) bool {
	v, _ := props[name].Value().(bool)
	return v
}

func stringProp(props map[string]dbus.Variant, name string) string {
	v, _ := props[name].Value().(string)
	return v
}
