// internal/service/printer_service.go
package service

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"printer-service/internal/config"
	"printer-service/internal/connection"
	"printer-service/internal/discovery"
	internalDriver "printer-service/internal/driver"
	"printer-service/internal/model"
	"printer-service/internal/protocol"
	"printer-service/internal/receipt"
	"printer-service/internal/utils"
	"printer-service/pkg/driver"
)

// ConnectionManager is the part of connection.Manager the service drives
type ConnectionManager interface {
	State() model.ConnectionState
	Device() (model.Device, bool)
	Stats() protocol.Stats
	Subscribe(l connection.Listener) (unsubscribe func())
	Connect(device model.Device, secure bool) error
	Disconnect()
	Write(data []byte)
}

// PrintResult describes a job handed to the connection
type PrintResult struct {
	JobID        uuid.UUID             `json:"job_id"`
	PrinterModel model.PrinterModel    `json:"printer_model"`
	Bytes        int                   `json:"bytes"`
	State        model.ConnectionState `json:"state"`
}

// Preview is an encoded job that was not sent
type Preview struct {
	PrinterModel model.PrinterModel `json:"printer_model"`
	Data         []byte             `json:"data"`
}

// Status summarises the Bluetooth side
type Status struct {
	Transport string                `json:"transport"`
	Available bool                  `json:"available"`
	Enabled   bool                  `json:"enabled"`
	State     model.ConnectionState `json:"state"`
	Device    *model.Device         `json:"device,omitempty"`
	Stats     protocol.Stats        `json:"stats"`
}

// PrinterService handles paired-device lookup, the printer link and
// print jobs
type PrinterService struct {
	paired   discovery.PairedRegistry
	manager  ConnectionManager
	drivers  *internalDriver.Registry
	composer *receipt.Composer
	config   *config.Config
	logger   *utils.ServiceLogger

	// one job at a time on the link
	printMu sync.Mutex
}

// NewPrinterService creates a new printer service instance
func NewPrinterService(
	paired discovery.PairedRegistry,
	manager ConnectionManager,
	drivers *internalDriver.Registry,
	composer *receipt.Composer,
	config *config.Config,
	logger *zap.Logger,
) *PrinterService {
	return &PrinterService{
		paired:   paired,
		manager:  manager,
		drivers:  drivers,
		composer: composer,
		config:   config,
		logger:   utils.NewServiceLogger(logger, "printer-service"),
	}
}

// IsTransportAvailable reports whether the host has a usable adapter
func (ps *PrinterService) IsTransportAvailable(ctx context.Context) bool {
	return ps.paired.IsAvailable(ctx)
}

// IsTransportEnabled reports whether the adapter is switched on
func (ps *PrinterService) IsTransportEnabled(ctx context.Context) bool {
	return ps.paired.IsEnabled(ctx)
}

// Status reports transport availability and the link state
func (ps *PrinterService) Status(ctx context.Context) Status {
	st := Status{
		Transport: ps.paired.Kind(),
		Available: ps.IsTransportAvailable(ctx),
		State:     ps.manager.State(),
		Stats:     ps.manager.Stats(),
	}
	if st.Available {
		st.Enabled = ps.IsTransportEnabled(ctx)
	}
	if d, ok := ps.manager.Device(); ok {
		st.Device = &d
	}
	return st
}

// ListPairedDevices returns the devices already bonded with the host
func (ps *PrinterService) ListPairedDevices(ctx context.Context) ([]model.Device, error) {
	if err := ps.checkPermission(); err != nil {
		return nil, err
	}

	devices, err := ps.paired.PairedDevices(ctx)
	if err != nil {
		ps.logger.Warn("Failed to list paired devices", zap.Error(err))
		return nil, fmt.Errorf("list paired devices: %w", err)
	}
	return devices, nil
}

// Connect looks the address up among the paired devices and starts an
// asynchronous connect. The outcome arrives as an event.
func (ps *PrinterService) Connect(ctx context.Context, address string, secure bool) error {
	if err := ps.checkPermission(); err != nil {
		return err
	}

	device, err := discovery.FindDevice(ctx, ps.paired, strings.TrimSpace(address))
	if err != nil {
		return err
	}

	if err := ps.manager.Connect(device, secure); err != nil {
		ps.logger.Error("Failed to start connect",
			zap.String("device_address", device.Address),
			zap.Error(err),
		)
		return fmt.Errorf("connect %s: %w", device.Address, err)
	}

	ps.logger.Info("Connecting to printer",
		zap.String("device_address", device.Address),
		zap.String("device_name", device.Name),
		zap.String("socket_type", model.SocketType(secure)),
	)
	return nil
}

// Disconnect closes the current link
func (ps *PrinterService) Disconnect() {
	ps.manager.Disconnect()
}

// State returns the connection state
func (ps *PrinterService) State() model.ConnectionState {
	return ps.manager.State()
}

// Subscribe registers a listener for connection events
func (ps *PrinterService) Subscribe(l connection.Listener) (unsubscribe func()) {
	return ps.manager.Subscribe(l)
}

// ListModels describes every registered printer model
func (ps *PrinterService) ListModels() []driver.Info {
	return ps.drivers.ListDrivers()
}

// ResolveModel maps the request value to a registered model. There is no
// fallback: an empty name is as unsupported as an unknown one.
func (ps *PrinterService) ResolveModel(name string) (model.PrinterModel, error) {
	name = strings.TrimSpace(name)
	m := model.PrinterModel(name)
	if name == "" {
		return "", fmt.Errorf("%w: printer model is required", driver.ErrUnsupportedPrinterModel)
	}
	if !ps.drivers.IsSupported(m) {
		return "", fmt.Errorf("%w: %q", driver.ErrUnsupportedPrinterModel, name)
	}
	return m, nil
}

// PrintJob encodes the receipt for printerModel and hands it to the
// connection. Nothing is written when the model is unknown or the job
// does not fit the driver buffer.
func (ps *PrinterService) PrintJob(ctx context.Context, printerModel string, fields receipt.Fields) (*PrintResult, error) {
	m, err := ps.ResolveModel(printerModel)
	if err != nil {
		return nil, err
	}

	jobID := uuid.New()
	opLogger := utils.NewOperationLogger(ps.logger.Logger, "print", jobID.String())
	opLogger.Start(zap.String("printer_model", string(m)), zap.Int("fields", fields.Len()))

	ps.printMu.Lock()
	defer ps.printMu.Unlock()

	d, err := ps.drivers.CreateDriver(m, ps.driverOptions(), ps.manager)
	if err != nil {
		opLogger.Error(err)
		return nil, err
	}

	if err := ps.composer.Compose(d, fields); err != nil {
		opLogger.Error(err)
		return nil, fmt.Errorf("compose receipt: %w", err)
	}

	size := len(d.Bytes())
	state := ps.manager.State()
	if state != model.StateConnected {
		opLogger.Progress("Printer not connected, job will be dropped", zap.String("state", state.String()))
	}

	if err := d.SendPrintData(ctx); err != nil {
		opLogger.Error(err)
		return nil, fmt.Errorf("send print data: %w", err)
	}

	opLogger.Success(zap.Int("bytes", size))
	return &PrintResult{
		JobID:        jobID,
		PrinterModel: m,
		Bytes:        size,
		State:        state,
	}, nil
}

// Preview encodes the receipt without sending it
func (ps *PrinterService) Preview(ctx context.Context, printerModel string, fields receipt.Fields) (*Preview, error) {
	m, err := ps.ResolveModel(printerModel)
	if err != nil {
		return nil, err
	}

	discard := driver.WriterFunc(func([]byte) {})
	d, err := ps.drivers.CreateDriver(m, ps.driverOptions(), discard)
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := ps.composer.Compose(d, fields); err != nil {
		return nil, fmt.Errorf("compose receipt: %w", err)
	}

	return &Preview{PrinterModel: m, Data: d.Bytes()}, nil
}

func (ps *PrinterService) driverOptions() driver.Options {
	pc := ps.config.Printer
	return driver.Options{
		PageWidth:    pc.PageWidth,
		SinkCapacity: pc.SinkCapacity,
		ImageDir:     pc.ImageDir,
		FontPath:     pc.FontPath,
		Charset:      pc.Charset,
	}
}

func (ps *PrinterService) checkPermission() error {
	if !ps.config.Bluetooth.Authorized {
		return model.ErrPermissionDenied
	}
	return nil
}
