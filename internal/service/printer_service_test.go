package service

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"printer-service/internal/config"
	"printer-service/internal/connection"
	internalDriver "printer-service/internal/driver"
	"printer-service/internal/model"
	"printer-service/internal/protocol"
	"printer-service/internal/receipt"
	"printer-service/pkg/driver"
)

type fakePaired struct {
	available, enabled bool
	devices            []model.Device
	err                error
}

func (f *fakePaired) Kind() string                     { return "fake" }
func (f *fakePaired) IsAvailable(context.Context) bool { return f.available }
func (f *fakePaired) IsEnabled(context.Context) bool   { return f.enabled }
func (f *fakePaired) PairedDevices(context.Context) ([]model.Device, error) {
	return f.devices, f.err
}

type connectCall struct {
	device model.Device
	secure bool
}

type fakeManager struct {
	mu       sync.Mutex
	state    model.ConnectionState
	device   *model.Device
	connects []connectCall
	written  []byte
	writes   int
	err      error
}

func (f *fakeManager) State() model.ConnectionState {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.state
}

func (f *fakeManager) Device() (model.Device, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.device == nil {
		return model.Device{}, false
	}
	return *f.device, true
}

func (f *fakeManager) Stats() protocol.Stats { return protocol.Stats{} }

func (f *fakeManager) Subscribe(connection.Listener) func() { return func() {} }

func (f *fakeManager) Connect(device model.Device, secure bool) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.connects = append(f.connects, connectCall{device, secure})
	f.state = model.StateConnecting
	return nil
}

func (f *fakeManager) Disconnect() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.state = model.StateNone
	f.device = nil
}

func (f *fakeManager) Write(data []byte) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.written = append(f.written, data...)
	f.writes++
}

var printer = model.Device{Name: "WSP-i350", Address: "00:11:22:33:44:55"}

func testTemplate() receipt.Template {
	return receipt.Template{Name: "test", Lines: []receipt.Line{
		{Kind: receipt.KindTwoColumns, Columns: []string{"Name:", "{name}"}},
		{Kind: receipt.KindLineFeeds, Feeds: 2},
	}}
}

func newTestService(t *testing.T, authorized bool) (*PrinterService, *fakePaired, *fakeManager) {
	t.Helper()
	logger := zap.NewNop()

	drivers := internalDriver.NewRegistry(logger)
	internalDriver.RegisterDefaultDrivers(drivers, logger)

	cfg := &config.Config{
		Bluetooth: config.BluetoothConfig{Authorized: authorized},
	}

	paired := &fakePaired{available: true, enabled: true, devices: []model.Device{printer}}
	manager := &fakeManager{state: model.StateListening}
	svc := NewPrinterService(paired, manager, drivers, receipt.NewComposer(testTemplate(), logger), cfg, logger)
	return svc, paired, manager
}

func TestPrinterService_ListPairedDevices(t *testing.T) {
	t.Run("not authorized", func(t *testing.T) {
		svc, _, _ := newTestService(t, false)
		_, err := svc.ListPairedDevices(context.Background())
		assert.True(t, errors.Is(err, model.ErrPermissionDenied))
	})

	t.Run("adapter off", func(t *testing.T) {
		svc, paired, _ := newTestService(t, true)
		paired.err = model.ErrTransportDisabled
		_, err := svc.ListPairedDevices(context.Background())
		assert.True(t, errors.Is(err, model.ErrTransportDisabled))
	})

	t.Run("ok", func(t *testing.T) {
		svc, _, _ := newTestService(t, true)
		devices, err := svc.ListPairedDevices(context.Background())
		require.NoError(t, err)
		assert.Equal(t, []model.Device{printer}, devices)
	})
}

func TestPrinterService_Connect(t *testing.T) {
	t.Run("paired device", func(t *testing.T) {
		svc, _, manager := newTestService(t, true)

		require.NoError(t, svc.Connect(context.Background(), " 00:11:22:33:44:55 ", true))
		require.Len(t, manager.connects, 1)
		assert.Equal(t, printer, manager.connects[0].device)
		assert.True(t, manager.connects[0].secure)
		assert.Equal(t, model.StateConnecting, svc.State())
	})

	t.Run("unknown address", func(t *testing.T) {
		svc, _, manager := newTestService(t, true)
		err := svc.Connect(context.Background(), "AA:BB:CC:DD:EE:FF", false)
		assert.True(t, errors.Is(err, model.ErrDeviceNotFound))
		assert.Empty(t, manager.connects)
	})

	t.Run("not authorized", func(t *testing.T) {
		svc, _, manager := newTestService(t, false)
		err := svc.Connect(context.Background(), printer.Address, false)
		assert.True(t, errors.Is(err, model.ErrPermissionDenied))
		assert.Empty(t, manager.connects)
	})

	t.Run("manager closed", func(t *testing.T) {
		svc, _, manager := newTestService(t, true)
		manager.err = model.ErrManagerClosed
		err := svc.Connect(context.Background(), printer.Address, false)
		assert.True(t, errors.Is(err, model.ErrManagerClosed))
	})
}

func TestPrinterService_PrintJob(t *testing.T) {
	svc, _, manager := newTestService(t, true)
	manager.state = model.StateConnected

	fields := receipt.NewFields("name", "A")
	result, err := svc.PrintJob(context.Background(), string(model.PrinterWoosimWSPi350), fields)
	require.NoError(t, err)

	assert.Equal(t, model.PrinterWoosimWSPi350, result.PrinterModel)
	assert.Equal(t, model.StateConnected, result.State)
	assert.NotEmpty(t, result.JobID)
	assert.Equal(t, len(manager.written), result.Bytes)
	assert.Equal(t, 1, manager.writes)

	preview, err := svc.Preview(context.Background(), string(model.PrinterWoosimWSPi350), fields)
	require.NoError(t, err)
	assert.Equal(t, manager.written, preview.Data)
}

func TestPrinterService_PrintJob_UnknownModelWritesNothing(t *testing.T) {
	for _, name := range []string{"EPSON_TM_T20", "", "   ", "woosim_wsp_i350"} {
		t.Run(name, func(t *testing.T) {
			svc, _, manager := newTestService(t, true)
			manager.state = model.StateConnected

			_, err := svc.PrintJob(context.Background(), name, receipt.NewFields("name", "A"))
			assert.True(t, errors.Is(err, driver.ErrUnsupportedPrinterModel))
			assert.Zero(t, manager.writes)

			_, err = svc.Preview(context.Background(), name, receipt.NewFields("name", "A"))
			assert.True(t, errors.Is(err, driver.ErrUnsupportedPrinterModel))
		})
	}
}

func TestPrinterService_PrintJob_EachModel(t *testing.T) {
	for _, m := range model.PrinterModels() {
		t.Run(string(m), func(t *testing.T) {
			svc, _, manager := newTestService(t, true)
			result, err := svc.PrintJob(context.Background(), string(m), receipt.NewFields("name", "A"))
			require.NoError(t, err)
			assert.Equal(t, m, result.PrinterModel)
			assert.NotEmpty(t, manager.written)
		})
	}
}

func TestPrinterService_Status(t *testing.T) {
	svc, paired, manager := newTestService(t, true)
	manager.device = &printer
	paired.enabled = false

	assert.True(t, svc.IsTransportAvailable(context.Background()))
	assert.False(t, svc.IsTransportEnabled(context.Background()))

	st := svc.Status(context.Background())
	assert.Equal(t, "fake", st.Transport)
	assert.True(t, st.Available)
	assert.False(t, st.Enabled)
	require.NotNil(t, st.Device)
	assert.Equal(t, printer, *st.Device)

	svc.Disconnect()
	assert.Equal(t, model.StateNone, svc.State())
}

func TestPrinterService_ListModels(t *testing.T) {
	svc, _, _ := newTestService(t, true)
	assert.Len(t, svc.ListModels(), len(model.PrinterModels()))
}
