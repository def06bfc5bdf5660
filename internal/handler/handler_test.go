package handler

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"printer-service/internal/config"
	"printer-service/internal/connection"
	"printer-service/internal/model"
	"printer-service/internal/receipt"
	"printer-service/internal/service"
	"printer-service/internal/utils"
	"printer-service/pkg/driver"
)

type fakeService struct {
	mu        sync.Mutex
	devices   []model.Device
	err       error
	connected []string
	printed   []receipt.Fields
	listeners []connection.Listener
	state     model.ConnectionState

	unavailable bool
}

func (f *fakeService) Status(context.Context) service.Status {
	return service.Status{Transport: "fake", Available: !f.unavailable, Enabled: !f.unavailable, State: f.State()}
}

func (f *fakeService) ListPairedDevices(context.Context) ([]model.Device, error) {
	return f.devices, f.err
}

func (f *fakeService) Connect(_ context.Context, address string, _ bool) error {
	if f.err != nil {
		return f.err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.connected = append(f.connected, address)
	f.state = model.StateConnecting
	return nil
}

func (f *fakeService) Disconnect() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.state = model.StateNone
}

func (f *fakeService) State() model.ConnectionState {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.state
}

func (f *fakeService) Subscribe(l connection.Listener) func() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.listeners = append(f.listeners, l)
	return func() {}
}

func (f *fakeService) publish(e model.Event) {
	f.mu.Lock()
	listeners := append([]connection.Listener(nil), f.listeners...)
	f.mu.Unlock()
	for _, l := range listeners {
		l(e)
	}
}

func (f *fakeService) ListModels() []driver.Info {
	return []driver.Info{{Model: model.PrinterWoosimWSPi350, PageWidth: 36}}
}

func (f *fakeService) PrintJob(_ context.Context, printerModel string, fields receipt.Fields) (*service.PrintResult, error) {
	if printerModel != string(model.PrinterWoosimWSPi350) {
		return nil, fmt.Errorf("%w: %q", driver.ErrUnsupportedPrinterModel, printerModel)
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.printed = append(f.printed, fields)
	return &service.PrintResult{PrinterModel: model.PrinterWoosimWSPi350, Bytes: 42}, nil
}

func (f *fakeService) Preview(context.Context, string, receipt.Fields) (*service.Preview, error) {
	return &service.Preview{PrinterModel: model.PrinterWoosimWSPi350, Data: []byte{0x1B, 0x40}}, nil
}

func newTestRouter(svc *fakeService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	logger := zap.NewNop()
	router := gin.New()

	bt := NewBluetoothHandler(svc, logger)
	ph := NewPrintHandler(svc, logger)
	api := router.Group("/api/v1")
	api.GET("/bluetooth/devices", bt.ListDevices)
	api.POST("/bluetooth/connect", bt.Connect)
	api.POST("/bluetooth/disconnect", bt.Disconnect)
	api.POST("/print", ph.Print)
	api.POST("/print/preview", ph.Preview)
	api.GET("/printers/models", ph.ListModels)
	return router
}

func do(t *testing.T, router http.Handler, method, path, body string) (*httptest.ResponseRecorder, utils.APIResponse) {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	var resp utils.APIResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return w, resp
}

func TestBluetoothHandler_ListDevices_ErrorMapping(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{nil, http.StatusOK},
		{model.ErrPermissionDenied, http.StatusForbidden},
		{fmt.Errorf("list: %w", model.ErrTransportDisabled), http.StatusServiceUnavailable},
		{model.ErrTransportUnavailable, http.StatusServiceUnavailable},
	}
	for _, tt := range tests {
		t.Run(fmt.Sprint(tt.err), func(t *testing.T) {
			svc := &fakeService{devices: []model.Device{{Name: "PR3", Address: "00:11:22:33:44:55"}}, err: tt.err}
			w, resp := do(t, newTestRouter(svc), http.MethodGet, "/api/v1/bluetooth/devices", "")
			assert.Equal(t, tt.want, w.Code)
			assert.Equal(t, tt.err == nil, resp.Success)
		})
	}
}

func TestBluetoothHandler_Connect(t *testing.T) {
	svc := &fakeService{}
	router := newTestRouter(svc)

	w, _ := do(t, router, http.MethodPost, "/api/v1/bluetooth/connect", `{"address":"00:11:22:33:44:55","secure":true}`)
	assert.Equal(t, http.StatusAccepted, w.Code)
	assert.Equal(t, []string{"00:11:22:33:44:55"}, svc.connected)

	w, _ = do(t, router, http.MethodPost, "/api/v1/bluetooth/connect", `{}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	svc.err = model.ErrDeviceNotFound
	w, resp := do(t, router, http.MethodPost, "/api/v1/bluetooth/connect", `{"address":"AA:BB:CC:DD:EE:FF"}`)
	assert.Equal(t, http.StatusNotFound, w.Code)
	require.NotNil(t, resp.Error)
	assert.Equal(t, "NOT_FOUND", resp.Error.Code)

	w, _ = do(t, router, http.MethodPost, "/api/v1/bluetooth/disconnect", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, model.StateNone, svc.State())
}

func TestPrintHandler_Print(t *testing.T) {
	svc := &fakeService{}
	router := newTestRouter(svc)

	w, resp := do(t, router, http.MethodPost, "/api/v1/print",
		`{"printer_model":"WOOSIM_WSP_i350","fields":{"khachHang":"Nguyễn Văn A","tienNuoc":375157002}}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.True(t, resp.Success)
	require.Len(t, svc.printed, 1)
	assert.Equal(t, []string{"khachHang", "tienNuoc"}, svc.printed[0].Keys())
	assert.Equal(t, "375157002", svc.printed[0].Get("tienNuoc", ""))

	w, _ = do(t, router, http.MethodPost, "/api/v1/print", `{"printer_model":"EPSON","fields":{}}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w, _ = do(t, router, http.MethodPost, "/api/v1/print", `{"printer_model":"WOOSIM_WSP_i350","fields":{"nested":{"a":1}}}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w, _ = do(t, router, http.MethodPost, "/api/v1/print", `{"fields":{"khachHang":"A"}}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Len(t, svc.printed, 1)
}

func TestPrintHandler_PreviewIsBase64(t *testing.T) {
	router := newTestRouter(&fakeService{})

	w, resp := do(t, router, http.MethodPost, "/api/v1/print/preview", `{"printer_model":"WOOSIM_WSP_i350","fields":{}}`)
	require.Equal(t, http.StatusOK, w.Code)

	data := resp.Data.(map[string]interface{})
	assert.Equal(t, base64.StdEncoding.EncodeToString([]byte{0x1B, 0x40}), data["data"])
}

func TestPrintHandler_ListModels(t *testing.T) {
	w, resp := do(t, newTestRouter(&fakeService{}), http.MethodGet, "/api/v1/printers/models", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, resp.Data, 1)
}

func TestWebSocketHandler_StreamsEvents(t *testing.T) {
	gin.SetMode(gin.TestMode)
	svc := &fakeService{}
	ws := NewWebSocketHandler(svc, &config.SecurityConfig{}, zap.NewNop())
	defer ws.Close()

	router := gin.New()
	router.GET("/ws/events", ws.HandleEventConnection)
	router.GET("/ws/stats", ws.GetConnectionStats)
	server := httptest.NewServer(router)
	defer server.Close()

	conn, _, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(server.URL, "http")+"/ws/events", nil)
	require.NoError(t, err)
	defer conn.Close()
	conn.SetReadDeadline(time.Now().Add(2 * time.Second))

	var initial WebSocketMessage
	require.NoError(t, conn.ReadJSON(&initial))
	assert.Equal(t, "initial_status", initial.Type)

	w, resp := do(t, router, http.MethodGet, "/ws/stats", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.EqualValues(t, 1, resp.Data.(map[string]interface{})["total_connections"])

	svc.publish(model.DataReceivedEvent([]byte{0x01, 0x02, 0xFF}))

	var raw struct {
		Type string      `json:"type"`
		Data model.Event `json:"data"`
	}
	require.NoError(t, conn.ReadJSON(&raw))
	assert.Equal(t, "device_event", raw.Type)
	assert.Equal(t, model.EventDataReceived, raw.Data.Type)
	assert.Equal(t, []byte{0x01, 0x02, 0xFF}, raw.Data.Data)
}

func TestWebSocketHandler_SubscriptionFilter(t *testing.T) {
	client := &Client{ID: "c1", Send: make(chan []byte, 4)}
	hub := NewHub()
	hub.Register(client)
	bus := NewEventBus(hub, zap.NewNop())

	client.Subscribe(model.EventConnectionLost)
	bus.Publish(model.DataReceivedEvent([]byte("x")))
	bus.Publish(model.NewEvent(model.EventConnectionLost))

	require.Len(t, client.Send, 1)
	msg := <-client.Send
	assert.True(t, bytes.Contains(msg, []byte(model.EventConnectionLost)))

	hub.Close()
	_, open := <-client.Send
	assert.False(t, open)
	assert.False(t, hub.Send(client, []byte("late")))
}

func TestCheckOrigin(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/ws/events", nil)
	req.Header.Set("Origin", "http://evil.example")

	assert.True(t, checkOrigin(nil)(req))
	assert.False(t, checkOrigin([]string{"http://localhost:3000"})(req))

	req.Header.Set("Origin", "http://localhost:3000")
	assert.True(t, checkOrigin([]string{"http://localhost:3000"})(req))
}

func TestHealthHandler(t *testing.T) {
	gin.SetMode(gin.TestMode)
	cfg := &config.Config{App: config.AppConfig{Name: "printer-service", Version: "test"}}

	newRouter := func(svc *fakeService) *gin.Engine {
		h := NewHealthHandler(svc, cfg, zap.NewNop())
		r := gin.New()
		r.GET("/health", h.HealthCheck)
		r.GET("/ready", h.ReadinessCheck)
		r.GET("/live", h.LivenessCheck)
		return r
	}

	get := func(r http.Handler, path string) *httptest.ResponseRecorder {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
		return w
	}

	t.Run("adapter present", func(t *testing.T) {
		r := newRouter(&fakeService{state: model.StateListening})
		w := get(r, "/health")
		require.Equal(t, http.StatusOK, w.Code)

		var health HealthResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &health))
		assert.Equal(t, "healthy", health.Status)
		assert.Equal(t, "LISTENING", health.Checks["printer"].Data["state"])
		assert.Equal(t, http.StatusOK, get(r, "/ready").Code)
	})

	t.Run("adapter missing", func(t *testing.T) {
		r := newRouter(&fakeService{unavailable: true})
		assert.Equal(t, http.StatusServiceUnavailable, get(r, "/health").Code)
		assert.Equal(t, http.StatusServiceUnavailable, get(r, "/ready").Code)
		assert.Equal(t, http.StatusOK, get(r, "/live").Code)
	})
}
