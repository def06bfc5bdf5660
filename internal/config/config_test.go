package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_DefaultsWithoutFile(t *testing.T) {
	t.Chdir(t.TempDir())

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8085", cfg.Server.Port)
	assert.Equal(t, TransportRFCOMM, cfg.Bluetooth.Transport)
	assert.Equal(t, 1, cfg.Bluetooth.Channel)
	assert.True(t, cfg.Bluetooth.Authorized)
	assert.Equal(t, 20*time.Second, cfg.Bluetooth.ConnectTimeout)
	assert.Zero(t, cfg.Printer.SinkCapacity)
	assert.Equal(t, "utf-8", cfg.Printer.Charset)
	assert.Equal(t, "0.0.0.0:8085", cfg.GetServerAddr())
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("PRINTER_SERVICE_BLUETOOTH_CHANNEL", "3")
	t.Setenv("PRINTER_SERVICE_PRINTER_CHARSET", "CP437")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 3, cfg.Bluetooth.Channel)
	assert.Equal(t, "cp437", cfg.Printer.Charset)
}

func TestLoadFrom_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "printer.yaml")
	yaml := `
bluetooth:
  transport: serial
  serial:
    ports:
      "00:11:22:33:44:55": /dev/rfcomm0
printer:
  page_width: 40
`
	require.NoError(t, os.WriteFile(path, []byte(yaml), 0o644))

	cfg, err := LoadFrom(path)
	require.NoError(t, err)

	assert.Equal(t, TransportSerial, cfg.Bluetooth.Transport)
	assert.Equal(t, "/dev/rfcomm0", cfg.Bluetooth.Serial.Ports["00:11:22:33:44:55"])
	assert.Equal(t, 40, cfg.Printer.PageWidth)
}

func TestLoadFrom_MissingExplicitFile(t *testing.T) {
	_, err := LoadFrom(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"bad transport", func(c *Config) { c.Bluetooth.Transport = "usb" }},
		{"channel zero", func(c *Config) { c.Bluetooth.Channel = 0 }},
		{"channel too high", func(c *Config) { c.Bluetooth.Channel = 31 }},
		{"bad charset", func(c *Config) { c.Printer.Charset = "latin9" }},
		{"negative sink", func(c *Config) { c.Printer.SinkCapacity = -1 }},
		{"bad level", func(c *Config) { c.Logging.Level = "trace" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(cfg)
			assert.Error(t, validate(cfg))
		})
	}

	assert.NoError(t, validate(validConfig()))
}

func validConfig() *Config {
	return &Config{
		Server:    ServerConfig{Host: "localhost", Port: "8085"},
		Logging:   LoggingConfig{Level: "info"},
		Bluetooth: BluetoothConfig{Transport: TransportRFCOMM, Channel: 1},
		Printer:   PrinterConfig{Charset: "utf-8", SinkCapacity: 1024},
		App:       AppConfig{Environment: "test"},
	}
}
