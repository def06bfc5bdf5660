// internal/config/config.go
package config

import (
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config represents the application configuration
type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	Security  SecurityConfig  `mapstructure:"security"`
	Logging   LoggingConfig   `mapstructure:"logging"`
	Bluetooth BluetoothConfig `mapstructure:"bluetooth"`
	Printer   PrinterConfig   `mapstructure:"printer"`
	Receipt   ReceiptConfig   `mapstructure:"receipt"`
	App       AppConfig       `mapstructure:"app"`
}

// ServerConfig represents HTTP server configuration
type ServerConfig struct {
	Host         string        `mapstructure:"host" validate:"required"`
	Port         string        `mapstructure:"port" validate:"required"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
	IdleTimeout  time.Duration `mapstructure:"idle_timeout"`
	TLS          TLSConfig     `mapstructure:"tls"`
}

// TLSConfig represents TLS configuration
type TLSConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	CertFile string `mapstructure:"cert_file"`
	KeyFile  string `mapstructure:"key_file"`
}

// SecurityConfig represents security configuration
type SecurityConfig struct {
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

// LoggingConfig represents logging configuration
type LoggingConfig struct {
	Level      string `mapstructure:"level" validate:"required"`
	Format     string `mapstructure:"format"`
	Output     string `mapstructure:"output"`
	MaxSize    int    `mapstructure:"max_size"`
	MaxBackups int    `mapstructure:"max_backups"`
	MaxAge     int    `mapstructure:"max_age"`
	Compress   bool   `mapstructure:"compress"`
}

// Transport kinds
const (
	TransportRFCOMM = "rfcomm"
	TransportSerial = "serial"
)

// BluetoothConfig selects how the SPP link is opened and where paired
// devices come from.
type BluetoothConfig struct {
	Transport string `mapstructure:"transport"`
	Adapter   string `mapstructure:"adapter"`
	Channel   int    `mapstructure:"channel"`
	// Authorized mirrors the platform permission grant. When false every
	// device listing and connect is refused with a permission error.
	Authorized     bool             `mapstructure:"authorized"`
	ConnectTimeout time.Duration    `mapstructure:"connect_timeout"`
	Serial         SerialPortConfig `mapstructure:"serial"`
}

// SerialPortConfig represents serial port configuration for SPP devices
// bound as tty (rfcomm bind, Windows COM ports)
type SerialPortConfig struct {
	// Ports maps a device address to its port path
	Ports    map[string]string `mapstructure:"ports"`
	BaudRate int               `mapstructure:"baud_rate"`
	DataBits int               `mapstructure:"data_bits"`
	StopBits int               `mapstructure:"stop_bits"`
	Parity   string            `mapstructure:"parity"`
}

// PrinterConfig tunes the printer drivers
type PrinterConfig struct {
	ImageDir string `mapstructure:"image_dir"`
	FontPath string `mapstructure:"font_path"`
	Charset  string `mapstructure:"charset"`
	// SinkCapacity overrides the model buffer size when > 0
	SinkCapacity int `mapstructure:"sink_capacity"`
	// PageWidth overrides the model page width when > 0
	PageWidth int `mapstructure:"page_width"`
}

// ReceiptConfig holds the fixed footer text of the water bill notice
type ReceiptConfig struct {
	Website      string `mapstructure:"website"`
	Hotline      string `mapstructure:"hotline"`
	PaymentLabel string `mapstructure:"payment_label"`
}

// AppConfig represents application metadata
type AppConfig struct {
	Name        string `mapstructure:"name" validate:"required"`
	Version     string `mapstructure:"version" validate:"required"`
	Environment string `mapstructure:"environment" validate:"required"`
	Debug       bool   `mapstructure:"debug"`
}

var (
	validEnvs      = []string{"development", "staging", "production", "test"}
	validLevels    = []string{"debug", "info", "warn", "error", "fatal"}
	validCharsets  = []string{"utf-8", "windows-1258", "cp437"}
	validTransport = []string{TransportRFCOMM, TransportSerial}
)

// Load loads configuration from file and environment variables. The config
// file is optional; defaults and PRINTER_SERVICE_* variables are enough.
func Load() (*Config, error) {
	return LoadFrom("")
}

// LoadFrom reads an explicit config file when path is not empty
func LoadFrom(path string) (*Config, error) {
	v := viper.New()
	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./internal/config")
		v.AddConfigPath("../../internal/config")
	}

	// Environment variable support
	v.SetEnvPrefix("PRINTER_SERVICE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}

	if err := validate(&config); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &config, nil
}

// setDefaults sets default configuration values
func setDefaults(v *viper.Viper) {
	// Server defaults
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", "8085")
	v.SetDefault("server.read_timeout", "30s")
	v.SetDefault("server.write_timeout", "30s")
	v.SetDefault("server.idle_timeout", "120s")
	v.SetDefault("server.tls.enabled", false)

	// Logging defaults
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "json")
	v.SetDefault("logging.output", "stdout")
	v.SetDefault("logging.max_size", 100)
	v.SetDefault("logging.max_backups", 3)
	v.SetDefault("logging.max_age", 28)
	v.SetDefault("logging.compress", true)

	// Bluetooth defaults
	v.SetDefault("bluetooth.transport", TransportRFCOMM)
	v.SetDefault("bluetooth.adapter", "hci0")
	v.SetDefault("bluetooth.channel", 1)
	v.SetDefault("bluetooth.authorized", true)
	v.SetDefault("bluetooth.connect_timeout", "20s")
	v.SetDefault("bluetooth.serial.baud_rate", 9600)
	v.SetDefault("bluetooth.serial.data_bits", 8)
	v.SetDefault("bluetooth.serial.stop_bits", 1)
	v.SetDefault("bluetooth.serial.parity", "none")

	// Printer defaults
	v.SetDefault("printer.image_dir", "./data/images")
	v.SetDefault("printer.charset", "utf-8")
	v.SetDefault("printer.sink_capacity", 0)
	v.SetDefault("printer.page_width", 0)

	// Receipt defaults
	v.SetDefault("receipt.website", "https://www.example.com")
	v.SetDefault("receipt.hotline", "(0123) 456789")
	v.SetDefault("receipt.payment_label", "Quét mã QR để thanh toán MOMO")

	// App defaults
	v.SetDefault("app.name", "printer-service")
	v.SetDefault("app.version", "1.0.0")
	v.SetDefault("app.environment", "development")
	v.SetDefault("app.debug", false)
}

// validate validates the configuration
func validate(config *Config) error {
	if config.Server.Host == "" {
		return fmt.Errorf("server.host is required")
	}
	if config.Server.Port == "" {
		return fmt.Errorf("server.port is required")
	}
	if !slices.Contains(validEnvs, config.App.Environment) {
		return fmt.Errorf("app.environment must be one of: %v", validEnvs)
	}
	if !slices.Contains(validLevels, config.Logging.Level) {
		return fmt.Errorf("logging.level must be one of: %v", validLevels)
	}

	if !slices.Contains(validTransport, config.Bluetooth.Transport) {
		return fmt.Errorf("bluetooth.transport must be one of: %v", validTransport)
	}
	// RFCOMM channels are 1..30
	if config.Bluetooth.Channel < 1 || config.Bluetooth.Channel > 30 {
		return fmt.Errorf("bluetooth.channel must be between 1 and 30, got %d", config.Bluetooth.Channel)
	}

	config.Printer.Charset = strings.ToLower(config.Printer.Charset)
	if !slices.Contains(validCharsets, config.Printer.Charset) {
		return fmt.Errorf("printer.charset must be one of: %v", validCharsets)
	}
	if config.Printer.SinkCapacity < 0 {
		return fmt.Errorf("printer.sink_capacity must not be negative")
	}
	if config.Printer.PageWidth < 0 {
		return fmt.Errorf("printer.page_width must not be negative")
	}

	return nil
}

// GetServerAddr returns the server address
func (c *Config) GetServerAddr() string {
	return fmt.Sprintf("%s:%s", c.Server.Host, c.Server.Port)
}

// IsProduction checks if the environment is production
func (c *Config) IsProduction() bool {
	return c.App.Environment == "production"
}

// IsDevelopment checks if the environment is development
func (c *Config) IsDevelopment() bool {
	return c.App.Environment == "development"
}

// IsDebugEnabled checks if debug mode is enabled
func (c *Config) IsDebugEnabled() bool {
	return c.App.Debug || c.IsDevelopment()
}
