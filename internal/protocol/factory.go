// internal/protocol/factory.go
package protocol

import (
	"fmt"

	"go.uber.org/zap"

	"printer-service/internal/config"
)

// NewTransport creates a transport based on the configured kind
func NewTransport(cfg *config.BluetoothConfig, logger *zap.Logger) (Transport, error) {
	switch cfg.Transport {
	case config.TransportRFCOMM:
		return createRFCOMMTransport(cfg, logger), nil
	case config.TransportSerial:
		return createSerialTransport(cfg, logger)
	default:
		return nil, fmt.Errorf("unsupported transport: %s", cfg.Transport)
	}
}

func createRFCOMMTransport(cfg *config.BluetoothConfig, logger *zap.Logger) Transport {
	rfcommConfig := &RFCOMMConfig{
		Channel:        uint8(cfg.Channel),
		ConnectTimeout: cfg.ConnectTimeout,
	}

	logger.Info("Creating RFCOMM transport",
		zap.String("adapter", cfg.Adapter),
		zap.Uint8("channel", rfcommConfig.Channel),
		zap.Duration("connect_timeout", rfcommConfig.ConnectTimeout),
	)

	return NewRFCOMMTransport(rfcommConfig, logger)
}

func createSerialTransport(cfg *config.BluetoothConfig, logger *zap.Logger) (Transport, error) {
	serialConfig := &SerialConfig{
		Ports:    cfg.Serial.Ports,
		BaudRate: 9600,
		DataBits: 8,
		StopBits: 1,
		Parity:   "none",
	}

	if cfg.Serial.BaudRate > 0 {
		serialConfig.BaudRate = cfg.Serial.BaudRate
	}
	if cfg.Serial.DataBits > 0 {
		serialConfig.DataBits = cfg.Serial.DataBits
	}
	if cfg.Serial.StopBits > 0 {
		serialConfig.StopBits = cfg.Serial.StopBits
	}
	if cfg.Serial.Parity != "" {
		serialConfig.Parity = cfg.Serial.Parity
	}

	if err := validateSerialConfig(serialConfig); err != nil {
		return nil, err
	}

	logger.Info("Creating serial transport",
		zap.Int("ports", len(serialConfig.Ports)),
		zap.Int("baud_rate", serialConfig.BaudRate),
	)

	return NewSerialTransport(serialConfig, logger), nil
}

// validateSerialConfig validates serial configuration
func validateSerialConfig(cfg *SerialConfig) error {
	validRates := []int{1200, 2400, 4800, 9600, 19200, 38400, 57600, 115200}
	valid := false
	for _, rate := range validRates {
		if cfg.BaudRate == rate {
			valid = true
			break
		}
	}
	if !valid {
		return fmt.Errorf("invalid baud rate: %d", cfg.BaudRate)
	}

	switch cfg.Parity {
	case "none", "odd", "even":
	default:
		return fmt.Errorf("invalid parity: %s", cfg.Parity)
	}

	for addr, port := range cfg.Ports {
		if port == "" {
			return fmt.Errorf("serial port for %s is empty", addr)
		}
	}
	return nil
}
