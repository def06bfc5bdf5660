// internal/protocol/connection.go
package protocol

import "time"

// RFCOMMConfig represents native RFCOMM socket configuration
type RFCOMMConfig struct {
	Channel        uint8         `json:"channel"`
	ConnectTimeout time.Duration `json:"connect_timeout"`
}

// SerialConfig represents serial connection configuration. Ports maps an
// upper case device address to its tty or COM port.
type SerialConfig struct {
	Ports    map[string]string `json:"ports"`
	BaudRate int               `json:"baud_rate"`
	DataBits int               `json:"data_bits"`
	StopBits int               `json:"stop_bits"`
	Parity   string            `json:"parity"`
}
