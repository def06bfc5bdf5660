// internal/driver/honeywell/command.go
package honeywell

import "printer-service/internal/model"

// ESC_POS_COMMANDS contains the ESC/POS command definitions the Honeywell
// 0188 understands
var ESC_POS_COMMANDS = struct {
	// Basic commands
	INITIALIZE []byte

	// Text formatting
	TEXT_BOLD_ON  []byte
	TEXT_BOLD_OFF []byte

	// Font and size
	FONT_A                  []byte // 12x24
	TEXT_SIZE_NORMAL        []byte
	TEXT_SIZE_DOUBLE_HEIGHT []byte
	TEXT_SIZE_DOUBLE_BOTH   []byte

	// Text alignment
	ALIGN_LEFT   []byte
	ALIGN_CENTER []byte
	ALIGN_RIGHT  []byte

	// Character sets
	SELECT_CHARSET_PC437 []byte

	// Paper handling
	LINE_FEED []byte

	// Cutting
	CUT_FULL []byte

	// QR code, GS ( k functions 165, 167, 169, 181
	QR_MODEL_2 []byte
	QR_SIZE    []byte // + module size byte
	QR_LEVEL   []byte // + '0'+level byte
	QR_PRINT   []byte
}{
	INITIALIZE: []byte{0x1B, 0x40}, // ESC @

	TEXT_BOLD_ON:  []byte{0x1B, 0x45, 0x01}, // ESC E 1
	TEXT_BOLD_OFF: []byte{0x1B, 0x45, 0x00}, // ESC E 0

	FONT_A:                  []byte{0x1B, 0x4D, 0x00}, // ESC M 0
	TEXT_SIZE_NORMAL:        []byte{0x1D, 0x21, 0x00}, // GS ! 0
	TEXT_SIZE_DOUBLE_HEIGHT: []byte{0x1D, 0x21, 0x01}, // GS ! 1
	TEXT_SIZE_DOUBLE_BOTH:   []byte{0x1D, 0x21, 0x11}, // GS ! 17

	ALIGN_LEFT:   []byte{0x1B, 0x61, 0x00}, // ESC a 0
	ALIGN_CENTER: []byte{0x1B, 0x61, 0x01}, // ESC a 1
	ALIGN_RIGHT:  []byte{0x1B, 0x61, 0x02}, // ESC a 2

	SELECT_CHARSET_PC437: []byte{0x1B, 0x74, 0x00}, // ESC t 0

	LINE_FEED: []byte{0x0A}, // LF

	CUT_FULL: []byte{0x1D, 0x56, 0x00}, // GS V 0

	QR_MODEL_2: []byte{0x1D, 0x28, 0x6B, 0x04, 0x00, 0x31, 0x41, 0x32, 0x00}, // GS ( k fn 65, model 2
	QR_SIZE:    []byte{0x1D, 0x28, 0x6B, 0x03, 0x00, 0x31, 0x43},             // GS ( k fn 67
	QR_LEVEL:   []byte{0x1D, 0x28, 0x6B, 0x03, 0x00, 0x31, 0x45},             // GS ( k fn 69
	QR_PRINT:   []byte{0x1D, 0x28, 0x6B, 0x03, 0x00, 0x31, 0x51, 0x30},       // GS ( k fn 81
}

// QR defaults
const (
	qrModuleSize = 6
	qrLevelM     = 1
	// qrMaxBytes is the model 2 capacity in byte mode at level M
	qrMaxBytes = 2331
)

func alignCommand(align model.Align) []byte {
	switch align {
	case model.AlignCenter:
		return ESC_POS_COMMANDS.ALIGN_CENTER
	case model.AlignRight:
		return ESC_POS_COMMANDS.ALIGN_RIGHT
	default:
		return ESC_POS_COMMANDS.ALIGN_LEFT
	}
}

// qrStoreData is GS ( k fn 80: store data in the symbol storage area
func qrStoreData(data []byte) []byte {
	n := len(data) + 3
	out := []byte{0x1D, 0x28, 0x6B, byte(n), byte(n >> 8), 0x31, 0x50, 0x30}
	return append(out, data...)
}
