// internal/driver/woosim/command.go
package woosim

import "printer-service/internal/model"

// WOOSIM_COMMANDS holds the WSP-i350 command set used by the driver
var WOOSIM_COMMANDS = struct {
	INITIALIZE []byte

	BOLD_ON  []byte
	BOLD_OFF []byte

	// GS ! n, width multiplier in the high nibble, height in the low one
	FONT_NORMAL        []byte
	FONT_DOUBLE_HEIGHT []byte

	ALIGN_LEFT   []byte
	ALIGN_CENTER []byte
	ALIGN_RIGHT  []byte

	LINE_FEED  []byte
	FEED_LINES []byte // + line count byte
}{
	INITIALIZE: []byte{0x1B, 0x40}, // ESC @

	BOLD_ON:  []byte{0x1B, 0x45, 0x01}, // ESC E 1
	BOLD_OFF: []byte{0x1B, 0x45, 0x00}, // ESC E 0

	FONT_NORMAL:        []byte{0x1D, 0x21, 0x00}, // GS ! 0
	FONT_DOUBLE_HEIGHT: []byte{0x1D, 0x21, 0x01}, // GS ! 1

	ALIGN_LEFT:   []byte{0x1B, 0x61, 0x00}, // ESC a 0
	ALIGN_CENTER: []byte{0x1B, 0x61, 0x01}, // ESC a 1
	ALIGN_RIGHT:  []byte{0x1B, 0x61, 0x02}, // ESC a 2

	LINE_FEED:  []byte{0x0A},       // LF
	FEED_LINES: []byte{0x1B, 0x64}, // ESC d + n
}

func alignCommand(align model.Align) []byte {
	switch align {
	case model.AlignCenter:
		return WOOSIM_COMMANDS.ALIGN_CENTER
	case model.AlignRight:
		return WOOSIM_COMMANDS.ALIGN_RIGHT
	default:
		return WOOSIM_COMMANDS.ALIGN_LEFT
	}
}

func feedCommand(n int) []byte {
	return append(append([]byte{}, WOOSIM_COMMANDS.FEED_LINES...), byte(min(n, 255)))
}
