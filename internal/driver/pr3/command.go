// internal/driver/pr3/command.go
package pr3

import "printer-service/internal/imaging"

const (
	esc = 0x1B
	em  = 0x21 // !
	nul = 0x00
	cr  = 0x0D
)

// PR3_COMMANDS is the line-print mode command set of the Honeywell PR3
var PR3_COMMANDS = struct {
	INITIALIZE []byte

	NORMAL_FONT []byte
	NEW_LINE    []byte

	// GRAPHICS_ROW prints one dot row: + byte count + packed row
	GRAPHICS_ROW []byte
}{
	INITIALIZE: []byte{nul, nul, nul, nul, esc, 0x40, nul, nul, nul}, // wake + ESC @

	NORMAL_FONT: []byte{esc, 0x77, em, esc, em, nul}, // ESC w ! ESC ! 0
	NEW_LINE:    []byte{cr},

	GRAPHICS_ROW: []byte{esc, 0x56}, // ESC V
}

// graphics encodes bm row by row. Each row is at most 72 bytes on the
// 576 dot head, so the one byte count never overflows.
func graphics(bm *imaging.Bitmap) []byte {
	out := make([]byte, 0, bm.Height*(len(PR3_COMMANDS.GRAPHICS_ROW)+1+bm.Stride))
	for y := 0; y < bm.Height; y++ {
		out = append(out, PR3_COMMANDS.GRAPHICS_ROW...)
		out = append(out, byte(bm.Stride))
		out = append(out, bm.Row(y)...)
	}
	return out
}
