// internal/model/printer.go
package model

// PrinterModel identifies a driver variant
type PrinterModel string

const (
	PrinterWoosimWSPi350 PrinterModel = "WOOSIM_WSP_i350"
	PrinterHoneywell0188 PrinterModel = "HONEYWELL_0188"
	PrinterHoneywellPR3  PrinterModel = "HONEYWELL_PR3"
)

// PrinterModels lists every supported model in a stable order
func PrinterModels() []PrinterModel {
	return []PrinterModel{PrinterWoosimWSPi350, PrinterHoneywell0188, PrinterHoneywellPR3}
}

// Align is a horizontal alignment. The values match the ESC a n argument.
type Align int

const (
	AlignLeft   Align = 0
	AlignCenter Align = 1
	AlignRight  Align = 2
)

func (a Align) String() string {
	switch a {
	case AlignCenter:
		return "CENTER"
	case AlignRight:
		return "RIGHT"
	default:
		return "LEFT"
	}
}
