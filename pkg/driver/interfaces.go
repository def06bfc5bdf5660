// pkg/driver/interfaces.go
package driver

import (
	"context"

	"printer-service/internal/model"
)

// PrinterDriver encodes print operations for one printer model into a
// bounded buffer. A driver is owned by one goroutine at a time and is
// reusable across jobs.
//
// Add* calls treat their text as one logical line and terminate it
// themselves. Encoding failures are written inline and do not return an
// error; errors are reserved for ErrNotSupported, ErrBufferOverflow and
// cancellation.
type PrinterDriver interface {
	Model() model.PrinterModel
	PageWidth() int
	SeparatorWidth() int

	InitPrinter() error
	AddAlignedString(text string, style TextStyle) error
	AddTwoAlignedStrings(left, right string, style ColumnStyle) error
	AddThreeAlignedStrings(left, middle, right string, style ColumnStyle) error
	AddSeparatorLine(align model.Align) error
	AddBitmap(ref string, align model.Align) error
	AddLineFeeds(n int) error

	// Capabilities not every model has
	AddQRCode(data string, align model.Align) error
	Cut() error

	// ClearBuffer drops everything encoded since the last send
	ClearBuffer()
	// SendPrintData hands the encoded job to the writer and clears the driver
	SendPrintData(ctx context.Context) error
	// Bytes returns the encoded job without sending it
	Bytes() []byte
}

// Writer is the write path of the connection manager. It never blocks
// waiting for a session and reports failures through events.
type Writer interface {
	Write(data []byte)
}

// WriterFunc adapts a function to Writer
type WriterFunc func(data []byte)

func (f WriterFunc) Write(data []byte) {
	f(data)
}
