// pkg/driver/types.go
package driver

import (
	"errors"

	"printer-service/internal/model"
)

var (
	ErrUnsupportedPrinterModel = errors.New("unsupported printer model")
	ErrNotSupported            = errors.New("operation not supported for this printer model")
	ErrBufferOverflow          = errors.New("print job exceeds buffer capacity")
)

// TextStyle applies to one aligned string
type TextStyle struct {
	Align      model.Align `json:"align"`
	Bold       bool        `json:"bold"`
	DoubleSize bool        `json:"double_size"`
}

// ColumnStyle applies to a two or three column row. MiddleBold is ignored
// for two columns.
type ColumnStyle struct {
	LeftBold     bool `json:"left_bold"`
	MiddleBold   bool `json:"middle_bold"`
	RightBold    bool `json:"right_bold"`
	DoubleHeight bool `json:"double_height"`
}

// AllBold marks every column bold
func AllBold() ColumnStyle {
	return ColumnStyle{LeftBold: true, MiddleBold: true, RightBold: true}
}

// Options tune a driver instance. Zero values fall back to the model constants.
type Options struct {
	PageWidth      int
	SeparatorWidth int
	SinkCapacity   int
	ImageDir       string
	FontPath       string
	Charset        string
}

// Info describes a model for listings
type Info struct {
	Model          model.PrinterModel `json:"model"`
	Name           string             `json:"name"`
	PageWidth      int                `json:"page_width"`
	SeparatorWidth int                `json:"separator_width"`
	Raster         bool               `json:"raster"`
	Cut            bool               `json:"cut"`
	QRCode         bool               `json:"qr_code"`
}
