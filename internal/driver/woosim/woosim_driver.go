// internal/driver/woosim/woosim_driver.go
package woosim

import (
	"bytes"
	"context"
	"fmt"
	"slices"

	"go.uber.org/zap"

	"printer-service/internal/driver/common"
	"printer-service/internal/imaging"
	"printer-service/internal/layout"
	"printer-service/internal/model"
	"printer-service/pkg/driver"
)

const (
	PageWidth      = 36
	SeparatorWidth = 16
	// HeadWidth is the printable width of the 3 inch head in dots
	HeadWidth = 576
)

// WoosimDriver implements driver.PrinterDriver for the Woosim WSP-i350.
// Text is sent as text; layout is done on the host.
type WoosimDriver struct {
	*common.Base
}

// NewWoosimDriver creates a new Woosim WSP-i350 driver
func NewWoosimDriver(opts driver.Options, writer driver.Writer, logger *zap.Logger) (driver.PrinterDriver, error) {
	base, err := common.NewBase(model.PrinterWoosimWSPi350, common.Defaults{
		PageWidth:      PageWidth,
		SeparatorWidth: SeparatorWidth,
	}, opts, writer, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create woosim driver: %w", err)
	}
	return &WoosimDriver{Base: base}, nil
}

// Info describes the model
func Info() driver.Info {
	return driver.Info{
		Model:          model.PrinterWoosimWSPi350,
		Name:           "Woosim WSP-i350",
		PageWidth:      PageWidth,
		SeparatorWidth: SeparatorWidth,
	}
}

func (d *WoosimDriver) InitPrinter() error {
	d.Logger.Debug("Initializing printer")
	return d.Put(WOOSIM_COMMANDS.INITIALIZE)
}

func (d *WoosimDriver) AddAlignedString(text string, style driver.TextStyle) error {
	wrapped := layout.Wrap(common.TrimLine(text), d.PageWidth())

	var buf bytes.Buffer
	buf.Write(WOOSIM_COMMANDS.FONT_NORMAL)
	if style.Bold {
		buf.Write(WOOSIM_COMMANDS.BOLD_ON)
	}
	if style.DoubleSize {
		buf.Write(WOOSIM_COMMANDS.FONT_DOUBLE_HEIGHT)
	}
	buf.Write(alignCommand(style.Align))
	buf.Write(d.Encode(wrapped))
	buf.Write(WOOSIM_COMMANDS.LINE_FEED)

	if style.Bold {
		buf.Write(WOOSIM_COMMANDS.BOLD_OFF)
	}
	if style.DoubleSize {
		buf.Write(WOOSIM_COMMANDS.FONT_NORMAL)
	}
	buf.Write(WOOSIM_COMMANDS.ALIGN_LEFT)

	return d.Put(buf.Bytes())
}

func (d *WoosimDriver) AddTwoAlignedStrings(left, right string, style driver.ColumnStyle) error {
	row := layout.TwoColumnRow(common.TrimLine(left), common.TrimLine(right), d.PageWidth())
	return d.putRow(row, []bool{style.LeftBold, style.RightBold}, style.DoubleHeight)
}

func (d *WoosimDriver) AddThreeAlignedStrings(left, middle, right string, style driver.ColumnStyle) error {
	row := layout.ThreeColumnRow(common.TrimLine(left), common.TrimLine(middle), common.TrimLine(right), d.PageWidth()-1)
	return d.putRow(row, []bool{style.LeftBold, style.MiddleBold, style.RightBold}, style.DoubleHeight)
}

// putRow writes one laid out row with per-column bold. A wrapped row is
// only bold when every column is.
func (d *WoosimDriver) putRow(row layout.Row, bold []bool, doubleHeight bool) error {
	var buf bytes.Buffer
	buf.Write(WOOSIM_COMMANDS.ALIGN_LEFT)
	if doubleHeight {
		buf.Write(WOOSIM_COMMANDS.FONT_DOUBLE_HEIGHT)
	}

	if row.Overflow() {
		allBold := !slices.Contains(bold, false)
		if allBold {
			buf.Write(WOOSIM_COMMANDS.BOLD_ON)
		}
		buf.Write(d.Encode(row.Wrapped))
		if allBold {
			buf.Write(WOOSIM_COMMANDS.BOLD_OFF)
		}
	} else {
		for i, col := range row.Columns {
			if i > 0 {
				buf.Write(d.Encode(row.Gaps[i-1]))
			}
			if bold[i] {
				buf.Write(WOOSIM_COMMANDS.BOLD_ON)
			}
			buf.Write(d.Encode(col))
			if bold[i] {
				buf.Write(WOOSIM_COMMANDS.BOLD_OFF)
			}
		}
	}
	buf.Write(WOOSIM_COMMANDS.LINE_FEED)

	if doubleHeight {
		buf.Write(WOOSIM_COMMANDS.FONT_NORMAL)
	}
	return d.Put(buf.Bytes())
}

func (d *WoosimDriver) AddSeparatorLine(align model.Align) error {
	return d.Put(
		alignCommand(align),
		d.Encode(layout.Separator(d.SeparatorWidth())),
		WOOSIM_COMMANDS.LINE_FEED,
		WOOSIM_COMMANDS.ALIGN_LEFT,
	)
}

// AddBitmap sends the image as a raster and lets the printer align it
func (d *WoosimDriver) AddBitmap(ref string, align model.Align) error {
	img, marker := d.LoadImage(ref)
	if marker != "" {
		return d.Put(WOOSIM_COMMANDS.ALIGN_LEFT, d.Encode(marker), WOOSIM_COMMANDS.LINE_FEED)
	}

	bm := imaging.ToMonochrome(imaging.FitWidth(img, HeadWidth), imaging.DefaultThreshold)

	// ESC a only takes effect at the start of a line
	return d.Put(
		WOOSIM_COMMANDS.LINE_FEED,
		alignCommand(align),
		common.RasterImage(bm),
		WOOSIM_COMMANDS.ALIGN_LEFT,
	)
}

func (d *WoosimDriver) AddLineFeeds(n int) error {
	return d.Put(feedCommand(common.FeedCount(n)))
}

func (d *WoosimDriver) AddQRCode(data string, align model.Align) error {
	return fmt.Errorf("%w: qr code on %s", driver.ErrNotSupported, d.Model())
}

func (d *WoosimDriver) Cut() error {
	return fmt.Errorf("%w: cut on %s", driver.ErrNotSupported, d.Model())
}

func (d *WoosimDriver) SendPrintData(ctx context.Context) error {
	return d.Send(ctx, d.Bytes())
}
