// internal/driver/honeywell/honeywell0188_driver.go
package honeywell

import (
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
	PageWidth      = 48
	SeparatorWidth = 48
	// Font A is 12 dots wide; bitmaps are limited to 8 dots per column
	fontADots     = 12
	bitmapColDots = 8
)

// Honeywell0188Driver implements driver.PrinterDriver for the Honeywell 0188
// ESC/POS printer. Commands are collected in a CommandBuilder and moved into
// the sink when the job is sent.
type Honeywell0188Driver struct {
	*common.Base
	cmds *CommandBuilder
}

// NewHoneywell0188Driver creates a new Honeywell 0188 driver
func NewHoneywell0188Driver(opts driver.Options, writer driver.Writer, logger *zap.Logger) (driver.PrinterDriver, error) {
	base, err := common.NewBase(model.PrinterHoneywell0188, common.Defaults{
		PageWidth:      PageWidth,
		SeparatorWidth: SeparatorWidth,
	}, opts, writer, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create honeywell 0188 driver: %w", err)
	}
	return &Honeywell0188Driver{Base: base, cmds: NewCommandBuilder()}, nil
}

// Info describes the model
func Info() driver.Info {
	return driver.Info{
		Model:          model.PrinterHoneywell0188,
		Name:           "Honeywell 0188",
		PageWidth:      PageWidth,
		SeparatorWidth: SeparatorWidth,
		Cut:            true,
		QRCode:         true,
	}
}

// append adds one call's commands, refusing them when the job would no
// longer fit in the sink
func (d *Honeywell0188Driver) append(cmds ...[]byte) error {
	n := d.cmds.Len()
	for _, c := range cmds {
		n += len(c)
	}
	if err := d.Check(n); err != nil {
		return err
	}
	d.cmds.Append(cmds...)
	return nil
}

func (d *Honeywell0188Driver) InitPrinter() error {
	var charset []byte
	if d.Charset() == common.CharsetCP437 {
		charset = ESC_POS_COMMANDS.SELECT_CHARSET_PC437
	}
	d.Logger.Debug("Initializing printer", zap.String("charset", d.Charset()))
	return d.append(
		ESC_POS_COMMANDS.INITIALIZE,
		charset,
		ESC_POS_COMMANDS.FONT_A,
		ESC_POS_COMMANDS.ALIGN_LEFT,
	)
}

func (d *Honeywell0188Driver) AddAlignedString(text string, style driver.TextStyle) error {
	// double size also doubles the width, so only half the columns fit
	width := d.PageWidth()
	if style.DoubleSize {
		width /= 2
	}
	wrapped := layout.Wrap(common.TrimLine(text), width)

	chunk := NewCommandBuilder().
		Append(ESC_POS_COMMANDS.FONT_A, alignCommand(style.Align)).
		AppendIf(style.Bold, ESC_POS_COMMANDS.TEXT_BOLD_ON).
		AppendIf(style.DoubleSize, ESC_POS_COMMANDS.TEXT_SIZE_DOUBLE_BOTH).
		Append(d.Encode(wrapped), ESC_POS_COMMANDS.LINE_FEED).
		AppendIf(style.Bold, ESC_POS_COMMANDS.TEXT_BOLD_OFF).
		AppendIf(style.DoubleSize, ESC_POS_COMMANDS.TEXT_SIZE_NORMAL).
		Append(ESC_POS_COMMANDS.ALIGN_LEFT)

	return d.append(chunk.Bytes())
}

func (d *Honeywell0188Driver) AddTwoAlignedStrings(left, right string, style driver.ColumnStyle) error {
	row := layout.TwoColumnRow(common.TrimLine(left), common.TrimLine(right), d.PageWidth())
	return d.appendRow(row, []bool{style.LeftBold, style.RightBold}, style.DoubleHeight)
}

func (d *Honeywell0188Driver) AddThreeAlignedStrings(left, middle, right string, style driver.ColumnStyle) error {
	row := layout.ThreeColumnRow(common.TrimLine(left), common.TrimLine(middle), common.TrimLine(right), d.PageWidth()-1)
	return d.appendRow(row, []bool{style.LeftBold, style.MiddleBold, style.RightBold}, style.DoubleHeight)
}

func (d *Honeywell0188Driver) appendRow(row layout.Row, bold []bool, doubleHeight bool) error {
	chunk := NewCommandBuilder().
		Append(ESC_POS_COMMANDS.FONT_A, ESC_POS_COMMANDS.ALIGN_LEFT).
		AppendIf(doubleHeight, ESC_POS_COMMANDS.TEXT_SIZE_DOUBLE_HEIGHT)

	if row.Overflow() {
		allBold := !slices.Contains(bold, false)
		chunk.AppendIf(allBold, ESC_POS_COMMANDS.TEXT_BOLD_ON).
			Append(d.Encode(row.Wrapped)).
			AppendIf(allBold, ESC_POS_COMMANDS.TEXT_BOLD_OFF)
	} else {
		for i, col := range row.Columns {
			if i > 0 {
				chunk.Append(d.Encode(row.Gaps[i-1]))
			}
			chunk.AppendIf(bold[i], ESC_POS_COMMANDS.TEXT_BOLD_ON).
				Append(d.Encode(col)).
				AppendIf(bold[i], ESC_POS_COMMANDS.TEXT_BOLD_OFF)
		}
	}

	chunk.Append(ESC_POS_COMMANDS.LINE_FEED).
		AppendIf(doubleHeight, ESC_POS_COMMANDS.TEXT_SIZE_NORMAL)
	return d.append(chunk.Bytes())
}

func (d *Honeywell0188Driver) AddSeparatorLine(align model.Align) error {
	return d.append(
		alignCommand(align),
		d.Encode(layout.Separator(d.SeparatorWidth())),
		ESC_POS_COMMANDS.LINE_FEED,
		ESC_POS_COMMANDS.ALIGN_LEFT,
	)
}

// AddBitmap limits the image to the bitmap width of the page and, for
// centered or right alignment, places it on a full-width canvas since the
// raster command ignores ESC a.
func (d *Honeywell0188Driver) AddBitmap(ref string, align model.Align) error {
	img, marker := d.LoadImage(ref)
	if marker != "" {
		return d.appendText(marker)
	}

	img = imaging.FitWidth(img, d.PageWidth()*bitmapColDots)
	if align != model.AlignLeft {
		img = imaging.AlignOnCanvas(img, d.PageWidth()*fontADots, align)
	}
	bm := imaging.ToMonochrome(img, imaging.DefaultThreshold)

	return d.append(ESC_POS_COMMANDS.ALIGN_LEFT, common.RasterImage(bm))
}

func (d *Honeywell0188Driver) AddLineFeeds(n int) error {
	feeds := make([][]byte, common.FeedCount(n))
	for i := range feeds {
		feeds[i] = ESC_POS_COMMANDS.LINE_FEED
	}
	return d.append(feeds...)
}

// AddQRCode prints data as a model 2 QR symbol with error correction M
func (d *Honeywell0188Driver) AddQRCode(data string, align model.Align) error {
	payload := []byte(data)
	switch {
	case len(payload) == 0:
		return d.appendText("ERROR: QR data is empty")
	case len(payload) > qrMaxBytes:
		return d.appendText(fmt.Sprintf("ERROR: QR data too long (%d bytes)", len(payload)))
	}

	return d.append(
		alignCommand(align),
		ESC_POS_COMMANDS.QR_MODEL_2,
		append(append([]byte{}, ESC_POS_COMMANDS.QR_SIZE...), qrModuleSize),
		append(append([]byte{}, ESC_POS_COMMANDS.QR_LEVEL...), '0'+qrLevelM),
		qrStoreData(payload),
		ESC_POS_COMMANDS.QR_PRINT,
		ESC_POS_COMMANDS.LINE_FEED,
		ESC_POS_COMMANDS.ALIGN_LEFT,
	)
}

func (d *Honeywell0188Driver) Cut() error {
	return d.append(ESC_POS_COMMANDS.CUT_FULL)
}

// appendText writes an inline error marker on its own left aligned line
func (d *Honeywell0188Driver) appendText(text string) error {
	d.Logger.Warn("Inline error marker", zap.String("marker", text))
	return d.append(ESC_POS_COMMANDS.ALIGN_LEFT, d.Encode(text), ESC_POS_COMMANDS.LINE_FEED)
}

// ClearBuffer drops both the pending commands and the sink
func (d *Honeywell0188Driver) ClearBuffer() {
	d.cmds.Clear()
	d.Base.ClearBuffer()
}

// Bytes returns the job as it would be sent
func (d *Honeywell0188Driver) Bytes() []byte {
	return append(d.Base.Bytes(), d.cmds.Bytes()...)
}

// SendPrintData moves the pending commands into the sink and sends it
func (d *Honeywell0188Driver) SendPrintData(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("print job cancelled: %w", err)
	}
	if err := d.Put(d.cmds.Bytes()); err != nil {
		return err
	}
	d.cmds.Clear()
	return d.Send(ctx, d.Base.Bytes())
}
