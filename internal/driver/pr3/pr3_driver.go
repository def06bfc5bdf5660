// internal/driver/pr3/pr3_driver.go
package pr3

import (
	"context"
	"fmt"
	"image"
	"slices"

	"go.uber.org/zap"

	"printer-service/internal/driver/common"
	"printer-service/internal/imaging"
	"printer-service/internal/layout"
	"printer-service/internal/model"
	"printer-service/pkg/driver"
)

const (
	PageWidth      = 53
	SeparatorWidth = 71
	HeadWidth      = 576
	// every text unit is a bitmap, so a job needs far more room than text
	sinkCapacity = 512 * 1024
)

// PR3Driver implements driver.PrinterDriver for the Honeywell PR3. The
// printer has no usable Vietnamese font, so text is rendered on the host
// and sent as graphics.
type PR3Driver struct {
	*common.Base
	renderer *imaging.Renderer
}

// NewPR3Driver creates a new Honeywell PR3 driver
func NewPR3Driver(opts driver.Options, writer driver.Writer, logger *zap.Logger) (driver.PrinterDriver, error) {
	base, err := common.NewBase(model.PrinterHoneywellPR3, common.Defaults{
		PageWidth:      PageWidth,
		SeparatorWidth: SeparatorWidth,
		SinkCapacity:   sinkCapacity,
	}, opts, writer, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create honeywell pr3 driver: %w", err)
	}

	renderer, err := imaging.NewRenderer(HeadWidth, opts.FontPath)
	if err != nil {
		return nil, fmt.Errorf("failed to create honeywell pr3 driver: %w", err)
	}

	return &PR3Driver{Base: base, renderer: renderer}, nil
}

// Info describes the model
func Info() driver.Info {
	return driver.Info{
		Model:          model.PrinterHoneywellPR3,
		Name:           "Honeywell PR3",
		PageWidth:      PageWidth,
		SeparatorWidth: SeparatorWidth,
		Raster:         true,
	}
}

func (d *PR3Driver) InitPrinter() error {
	d.Logger.Debug("Initializing printer")
	return d.Put(PR3_COMMANDS.INITIALIZE)
}

func (d *PR3Driver) AddAlignedString(text string, style driver.TextStyle) error {
	text = common.TrimLine(text)
	if text == "" {
		return nil
	}
	return d.putRendered(d.renderer.RenderText(text, imaging.TextOptions{
		Align:      style.Align,
		Bold:       style.Bold,
		DoubleSize: style.DoubleSize,
	}))
}

func (d *PR3Driver) AddTwoAlignedStrings(left, right string, style driver.ColumnStyle) error {
	row := layout.TwoColumnRow(common.TrimLine(left), common.TrimLine(right), d.PageWidth())
	return d.putRow(row, []bool{style.LeftBold, style.RightBold}, style.DoubleHeight)
}

func (d *PR3Driver) AddThreeAlignedStrings(left, middle, right string, style driver.ColumnStyle) error {
	row := layout.ThreeColumnRow(common.TrimLine(left), common.TrimLine(middle), common.TrimLine(right), d.PageWidth()-1)
	return d.putRow(row, []bool{style.LeftBold, style.MiddleBold, style.RightBold}, style.DoubleHeight)
}

// putRow renders a laid out row. The first column starts at the left margin,
// the last one ends at the right margin and a middle column sits on the
// character grid, pushed right if the proportional font needs more room.
func (d *PR3Driver) putRow(row layout.Row, bold []bool, double bool) error {
	if row.Overflow() {
		return d.putRendered(d.renderer.RenderText(row.Wrapped, imaging.TextOptions{
			Bold:       !slices.Contains(bold, false),
			DoubleSize: double,
		}))
	}

	margin := (d.renderer.Width() - d.renderer.ContentWidth()) / 2
	cell := d.renderer.ContentWidth() / d.PageWidth()
	last := len(row.Columns) - 1

	segments := make([]imaging.Segment, 0, len(row.Columns))
	segments = append(segments, imaging.Segment{Text: row.Columns[0], X: margin, Bold: bold[0]})

	offset := layout.Len(row.Columns[0])
	minX := margin + d.renderer.MeasureString(row.Columns[0]+" ", bold[0], double)
	for i := 1; i < last; i++ {
		offset += layout.Len(row.Gaps[i-1])
		x := max(margin+cell*offset, minX)
		segments = append(segments, imaging.Segment{Text: row.Columns[i], X: x, Bold: bold[i]})
		offset += layout.Len(row.Columns[i])
		minX = x + d.renderer.MeasureString(row.Columns[i]+" ", bold[i], double)
	}

	segments = append(segments, imaging.Segment{
		Text:   row.Columns[last],
		X:      d.renderer.Width() - margin,
		Anchor: model.AlignRight,
		Bold:   bold[last],
	})
	return d.putRendered(d.renderer.RenderSegments(segments, double))
}

func (d *PR3Driver) AddSeparatorLine(align model.Align) error {
	return d.putRendered(d.renderer.RenderText(layout.Separator(d.SeparatorWidth()), imaging.TextOptions{Align: align}))
}

func (d *PR3Driver) AddBitmap(ref string, align model.Align) error {
	img, marker := d.LoadImage(ref)
	if marker != "" {
		return d.putMarker(marker)
	}
	return d.putImage(imaging.AlignOnCanvas(imaging.FitWidth(img, HeadWidth), HeadWidth, align))
}

func (d *PR3Driver) AddLineFeeds(n int) error {
	feeds := make([][]byte, common.FeedCount(n))
	for i := range feeds {
		feeds[i] = PR3_COMMANDS.NEW_LINE
	}
	return d.Put(feeds...)
}

func (d *PR3Driver) AddQRCode(data string, align model.Align) error {
	return fmt.Errorf("%w: qr code on %s", driver.ErrNotSupported, d.Model())
}

func (d *PR3Driver) Cut() error {
	return fmt.Errorf("%w: cut on %s", driver.ErrNotSupported, d.Model())
}

func (d *PR3Driver) SendPrintData(ctx context.Context) error {
	return d.Send(ctx, d.Bytes())
}

// putRendered writes a rendered text unit, or an inline marker when
// rendering failed
func (d *PR3Driver) putRendered(img image.Image, err error) error {
	if err != nil {
		d.Logger.Warn("Text rendering failed", zap.Error(err))
		return d.putMarker(common.ImageErrorMarker("", err))
	}
	return d.putImage(img)
}

// putMarker prints an error marker with the resident font
func (d *PR3Driver) putMarker(marker string) error {
	return d.Put(PR3_COMMANDS.NORMAL_FONT, d.Encode(marker), PR3_COMMANDS.NEW_LINE)
}

// putImage packs img and writes it as graphics rows. The image is not kept.
func (d *PR3Driver) putImage(img image.Image) error {
	bm := imaging.ToMonochrome(img, imaging.DefaultThreshold)
	return d.Put(graphics(bm))
}
