// internal/driver/common/base.go
package common

import (
	"context"
	"errors"
	"fmt"
	"image"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"printer-service/internal/buffer"
	"printer-service/internal/imaging"
	"printer-service/internal/model"
	"printer-service/pkg/driver"
)

// ErrInvalidImageRef is returned for references that leave the image directory
var ErrInvalidImageRef = errors.New("invalid image reference")

// Base carries what every driver variant shares: model constants, the
// bounded sink, the charset encoder and the write path.
type Base struct {
	Sink   *buffer.Sink
	Logger *zap.Logger

	model          model.PrinterModel
	pageWidth      int
	separatorWidth int
	imageDir       string
	encoder        *TextEncoder
	writer         driver.Writer
}

// Defaults are the model constants a variant passes to NewBase
type Defaults struct {
	PageWidth      int
	SeparatorWidth int
	SinkCapacity   int
}

// NewBase applies opts over the model defaults
func NewBase(m model.PrinterModel, defaults Defaults, opts driver.Options, writer driver.Writer, logger *zap.Logger) (*Base, error) {
	if writer == nil {
		return nil, fmt.Errorf("driver %s: writer is required", m)
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	pageWidth := defaults.PageWidth
	if opts.PageWidth > 0 {
		pageWidth = opts.PageWidth
	}
	separatorWidth := defaults.SeparatorWidth
	if opts.SeparatorWidth > 0 {
		separatorWidth = opts.SeparatorWidth
	}
	capacity := defaults.SinkCapacity
	if opts.SinkCapacity > 0 {
		capacity = opts.SinkCapacity
	}
	if capacity <= 0 {
		capacity = buffer.DefaultCapacity
	}

	encoder, err := NewTextEncoder(opts.Charset)
	if err != nil {
		return nil, err
	}

	return &Base{
		Sink: buffer.New(capacity),
		Logger: logger.With(
			zap.String("component", "driver"),
			zap.String("printer_model", string(m)),
		),
		model:          m,
		pageWidth:      pageWidth,
		separatorWidth: separatorWidth,
		imageDir:       opts.ImageDir,
		encoder:        encoder,
		writer:         writer,
	}, nil
}

func (b *Base) Model() model.PrinterModel {
	return b.model
}

func (b *Base) PageWidth() int {
	return b.pageWidth
}

func (b *Base) SeparatorWidth() int {
	return b.separatorWidth
}

// Check refuses n more bytes when they would not fit in the sink
func (b *Base) Check(n int) error {
	if n > b.Sink.Remaining() {
		return fmt.Errorf("%w: %d bytes requested, %d of %d left",
			driver.ErrBufferOverflow, n, b.Sink.Remaining(), b.Sink.Cap())
	}
	return nil
}

// Put writes the chunks as one unit; either all of them fit or none is written.
func (b *Base) Put(chunks ...[]byte) error {
	n := 0
	for _, c := range chunks {
		n += len(c)
	}
	if err := b.Check(n); err != nil {
		return err
	}
	for _, c := range chunks {
		b.Sink.Put(c)
	}
	return nil
}

// Encode converts text to the configured printer code page
func (b *Base) Encode(text string) []byte {
	return b.encoder.Encode(text)
}

// Charset is the configured code page name
func (b *Base) Charset() string {
	return b.encoder.Name()
}

// ClearBuffer drops everything written since the last send
func (b *Base) ClearBuffer() {
	b.Sink.Clear()
}

// Bytes returns a copy of the encoded job
func (b *Base) Bytes() []byte {
	return b.Sink.Drain()
}

// Send hands data to the writer. The sink is cleared afterwards whether or
// not data came from it.
func (b *Base) Send(ctx context.Context, data []byte) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("print job cancelled: %w", err)
	}
	if len(data) > 0 {
		b.writer.Write(data)
	}
	b.Logger.Debug("Print data sent", zap.Int("bytes", len(data)))
	b.Sink.Clear()
	return nil
}

// LoadImage resolves ref inside the image directory and decodes it. On
// failure it returns the inline marker text a driver prints instead.
func (b *Base) LoadImage(ref string) (image.Image, string) {
	path, err := b.resolveImage(ref)
	if err == nil {
		var img image.Image
		img, err = imaging.LoadImage(path)
		if err == nil {
			return img, ""
		}
	}

	marker := ImageErrorMarker(ref, err)
	b.Logger.Warn("Bitmap replaced by error marker",
		zap.String("ref", ref),
		zap.String("marker", marker),
		zap.Error(err),
	)
	return nil, marker
}

func (b *Base) resolveImage(ref string) (string, error) {
	if ref == "" || !filepath.IsLocal(ref) {
		return "", fmt.Errorf("%w: %q", ErrInvalidImageRef, ref)
	}
	return filepath.Join(b.imageDir, ref), nil
}

// ImageErrorMarker is the text printed in place of an image that could not
// be loaded
func ImageErrorMarker(ref string, err error) string {
	switch {
	case errors.Is(err, imaging.ErrImageNotFound):
		return fmt.Sprintf("ERROR: %s not found", ref)
	case errors.Is(err, imaging.ErrImageDecode):
		return "ERROR: Failed to decode image"
	default:
		return fmt.Sprintf("ERROR: %v", err)
	}
}

// TrimLine strips the line terminators callers may still pass; drivers
// terminate every line themselves.
func TrimLine(text string) string {
	return strings.TrimRight(text, "\r\n")
}

// FeedCount normalizes a line feed count
func FeedCount(n int) int {
	if n < 1 {
		return 1
	}
	return n
}
