package pr3

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"printer-service/internal/imaging"
	"printer-service/internal/model"
	"printer-service/pkg/driver"
)

const rowLen = 2 + 1 + HeadWidth/8

type recordingWriter struct {
	writes [][]byte
}

func (w *recordingWriter) Write(data []byte) {
	w.writes = append(w.writes, data)
}

func newDriver(t *testing.T, opts driver.Options) (driver.PrinterDriver, *recordingWriter) {
	t.Helper()
	w := &recordingWriter{}
	d, err := NewPR3Driver(opts, w, nil)
	require.NoError(t, err)
	return d, w
}

// graphicsRows splits raster output and checks every row header
func graphicsRows(t *testing.T, out []byte) [][]byte {
	t.Helper()
	require.NotEmpty(t, out)
	require.Zero(t, len(out)%rowLen, "output is not a whole number of rows")

	var rows [][]byte
	for len(out) > 0 {
		require.Equal(t, []byte{0x1B, 0x56, HeadWidth / 8}, out[:3])
		rows = append(rows, out[3:rowLen])
		out = out[rowLen:]
	}
	return rows
}

func inked(rows [][]byte) bool {
	for _, r := range rows {
		for _, b := range r {
			if b != 0 {
				return true
			}
		}
	}
	return false
}

func TestGraphics(t *testing.T) {
	bm := &imaging.Bitmap{Width: 16, Height: 2, Stride: 2, Data: []byte{0xFF, 0x00, 0x01, 0x80}}

	want := []byte{
		0x1B, 0x56, 2, 0xFF, 0x00,
		0x1B, 0x56, 2, 0x01, 0x80,
	}
	assert.Equal(t, want, graphics(bm))
}

func TestPR3_InitPrinter(t *testing.T) {
	d, _ := newDriver(t, driver.Options{})

	require.NoError(t, d.InitPrinter())
	assert.Equal(t, PR3_COMMANDS.INITIALIZE, d.Bytes())
}

func TestPR3_AddAlignedString(t *testing.T) {
	t.Run("empty text writes nothing", func(t *testing.T) {
		d, _ := newDriver(t, driver.Options{})
		require.NoError(t, d.AddAlignedString("", driver.TextStyle{}))
		require.NoError(t, d.AddAlignedString("\n", driver.TextStyle{Bold: true}))
		assert.Empty(t, d.Bytes())
	})

	t.Run("text is rendered as graphics", func(t *testing.T) {
		d, _ := newDriver(t, driver.Options{})
		require.NoError(t, d.AddAlignedString("Công ty Cấp nước", driver.TextStyle{Align: model.AlignCenter}))

		rows := graphicsRows(t, d.Bytes())
		assert.True(t, inked(rows))
	})

	t.Run("double size is taller", func(t *testing.T) {
		d, _ := newDriver(t, driver.Options{})
		require.NoError(t, d.AddAlignedString("Hóa đơn", driver.TextStyle{}))
		normal := len(graphicsRows(t, d.Bytes()))

		d.ClearBuffer()
		require.NoError(t, d.AddAlignedString("Hóa đơn", driver.TextStyle{DoubleSize: true}))
		double := len(graphicsRows(t, d.Bytes()))

		assert.Greater(t, double, normal)
	})
}

func TestPR3_AddTwoAlignedStrings(t *testing.T) {
	d, _ := newDriver(t, driver.Options{})

	require.NoError(t, d.AddTwoAlignedStrings("Kỳ", "10/2026", driver.ColumnStyle{}))
	single := len(graphicsRows(t, d.Bytes()))

	d.ClearBuffer()
	require.NoError(t, d.AddTwoAlignedStrings(
		"Địa chỉ khách hàng rất dài cần được xuống dòng nhiều lần",
		"Số 1 đường Nguyễn Trãi",
		driver.ColumnStyle{},
	))
	wrapped := len(graphicsRows(t, d.Bytes()))

	assert.Greater(t, wrapped, single)
}

func TestPR3_AddThreeAlignedStrings(t *testing.T) {
	d, _ := newDriver(t, driver.Options{})

	require.NoError(t, d.AddThreeAlignedStrings("Tiêu thụ", "12 m³", "120.000", driver.ColumnStyle{RightBold: true}))
	rows := graphicsRows(t, d.Bytes())
	require.NotEmpty(t, rows)

	// the last column is right anchored, so ink reaches the right half
	right := false
	for _, r := range rows {
		for _, b := range r[len(r)/2:] {
			if b != 0 {
				right = true
			}
		}
	}
	assert.True(t, right)
}

func TestPR3_AddSeparatorLine(t *testing.T) {
	d, _ := newDriver(t, driver.Options{})

	require.NoError(t, d.AddSeparatorLine(model.AlignCenter))
	assert.True(t, inked(graphicsRows(t, d.Bytes())))
}

func TestPR3_AddBitmap(t *testing.T) {
	dir := t.TempDir()
	img := image.NewGray(image.Rect(0, 0, 8, 1))
	for x := 0; x < 8; x++ {
		img.Set(x, 0, color.Black)
	}
	f, err := os.Create(filepath.Join(dir, "logo.png"))
	require.NoError(t, err)
	require.NoError(t, png.Encode(f, img))
	require.NoError(t, f.Close())

	d, _ := newDriver(t, driver.Options{ImageDir: dir})

	t.Run("centered on the head", func(t *testing.T) {
		d.ClearBuffer()
		require.NoError(t, d.AddBitmap("logo.png", model.AlignCenter))

		rows := graphicsRows(t, d.Bytes())
		require.Len(t, rows, 1)
		// x = (576-8)/2 = 284
		want := make([]byte, HeadWidth/8)
		want[35], want[36] = 0x0F, 0xF0
		assert.Equal(t, want, rows[0])
	})

	t.Run("missing image writes a marker", func(t *testing.T) {
		d.ClearBuffer()
		require.NoError(t, d.AddBitmap("nope.png", model.AlignCenter))
		want := bytes.Join([][]byte{
			PR3_COMMANDS.NORMAL_FONT,
			[]byte("ERROR: nope.png not found"),
			PR3_COMMANDS.NEW_LINE,
		}, nil)
		assert.Equal(t, want, d.Bytes())
	})
}

func TestPR3_RenderFailureWritesMarker(t *testing.T) {
	d, _ := newDriver(t, driver.Options{})
	pr3 := d.(*PR3Driver)

	renderErr := fmt.Errorf("%w: glyph outside font", imaging.ErrRender)
	require.NoError(t, pr3.putRendered(nil, renderErr))

	want := bytes.Join([][]byte{
		PR3_COMMANDS.NORMAL_FONT,
		[]byte("ERROR: failed to render text: glyph outside font"),
		PR3_COMMANDS.NEW_LINE,
	}, nil)
	assert.Equal(t, want, d.Bytes())
}

func TestPR3_AddLineFeeds(t *testing.T) {
	d, _ := newDriver(t, driver.Options{})

	require.NoError(t, d.AddLineFeeds(0))
	require.NoError(t, d.AddLineFeeds(2))
	assert.Equal(t, []byte{0x0D, 0x0D, 0x0D}, d.Bytes())
}

func TestPR3_UnsupportedCapabilities(t *testing.T) {
	d, _ := newDriver(t, driver.Options{})

	assert.True(t, errors.Is(d.Cut(), driver.ErrNotSupported))
	assert.True(t, errors.Is(d.AddQRCode("abc", model.AlignCenter), driver.ErrNotSupported))
	assert.Empty(t, d.Bytes())
}

func TestPR3_BufferOverflow(t *testing.T) {
	d, _ := newDriver(t, driver.Options{SinkCapacity: 64})

	err := d.AddAlignedString("Tổng cộng", driver.TextStyle{})
	assert.True(t, errors.Is(err, driver.ErrBufferOverflow))
	assert.Empty(t, d.Bytes())
}

func TestPR3_SendPrintData(t *testing.T) {
	d, w := newDriver(t, driver.Options{})

	require.NoError(t, d.InitPrinter())
	require.NoError(t, d.AddLineFeeds(1))
	require.NoError(t, d.SendPrintData(context.Background()))

	require.Len(t, w.writes, 1)
	assert.Equal(t, append(append([]byte{}, PR3_COMMANDS.INITIALIZE...), 0x0D), w.writes[0])
	assert.Empty(t, d.Bytes())
}

func TestPR3_BadFontPath(t *testing.T) {
	_, err := NewPR3Driver(driver.Options{FontPath: filepath.Join(t.TempDir(), "missing.ttf")}, &recordingWriter{}, nil)
	assert.Error(t, err)
}
