package woosim

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"printer-service/internal/model"
	"printer-service/pkg/driver"
)

type recordingWriter struct {
	mu     sync.Mutex
	writes [][]byte
}

func (w *recordingWriter) Write(data []byte) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.writes = append(w.writes, data)
}

func newDriver(t *testing.T, opts driver.Options) (driver.PrinterDriver, *recordingWriter) {
	t.Helper()
	w := &recordingWriter{}
	d, err := NewWoosimDriver(opts, w, nil)
	require.NoError(t, err)
	return d, w
}

func concat(parts ...[]byte) []byte {
	return bytes.Join(parts, nil)
}

func TestWoosim_Constants(t *testing.T) {
	d, _ := newDriver(t, driver.Options{})
	assert.Equal(t, model.PrinterWoosimWSPi350, d.Model())
	assert.Equal(t, 36, d.PageWidth())
	assert.Equal(t, 16, d.SeparatorWidth())
}

func TestWoosim_AddAlignedString(t *testing.T) {
	d, _ := newDriver(t, driver.Options{})

	require.NoError(t, d.AddAlignedString("KỲ: 12/2025\n", driver.TextStyle{Align: model.AlignCenter, Bold: true}))

	want := concat(
		WOOSIM_COMMANDS.FONT_NORMAL,
		WOOSIM_COMMANDS.BOLD_ON,
		WOOSIM_COMMANDS.ALIGN_CENTER,
		[]byte("KỲ: 12/2025"),
		WOOSIM_COMMANDS.LINE_FEED,
		WOOSIM_COMMANDS.BOLD_OFF,
		WOOSIM_COMMANDS.ALIGN_LEFT,
	)
	assert.Equal(t, want, d.Bytes())
}

func TestWoosim_AddAlignedString_DoubleSizeIsReset(t *testing.T) {
	d, _ := newDriver(t, driver.Options{})

	require.NoError(t, d.AddAlignedString("PHIẾU BÁO", driver.TextStyle{DoubleSize: true}))

	out := d.Bytes()
	assert.True(t, bytes.HasPrefix(out, concat(WOOSIM_COMMANDS.FONT_NORMAL, WOOSIM_COMMANDS.FONT_DOUBLE_HEIGHT)))
	assert.True(t, bytes.HasSuffix(out, concat(WOOSIM_COMMANDS.FONT_NORMAL, WOOSIM_COMMANDS.ALIGN_LEFT)))
}

func TestWoosim_AddAlignedString_Wraps(t *testing.T) {
	d, _ := newDriver(t, driver.Options{PageWidth: 10})

	require.NoError(t, d.AddAlignedString("aaaa bbbb cccc", driver.TextStyle{}))
	assert.Contains(t, string(d.Bytes()), "aaaa bbbb\ncccc\n")
}

func TestWoosim_AddTwoAlignedStrings(t *testing.T) {
	d, _ := newDriver(t, driver.Options{PageWidth: 20})

	require.NoError(t, d.AddTwoAlignedStrings("Chỉ số", "1600 m³\n", driver.ColumnStyle{RightBold: true}))

	want := concat(
		WOOSIM_COMMANDS.ALIGN_LEFT,
		[]byte("Chỉ số"),
		[]byte("       "),
		WOOSIM_COMMANDS.BOLD_ON,
		[]byte("1600 m³"),
		WOOSIM_COMMANDS.BOLD_OFF,
		WOOSIM_COMMANDS.LINE_FEED,
	)
	assert.Equal(t, want, d.Bytes())
}

func TestWoosim_AddThreeAlignedStrings_UsesNarrowerWidth(t *testing.T) {
	d, _ := newDriver(t, driver.Options{})

	require.NoError(t, d.AddThreeAlignedStrings("GB: 55", "ĐM: 0", "MTT: 4", driver.AllBold()))

	out := string(d.Bytes())
	assert.Contains(t, out, "GB: 55")
	assert.Contains(t, out, "        ")
	assert.Equal(t, 3, bytes.Count(d.Bytes(), WOOSIM_COMMANDS.BOLD_ON))
	assert.Equal(t, 3, bytes.Count(d.Bytes(), WOOSIM_COMMANDS.BOLD_OFF))
}

func TestWoosim_AddSeparatorLine(t *testing.T) {
	d, _ := newDriver(t, driver.Options{})

	require.NoError(t, d.AddSeparatorLine(model.AlignCenter))
	want := concat(
		WOOSIM_COMMANDS.ALIGN_CENTER,
		[]byte("----------------"),
		WOOSIM_COMMANDS.LINE_FEED,
		WOOSIM_COMMANDS.ALIGN_LEFT,
	)
	assert.Equal(t, want, d.Bytes())
}

func TestWoosim_AddBitmap(t *testing.T) {
	dir := t.TempDir()
	img := image.NewGray(image.Rect(0, 0, 16, 4))
	for x := 0; x < 16; x++ {
		img.Set(x, 0, color.Black)
	}
	f, err := os.Create(filepath.Join(dir, "ma_qr.png"))
	require.NoError(t, err)
	require.NoError(t, png.Encode(f, img))
	require.NoError(t, f.Close())

	d, _ := newDriver(t, driver.Options{ImageDir: dir})

	t.Run("present", func(t *testing.T) {
		d.ClearBuffer()
		require.NoError(t, d.AddBitmap("ma_qr.png", model.AlignCenter))

		header := []byte{0x1D, 0x76, 0x30, 0x00, 2, 0, 4, 0}
		want := concat(
			WOOSIM_COMMANDS.LINE_FEED,
			WOOSIM_COMMANDS.ALIGN_CENTER,
			header,
			[]byte{0xFF, 0xFF, 0, 0, 0, 0, 0, 0},
			WOOSIM_COMMANDS.ALIGN_LEFT,
		)
		assert.Equal(t, want, d.Bytes())
	})

	t.Run("missing", func(t *testing.T) {
		d.ClearBuffer()
		require.NoError(t, d.AddBitmap("missing.png", model.AlignCenter))
		assert.Contains(t, string(d.Bytes()), "ERROR: missing.png not found\n")
	})
}

func TestWoosim_AddLineFeeds(t *testing.T) {
	d, _ := newDriver(t, driver.Options{})

	require.NoError(t, d.AddLineFeeds(0))
	require.NoError(t, d.AddLineFeeds(3))
	assert.Equal(t, []byte{0x1B, 0x64, 1, 0x1B, 0x64, 3}, d.Bytes())
}

func TestWoosim_UnsupportedCapabilities(t *testing.T) {
	d, _ := newDriver(t, driver.Options{})

	assert.True(t, errors.Is(d.Cut(), driver.ErrNotSupported))
	assert.True(t, errors.Is(d.AddQRCode("https://example.com", model.AlignCenter), driver.ErrNotSupported))
	assert.Empty(t, d.Bytes())
}

func TestWoosim_BufferOverflow(t *testing.T) {
	d, _ := newDriver(t, driver.Options{SinkCapacity: 8})

	require.NoError(t, d.InitPrinter())
	err := d.AddAlignedString("this will not fit", driver.TextStyle{})

	assert.True(t, errors.Is(err, driver.ErrBufferOverflow))
	assert.Equal(t, WOOSIM_COMMANDS.INITIALIZE, d.Bytes())
}

func TestWoosim_SendPrintData(t *testing.T) {
	d, w := newDriver(t, driver.Options{})

	require.NoError(t, d.InitPrinter())
	require.NoError(t, d.AddLineFeeds(1))
	require.NoError(t, d.SendPrintData(context.Background()))

	require.Len(t, w.writes, 1)
	assert.Equal(t, []byte{0x1B, 0x40, 0x1B, 0x64, 1}, w.writes[0])
	assert.Empty(t, d.Bytes())

	// an empty job writes nothing
	require.NoError(t, d.SendPrintData(context.Background()))
	assert.Len(t, w.writes, 1)
}
