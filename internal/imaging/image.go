// internal/imaging/image.go
package imaging

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"os"

	_ "golang.org/x/image/bmp"
	xdraw "golang.org/x/image/draw"
	_ "golang.org/x/image/webp"

	"printer-service/internal/model"
)

// DefaultThreshold separates black from white dots
const DefaultThreshold = 128

var (
	ErrImageNotFound = errors.New("image not found")
	ErrImageDecode   = errors.New("failed to decode image")
	ErrRender        = errors.New("failed to render text")
)

// LoadImage loads and decodes an image file
func LoadImage(path string) (image.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrImageNotFound, path)
		}
		return nil, err
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrImageDecode, err)
	}
	return img, nil
}

// FitWidth scales img down so it is at most maxWidth dots wide, keeping the
// aspect ratio. Narrower images are returned as is.
func FitWidth(img image.Image, maxWidth int) image.Image {
	b := img.Bounds()
	if maxWidth <= 0 || b.Dx() <= maxWidth {
		return img
	}

	h := b.Dy() * maxWidth / b.Dx()
	if h < 1 {
		h = 1
	}
	dst := newWhite(maxWidth, h)
	xdraw.ApproxBiLinear.Scale(dst, dst.Bounds(), img, b, xdraw.Over, nil)
	return dst
}

// AlignOnCanvas places img on a white canvas of the given width at the
// requested alignment. Images wider than the canvas are cropped on the right.
func AlignOnCanvas(img image.Image, width int, align model.Align) *image.RGBA {
	b := img.Bounds()
	canvas := newWhite(width, b.Dy())

	x := 0
	switch align {
	case model.AlignCenter:
		x = (width - b.Dx()) / 2
	case model.AlignRight:
		x = width - b.Dx()
	}
	if x < 0 {
		x = 0
	}

	target := image.Rect(x, 0, x+b.Dx(), b.Dy())
	draw.Draw(canvas, target, img, b.Min, draw.Over)
	return canvas
}

// Bitmap is a packed 1 bit per dot raster, MSB first, 1 = black
type Bitmap struct {
	Width  int
	Height int
	Stride int
	Data   []byte
}

// Row returns the packed bytes of row y
func (b *Bitmap) Row(y int) []byte {
	return b.Data[y*b.Stride : (y+1)*b.Stride]
}

// ToMonochrome packs img into a Bitmap. Pixels darker than threshold become
// black dots; transparent pixels are treated as white paper.
func ToMonochrome(img image.Image, threshold uint8) *Bitmap {
	bounds := img.Bounds()
	width, height := bounds.Dx(), bounds.Dy()
	stride := (width + 7) / 8

	bm := &Bitmap{
		Width:  width,
		Height: height,
		Stride: stride,
		Data:   make([]byte, stride*height),
	}

	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			gray := grayOverWhite(img.At(bounds.Min.X+x, bounds.Min.Y+y))
			if gray < threshold {
				bm.Data[y*stride+x/8] |= 0x80 >> (x % 8)
			}
		}
	}
	return bm
}

// grayOverWhite composites c over white and returns its luminance
func grayOverWhite(c color.Color) uint8 {
	r, g, b, a := c.RGBA()
	bg := 0xffff - a
	r, g, b = r+bg, g+bg, b+bg
	lum := (299*r + 587*g + 114*b) / 1000
	return uint8(lum >> 8)
}

func newWhite(w, h int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.Draw(img, img.Bounds(), image.White, image.Point{}, draw.Src)
	return img
}
