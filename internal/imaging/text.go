// internal/imaging/text.go
package imaging

import (
	"fmt"
	"image"
	"os"
	"strings"

	"github.com/golang/freetype"
	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/math/fixed"

	"printer-service/internal/model"
)

const (
	normalFontSize = 24
	doubleFontSize = 32
	textPadding    = 4
)

// TextOptions configures one rendered text unit
type TextOptions struct {
	Align      model.Align
	Bold       bool
	DoubleSize bool
}

// Segment is a piece of a single rendered line. X is the left edge for
// left anchored segments and the right edge for right anchored ones.
type Segment struct {
	Text   string
	X      int
	Anchor model.Align
	Bold   bool
}

// Renderer rasterizes text for printers that cannot print text natively.
// Sizes are in dots (72 DPI makes points equal to dots).
type Renderer struct {
	regular *truetype.Font
	bold    *truetype.Font
	width   int
}

// NewRenderer builds a renderer for a print head width in dots. fontPath
// overrides the built in Go fonts; the same face is then used for bold.
func NewRenderer(width int, fontPath string) (*Renderer, error) {
	regularTTF, boldTTF := goregular.TTF, gobold.TTF
	if fontPath != "" {
		data, err := os.ReadFile(fontPath)
		if err != nil {
			return nil, fmt.Errorf("failed to read font: %w", err)
		}
		regularTTF, boldTTF = data, data
	}

	regular, err := truetype.Parse(regularTTF)
	if err != nil {
		return nil, fmt.Errorf("failed to parse font: %w", err)
	}
	bold, err := truetype.Parse(boldTTF)
	if err != nil {
		return nil, fmt.Errorf("failed to parse bold font: %w", err)
	}

	return &Renderer{regular: regular, bold: bold, width: width}, nil
}

// Width of the rendered canvas in dots
func (r *Renderer) Width() int {
	return r.width
}

// ContentWidth is the usable width inside the side padding
func (r *Renderer) ContentWidth() int {
	return r.width - 2*textPadding
}

// RenderText wraps text to the canvas by measured width and draws every line
// at the requested alignment. The canvas is exactly tall enough for the
// wrapped lines plus top and bottom padding.
func (r *Renderer) RenderText(text string, opts TextOptions) (*image.RGBA, error) {
	f := r.font(opts.Bold)
	size := fontSize(opts.DoubleSize)
	face := truetype.NewFace(f, &truetype.Options{Size: size, DPI: 72})
	defer face.Close()

	lines := wrapToWidth(text, face, r.ContentWidth())
	lineHeight := lineHeightOf(face)
	img := newWhite(r.width, lineHeight*len(lines)+2*textPadding)

	c := r.context(f, size, img)
	ascent := face.Metrics().Ascent.Ceil()
	for i, line := range lines {
		lw := measureString(face, line)
		x := textPadding
		switch opts.Align {
		case model.AlignCenter:
			x = (r.width - lw) / 2
		case model.AlignRight:
			x = r.width - lw - textPadding
		}
		y := textPadding + ascent + i*lineHeight
		if _, err := c.DrawString(line, freetype.Pt(x, y)); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrRender, err)
		}
	}
	return img, nil
}

// RenderSegments draws one line made of independently placed segments, used
// for column rows where each column may be bold on its own.
func (r *Renderer) RenderSegments(segments []Segment, double bool) (*image.RGBA, error) {
	size := fontSize(double)
	regular := truetype.NewFace(r.regular, &truetype.Options{Size: size, DPI: 72})
	defer regular.Close()
	bold := truetype.NewFace(r.bold, &truetype.Options{Size: size, DPI: 72})
	defer bold.Close()

	lineHeight := max(lineHeightOf(regular), lineHeightOf(bold))
	img := newWhite(r.width, lineHeight+2*textPadding)
	ascent := max(regular.Metrics().Ascent.Ceil(), bold.Metrics().Ascent.Ceil())

	for _, seg := range segments {
		face, f := regular, r.regular
		if seg.Bold {
			face, f = bold, r.bold
		}
		text := strings.TrimRight(seg.Text, " ")
		x := seg.X
		if seg.Anchor == model.AlignRight {
			x -= measureString(face, text)
		}
		c := r.context(f, size, img)
		if _, err := c.DrawString(text, freetype.Pt(x, textPadding+ascent)); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrRender, err)
		}
	}
	return img, nil
}

// MeasureString returns the advance of s in dots
func (r *Renderer) MeasureString(s string, bold, double bool) int {
	face := truetype.NewFace(r.font(bold), &truetype.Options{Size: fontSize(double), DPI: 72})
	defer face.Close()
	return measureString(face, s)
}

func (r *Renderer) font(bold bool) *truetype.Font {
	if bold {
		return r.bold
	}
	return r.regular
}

func (r *Renderer) context(f *truetype.Font, size float64, dst *image.RGBA) *freetype.Context {
	c := freetype.NewContext()
	c.SetDPI(72)
	c.SetFont(f)
	c.SetFontSize(size)
	c.SetClip(dst.Bounds())
	c.SetDst(dst)
	c.SetSrc(image.Black)
	c.SetHinting(font.HintingFull)
	return c
}

func fontSize(double bool) float64 {
	if double {
		return doubleFontSize
	}
	return normalFontSize
}

func lineHeightOf(face font.Face) int {
	m := face.Metrics()
	return m.Ascent.Ceil() + m.Descent.Ceil()
}

// wrapToWidth splits text into lines no wider than maxWidth dots, breaking on
// spaces and splitting words that are too long on their own.
func wrapToWidth(text string, face font.Face, maxWidth int) []string {
	var lines []string

	for _, para := range strings.Split(text, "\n") {
		words := strings.Fields(para)
		if len(words) == 0 {
			lines = append(lines, "")
			continue
		}

		current := ""
		for _, word := range words {
			candidate := word
			if current != "" {
				candidate = current + " " + word
			}
			if measureString(face, candidate) <= maxWidth {
				current = candidate
				continue
			}

			if current != "" {
				lines = append(lines, current)
			}
			current = word
			if measureString(face, word) > maxWidth {
				current = breakLongWord(word, face, maxWidth, &lines)
			}
		}
		lines = append(lines, current)
	}
	return lines
}

// breakLongWord emits full-width chunks of word and returns the remainder
func breakLongWord(word string, face font.Face, maxWidth int, lines *[]string) string {
	var part string
	for _, ch := range word {
		test := part + string(ch)
		if measureString(face, test) > maxWidth && part != "" {
			*lines = append(*lines, part)
			part = string(ch)
		} else {
			part = test
		}
	}
	return part
}

// measureString returns the width of a string in dots
func measureString(face font.Face, s string) int {
	var width fixed.Int26_6
	prev := rune(-1)
	for _, r := range s {
		if prev >= 0 {
			width += face.Kern(prev, r)
		}
		if adv, ok := face.GlyphAdvance(r); ok {
			width += adv
		}
		prev = r
	}
	return width.Ceil()
}
