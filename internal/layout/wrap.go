// internal/layout/wrap.go
package layout

import (
	"strings"
	"unicode/utf8"

	"printer-service/internal/model"
)

// Wrap breaks text into lines of at most width characters.
//
// A cursor advances from the last break point by at most width characters,
// then searches backward for a space at or before the boundary and replaces
// it with a newline. When the window holds no space the line is hard-broken
// at the boundary. Newlines already in text are kept and every line is wrapped
// on its own, so Wrap(Wrap(t, w), w) == Wrap(t, w).
func Wrap(text string, width int) string {
	if text == "" {
		return ""
	}
	if width < 1 {
		width = 1
	}

	lines := strings.Split(text, "\n")
	for i, line := range lines {
		if utf8.RuneCountInString(line) > width {
			lines[i] = wrapLine([]rune(line), width)
		}
	}
	return strings.Join(lines, "\n")
}

func wrapLine(src []rune, width int) string {
	var b strings.Builder
	b.Grow(len(src) + len(src)/width + 1)

	cursor := 0
	for len(src)-cursor > width {
		boundary := cursor + width

		brk := -1
		for i := boundary; i > cursor; i-- {
			if src[i] == ' ' {
				brk = i
				break
			}
		}

		if brk >= 0 {
			b.WriteString(string(src[cursor:brk]))
			cursor = brk + 1
		} else {
			b.WriteString(string(src[cursor:boundary]))
			cursor = boundary
		}
		b.WriteByte('\n')
	}
	b.WriteString(string(src[cursor:]))
	return b.String()
}

// Pad returns the leading spaces that place text at align inside width.
func Pad(text string, width int, align model.Align) string {
	free := width - Len(text)
	if free <= 0 {
		return ""
	}
	switch align {
	case model.AlignCenter:
		return strings.Repeat(" ", free/2)
	case model.AlignRight:
		return strings.Repeat(" ", free)
	default:
		return ""
	}
}

// Separator is a dash line of width characters
func Separator(width int) string {
	if width < 0 {
		width = 0
	}
	return strings.Repeat("-", width)
}

// Len counts characters, not bytes
func Len(s string) int {
	return utf8.RuneCountInString(s)
}
