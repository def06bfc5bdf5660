// internal/driver/common/charset.go
package common

import (
	"fmt"
	"strings"

	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/unicode/norm"
)

const (
	CharsetUTF8        = "utf-8"
	CharsetWindows1258 = "windows-1258"
	CharsetCP437       = "cp437"
)

var charmaps = map[string]*charmap.Charmap{
	CharsetWindows1258: charmap.Windows1258,
	CharsetCP437:       charmap.CodePage437,
}

// TextEncoder turns UTF-8 text into the bytes of a printer code page
type TextEncoder struct {
	name string
	cm   *charmap.Charmap
}

// NewTextEncoder returns the encoder for name; an empty name means UTF-8
func NewTextEncoder(name string) (*TextEncoder, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "" || name == "utf8" {
		name = CharsetUTF8
	}
	if name == CharsetUTF8 {
		return &TextEncoder{name: name}, nil
	}
	cm, ok := charmaps[name]
	if !ok {
		return nil, fmt.Errorf("unsupported charset %q", name)
	}
	return &TextEncoder{name: name, cm: cm}, nil
}

func (e *TextEncoder) Name() string {
	return e.name
}

// Encode never fails. A rune missing from the code page is tried in its
// decomposed form (windows-1258 stores Vietnamese tones as combining marks)
// and becomes '?' when that does not help either.
func (e *TextEncoder) Encode(s string) []byte {
	if e.cm == nil {
		return []byte(s)
	}

	out := make([]byte, 0, len(s))
	for _, r := range norm.NFC.String(s) {
		if b, ok := e.cm.EncodeRune(r); ok {
			out = append(out, b)
			continue
		}
		out = e.appendDecomposed(out, r)
	}
	return out
}

// appendDecomposed folds as many marks as the code page has precomposed
// forms for into the base letter and emits the rest as combining marks.
func (e *TextEncoder) appendDecomposed(out []byte, r rune) []byte {
	parts := []rune(norm.NFD.String(string(r)))
	base, marks := parts[0], make([]rune, 0, len(parts)-1)
	for _, m := range parts[1:] {
		composed := []rune(norm.NFC.String(string([]rune{base, m})))
		if len(composed) == 1 {
			if _, ok := e.cm.EncodeRune(composed[0]); ok {
				base = composed[0]
				continue
			}
		}
		marks = append(marks, m)
	}

	encoded := make([]byte, 0, 1+len(marks))
	for _, p := range append([]rune{base}, marks...) {
		b, ok := e.cm.EncodeRune(p)
		if !ok {
			return append(out, '?')
		}
		encoded = append(encoded, b)
	}
	return append(out, encoded...)
}
