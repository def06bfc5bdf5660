package layout

import (
	"math/rand"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"printer-service/internal/model"
)

func TestWrap(t *testing.T) {
	tests := []struct {
		name  string
		text  string
		width int
		want  string
	}{
		{"empty", "", 10, ""},
		{"fits", "hello", 10, "hello"},
		{"break at space on boundary", "hello world foo", 11, "hello world\nfoo"},
		{"break at last space before boundary", "aaa bbb ccc", 6, "aaa\nbbb\nccc"},
		{"hard break without spaces", "abcdefghij", 4, "abcd\nefgh\nij"},
		{"mixed soft and hard", "aaa bbbbbbbbb", 5, "aaa\nbbbbb\nbbbb"},
		{"keeps existing newlines", "ab\ncd ef", 3, "ab\ncd\nef"},
		{"counts runes not bytes", "Điện thoại KH", 6, "Điện\nthoại\nKH"},
		{"zero width treated as one", "ab", 0, "a\nb"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Wrap(tt.text, tt.width))
		})
	}
}

func TestWrap_Properties(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	words := []string{"a", "to", "KỲ", "receipt", "thermal", "printer", "Định", "supercalifragilistic", "x"}

	for i := 0; i < 500; i++ {
		n := 1 + rng.Intn(12)
		parts := make([]string, n)
		for j := range parts {
			parts[j] = words[rng.Intn(len(words))]
		}
		text := strings.Join(parts, strings.Repeat(" ", 1+rng.Intn(2)))
		width := 1 + rng.Intn(30)

		wrapped := Wrap(text, width)
		for _, line := range strings.Split(wrapped, "\n") {
			require.LessOrEqual(t, Len(line), width, "text=%q width=%d", text, width)
		}
		require.Equal(t, wrapped, Wrap(wrapped, width), "not idempotent: text=%q width=%d", text, width)

		// only spaces are ever replaced, nothing is lost
		require.Equal(t,
			strings.ReplaceAll(strings.ReplaceAll(text, " ", ""), "\n", ""),
			strings.ReplaceAll(strings.ReplaceAll(wrapped, " ", ""), "\n", ""),
		)
	}
}

func TestTwoColumn(t *testing.T) {
	t.Run("right operand flush right", func(t *testing.T) {
		got := TwoColumn("Name:", "A", 20)
		assert.Equal(t, "Name:"+strings.Repeat(" ", 14)+"A", got)
		assert.Equal(t, 20, Len(got))
	})

	t.Run("length equals width whenever it fits", func(t *testing.T) {
		for _, pair := range [][2]string{{"Amount:", "100"}, {"Chỉ số", "1600 m³"}, {"", ""}, {"abcdefghijklmnopqr", "s"}} {
			got := TwoColumn(pair[0], pair[1], 20)
			assert.Equal(t, 20, Len(got), "pair=%q", pair)
		}
	})

	t.Run("blank operands keep a placeholder", func(t *testing.T) {
		assert.Equal(t, "    x", TwoColumn("", "x", 5))
		assert.Equal(t, "x    ", TwoColumn("x", "  ", 5))
	})

	t.Run("one over width drops a padding space", func(t *testing.T) {
		assert.Equal(t, "abcdefgh", TwoColumn("abc ", "defgh", 8))
		assert.Equal(t, "abcdefgh", TwoColumn("abc", " defgh", 8))
	})

	t.Run("one over width without an edge space wraps", func(t *testing.T) {
		assert.Equal(t, "abcd\nefghi", TwoColumn("abcd", "efghi", 8))

		row := TwoColumnRow("Tiền", "nước 1000", 12)
		require.True(t, row.Overflow())
		assert.Equal(t, "Tiền nước\n1000", row.Wrapped)
	})

	t.Run("overflow wraps", func(t *testing.T) {
		assert.Equal(t, "abcd\nefgh", TwoColumn("abcd", "efgh", 8))
		assert.Equal(t, "Tổng số tiền cần\nthanh toán:\n2.371.680", TwoColumn("Tổng số tiền cần thanh toán:", "2.371.680", 16))
	})
}

func TestTwoColumnRow_Parts(t *testing.T) {
	row := TwoColumnRow("Tiền", "100 đ", 12)
	require.False(t, row.Overflow())
	assert.Equal(t, []string{"Tiền", "100 đ"}, row.Columns)
	assert.Equal(t, []string{"   "}, row.Gaps)
}

func TestThreeColumn(t *testing.T) {
	t.Run("centering heuristic", func(t *testing.T) {
		got := ThreeColumn("GB: 55", "ĐM: 0", "MTT: 4", 35)
		assert.Equal(t, "GB: 55"+strings.Repeat(" ", 8)+"ĐM: 0"+strings.Repeat(" ", 10)+"MTT: 4", got)
		assert.Equal(t, 35, Len(got))
	})

	t.Run("operands are trimmed", func(t *testing.T) {
		assert.Equal(t, ThreeColumn("a", "b", "c", 11), ThreeColumn("  a ", " b", "c\n", 11))
	})

	t.Run("gaps never collapse below one space", func(t *testing.T) {
		assert.Equal(t, "a b c", ThreeColumn("a", "b", "c", 3))
	})

	t.Run("blank middle keeps a placeholder", func(t *testing.T) {
		row := ThreeColumnRow("Tiêu thụ:", "", "m³", 20)
		require.False(t, row.Overflow())
		assert.Equal(t, " ", row.Columns[1])
	})

	t.Run("overflow wraps the joined text", func(t *testing.T) {
		row := ThreeColumnRow("aaaa", "bbbb", "cccc", 10)
		assert.True(t, row.Overflow())
		assert.Equal(t, "aaaa bbbb\ncccc", row.String())
	})
}

func TestPad(t *testing.T) {
	assert.Equal(t, "", Pad("ab", 6, model.AlignLeft))
	assert.Equal(t, "  ", Pad("ab", 6, model.AlignCenter))
	assert.Equal(t, "    ", Pad("ab", 6, model.AlignRight))
	assert.Equal(t, "", Pad("too long", 4, model.AlignRight))
}

func TestSeparator(t *testing.T) {
	assert.Equal(t, "----", Separator(4))
	assert.Equal(t, "", Separator(-1))
}
