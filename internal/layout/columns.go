// internal/layout/columns.go
package layout

import "strings"

// Row is a laid out multi-column line. Gaps[i] sits between Columns[i] and
// Columns[i+1]. When the operands do not fit the row falls back to a word
// wrap and only Wrapped is set.
type Row struct {
	Columns []string
	Gaps    []string
	Wrapped string
}

// Overflow reports whether the row fell back to Wrap
func (r Row) Overflow() bool {
	return r.Columns == nil
}

func (r Row) String() string {
	if r.Overflow() {
		return r.Wrapped
	}
	var b strings.Builder
	for i, col := range r.Columns {
		if i > 0 {
			b.WriteString(r.Gaps[i-1])
		}
		b.WriteString(col)
	}
	return b.String()
}

// TwoColumn places left at column 0 and right flush with width.
func TwoColumn(left, right string, width int) string {
	return TwoColumnRow(left, right, width).String()
}

// TwoColumnRow is TwoColumn with the columns kept apart.
//
// If the pair overflows by exactly one character and a space can be dropped
// from the inner edges, it is. Anything longer is wrapped.
func TwoColumnRow(left, right string, width int) Row {
	l, r := orSpace(left), orSpace(right)
	total := Len(l) + Len(r)

	switch {
	case total < width:
		return Row{
			Columns: []string{l, r},
			Gaps:    []string{strings.Repeat(" ", width-total)},
		}
	case total == width+1 && strings.HasSuffix(l, " "):
		return Row{Columns: []string{l[:len(l)-1], r}, Gaps: []string{""}}
	case total == width+1 && strings.HasPrefix(r, " "):
		return Row{Columns: []string{l, r[1:]}, Gaps: []string{""}}
	}
	return Row{Wrapped: Wrap(l+" "+r, width)}
}

// ThreeColumn lays out left, middle and right on one line.
func ThreeColumn(left, middle, right string, width int) string {
	return ThreeColumnRow(left, middle, right, width).String()
}

// ThreeColumnRow centers the middle column against the left+middle span with
// integer arithmetic and gives the right column whatever is left. Both gaps
// are at least one space. The spacing is a heuristic and looks unbalanced
// for ragged input.
func ThreeColumnRow(left, middle, right string, width int) Row {
	l := strings.TrimSpace(left)
	m := strings.TrimSpace(middle)
	r := strings.TrimSpace(right)
	ll, ml, rl := Len(l), Len(m), Len(r)

	if ll+ml+rl > width {
		return Row{Wrapped: Wrap(l+" "+m+" "+r, width)}
	}

	sp1 := max(1, width/2+ml/2-(ll+ml))
	span := strings.TrimSpace(l + strings.Repeat(" ", sp1) + m)
	sp2 := max(1, width-(Len(span)+rl))

	return Row{
		Columns: []string{orSpace(l), orSpace(m), orSpace(r)},
		Gaps:    []string{strings.Repeat(" ", sp1), strings.Repeat(" ", sp2)},
	}
}

func orSpace(s string) string {
	if strings.TrimSpace(s) == "" {
		return " "
	}
	return s
}
