package cli

import (
	"strings"
	"unicode/utf8"
)

// Table is a plain-text table with column widths sized to fit the content.
// Cells may carry ANSI colour sequences; they do not count toward width.
type Table struct {
	headers []string
	rows    [][]string
	padding int
}

// NewTable creates a new table with the given headers.
func NewTable(headers []string) *Table {
	return &Table{
		headers: headers,
		padding: 2,
	}
}

// AddRow adds a row, padding or truncating it to the header count.
func (t *Table) AddRow(row []string) {
	if len(row) != len(t.headers) {
		fixed := make([]string, len(t.headers))
		copy(fixed, row)
		row = fixed
	}
	t.rows = append(t.rows, row)
}

// Render formats and returns the table as a string.
func (t *Table) Render() string {
	if len(t.headers) == 0 {
		return ""
	}

	widths := make([]int, len(t.headers))
	for i, h := range t.headers {
		widths[i] = visibleWidth(h)
	}
	for _, row := range t.rows {
		for i, cell := range row {
			widths[i] = max(widths[i], visibleWidth(cell))
		}
	}

	var b strings.Builder
	t.writeLine(&b, t.headers, widths)

	sep := make([]string, len(widths))
	for i, w := range widths {
		sep[i] = strings.Repeat("-", w)
	}
	t.writeLine(&b, sep, widths)

	for _, row := range t.rows {
		t.writeLine(&b, row, widths)
	}
	return b.String()
}

func (t *Table) writeLine(b *strings.Builder, cells []string, widths []int) {
	gap := strings.Repeat(" ", t.padding)
	last := len(cells) - 1
	for i, cell := range cells {
		if i > 0 {
			b.WriteString(gap)
		}
		if i == last {
			b.WriteString(cell)
		} else {
			b.WriteString(padRight(cell, widths[i]))
		}
	}
	b.WriteByte('\n')
}

// padRight pads s with spaces to the given visible width. Longer strings are
// returned unchanged.
func padRight(s string, width int) string {
	w := visibleWidth(s)
	if w >= width {
		return s
	}
	return s + strings.Repeat(" ", width-w)
}

// visibleWidth counts the runes of s that a terminal would draw, skipping
// CSI escape sequences such as "\x1b[38;2;1;2;3m".
func visibleWidth(s string) int {
	n := 0
	for i := 0; i < len(s); {
		if s[i] == 0x1b && i+1 < len(s) && s[i+1] == '[' {
			i += 2
			for i < len(s) && (s[i] < 0x40 || s[i] > 0x7e) {
				i++
			}
			i++ // final byte
			continue
		}
		_, size := utf8.DecodeRuneInString(s[i:])
		i += size
		n++
	}
	return n
}
