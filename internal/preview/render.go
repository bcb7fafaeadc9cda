// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package preview

import (
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/pdiddy/excelab/pkg/types"
)

// MaxCellWidth caps the rendered width of one table cell.
const MaxCellWidth = 30

// Render writes stats, actions, and the table of r to w.
func Render(w io.Writer, r Result) {
	for _, s := range r.Stats {
		fmt.Fprintf(w, "%-18s %s\n", s.Label+":", s.Value)
	}
	if actions := r.Actions(); len(actions) > 0 {
		fmt.Fprintf(w, "%-18s %s\n", "Actions:", strings.Join(actions, ", "))
	}
	if r.Table == nil {
		return
	}
	if len(r.Stats) > 0 {
		fmt.Fprintln(w)
	}
	RenderTable(w, *r.Table)
}

// Actions returns the server-applied actions, if the preview has any.
func (r Result) Actions() []string {
	switch {
	case r.Clean != nil:
		return r.Clean.Actions
	case r.PDFMerge != nil:
		return r.PDFMerge.Actions
	}
	return nil
}

// RenderTable writes t as left-aligned, padded columns.
func RenderTable(w io.Writer, t types.Table) {
	if len(t.Columns) == 0 {
		fmt.Fprintln(w, "(no columns)")
		return
	}

	widths := make([]int, len(t.Columns))
	for i, c := range t.Columns {
		widths[i] = width(truncate(c))
	}
	for _, row := range t.Rows {
		for i, cell := range row {
			if i >= len(widths) {
				break
			}
			if n := width(truncate(cell)); n > widths[i] {
				widths[i] = n
			}
		}
	}

	writeRow(w, t.Columns, widths)
	total := 0
	for _, n := range widths {
		total += n + 2
	}
	fmt.Fprintln(w, strings.Repeat("-", total-2))
	for _, row := range t.Rows {
		writeRow(w, row, widths)
	}
	if len(t.Rows) == 0 {
		fmt.Fprintln(w, "(no rows)")
	}
}

func writeRow(w io.Writer, cells []string, widths []int) {
	parts := make([]string, len(widths))
	for i := range widths {
		var cell string
		if i < len(cells) {
			cell = truncate(cells[i])
		}
		parts[i] = cell + strings.Repeat(" ", widths[i]-width(cell))
	}
	fmt.Fprintln(w, strings.TrimRight(strings.Join(parts, "  "), " "))
}

func truncate(s string) string {
	return Truncate(strings.ReplaceAll(s, "\n", " "), MaxCellWidth)
}

// Truncate shortens s to at most n characters, ending in "..." when cut.
func Truncate(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	if n <= 0 {
		return ""
	}
	if n <= 3 {
		return string([]rune(s)[:n])
	}
	return string([]rune(s)[:n-3]) + "..."
}

func width(s string) int { return utf8.RuneCountInString(s) }
