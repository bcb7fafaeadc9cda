// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package preview decodes the JSON preview bodies returned by the
// processing backend and renders them as plain-text tables.
//
// The backend does not tag its previews with a type. Decode picks the
// shape from the keys present in the document.
package preview

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"

	"github.com/pdiddy/excelab/pkg/types"
)

// Kind names the shape of a decoded preview.
type Kind string

const (
	KindMerge    Kind = "merge"
	KindColumns  Kind = "columns"
	KindClean    Kind = "clean"
	KindPDFMerge Kind = "pdfmerge"
)

// Result is a decoded preview ready for display. Exactly one of the
// typed payload pointers is set, matching Kind.
type Result struct {
	Kind Kind

	// Table holds the tabular part of the preview, if any.
	Table *types.Table

	// Stats are aggregate values shown above the table.
	Stats []types.Stat

	Merge    *types.MergePreview
	Columns  *types.ColumnList
	Clean    *types.CleanPreview
	PDFMerge *types.PDFMergePreview
}

// Decode parses a preview body. It fails on malformed JSON and on
// documents whose keys match no known preview shape.
func Decode(body []byte) (Result, error) {
	var keys map[string]json.RawMessage
	if err := json.Unmarshal(body, &keys); err != nil {
		return Result{}, fmt.Errorf("parsing preview: %w", err)
	}

	_, hasColumns := keys["columns"]
	_, hasData := keys["data"]
	_, hasPreviewCols := keys["preview_columns"]
	_, hasPages := keys["total_pages"]

	switch {
	case hasColumns && hasData:
		var p types.MergePreview
		if err := decodeNumbers(body, &p); err != nil {
			return Result{}, err
		}
		return FromMerge(p), nil
	case hasPreviewCols:
		var p types.CleanPreview
		if err := decodeNumbers(body, &p); err != nil {
			return Result{}, err
		}
		return FromClean(p), nil
	case hasPages:
		var p types.PDFMergePreview
		if err := decodeNumbers(body, &p); err != nil {
			return Result{}, err
		}
		return FromPDFMerge(p), nil
	case hasColumns:
		var p types.ColumnList
		if err := decodeNumbers(body, &p); err != nil {
			return Result{}, err
		}
		return FromColumns(p), nil
	}
	return Result{}, fmt.Errorf("unrecognized preview shape")
}

// decodeNumbers keeps numeric cells as json.Number so 1 renders as "1"
// and not "1e+00".
func decodeNumbers(body []byte, v any) error {
	dec := json.NewDecoder(bytes.NewReader(body))
	dec.UseNumber()
	if err := dec.Decode(v); err != nil {
		return fmt.Errorf("parsing preview: %w", err)
	}
	return nil
}

// FromMerge builds a result for a merge preview.
func FromMerge(p types.MergePreview) Result {
	stats := []types.Stat{
		{Label: "Columns", Value: strconv.Itoa(len(p.Columns))},
		{Label: "Rows shown", Value: strconv.Itoa(len(p.Data))},
	}
	if p.TotalRows > 0 {
		stats = append(stats, types.Stat{Label: "Total rows", Value: strconv.Itoa(p.TotalRows)})
	}
	t := BuildTable(p.Columns, p.Data)
	return Result{Kind: KindMerge, Table: &t, Stats: stats, Merge: &p}
}

// FromColumns builds a result for a split column listing.
func FromColumns(p types.ColumnList) Result {
	rows := make([][]string, len(p.Columns))
	for i, c := range p.Columns {
		rows[i] = []string{strconv.Itoa(i + 1), c}
	}
	return Result{
		Kind:    KindColumns,
		Table:   &types.Table{Columns: []string{"#", "Column"}, Rows: rows},
		Stats:   []types.Stat{{Label: "Columns", Value: strconv.Itoa(len(p.Columns))}},
		Columns: &p,
	}
}

// FromClean builds a result for a clean preview.
func FromClean(p types.CleanPreview) Result {
	stats := []types.Stat{
		{Label: "Original rows", Value: strconv.Itoa(p.OriginalRows)},
		{Label: "Cleaned rows", Value: strconv.Itoa(p.CleanedRows)},
		{Label: "Rows removed", Value: strconv.Itoa(p.RowsRemoved())},
		{Label: "Original columns", Value: strconv.Itoa(p.OriginalCols)},
		{Label: "Cleaned columns", Value: strconv.Itoa(p.CleanedCols)},
		{Label: "Columns removed", Value: strconv.Itoa(p.ColsRemoved())},
	}
	t := BuildTable(p.PreviewColumns, p.PreviewData)
	return Result{Kind: KindClean, Table: &t, Stats: stats, Clean: &p}
}

// FromPDFMerge builds a result for a PDF merge preview. It has no table.
func FromPDFMerge(p types.PDFMergePreview) Result {
	stats := []types.Stat{
		{Label: "Total pages", Value: strconv.Itoa(p.TotalPages)},
		{Label: "Total size", Value: FormatFileSize(p.TotalSize)},
	}
	return Result{Kind: KindPDFMerge, Stats: stats, PDFMerge: &p}
}

// BuildTable lays rows out in column order. Missing and null cells
// become empty strings.
func BuildTable(columns []string, rows []types.Row) types.Table {
	t := types.Table{Columns: append([]string(nil), columns...), Rows: make([][]string, len(rows))}
	for i, r := range rows {
		cells := make([]string, len(columns))
		for j, c := range columns {
			cells[j] = FormatCell(r[c])
		}
		t.Rows[i] = cells
	}
	return t
}

// FormatCell renders one JSON value as display text.
func FormatCell(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case json.Number:
		return x.String()
	case bool:
		return strconv.FormatBool(x)
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	}
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Sprint(v)
	}
	return string(data)
}

var sizeUnits = []string{"Bytes", "KB", "MB", "GB"}

// FormatFileSize renders a byte count with 1024-based units and at most
// two decimals: 0 -> "0 Bytes", 1536 -> "1.5 KB".
func FormatFileSize(n int64) string {
	if n <= 0 {
		return "0 Bytes"
	}
	i := 0
	for i < len(sizeUnits)-1 && n >= int64(1)<<(10*(i+1)) {
		i++
	}
	v := float64(n) / math.Pow(1024, float64(i))
	v = math.Round(v*100) / 100
	return strconv.FormatFloat(v, 'f', -1, 64) + " " + sizeUnits[i]
}
