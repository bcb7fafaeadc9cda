// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

// Row is one record of a tabular preview, keyed by column name. Values
// keep the JSON types the server sent (json.Number for numbers).
type Row map[string]any

// MergePreview is the body of /api/merge/preview.
type MergePreview struct {
	// Columns lists column names in server order.
	Columns []string `json:"columns" yaml:"columns"`

	// Data holds the first preview_rows merged records.
	Data []Row `json:"data" yaml:"data"`

	// TotalRows is the row count of the full merge result. Older
	// backends omit it.
	TotalRows int `json:"total_rows,omitempty" yaml:"total_rows,omitempty"`
}

// ColumnList is the body of /api/split/columns.
type ColumnList struct {
	Columns []string `json:"columns" yaml:"columns"`
}

// CleanPreview is the body of /api/clean/preview: shape statistics before
// and after cleaning plus the first rows of the cleaned sheet.
type CleanPreview struct {
	OriginalRows   int      `json:"original_rows" yaml:"original_rows"`
	CleanedRows    int      `json:"cleaned_rows" yaml:"cleaned_rows"`
	OriginalCols   int      `json:"original_cols" yaml:"original_cols"`
	CleanedCols    int      `json:"cleaned_cols" yaml:"cleaned_cols"`
	PreviewColumns []string `json:"preview_columns" yaml:"preview_columns"`
	PreviewData    []Row    `json:"preview_data" yaml:"preview_data"`

	// Actions names the clean options the server applied.
	Actions []string `json:"actions,omitempty" yaml:"actions,omitempty"`
}

// RowsRemoved returns how many rows cleaning dropped.
func (p CleanPreview) RowsRemoved() int { return p.OriginalRows - p.CleanedRows }

// ColsRemoved returns how many columns cleaning dropped.
func (p CleanPreview) ColsRemoved() int { return p.OriginalCols - p.CleanedCols }

// PDFMergePreview is the body of /api/pdfmerge/preview.
type PDFMergePreview struct {
	// TotalPages counts pages of the merged document, including any blank
	// separator and table-of-contents pages.
	TotalPages int `json:"total_pages" yaml:"total_pages"`

	// TotalSize is the summed byte size of the input PDFs.
	TotalSize int64 `json:"total_size" yaml:"total_size"`

	Actions []string `json:"actions,omitempty" yaml:"actions,omitempty"`
}

// Table is the renderable form of any tabular preview.
type Table struct {
	Columns []string
	Rows    [][]string
}

// Stat is one labelled aggregate value shown alongside a preview.
type Stat struct {
	Label string
	Value string
}
