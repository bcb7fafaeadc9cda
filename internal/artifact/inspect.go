// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package artifact

import (
	"archive/zip"
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	pdfapi "github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
	"github.com/xuri/excelize/v2"

	"github.com/pdiddy/excelab/internal/httputil"
	"github.com/pdiddy/excelab/pkg/types"
)

// Kind classifies a saved artifact.
type Kind string

const (
	KindSpreadsheet Kind = "spreadsheet"
	KindArchive     Kind = "archive"
	KindPDF         Kind = "pdf"
	KindOther       Kind = "other"
)

// DetectKind picks a kind from the file extension, falling back to the
// leading magic bytes.
func DetectKind(name string, data []byte) Kind {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".xlsx", ".xlsm":
		return KindSpreadsheet
	case ".zip":
		return KindArchive
	case ".pdf":
		return KindPDF
	}
	switch {
	case bytes.HasPrefix(data, []byte("%PDF-")):
		return KindPDF
	case bytes.HasPrefix(data, []byte("PK\x03\x04")):
		return KindArchive
	}
	return KindOther
}

// KindOf classifies a downloaded artifact. A spreadsheet Content-Type
// wins over the name and bytes, since xlsx payloads are zip files.
func KindOf(a types.Artifact) Kind {
	if httputil.IsSpreadsheet(a.ContentType) {
		return KindSpreadsheet
	}
	return DetectKind(a.Filename, a.Data)
}

// SheetSummary describes one worksheet.
type SheetSummary struct {
	Name    string `json:"name" yaml:"name"`
	Rows    int    `json:"rows" yaml:"rows"`
	Columns int    `json:"columns" yaml:"columns"`
}

// Entry is one member of a zip archive.
type Entry struct {
	Name string `json:"name" yaml:"name"`
	Size uint64 `json:"size" yaml:"size"`
}

// Summary is the result of Inspect.
type Summary struct {
	Name string `json:"name" yaml:"name"`
	Kind Kind   `json:"kind" yaml:"kind"`
	Size int64  `json:"size" yaml:"size"`

	Sheets  []SheetSummary `json:"sheets,omitempty" yaml:"sheets,omitempty"`
	Entries []Entry        `json:"entries,omitempty" yaml:"entries,omitempty"`
	Pages   int            `json:"pages,omitempty" yaml:"pages,omitempty"`
}

// Inspect reads the file at path and summarizes it.
func Inspect(path string) (*Summary, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	return InspectBytes(filepath.Base(path), data)
}

// InspectBytes summarizes an in-memory artifact named name.
func InspectBytes(name string, data []byte) (*Summary, error) {
	s := &Summary{Name: name, Kind: DetectKind(name, data), Size: int64(len(data))}

	var err error
	switch s.Kind {
	case KindSpreadsheet:
		s.Sheets, err = inspectWorkbook(data)
	case KindArchive:
		s.Entries, err = inspectArchive(data)
	case KindPDF:
		s.Pages, err = inspectPDF(data)
	}
	if err != nil {
		return nil, fmt.Errorf("inspecting %s: %w", name, err)
	}
	return s, nil
}

func inspectWorkbook(data []byte) ([]SheetSummary, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("opening workbook: %w", err)
	}
	defer f.Close()

	var sheets []SheetSummary
	for _, name := range f.GetSheetList() {
		rows, err := f.GetRows(name)
		if err != nil {
			return nil, fmt.Errorf("reading sheet %s: %w", name, err)
		}
		cols := 0
		for _, r := range rows {
			if len(r) > cols {
				cols = len(r)
			}
		}
		sheets = append(sheets, SheetSummary{Name: name, Rows: len(rows), Columns: cols})
	}
	return sheets, nil
}

func inspectArchive(data []byte) ([]Entry, error) {
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("opening archive: %w", err)
	}
	entries := make([]Entry, 0, len(zr.File))
	for _, f := range zr.File {
		if f.FileInfo().IsDir() {
			continue
		}
		entries = append(entries, Entry{Name: f.Name, Size: f.UncompressedSize64})
	}
	return entries, nil
}

func inspectPDF(data []byte) (int, error) {
	n, err := pdfapi.PageCount(bytes.NewReader(data), model.NewDefaultConfiguration())
	if err != nil {
		return 0, fmt.Errorf("reading pdf: %w", err)
	}
	return n, nil
}
