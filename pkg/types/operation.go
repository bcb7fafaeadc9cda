// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package types defines shared data structures for the excelab client:
// operation modes and their option bundles, server preview payloads,
// download artifacts, attempt records, and configuration.
package types

// Mode identifies an operation module. The mode decides which endpoints
// and which option set apply to a submission.
type Mode string

const (
	ModeMerge    Mode = "merge"
	ModeSplit    Mode = "split"
	ModeClean    Mode = "clean"
	ModePDF2Img  Mode = "pdf2img"
	ModePDFMerge Mode = "pdfmerge"
)

// String returns the mode name.
func (m Mode) String() string { return string(m) }

// Modes lists every operation module in display order.
var Modes = []Mode{ModeMerge, ModeSplit, ModeClean, ModePDF2Img, ModePDFMerge}

// Endpoint paths on the processing backend.
const (
	EndpointMerge           = "/api/merge"
	EndpointMergePreview    = "/api/merge/preview"
	EndpointSplitColumns    = "/api/split/columns"
	EndpointSplit           = "/api/split"
	EndpointCleanPreview    = "/api/clean/preview"
	EndpointClean           = "/api/clean"
	EndpointPDFToImages     = "/api/pdf-to-images"
	EndpointPDFMergePreview = "/api/pdfmerge/preview"
	EndpointPDFMerge        = "/api/pdfmerge"
	EndpointHealth          = "/health"
)

// MergeMode selects how spreadsheets are combined. The backend knows
// "outer" (union of columns) and "inner" (common columns only); the
// client passes any non-empty value through unchanged.
type MergeMode string

const (
	MergeOuter MergeMode = "outer"
	MergeInner MergeMode = "inner"
)

// ImageFormat is the output image encoding for PDF page conversion.
type ImageFormat string

const (
	ImagePNG  ImageFormat = "png"
	ImageJPEG ImageFormat = "jpeg"
)

// PDFMergeOption is one of the optional extras applied when merging PDFs.
type PDFMergeOption string

const (
	// PDFAddBlankPage inserts a blank page between consecutive documents.
	PDFAddBlankPage PDFMergeOption = "add_blank_page"
	// PDFAddTOC prepends a table-of-contents page listing the inputs.
	PDFAddTOC PDFMergeOption = "add_toc"
)

// CleanOptions are the flags sent to the clean endpoints.
type CleanOptions struct {
	RemoveEmptyRows bool `json:"remove_empty_rows" yaml:"remove_empty_rows"`
	RemoveEmptyCols bool `json:"remove_empty_cols" yaml:"remove_empty_cols"`
	TrimSpaces      bool `json:"trim_spaces" yaml:"trim_spaces"`
}

// DefaultCleanOptions mirrors the backend defaults.
func DefaultCleanOptions() CleanOptions {
	return CleanOptions{RemoveEmptyRows: true, RemoveEmptyCols: true}
}

// Default download names per endpoint, used when the response carries no
// Content-Disposition filename.
const (
	DefaultMergeFilename    = "merged_pro.xlsx"
	DefaultSplitFilename    = "split_files.zip"
	DefaultCleanFilename    = "cleaned_data.xlsx"
	DefaultPDFMergeFilename = "merged.pdf"
	DefaultImagesSuffix     = "_images.zip"
)
