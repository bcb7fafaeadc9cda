// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package ops implements the five operation modules of the excelab
// client: merge, split, clean, pdf2img, and pdfmerge. Each module
// validates its options, builds the multipart payload its endpoints
// expect, and runs it through its own session.Module.
package ops

import (
	"errors"
	"fmt"
	"strconv"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"go.uber.org/zap"

	"github.com/pdiddy/excelab/internal/session"
	"github.com/pdiddy/excelab/internal/upload"
	"github.com/pdiddy/excelab/pkg/types"
)

// User-facing validation messages.
const (
	MsgNoFiles      = "请先上传文件"
	MsgNoPDF        = "请先上传一个 PDF 文件"
	MsgNoPDFs       = "请先上传 PDF 文件"
	MsgNoColumn     = "请选择拆分列"
	MsgNoMergeMode  = "请选择合并模式"
	MsgPreviewFirst = "请先进行预览"
	MsgBadFormat    = "不支持的图片格式"
	MsgBadDPI       = "DPI 必须在 36 到 600 之间"
	MsgBadOption    = "不支持的合并选项"
)

// Actions named in fallback error text.
const (
	actionPreview  = "预览请求"
	actionDownload = "下载请求"
	actionColumns  = "获取列名"
	actionSplit    = "拆分请求"
	actionConvert  = "转换"
)

// Deps are the collaborators shared by every module.
type Deps struct {
	Submitter upload.Submitter
	View      session.View

	// Recorder and Logger are optional.
	Recorder session.Recorder
	Logger   *zap.Logger
}

func (d Deps) module(mode types.Mode) *session.Module {
	m := session.New(mode, d.Submitter, d.View)
	m.Recorder = d.Recorder
	if d.Logger != nil {
		m.Logger = d.Logger.Named(mode.String())
	}
	return m
}

// Suite bundles one instance of every module.
type Suite struct {
	Merge    *Merger
	Split    *Splitter
	Clean    *Cleaner
	PDF2Img  *PDFConverter
	PDFMerge *PDFMerger
}

// NewSuite builds every module over deps.
func NewSuite(deps Deps) *Suite {
	return &Suite{
		Merge:    NewMerger(deps),
		Split:    NewSplitter(deps),
		Clean:    NewCleaner(deps),
		PDF2Img:  NewPDFConverter(deps),
		PDFMerge: NewPDFMerger(deps),
	}
}

// FileList is an ordered file selection. Order is upload order.
type FileList []upload.File

// Add appends the files at paths, failing on the first unreadable one.
func (l *FileList) Add(paths ...string) error {
	for _, p := range paths {
		f, err := upload.FileFromPath(p)
		if err != nil {
			return err
		}
		*l = append(*l, f)
	}
	return nil
}

// Remove drops the file at index i.
func (l *FileList) Remove(i int) error {
	if i < 0 || i >= len(*l) {
		return fmt.Errorf("file index %d out of range (have %d)", i, len(*l))
	}
	*l = append((*l)[:i], (*l)[i+1:]...)
	return nil
}

// TotalSize sums the sizes of every file.
func (l FileList) TotalSize() int64 {
	var n int64
	for _, f := range l {
		n += f.Size
	}
	return n
}

// firstInvalid converts an ozzo result into a session.ValidationError
// carrying the message of the first failing field in order.
func firstInvalid(err error, order ...string) error {
	if err == nil {
		return nil
	}
	var errs validation.Errors
	if !errors.As(err, &errs) {
		return session.Invalid(err.Error())
	}
	for _, key := range order {
		if fe, ok := errs[key]; ok && fe != nil {
			return session.Invalid(message(fe))
		}
	}
	for _, fe := range errs {
		if fe != nil {
			return session.Invalid(message(fe))
		}
	}
	return nil
}

// message unwraps nested Each errors down to a single rule message.
func message(err error) string {
	var nested validation.Errors
	if errors.As(err, &nested) {
		for _, e := range nested {
			if e != nil {
				return message(e)
			}
		}
	}
	return err.Error()
}

func boolField(b bool) string { return strconv.FormatBool(b) }
