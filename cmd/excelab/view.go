// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"io"
	"sync"

	"github.com/fatih/color"

	"github.com/pdiddy/excelab/internal/artifact"
	"github.com/pdiddy/excelab/internal/preview"
	"github.com/pdiddy/excelab/pkg/types"
)

var (
	errorColor   = color.New(color.FgRed, color.Bold)
	successColor = color.New(color.FgGreen)
	busyColor    = color.New(color.Faint)
	headerColor  = color.New(color.FgCyan, color.Bold)
)

// terminalView renders module events as lines on out and saves
// downloads under outputDir.
type terminalView struct {
	mu        sync.Mutex
	out       io.Writer
	outputDir string
}

func newTerminalView(out io.Writer, outputDir string) *terminalView {
	return &terminalView{out: out, outputDir: outputDir}
}

func (v *terminalView) SetBusy(module types.Mode, busy bool) {
	if !busy {
		return
	}
	v.mu.Lock()
	defer v.mu.Unlock()
	busyColor.Fprintf(v.out, "[%s] 处理中...\n", module)
}

func (v *terminalView) ShowError(module types.Mode, msg string) {
	v.mu.Lock()
	defer v.mu.Unlock()
	errorColor.Fprintf(v.out, "[%s] 错误: %s\n", module, msg)
}

func (v *terminalView) ShowSuccess(module types.Mode, msg string) {
	v.mu.Lock()
	defer v.mu.Unlock()
	successColor.Fprintf(v.out, "[%s] %s\n", module, msg)
}

func (v *terminalView) RenderPreview(module types.Mode, r preview.Result) {
	v.mu.Lock()
	defer v.mu.Unlock()
	headerColor.Fprintf(v.out, "[%s] 预览\n", module)
	preview.Render(v.out, r)
	fmt.Fprintln(v.out)
}

func (v *terminalView) Download(module types.Mode, a types.Artifact) (string, error) {
	path, err := artifact.Save(v.outputDir, a)
	if err != nil {
		return "", err
	}
	v.mu.Lock()
	defer v.mu.Unlock()
	fmt.Fprintf(v.out, "[%s] 已保存 %s (%s, %s)\n", module, path, preview.FormatFileSize(a.Size()), artifact.KindOf(a))
	return path, nil
}
