// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package ops

import (
	"context"
	"fmt"
	"strconv"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/pdiddy/excelab/internal/preview"
	"github.com/pdiddy/excelab/internal/session"
	"github.com/pdiddy/excelab/internal/upload"
	"github.com/pdiddy/excelab/pkg/types"
)

// DefaultCleanPreviewRows matches the backend default.
const DefaultCleanPreviewRows = 5

// CleanRequest tidies one spreadsheet. Only the first file is sent.
type CleanRequest struct {
	Files       FileList           `json:"files"`
	Options     types.CleanOptions `json:"options"`
	PreviewRows int                `json:"preview_rows"`
}

// Validate checks the request before anything is sent.
func (r CleanRequest) Validate() error {
	err := validation.ValidateStruct(&r,
		validation.Field(&r.Files, validation.Required.Error(MsgNoFiles)),
		validation.Field(&r.PreviewRows, validation.Min(0)),
	)
	return firstInvalid(err, "files", "preview_rows")
}

func (r CleanRequest) payload(endpoint string) *upload.Request {
	req := &upload.Request{Endpoint: endpoint, FileField: upload.FieldFile, Files: []upload.File{r.Files[0]}}
	req.AddField("remove_empty_rows", boolField(r.Options.RemoveEmptyRows))
	req.AddField("remove_empty_cols", boolField(r.Options.RemoveEmptyCols))
	req.AddField("trim_spaces", boolField(r.Options.TrimSpaces))
	if r.PreviewRows > 0 && endpoint == types.EndpointCleanPreview {
		req.AddField("preview_rows", strconv.Itoa(r.PreviewRows))
	}
	return req
}

// Cleaner is the clean module.
type Cleaner struct {
	Session *session.Module
}

// NewCleaner returns an idle clean module.
func NewCleaner(deps Deps) *Cleaner {
	return &Cleaner{Session: deps.module(types.ModeClean)}
}

// Preview posts to /api/clean/preview and renders the before and after
// shape of the sheet.
func (c *Cleaner) Preview(ctx context.Context, r CleanRequest) (*session.Outcome, error) {
	return c.Session.Run(ctx, session.Job{
		Validate:       r.Validate,
		Request:        func() (*upload.Request, error) { return r.payload(types.EndpointCleanPreview), nil },
		Action:         actionPreview,
		PreviewMessage: cleanMessage,
	})
}

// Download posts the same file and options to /api/clean and saves the
// cleaned workbook.
func (c *Cleaner) Download(ctx context.Context, r CleanRequest) (*session.Outcome, error) {
	return c.Session.Run(ctx, session.Job{
		Validate:        r.Validate,
		Request:         func() (*upload.Request, error) { return r.payload(types.EndpointClean), nil },
		Action:          actionDownload,
		Filename:        types.DefaultCleanFilename,
		DownloadMessage: "清理后的文件下载成功！",
	})
}

func cleanMessage(r preview.Result) string {
	if r.Clean == nil {
		return "清理完成！"
	}
	return fmt.Sprintf("清理完成！移除了 %d 行和 %d 列。", r.Clean.RowsRemoved(), r.Clean.ColsRemoved())
}
