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

// DefaultMergePreviewRows matches the backend default.
const DefaultMergePreviewRows = 10

// MergeRequest combines several spreadsheets into one.
type MergeRequest struct {
	Files FileList `json:"files"`

	// Mode is passed through to the backend as merge_mode. The backend
	// knows outer and inner.
	Mode types.MergeMode `json:"merge_mode"`

	// PreviewRows limits the preview table. Zero leaves the backend
	// default.
	PreviewRows int `json:"preview_rows"`
}

// Validate checks the request before anything is sent.
func (r MergeRequest) Validate() error {
	err := validation.ValidateStruct(&r,
		validation.Field(&r.Files, validation.Required.Error(MsgNoFiles)),
		validation.Field(&r.Mode, validation.Required.Error(MsgNoMergeMode)),
		validation.Field(&r.PreviewRows, validation.Min(0)),
	)
	return firstInvalid(err, "files", "merge_mode", "preview_rows")
}

func (r MergeRequest) payload(endpoint string) *upload.Request {
	req := &upload.Request{Endpoint: endpoint, FileField: upload.FieldFiles, Files: r.Files}
	req.AddField("merge_mode", string(r.Mode))
	if r.PreviewRows > 0 && endpoint == types.EndpointMergePreview {
		req.AddField("preview_rows", strconv.Itoa(r.PreviewRows))
	}
	return req
}

// Merger is the merge module.
type Merger struct {
	Session *session.Module
}

// NewMerger returns an idle merge module.
func NewMerger(deps Deps) *Merger {
	return &Merger{Session: deps.module(types.ModeMerge)}
}

// Preview posts the files to /api/merge/preview and renders the merged
// head of the result.
func (m *Merger) Preview(ctx context.Context, r MergeRequest) (*session.Outcome, error) {
	return m.Session.Run(ctx, session.Job{
		Validate: r.Validate,
		Request:  func() (*upload.Request, error) { return r.payload(types.EndpointMergePreview), nil },
		Action:   actionPreview,
		PreviewMessage: func(preview.Result) string {
			return fmt.Sprintf("成功合并了 %d 个文件！预览已生成。", len(r.Files))
		},
	})
}

// Download posts the same files and mode to /api/merge and saves the
// merged workbook.
func (m *Merger) Download(ctx context.Context, r MergeRequest) (*session.Outcome, error) {
	return m.Session.Run(ctx, session.Job{
		Validate: r.Validate,
		Request:  func() (*upload.Request, error) { return r.payload(types.EndpointMerge), nil },
		Action:   actionDownload,
		Filename: types.DefaultMergeFilename,
	})
}
