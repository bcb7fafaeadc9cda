// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package ops

import (
	"context"
	"sync"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/pdiddy/excelab/internal/preview"
	"github.com/pdiddy/excelab/internal/session"
	"github.com/pdiddy/excelab/internal/upload"
	"github.com/pdiddy/excelab/pkg/types"
)

// PDFMergeRequest concatenates PDFs in selection order.
type PDFMergeRequest struct {
	Files   FileList               `json:"files"`
	Options []types.PDFMergeOption `json:"merge_options"`
}

// Validate checks the request before anything is sent.
func (r PDFMergeRequest) Validate() error {
	err := validation.ValidateStruct(&r,
		validation.Field(&r.Files, validation.Required.Error(MsgNoPDFs)),
		validation.Field(&r.Options, validation.Each(
			validation.In(types.PDFAddBlankPage, types.PDFAddTOC).Error(MsgBadOption))),
	)
	return firstInvalid(err, "files", "merge_options")
}

func (r PDFMergeRequest) payload() *upload.Request {
	req := &upload.Request{Endpoint: types.EndpointPDFMergePreview, FileField: upload.FieldFiles, Files: r.Files}
	for _, o := range r.Options {
		req.AddField("merge_options", string(o))
	}
	return req
}

// PDFMerger is the pdfmerge module. Download re-sends the payload of the
// last preview, so a preview must come first.
type PDFMerger struct {
	Session *session.Module

	mu   sync.Mutex
	last *upload.Request
}

// NewPDFMerger returns an idle pdfmerge module.
func NewPDFMerger(deps Deps) *PDFMerger {
	return &PDFMerger{Session: deps.module(types.ModePDFMerge)}
}

// Preview posts to /api/pdfmerge/preview and remembers the payload for
// Download. The payload is kept even when the server rejects the
// preview; a preview that fails validation forgets the earlier one.
func (p *PDFMerger) Preview(ctx context.Context, r PDFMergeRequest) (*session.Outcome, error) {
	return p.Session.Run(ctx, session.Job{
		Validate: func() error {
			if err := r.Validate(); err != nil {
				p.Reset()
				return err
			}
			return nil
		},
		Request: func() (*upload.Request, error) {
			req := r.payload()
			p.mu.Lock()
			p.last = req
			p.mu.Unlock()
			return req, nil
		},
		Action: actionPreview,
		PreviewMessage: func(preview.Result) string {
			return "预览完成，请点击下载按钮获取 PDF"
		},
	})
}

// Download posts the previewed payload to /api/pdfmerge and saves the
// merged PDF.
func (p *PDFMerger) Download(ctx context.Context) (*session.Outcome, error) {
	p.mu.Lock()
	last := p.last
	p.mu.Unlock()

	return p.Session.Run(ctx, session.Job{
		Validate: func() error {
			if last == nil {
				return session.Invalid(MsgPreviewFirst)
			}
			return nil
		},
		Request: func() (*upload.Request, error) {
			return last.WithEndpoint(types.EndpointPDFMerge), nil
		},
		Action:   actionDownload,
		Filename: types.DefaultPDFMergeFilename,
	})
}

// Reset forgets the previewed payload.
func (p *PDFMerger) Reset() {
	p.mu.Lock()
	p.last = nil
	p.mu.Unlock()
}
