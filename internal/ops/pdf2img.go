// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package ops

import (
	"context"
	"path/filepath"
	"strconv"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/pdiddy/excelab/internal/session"
	"github.com/pdiddy/excelab/internal/upload"
	"github.com/pdiddy/excelab/pkg/types"
)

// DPI bounds for page rendering.
const (
	DefaultDPI = 150
	MinDPI     = 36
	MaxDPI     = 600
)

// PDF2ImgRequest renders every page of one PDF to an image. Only the
// first file is sent.
type PDF2ImgRequest struct {
	Files  FileList          `json:"files"`
	Format types.ImageFormat `json:"format"`
	DPI    int               `json:"dpi"`
}

// withDefaults fills Format and DPI when unset.
func (r PDF2ImgRequest) withDefaults() PDF2ImgRequest {
	if r.Format == "" {
		r.Format = types.ImagePNG
	}
	if r.DPI == 0 {
		r.DPI = DefaultDPI
	}
	return r
}

// Validate checks the request before anything is sent.
func (r PDF2ImgRequest) Validate() error {
	r = r.withDefaults()
	err := validation.ValidateStruct(&r,
		validation.Field(&r.Files, validation.Required.Error(MsgNoPDF)),
		validation.Field(&r.Format, validation.In(types.ImagePNG, types.ImageJPEG).Error(MsgBadFormat)),
		validation.Field(&r.DPI,
			validation.Min(MinDPI).Error(MsgBadDPI),
			validation.Max(MaxDPI).Error(MsgBadDPI)),
	)
	return firstInvalid(err, "files", "format", "dpi")
}

// ImagesFilename is the default zip name for pdf: "<stem>_images.zip".
func ImagesFilename(pdfName string) string {
	base := filepath.Base(pdfName)
	if ext := filepath.Ext(base); strings.EqualFold(ext, ".pdf") {
		base = strings.TrimSuffix(base, ext)
	}
	return base + types.DefaultImagesSuffix
}

// PDFConverter is the pdf2img module.
type PDFConverter struct {
	Session *session.Module
}

// NewPDFConverter returns an idle pdf2img module.
func NewPDFConverter(deps Deps) *PDFConverter {
	return &PDFConverter{Session: deps.module(types.ModePDF2Img)}
}

// Convert posts the PDF to /api/pdf-to-images and saves the image zip.
func (p *PDFConverter) Convert(ctx context.Context, r PDF2ImgRequest) (*session.Outcome, error) {
	r = r.withDefaults()
	job := session.Job{
		Validate: r.Validate,
		Request: func() (*upload.Request, error) {
			req := &upload.Request{
				Endpoint:  types.EndpointPDFToImages,
				FileField: upload.FieldFile,
				Files:     []upload.File{r.Files[0]},
			}
			req.AddField("format", string(r.Format))
			req.AddField("dpi", strconv.Itoa(r.DPI))
			return req, nil
		},
		Action:          actionConvert,
		DownloadMessage: "转换成功！您的 PDF 已被转换为图片并打包。",
	}
	if len(r.Files) > 0 {
		job.Filename = ImagesFilename(r.Files[0].Name)
	}
	return p.Session.Run(ctx, job)
}
