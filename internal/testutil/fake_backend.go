// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package testutil provides an in-process stand-in for the processing
// backend, served by echo and recording every request it receives.
package testutil

import (
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/pdiddy/excelab/pkg/types"
)

// Content types the real backend answers with.
const (
	ContentTypeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	ContentTypeZIP  = "application/zip"
	ContentTypePDF  = "application/pdf"
	ContentTypeJSON = "application/json"
)

// Reply is a canned response for one endpoint.
type Reply struct {
	Status      int
	ContentType string
	Disposition string
	Body        string
}

// RecordedFile is one uploaded file part.
type RecordedFile struct {
	Field string
	Name  string
	Data  []byte
}

// RecordedRequest is what the fake backend received.
type RecordedRequest struct {
	Method string
	Path   string
	Header http.Header
	Fields map[string][]string
	Files  []RecordedFile
}

// FileNames returns the uploaded file names in order.
func (r RecordedRequest) FileNames() []string {
	names := make([]string, len(r.Files))
	for i, f := range r.Files {
		names[i] = f.Name
	}
	return names
}

// FakeBackend serves the excelab endpoint contract from an echo router
// behind httptest. Every endpoint answers with a default payload shaped
// like the real backend's until Respond overrides it.
type FakeBackend struct {
	Server *httptest.Server

	mu       sync.Mutex
	replies  map[string]Reply
	requests []RecordedRequest
}

// NewFakeBackend starts a fake backend and registers its shutdown with t.
func NewFakeBackend(t *testing.T) *FakeBackend {
	t.Helper()

	fb := &FakeBackend{replies: DefaultReplies()}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	for _, path := range []string{
		types.EndpointMerge,
		types.EndpointMergePreview,
		types.EndpointSplitColumns,
		types.EndpointSplit,
		types.EndpointCleanPreview,
		types.EndpointClean,
		types.EndpointPDFToImages,
		types.EndpointPDFMergePreview,
		types.EndpointPDFMerge,
	} {
		e.POST(path, fb.handle)
	}
	e.GET(types.EndpointHealth, fb.handle)

	fb.Server = httptest.NewServer(e)
	t.Cleanup(fb.Server.Close)
	return fb
}

// URL returns the base URL of the fake backend.
func (fb *FakeBackend) URL() string { return fb.Server.URL }

// Respond replaces the reply for path.
func (fb *FakeBackend) Respond(path string, r Reply) {
	fb.mu.Lock()
	defer fb.mu.Unlock()
	fb.replies[path] = r
}

// Requests returns a copy of everything received so far.
func (fb *FakeBackend) Requests() []RecordedRequest {
	fb.mu.Lock()
	defer fb.mu.Unlock()
	return append([]RecordedRequest(nil), fb.requests...)
}

// RequestsTo returns the requests received on path.
func (fb *FakeBackend) RequestsTo(path string) []RecordedRequest {
	var out []RecordedRequest
	for _, r := range fb.Requests() {
		if r.Path == path {
			out = append(out, r)
		}
	}
	return out
}

func (fb *FakeBackend) handle(c echo.Context) error {
	req := c.Request()
	rec := RecordedRequest{
		Method: req.Method,
		Path:   req.URL.Path,
		Header: req.Header.Clone(),
		Fields: map[string][]string{},
	}

	if req.Method == http.MethodPost {
		form, err := c.MultipartForm()
		if err != nil {
			return c.JSON(http.StatusUnprocessableEntity, map[string]string{"detail": fmt.Sprintf("bad form: %v", err)})
		}
		for k, v := range form.Value {
			rec.Fields[k] = append([]string(nil), v...)
		}
		for field, headers := range form.File {
			for _, fh := range headers {
				f, err := fh.Open()
				if err != nil {
					return err
				}
				data, err := io.ReadAll(f)
				f.Close()
				if err != nil {
					return err
				}
				rec.Files = append(rec.Files, RecordedFile{Field: field, Name: fh.Filename, Data: data})
			}
		}
	}

	fb.mu.Lock()
	fb.requests = append(fb.requests, rec)
	reply := fb.replies[rec.Path]
	fb.mu.Unlock()

	if reply.Disposition != "" {
		c.Response().Header().Set("Content-Disposition", reply.Disposition)
	}
	status := reply.Status
	if status == 0 {
		status = http.StatusOK
	}
	return c.Blob(status, reply.ContentType, []byte(reply.Body))
}

// DefaultReplies returns payloads shaped like the real backend's.
func DefaultReplies() map[string]Reply {
	return map[string]Reply{
		types.EndpointMerge: {
			ContentType: ContentTypeXLSX,
			Disposition: "attachment; filename=merged_pro.xlsx",
			Body:        "PK-xlsx-merged",
		},
		types.EndpointMergePreview: {
			ContentType: ContentTypeJSON,
			Body:        `{"columns":["A","B"],"data":[{"A":1,"B":2}],"total_rows":1}`,
		},
		types.EndpointSplitColumns: {
			ContentType: ContentTypeJSON,
			Body:        `{"columns":["Region","Amount"]}`,
		},
		types.EndpointSplit: {
			ContentType: ContentTypeZIP,
			Disposition: "attachment; filename=split_files.zip",
			Body:        "PK-zip-split",
		},
		types.EndpointCleanPreview: {
			ContentType: ContentTypeJSON,
			Body: `{"original_rows":10,"cleaned_rows":8,"original_cols":4,"cleaned_cols":3,` +
				`"preview_columns":["Name","Age"],"preview_data":[{"Name":"a","Age":1},{"Name":"b","Age":null}],` +
				`"actions":["remove_empty_rows","remove_empty_cols"]}`,
		},
		types.EndpointClean: {
			ContentType: ContentTypeXLSX,
			Disposition: "attachment; filename=cleaned_data.xlsx",
			Body:        "PK-xlsx-cleaned",
		},
		types.EndpointPDFToImages: {
			ContentType: ContentTypeZIP,
			Disposition: "attachment; filename=converted_images.zip; filename*=UTF-8''report_images.zip",
			Body:        "PK-zip-images",
		},
		types.EndpointPDFMergePreview: {
			ContentType: ContentTypeJSON,
			Body:        `{"total_pages":7,"total_size":2048,"actions":[]}`,
		},
		types.EndpointPDFMerge: {
			ContentType: ContentTypePDF,
			Disposition: "attachment; filename=merged_pdf.pdf",
			Body:        "%PDF-1.7 merged",
		},
		types.EndpointHealth: {
			ContentType: ContentTypeJSON,
			Body:        `{"status":"ok"}`,
		},
	}
}
