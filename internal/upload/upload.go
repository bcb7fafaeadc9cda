// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package upload sends multipart form submissions to the processing
// backend and classifies their results. Submitter is the capability the
// rest of the client depends on, so tests can substitute a fake.
package upload

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/pdiddy/excelab/internal/httputil"
)

// Form field names used by the backend.
const (
	FieldFiles = "files"
	FieldFile  = "file"
)

// Submitter sends one request and returns the 2xx response, a
// *ServerError for non-2xx responses, or a *NetworkError when no
// response arrived.
type Submitter interface {
	Submit(ctx context.Context, req *Request) (*Response, error)
}

// File is one uploaded file. Data is used when non-nil; otherwise the
// file at Path is read at submission time.
type File struct {
	// Name is the filename sent in the multipart part header.
	Name string
	Path string
	Data []byte
	Size int64
}

// FileFromPath describes the local file at path. It fails when the path
// does not exist or is a directory.
func FileFromPath(path string) (File, error) {
	info, err := os.Stat(path)
	if err != nil {
		return File{}, fmt.Errorf("reading %s: %w", path, err)
	}
	if info.IsDir() {
		return File{}, fmt.Errorf("%s is a directory", path)
	}
	return File{Name: filepath.Base(path), Path: path, Size: info.Size()}, nil
}

// FileFromBytes describes an in-memory file.
func FileFromBytes(name string, data []byte) File {
	return File{Name: name, Data: data, Size: int64(len(data))}
}

func (f File) open() (io.ReadCloser, error) {
	if f.Data != nil {
		return io.NopCloser(bytes.NewReader(f.Data)), nil
	}
	if f.Path == "" {
		return nil, fmt.Errorf("file %q has no content", f.Name)
	}
	return os.Open(f.Path)
}

// Field is a plain form value. Repeated names are allowed and keep their
// order.
type Field struct {
	Name  string
	Value string
}

// Request is a multipart submission to one endpoint.
type Request struct {
	// Endpoint is the path on the backend, e.g. "/api/merge".
	Endpoint string

	// FileField is the part name for Files: "files" for multi-file
	// endpoints, "file" for single-file ones.
	FileField string

	Files  []File
	Fields []Field
}

// AddField appends a form value.
func (r *Request) AddField(name, value string) {
	r.Fields = append(r.Fields, Field{Name: name, Value: value})
}

// fieldValues returns every value sent under name, in order.
func (r *Request) fieldValues(name string) []string {
	var out []string
	for _, f := range r.Fields {
		if f.Name == name {
			out = append(out, f.Value)
		}
	}
	return out
}

// FileNames returns the upload names in order.
func (r *Request) FileNames() []string {
	names := make([]string, len(r.Files))
	for i, f := range r.Files {
		names[i] = f.Name
	}
	return names
}

// WithEndpoint returns a copy of r addressed to another endpoint. The
// preview and download calls of a module share one payload this way.
func (r *Request) WithEndpoint(endpoint string) *Request {
	cp := *r
	cp.Endpoint = endpoint
	cp.Files = append([]File(nil), r.Files...)
	cp.Fields = append([]Field(nil), r.Fields...)
	return &cp
}

// Response is a successful (2xx) backend response.
type Response struct {
	Status      int
	ContentType string

	// Disposition is the raw Content-Disposition header.
	Disposition string

	Body []byte
}

// IsJSON reports whether the body is a JSON document.
func (r *Response) IsJSON() bool {
	return httputil.IsJSON(r.ContentType)
}

// Filename returns the Content-Disposition filename, or fallback when
// the header has none.
func (r *Response) Filename(fallback string) string {
	if name := httputil.FilenameFromDisposition(r.Disposition); name != "" {
		return name
	}
	return fallback
}

// ServerError is a non-2xx response from the backend.
type ServerError struct {
	Status int

	// Detail is the "detail" field of the JSON error body, or "" when the
	// body carried none.
	Detail string
}

func (e *ServerError) Error() string {
	return e.Message("请求")
}

// Message returns the user-facing text: the server detail when present,
// otherwise a fallback naming action and the HTTP status.
func (e *ServerError) Message(action string) string {
	if e.Detail != "" {
		return e.Detail
	}
	return httputil.StatusMessage(action, e.Status)
}

// NetworkError means the request never produced a response.
type NetworkError struct {
	Err error
}

// ConnectivityMessage is the user-facing text for every NetworkError.
const ConnectivityMessage = "请求失败，请检查网络连接。"

func (e *NetworkError) Error() string {
	return fmt.Sprintf("network error: %v", e.Err)
}

func (e *NetworkError) Unwrap() error { return e.Err }

// IsNetworkError reports whether err is or wraps a *NetworkError.
func IsNetworkError(err error) bool {
	var ne *NetworkError
	return errors.As(err, &ne)
}
