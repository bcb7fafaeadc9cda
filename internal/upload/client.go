// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package upload

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"

	"github.com/pdiddy/excelab/internal/httputil"
	"github.com/pdiddy/excelab/pkg/types"
)

// HTTPSubmitter implements Submitter over net/http.
type HTTPSubmitter struct {
	Client *http.Client
	Config types.HTTPConfig
}

// NewHTTPSubmitter returns a submitter for the backend described by cfg.
// A zero cfg.Timeout keeps the transport default.
func NewHTTPSubmitter(cfg types.HTTPConfig) *HTTPSubmitter {
	return &HTTPSubmitter{
		Client: &http.Client{Timeout: cfg.Timeout},
		Config: cfg,
	}
}

// Submit posts req as multipart/form-data. Files are written first, in
// order, followed by the plain fields.
func (s *HTTPSubmitter) Submit(ctx context.Context, req *Request) (*Response, error) {
	body, contentType, err := encodeMultipart(req)
	if err != nil {
		return nil, err
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, s.url(req.Endpoint), bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	httpReq.Header.Set("Content-Type", contentType)
	s.setHeaders(httpReq)

	return s.do(ctx, httpReq)
}

// Health calls GET /health and reports whether the backend answered
// {"status":"ok"}.
func (s *HTTPSubmitter) Health(ctx context.Context) error {
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, s.url(types.EndpointHealth), nil)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	s.setHeaders(httpReq)

	resp, err := s.do(ctx, httpReq)
	if err != nil {
		return err
	}

	var hb struct {
		Status string `json:"status"`
	}
	if err := json.Unmarshal(resp.Body, &hb); err != nil {
		return fmt.Errorf("parsing health response: %w", err)
	}
	if hb.Status != "ok" {
		return fmt.Errorf("backend status %q", hb.Status)
	}
	return nil
}

func (s *HTTPSubmitter) url(endpoint string) string {
	return strings.TrimRight(s.Config.BaseURL, "/") + endpoint
}

func (s *HTTPSubmitter) setHeaders(req *http.Request) {
	if s.Config.UserAgent != "" {
		req.Header.Set("User-Agent", s.Config.UserAgent)
	}
	if s.Config.APIToken != "" {
		req.Header.Set("Authorization", "Bearer "+s.Config.APIToken)
	}
}

func (s *HTTPSubmitter) do(ctx context.Context, req *http.Request) (*Response, error) {
	resp, err := httputil.DoWithRetry(ctx, s.Client, req, s.Config.RateLimitRetries)
	if err != nil {
		return nil, &NetworkError{Err: err}
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &NetworkError{Err: fmt.Errorf("reading response: %w", err)}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		detail, _ := httputil.DecodeDetail(data)
		return nil, &ServerError{Status: resp.StatusCode, Detail: detail}
	}

	return &Response{
		Status:      resp.StatusCode,
		ContentType: resp.Header.Get("Content-Type"),
		Disposition: resp.Header.Get("Content-Disposition"),
		Body:        data,
	}, nil
}

// encodeMultipart renders req into an in-memory body so it can be
// replayed on retry.
func encodeMultipart(req *Request) ([]byte, string, error) {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)

	field := req.FileField
	if field == "" {
		field = FieldFiles
	}

	for _, f := range req.Files {
		if err := writeFilePart(mw, field, f); err != nil {
			return nil, "", err
		}
	}
	for _, fld := range req.Fields {
		if err := mw.WriteField(fld.Name, fld.Value); err != nil {
			return nil, "", fmt.Errorf("writing field %s: %w", fld.Name, err)
		}
	}
	if err := mw.Close(); err != nil {
		return nil, "", fmt.Errorf("closing multipart body: %w", err)
	}
	return buf.Bytes(), mw.FormDataContentType(), nil
}

func writeFilePart(mw *multipart.Writer, field string, f File) error {
	rc, err := f.open()
	if err != nil {
		return fmt.Errorf("opening %s: %w", f.Name, err)
	}
	defer rc.Close()

	part, err := mw.CreateFormFile(field, f.Name)
	if err != nil {
		return fmt.Errorf("creating part for %s: %w", f.Name, err)
	}
	if _, err := io.Copy(part, rc); err != nil {
		return fmt.Errorf("copying %s: %w", f.Name, err)
	}
	return nil
}
