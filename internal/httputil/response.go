// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package httputil

import (
	"encoding/json"
	"fmt"
	"mime"
	"net/url"
	"path"
	"strings"
)

// IsJSON reports whether a Content-Type header denotes a JSON body.
// Parameters such as charset are ignored.
func IsJSON(contentType string) bool {
	mt := mediaType(contentType)
	return mt == "application/json" || strings.HasSuffix(mt, "+json")
}

// IsSpreadsheet reports whether a Content-Type header denotes a
// spreadsheet payload (xlsx, xls, or csv).
func IsSpreadsheet(contentType string) bool {
	mt := mediaType(contentType)
	return strings.Contains(mt, "sheet") || mt == "application/vnd.ms-excel" || mt == "text/csv"
}

func mediaType(contentType string) string {
	mt, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		mt, _, _ = strings.Cut(contentType, ";")
	}
	return strings.ToLower(strings.TrimSpace(mt))
}

// FilenameFromDisposition extracts the download name from a
// Content-Disposition header. The RFC 5987 filename* parameter wins
// over the plain filename parameter. Directory components are dropped.
// It returns "" when the header carries no usable name.
func FilenameFromDisposition(header string) string {
	if header == "" {
		return ""
	}
	_, params, err := mime.ParseMediaType(header)
	if err != nil {
		return filenameFallback(header)
	}
	// mime decodes filename* into "filename" when it is well formed.
	name := params["filename"]
	if name == "" {
		return ""
	}
	return cleanName(name)
}

// filenameFallback handles headers mime.ParseMediaType rejects, such as
// unquoted names that contain spaces or non-ASCII text.
func filenameFallback(header string) string {
	var plain, extended string
	for _, part := range strings.Split(header, ";") {
		k, v, ok := strings.Cut(strings.TrimSpace(part), "=")
		if !ok {
			continue
		}
		v = strings.Trim(strings.TrimSpace(v), `"`)
		switch strings.ToLower(strings.TrimSpace(k)) {
		case "filename":
			plain = v
		case "filename*":
			if _, enc, ok := strings.Cut(v, "''"); ok {
				if dec, err := url.PathUnescape(enc); err == nil {
					extended = dec
				}
			}
		}
	}
	if extended != "" {
		return cleanName(extended)
	}
	return cleanName(plain)
}

func cleanName(name string) string {
	name = strings.ReplaceAll(name, `\`, "/")
	name = path.Base(name)
	if name == "." || name == "/" || name == ".." {
		return ""
	}
	return name
}

// errorBody is the error shape the backend sends with non-2xx responses.
type errorBody struct {
	Detail json.RawMessage `json:"detail"`
}

// DecodeDetail returns the human-readable detail message carried by a
// non-2xx response body. ok is false when the body is not JSON or has no
// usable detail field. A non-string detail (validation error lists) is
// returned in compact JSON form.
func DecodeDetail(body []byte) (detail string, ok bool) {
	var eb errorBody
	if err := json.Unmarshal(body, &eb); err != nil || len(eb.Detail) == 0 {
		return "", false
	}
	var s string
	if err := json.Unmarshal(eb.Detail, &s); err == nil {
		s = strings.TrimSpace(s)
		return s, s != ""
	}
	if string(eb.Detail) == "null" {
		return "", false
	}
	return string(eb.Detail), true
}

// StatusMessage builds the fallback message for an error response
// without a detail field. It always contains the numeric status.
func StatusMessage(action string, status int) string {
	return fmt.Sprintf("%s失败 (%d)", action, status)
}
