// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

// Artifact is a binary result returned by a download endpoint. It lives
// in memory until a view saves it, then it is discarded.
type Artifact struct {
	// Filename is the suggested name: the Content-Disposition filename if
	// the server sent one, otherwise the module default.
	Filename string `json:"filename" yaml:"filename"`

	// ContentType is the response media type.
	ContentType string `json:"content_type" yaml:"content_type"`

	// Data is the raw response body.
	Data []byte `json:"-" yaml:"-"`
}

// Size returns the artifact length in bytes.
func (a Artifact) Size() int64 { return int64(len(a.Data)) }
