// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package httputil

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsJSON(t *testing.T) {
	tests := []struct {
		ct   string
		want bool
	}{
		{"application/json", true},
		{"application/json; charset=utf-8", true},
		{"Application/JSON", true},
		{"application/problem+json", true},
		{"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", false},
		{"application/zip", false},
		{"application/pdf", false},
		{"", false},
	}
	for _, tt := range tests {
		t.Run(tt.ct, func(t *testing.T) {
			assert.Equal(t, tt.want, IsJSON(tt.ct))
		})
	}
}

func TestIsSpreadsheet(t *testing.T) {
	assert.True(t, IsSpreadsheet("application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"))
	assert.True(t, IsSpreadsheet("application/vnd.ms-excel"))
	assert.True(t, IsSpreadsheet("text/csv; charset=utf-8"))
	assert.False(t, IsSpreadsheet("application/zip"))
	assert.False(t, IsSpreadsheet("application/json"))
}

func TestFilenameFromDisposition(t *testing.T) {
	tests := []struct {
		name   string
		header string
		want   string
	}{
		{"plain token", "attachment; filename=merged_pro.xlsx", "merged_pro.xlsx"},
		{"quoted", `attachment; filename="split files.zip"`, "split files.zip"},
		{"extended wins", "attachment; filename=converted_images.zip; filename*=UTF-8''%E6%8A%A5%E5%91%8A_images.zip", "报告_images.zip"},
		{"path stripped", `attachment; filename="../../etc/passwd"`, "passwd"},
		{"windows path stripped", `attachment; filename="C:\\tmp\\a.xlsx"`, "a.xlsx"},
		{"no filename", "attachment", ""},
		{"empty header", "", ""},
		{"unparseable falls back", "attachment; filename=my report.pdf", "my report.pdf"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, FilenameFromDisposition(tt.header))
		})
	}
}

func TestDecodeDetail(t *testing.T) {
	tests := []struct {
		name   string
		body   string
		want   string
		wantOK bool
	}{
		{"string detail", `{"detail":"X"}`, "X", true},
		{"chinese detail", `{"detail":"文件为空或无法解析。"}`, "文件为空或无法解析。", true},
		{"list detail", `{"detail":[{"loc":["body","files"],"msg":"field required"}]}`, `[{"loc":["body","files"],"msg":"field required"}]`, true},
		{"missing detail", `{"error":"boom"}`, "", false},
		{"null detail", `{"detail":null}`, "", false},
		{"blank detail", `{"detail":"  "}`, "", false},
		{"not json", `<html>502 Bad Gateway</html>`, "", false},
		{"empty body", ``, "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := DecodeDetail([]byte(tt.body))
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestStatusMessage(t *testing.T) {
	assert.Equal(t, "预览请求失败 (500)", StatusMessage("预览请求", 500))
}
