// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package upload

import (
	"context"
	"errors"
	"net/http"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/excelab/internal/testutil"
	"github.com/pdiddy/excelab/pkg/types"
)

func newSubmitter(fb *testutil.FakeBackend) *HTTPSubmitter {
	return NewHTTPSubmitter(types.HTTPConfig{
		BaseURL:   fb.URL(),
		UserAgent: "excelab-test/1.0",
	})
}

func TestSubmit_MultipartPayload(t *testing.T) {
	fb := testutil.NewFakeBackend(t)
	s := newSubmitter(fb)

	req := &Request{
		Endpoint:  types.EndpointMergePreview,
		FileField: FieldFiles,
		Files: []File{
			FileFromBytes("a.xlsx", []byte("first")),
			FileFromBytes("b.csv", []byte("second")),
		},
	}
	req.AddField("merge_mode", "append")

	resp, err := s.Submit(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.Status)
	assert.True(t, resp.IsJSON())

	got := fb.RequestsTo(types.EndpointMergePreview)
	require.Len(t, got, 1)
	assert.Equal(t, []string{"a.xlsx", "b.csv"}, got[0].FileNames())
	assert.Equal(t, "files", got[0].Files[0].Field)
	assert.Equal(t, []byte("second"), got[0].Files[1].Data)
	assert.Equal(t, []string{"append"}, got[0].Fields["merge_mode"])
	assert.Equal(t, "excelab-test/1.0", got[0].Header.Get("User-Agent"))
	assert.Empty(t, got[0].Header.Get("Authorization"))
}

func TestSubmit_RepeatedFieldsKeepOrder(t *testing.T) {
	fb := testutil.NewFakeBackend(t)
	s := newSubmitter(fb)

	req := &Request{Endpoint: types.EndpointPDFMergePreview, FileField: FieldFiles,
		Files: []File{FileFromBytes("1.pdf", []byte("x")), FileFromBytes("2.pdf", []byte("y"))}}
	req.AddField("merge_options", "add_toc")
	req.AddField("merge_options", "add_blank_page")

	_, err := s.Submit(context.Background(), req)
	require.NoError(t, err)

	got := fb.RequestsTo(types.EndpointPDFMergePreview)
	require.Len(t, got, 1)
	assert.Equal(t, []string{"add_toc", "add_blank_page"}, got[0].Fields["merge_options"])
}

func TestSubmit_ReadsFileFromDisk(t *testing.T) {
	fb := testutil.NewFakeBackend(t)
	s := newSubmitter(fb)

	path := filepath.Join(t.TempDir(), "sales.csv")
	require.NoError(t, os.WriteFile(path, []byte("Region,Amount\nEU,1\n"), 0o644))
	f, err := FileFromPath(path)
	require.NoError(t, err)
	assert.Equal(t, "sales.csv", f.Name)
	assert.Equal(t, int64(19), f.Size)

	_, err = s.Submit(context.Background(), &Request{
		Endpoint: types.EndpointSplitColumns, FileField: FieldFile, Files: []File{f},
	})
	require.NoError(t, err)

	got := fb.RequestsTo(types.EndpointSplitColumns)
	require.Len(t, got, 1)
	assert.Equal(t, "file", got[0].Files[0].Field)
	assert.Equal(t, "Region,Amount\nEU,1\n", string(got[0].Files[0].Data))
}

func TestFileFromPath_Errors(t *testing.T) {
	_, err := FileFromPath(filepath.Join(t.TempDir(), "missing.xlsx"))
	assert.Error(t, err)

	_, err = FileFromPath(t.TempDir())
	assert.ErrorContains(t, err, "is a directory")
}

func TestSubmit_BinaryResponse(t *testing.T) {
	fb := testutil.NewFakeBackend(t)
	s := newSubmitter(fb)

	resp, err := s.Submit(context.Background(), &Request{
		Endpoint: types.EndpointMerge, Files: []File{FileFromBytes("a.xlsx", []byte("x"))},
	})
	require.NoError(t, err)
	assert.False(t, resp.IsJSON())
	assert.Equal(t, testutil.ContentTypeXLSX, resp.ContentType)
	assert.Equal(t, "merged_pro.xlsx", resp.Filename("fallback.xlsx"))
	assert.Equal(t, "PK-xlsx-merged", string(resp.Body))
}

func TestSubmit_ServerErrors(t *testing.T) {
	tests := []struct {
		name       string
		reply      testutil.Reply
		wantDetail string
		wantMsg    string
	}{
		{
			name:       "detail field",
			reply:      testutil.Reply{Status: 400, ContentType: "application/json", Body: `{"detail":"X"}`},
			wantDetail: "X",
			wantMsg:    "X",
		},
		{
			name:    "no json body",
			reply:   testutil.Reply{Status: 502, ContentType: "text/html", Body: "<html>bad gateway</html>"},
			wantMsg: "预览请求失败 (502)",
		},
		{
			name:    "json without detail",
			reply:   testutil.Reply{Status: 500, ContentType: "application/json", Body: `{"error":"boom"}`},
			wantMsg: "预览请求失败 (500)",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fb := testutil.NewFakeBackend(t)
			fb.Respond(types.EndpointMergePreview, tt.reply)
			s := newSubmitter(fb)

			_, err := s.Submit(context.Background(), &Request{
				Endpoint: types.EndpointMergePreview, Files: []File{FileFromBytes("a.xlsx", []byte("x"))},
			})
			var se *ServerError
			require.True(t, errors.As(err, &se), "want *ServerError, got %T", err)
			assert.Equal(t, tt.reply.Status, se.Status)
			assert.Equal(t, tt.wantDetail, se.Detail)
			assert.Equal(t, tt.wantMsg, se.Message("预览请求"))
			assert.False(t, IsNetworkError(err))
		})
	}
}

func TestSubmit_NetworkError(t *testing.T) {
	fb := testutil.NewFakeBackend(t)
	url := fb.URL()
	fb.Server.Close()

	s := NewHTTPSubmitter(types.HTTPConfig{BaseURL: url})
	_, err := s.Submit(context.Background(), &Request{
		Endpoint: types.EndpointMerge, Files: []File{FileFromBytes("a.xlsx", []byte("x"))},
	})
	require.Error(t, err)
	assert.True(t, IsNetworkError(err))

	var se *ServerError
	assert.False(t, errors.As(err, &se))
}

func TestSubmit_BearerToken(t *testing.T) {
	fb := testutil.NewFakeBackend(t)
	s := NewHTTPSubmitter(types.HTTPConfig{BaseURL: fb.URL() + "/", APIToken: "tok123"})

	_, err := s.Submit(context.Background(), &Request{
		Endpoint: types.EndpointSplitColumns, FileField: FieldFile,
		Files: []File{FileFromBytes("a.csv", []byte("x"))},
	})
	require.NoError(t, err)

	got := fb.RequestsTo(types.EndpointSplitColumns)
	require.Len(t, got, 1)
	assert.Equal(t, "Bearer tok123", got[0].Header.Get("Authorization"))
}

func TestHealth(t *testing.T) {
	fb := testutil.NewFakeBackend(t)
	s := newSubmitter(fb)
	require.NoError(t, s.Health(context.Background()))

	fb.Respond(types.EndpointHealth, testutil.Reply{ContentType: "application/json", Body: `{"status":"degraded"}`})
	assert.ErrorContains(t, s.Health(context.Background()), "degraded")
}

func TestRequestWithEndpoint(t *testing.T) {
	req := &Request{Endpoint: types.EndpointCleanPreview, FileField: FieldFile,
		Files: []File{FileFromBytes("a.xlsx", []byte("x"))}}
	req.AddField("trim_spaces", "true")

	dl := req.WithEndpoint(types.EndpointClean)
	dl.AddField("extra", "1")

	assert.Equal(t, types.EndpointClean, dl.Endpoint)
	assert.Equal(t, types.EndpointCleanPreview, req.Endpoint)
	assert.Equal(t, req.FileNames(), dl.FileNames())
	assert.Equal(t, []string{"true"}, dl.fieldValues("trim_spaces"))
	assert.Empty(t, req.fieldValues("extra"))
}
