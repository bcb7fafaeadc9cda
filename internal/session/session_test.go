// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package session

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/excelab/internal/preview"
	"github.com/pdiddy/excelab/internal/testutil"
	"github.com/pdiddy/excelab/internal/upload"
	"github.com/pdiddy/excelab/pkg/types"
)

// recordingView captures every call a module makes.
type recordingView struct {
	mu        sync.Mutex
	busy      []bool
	errors    []string
	successes []string
	previews  []preview.Result
	downloads []types.Artifact
	saveErr   error

	// onBusy runs inside SetBusy(true).
	onBusy func()
}

func (v *recordingView) SetBusy(_ types.Mode, busy bool) {
	v.mu.Lock()
	v.busy = append(v.busy, busy)
	hook := v.onBusy
	v.mu.Unlock()
	if busy && hook != nil {
		hook()
	}
}

func (v *recordingView) ShowError(_ types.Mode, msg string) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.errors = append(v.errors, msg)
}

func (v *recordingView) ShowSuccess(_ types.Mode, msg string) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.successes = append(v.successes, msg)
}

func (v *recordingView) RenderPreview(_ types.Mode, r preview.Result) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.previews = append(v.previews, r)
}

func (v *recordingView) Download(_ types.Mode, a types.Artifact) (string, error) {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.saveErr != nil {
		return "", v.saveErr
	}
	v.downloads = append(v.downloads, a)
	return "/out/" + a.Filename, nil
}

func (v *recordingView) lastBusy() bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.busy[len(v.busy)-1]
}

type memRecorder struct {
	attempts []types.Attempt
}

func (r *memRecorder) Record(_ context.Context, a types.Attempt) error {
	r.attempts = append(r.attempts, a)
	return nil
}

type submitFunc func(ctx context.Context, req *upload.Request) (*upload.Response, error)

func (f submitFunc) Submit(ctx context.Context, req *upload.Request) (*upload.Response, error) {
	return f(ctx, req)
}

func mergeJob(endpoint string) Job {
	return Job{
		Request: func() (*upload.Request, error) {
			return &upload.Request{
				Endpoint: endpoint,
				Files:    []upload.File{upload.FileFromBytes("a.xlsx", []byte("x"))},
			}, nil
		},
		Action:         "预览",
		Filename:       types.DefaultMergeFilename,
		PreviewMessage: func(preview.Result) string { return "ok" },
	}
}

func newModule(t *testing.T, fb *testutil.FakeBackend) (*Module, *recordingView, *memRecorder) {
	t.Helper()
	view := &recordingView{}
	rec := &memRecorder{}
	m := New(types.ModeMerge, upload.NewHTTPSubmitter(types.HTTPConfig{BaseURL: fb.URL()}), view)
	m.Recorder = rec
	return m, view, rec
}

func TestRun_JSONRendersExactlyOnePreview(t *testing.T) {
	fb := testutil.NewFakeBackend(t)
	m, view, rec := newModule(t, fb)

	out, err := m.Run(context.Background(), mergeJob(types.EndpointMergePreview))
	require.NoError(t, err)

	require.Len(t, view.previews, 1)
	assert.Empty(t, view.downloads)
	assert.Equal(t, [][]string{{"1", "2"}}, view.previews[0].Table.Rows)
	assert.Equal(t, []string{"ok"}, view.successes)
	require.NotNil(t, out.Preview)
	assert.Nil(t, out.Artifact)

	assert.Equal(t, Idle, m.State())
	assert.Equal(t, Success, m.lastState())
	assert.False(t, view.lastBusy())

	require.Len(t, rec.attempts, 1)
	a := rec.attempts[0]
	assert.Equal(t, types.OutcomePreview, a.Outcome)
	assert.Equal(t, types.EndpointMergePreview, a.Endpoint)
	assert.Equal(t, []string{"a.xlsx"}, a.Files)
	assert.Equal(t, 200, a.Status)
	assert.NotEmpty(t, a.ID)
}

func TestRun_BinaryDownloadsExactlyOnce(t *testing.T) {
	fb := testutil.NewFakeBackend(t)
	m, view, rec := newModule(t, fb)

	out, err := m.Run(context.Background(), mergeJob(types.EndpointMerge))
	require.NoError(t, err)

	require.Len(t, view.downloads, 1)
	assert.Empty(t, view.previews)
	assert.Equal(t, "merged_pro.xlsx", view.downloads[0].Filename)
	assert.Equal(t, []string{DownloadMessage}, view.successes)
	require.NotNil(t, out.Artifact)
	assert.Equal(t, "/out/merged_pro.xlsx", out.Attempt.SavedPath)

	assert.Equal(t, types.OutcomeDownload, rec.attempts[0].Outcome)
	assert.Equal(t, Idle, m.State())
	assert.False(t, view.lastBusy())
}

func TestRun_DownloadFallsBackToDefaultFilename(t *testing.T) {
	fb := testutil.NewFakeBackend(t)
	fb.Respond(types.EndpointMerge, testutil.Reply{ContentType: "application/octet-stream", Body: "bytes"})
	m, view, _ := newModule(t, fb)

	_, err := m.Run(context.Background(), mergeJob(types.EndpointMerge))
	require.NoError(t, err)
	require.Len(t, view.downloads, 1)
	assert.Equal(t, types.DefaultMergeFilename, view.downloads[0].Filename)
}

func TestRun_ServerErrorDetail(t *testing.T) {
	fb := testutil.NewFakeBackend(t)
	fb.Respond(types.EndpointMergePreview, testutil.Reply{Status: 400, ContentType: "application/json", Body: `{"detail":"X"}`})
	m, view, rec := newModule(t, fb)

	_, err := m.Run(context.Background(), mergeJob(types.EndpointMergePreview))
	var se *upload.ServerError
	require.True(t, errors.As(err, &se))

	assert.Equal(t, []string{"X"}, view.errors)
	assert.Empty(t, view.previews)
	assert.Equal(t, ServerError, m.lastState())
	assert.Equal(t, Idle, m.State())
	assert.False(t, view.lastBusy())
	assert.Equal(t, types.OutcomeServerError, rec.attempts[0].Outcome)
	assert.Equal(t, 400, rec.attempts[0].Status)
}

func TestRun_ServerErrorFallbackContainsStatus(t *testing.T) {
	fb := testutil.NewFakeBackend(t)
	fb.Respond(types.EndpointMergePreview, testutil.Reply{Status: 503, ContentType: "text/plain", Body: "down"})
	m, view, _ := newModule(t, fb)

	_, err := m.Run(context.Background(), mergeJob(types.EndpointMergePreview))
	require.Error(t, err)
	require.Len(t, view.errors, 1)
	assert.Contains(t, view.errors[0], "503")
	assert.Equal(t, "预览失败 (503)", view.errors[0])
}

func TestRun_NetworkError(t *testing.T) {
	fb := testutil.NewFakeBackend(t)
	m, view, rec := newModule(t, fb)
	fb.Server.Close()

	_, err := m.Run(context.Background(), mergeJob(types.EndpointMergePreview))
	require.Error(t, err)
	assert.True(t, upload.IsNetworkError(err))
	assert.Equal(t, []string{upload.ConnectivityMessage}, view.errors)
	assert.Equal(t, NetworkError, m.lastState())
	assert.Equal(t, Idle, m.State())
	assert.False(t, view.lastBusy())
	assert.Equal(t, types.OutcomeNetworkError, rec.attempts[0].Outcome)
	assert.Zero(t, rec.attempts[0].Status)
}

func TestRun_ValidationSendsNothing(t *testing.T) {
	calls := 0
	sub := submitFunc(func(context.Context, *upload.Request) (*upload.Response, error) {
		calls++
		return nil, nil
	})
	view := &recordingView{}
	rec := &memRecorder{}
	m := New(types.ModeSplit, sub, view)
	m.Recorder = rec

	job := mergeJob(types.EndpointSplit)
	job.Validate = func() error { return Invalid("请选择拆分列") }

	_, err := m.Run(context.Background(), job)
	var ve *ValidationError
	require.True(t, errors.As(err, &ve))
	assert.Equal(t, "请选择拆分列", ve.Message)
	assert.Zero(t, calls)
	assert.Equal(t, []string{"请选择拆分列"}, view.errors)
	assert.Equal(t, []bool{false}, view.busy)
	assert.Equal(t, Idle, m.State())
	assert.Equal(t, types.OutcomeValidationError, rec.attempts[0].Outcome)
}

func TestRun_PlainValidationErrorIsWrapped(t *testing.T) {
	m := New(types.ModeMerge, submitFunc(nil), &recordingView{})
	job := mergeJob(types.EndpointMerge)
	job.Validate = func() error { return errors.New("请先上传文件") }

	_, err := m.Run(context.Background(), job)
	var ve *ValidationError
	require.True(t, errors.As(err, &ve))
	assert.Equal(t, "请先上传文件", ve.Message)
}

func TestRun_SaveFailure(t *testing.T) {
	fb := testutil.NewFakeBackend(t)
	m, view, rec := newModule(t, fb)
	view.saveErr = errors.New("disk full")

	_, err := m.Run(context.Background(), mergeJob(types.EndpointMerge))
	require.ErrorContains(t, err, "disk full")
	assert.Empty(t, view.successes)
	require.Len(t, view.errors, 1)
	assert.Contains(t, view.errors[0], "disk full")
	assert.Equal(t, Idle, m.State())
	assert.Equal(t, types.OutcomeNetworkError, rec.attempts[0].Outcome)
}

func TestRun_BusyRejectsSecondSubmission(t *testing.T) {
	fb := testutil.NewFakeBackend(t)
	m, view, _ := newModule(t, fb)

	var nested error
	view.onBusy = func() {
		assert.Equal(t, Submitting, m.State())
		_, nested = m.Run(context.Background(), mergeJob(types.EndpointMergePreview))
	}

	_, err := m.Run(context.Background(), mergeJob(types.EndpointMergePreview))
	require.NoError(t, err)
	assert.ErrorIs(t, nested, ErrBusy)
	assert.Len(t, fb.Requests(), 1)
	assert.Equal(t, Idle, m.State())
}

func TestRun_ModulesAreIndependent(t *testing.T) {
	fb := testutil.NewFakeBackend(t)
	sub := upload.NewHTTPSubmitter(types.HTTPConfig{BaseURL: fb.URL()})
	mergeView, splitView := &recordingView{}, &recordingView{}
	merge := New(types.ModeMerge, sub, mergeView)
	split := New(types.ModeSplit, sub, splitView)

	var nested error
	mergeView.onBusy = func() {
		_, nested = split.Run(context.Background(), mergeJob(types.EndpointSplitColumns))
	}

	_, err := merge.Run(context.Background(), mergeJob(types.EndpointMergePreview))
	require.NoError(t, err)
	assert.NoError(t, nested)
	assert.Len(t, splitView.previews, 1)
}

func TestStateString(t *testing.T) {
	assert.Equal(t, "idle", Idle.String())
	assert.Equal(t, "network_error", NetworkError.String())
	assert.Equal(t, "state(42)", State(42).String())
}
