// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package session drives one submission at a time for an operation
// module through Idle, Validating, Submitting, and a terminal state,
// then back to Idle. Every exit path clears the busy indicator.
package session

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/pdiddy/excelab/internal/preview"
	"github.com/pdiddy/excelab/internal/upload"
	"github.com/pdiddy/excelab/pkg/types"
)

// State is the lifecycle position of a module.
type State int

const (
	Idle State = iota
	Validating
	Submitting
	Success
	ServerError
	NetworkError
)

var stateNames = [...]string{"idle", "validating", "submitting", "success", "server_error", "network_error"}

func (s State) String() string {
	if int(s) < len(stateNames) {
		return stateNames[s]
	}
	return fmt.Sprintf("state(%d)", int(s))
}

// ErrBusy is returned when a module already has a submission in flight.
var ErrBusy = errors.New("a submission is already in progress")

// ValidationError is a local rejection. No request was sent.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

// Invalid returns a *ValidationError with msg.
func Invalid(msg string) error { return &ValidationError{Message: msg} }

// View is the display port a module reports to.
type View interface {
	// SetBusy shows or hides the loading indicator and disables or
	// enables the submit control.
	SetBusy(module types.Mode, busy bool)
	ShowError(module types.Mode, msg string)
	ShowSuccess(module types.Mode, msg string)
	RenderPreview(module types.Mode, r preview.Result)

	// Download delivers an artifact and returns where it was saved.
	Download(module types.Mode, a types.Artifact) (string, error)
}

// Recorder stores finished attempts.
type Recorder interface {
	Record(ctx context.Context, a types.Attempt) error
}

// Job describes one submission.
type Job struct {
	// Validate runs before anything is sent. A non-nil error aborts the
	// job with a ValidationError.
	Validate func() error

	// Request builds the payload once validation passed.
	Request func() (*upload.Request, error)

	// Action names the operation in fallback error text, e.g. "预览".
	Action string

	// Filename is the download name used when the response has no
	// Content-Disposition filename.
	Filename string

	// PreviewMessage returns the success text for a JSON response. When
	// nil no success message is shown for previews.
	PreviewMessage func(preview.Result) string

	// DownloadMessage replaces the default text shown after a download.
	DownloadMessage string
}

// DownloadMessage is the default text shown after an artifact was saved.
const DownloadMessage = "文件下载成功！"

// Outcome is the result of a successful Run.
type Outcome struct {
	Attempt types.Attempt

	// Request is the payload that was sent.
	Request *upload.Request

	// Preview is set for JSON responses.
	Preview *preview.Result

	// Artifact is set for binary responses.
	Artifact *types.Artifact
}

// Module owns the state of one operation module.
type Module struct {
	Mode      types.Mode
	Submitter upload.Submitter
	View      View

	// Recorder and Logger are optional.
	Recorder Recorder
	Logger   *zap.Logger

	mu    sync.Mutex
	state State
	last  State

	now func() time.Time
}

// New returns an idle module.
func New(mode types.Mode, sub upload.Submitter, view View) *Module {
	return &Module{Mode: mode, Submitter: sub, View: view, now: time.Now}
}

// State returns the current state.
func (m *Module) State() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

// lastState returns the terminal state of the most recent attempt, or
// Idle if none has finished.
func (m *Module) lastState() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.last
}

func (m *Module) set(s State) {
	m.mu.Lock()
	m.state = s
	if s != Idle && s != Validating && s != Submitting {
		m.last = s
	}
	m.mu.Unlock()
}

func (m *Module) logger() *zap.Logger {
	if m.Logger == nil {
		return zap.NewNop()
	}
	return m.Logger
}

func (m *Module) clock() time.Time {
	if m.now == nil {
		return time.Now()
	}
	return m.now()
}

// Run validates and submits job. A JSON response is rendered through
// View.RenderPreview, anything else is handed to View.Download. Errors
// are shown through View.ShowError and also returned. The module is Idle
// and SetBusy(false) has been called when Run returns, whatever the
// outcome.
func (m *Module) Run(ctx context.Context, job Job) (*Outcome, error) {
	m.mu.Lock()
	if m.state != Idle {
		m.mu.Unlock()
		return nil, ErrBusy
	}
	m.state = Validating
	m.mu.Unlock()

	att := types.Attempt{ID: uuid.NewString(), Module: m.Mode, StartedAt: m.clock()}
	log := m.logger().With(zap.String("module", m.Mode.String()), zap.String("attempt", att.ID))

	defer func() {
		m.View.SetBusy(m.Mode, false)
		m.set(Idle)
	}()

	out, err := m.run(ctx, job, &att, log)

	att.FinishedAt = m.clock()
	if err != nil {
		att.Message = m.fail(err, job.Action, &att)
		m.View.ShowError(m.Mode, att.Message)
		log.Warn("attempt failed",
			zap.String("outcome", string(att.Outcome)),
			zap.Int("status", att.Status),
			zap.String("message", att.Message),
			zap.Error(err))
	} else {
		out.Attempt = att
		log.Info("attempt finished",
			zap.String("outcome", string(att.Outcome)),
			zap.String("endpoint", att.Endpoint),
			zap.Duration("duration", att.Duration()))
	}

	if m.Recorder != nil {
		if rerr := m.Recorder.Record(ctx, att); rerr != nil {
			log.Warn("recording attempt", zap.Error(rerr))
		}
	}
	return out, err
}

func (m *Module) run(ctx context.Context, job Job, att *types.Attempt, log *zap.Logger) (*Outcome, error) {
	if job.Validate != nil {
		if err := job.Validate(); err != nil {
			var ve *ValidationError
			if !errors.As(err, &ve) {
				err = &ValidationError{Message: err.Error()}
			}
			return nil, err
		}
	}

	req, err := job.Request()
	if err != nil {
		return nil, err
	}
	att.Endpoint = req.Endpoint
	att.Files = req.FileNames()

	m.set(Submitting)
	m.View.SetBusy(m.Mode, true)
	log.Info("submitting", zap.String("endpoint", req.Endpoint), zap.Strings("files", att.Files))

	resp, err := m.Submitter.Submit(ctx, req)
	if err != nil {
		return nil, err
	}
	att.Status = resp.Status
	out := &Outcome{Request: req}

	if resp.IsJSON() {
		r, err := preview.Decode(resp.Body)
		if err != nil {
			return nil, err
		}
		m.set(Success)
		att.Outcome = types.OutcomePreview
		out.Preview = &r
		m.View.RenderPreview(m.Mode, r)
		if job.PreviewMessage != nil {
			att.Message = job.PreviewMessage(r)
			m.View.ShowSuccess(m.Mode, att.Message)
		}
		return out, nil
	}

	a := types.Artifact{
		Filename:    resp.Filename(job.Filename),
		ContentType: resp.ContentType,
		Data:        resp.Body,
	}
	path, err := m.View.Download(m.Mode, a)
	if err != nil {
		return nil, fmt.Errorf("saving %s: %w", a.Filename, err)
	}
	m.set(Success)
	att.Outcome = types.OutcomeDownload
	att.SavedPath = path
	att.Message = DownloadMessage
	if job.DownloadMessage != "" {
		att.Message = job.DownloadMessage
	}
	out.Artifact = &a
	m.View.ShowSuccess(m.Mode, att.Message)
	log.Info("downloaded", zap.String("file", a.Filename), zap.String("path", path), zap.Int64("bytes", a.Size()))
	return out, nil
}

// fail moves the module to the terminal state matching err and returns
// the user-facing message.
func (m *Module) fail(err error, action string, att *types.Attempt) string {
	var (
		ve *ValidationError
		se *upload.ServerError
	)
	switch {
	case errors.As(err, &ve):
		// Validation never leaves Idle territory.
		att.Outcome = types.OutcomeValidationError
		return ve.Message
	case errors.As(err, &se):
		m.set(ServerError)
		att.Outcome = types.OutcomeServerError
		att.Status = se.Status
		return se.Message(action)
	case upload.IsNetworkError(err):
		m.set(NetworkError)
		att.Outcome = types.OutcomeNetworkError
		return upload.ConnectivityMessage
	}
	m.set(NetworkError)
	att.Outcome = types.OutcomeNetworkError
	return err.Error()
}
