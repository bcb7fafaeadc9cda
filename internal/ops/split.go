// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package ops

import (
	"context"
	"fmt"
	"os"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/patrickmn/go-cache"

	"github.com/pdiddy/excelab/internal/session"
	"github.com/pdiddy/excelab/internal/upload"
	"github.com/pdiddy/excelab/pkg/types"
)

// Column listings stay valid for this long.
const (
	columnCacheTTL     = 10 * time.Minute
	columnCacheCleanup = 20 * time.Minute
)

// SplitRequest splits one spreadsheet into one file per distinct value
// of Column. Only the first file is sent.
type SplitRequest struct {
	Files  FileList `json:"files"`
	Column string   `json:"split_column"`
}

// Validate checks the request before anything is sent.
func (r SplitRequest) Validate() error {
	err := validation.ValidateStruct(&r,
		validation.Field(&r.Files, validation.Required.Error(MsgNoFiles)),
		validation.Field(&r.Column, validation.Required.Error(MsgNoColumn)),
	)
	return firstInvalid(err, "files", "split_column")
}

// Splitter is the split module.
type Splitter struct {
	Session *session.Module

	columns *cache.Cache
}

// NewSplitter returns an idle split module.
func NewSplitter(deps Deps) *Splitter {
	return &Splitter{
		Session: deps.module(types.ModeSplit),
		columns: cache.New(columnCacheTTL, columnCacheCleanup),
	}
}

// Columns lists the column names of files[0] via /api/split/columns.
// Results are cached per file identity, so asking again for an
// unchanged file sends nothing.
func (s *Splitter) Columns(ctx context.Context, files FileList) ([]string, error) {
	if len(files) == 0 {
		return nil, s.rejectEmpty(ctx)
	}
	f := files[0]
	key := columnKey(f)
	if cached, ok := s.columns.Get(key); ok {
		return cached.([]string), nil
	}

	out, err := s.Session.Run(ctx, session.Job{
		Request: func() (*upload.Request, error) {
			return &upload.Request{
				Endpoint:  types.EndpointSplitColumns,
				FileField: upload.FieldFile,
				Files:     []upload.File{f},
			}, nil
		},
		Action: actionColumns,
	})
	if err != nil {
		return nil, err
	}
	if out.Preview == nil || out.Preview.Columns == nil {
		return nil, fmt.Errorf("column listing returned no columns")
	}
	cols := out.Preview.Columns.Columns
	s.columns.Set(key, cols, cache.DefaultExpiration)
	return cols, nil
}

// rejectEmpty runs a job that fails validation so the view and history
// see the rejection like any other module's.
func (s *Splitter) rejectEmpty(ctx context.Context) error {
	_, err := s.Session.Run(ctx, session.Job{
		Validate: func() error { return session.Invalid(MsgNoFiles) },
	})
	return err
}

// Split posts files[0] and the column to /api/split and saves the zip.
func (s *Splitter) Split(ctx context.Context, r SplitRequest) (*session.Outcome, error) {
	return s.Session.Run(ctx, session.Job{
		Validate: r.Validate,
		Request: func() (*upload.Request, error) {
			req := &upload.Request{
				Endpoint:  types.EndpointSplit,
				FileField: upload.FieldFile,
				Files:     []upload.File{r.Files[0]},
			}
			req.AddField("split_column", r.Column)
			return req, nil
		},
		Action:          actionSplit,
		Filename:        types.DefaultSplitFilename,
		DownloadMessage: "拆分完成！文件已保存。",
	})
}

var statFile = os.Stat

// columnKey identifies a file by location, size, and modification time.
// In-memory files are keyed by name and size.
func columnKey(f upload.File) string {
	if f.Path == "" {
		return fmt.Sprintf("mem:%s:%d", f.Name, f.Size)
	}
	size, mtime := f.Size, int64(0)
	if info, err := statFile(f.Path); err == nil {
		size, mtime = info.Size(), info.ModTime().UnixNano()
	}
	return fmt.Sprintf("path:%s:%d:%d", f.Path, size, mtime)
}
