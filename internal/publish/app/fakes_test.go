package app

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"os"

	"github.com/nathantilsley/pr-assets/internal/publish/domain"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// fakeStore is an in-memory repository keyed by path.
type fakeStore struct {
	files     map[string]string // path -> sha
	dirs      map[string]bool
	lookupErr error
	putErr    error
	urls      map[string]string // path -> download url returned by Put

	lookups []domain.FileLocation
	writes  []domain.FileWrite
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		files: map[string]string{},
		dirs:  map[string]bool{},
		urls:  map[string]string{},
	}
}

func (f *fakeStore) calls() int {
	return len(f.lookups) + len(f.writes)
}

func (f *fakeStore) Lookup(_ context.Context, loc domain.FileLocation) (domain.RemoteFile, error) {
	f.lookups = append(f.lookups, loc)
	if f.lookupErr != nil {
		return domain.RemoteFile{}, f.lookupErr
	}
	if f.dirs[loc.Path] {
		return domain.RemoteFile{IsDir: true}, nil
	}
	sha, ok := f.files[loc.Path]
	if !ok {
		return domain.RemoteFile{}, domain.NewNotFoundError(loc, nil)
	}
	return domain.RemoteFile{SHA: sha}, nil
}

func (f *fakeStore) Put(_ context.Context, w domain.FileWrite) (domain.WriteResult, error) {
	f.writes = append(f.writes, w)
	if f.putErr != nil {
		return domain.WriteResult{}, f.putErr
	}
	f.files[w.Location.Path] = "sha-" + w.Location.Path
	return domain.WriteResult{DownloadURL: f.urls[w.Location.Path]}, nil
}

// fakeConverter writes a placeholder display file, or fails.
type fakeConverter struct {
	err   error
	calls []string
}

func (c *fakeConverter) Convert(_ context.Context, rawPath, displayPath string) error {
	c.calls = append(c.calls, rawPath)
	if c.err != nil {
		return c.err
	}
	return os.WriteFile(displayPath, []byte("converted"), 0o600)
}

// fakeOutputs records everything the service reports.
type fakeOutputs struct {
	outputs  map[string]string
	order    []string
	summary  string
	warnings []string
	failures []string
	setErr   error
}

func newFakeOutputs() *fakeOutputs {
	return &fakeOutputs{outputs: map[string]string{}}
}

func (o *fakeOutputs) SetOutput(key, value string) error {
	if o.setErr != nil {
		return o.setErr
	}
	o.outputs[key] = value
	o.order = append(o.order, key)
	return nil
}

func (o *fakeOutputs) AppendSummary(markdown string) error {
	o.summary += markdown
	return nil
}

func (o *fakeOutputs) Warning(message string) {
	o.warnings = append(o.warnings, message)
}

func (o *fakeOutputs) Fail(message string) {
	o.failures = append(o.failures, message)
}

// staticDiscovery returns a fixed artifact list.
type staticDiscovery struct {
	artifacts []domain.Artifact
	err       error
	calls     int
}

func (d *staticDiscovery) Discover(_ context.Context) ([]domain.Artifact, error) {
	d.calls++
	return d.artifacts, d.err
}

// fakeComments records created comments.
type fakeComments struct {
	bodies  []string
	targets []domain.IssueTarget
	err     error
}

func (c *fakeComments) CreateComment(_ context.Context, target domain.IssueTarget, body string) error {
	if c.err != nil {
		return c.err
	}
	c.targets = append(c.targets, target)
	c.bodies = append(c.bodies, body)
	return nil
}

var errBoom = errors.New("boom")
