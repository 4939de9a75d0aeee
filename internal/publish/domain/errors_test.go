package domain

import (
	"errors"
	"fmt"
	"testing"
)

// errStatus404 stands in for the hosting API's 404 response.
var errStatus404 = errors.New("GET /repos/octo/os/contents/.github/pr-images/qemu-screen-smoke.png: 404 Not Found")

func smokeLocation() FileLocation {
	return FileLocation{
		Owner:  "octo",
		Repo:   "os",
		Branch: "feat/vga",
		Path:   ".github/pr-images/qemu-screen-smoke.png",
	}
}

func TestNotFoundError(t *testing.T) {
	err := NewNotFoundError(smokeLocation(), errStatus404)

	want := "no content at octo/os@feat/vga:.github/pr-images/qemu-screen-smoke.png"
	if err.Error() != want {
		t.Errorf("Error() = %q, want %q", err.Error(), want)
	}
	if !errors.Is(err, errStatus404) {
		t.Error("lookup miss should unwrap to the API response")
	}
	if err.Location != smokeLocation() {
		t.Errorf("Location = %+v, want %+v", err.Location, smokeLocation())
	}
}

func TestIsNotFound(t *testing.T) {
	miss := NewNotFoundError(smokeLocation(), errStatus404)

	tests := []struct {
		name string
		err  error
		want bool
	}{
		{name: "nil", err: nil, want: false},
		{name: "lookup miss", err: miss, want: true},
		{name: "lookup miss without response", err: NewNotFoundError(smokeLocation(), nil), want: true},
		{
			name: "lookup miss wrapped by the upload",
			err:  fmt.Errorf("uploading smoke screenshot: %w", miss),
			want: true,
		},
		{
			name: "lookup miss joined with a summary error",
			err:  errors.Join(errors.New("writing step summary: disk full"), miss),
			want: true,
		},
		// A bare 404 that never went through the contents lookup is a
		// real failure, not a signal to create the file.
		{name: "bare 404 response", err: errStatus404, want: false},
		{name: "wrapped 404 response", err: fmt.Errorf("fetching PR: %w", errStatus404), want: false},
		{name: "no branch", err: ErrNoBranch, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsNotFound(tt.err); got != tt.want {
				t.Errorf("IsNotFound(%v) = %v, want %v", tt.err, got, tt.want)
			}
		})
	}
}

func TestNotFoundError_LocationFromWrappedError(t *testing.T) {
	err := fmt.Errorf("uploading smoke screenshot: %w", NewNotFoundError(smokeLocation(), errStatus404))

	var notFound *NotFoundError
	if !errors.As(err, &notFound) {
		t.Fatalf("errors.As(%v) = false", err)
	}
	if notFound.Location.Path != ".github/pr-images/qemu-screen-smoke.png" {
		t.Errorf("Location.Path = %q", notFound.Location.Path)
	}
}
