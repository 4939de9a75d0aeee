package imageconvert

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"

	"github.com/gabriel-vasile/mimetype"
)

const pngMIME = "image/png"

// Binaries tried in order when looking for ImageMagick.
var magickBinaries = []string{"convert", "magick"}

// Adapter implements ports.ConverterPort. It shells out to ImageMagick when
// available and otherwise decodes the PPM itself.
type Adapter struct {
	binary string
	stdout io.Writer
	stderr io.Writer
}

// New creates a converter using the first ImageMagick binary on PATH.
// With none found, conversions use the built-in PPM encoder.
func New() *Adapter {
	for _, name := range magickBinaries {
		if p, err := exec.LookPath(name); err == nil {
			return NewWithBinary(p)
		}
	}
	return NewWithBinary("")
}

// NewWithBinary creates a converter that runs binary as "<binary> <in> <out>".
// An empty binary selects the built-in PPM encoder.
func NewWithBinary(binary string) *Adapter {
	return &Adapter{
		binary: binary,
		stdout: os.Stdout,
		stderr: os.Stderr,
	}
}

// Binary returns the external tool in use, or "" for the built-in encoder.
func (a *Adapter) Binary() string {
	return a.binary
}

// Convert writes displayPath from rawPath and checks the result is a PNG.
// A result that is not a PNG is removed so it is never mistaken for a
// successful conversion.
func (a *Adapter) Convert(ctx context.Context, rawPath, displayPath string) error {
	if a.binary == "" {
		if err := PPMToPNG(rawPath, displayPath); err != nil {
			return err
		}
	} else {
		//nolint:gosec // G204: binary is resolved from PATH, arguments are screenshot file names
		cmd := exec.CommandContext(ctx, a.binary, rawPath, displayPath)
		cmd.Stdout = a.stdout
		cmd.Stderr = a.stderr
		if err := cmd.Run(); err != nil {
			return fmt.Errorf("running %s: %w", a.binary, err)
		}
	}

	if err := verifyPNG(displayPath); err != nil {
		//nolint:errcheck // Best effort cleanup of a bad conversion
		_ = os.Remove(displayPath)
		return err
	}
	return nil
}

func verifyPNG(path string) error {
	mt, err := mimetype.DetectFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("converter produced no output at %s", path)
		}
		return fmt.Errorf("detecting type of %s: %w", path, err)
	}
	if !mt.Is(pngMIME) {
		return fmt.Errorf("converter produced %s, want %s", mt.String(), pngMIME)
	}
	return nil
}
