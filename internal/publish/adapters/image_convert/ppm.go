package imageconvert

import (
	"bufio"
	"errors"
	"fmt"
	"image"
	"image/png"
	"io"
	"os"
	"strconv"
)

// maxDimension bounds width and height read from a PPM header. Emulator
// framebuffers are far smaller; anything larger is a corrupt dump.
const maxDimension = 8192

// PPMToPNG converts a binary (P6) PPM screenshot into a PNG file.
func PPMToPNG(ppmPath, pngPath string) error {
	//nolint:gosec // G304: path comes from the screenshot scan
	in, err := os.Open(ppmPath)
	if err != nil {
		return fmt.Errorf("opening %s: %w", ppmPath, err)
	}
	//nolint:errcheck // Read-only file
	defer func() { _ = in.Close() }()

	img, err := DecodePPM(bufio.NewReader(in))
	if err != nil {
		return fmt.Errorf("decoding %s: %w", ppmPath, err)
	}

	out, err := os.Create(pngPath)
	if err != nil {
		return fmt.Errorf("creating %s: %w", pngPath, err)
	}
	if err := png.Encode(out, img); err != nil {
		//nolint:errcheck // Best effort close on error path
		_ = out.Close()
		return fmt.Errorf("encoding %s: %w", pngPath, err)
	}
	return out.Close()
}

// DecodePPM reads a P6 image. Samples are scaled to 8 bits when the
// header declares a max value below 255.
func DecodePPM(r *bufio.Reader) (*image.NRGBA, error) {
	magic, err := headerToken(r)
	if err != nil {
		return nil, fmt.Errorf("reading magic: %w", err)
	}
	if magic != "P6" {
		return nil, fmt.Errorf("unsupported PPM format %q", magic)
	}

	var dims [3]int
	for i, field := range []string{"width", "height", "max value"} {
		tok, err := headerToken(r)
		if err != nil {
			return nil, fmt.Errorf("reading %s: %w", field, err)
		}
		n, err := strconv.Atoi(tok)
		if err != nil || n <= 0 {
			return nil, fmt.Errorf("invalid %s %q", field, tok)
		}
		dims[i] = n
	}
	width, height, maxVal := dims[0], dims[1], dims[2]
	if width > maxDimension || height > maxDimension {
		return nil, fmt.Errorf("image size %dx%d exceeds %dx%d", width, height, maxDimension, maxDimension)
	}
	if maxVal > 255 {
		return nil, fmt.Errorf("unsupported max value %d", maxVal)
	}

	// Read at most the declared size; the buffer only grows with data that
	// is actually present.
	size := int64(width) * int64(height) * 3
	pixels, err := io.ReadAll(io.LimitReader(r, size))
	if err != nil {
		return nil, fmt.Errorf("reading pixel data: %w", err)
	}
	if int64(len(pixels)) != size {
		return nil, fmt.Errorf("reading pixel data: got %d of %d bytes: %w", len(pixels), size, io.ErrUnexpectedEOF)
	}

	img := image.NewNRGBA(image.Rect(0, 0, width, height))
	for i := 0; i < width*height; i++ {
		for c := 0; c < 3; c++ {
			v := int(pixels[i*3+c])
			if maxVal != 255 {
				v = v * 255 / maxVal
			}
			img.Pix[i*4+c] = byte(v)
		}
		img.Pix[i*4+3] = 0xff
	}
	return img, nil
}

// headerToken returns the next whitespace-delimited token, skipping
// "#" comments. It consumes exactly one trailing whitespace byte, which
// leaves the reader at the first pixel after the max value.
func headerToken(r *bufio.Reader) (string, error) {
	var tok []byte
	for {
		b, err := r.ReadByte()
		if err != nil {
			if errors.Is(err, io.EOF) && len(tok) > 0 {
				return string(tok), nil
			}
			return "", err
		}
		switch {
		case b == '#' && len(tok) == 0:
			if _, err := r.ReadString('\n'); err != nil {
				return "", err
			}
		case isSpace(b):
			if len(tok) > 0 {
				return string(tok), nil
			}
		default:
			tok = append(tok, b)
		}
	}
}

func isSpace(b byte) bool {
	return b == ' ' || b == '\t' || b == '\n' || b == '\r'
}
