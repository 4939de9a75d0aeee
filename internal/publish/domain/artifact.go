package domain

import (
	"path"
	"strings"
)

// Screenshot naming convention used by the emulator test run.
const (
	ScreenshotPrefix = "qemu-screen-"
	DisplayExt       = ".png"
	RawExt           = ".ppm"

	// ImageDir is the repository directory that stores uploaded screenshots.
	ImageDir = ".github/pr-images"
)

// Artifact is one screenshot scheduled for upload.
type Artifact struct {
	Label       string
	FileName    string // Display-format file name (PNG)
	RawFileName string // Legacy raw-format file name (PPM) that can be converted
	UploadPath  string
	MirrorPath  string // Optional documentation path receiving the same content
	OutputKey   string // Named pipeline output, set for fixed-list artifacts only
}

// HasMirror reports whether the artifact is also written to a docs path.
func (a Artifact) HasMirror() bool {
	return a.MirrorPath != ""
}

// UploadResult records where an artifact ended up.
type UploadResult struct {
	Name      string
	Label     string
	Path      string
	URL       string
	OutputKey string
}

// DisplayName maps a raw-format screenshot name to its display-format name.
// Names that do not carry the raw extension are returned unchanged.
func DisplayName(name string) string {
	if strings.HasSuffix(name, RawExt) {
		return strings.TrimSuffix(name, RawExt) + DisplayExt
	}
	return name
}

// RawName maps a display-format screenshot name to its raw-format name.
func RawName(name string) string {
	if strings.HasSuffix(name, DisplayExt) {
		return strings.TrimSuffix(name, DisplayExt) + RawExt
	}
	return name
}

// LabelFromFileName extracts the label from a screenshot file name.
// Example: "qemu-screen-integration-terminal.png" -> "integration-terminal"
func LabelFromFileName(name string) string {
	base := path.Base(name)
	base = strings.TrimSuffix(base, path.Ext(base))
	return strings.TrimPrefix(base, ScreenshotPrefix)
}

// UploadPathFor returns the storage path for a screenshot file name.
func UploadPathFor(name string) string {
	return path.Join(ImageDir, name)
}

// RawContentURL builds the raw.githubusercontent.com URL for a file on a branch.
func RawContentURL(owner, repo, branch, filePath string) string {
	return "https://raw.githubusercontent.com/" + owner + "/" + repo + "/" + branch + "/" + filePath
}

// ResolveURL prefers the download URL returned by the write and falls back
// to the raw-content URL.
func ResolveURL(res WriteResult, loc FileLocation) string {
	if res.DownloadURL != "" {
		return res.DownloadURL
	}
	return RawContentURL(loc.Owner, loc.Repo, loc.Branch, loc.Path)
}

// FormatImagesOutput renders results as newline-delimited "name|url" pairs.
func FormatImagesOutput(results []UploadResult) string {
	lines := make([]string, 0, len(results))
	for _, r := range results {
		lines = append(lines, r.Name+"|"+r.URL)
	}
	return strings.Join(lines, "\n")
}

// URLByOutputKey indexes results by their named pipeline output.
func URLByOutputKey(results []UploadResult) map[string]string {
	urls := make(map[string]string, len(results))
	for _, r := range results {
		if r.OutputKey != "" {
			urls[r.OutputKey] = r.URL
		}
	}
	return urls
}
