// Package screenshotscan decides which emulator screenshots a run publishes.
package screenshotscan

import (
	"context"
	"fmt"
	"os"
	"sort"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/nathantilsley/pr-assets/internal/publish/domain"
)

// Pattern matches both the display and the raw screenshot formats.
const Pattern = domain.ScreenshotPrefix + "*{" + domain.DisplayExt + "," + domain.RawExt + "}"

// PatternAdapter implements ports.DiscoveryPort by scanning a directory
// for files that follow the screenshot naming convention.
type PatternAdapter struct {
	dir string
}

// NewPattern creates a scanner rooted at dir.
func NewPattern(dir string) *PatternAdapter {
	return &PatternAdapter{dir: dir}
}

// Discover returns one artifact per distinct display-format name, sorted
// by file name. A raw file without a display counterpart still yields an
// artifact so the caller can convert it.
func (a *PatternAdapter) Discover(_ context.Context) ([]domain.Artifact, error) {
	matches, err := doublestar.Glob(os.DirFS(a.dir), Pattern, doublestar.WithFilesOnly())
	if err != nil {
		return nil, fmt.Errorf("scanning %s for screenshots: %w", a.dir, err)
	}

	seen := make(map[string]struct{}, len(matches))
	var names []string
	for _, m := range matches {
		name := domain.DisplayName(m)
		if _, ok := seen[name]; ok {
			continue
		}
		seen[name] = struct{}{}
		names = append(names, name)
	}
	sort.Strings(names)

	artifacts := make([]domain.Artifact, 0, len(names))
	for _, name := range names {
		artifacts = append(artifacts, domain.Artifact{
			Label:       domain.LabelFromFileName(name),
			FileName:    name,
			RawFileName: domain.RawName(name),
			UploadPath:  domain.UploadPathFor(name),
		})
	}
	return artifacts, nil
}
