package screenshotscan

import (
	"context"
	"path"

	"github.com/nathantilsley/pr-assets/internal/publish/domain"
)

// ImageNames are the storage file names for the fixed shots, normally
// supplied by the workflow through PR_*_IMAGE_NAME variables.
type ImageNames struct {
	Smoke               string
	Integration         string
	IntegrationTerminal string
}

type fixedShot struct {
	label     string
	source    string
	docsPath  string
	outputKey string
	imageName func(ImageNames) string
}

var fixedShots = []fixedShot{
	{
		label:     "smoke",
		source:    "qemu-screen-smoke.png",
		docsPath:  "docs/splash-screen.png",
		outputKey: "smoke_image_url",
		imageName: func(n ImageNames) string { return n.Smoke },
	},
	{
		label:     "integration",
		source:    "qemu-screen-integration.png",
		docsPath:  "docs/integration-screen.png",
		outputKey: "integration_image_url",
		imageName: func(n ImageNames) string { return n.Integration },
	},
	{
		label:     "integration_terminal",
		source:    "qemu-screen-integration-terminal.png",
		docsPath:  "docs/integration-terminal-screen.png",
		outputKey: "integration_terminal_image_url",
		imageName: func(n ImageNames) string { return n.IntegrationTerminal },
	},
}

// FixedOutputKeys lists the named outputs of the fixed-list mode in order.
func FixedOutputKeys() []string {
	keys := make([]string, 0, len(fixedShots))
	for _, s := range fixedShots {
		keys = append(keys, s.outputKey)
	}
	return keys
}

// FixedAdapter implements ports.DiscoveryPort with the three well-known
// shots. Each one is mirrored into the docs directory.
type FixedAdapter struct {
	names ImageNames
}

// NewFixed creates the fixed-list discovery.
func NewFixed(names ImageNames) *FixedAdapter {
	return &FixedAdapter{names: names}
}

// Discover always returns the three shots, present on disk or not.
func (a *FixedAdapter) Discover(_ context.Context) ([]domain.Artifact, error) {
	artifacts := make([]domain.Artifact, 0, len(fixedShots))
	for _, s := range fixedShots {
		name := s.imageName(a.names)
		if name == "" {
			name = s.source
		}
		artifacts = append(artifacts, domain.Artifact{
			Label:       s.label,
			FileName:    s.source,
			RawFileName: domain.RawName(s.source),
			UploadPath:  path.Join(domain.ImageDir, name),
			MirrorPath:  s.docsPath,
			OutputKey:   s.outputKey,
		})
	}
	return artifacts, nil
}
