// Package app orchestrates screenshot publishing and PR comments on top of
// the ports implemented by the adapters.
package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/nathantilsley/pr-assets/internal/publish/domain"
	"github.com/nathantilsley/pr-assets/internal/publish/ports"
)

// ImagesOutput is the pipeline output listing "name|url" pairs.
const ImagesOutput = "images"

// PublishOptions configures a PublishService.
type PublishOptions struct {
	// Dir is where the emulator run left its screenshots.
	Dir string
	// NamedOutputs switches reporting to one output per key (fixed-list
	// mode). When empty, results are reported through ImagesOutput.
	NamedOutputs []string
}

// PublishService uploads screenshots to the repository and reports their URLs.
type PublishService struct {
	store     ports.ContentStorePort
	discovery ports.DiscoveryPort
	converter ports.ConverterPort
	outputs   ports.OutputPort
	logger    *slog.Logger
	opts      PublishOptions
}

// NewPublishService wires a PublishService.
func NewPublishService(
	store ports.ContentStorePort,
	discovery ports.DiscoveryPort,
	converter ports.ConverterPort,
	outputs ports.OutputPort,
	logger *slog.Logger,
	opts PublishOptions,
) *PublishService {
	if opts.Dir == "" {
		opts.Dir = "."
	}
	return &PublishService{
		store:     store,
		discovery: discovery,
		converter: converter,
		outputs:   outputs,
		logger:    logger,
		opts:      opts,
	}
}

// Run publishes every discovered screenshot, one at a time. Missing or
// unconvertible screenshots are skipped. The first remote error other than
// "not found" aborts the run; uploads made before it are kept.
func (s *PublishService) Run(ctx context.Context, pr domain.PRContext) ([]domain.UploadResult, error) {
	if pr.Branch == "" {
		s.outputs.Fail("No branch ref available for repository upload.")
		if err := s.writeOutputs(nil); err != nil {
			return nil, errors.Join(domain.ErrNoBranch, err)
		}
		return nil, domain.ErrNoBranch
	}

	artifacts, err := s.discovery.Discover(ctx)
	if err != nil {
		return nil, fmt.Errorf("discovering screenshots: %w", err)
	}
	s.logger.Debug("discovered screenshots", "count", len(artifacts), "branch", pr.Branch)

	var results []domain.UploadResult
	uploaded := make(map[string]struct{}, len(artifacts))
	for _, art := range artifacts {
		if _, ok := uploaded[art.FileName]; ok {
			continue
		}
		if !s.ensureDisplayFile(ctx, art) {
			continue
		}

		content, err := os.ReadFile(s.localPath(art.FileName))
		if err != nil {
			s.logger.Warn("reading screenshot failed, skipping upload", "label", art.Label, "error", err)
			continue
		}

		res, err := s.upload(ctx, pr, art, content)
		if err != nil {
			return results, err
		}
		uploaded[art.FileName] = struct{}{}
		results = append(results, res)
	}

	if err := s.writeOutputs(results); err != nil {
		return results, err
	}
	if err := s.outputs.AppendSummary(FormatSummary(results)); err != nil {
		s.logger.Warn("writing step summary failed", "error", err)
	}
	return results, nil
}

// ensureDisplayFile reports whether the display-format file is on disk,
// converting from the raw format first when only that exists.
func (s *PublishService) ensureDisplayFile(ctx context.Context, art domain.Artifact) bool {
	display := s.localPath(art.FileName)
	if fileExists(display) {
		return true
	}

	raw := s.localPath(art.RawFileName)
	if art.RawFileName == "" || !fileExists(raw) {
		s.logger.Info("no screenshot found, skipping upload",
			"label", art.Label,
			"path", display,
			"raw_path", raw)
		return false
	}

	if err := s.converter.Convert(ctx, raw, display); err != nil {
		msg := fmt.Sprintf("Failed to convert %s to PNG: %v", raw, err)
		s.logger.Warn("conversion failed, skipping upload", "label", art.Label, "error", err)
		s.outputs.Warning(msg)
		return false
	}
	s.logger.Info("converted screenshot for repository upload", "from", raw, "to", display)
	return fileExists(display)
}

func (s *PublishService) upload(
	ctx context.Context,
	pr domain.PRContext,
	art domain.Artifact,
	content []byte,
) (domain.UploadResult, error) {
	loc := pr.Location(art.UploadPath)
	wr, err := s.upsert(ctx, loc, fmt.Sprintf("Add %s VNC screenshot for #%s", art.Label, pr.CommitRef()), content)
	if err != nil {
		return domain.UploadResult{}, err
	}

	if art.HasMirror() {
		msg := fmt.Sprintf("Update README %s screen for #%s", art.Label, pr.CommitRef())
		if _, err := s.upsert(ctx, pr.Location(art.MirrorPath), msg, content); err != nil {
			return domain.UploadResult{}, err
		}
	}

	url := domain.ResolveURL(wr, loc)
	s.logger.Info("uploaded screenshot", "label", art.Label, "url", url)
	if art.HasMirror() {
		s.logger.Info("updated README screenshot", "path", art.MirrorPath)
	}

	return domain.UploadResult{
		Name:      art.FileName,
		Label:     art.Label,
		Path:      art.UploadPath,
		URL:       url,
		OutputKey: art.OutputKey,
	}, nil
}

// upsert writes content to loc. The lookup right before the write supplies
// the SHA the API needs to accept an update.
func (s *PublishService) upsert(ctx context.Context, loc domain.FileLocation, message string, content []byte) (domain.WriteResult, error) {
	w := domain.FileWrite{
		Location: loc,
		Message:  message,
		Content:  content,
	}

	existing, err := s.store.Lookup(ctx, loc)
	switch {
	case err == nil:
		if !existing.IsDir {
			sha := existing.SHA
			w.PriorSHA = &sha
		}
	case domain.IsNotFound(err):
	default:
		return domain.WriteResult{}, fmt.Errorf("looking up %s: %w", loc.Path, err)
	}

	res, err := s.store.Put(ctx, w)
	if err != nil {
		return domain.WriteResult{}, fmt.Errorf("uploading %s: %w", loc.Path, err)
	}
	return res, nil
}

func (s *PublishService) writeOutputs(results []domain.UploadResult) error {
	if len(s.opts.NamedOutputs) == 0 {
		if err := s.outputs.SetOutput(ImagesOutput, domain.FormatImagesOutput(results)); err != nil {
			return fmt.Errorf("setting output %s: %w", ImagesOutput, err)
		}
		return nil
	}

	urls := domain.URLByOutputKey(results)
	for _, key := range s.opts.NamedOutputs {
		if err := s.outputs.SetOutput(key, urls[key]); err != nil {
			return fmt.Errorf("setting output %s: %w", key, err)
		}
	}
	return nil
}

func (s *PublishService) localPath(name string) string {
	return filepath.Join(s.opts.Dir, name)
}

// FormatSummary renders uploaded screenshots as a job summary section.
func FormatSummary(results []domain.UploadResult) string {
	var sb strings.Builder
	sb.WriteString("### Emulator screenshots\n\n")
	if len(results) == 0 {
		sb.WriteString("No screenshots were uploaded.\n")
		return sb.String()
	}

	sb.WriteString("| Screenshot | Path | Preview |\n")
	sb.WriteString("|------------|------|---------|\n")
	for _, r := range results {
		fmt.Fprintf(&sb, "| %s | `%s` | ![%s](%s) |\n", r.Label, r.Path, r.Label, r.URL)
	}
	return sb.String()
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
