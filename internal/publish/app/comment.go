package app

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/nathantilsley/pr-assets/internal/publish/domain"
	"github.com/nathantilsley/pr-assets/internal/publish/ports"
)

// CommentService posts the contents of a file as a PR comment.
type CommentService struct {
	comments ports.CommentPort
	logger   *slog.Logger
}

// NewCommentService wires a CommentService.
func NewCommentService(comments ports.CommentPort, logger *slog.Logger) *CommentService {
	return &CommentService{comments: comments, logger: logger}
}

// Post reads bodyPath and creates one comment with its exact contents.
// Every call creates a new comment.
func (s *CommentService) Post(ctx context.Context, target domain.IssueTarget, bodyPath string) error {
	//nolint:gosec // G304: path is supplied by the workflow
	body, err := os.ReadFile(bodyPath)
	if err != nil {
		return fmt.Errorf("reading comment body: %w", err)
	}

	if err := s.comments.CreateComment(ctx, target, string(body)); err != nil {
		return err
	}

	s.logger.Info("posted PR comment", "path", bodyPath, "issue", target.Number)
	return nil
}
