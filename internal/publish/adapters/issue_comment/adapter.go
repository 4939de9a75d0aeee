package issuecomment

import (
	"context"
	"fmt"

	"github.com/google/go-github/v68/github"

	"github.com/nathantilsley/pr-assets/internal/publish/domain"
)

// Adapter implements ports.CommentPort by creating issue comments through
// the GitHub API. Pull requests share the issue comment endpoint.
type Adapter struct {
	client *github.Client
}

// New creates a new issue comment adapter.
func New(client *github.Client) *Adapter {
	return &Adapter{client: client}
}

// CreateComment posts body as a new comment. It never looks for or edits
// an existing comment.
func (a *Adapter) CreateComment(ctx context.Context, target domain.IssueTarget, body string) error {
	_, _, err := a.client.Issues.CreateComment(ctx, target.Owner, target.Repo, target.Number, &github.IssueComment{
		Body: github.Ptr(body),
	})
	if err != nil {
		return fmt.Errorf("creating comment on %s/%s#%d: %w", target.Owner, target.Repo, target.Number, err)
	}
	return nil
}
