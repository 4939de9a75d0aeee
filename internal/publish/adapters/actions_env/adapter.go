// Package actionsenv resolves the pipeline context from the GitHub Actions
// environment and event payload.
package actionsenv

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/google/go-github/v68/github"

	"github.com/nathantilsley/pr-assets/internal/publish/domain"
)

// ErrNoIssueNumber is returned when neither the event nor the caller
// identifies an issue or pull request.
var ErrNoIssueNumber = errors.New("no issue or pull request number available")

// eventPayload is the part of a webhook payload the tool cares about.
type eventPayload struct {
	Number      int                 `json:"number"`
	PullRequest *github.PullRequest `json:"pull_request"`
	Issue       *github.Issue       `json:"issue"`
}

// Adapter holds the workflow run's repository and event information.
type Adapter struct {
	repository string
	refName    string
	event      eventPayload
}

// Load reads GITHUB_REPOSITORY, GITHUB_REF_NAME and the payload named by
// GITHUB_EVENT_PATH through getenv. A missing event file is not an error;
// runs triggered outside a pull request may not have one locally.
func Load(getenv func(string) string) (*Adapter, error) {
	a := &Adapter{
		repository: getenv("GITHUB_REPOSITORY"),
		refName:    getenv("GITHUB_REF_NAME"),
	}

	eventPath := getenv("GITHUB_EVENT_PATH")
	if eventPath == "" {
		return a, nil
	}
	//nolint:gosec // G304: path is provided by the Actions runner
	raw, err := os.ReadFile(eventPath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return a, nil
		}
		return nil, fmt.Errorf("reading event payload: %w", err)
	}
	if err := json.Unmarshal(raw, &a.event); err != nil {
		return nil, fmt.Errorf("parsing event payload %s: %w", eventPath, err)
	}
	return a, nil
}

// FromEnv loads from the process environment.
func FromEnv() (*Adapter, error) {
	return Load(os.Getenv)
}

// Repository splits GITHUB_REPOSITORY into owner and name.
func (a *Adapter) Repository() (string, string) {
	return SplitRepository(a.repository)
}

// PRContext returns the upload target. For pull requests this is the head
// repository and branch; otherwise the workflow repository and
// GITHUB_REF_NAME. The branch is empty when neither is known.
func (a *Adapter) PRContext() domain.PRContext {
	owner, repo := a.Repository()
	pr := a.event.PullRequest
	if pr == nil {
		return domain.PRContext{Owner: owner, Repo: repo, Branch: a.refName}
	}

	ctx := domain.PRContext{
		Owner:    owner,
		Repo:     repo,
		Branch:   pr.GetHead().GetRef(),
		PRNumber: pr.GetNumber(),
		HasPR:    true,
	}
	if headRepo := pr.GetHead().GetRepo(); headRepo != nil {
		ctx.Owner = headRepo.GetOwner().GetLogin()
		ctx.Repo = headRepo.GetName()
	}
	return ctx
}

// IssueTarget returns the issue or pull request the run belongs to,
// addressed through the workflow repository.
func (a *Adapter) IssueTarget() (domain.IssueTarget, error) {
	owner, repo := a.Repository()
	target := domain.IssueTarget{Owner: owner, Repo: repo}

	switch {
	case a.event.Issue.GetNumber() != 0:
		target.Number = a.event.Issue.GetNumber()
	case a.event.PullRequest.GetNumber() != 0:
		target.Number = a.event.PullRequest.GetNumber()
	default:
		target.Number = a.event.Number
	}
	if target.Number == 0 {
		return target, ErrNoIssueNumber
	}
	return target, nil
}

// SplitRepository splits "owner/name". Malformed input yields empty strings.
func SplitRepository(full string) (string, string) {
	owner, name, ok := strings.Cut(full, "/")
	if !ok || owner == "" || name == "" || strings.Contains(name, "/") {
		return "", ""
	}
	return owner, name
}
