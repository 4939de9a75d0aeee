package main

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	actionsenv "github.com/nathantilsley/pr-assets/internal/publish/adapters/actions_env"
	issuecomment "github.com/nathantilsley/pr-assets/internal/publish/adapters/issue_comment"
	"github.com/nathantilsley/pr-assets/internal/publish/app"
	"github.com/nathantilsley/pr-assets/internal/publish/domain"
)

func newCommentCmd(root *rootFlags) *cobra.Command {
	var issue int

	cmd := &cobra.Command{
		Use:   "comment <body-file>",
		Short: "Post the contents of a file as a pull request comment",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := actionsenv.FromEnv()
			if err != nil {
				return err
			}

			target, err := resolveIssueTarget(root, env, issue)
			if err != nil {
				return err
			}

			client, err := root.newClient()
			if err != nil {
				return err
			}

			svc := app.NewCommentService(issuecomment.New(client), slog.Default())
			return svc.Post(cmd.Context(), target, args[0])
		},
	}

	cmd.Flags().IntVar(&issue, "issue", 0, "Issue or pull request number (default: from the event payload)")
	return cmd
}

// resolveIssueTarget applies --pr-url, --repo and --issue on top of the
// workflow event.
func resolveIssueTarget(root *rootFlags, env *actionsenv.Adapter, issue int) (domain.IssueTarget, error) {
	target, eventErr := env.IssueTarget()

	if root.prURL != "" {
		owner, repo, num, err := parsePRURL(root.prURL)
		if err != nil {
			return target, fmt.Errorf("parsing PR URL: %w", err)
		}
		target = domain.IssueTarget{Owner: owner, Repo: repo, Number: num}
		eventErr = nil
	}
	if root.repo != "" {
		owner, repo := actionsenv.SplitRepository(root.repo)
		if owner == "" {
			return target, fmt.Errorf("invalid --repo %q, expected owner/name", root.repo)
		}
		target.Owner, target.Repo = owner, repo
	}
	if issue != 0 {
		target.Number = issue
		eventErr = nil
	}

	if eventErr != nil {
		return target, fmt.Errorf("%w\nProvide via -issue or -pr-url flag", eventErr)
	}
	if target.Owner == "" || target.Repo == "" {
		return target, errors.New("repository required\nProvide via -repo flag or GITHUB_REPOSITORY env var")
	}
	return target, nil
}
