package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/google/go-github/v68/github"
	"github.com/spf13/cobra"

	actionoutput "github.com/nathantilsley/pr-assets/internal/publish/adapters/action_output"
	actionsenv "github.com/nathantilsley/pr-assets/internal/publish/adapters/actions_env"
	"github.com/nathantilsley/pr-assets/internal/publish/adapters/contents"
	imageconvert "github.com/nathantilsley/pr-assets/internal/publish/adapters/image_convert"
	screenshotscan "github.com/nathantilsley/pr-assets/internal/publish/adapters/screenshot_scan"
	"github.com/nathantilsley/pr-assets/internal/publish/app"
	"github.com/nathantilsley/pr-assets/internal/publish/domain"
	"github.com/nathantilsley/pr-assets/internal/publish/ports"
)

const (
	discoveryPattern = "pattern"
	discoveryFixed   = "fixed"
)

type screenshotsFlags struct {
	dir       string
	discovery string
	branch    string
}

func newScreenshotsCmd(root *rootFlags) *cobra.Command {
	flags := &screenshotsFlags{}

	cmd := &cobra.Command{
		Use:   "screenshots",
		Short: "Upload emulator screenshots to the repository and report their URLs",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runScreenshots(cmd.Context(), root, flags)
		},
	}

	f := cmd.Flags()
	f.StringVar(&flags.dir, "dir", ".", "Directory containing qemu-screen-* files")
	f.StringVar(&flags.discovery, "discovery", discoveryPattern,
		"How screenshots are found: pattern (scan the directory) or fixed (smoke, integration, integration-terminal)")
	f.StringVar(&flags.branch, "branch", "", "Branch to upload to when not running for a pull request")
	return cmd
}

func runScreenshots(ctx context.Context, root *rootFlags, flags *screenshotsFlags) error {
	discovery, opts, err := newDiscovery(flags)
	if err != nil {
		return err
	}

	env, err := actionsenv.FromEnv()
	if err != nil {
		return err
	}

	pr, err := resolvePRContext(ctx, root, env, root.newClient, flags.branch)
	if err != nil {
		return err
	}

	// Without a branch Run only reports the failure, so credentials are not
	// required to get the empty outputs and the error annotation written.
	var store ports.ContentStorePort
	if pr.Branch != "" {
		client, err := root.newClient()
		if err != nil {
			return err
		}
		store = contents.New(client)
	}

	converter := imageconvert.New()
	if converter.Binary() == "" {
		slog.Debug("ImageMagick not found, using built-in PPM converter")
	}

	outputs := actionoutput.FromEnv()
	svc := app.NewPublishService(store, discovery, converter, outputs, slog.Default(), opts)

	results, err := svc.Run(ctx, pr)
	if err != nil {
		if errors.Is(err, domain.ErrNoBranch) {
			return fmt.Errorf("%w\nProvide via -branch flag or GITHUB_REF_NAME env var", err)
		}
		return err
	}
	slog.Info("screenshot upload complete", "uploaded", len(results), "branch", pr.Branch)
	return nil
}

func newDiscovery(flags *screenshotsFlags) (ports.DiscoveryPort, app.PublishOptions, error) {
	opts := app.PublishOptions{Dir: flags.dir}

	switch flags.discovery {
	case discoveryPattern:
		return screenshotscan.NewPattern(flags.dir), opts, nil
	case discoveryFixed:
		opts.NamedOutputs = screenshotscan.FixedOutputKeys()
		return screenshotscan.NewFixed(screenshotscan.ImageNames{
			Smoke:               os.Getenv("PR_SMOKE_IMAGE_NAME"),
			Integration:         os.Getenv("PR_INTEGRATION_IMAGE_NAME"),
			IntegrationTerminal: os.Getenv("PR_INTEGRATION_TERMINAL_IMAGE_NAME"),
		}), opts, nil
	default:
		return nil, opts, fmt.Errorf("invalid --discovery %q, expected %s or %s",
			flags.discovery, discoveryPattern, discoveryFixed)
	}
}

// resolvePRContext builds the upload target from the event, then applies
// --pr-url, --repo and --branch overrides. newClient is only called for
// --pr-url.
func resolvePRContext(
	ctx context.Context,
	root *rootFlags,
	env *actionsenv.Adapter,
	newClient func() (*github.Client, error),
	branch string,
) (domain.PRContext, error) {
	pr := env.PRContext()

	if root.prURL != "" {
		owner, repo, num, err := parsePRURL(root.prURL)
		if err != nil {
			return pr, fmt.Errorf("parsing PR URL: %w", err)
		}
		client, err := newClient()
		if err != nil {
			return pr, err
		}
		pr, err = fetchPRContext(ctx, client, owner, repo, num)
		if err != nil {
			return pr, err
		}
	}
	if root.repo != "" {
		owner, repo := actionsenv.SplitRepository(root.repo)
		if owner == "" {
			return pr, fmt.Errorf("invalid --repo %q, expected owner/name", root.repo)
		}
		pr.Owner, pr.Repo = owner, repo
	}
	if branch != "" {
		pr.Branch = branch
	}
	return pr, nil
}

// fetchPRContext looks up a pull request so runs outside a pull_request
// event can still target its head branch.
func fetchPRContext(ctx context.Context, client *github.Client, owner, repo string, prNum int) (domain.PRContext, error) {
	slog.Info("fetching PR details", "owner", owner, "repo", repo, "pr", prNum)
	pr, _, err := client.PullRequests.Get(ctx, owner, repo, prNum)
	if err != nil {
		return domain.PRContext{}, fmt.Errorf("fetching PR: %w", err)
	}

	out := domain.PRContext{
		Owner:    owner,
		Repo:     repo,
		Branch:   pr.GetHead().GetRef(),
		PRNumber: prNum,
		HasPR:    true,
	}
	if headRepo := pr.GetHead().GetRepo(); headRepo != nil {
		out.Owner = headRepo.GetOwner().GetLogin()
		out.Repo = headRepo.GetName()
	}
	return out, nil
}
