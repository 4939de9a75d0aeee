package main

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"regexp"
	"strconv"

	"github.com/google/go-github/v68/github"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/nathantilsley/pr-assets/internal/ghclient"
)

type rootFlags struct {
	token    string
	repo     string
	prURL    string
	apiURL   string
	logLevel string
	envFile  string
}

func newRootCmd() *cobra.Command {
	flags := &rootFlags{}

	cmd := &cobra.Command{
		Use:           "pr-assets",
		Short:         "CI helpers for pull request comments and screenshots",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if err := loadEnvFile(flags.envFile); err != nil {
				return err
			}
			logger, err := newLogger(getEnvOrFlag(flags.logLevel, "LOG_LEVEL"))
			if err != nil {
				return err
			}
			slog.SetDefault(logger)
			return nil
		},
	}

	pf := cmd.PersistentFlags()
	pf.StringVar(&flags.token, "token", "", "GitHub token (or use GITHUB_TOKEN env var)")
	pf.StringVar(&flags.repo, "repo", "", "Repository as owner/name (default: GITHUB_REPOSITORY)")
	pf.StringVar(&flags.prURL, "pr-url", "", "Pull request URL, for runs outside a pull_request event")
	pf.StringVar(&flags.apiURL, "api-url", "", "GitHub API URL (or use GITHUB_API_URL env var)")
	pf.StringVar(&flags.logLevel, "log-level", "", "Log level: debug, info, warn, error (or use LOG_LEVEL env var)")
	pf.StringVar(&flags.envFile, "env-file", "", "Load environment variables from this file (default: .env if present)")

	cmd.AddCommand(newCommentCmd(flags))
	cmd.AddCommand(newScreenshotsCmd(flags))
	return cmd
}

func loadEnvFile(path string) error {
	if path == "" {
		//nolint:errcheck // .env is optional for local runs
		_ = godotenv.Load()
		return nil
	}
	if err := godotenv.Load(path); err != nil {
		return fmt.Errorf("loading env file %s: %w", path, err)
	}
	return nil
}

func newLogger(level string) (*slog.Logger, error) {
	var lvl slog.Level
	if level != "" {
		if err := lvl.UnmarshalText([]byte(level)); err != nil {
			return nil, fmt.Errorf("invalid log level %q: %w", level, err)
		}
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: lvl})), nil
}

// clientOptions collects credentials from flags and the environment.
func (f *rootFlags) clientOptions() (ghclient.Options, error) {
	opts := ghclient.Options{
		Token:  getEnvOrFlag(f.token, "GITHUB_TOKEN"),
		APIURL: getEnvOrFlag(f.apiURL, "GITHUB_API_URL"),
	}
	if opts.Token != "" {
		return opts, nil
	}

	var err error
	if opts.AppID, err = envInt64("GITHUB_APP_ID"); err != nil {
		return opts, err
	}
	if opts.InstallationID, err = envInt64("GITHUB_INSTALLATION_ID"); err != nil {
		return opts, err
	}

	if key := os.Getenv("GITHUB_APP_PRIVATE_KEY"); key != "" {
		opts.PrivateKey = []byte(key)
	} else if keyPath := os.Getenv("GITHUB_APP_PRIVATE_KEY_PATH"); keyPath != "" {
		//nolint:gosec // G304: key path is operator supplied
		if opts.PrivateKey, err = os.ReadFile(keyPath); err != nil {
			return opts, fmt.Errorf("reading GITHUB_APP_PRIVATE_KEY_PATH: %w", err)
		}
	}
	return opts, nil
}

func (f *rootFlags) newClient() (*github.Client, error) {
	opts, err := f.clientOptions()
	if err != nil {
		return nil, err
	}
	client, err := ghclient.New(opts)
	if err != nil {
		if errors.Is(err, ghclient.ErrNoCredentials) {
			return nil, errors.New(
				"github credentials required\nProvide via -token flag, GITHUB_TOKEN env var, or GITHUB_APP_ID, " +
					"GITHUB_INSTALLATION_ID and GITHUB_APP_PRIVATE_KEY",
			)
		}
		return nil, err
	}
	return client, nil
}

func getEnvOrFlag(flagValue, envKey string) string {
	if flagValue != "" {
		return flagValue
	}
	return os.Getenv(envKey)
}

func envInt64(key string) (int64, error) {
	v := os.Getenv(key)
	if v == "" {
		return 0, nil
	}
	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return n, nil
}

var prURLPattern = regexp.MustCompile(`github\.com/([^/]+)/([^/]+)/pull/(\d+)(?:/.*)?$`)

// parsePRURL extracts owner, repo, and PR number from a GitHub PR URL
// Handles formats:
//   - https://github.com/owner/repo/pull/123
//   - https://github.com/owner/repo/pull/123/files
func parsePRURL(url string) (string, string, int, error) {
	matches := prURLPattern.FindStringSubmatch(url)
	if len(matches) != 4 {
		return "", "", 0, fmt.Errorf(
			"invalid PR URL format, expected: https://github.com/owner/repo/pull/123, got: %s",
			url,
		)
	}

	prNum, err := strconv.Atoi(matches[3])
	if err != nil {
		return "", "", 0, fmt.Errorf("invalid PR number: %w", err)
	}
	return matches[1], matches[2], prNum, nil
}
