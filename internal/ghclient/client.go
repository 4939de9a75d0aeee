// Package ghclient builds an authenticated go-github client from the
// credentials a workflow provides.
package ghclient

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/bradleyfalzon/ghinstallation/v2"
	"github.com/google/go-github/v68/github"
)

// DefaultAPIURL is the public GitHub REST endpoint.
const DefaultAPIURL = "https://api.github.com"

// ErrNoCredentials is returned when neither a token nor GitHub App
// credentials are configured.
var ErrNoCredentials = errors.New("github token or app credentials required")

// Options selects how the client authenticates. A token takes precedence
// over GitHub App credentials.
type Options struct {
	Token          string
	AppID          int64
	InstallationID int64
	PrivateKey     []byte
	APIURL         string
}

func (o Options) hasApp() bool {
	return o.AppID != 0 && o.InstallationID != 0 && len(o.PrivateKey) > 0
}

func (o Options) enterprise() bool {
	return o.APIURL != "" && strings.TrimSuffix(o.APIURL, "/") != DefaultAPIURL
}

// New creates a client for the configured credentials and API endpoint.
func New(opts Options) (*github.Client, error) {
	var client *github.Client

	switch {
	case opts.Token != "":
		client = github.NewClient(nil).WithAuthToken(opts.Token)
	case opts.hasApp():
		tr, err := ghinstallation.New(http.DefaultTransport, opts.AppID, opts.InstallationID, opts.PrivateKey)
		if err != nil {
			return nil, fmt.Errorf("creating app installation transport: %w", err)
		}
		if opts.enterprise() {
			tr.BaseURL = strings.TrimSuffix(opts.APIURL, "/")
		}
		client = github.NewClient(&http.Client{Transport: tr})
	default:
		return nil, ErrNoCredentials
	}

	if opts.enterprise() {
		ent, err := client.WithEnterpriseURLs(opts.APIURL, opts.APIURL)
		if err != nil {
			return nil, fmt.Errorf("configuring API URL %s: %w", opts.APIURL, err)
		}
		client = ent
	}
	return client, nil
}
