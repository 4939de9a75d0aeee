// Package contents reads and writes repository files through the GitHub
// contents API.
package contents

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	gogithub "github.com/google/go-github/v68/github"

	"github.com/nathantilsley/pr-assets/internal/publish/domain"
)

// Adapter implements ports.ContentStorePort on top of the repository
// contents endpoints.
type Adapter struct {
	client *gogithub.Client
}

// New creates a new contents adapter.
func New(client *gogithub.Client) *Adapter {
	return &Adapter{client: client}
}

// Lookup fetches the metadata at loc. A 404 is mapped to domain.NotFoundError
// so callers can treat it as "create, not update".
func (a *Adapter) Lookup(ctx context.Context, loc domain.FileLocation) (domain.RemoteFile, error) {
	file, dir, resp, err := a.client.Repositories.GetContents(
		ctx,
		loc.Owner,
		loc.Repo,
		loc.Path,
		&gogithub.RepositoryContentGetOptions{
			Ref: loc.Branch,
		},
	)
	if err != nil {
		if isNotFound(resp, err) {
			return domain.RemoteFile{}, domain.NewNotFoundError(loc, err)
		}
		return domain.RemoteFile{}, fmt.Errorf("getting contents of %s: %w", loc.Path, err)
	}

	if file == nil {
		return domain.RemoteFile{IsDir: dir != nil}, nil
	}
	return domain.RemoteFile{SHA: file.GetSHA()}, nil
}

// Put creates the file, or updates it when w carries a prior SHA.
// go-github base64-encodes Content when serialising the request.
func (a *Adapter) Put(ctx context.Context, w domain.FileWrite) (domain.WriteResult, error) {
	opts := &gogithub.RepositoryContentFileOptions{
		Message: gogithub.Ptr(w.Message),
		Content: w.Content,
		Branch:  gogithub.Ptr(w.Location.Branch),
		SHA:     w.PriorSHA,
	}

	var (
		res *gogithub.RepositoryContentResponse
		err error
	)
	if w.IsUpdate() {
		res, _, err = a.client.Repositories.UpdateFile(ctx, w.Location.Owner, w.Location.Repo, w.Location.Path, opts)
	} else {
		res, _, err = a.client.Repositories.CreateFile(ctx, w.Location.Owner, w.Location.Repo, w.Location.Path, opts)
	}
	if err != nil {
		return domain.WriteResult{}, fmt.Errorf("writing %s: %w", w.Location.Path, err)
	}

	return domain.WriteResult{DownloadURL: res.GetContent().GetDownloadURL()}, nil
}

func isNotFound(resp *gogithub.Response, err error) bool {
	if resp != nil && resp.StatusCode == http.StatusNotFound {
		return true
	}
	var ghErr *gogithub.ErrorResponse
	return errors.As(err, &ghErr) && ghErr.Response != nil && ghErr.Response.StatusCode == http.StatusNotFound
}
