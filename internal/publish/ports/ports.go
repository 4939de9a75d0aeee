// Package ports declares the interfaces the publishing services depend on.
package ports

import (
	"context"

	"github.com/nathantilsley/pr-assets/internal/publish/domain"
)

// ContentStorePort reads and writes repository contents.
type ContentStorePort interface {
	// Lookup returns what currently exists at loc. A missing path yields
	// an error for which domain.IsNotFound reports true.
	Lookup(ctx context.Context, loc domain.FileLocation) (domain.RemoteFile, error)
	Put(ctx context.Context, w domain.FileWrite) (domain.WriteResult, error)
}

// CommentPort creates comments on issues and pull requests.
type CommentPort interface {
	CreateComment(ctx context.Context, target domain.IssueTarget, body string) error
}

// DiscoveryPort lists the screenshots a run should try to publish.
type DiscoveryPort interface {
	Discover(ctx context.Context) ([]domain.Artifact, error)
}

// ConverterPort turns a raw-format screenshot into a display-format one.
type ConverterPort interface {
	Convert(ctx context.Context, rawPath, displayPath string) error
}

// OutputPort publishes step outputs and failure state to the pipeline.
type OutputPort interface {
	SetOutput(key, value string) error
	AppendSummary(markdown string) error
	Warning(message string)
	Fail(message string)
}
