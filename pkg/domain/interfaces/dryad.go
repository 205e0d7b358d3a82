package interfaces

import (
	"context"
	"io"

	"github.com/dryadget/dryadget/pkg/domain/model"
)

// DryadClient defines operations against the Dryad REST API
type DryadClient interface {
	// FileMetadata fetches the metadata document for a file ID and returns
	// a fully populated descriptor
	FileMetadata(ctx context.Context, id string) (*model.FileDescriptor, error)

	// OpenDownload opens a streamed GET against a resolved download URL,
	// following redirects. The caller must close the returned body.
	OpenDownload(ctx context.Context, url string) (io.ReadCloser, error)
}
