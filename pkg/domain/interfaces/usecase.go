package interfaces

import (
	"context"

	"github.com/dryadget/dryadget/pkg/domain/model"
)

// FetchUseCase defines the single-file download-and-verify operation
type FetchUseCase interface {
	// Fetch resolves arg (file ID or download URL) to a file ID, fetches its
	// metadata, downloads the file into outDir under its original name, and
	// verifies the written bytes against the metadata digest
	Fetch(ctx context.Context, arg, outDir string) (*model.FetchResult, error)
}
