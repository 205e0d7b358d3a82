package usecase

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"

	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"
	"github.com/spf13/afero"

	"github.com/dryadget/dryadget/pkg/domain/interfaces"
	"github.com/dryadget/dryadget/pkg/domain/model"
	"github.com/dryadget/dryadget/pkg/utils/progress"
)

// copyChunkSize is the buffer size for both the download copy and the
// checksum pass, matching Dryad's recommended 1 MiB transfer chunks.
const copyChunkSize = 1 << 20

// ErrDigestMismatch indicates the downloaded bytes do not hash to the digest
// the metadata API declared
var ErrDigestMismatch = errors.New("checksum mismatch")

type fetchUseCase struct {
	client interfaces.DryadClient
	fs     afero.Fs
}

// NewFetch creates a new instance of FetchUseCase writing through fs
func NewFetch(client interfaces.DryadClient, fs afero.Fs) interfaces.FetchUseCase {
	return &fetchUseCase{
		client: client,
		fs:     fs,
	}
}

// Fetch downloads one Dryad file into outDir and verifies it against the
// metadata digest. On digest mismatch the written file is removed and
// ErrDigestMismatch is returned with both digests attached.
func (uc *fetchUseCase) Fetch(ctx context.Context, arg, outDir string) (*model.FetchResult, error) {
	logger := ctxlog.From(ctx)

	id := model.ExtractFileID(arg)

	absDir, err := filepath.Abs(outDir)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to resolve output directory", goerr.V("dir", outDir))
	}
	if err := uc.fs.MkdirAll(absDir, 0o755); err != nil {
		return nil, goerr.Wrap(err, "failed to create output directory", goerr.V("dir", absDir))
	}

	desc, err := uc.client.FileMetadata(ctx, id)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to fetch file metadata", goerr.V("file_id", id))
	}

	logger.Info("resolved file metadata",
		"file_id", desc.ID,
		"filename", desc.Filename,
		"size_bytes", desc.Size,
		"digest", desc.Digest,
		"download_url", desc.DownloadURL,
	)

	// Filename is used verbatim, as the upstream tool does. A metadata
	// response containing path separators can escape outDir; see README.
	dest := filepath.Join(absDir, desc.Filename)

	logger.Info("starting download",
		"filename", desc.Filename,
		"size_bytes", desc.Size,
		"dest", dest,
	)

	written, err := uc.download(ctx, desc, dest)
	if err != nil {
		return nil, goerr.Wrap(err, "download failed", goerr.V("url", desc.DownloadURL))
	}

	logger.Info("download complete, verifying checksum", "dest", dest, "written_bytes", written)

	actual, err := uc.hashFile(dest)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to hash downloaded file", goerr.V("dest", dest))
	}

	if !model.DigestsMatch(desc.Digest, actual) {
		logger.Error("checksum mismatch",
			"expected", desc.Digest,
			"actual", actual,
			"dest", dest,
		)
		// Do not leave a corrupt file behind. Removal failure of an
		// already-absent file is fine.
		if err := uc.fs.Remove(dest); err != nil && !errors.Is(err, os.ErrNotExist) {
			logger.Warn("failed to remove mismatched file", "dest", dest, "error", err)
		}
		return nil, goerr.Wrap(ErrDigestMismatch, "downloaded file failed verification",
			goerr.V("expected", desc.Digest),
			goerr.V("actual", actual),
		)
	}

	logger.Info("checksum verified", "dest", dest, "digest", actual)

	return &model.FetchResult{
		Path:   dest,
		Digest: actual,
		Size:   written,
	}, nil
}

// download streams the file body to dest in fixed-size chunks, reporting
// progress against the declared size. The destination handle is closed on
// every path; partial files are left for the verifier stage to clean up.
func (uc *fetchUseCase) download(ctx context.Context, desc *model.FileDescriptor, dest string) (int64, error) {
	body, err := uc.client.OpenDownload(ctx, desc.DownloadURL)
	if err != nil {
		return 0, err
	}
	defer body.Close()

	file, err := uc.fs.Create(dest)
	if err != nil {
		return 0, goerr.Wrap(err, "failed to create destination file", goerr.V("dest", dest))
	}
	defer file.Close()

	pw := progress.NewWriter(file, ctxlog.From(ctx), desc.Size)

	buf := make([]byte, copyChunkSize)
	if _, err := io.CopyBuffer(pw, body, buf); err != nil {
		return pw.Transferred(), goerr.Wrap(err, "failed to write response body", goerr.V("dest", dest))
	}

	return pw.Transferred(), nil
}
