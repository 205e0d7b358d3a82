package dryad

import (
	"context"
	"encoding/json"
	"io"
	"net"
	"net/http"
	"net/url"
	"time"

	"github.com/m-mizutani/goerr/v2"

	"github.com/dryadget/dryadget/pkg/domain/interfaces"
	"github.com/dryadget/dryadget/pkg/domain/model"
)

// fileMetadata mirrors the fields of GET /api/v2/files/{id} this tool uses
type fileMetadata struct {
	Path   string `json:"path"`
	Digest string `json:"digest"`
	Size   int64  `json:"size"`
	Links  struct {
		Download struct {
			Href string `json:"href"`
		} `json:"stash:download"`
	} `json:"_links"`
}

type client struct {
	baseURL string
	// Metadata requests get an overall deadline. The download client only
	// bounds connect and response headers, since large bodies can take
	// arbitrarily long to stream.
	metaClient     *http.Client
	downloadClient *http.Client
}

// Config holds connection settings for the Dryad API
type Config struct {
	BaseURL        string
	ConnectTimeout time.Duration
	ReadTimeout    time.Duration
}

// New creates a Dryad API client
func New(cfg Config) (interfaces.DryadClient, error) {
	if cfg.BaseURL == "" {
		return nil, goerr.New("base URL must not be empty")
	}
	if _, err := url.Parse(cfg.BaseURL); err != nil {
		return nil, goerr.Wrap(err, "invalid base URL", goerr.V("base_url", cfg.BaseURL))
	}

	dialer := &net.Dialer{Timeout: cfg.ConnectTimeout}
	transport := &http.Transport{
		DialContext:           dialer.DialContext,
		ResponseHeaderTimeout: cfg.ReadTimeout,
	}

	return &client{
		baseURL: cfg.BaseURL,
		metaClient: &http.Client{
			Transport: transport,
			Timeout:   cfg.ReadTimeout,
		},
		downloadClient: &http.Client{
			Transport: transport,
		},
	}, nil
}

// FileMetadata fetches the metadata document for a file ID and returns a
// fully populated descriptor. Any non-2xx status is an error.
func (c *client) FileMetadata(ctx context.Context, id string) (*model.FileDescriptor, error) {
	endpoint, err := url.JoinPath(c.baseURL, "/api/v2/files/", id)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to build metadata URL", goerr.V("file_id", id))
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create metadata request", goerr.V("url", endpoint))
	}

	resp, err := c.metaClient.Do(req)
	if err != nil {
		return nil, goerr.Wrap(err, "metadata request failed", goerr.V("url", endpoint))
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, goerr.New("unexpected metadata response status",
			goerr.V("url", endpoint),
			goerr.V("status", resp.StatusCode),
		)
	}

	var meta fileMetadata
	if err := json.NewDecoder(resp.Body).Decode(&meta); err != nil {
		return nil, goerr.Wrap(err, "failed to decode metadata response", goerr.V("url", endpoint))
	}

	if meta.Links.Download.Href == "" {
		return nil, goerr.New("metadata has no download link", goerr.V("file_id", id))
	}

	downloadURL, err := url.JoinPath(c.baseURL, meta.Links.Download.Href)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to resolve download URL",
			goerr.V("href", meta.Links.Download.Href),
		)
	}

	return &model.FileDescriptor{
		ID:          id,
		Filename:    meta.Path,
		Digest:      meta.Digest,
		Size:        meta.Size,
		DownloadURL: downloadURL,
	}, nil
}

// OpenDownload opens a streamed GET against a resolved download URL. Redirects
// are followed. The caller must close the returned body.
func (c *client) OpenDownload(ctx context.Context, downloadURL string) (io.ReadCloser, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, downloadURL, nil)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create download request", goerr.V("url", downloadURL))
	}

	resp, err := c.downloadClient.Do(req)
	if err != nil {
		return nil, goerr.Wrap(err, "download request failed", goerr.V("url", downloadURL))
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		resp.Body.Close()
		return nil, goerr.New("unexpected download response status",
			goerr.V("url", downloadURL),
			goerr.V("status", resp.StatusCode),
		)
	}

	return resp.Body, nil
}
