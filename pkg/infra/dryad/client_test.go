package dryad_test

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/m-mizutani/gt"

	"github.com/dryadget/dryadget/pkg/infra/dryad"
)

const metadataBody = `{
	"path": "data.csv",
	"size": 1048576,
	"digest": "AB12CD34",
	"digestType": "md5",
	"_links": {
		"self": {"href": "/api/v2/files/42"},
		"stash:download": {"href": "/api/v2/files/42/download"}
	}
}`

func testConfig(baseURL string) dryad.Config {
	return dryad.Config{
		BaseURL:        baseURL,
		ConnectTimeout: 5 * time.Second,
		ReadTimeout:    30 * time.Second,
	}
}

func TestNew_InvalidConfig(t *testing.T) {
	_, err := dryad.New(dryad.Config{})
	gt.Error(t, err)
}

func TestFileMetadata_Success(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/v2/files/42", func(w http.ResponseWriter, r *http.Request) {
		gt.Value(t, r.Method).Equal(http.MethodGet)
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, metadataBody)
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	client, err := dryad.New(testConfig(srv.URL))
	gt.NoError(t, err)

	desc, err := client.FileMetadata(context.Background(), "42")
	gt.NoError(t, err)
	gt.Value(t, desc.ID).Equal("42")
	gt.Value(t, desc.Filename).Equal("data.csv")
	gt.Value(t, desc.Digest).Equal("AB12CD34")
	gt.Value(t, desc.Size).Equal(int64(1048576))
	gt.Value(t, desc.DownloadURL).Equal(srv.URL + "/api/v2/files/42/download")
}

func TestFileMetadata_NotFound(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "not found", http.StatusNotFound)
	}))
	defer srv.Close()

	client, err := dryad.New(testConfig(srv.URL))
	gt.NoError(t, err)

	desc, err := client.FileMetadata(context.Background(), "42")
	gt.Error(t, err)
	gt.Value(t, desc).Nil()
	gt.String(t, err.Error()).Contains("unexpected metadata response status")
}

func TestFileMetadata_MalformedJSON(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, "this is not json")
	}))
	defer srv.Close()

	client, err := dryad.New(testConfig(srv.URL))
	gt.NoError(t, err)

	_, err = client.FileMetadata(context.Background(), "42")
	gt.Error(t, err)
	gt.String(t, err.Error()).Contains("failed to decode metadata response")
}

func TestFileMetadata_MissingDownloadLink(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"path": "data.csv", "digest": "ab", "size": 1, "_links": {}}`)
	}))
	defer srv.Close()

	client, err := dryad.New(testConfig(srv.URL))
	gt.NoError(t, err)

	_, err = client.FileMetadata(context.Background(), "42")
	gt.Error(t, err)
	gt.String(t, err.Error()).Contains("no download link")
}

func TestOpenDownload_Success(t *testing.T) {
	payload := []byte("file payload bytes")

	mux := http.NewServeMux()
	mux.HandleFunc("/api/v2/files/42/download", func(w http.ResponseWriter, r *http.Request) {
		// The real endpoint answers with a redirect to the storage backend
		http.Redirect(w, r, "/storage/blob", http.StatusFound)
	})
	mux.HandleFunc("/storage/blob", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write(payload)
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	client, err := dryad.New(testConfig(srv.URL))
	gt.NoError(t, err)

	body, err := client.OpenDownload(context.Background(), srv.URL+"/api/v2/files/42/download")
	gt.NoError(t, err)
	defer body.Close()

	data, err := io.ReadAll(body)
	gt.NoError(t, err)
	gt.Value(t, string(data)).Equal(string(payload))
}

func TestOpenDownload_ServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer srv.Close()

	client, err := dryad.New(testConfig(srv.URL))
	gt.NoError(t, err)

	body, err := client.OpenDownload(context.Background(), srv.URL+"/whatever")
	gt.Error(t, err)
	gt.Value(t, body).Nil()
	gt.String(t, err.Error()).Contains("unexpected download response status")
}
