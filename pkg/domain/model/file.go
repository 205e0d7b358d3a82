package model

import (
	"regexp"
	"strings"
)

// fileIDPattern matches the numeric file ID embedded in a Dryad download URL
var fileIDPattern = regexp.MustCompile(`/files/(\d+)`)

// ExtractFileID returns the numeric file ID from an ID or a full download URL.
// Input without a /files/<digits> component is assumed to already be an ID and
// is returned trimmed of surrounding whitespace. No validation happens here;
// a bogus ID surfaces later as a metadata fetch failure.
func ExtractFileID(arg string) string {
	if m := fileIDPattern.FindStringSubmatch(arg); m != nil {
		return m[1]
	}
	return strings.TrimSpace(arg)
}

// FileDescriptor represents one Dryad file as described by a single metadata
// response. It is fully populated before any download starts and discarded
// when the process exits.
type FileDescriptor struct {
	ID          string // Numeric file ID
	Filename    string // Metadata "path" field, used verbatim as the local filename
	Digest      string // Hex-encoded digest from metadata (Dryad documents it as MD5)
	Size        int64  // Declared size in bytes, drives progress reporting only
	DownloadURL string // Absolute download URL resolved from the metadata links
}

// FetchResult represents the outcome of a verified download
type FetchResult struct {
	Path   string // Absolute path of the written file
	Digest string // Hex-encoded SHA-256 of the written bytes
	Size   int64  // Number of bytes written
}

// DigestsMatch compares two hex-encoded digests ignoring case, so that
// upper/lowercase hex differences never cause a false mismatch.
func DigestsMatch(expected, actual string) bool {
	return strings.EqualFold(expected, actual)
}
