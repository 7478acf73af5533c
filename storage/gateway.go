// Package storage is the object storage gateway for listing and content
// images.
package storage

import (
	"context"
	"fmt"
	"io"
	"regexp"
)

// File is one uploaded image.
type File struct {
	Name   string
	Size   int64
	Reader io.Reader
}

// Gateway uploads images to the remote asset host and deletes them by URL.
type Gateway interface {
	Upload(ctx context.Context, f File) (string, error)
	Delete(ctx context.Context, url string) error
}

// publicIDPattern matches the versioned path segment of a delivery URL:
// .../upload/v1712345/<public id>.<ext>. The public id may contain folders.
var publicIDPattern = regexp.MustCompile(`/v\d+/([A-Za-z0-9_\-/]+)\.[A-Za-z0-9]+$`)

// PublicIDFromURL extracts the storage object identifier from a URL.
func PublicIDFromURL(url string) (string, error) {
	m := publicIDPattern.FindStringSubmatch(url)
	if m == nil {
		return "", fmt.Errorf("invalid image URL %q", url)
	}
	return m[1], nil
}
