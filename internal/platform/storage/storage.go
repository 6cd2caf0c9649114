package storage

import (
	"context"
	"fmt"
	"io"
	"path"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
)

// BlobStore holds the raw bytes of uploaded files.
type BlobStore interface {
	Put(ctx context.Context, key string, r io.Reader, contentType string) error
	Open(ctx context.Context, key string) (io.ReadCloser, error)
	Delete(ctx context.Context, key string) error
}

var unsafeName = regexp.MustCompile(`[^A-Za-z0-9._-]+`)

// ObjectKey builds "uploads/<owner>/<unix-ms>-<name>" with the file name
// reduced to a safe charset.
func ObjectKey(ownerID uuid.UUID, originalName string, now time.Time) string {
	name := filepath.Base(strings.TrimSpace(originalName))
	name = unsafeName.ReplaceAllString(name, "_")
	name = strings.Trim(name, "._")
	if name == "" {
		name = "upload"
	}
	return path.Join("uploads", ownerID.String(), fmt.Sprintf("%d-%s", now.UnixMilli(), name))
}
