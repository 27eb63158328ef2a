// Package storage is the blob store behind note file uploads. Objects are
// addressed by slash-separated paths; saving to an existing path overwrites.
package storage

import (
	"context"
	"fmt"
	"io"
	"path"
	"time"

	"github.com/google/uuid"
)

// ObjectStorage stores uploaded note files by path.
type ObjectStorage interface {
	// Save writes the object at path, replacing any existing one, and
	// returns the stored path.
	Save(ctx context.Context, objectPath string, r io.Reader) (string, error)

	// Open returns a reader for the object at path.
	Open(ctx context.Context, objectPath string) (io.ReadCloser, error)

	// Remove deletes the object at path. Removing a missing object is not
	// an error.
	Remove(ctx context.Context, objectPath string) error
}

// UnfiledSegment is the path segment used when a note has no folder.
const UnfiledSegment = "unfiled"

// ObjectPath builds the storage path for an upload:
// {userId}/{folderId|unfiled}/{unixMilli}-{filename}. The timestamp prefix
// keeps repeated uploads of the same filename distinct.
func ObjectPath(userID uuid.UUID, folderID *uuid.UUID, filename string, now time.Time) string {
	folderSegment := UnfiledSegment
	if folderID != nil {
		folderSegment = folderID.String()
	}
	return path.Join(
		userID.String(),
		folderSegment,
		fmt.Sprintf("%d-%s", now.UnixMilli(), path.Base(filename)),
	)
}
