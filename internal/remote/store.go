// Package remote defines the object-store interface the sync engine talks
// to, plus the S3 implementation used in production. Objects live in a
// folder hierarchy and carry a flat string property bag, so local state can
// be rebuilt from the remote side alone.
package remote

import (
	"context"
	"errors"

	"github.com/dmitrijs2005/songsync/internal/models"
)

var ErrNotFound = errors.New("remote object not found")

// UploadItem describes one object to create: placement, display name,
// content type, the self-describing property bag, and the content bytes.
type UploadItem struct {
	ParentID    string
	Name        string
	ContentType string
	Properties  map[string]string
	Content     []byte
}

// FileStore is the remote object store consumed by the sync engine.
//
// Implementations must treat folder ids as opaque handles; the S3 backend
// uses key prefixes, a Drive-style backend would use real node ids.
type FileStore interface {
	// FindOrCreateFolder returns the id of the named child folder under
	// parentID, creating it when missing.
	FindOrCreateFolder(ctx context.Context, name, parentID string) (string, error)

	// ListChildren returns every direct child of folderID, folders included.
	// Implementations drain all result pages before returning.
	ListChildren(ctx context.Context, folderID string) ([]models.RemoteObjectRecord, error)

	// GetContent downloads an object's content bytes.
	GetContent(ctx context.Context, id string) ([]byte, error)

	// UploadObject creates a new object and returns its record.
	UploadObject(ctx context.Context, item UploadItem) (*models.RemoteObjectRecord, error)

	// UpdateObjectContent replaces an existing object's content, keeping its
	// property bag intact.
	UpdateObjectContent(ctx context.Context, id string, content []byte) error

	// UpdateObjectMetadata replaces an existing object's property bag.
	UpdateObjectMetadata(ctx context.Context, id string, properties map[string]string) error

	// BatchUpload submits several uploads as one combined operation. The
	// result slice is order-correlated with items; a nil entry marks a
	// failed item.
	BatchUpload(ctx context.Context, items []UploadItem) ([]*models.RemoteObjectRecord, error)

	// BatchDelete removes the given object ids, returning how many were
	// actually deleted.
	BatchDelete(ctx context.Context, ids []string) (int, error)
}
