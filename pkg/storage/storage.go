// Package storage is the boundary to the remote media host.
package storage

import (
	"context"
	"errors"
)

// ErrNotFound is returned by Lookup when no asset has the requested id.
var ErrNotFound = errors.New("remote asset not found")

// UploadOptions places an upload on the remote host.
type UploadOptions struct {
	// RemoteID is the stable id the asset is stored under.
	RemoteID string
	// Folder is the folder the asset is listed in.
	Folder string
	// FileName is only used for the multipart part name.
	FileName string
	// Overwrite replaces an existing asset with the same id.
	Overwrite bool
}

// Storage resolves and uploads remote media. Implementations don't retry.
type Storage interface {
	// Lookup returns the public URL of the asset with the given id, or
	// ErrNotFound.
	Lookup(ctx context.Context, remoteID string) (string, error)
	// Upload stores data and returns its public URL.
	Upload(ctx context.Context, data []byte, opts UploadOptions) (string, error)
}
