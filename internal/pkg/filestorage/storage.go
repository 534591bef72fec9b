package filestorage

import (
	"context"
	"mime/multipart"
)

// Storage persists uploaded note files and hands back an opaque locator
// (URL stored on the note row) plus a key used for later deletion.
type Storage interface {
	// Save stores the uploaded file and returns its public locator and
	// deletion key.
	Save(ctx context.Context, fileHeader *multipart.FileHeader) (url string, key string, err error)

	// Delete removes a previously stored file. Deleting a missing file is
	// not an error.
	Delete(ctx context.Context, key string) error
}
