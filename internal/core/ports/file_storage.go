package ports

import "context"

// FileStorage stores invoice files.
type FileStorage interface {
	// Upload writes content under path and returns the file's URL.
	Upload(ctx context.Context, path string, content []byte, contentType string) (string, error)

	// Delete removes path. Deleting a missing file is not an error.
	Delete(ctx context.Context, path string) error
}
