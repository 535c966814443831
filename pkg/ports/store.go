package ports

import (
	"context"
	"errors"

	"github.com/aretw0/txtree/pkg/document"
)

// ErrDocumentNotFound is returned by Load when no snapshot exists for a name.
var ErrDocumentNotFound = errors.New("document not found")

// SnapshotStore persists committed documents by name.
// Only committed state is ever saved; transactions do not survive a restart.
type SnapshotStore interface {
	// Save persists the document file under name, replacing any previous one.
	Save(ctx context.Context, name string, f *document.File) error

	// Load retrieves the document file saved under name.
	// Returns ErrDocumentNotFound if the document does not exist.
	Load(ctx context.Context, name string) (*document.File, error)

	// Delete removes the document. Deleting a missing document is not an error.
	Delete(ctx context.Context, name string) error

	// List returns the names of all stored documents.
	List(ctx context.Context) ([]string, error)
}
