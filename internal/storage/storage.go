package storage

import (
	"context"
	"errors"
	"path"
	"strings"
)

// ErrNotFound is returned when no document exists under the requested filename.
var ErrNotFound = errors.New("document not found")

// ErrInvalidFilename is returned when a filename reduces to an empty or
// unusable base name.
var ErrInvalidFilename = errors.New("invalid filename")

// DocumentStore is the contract for durable document storage, addressed by
// filename. Implementations must treat only the base component of a filename
// as significant and must never touch anything outside their configured root.
type DocumentStore interface {
	// Save persists content under filename, overwriting any previous document
	// with the same name. It returns the filename actually used.
	Save(ctx context.Context, content []byte, filename string) (string, error)

	// Get returns the stored content. Returns ErrNotFound if absent.
	Get(ctx context.Context, filename string) ([]byte, error)

	// Reference returns a medium-specific locator for the document: an
	// absolute path for local storage, an opaque URI for remote storage.
	// Returns ErrNotFound if absent.
	Reference(ctx context.Context, filename string) (string, error)

	// List returns the filenames of all stored documents, in no particular order.
	List(ctx context.Context) ([]string, error)

	// Exists reports whether a document is stored under filename. Absence is
	// not an error.
	Exists(ctx context.Context, filename string) bool

	// Delete removes the document and reports whether it existed and was
	// removed. Deletion is best-effort: underlying I/O errors are logged and
	// reported as false, never raised.
	Delete(ctx context.Context, filename string) bool
}

// baseName reduces an externally supplied filename to its base component,
// defending against path traversal. Backslashes are treated as separators so
// Windows-style paths cannot smuggle directory components through.
func baseName(filename string) (string, error) {
	name := path.Base(strings.ReplaceAll(filename, `\`, "/"))
	switch name {
	case "", ".", "..", "/":
		return "", ErrInvalidFilename
	}
	return name, nil
}
