// Package ports defines interfaces (contracts) between layers.
// These interfaces enable dependency injection and testability.
// Implementations live in adapters/.
package ports

import (
	"context"
	"time"
)

// -----------------------------------------------------------------------------
// Infrastructure Ports
// -----------------------------------------------------------------------------

// Clock abstracts time for testability.
type Clock interface {
	Now() time.Time
}

// IDGenerator generates unique identifiers.
type IDGenerator interface {
	New() string
}

// Digester computes content digests.
type Digester interface {
	// Sum returns a hex digest of data.
	Sum(data []byte) string
}

// -----------------------------------------------------------------------------
// Schema Input / Descriptor Output
// -----------------------------------------------------------------------------

// DocumentSource supplies schema documents.
type DocumentSource interface {
	// Read returns the raw bytes of the document at path.
	Read(ctx context.Context, path string) ([]byte, error)

	// Resolve returns the path of ref, which is relative to the document at from.
	// The result is canonical: two references to one document resolve to the
	// same string.
	Resolve(from, ref string) string
}

// OutputWriter persists rendered descriptors.
type OutputWriter interface {
	// EnsureDir creates dir and its parents. An existing directory is not
	// an error.
	EnsureDir(ctx context.Context, dir string) error

	// Write stores data at path. It reports false when the existing content
	// already matched and nothing was written.
	Write(ctx context.Context, path string, data []byte) (bool, error)
}

// -----------------------------------------------------------------------------
// Observability
// -----------------------------------------------------------------------------

// Metrics records compile session statistics.
type Metrics interface {
	// RecordSession records a finished session and its outcome
	// ("ok" or an error kind).
	RecordSession(outcome string, duration time.Duration)

	// RecordEntities records how many entities of a kind a session emitted.
	RecordEntities(kind string, n int)

	// RecordDocuments records how many documents a session loaded.
	RecordDocuments(n int)

	// RecordWrite records one output file, written or skipped as unchanged.
	RecordWrite(written bool)
}
