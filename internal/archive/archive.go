// Package archive uploads snapshot history files to an off-host backend.
package archive

import (
	"context"
	"io"
)

// Archiver stores named history files in a backend. Uploads overwrite any
// existing object of the same name; history files only ever grow, so the
// newest upload is always the most complete.
type Archiver interface {
	// Put stores the contents of r under name. size is the number of
	// bytes that will be read from r.
	Put(ctx context.Context, name string, r io.Reader, size int64) error

	// ValidateSetup verifies that the backend is accessible and properly
	// configured.
	ValidateSetup(ctx context.Context) error
}
