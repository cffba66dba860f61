package sync

import (
	"context"
	"io"
)

// Destination is a publicly readable bucket that synced files are written to.
type Destination interface {
	// Bucket returns the name of the bucket behind this destination.
	Bucket() string
	// Put writes r to the object at the given relative key with public-read access.
	Put(ctx context.Context, key string, r io.Reader, contentType string) error
	// SetPolicy replaces the bucket's access policy.
	SetPolicy(ctx context.Context, p *Policy) error
}
